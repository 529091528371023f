package repository

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	apperrors "texttide/internal/errors"
	"texttide/internal/models"
)

// snippetRow is the database shape of a snippet. The autoincrement position
// column records insertion order, so a saved snapshot replays in exactly the
// order it was written.
type snippetRow struct {
	Pos       uint   `gorm:"primaryKey;autoIncrement"`
	SnippetID string `gorm:"uniqueIndex;size:10;not null"`
	Text      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt *time.Time
	Likes     string `gorm:"not null;default:'[]'"` // JSON-encoded visitor tokens
	CreatorID string `gorm:"size:64"`
	Editable  bool
}

func (snippetRow) TableName() string {
	return "snippets"
}

// AutoMigrate creates or updates the snippets table. Used by the 'migrate'
// command and by the server when the sqlite backend is selected.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&snippetRow{})
}

// SqliteSnippetRepository est l'implémentation de SnippetRepository utilisant GORM.
// It honors the same snapshot contract as the file backend: Load returns the
// whole ordered collection and Save replaces it atomically (one transaction).
type SqliteSnippetRepository struct {
	db *gorm.DB
}

// NewSqliteSnippetRepository crée et retourne une nouvelle instance de SqliteSnippetRepository.
func NewSqliteSnippetRepository(db *gorm.DB) *SqliteSnippetRepository {
	return &SqliteSnippetRepository{db: db}
}

// Load returns all snippets ordered by their saved position.
func (r *SqliteSnippetRepository) Load() ([]models.Snippet, error) {
	var rows []snippetRow
	if err := r.db.Order("pos ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.ErrStoreFailed{Op: "load", Err: err}
	}

	snippets := make([]models.Snippet, 0, len(rows))
	for _, row := range rows {
		var likes []string
		if row.Likes != "" {
			if err := json.Unmarshal([]byte(row.Likes), &likes); err != nil {
				return nil, apperrors.ErrStoreFailed{Op: "load", Err: err}
			}
		}
		s := models.Snippet{
			ID:        row.SnippetID,
			Text:      row.Text,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			Likes:     likes,
			CreatorID: row.CreatorID,
			Editable:  row.Editable,
		}
		s.Normalize()
		snippets = append(snippets, s)
	}
	return snippets, nil
}

// Save replaces the whole table with the given collection. Delete-all plus
// insert-all inside one transaction keeps the previous snapshot intact if
// anything fails.
func (r *SqliteSnippetRepository) Save(snippets []models.Snippet) error {
	rows := make([]snippetRow, 0, len(snippets))
	for _, s := range snippets {
		likes, err := json.Marshal(s.Likes)
		if err != nil {
			return apperrors.ErrStoreFailed{Op: "save", Err: err}
		}
		rows = append(rows, snippetRow{
			SnippetID: s.ID,
			Text:      s.Text,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
			Likes:     string(likes),
			CreatorID: s.CreatorID,
			Editable:  s.Editable,
		})
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&snippetRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return apperrors.ErrStoreFailed{Op: "save", Err: err}
	}
	return nil
}
