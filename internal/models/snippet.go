package models

import "time"

// Snippet represents one shared text entry as it is persisted in the store.
// The JSON tags double as the on-disk layout of the file backend, so renaming
// a field is a breaking change for existing stores.
type Snippet struct {
	// ID is the short opaque identifier used in share links.
	// Six case-sensitive alphanumeric characters, unique within the store.
	ID string `json:"id"`

	// Text is the shared content, stored with surrounding whitespace trimmed.
	Text string `json:"text"`

	// CreatedAt is set once at creation and never changes. It also drives
	// retention: snippets older than the retention window are dropped.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is set on every successful edit, nil until the first one.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	// Likes holds the visitor tokens that have liked this snippet.
	// Kept as a plain slice so it serializes cleanly; membership is
	// maintained by the service, which never inserts duplicates.
	Likes []string `json:"likes"`

	// LikesCount caches len(Likes) for the API response.
	LikesCount int `json:"likesCount"`

	// CreatorID is the visitor token captured at creation. The creator may
	// always edit the snippet, regardless of the Editable flag.
	CreatorID string `json:"creatorId"`

	// Editable, when true, lets any visitor edit the snippet.
	Editable bool `json:"editable"`
}

// HasLiked reports whether the given visitor token is in the likes set.
func (s *Snippet) HasLiked(visitorID string) bool {
	for _, id := range s.Likes {
		if id == visitorID {
			return true
		}
	}
	return false
}

// CanEdit reports whether the given visitor may modify the snippet:
// the creator always can, anyone can when the snippet is marked editable.
func (s *Snippet) CanEdit(visitorID string) bool {
	return visitorID == s.CreatorID || s.Editable
}

// Normalize repairs derived fields after decoding a persisted snippet:
// a nil likes slice becomes empty and LikesCount is recomputed so the
// cached count can never drift from the set it mirrors.
func (s *Snippet) Normalize() {
	if s.Likes == nil {
		s.Likes = []string{}
	}
	s.LikesCount = len(s.Likes)
}

// ViewFor annotates the snippet for the requesting visitor. The Editable
// field of the view is the computed authorization result, not the raw flag.
func (s *Snippet) ViewFor(visitorID string) SnippetView {
	return SnippetView{
		ID:         s.ID,
		Text:       s.Text,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		Likes:      s.Likes,
		LikesCount: s.LikesCount,
		CreatorID:  s.CreatorID,
		Editable:   s.CanEdit(visitorID),
		HasLiked:   s.HasLiked(visitorID),
	}
}

// SnippetView is a Snippet annotated for one requesting visitor.
// This is the shape every API response uses.
type SnippetView struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
	Likes      []string   `json:"likes"`
	LikesCount int        `json:"likesCount"`
	CreatorID  string     `json:"creatorId"`
	Editable   bool       `json:"editable"`
	HasLiked   bool       `json:"hasLiked"`
}
