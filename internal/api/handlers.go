package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "texttide/internal/errors"
	"texttide/internal/identity"
	"texttide/internal/models"
	"texttide/internal/services"
)

// ContactEventsChannel is the global channel used to send contact form events.
// This channel enables asynchronous delivery of notifications without blocking
// the submitting request. It stays nil when no notification endpoint is
// configured, in which case /contact is not registered.
var ContactEventsChannel chan models.ContactEvent

// SetupRoutes configures all Gin API routes and injects necessary dependencies.
// The /collection surface carries the whole shared text store API; /contact is
// only mounted when a notification endpoint is configured.
func SetupRoutes(router *gin.Engine, snippetService *services.SnippetService, log zerolog.Logger) {
	// Health Check Route - used for monitoring service availability
	router.GET("/health", HealthCheckHandler)

	// Shared text store routes. The collection resource dispatches on the
	// HTTP method rather than on sub-paths, so all verbs mount on /collection.
	router.GET("/collection", ListSnippetsHandler(snippetService, log))
	router.POST("/collection", CreateSnippetHandler(snippetService, log))
	router.PUT("/collection", UpdateSnippetHandler(snippetService, log))
	router.PATCH("/collection", ToggleLikeHandler(snippetService, log))
	router.DELETE("/collection", DeleteSnippetHandler(snippetService, log))
	router.GET("/collection/:id", GetSnippetHandler(snippetService, log))

	if ContactEventsChannel != nil {
		router.POST("/contact", ContactHandler(log))
	}

	// Unsupported verbs answer 405 with an Allow header instead of gin's
	// default 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(MethodNotAllowedHandler)
}

// HealthCheckHandler handles the /health route to verify service status
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MethodNotAllowedHandler answers any unsupported verb with 405 and an Allow
// header listing the verbs the resource does support.
func MethodNotAllowedHandler(c *gin.Context) {
	path := c.Request.URL.Path
	switch {
	case strings.HasPrefix(path, "/collection/"):
		c.Header("Allow", "GET")
	case path == "/collection":
		c.Header("Allow", "GET, POST, PUT, PATCH, DELETE")
	case path == "/contact":
		c.Header("Allow", "POST")
	default:
		c.Header("Allow", "GET")
	}
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}

// visitorID derives the requester's identity token once per request from the
// client address and declared user agent.
func visitorID(c *gin.Context) string {
	return identity.FromRequest(c.ClientIP(), c.GetHeader("User-Agent"))
}

// CreateSnippetRequest represents the JSON request body for sharing a new text
type CreateSnippetRequest struct {
	Text     string `json:"text"`     // The content to share; must be non-blank after trimming
	Editable bool   `json:"editable"` // When true, anyone may edit the snippet (default false)
}

// UpdateSnippetRequest represents the JSON request body for editing a snippet
type UpdateSnippetRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// LikeRequest represents the JSON request body for toggling a like
type LikeRequest struct {
	ID     string `json:"id"`
	Action string `json:"action"` // Only "like" is supported
}

// DeleteSnippetRequest represents the JSON request body for deleting a snippet
type DeleteSnippetRequest struct {
	ID string `json:"id"`
}

// ListSnippetsHandler returns every live snippet annotated for the requesting
// visitor, most recent first.
func ListSnippetsHandler(snippetService *services.SnippetService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := snippetService.List(visitorID(c))
		if err != nil {
			log.Error().Err(err).Msg("Error listing snippets")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

// GetSnippetHandler returns a single snippet by id, annotated for the visitor.
func GetSnippetHandler(snippetService *services.SnippetService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := snippetService.Get(c.Param("id"), visitorID(c))
		if err != nil {
			if errors.Is(err, apperrors.ErrSnippetNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Snippet not found"})
				return
			}
			log.Error().Err(err).Str("id", c.Param("id")).Msg("Error retrieving snippet")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// CreateSnippetHandler handles sharing a new text. The created snippet is
// returned annotated for its creator, so hasLiked is false and editable true.
func CreateSnippetHandler(snippetService *services.SnippetService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSnippetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		view, err := snippetService.Create(req.Text, req.Editable, visitorID(c))
		if err != nil {
			if errors.Is(err, apperrors.ErrEmptyText) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Text must not be empty"})
				return
			}
			log.Error().Err(err).Msg("Error creating snippet")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusCreated, view)
	}
}

// UpdateSnippetHandler handles editing a snippet's text. Authorization: the
// visitor must be the creator or the snippet must be marked editable.
func UpdateSnippetHandler(snippetService *services.SnippetService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateSnippetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		if req.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Snippet id is required"})
			return
		}

		view, err := snippetService.Update(req.ID, req.Text, visitorID(c))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrSnippetNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Snippet not found"})
			case errors.Is(err, apperrors.ErrEmptyText):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Text must not be empty"})
			case errors.Is(err, apperrors.ErrNotAuthorized):
				c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to edit this snippet"})
			default:
				log.Error().Err(err).Str("id", req.ID).Msg("Error updating snippet")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// ToggleLikeHandler handles PATCH /collection with action "like": an
// idempotent toggle of the visitor's like on the snippet.
func ToggleLikeHandler(snippetService *services.SnippetService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LikeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		if req.ID == "" || req.Action != "like" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		hasLiked, likesCount, err := snippetService.ToggleLike(req.ID, visitorID(c))
		if err != nil {
			if errors.Is(err, apperrors.ErrSnippetNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Snippet not found"})
				return
			}
			log.Error().Err(err).Str("id", req.ID).Msg("Error toggling like")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"hasLiked": hasLiked, "likesCount": likesCount})
	}
}

// DeleteSnippetHandler handles removal of a snippet. Deletion is idempotent:
// the response confirms the id whether or not it existed.
func DeleteSnippetHandler(snippetService *services.SnippetService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteSnippetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		if req.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Snippet id is required"})
			return
		}

		if err := snippetService.Delete(req.ID, visitorID(c)); err != nil {
			log.Error().Err(err).Str("id", req.ID).Msg("Error deleting snippet")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": req.ID})
	}
}

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// ContactHandler queues a contact form submission for asynchronous delivery
// to the configured notification endpoint using a non-blocking send, so a
// full buffer drops the event rather than delaying the response.
func ContactHandler(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		event := models.ContactEvent{
			Name:       req.Name,
			Email:      req.Email,
			Message:    req.Message,
			ReceivedAt: time.Now(),
		}

		select {
		case ContactEventsChannel <- event:
			log.Info().Str("email", req.Email).Msg("Contact event queued")
		default:
			log.Warn().Str("email", req.Email).Msg("ContactEventsChannel is full, dropping contact event")
		}

		c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
	}
}
