package models

import "time"

// ContactEvent represents a contact form submission intended to be passed
// through channels. It is forwarded as-is to the configured notification
// endpoint by the worker pool, so the JSON tags are part of the outbound
// payload.
type ContactEvent struct {
	Name       string    `json:"name"`       // Sender's display name
	Email      string    `json:"email"`      // Reply address as given by the sender
	Message    string    `json:"message"`    // The message body
	ReceivedAt time.Time `json:"receivedAt"` // When the submission reached the server
}
