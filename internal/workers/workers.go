package workers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"texttide/internal/models"
)

// StartNotifyWorkers launches a pool of worker goroutines that deliver
// contact form events to the notification endpoint. Delivery is best effort:
// a failed POST is logged and the event is dropped, no retries.
func StartNotifyWorkers(workerCount int, events <-chan models.ContactEvent, endpoint string, log zerolog.Logger) {
	log.Info().Int("workers", workerCount).Str("endpoint", endpoint).Msg("Starting notify workers")

	client := &http.Client{Timeout: 10 * time.Second}
	for i := 0; i < workerCount; i++ {
		go notifyWorker(events, endpoint, client, log)
	}
}

// notifyWorker is the function executed by each worker goroutine. It ranges
// over the channel and exits when the channel is closed during shutdown.
func notifyWorker(events <-chan models.ContactEvent, endpoint string, client *http.Client, log zerolog.Logger) {
	for event := range events {
		if err := deliver(client, endpoint, event); err != nil {
			log.Error().Err(err).Str("email", event.Email).Msg("Failed to deliver contact notification")
			continue
		}
		log.Info().Str("email", event.Email).Msg("Contact notification delivered")
	}
}

func deliver(client *http.Client, endpoint string, event models.ContactEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &DeliveryError{Status: resp.StatusCode}
	}
	return nil
}

// DeliveryError reports a non-success response from the notification endpoint.
type DeliveryError struct {
	Status int
}

func (e *DeliveryError) Error() string {
	return http.StatusText(e.Status) + " from notification endpoint"
}
