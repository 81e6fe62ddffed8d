package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nuricanozturk01/setupshowroom-public/internal/notifier"
	jwtutil "github.com/nuricanozturk01/setupshowroom-public/pkg/jwt"
	log "github.com/sirupsen/logrus"
)

// streamLifetime caps how long a single subscription may stay open. Clients
// are expected to reconnect when the stream completes.
const streamLifetime = 24 * time.Hour

// StreamHandler owns the notification stream endpoint.
type StreamHandler struct {
	Registry  *notifier.Registry
	JWTSecret string
}

// NewStreamHandler creates a new instance of StreamHandler.
func NewStreamHandler(registry *notifier.Registry, jwtSecret string) *StreamHandler {
	return &StreamHandler{
		Registry:  registry,
		JWTSecret: jwtSecret,
	}
}

// StreamNotificationsHandler turns the request into a text/event-stream and
// pumps the user's events until the client goes away, the lifetime cap fires,
// or the server shuts down. EventSource cannot set request headers, so the
// token travels in the query string.
func (h *StreamHandler) StreamNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		log.WithError(err).Warn("Stream subscribe rejected: invalid token")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	userID := claims.UserID

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// nginx and friends buffer streaming responses unless told otherwise.
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	conn := notifier.NewConnection(userID)
	h.Registry.Put(userID, conn)
	log.WithField("userID", userID).Info("User subscribed to notification stream")

	// Timeout, client disconnect, write failure and shutdown all funnel
	// through this one conditional remove, so a teardown firing for a
	// displaced connection can never evict its replacement.
	defer func() {
		h.Registry.Remove(userID, conn)
		conn.Close()
		log.WithField("userID", userID).Info("Notification stream closed")
	}()

	if err := conn.Send(notifier.EventInit, "Connected!"); err != nil {
		log.WithFields(log.Fields{"userID": userID, "error": err}).Error("Failed to queue init event")
		return
	}

	lifetime := time.NewTimer(streamLifetime)
	defer lifetime.Stop()

	for {
		select {
		case event := <-conn.Events():
			if err := writeEvent(w, flusher, event); err != nil {
				log.WithFields(log.Fields{"userID": userID, "error": err}).Info("Stream write failed, dropping connection")
				return
			}
		case <-r.Context().Done():
			return
		case <-conn.Done():
			// Flush anything queued before the close, the shutdown notice in
			// particular.
			for {
				select {
				case event := <-conn.Events():
					if err := writeEvent(w, flusher, event); err != nil {
						return
					}
				default:
					return
				}
			}
		case <-lifetime.C:
			log.WithField("userID", userID).Info("Stream lifetime reached, completing")
			return
		}
	}
}

// writeEvent writes one frame in the event/data form existing clients parse.
func writeEvent(w http.ResponseWriter, flusher http.Flusher, event notifier.Event) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, event.Data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
