package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/evcraddock/folio/internal/contact"
)

// apiResult is the envelope returned by the POST endpoints.
type apiResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func apiOK(w http.ResponseWriter, msg string) {
	apiJSON(w, apiResult{Success: true, Message: msg}, http.StatusOK)
}

func apiFail(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, apiResult{Success: false, Message: msg}, code)
}

// handleListComments handles GET /api/comments.
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.comments.Load(r.Context())
	if err != nil {
		slog.Error("loading comments", "error", err)
		apiFail(w, "server error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	apiJSON(w, comments, http.StatusOK)
}

// handleAddComment handles POST /api/comments.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		apiFail(w, "server error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	name := strings.TrimSpace(req.Name)
	text := strings.TrimSpace(req.Text)
	if name == "" || text == "" {
		apiFail(w, "name and text are required", http.StatusBadRequest)
		return
	}

	c, err := s.comments.Append(r.Context(), name, text)
	if err != nil {
		slog.Error("adding comment", "error", err)
		apiFail(w, "server error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Debug("comment added", "id", c.ID, "name", c.Name)
	apiOK(w, "comment added")
}

// handleContact handles POST /api/contact. Success means the mail was
// handed to the SMTP server, or skipped because SMTP is not configured.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contact.Message
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		slog.Error("decoding contact form", "error", err)
		apiFail(w, "an error occurred while sending: "+err.Error(), http.StatusInternalServerError)
		return
	}

	msg := req.Normalize()
	if err := msg.Validate(); err != nil {
		switch {
		case errors.Is(err, contact.ErrMissingFields), errors.Is(err, contact.ErrInvalidEmail):
			apiFail(w, err.Error(), http.StatusBadRequest)
		default:
			apiFail(w, "an error occurred while sending: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	// The transport error is returned to the client verbatim.
	if err := s.notifier.Notify(r.Context(), msg); err != nil {
		slog.Error("sending contact email", "error", err, "from", msg.Email)
		apiFail(w, "an error occurred while sending: "+err.Error(), http.StatusInternalServerError)
		return
	}

	apiOK(w, "message sent successfully")
}
