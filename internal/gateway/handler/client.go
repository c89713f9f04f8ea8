package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"clientbrief/internal/form"
	formsvc "clientbrief/internal/gateway/service/forms"
	intakesvc "clientbrief/internal/gateway/service/intake"
)

// ClientHandler serves the published surface clients fill in. Nothing
// here requires authentication; the slug is the only credential.
type ClientHandler struct {
	forms  *formsvc.Service
	intake *intakesvc.Service
}

func NewClientHandler(forms *formsvc.Service, intake *intakesvc.Service) *ClientHandler {
	return &ClientHandler{forms: forms, intake: intake}
}

// clientForm is the payload the external renderer consumes. Internal
// bookkeeping (form id, timestamps, publish flags) stays out of it.
type clientForm struct {
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	ClientName  string         `json:"client_name"`
	Sections    []form.Section `json:"sections"`
}

// HandleClient routes /api/client/{slug}, /api/client/{slug}/sessions,
// /api/client/{slug}/sessions/{id} and its submit action.
func (h *ClientHandler) HandleClient(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/client/"), "/")
	parts := strings.Split(rest, "/")
	slug := strings.TrimSpace(parts[0])
	if slug == "" {
		http.Error(w, "slug is required", http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 1:
		h.getForm(w, r, slug)
	case len(parts) == 2 && parts[1] == "sessions":
		h.startSession(w, r, slug)
	case len(parts) == 3 && parts[1] == "sessions":
		h.saveAnswers(w, r, slug, parts[2])
	case len(parts) == 4 && parts[1] == "sessions" && parts[3] == "submit":
		h.submit(w, r, slug, parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (h *ClientHandler) getForm(w http.ResponseWriter, r *http.Request, slug string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	f, err := h.forms.GetBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, clientForm{
		Slug:        f.Slug,
		Title:       f.Title,
		Description: f.Description,
		ClientName:  f.ClientName,
		Sections:    f.Sections,
	})
}

func (h *ClientHandler) startSession(w http.ResponseWriter, r *http.Request, slug string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, err := h.intake.Start(r.Context(), slug)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, sess)
}

func (h *ClientHandler) saveAnswers(w http.ResponseWriter, r *http.Request, slug, sessionID string) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Answers map[string]any `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	sess, err := h.intake.SaveAnswers(r.Context(), slug, sessionID, in.Answers)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, sess)
}

func (h *ClientHandler) submit(w http.ResponseWriter, r *http.Request, slug, sessionID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, err := h.intake.Submit(r.Context(), slug, sessionID)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, sess)
}
