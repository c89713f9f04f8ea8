package handler

import (
	"net/http"
	"strings"

	briefingsvc "clientbrief/internal/gateway/service/briefing"
)

// SessionsHandler serves analysis and document retrieval for sessions.
type SessionsHandler struct {
	briefing *briefingsvc.Service
}

func NewSessionsHandler(briefing *briefingsvc.Service) *SessionsHandler {
	return &SessionsHandler{briefing: briefing}
}

// HandleSession routes /api/sessions/{id}/analyze, /document,
// /document/url, /analysis, and /documents.
func (h *SessionsHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/sessions/"), "/")
	parts := strings.SplitN(rest, "/", 2)
	sessionID := strings.TrimSpace(parts[0])
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch action {
	case "analyze":
		h.analyze(w, r, sessionID)
	case "document":
		h.document(w, r, sessionID)
	case "document/url":
		h.documentURL(w, r, sessionID)
	case "analysis":
		h.analysis(w, r, sessionID)
	case "documents":
		h.files(w, r, sessionID)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionsHandler) analyze(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	meta, err := h.briefing.Analyze(r.Context(), sessionID)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, meta)
}

func (h *SessionsHandler) document(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	md, err := h.briefing.Document(r.Context(), sessionID)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write(md)
}

func (h *SessionsHandler) documentURL(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	url, err := h.briefing.DocumentURL(r.Context(), sessionID)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"session_id": sessionID, "url": url})
}

func (h *SessionsHandler) analysis(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	raw, err := h.briefing.Analysis(r.Context(), sessionID)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (h *SessionsHandler) files(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	list, err := h.briefing.Files(r.Context(), sessionID)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"session_id": sessionID, "documents": list})
}
