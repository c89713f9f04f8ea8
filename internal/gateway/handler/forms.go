package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"clientbrief/internal/form"
	"clientbrief/internal/gateway/service/events"
	formsvc "clientbrief/internal/gateway/service/forms"
	intakesvc "clientbrief/internal/gateway/service/intake"
)

// FormsHandler serves the operator-facing form endpoints.
type FormsHandler struct {
	forms  *formsvc.Service
	intake *intakesvc.Service
	events *events.Service
}

func NewFormsHandler(forms *formsvc.Service, intake *intakesvc.Service, ev *events.Service) *FormsHandler {
	return &FormsHandler{forms: forms, intake: intake, events: ev}
}

// HandleForms serves POST /api/forms (create) and GET /api/forms (list).
func (h *FormsHandler) HandleForms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		list, err := h.forms.List(r.Context())
		if err != nil {
			writeError(w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"forms": list})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// create accepts a JSON form object or, when the Content-Type says so,
// a YAML definition.
func (h *FormsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in form.Form
	if isYAMLRequest(r) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "reading body failed", http.StatusBadRequest)
			return
		}
		def, err := form.ParseDefinition(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		in = *def
	} else {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
	}

	created, err := h.forms.Create(r.Context(), in)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, created)
}

// HandleFormByID serves everything under /api/forms/{id}: the form
// itself, publish, the session list, and the SSE watch stream.
func (h *FormsHandler) HandleFormByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/forms/"), "/")
	parts := strings.SplitN(rest, "/", 2)
	formID := strings.TrimSpace(parts[0])
	if formID == "" {
		http.Error(w, "form id is required", http.StatusBadRequest)
		return
	}
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			f, err := h.forms.Get(r.Context(), formID)
			if err != nil {
				writeError(w, err, http.StatusInternalServerError)
				return
			}
			writeJSON(w, f)
		case http.MethodPut:
			var in form.Form
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				http.Error(w, "invalid json body", http.StatusBadRequest)
				return
			}
			updated, err := h.forms.Update(r.Context(), formID, in)
			if err != nil {
				writeError(w, err, http.StatusBadRequest)
				return
			}
			writeJSON(w, updated)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case "publish":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		published, err := h.forms.Publish(r.Context(), formID)
		if err != nil {
			writeError(w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, published)
	case "sessions":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sessions, err := h.intake.ListByForm(r.Context(), formID)
		if err != nil {
			writeError(w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"form_id": formID, "sessions": sessions})
	case "watch":
		h.handleWatch(w, r, formID)
	default:
		http.NotFound(w, r)
	}
}

func isYAMLRequest(r *http.Request) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	return strings.Contains(ct, "yaml")
}
