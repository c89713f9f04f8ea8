package handler

import (
	"net/http"

	cacheddocs "clientbrief/internal/cache/documents"
)

// DebugHandler exposes operational read-outs that are useful while
// poking at a running gateway.
type DebugHandler struct {
	documents *cacheddocs.CachedStore
}

func NewDebugHandler(documents *cacheddocs.CachedStore) *DebugHandler {
	return &DebugHandler{documents: documents}
}

// HandleCacheMetrics serves GET /debug/cache-metrics.
func (h *DebugHandler) HandleCacheMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{
		"document_cache": h.documents.Metrics(),
	})
}
