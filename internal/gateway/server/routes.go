package server

import (
	"net/http"

	"clientbrief/internal/gateway/handler"
	"clientbrief/internal/gateway/middleware"
)

func NewMux(
	formsHandler *handler.FormsHandler,
	clientHandler *handler.ClientHandler,
	sessionsHandler *handler.SessionsHandler,
	formEventsHandler *handler.FormEventsHandler,
	debugHandler *handler.DebugHandler,
) http.Handler {
	mux := http.NewServeMux()

	// Operator API
	mux.HandleFunc("/api/forms", formsHandler.HandleForms)
	mux.HandleFunc("/api/forms/", formsHandler.HandleFormByID)
	mux.HandleFunc("/api/sessions/", sessionsHandler.HandleSession)

	// Client intake
	mux.HandleFunc("/api/client/", clientHandler.HandleClient)

	// Live feed
	mux.HandleFunc("/api/ws/forms", formEventsHandler.HandleFormEventsWS)

	// Debug Handlers
	mux.HandleFunc("/debug/cache-metrics", debugHandler.HandleCacheMetrics)

	// Middleware
	return middleware.CORS(mux)
}
