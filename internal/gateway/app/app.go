package app

import (
	"context"
	"fmt"

	"clientbrief/internal/gateway/config"
	"clientbrief/internal/gateway/handler"
	"clientbrief/internal/gateway/server"
	gatewaybriefing "clientbrief/internal/gateway/service/briefing"
	gatewayevents "clientbrief/internal/gateway/service/events"
	gatewayforms "clientbrief/internal/gateway/service/forms"
	gatewayintake "clientbrief/internal/gateway/service/intake"
)

type App struct {
	server *server.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	stores, err := initStores(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init stores: %w", err)
	}

	// Dependencies
	eventsSvc := gatewayevents.New()
	formsSvc := gatewayforms.New(stores.forms)
	intakeSvc := gatewayintake.New(stores.forms, stores.sessions, eventsSvc)
	briefingSvc := gatewaybriefing.New(stores.forms, stores.sessions, stores.documents, eventsSvc)

	formsHandler := handler.NewFormsHandler(formsSvc, intakeSvc, eventsSvc)
	clientHandler := handler.NewClientHandler(formsSvc, intakeSvc)
	sessionsHandler := handler.NewSessionsHandler(briefingSvc)
	formEventsHandler := handler.NewFormEventsHandler(formsSvc, eventsSvc)
	debugHandler := handler.NewDebugHandler(stores.documents)

	// Routing & Server
	mux := server.NewMux(formsHandler, clientHandler, sessionsHandler, formEventsHandler, debugHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
