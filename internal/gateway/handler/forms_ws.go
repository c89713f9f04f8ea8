package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"clientbrief/internal/gateway/service/events"
	formsvc "clientbrief/internal/gateway/service/forms"
)

// FormEventsHandler streams a form's intake events over a websocket for
// operator dashboards that want a live feed with ping/pong liveness.
type FormEventsHandler struct {
	forms  *formsvc.Service
	events *events.Service
}

func NewFormEventsHandler(forms *formsvc.Service, ev *events.Service) *FormEventsHandler {
	return &FormEventsHandler{forms: forms, events: ev}
}

const (
	formWSWriteWait = 10 * time.Second
	formWSPongWait  = 60 * time.Second
	formWSPingEvery = (formWSPongWait * 9) / 10
)

var formWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type formWSInbound struct {
	Type   string `json:"type"`
	FormID string `json:"formId,omitempty"`
}

type formWSOutbound struct {
	Type    string        `json:"type"`
	FormID  string        `json:"formId,omitempty"`
	Event   *events.Event `json:"event,omitempty"`
	Code    string        `json:"code,omitempty"`
	Message string        `json:"message,omitempty"`
}

// HandleFormEventsWS serves GET /api/ws/forms?form_id={id}.
func (h *FormEventsHandler) HandleFormEventsWS(w http.ResponseWriter, r *http.Request) {
	formID := strings.TrimSpace(r.URL.Query().Get("form_id"))
	if formID == "" {
		http.Error(w, "form_id is required", http.StatusBadRequest)
		return
	}
	if _, err := h.forms.Get(r.Context(), formID); err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	conn, err := formWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(formWSPongWait)); err != nil {
		log.Printf("form ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(formWSPongWait))
	})

	writeCh := make(chan formWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(formWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(formWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(formWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	sub, subErr := h.events.Subscribe(ctx, formID)
	if subErr != nil {
		pushFormWS(writeCh, formWSOutbound{
			Type:    "error",
			Code:    "invalid_argument",
			Message: subErr.Error(),
		})
		cancel()
		<-writerDone
		return
	}

	pushFormWS(writeCh, formWSOutbound{
		Type:   "subscribed",
		FormID: formID,
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				pushFormWS(writeCh, formWSOutbound{
					Type:   "event",
					FormID: formID,
					Event:  &ev,
				})
			}
		}
	}()

	for {
		var in formWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		msgType := strings.ToLower(strings.TrimSpace(in.Type))
		if v := strings.TrimSpace(in.FormID); v != "" && v != formID {
			pushFormWS(writeCh, formWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "formId mismatch",
			})
			continue
		}

		switch msgType {
		case "ping":
			pushFormWS(writeCh, formWSOutbound{Type: "pong"})
		default:
			pushFormWS(writeCh, formWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "unsupported type: " + msgType,
			})
		}
	}
}

// pushFormWS never blocks; when the buffer is full the oldest frame is
// dropped to make room.
func pushFormWS(writeCh chan formWSOutbound, out formWSOutbound) {
	if writeCh == nil {
		return
	}
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
