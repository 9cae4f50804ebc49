package http

import (
	"encoding/json"
	"log"
	"net/http"

	"quizmaster/internal/app"
	"quizmaster/internal/bank"
	"quizmaster/internal/domain"
	"github.com/gorilla/websocket"
)

// SessionHandler wires participant websockets into the quiz session engine.
type SessionHandler struct {
	gate     *app.AccessGate
	upgrader websocket.Upgrader
}

func NewSessionHandler(gate *app.AccessGate) *SessionHandler {
	return &SessionHandler{
		gate: gate,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option string `json:"option"`
}

type gotoPayload struct {
	Index int `json:"index"`
}

type incidentPayload struct {
	Kind string `json:"kind"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS authenticates the participant and streams the session: snapshots
// after every command, plus ticks, warnings, flags, termination, and results.
func (h *SessionHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	track := bank.TrackBusiness
	if r.URL.Query().Get("track") == "2" {
		track = bank.TrackReading
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var session *app.Session
	if track == bank.TrackReading {
		session, err = h.gate.LoginReading(r.Context(), code)
	} else {
		session, err = h.gate.LoginBusiness(r.Context(), code, domain.Profile{
			FullName:    r.URL.Query().Get("name"),
			CollegeName: r.URL.Query().Get("college"),
			Email:       r.URL.Query().Get("email"),
			PhoneNumber: r.URL.Query().Get("phone"),
		})
	}
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: app.UserMessage(err)}})
		return
	}
	defer session.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case event, ok := <-session.Events():
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: string(event.Kind), Payload: event}:
				case <-closeSignals:
					return
				}
				if event.Kind == app.EventTerminated || event.Kind == app.EventCompleted {
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "session", Payload: session.Snapshot()}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid select payload"}}
				continue
			}
			session.Select(payload.Option)
			send <- outboundMessage[any]{Type: "session", Payload: session.Snapshot()}
		case "next":
			session.Next(r.Context())
			send <- outboundMessage[any]{Type: "session", Payload: session.Snapshot()}
		case "previous":
			session.Previous(r.Context())
			send <- outboundMessage[any]{Type: "session", Payload: session.Snapshot()}
		case "goto":
			var payload gotoPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid goto payload"}}
				continue
			}
			session.Goto(r.Context(), payload.Index)
			send <- outboundMessage[any]{Type: "session", Payload: session.Snapshot()}
		case "submit":
			if _, err := session.Submit(r.Context()); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: app.UserMessage(err)}}
			}
		case "incident":
			var payload incidentPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid incident payload"}}
				continue
			}
			session.ReportIncident(r.Context(), app.IncidentKind(payload.Kind))
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}
