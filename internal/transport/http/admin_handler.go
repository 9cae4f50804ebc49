package http

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"quizmaster/internal/app"
	"quizmaster/internal/bank"
	"github.com/gorilla/websocket"
)

// dashboardRefresh bounds staleness when a state change slips past the
// subscription channel.
const dashboardRefresh = time.Second

// AdminHandler serves the administrator console over a websocket. The
// connection must authenticate before any command is accepted; after that
// every state change pushes a fresh dashboard for the selected track.
type AdminHandler struct {
	admin    *app.AdminService
	state    app.StateRepository
	upgrader websocket.Upgrader
}

func NewAdminHandler(admin *app.AdminService, state app.StateRepository) *AdminHandler {
	return &AdminHandler{
		admin: admin,
		state: state,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type queryPayload struct {
	Track  int    `json:"track"`
	Search string `json:"search"`
	SortBy string `json:"sortBy"`
}

type trackPayload struct {
	Track int `json:"track"`
}

type deletePayload struct {
	Track     int    `json:"track"`
	AttemptID string `json:"attemptId"`
}

type restorePayload struct {
	Track         int    `json:"track"`
	ParticipantID string `json:"participantId"`
}

type approvalPayload struct {
	ParticipantID string `json:"participantId"`
}

type confirmPayload struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

type lockPayload struct {
	Track  int  `json:"track"`
	Locked bool `json:"locked"`
}

type approvalResultPayload struct {
	ParticipantID string `json:"participantId"`
	Approved      bool   `json:"approved"`
}

func (h *AdminHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var inbound inboundMessage
	if err := conn.ReadJSON(&inbound); err != nil {
		return
	}
	var login loginPayload
	if inbound.Type != "login" || json.Unmarshal(inbound.Payload, &login) != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "login required"}})
		return
	}
	if err := h.admin.Login(login.Email, login.Password); err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "Invalid credentials"}})
		return
	}

	session := &adminSession{handler: h, conn: conn, track: bank.TrackBusiness}
	session.run(r)
}

// adminSession holds per-connection console state: the selected track and the
// active search and sort, which the refresh goroutine reads concurrently.
type adminSession struct {
	handler *AdminHandler
	conn    *websocket.Conn

	mu    sync.Mutex
	track bank.Track
	query app.Query
}

func (s *adminSession) run(r *http.Request) {
	send := make(chan any, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	refreshDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := s.conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	updates, cancel := s.handler.state.Subscribe()
	defer cancel()

	go func() {
		defer close(refreshDone)
		ticker := time.NewTicker(dashboardRefresh)
		defer ticker.Stop()
		for {
			select {
			case <-updates:
			case <-ticker.C:
			case <-closeSignals:
				return
			}
			select {
			case send <- s.dashboardMessage(r):
			case <-closeSignals:
				return
			}
		}
	}()

	send <- s.dashboardMessage(r)

	for {
		var inbound inboundMessage
		if err := s.conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg := s.handle(r, inbound); msg != nil {
			send <- msg
		}
		send <- s.dashboardMessage(r)
	}

	close(closeSignals)
	<-refreshDone
	close(send)
	<-writerDone
}

func (s *adminSession) handle(r *http.Request, inbound inboundMessage) any {
	switch inbound.Type {
	case "query":
		var payload queryPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid query payload")
		}
		s.mu.Lock()
		s.track = parseTrack(payload.Track)
		s.query = app.Query{Search: payload.Search, SortBy: app.SortOrder(payload.SortBy)}
		s.mu.Unlock()
		return nil
	case "toggleLock":
		var payload trackPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid toggleLock payload")
		}
		track := parseTrack(payload.Track)
		locked, err := s.handler.admin.ToggleLock(r.Context(), track)
		if err != nil {
			return errorMessage(err.Error())
		}
		return outboundMessage[lockPayload]{Type: "locked", Payload: lockPayload{Track: int(track), Locked: locked}}
	case "delete":
		var payload deletePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid delete payload")
		}
		pending, err := s.handler.admin.DeleteAttempt(r.Context(), parseTrack(payload.Track), payload.AttemptID)
		if err != nil {
			return errorMessage(err.Error())
		}
		if pending {
			return confirmMessage("delete", "Click again to confirm deletion")
		}
		return nil
	case "restore":
		var payload restorePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid restore payload")
		}
		pending, err := s.handler.admin.RestoreParticipant(r.Context(), parseTrack(payload.Track), payload.ParticipantID)
		if err != nil {
			return errorMessage(err.Error())
		}
		if pending {
			return confirmMessage("restore", "Click again to confirm restore")
		}
		return nil
	case "toggleApproval":
		var payload approvalPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid toggleApproval payload")
		}
		approved, pending, err := s.handler.admin.ToggleApproval(r.Context(), payload.ParticipantID)
		if err != nil {
			return errorMessage(err.Error())
		}
		if pending {
			return confirmMessage("approval", "Click again to confirm")
		}
		return outboundMessage[approvalResultPayload]{Type: "approval", Payload: approvalResultPayload{ParticipantID: payload.ParticipantID, Approved: approved}}
	default:
		return errorMessage("unsupported message type")
	}
}

func (s *adminSession) dashboardMessage(r *http.Request) any {
	s.mu.Lock()
	track, query := s.track, s.query
	s.mu.Unlock()
	dashboard, err := s.handler.admin.Dashboard(r.Context(), track, query)
	if err != nil {
		return errorMessage(err.Error())
	}
	return outboundMessage[app.Dashboard]{Type: "dashboard", Payload: dashboard}
}

func parseTrack(n int) bank.Track {
	if n == 2 {
		return bank.TrackReading
	}
	return bank.TrackBusiness
}

func errorMessage(message string) any {
	return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}}
}

func confirmMessage(action, message string) any {
	return outboundMessage[confirmPayload]{Type: "confirm", Payload: confirmPayload{Action: action, Message: message}}
}
