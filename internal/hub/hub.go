// Package hub fans out bin change events to connected dashboard sessions.
package hub

import (
	"context"
	"sync"

	"smartbin"
	"smartbin/internal/logger"

	"github.com/google/uuid"
)

// sessionBuffer bounds per-session queueing. A session that falls this far
// behind starts losing events; delivery is best-effort, at-most-once.
const sessionBuffer = 32

// SnapshotSource provides the full-state snapshot sent to a session on connect.
type SnapshotSource interface {
	ListAll(ctx context.Context) ([]smartbin.Bin, error)
}

// Session is one connected dashboard client. Events are consumed from Events()
// by the transport (the websocket writer pump).
type Session struct {
	id   string
	send chan smartbin.ChangeEvent
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Events is the ordered stream of change events for this session.
// The channel is closed when the session is disconnected.
func (s *Session) Events() <-chan smartbin.ChangeEvent { return s.send }

// Hub maintains the set of connected sessions and broadcasts change events.
type Hub struct {
	snapshot SnapshotSource
	log      *logger.Logger

	mu       sync.Mutex
	sessions map[*Session]struct{}
}

func New(snapshot SnapshotSource, log *logger.Logger) *Hub {
	return &Hub{
		snapshot: snapshot,
		sessions: make(map[*Session]struct{}),
		log:      log,
	}
}

// Connect registers a new session. The session's first event is always a
// synthetic initial_data snapshot reflecting store state at connect time;
// everything after that is whatever gets broadcast from then on.
//
// The snapshot and the registration happen under the broadcast mutex: no
// event can commit between the two, so a change is either in the snapshot
// or delivered to the session afterward, never lost in between.
func (h *Hub) Connect(ctx context.Context) (*Session, error) {
	h.mu.Lock()
	bins, err := h.snapshot.ListAll(ctx)
	if err != nil {
		h.mu.Unlock()
		return nil, err
	}

	s := &Session{
		id:   uuid.NewString(),
		send: make(chan smartbin.ChangeEvent, sessionBuffer),
	}
	// The buffer is empty, so the snapshot always fits.
	s.send <- smartbin.NewInitialData(bins)

	h.sessions[s] = struct{}{}
	n := len(h.sessions)
	h.mu.Unlock()

	if h.log != nil {
		h.log.Infow("session_connected", "session", s.id, "sessions", n)
	}
	return s, nil
}

// Disconnect removes the session and closes its event stream.
// No draining: undelivered events are dropped.
func (h *Hub) Disconnect(s *Session) {
	h.mu.Lock()
	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		close(s.send)
	}
	n := len(h.sessions)
	h.mu.Unlock()

	if h.log != nil {
		h.log.Infow("session_disconnected", "session", s.id, "sessions", n)
	}
}

// Broadcast delivers the event to every connected session, fire-and-forget.
// A session whose buffer is full is skipped; nothing blocks the caller.
func (h *Hub) Broadcast(ev smartbin.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.sessions {
		select {
		case s.send <- ev:
		default:
			if h.log != nil {
				h.log.Warnw("session_event_dropped", "session", s.id, "type", ev.Type)
			}
		}
	}
}

// SessionCount reports the number of connected sessions.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
