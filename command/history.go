package command

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
)

// DefaultHistorySize is how many commands are remembered per session.
const DefaultHistorySize = 3

// DefaultSessionTimeout is how long a session is kept after its last command.
const DefaultSessionTimeout = 30 * time.Minute

// Entry is one remembered command. Angles and Position hold what the request itself carried,
// after unit conversion, not what was computed from it.
type Entry struct {
	Time      time.Time  `json:"time"`
	Operation Operation  `json:"operation"`
	Angles    []float64  `json:"angles_deg,omitempty"`
	Position  *r3.Vector `json:"position_mm,omitempty"`
	Failed    bool       `json:"failed,omitempty"`
}

// History keeps the last few commands of every session. A session whose newest entry is
// older than the timeout is forgotten.
type History struct {
	mu       sync.Mutex
	clock    clock.Clock
	size     int
	timeout  time.Duration
	sessions map[string][]Entry
}

// NewHistory returns a history keeping size entries per session for timeout after the session's
// last command, stamped with clk.
func NewHistory(size int, timeout time.Duration, clk clock.Clock) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	if clk == nil {
		clk = clock.New()
	}
	return &History{clock: clk, size: size, timeout: timeout, sessions: map[string][]Entry{}}
}

// NewSession returns a fresh session id. The session is stored once it records an entry.
func (h *History) NewSession() string {
	return uuid.NewString()
}

// Record stores e as the most recent entry of session, dropping the oldest beyond the size.
// Expired sessions are evicted on the way.
func (h *History) Record(session string, e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.clock.Now()
	h.evictLocked(now)
	e.Time = now
	if e.Angles != nil {
		e.Angles = append([]float64(nil), e.Angles...)
	}
	entries := append([]Entry{e}, h.sessions[session]...)
	if len(entries) > h.size {
		entries = entries[:h.size]
	}
	h.sessions[session] = entries
}

func (h *History) expired(entries []Entry, now time.Time) bool {
	return len(entries) == 0 || now.Sub(entries[0].Time) >= h.timeout
}

func (h *History) evictLocked(now time.Time) {
	for id, entries := range h.sessions {
		if h.expired(entries, now) {
			delete(h.sessions, id)
		}
	}
}

// Entries returns a copy of the session's entries, most recent first.
func (h *History) Entries(session string) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	entries := h.sessions[session]
	if h.expired(entries, h.clock.Now()) {
		delete(h.sessions, session)
		return nil
	}
	return append([]Entry(nil), entries...)
}

// Len returns the number of stored sessions, expired ones included until they are evicted.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Reset forgets a session.
func (h *History) Reset(session string) {
	h.mu.Lock()
	delete(h.sessions, session)
	h.mu.Unlock()
}

// LastAngles returns the most recent joint angles of a successful entry, and its age: 0 for the
// most recent entry.
func (h *History) LastAngles(session string) ([]float64, int, bool) {
	for age, e := range h.Entries(session) {
		if !e.Failed && e.Angles != nil {
			return e.Angles, age, true
		}
	}
	return nil, 0, false
}

// LastPosition is LastAngles for cartesian positions.
func (h *History) LastPosition(session string) (r3.Vector, int, bool) {
	for age, e := range h.Entries(session) {
		if !e.Failed && e.Position != nil {
			return *e.Position, age, true
		}
	}
	return r3.Vector{}, 0, false
}
