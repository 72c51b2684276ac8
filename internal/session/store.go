// Package session holds the per-agent, in-memory state that survives across
// turns within one server process: a mutable Session scratch record and an
// append-only conversation log, both namespaced by agent id. Nothing here is
// durable; a restart starts clean.
package session

import (
	"maps"
	"sync"
	"time"
)

// Message roles.
const (
	RoleUser   = "user"
	RoleAgent  = "agent"
	RoleSystem = "system"
)

// Message is one conversation entry. Timestamp is RFC3339.
type Message struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Session is the per-agent scratch record. Context is free-form: extracted
// document text, analysis results, connection info.
type Session struct {
	Initialized  bool           `json:"initialized"`
	LastActivity time.Time      `json:"last_activity"`
	Context      map[string]any `json:"context"`
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Store owns every agent's session and conversation. All methods are safe
// for concurrent use; reads return copies so callers never alias internal
// state.
type Store struct {
	mu            sync.RWMutex
	sessions      map[string]*Session
	conversations map[string][]Message
	clock         Clock
}

func NewStore() *Store {
	return NewStoreWithClock(realClock{})
}

// NewStoreWithClock creates a Store with a custom clock (for testing).
func NewStoreWithClock(clock Clock) *Store {
	return &Store{
		sessions:      make(map[string]*Session),
		conversations: make(map[string][]Message),
		clock:         clock,
	}
}

// InitializeSession creates an empty session for agentID if none exists.
// Calling it again is a no-op; existing state is never discarded.
func (s *Store) InitializeSession(agentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[agentID]; !ok {
		s.sessions[agentID] = &Session{
			Initialized:  true,
			LastActivity: s.clock.Now(),
			Context:      make(map[string]any),
		}
	}
	if _, ok := s.conversations[agentID]; !ok {
		s.conversations[agentID] = []Message{}
	}
}

// SessionData returns a copy of the agent's session, or a zero-value
// Session when none exists. It never fails.
func (s *Store) SessionData(agentID string) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[agentID]
	if !ok {
		return Session{Context: map[string]any{}}
	}
	return Session{
		Initialized:  sess.Initialized,
		LastActivity: sess.LastActivity,
		Context:      maps.Clone(sess.Context),
	}
}

// UpdateSessionData merges data into the agent's session context,
// last-write-wins on overlapping keys, and refreshes LastActivity. The
// session is created if absent.
func (s *Store) UpdateSessionData(agentID string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[agentID]
	if !ok {
		sess = &Session{Initialized: true, Context: make(map[string]any)}
		s.sessions[agentID] = sess
	}
	maps.Copy(sess.Context, data)
	sess.LastActivity = s.clock.Now()
}

// ContextValue reads one key from the agent's session context.
func (s *Store) ContextValue(agentID, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[agentID]
	if !ok {
		return nil, false
	}
	v, ok := sess.Context[key]
	return v, ok
}

// Conversation returns a copy of the agent's message log, oldest first.
// Absent agents yield an empty slice.
func (s *Store) Conversation(agentID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.conversations[agentID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// AddMessage appends one message with a generated timestamp. The log has no
// length cap; display truncation is the caller's concern.
func (s *Store) AddMessage(agentID, role, content string, metadata map[string]any) Message {
	msg := Message{
		Role:      role,
		Content:   content,
		Timestamp: s.clock.Now().Format(time.RFC3339),
		Metadata:  metadata,
	}

	s.mu.Lock()
	s.conversations[agentID] = append(s.conversations[agentID], msg)
	s.mu.Unlock()
	return msg
}

// ClearConversation resets the agent's log to empty. Session context is
// untouched.
func (s *Store) ClearConversation(agentID string) {
	s.mu.Lock()
	s.conversations[agentID] = []Message{}
	s.mu.Unlock()
}

// ResetAgent deletes both the session and the conversation for agentID.
func (s *Store) ResetAgent(agentID string) {
	s.mu.Lock()
	delete(s.sessions, agentID)
	delete(s.conversations, agentID)
	s.mu.Unlock()
}
