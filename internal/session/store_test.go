package session

import (
	"testing"
	"time"
)

// fakeClock returns a strictly advancing time on every call.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
	return NewStoreWithClock(clock), clock
}

// Initializing twice must not lose state or duplicate histories.
func TestInitializeSessionIdempotent(t *testing.T) {
	s, _ := newTestStore()

	s.InitializeSession("brd_generator")
	s.UpdateSessionData("brd_generator", map[string]any{"document_name": "basel.pdf"})
	s.AddMessage("brd_generator", RoleUser, "hi", nil)

	s.InitializeSession("brd_generator")

	if v, ok := s.ContextValue("brd_generator", "document_name"); !ok || v != "basel.pdf" {
		t.Errorf("context lost after re-initialization: %v %v", v, ok)
	}
	if got := len(s.Conversation("brd_generator")); got != 1 {
		t.Errorf("conversation length = %d, want 1", got)
	}
}

func TestSessionDataAbsentAgent(t *testing.T) {
	s, _ := newTestStore()

	sess := s.SessionData("nope")
	if sess.Initialized {
		t.Error("absent agent should not be initialized")
	}
	if sess.Context == nil {
		t.Error("Context should be a usable empty map, not nil")
	}
}

func TestUpdateSessionDataMerge(t *testing.T) {
	s, _ := newTestStore()
	s.InitializeSession("a")

	s.UpdateSessionData("a", map[string]any{"k1": "v1", "k2": "v2"})
	first := s.SessionData("a").LastActivity
	s.UpdateSessionData("a", map[string]any{"k2": "v2b", "k3": "v3"})

	sess := s.SessionData("a")
	if sess.Context["k1"] != "v1" || sess.Context["k2"] != "v2b" || sess.Context["k3"] != "v3" {
		t.Errorf("merge wrong: %v", sess.Context)
	}
	if !sess.LastActivity.After(first) {
		t.Error("LastActivity not refreshed")
	}
}

func TestAddMessageRoundTrip(t *testing.T) {
	s, _ := newTestStore()

	s.AddMessage("a", RoleUser, "hello", map[string]any{"source": "test"})

	msgs := s.Conversation("a")
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[0].Content != "hello" {
		t.Errorf("round trip mismatch: %+v", msgs[0])
	}
	if msgs[0].Metadata["source"] != "test" {
		t.Errorf("metadata lost: %+v", msgs[0].Metadata)
	}
}

func TestMessageTimestampsNonDecreasing(t *testing.T) {
	s, _ := newTestStore()

	for i := 0; i < 5; i++ {
		s.AddMessage("a", RoleUser, "m", nil)
	}

	msgs := s.Conversation("a")
	for i := 1; i < len(msgs); i++ {
		prev, _ := time.Parse(time.RFC3339, msgs[i-1].Timestamp)
		cur, _ := time.Parse(time.RFC3339, msgs[i].Timestamp)
		if cur.Before(prev) {
			t.Fatalf("timestamps decreased at %d: %s -> %s", i, msgs[i-1].Timestamp, msgs[i].Timestamp)
		}
	}
}

func TestClearConversationKeepsContext(t *testing.T) {
	s, _ := newTestStore()
	s.InitializeSession("a")
	s.UpdateSessionData("a", map[string]any{"k": "v"})
	s.AddMessage("a", RoleUser, "hello", nil)

	s.ClearConversation("a")

	if got := len(s.Conversation("a")); got != 0 {
		t.Errorf("conversation length = %d, want 0", got)
	}
	if _, ok := s.ContextValue("a", "k"); !ok {
		t.Error("ClearConversation must not touch session context")
	}
}

func TestResetAgent(t *testing.T) {
	s, _ := newTestStore()
	s.InitializeSession("a")
	s.UpdateSessionData("a", map[string]any{"k": "v"})
	s.AddMessage("a", RoleUser, "hello", nil)

	s.ResetAgent("a")

	if s.SessionData("a").Initialized {
		t.Error("session should be gone after reset")
	}
	if got := len(s.Conversation("a")); got != 0 {
		t.Errorf("conversation length = %d, want 0", got)
	}
}

// Returned slices and maps are copies; mutating them must not leak back.
func TestReadsAreCopies(t *testing.T) {
	s, _ := newTestStore()
	s.InitializeSession("a")
	s.UpdateSessionData("a", map[string]any{"k": "v"})
	s.AddMessage("a", RoleUser, "hello", nil)

	sess := s.SessionData("a")
	sess.Context["k"] = "mutated"
	msgs := s.Conversation("a")
	msgs[0].Content = "mutated"

	if v, _ := s.ContextValue("a", "k"); v != "v" {
		t.Error("SessionData leaked internal map")
	}
	if s.Conversation("a")[0].Content != "hello" {
		t.Error("Conversation leaked internal slice")
	}
}

func TestNamespaceIsolation(t *testing.T) {
	s, _ := newTestStore()
	s.AddMessage("a", RoleUser, "for a", nil)
	s.AddMessage("b", RoleUser, "for b", nil)
	s.ResetAgent("a")

	if got := len(s.Conversation("b")); got != 1 {
		t.Errorf("resetting a must not affect b: got %d messages", got)
	}
}
