package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"agenthub/internal/session"
)

// QuickAction is a canned question an agent offers as a one-click shortcut.
type QuickAction struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Question string `json:"question"`
}

// Agent is one conversational handler bound to a specialization.
type Agent interface {
	ID() string
	Config() Config
	// ProcessInput answers one free-text turn. Errors are reported, not
	// panicked; the turn driver converts them into a visible message.
	ProcessInput(ctx context.Context, input string) (string, error)
	QuickActions() []QuickAction
	RunQuickAction(ctx context.Context, name string) (string, error)
}

// Base carries the pieces every agent shares: its config and its namespaced
// view of the session store.
type Base struct {
	cfg   Config
	store *session.Store
}

func NewBase(cfg Config, store *session.Store) Base {
	store.InitializeSession(cfg.ID)
	return Base{cfg: cfg, store: store}
}

func (b *Base) ID() string     { return b.cfg.ID }
func (b *Base) Config() Config { return b.cfg }

func (b *Base) SessionData() session.Session {
	return b.store.SessionData(b.cfg.ID)
}

func (b *Base) UpdateSessionData(data map[string]any) {
	b.store.UpdateSessionData(b.cfg.ID, data)
}

func (b *Base) ContextValue(key string) (any, bool) {
	return b.store.ContextValue(b.cfg.ID, key)
}

// Driver runs the uniform turn cycle for every agent. A single mutex
// serializes turns: the session store performs read-modify-write sequences
// that assume one active turn at a time.
type Driver struct {
	store *session.Store
	mu    sync.Mutex
}

func NewDriver(store *session.Store) *Driver {
	return &Driver{store: store}
}

// RunTurn executes one user-input/agent-response cycle. Empty input (after
// trimming) is a no-op, not an error. The turn always completes with an
// agent message appended, even when ProcessInput fails.
func (d *Driver) RunTurn(ctx context.Context, a Agent, input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	id := a.ID()
	d.store.InitializeSession(id)
	d.store.AddMessage(id, session.RoleUser, input, nil)

	response, err := a.ProcessInput(ctx, input)
	if err != nil {
		slog.Error("agent turn failed", "agent", id, "error", err)
		response = fmt.Sprintf("Sorry, something went wrong while processing your request: %v. Please try again.", err)
	}

	d.store.AddMessage(id, session.RoleAgent, response, nil)
	return response
}

// RunQuickAction executes a canned shortcut: the action's question is
// appended as a synthetic user message, then the handler response, in the
// same order RunTurn uses. Unknown action names are an error for the caller
// to surface; nothing is appended in that case.
func (d *Driver) RunQuickAction(ctx context.Context, a Agent, name string) (string, error) {
	var action *QuickAction
	for _, qa := range a.QuickActions() {
		if qa.Name == name {
			action = &qa
			break
		}
	}
	if action == nil {
		return "", fmt.Errorf("unknown quick action %q for agent %s", name, a.ID())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	id := a.ID()
	d.store.InitializeSession(id)
	d.store.AddMessage(id, session.RoleUser, action.Question, nil)

	response, err := a.RunQuickAction(ctx, name)
	if err != nil {
		slog.Error("quick action failed", "agent", id, "action", name, "error", err)
		response = fmt.Sprintf("Sorry, something went wrong while processing your request: %v. Please try again.", err)
	}

	d.store.AddMessage(id, session.RoleAgent, response, nil)
	return response, nil
}

// ClearChat resets the agent's conversation, bypassing the turn cycle.
func (d *Driver) ClearChat(agentID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.store.ClearConversation(agentID)
}

// Reset deletes the agent's session and conversation ("New Chat").
func (d *Driver) Reset(agentID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.store.ResetAgent(agentID)
}
