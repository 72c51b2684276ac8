package agent

import (
	"context"
	"fmt"

	"agenthub/internal/session"
)

// Fallback stands in for an agent whose construction failed. It implements
// the full Agent interface and always reports unavailability, so a broken
// agent degrades to a visible message instead of a missing entry.
type Fallback struct {
	Base
	reason error
}

func NewFallback(cfg Config, store *session.Store, reason error) *Fallback {
	cfg.Status = StatusInactive
	return &Fallback{Base: NewBase(cfg, store), reason: reason}
}

func (f *Fallback) ProcessInput(_ context.Context, _ string) (string, error) {
	return fmt.Sprintf("Sorry, %s is not available. Please check system configuration.", f.cfg.Name), nil
}

func (f *Fallback) QuickActions() []QuickAction { return nil }

func (f *Fallback) RunQuickAction(_ context.Context, name string) (string, error) {
	return "", fmt.Errorf("agent %s is unavailable: %w", f.cfg.ID, f.reason)
}
