// Package registry holds the live agent instances and resolves catalog
// entries to their concrete implementations.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"agenthub/internal/agent"
	"agenthub/internal/session"
)

// Registry maps agent ids to live instances. Reads vastly outnumber
// writes; registration after startup is rare.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]agent.Agent
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{agents: make(map[string]agent.Agent)}
}

// Load instantiates every catalog entry. A failed or unrecognized entry
// becomes a fallback agent instead of aborting the load: the rest of the
// catalog stays usable.
func Load(store *session.Store) *Registry {
	return LoadCatalog(store, agent.Catalog())
}

func LoadCatalog(store *session.Store, catalog map[string]agent.Config) *Registry {
	r := New()
	for id, cfg := range catalog {
		a, err := build(cfg, store)
		if err != nil {
			slog.Warn("agent unavailable, registering fallback", "agent", id, "error", err)
			a = agent.NewFallback(cfg, store, err)
		}
		r.Register(a)
	}
	return r
}

func build(cfg agent.Config, store *session.Store) (agent.Agent, error) {
	switch cfg.Type {
	case agent.TypeBRDGenerator:
		return agent.NewBRDAgent(cfg, store), nil
	case agent.TypeDatabaseChat:
		return agent.NewDatabaseAgent(cfg, store), nil
	default:
		return nil, fmt.Errorf("no implementation for agent type %q", cfg.Type)
	}
}

func (r *Registry) Register(a agent.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.ID()] = a
}

// Unregister removes the agent; unknown ids are a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, id)
}

func (r *Registry) Get(id string) (agent.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	return a, ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.agents))
	for id := range r.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DescribeAll returns the configs of every registered agent, sorted by id.
func (r *Registry) DescribeAll() []agent.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.agents))
	for id := range r.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	configs := make([]agent.Config, 0, len(ids))
	for _, id := range ids {
		configs = append(configs, r.agents[id].Config())
	}
	return configs
}
