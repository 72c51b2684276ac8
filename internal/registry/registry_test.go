package registry

import (
	"context"
	"strings"
	"testing"

	"agenthub/internal/agent"
	"agenthub/internal/session"
)

func TestLoadBuildsCatalog(t *testing.T) {
	r := Load(session.NewStore())

	want := []string{agent.BRDGeneratorID, agent.DatabaseChatID}
	got := r.IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	for _, id := range want {
		a, ok := r.Get(id)
		if !ok {
			t.Fatalf("Get(%q): not found", id)
		}
		if a.Config().Status != agent.StatusActive {
			t.Errorf("agent %q status = %q, want active", id, a.Config().Status)
		}
	}
}

func TestLoadUnknownTypeFallsBack(t *testing.T) {
	store := session.NewStore()
	catalog := map[string]agent.Config{
		"mystery": {ID: "mystery", Name: "Mystery Agent", Type: agent.Type("quantum"), Status: agent.StatusActive},
	}
	r := LoadCatalog(store, catalog)

	a, ok := r.Get("mystery")
	if !ok {
		t.Fatal("Get(mystery): not found")
	}
	if a.Config().Status != agent.StatusInactive {
		t.Errorf("fallback status = %q, want inactive", a.Config().Status)
	}
	reply, err := a.ProcessInput(context.Background(), "hello")
	if err != nil {
		t.Fatalf("ProcessInput: %v", err)
	}
	if !strings.Contains(reply, "not available") {
		t.Errorf("fallback reply = %q, want unavailability notice", reply)
	}
}

func TestUnregisterUnknownNoOp(t *testing.T) {
	r := Load(session.NewStore())
	r.Unregister("does-not-exist")

	if _, ok := r.Get(agent.DatabaseChatID); !ok {
		t.Fatal("registry lost agents after no-op unregister")
	}
}

func TestDescribeAllSorted(t *testing.T) {
	r := Load(session.NewStore())
	configs := r.DescribeAll()
	if len(configs) != 2 {
		t.Fatalf("DescribeAll length = %d, want 2", len(configs))
	}
	if configs[0].ID != agent.BRDGeneratorID || configs[1].ID != agent.DatabaseChatID {
		t.Errorf("DescribeAll order = [%s %s]", configs[0].ID, configs[1].ID)
	}
}
