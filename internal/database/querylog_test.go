package database

import (
	"fmt"
	"testing"
)

func TestQueryLogAppendAndAll(t *testing.T) {
	l := NewQueryLog()

	e := l.Append("how many orders", "SELECT COUNT(*) FROM ORDERS", true, "", 1)
	if e.ID == "" {
		t.Error("expected generated entry ID")
	}
	l.Append("bad query", "SELECT * FROM NOPE", false, "table not found", 0)

	all := l.All()
	if len(all) != 2 {
		t.Fatalf("got %d entries, want 2", len(all))
	}
	if !all[0].Success || all[1].Success {
		t.Error("success flags not preserved in insertion order")
	}
	if all[1].Error != "table not found" {
		t.Errorf("Error = %q", all[1].Error)
	}
}

func TestQueryLogRecent(t *testing.T) {
	l := NewQueryLog()
	for i := 0; i < 30; i++ {
		l.Append(fmt.Sprintf("q%d", i), "SELECT 1", true, "", 1)
	}

	recent := l.Recent(20)
	if len(recent) != 20 {
		t.Fatalf("got %d entries, want 20", len(recent))
	}
	if recent[0].Question != "q10" || recent[19].Question != "q29" {
		t.Errorf("Recent window wrong: first %q last %q", recent[0].Question, recent[19].Question)
	}

	// Storage itself is unbounded.
	if l.Len() != 30 {
		t.Errorf("Len = %d, want 30", l.Len())
	}
}

func TestQueryLogClear(t *testing.T) {
	l := NewQueryLog()
	l.Append("q", "SELECT 1", true, "", 1)
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", l.Len())
	}
}
