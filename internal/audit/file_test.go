package audit

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFileRecorder_AppendAndLoad(t *testing.T) {
	r, err := NewFileRecorder(filepath.Join(t.TempDir(), "transactions.jsonl"))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	ev1 := Event{Timestamp: time.Now().UTC(), UserID: 1, Item: "Laptop Asus", Amount: "15000000", Type: "sale"}
	ev2 := Event{Timestamp: time.Now().UTC(), UserID: 2, Item: "kertas A4", Quantity: "5", Unit: "rim", Type: "purchase"}
	if err := r.Append(ev1); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if err := r.Append(ev2); err != nil {
		t.Fatalf("append2: %v", err)
	}
	events, err := r.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2 events, got %d", len(events))
	}
	if events[0].Item != "Laptop Asus" || events[1].UserID != 2 {
		t.Fatalf("unexpected events: %+v", events)
	}
}
