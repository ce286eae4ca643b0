package notify

import (
	"testing"
	"time"
)

func TestHeartsBurst(t *testing.T) {
	n := New()
	n.Hearts()

	ev := <-n.Events()
	if ev.Kind != KindHearts {
		t.Fatalf("expected hearts event, got %v", ev.Kind)
	}
	if len(ev.Hearts) != HeartCount {
		t.Errorf("expected %d hearts, got %d", HeartCount, len(ev.Hearts))
	}
	for _, h := range ev.Hearts {
		if h.X < 0 || h.X >= 100 {
			t.Errorf("heart position %f out of range", h.X)
		}
	}
}

func TestToastAndAlert(t *testing.T) {
	n := New()
	n.Toast("Saved", LevelSuccess)
	n.Alert("Error loading notes")

	toast := <-n.Events()
	if toast.Kind != KindToast || toast.Toast.Message != "Saved" || toast.Toast.ID == "" {
		t.Errorf("unexpected toast event: %+v", toast)
	}

	alert := <-n.Events()
	if alert.Kind != KindAlert || alert.Message != "Error loading notes" {
		t.Errorf("unexpected alert event: %+v", alert)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	n := New()
	for i := 0; i < defaultBuffer+5; i++ {
		n.Alert("x")
	}

	if n.Dropped() != 5 {
		t.Errorf("expected 5 dropped events, got %d", n.Dropped())
	}
}

func TestToastStoreExpiry(t *testing.T) {
	s := NewToastStore()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	s.Add(Toast{ID: "a", Message: "first", Duration: time.Second, CreatedAt: base})
	s.Add(Toast{ID: "b", Message: "second", Duration: 5 * time.Second, CreatedAt: base})
	s.Add(Toast{ID: "c", Message: ""})

	if got := s.Active(base); len(got) != 2 {
		t.Fatalf("expected 2 active toasts, got %d", len(got))
	}

	got := s.Active(base.Add(2 * time.Second))
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("expected only toast b to remain, got %+v", got)
	}

	s.Dismiss("b")
	if got := s.Active(base); got != nil {
		t.Errorf("expected no toasts after dismiss, got %+v", got)
	}
}
