package notify

import (
	"sync"
	"time"
)

// ToastStore holds the toasts currently on screen
type ToastStore struct {
	mu     sync.Mutex
	toasts []Toast
}

func NewToastStore() *ToastStore {
	return &ToastStore{}
}

func (s *ToastStore) Add(toast Toast) {
	if toast.Message == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = append(s.toasts, toast)
}

// Active drops expired toasts and returns the remaining ones, oldest first
func (s *ToastStore) Active(now time.Time) []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.toasts[:0]
	for _, toast := range s.toasts {
		if toast.Expired(now) {
			continue
		}
		active = append(active, toast)
	}
	s.toasts = active

	if len(active) == 0 {
		return nil
	}
	out := make([]Toast, len(active))
	copy(out, active)
	return out
}

// Dismiss removes a toast by id
func (s *ToastStore) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, toast := range s.toasts {
		if toast.ID == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return
		}
	}
}
