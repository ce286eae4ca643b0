package notify

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the type of a notification event
type Kind int

const (
	KindHearts Kind = iota
	KindToast
	KindAlert
)

// Level is the severity of a toast
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

const (
	HeartCount    = 10
	HeartLifetime = 2 * time.Second
	ToastDuration = 3 * time.Second

	defaultBuffer = 32
)

// Heart is one particle of a hearts burst. X is a horizontal position in percent.
type Heart struct {
	X float64
}

// Toast is a transient message shown for Duration
type Toast struct {
	ID        string
	Message   string
	Level     Level
	Duration  time.Duration
	CreatedAt time.Time
}

// Expired reports whether the toast should no longer be shown at now
func (t Toast) Expired(now time.Time) bool {
	return t.Duration > 0 && now.After(t.CreatedAt.Add(t.Duration))
}

// Event is published by the services and consumed by whichever view is active
type Event struct {
	Kind    Kind
	Hearts  []Heart
	Toast   Toast
	Message string
	At      time.Time
}

// Notifier fans events out to a single buffered channel.
// Publishing never blocks: when the buffer is full the event is dropped.
type Notifier struct {
	events chan Event
	now    func() time.Time
	rnd    func() float64

	mu      sync.Mutex
	dropped int
}

func New() *Notifier {
	return &Notifier{
		events: make(chan Event, defaultBuffer),
		now:    time.Now,
		rnd:    rand.Float64,
	}
}

// Events returns the channel views read from
func (n *Notifier) Events() <-chan Event {
	return n.events
}

// Dropped returns how many events were discarded because nobody was listening
func (n *Notifier) Dropped() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dropped
}

// Hearts publishes a burst of hearts at random horizontal positions
func (n *Notifier) Hearts() {
	hearts := make([]Heart, HeartCount)
	for i := range hearts {
		hearts[i] = Heart{X: n.rnd() * 100}
	}
	n.publish(Event{Kind: KindHearts, Hearts: hearts})
}

// Toast publishes a short-lived message
func (n *Notifier) Toast(message string, level Level) {
	n.publish(Event{
		Kind:    KindToast,
		Message: message,
		Toast: Toast{
			ID:        uuid.NewString(),
			Message:   message,
			Level:     level,
			Duration:  ToastDuration,
			CreatedAt: n.now(),
		},
	})
}

// Alert publishes a message the user has to dismiss
func (n *Notifier) Alert(message string) {
	n.publish(Event{Kind: KindAlert, Message: message})
}

func (n *Notifier) publish(ev Event) {
	ev.At = n.now()
	select {
	case n.events <- ev:
	default:
		n.mu.Lock()
		n.dropped++
		n.mu.Unlock()
	}
}
