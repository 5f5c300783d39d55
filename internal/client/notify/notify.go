// Package notify surfaces user-facing messages from client components.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// LogNotifier writes notifications through zerolog.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Success(msg string) {
	n.log.Info().Str("kind", "success").Msg(msg)
}

func (n *LogNotifier) Failure(msg string) {
	n.log.Warn().Str("kind", "failure").Msg(msg)
}

// Message is one recorded notification.
type Message struct {
	OK   bool
	Text string
}

// Recorder keeps notifications in memory; tests and the CLI read them back.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

func (r *Recorder) Success(msg string) { r.add(Message{OK: true, Text: msg}) }

func (r *Recorder) Failure(msg string) { r.add(Message{Text: msg}) }

func (r *Recorder) add(m Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
}

// Drain returns and forgets everything recorded so far.
func (r *Recorder) Drain() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.msgs
	r.msgs = nil
	return out
}

// Multi fans every notification out to each of its notifiers in order.
type Multi []Notifier

func (m Multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m Multi) Failure(msg string) {
	for _, n := range m {
		n.Failure(msg)
	}
}
