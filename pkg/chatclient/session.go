// Package chatclient implements the conversation state machine used by
// CodaiPro chat front-ends. It owns the transcript, enforces the
// single-in-flight rule, and simulates incremental "typing" reveal of
// responses that have already been fully received. The package has no
// UI dependencies; callers subscribe to change notifications and render
// the transcript however they like.
package chatclient

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the session's position in the request lifecycle.
type State int

const (
	// StateIdle means the session is waiting for user input.
	StateIdle State = iota
	// StateSending means a request is in flight to the gateway.
	StateSending
	// StateReceiving means a response arrived and is being revealed.
	StateReceiving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateReceiving:
		return "receiving"
	default:
		return "unknown"
	}
}

// Entry is one transcript record. Entries are append-only except that
// the newest assistant entry is filled in progressively during reveal.
type Entry struct {
	ID        string
	Role      string
	Content   string
	CreatedAt time.Time
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// StoppedSuffix marks a reply the user cut off mid-reveal.
const StoppedSuffix = "\n\n[Response stopped by user]"

// DefaultRevealInterval is the per-character delay of the typing
// reveal.
const DefaultRevealInterval = 20 * time.Millisecond

const defaultSystemPrompt = "You are CodaiPro AI, an expert coding assistant. Help users with code generation, debugging, explanations, and best practices. Format your responses using proper markdown."

var (
	// ErrBusy is returned by Send while a previous exchange is still in
	// flight. The submit control should be disabled in that state, so
	// callers usually treat it as a no-op.
	ErrBusy = errors.New("a request is already in flight")

	// ErrEmptyInput is returned when the submitted text is blank.
	ErrEmptyInput = errors.New("input cannot be empty")
)

// Option configures a Session.
type Option func(*Session)

// WithRevealInterval overrides the per-character reveal delay.
func WithRevealInterval(d time.Duration) Option {
	return func(s *Session) { s.revealInterval = d }
}

// WithSystemPrompt overrides the system message sent with every
// request.
func WithSystemPrompt(prompt string) Option {
	return func(s *Session) { s.systemPrompt = prompt }
}

// WithOnChange registers a callback invoked after every transcript or
// state mutation. It is called without internal locks held.
func WithOnChange(fn func()) Option {
	return func(s *Session) { s.onChange = fn }
}

// Session is one conversation. All methods are safe for concurrent use;
// the intended owner is a single UI loop.
type Session struct {
	completer      Completer
	systemPrompt   string
	revealInterval time.Duration
	onChange       func()

	mu         sync.Mutex
	state      State
	transcript []Entry
	cancel     context.CancelFunc
	done       chan struct{}

	// gen identifies the current exchange. Goroutines from an earlier
	// exchange can outlive a Stop and wake after the session slot has
	// been handed to a new Send; they compare their generation against
	// this one and stand down instead of finalizing a successor.
	gen uint64
}

func New(completer Completer, opts ...Option) *Session {
	s := &Session{
		completer:      completer,
		systemPrompt:   defaultSystemPrompt,
		revealInterval: DefaultRevealInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Done returns a channel closed when the current exchange finalizes.
// When the session is idle the returned channel is already closed.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil || s.state == StateIdle {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return s.done
}

// Send submits user input. It returns ErrBusy while an exchange is in
// flight: only one request may be outstanding per session.
func (s *Session) Send(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return ErrEmptyInput
	}

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrBusy
	}

	s.transcript = append(s.transcript, Entry{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   input,
		CreatedAt: time.Now(),
	})

	messages := s.buildMessagesLocked()

	cctx, cancel := context.WithCancel(ctx)
	s.state = StateSending
	s.cancel = cancel
	s.done = make(chan struct{})
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.notify()
	go s.exchange(cctx, gen, messages)
	return nil
}

// Stop cancels the in-flight request and the reveal, whichever is
// active. A reply cut off mid-reveal keeps its partial text plus
// StoppedSuffix; a request aborted before a response arrived leaves no
// assistant entry and no error message.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}

	if s.state == StateReceiving && len(s.transcript) > 0 {
		last := &s.transcript[len(s.transcript)-1]
		if last.Role == RoleAssistant {
			last.Content += StoppedSuffix
		}
	}

	s.finalizeLocked()
	s.mu.Unlock()
	s.notify()
}

// buildMessagesLocked serializes the full transcript, prefixed with the
// system prompt.
func (s *Session) buildMessagesLocked() []Message {
	messages := make([]Message, 0, len(s.transcript)+1)
	messages = append(messages, Message{Role: RoleSystem, Content: s.systemPrompt})
	for _, entry := range s.transcript {
		messages = append(messages, Message{Role: entry.Role, Content: entry.Content})
	}
	return messages
}

func (s *Session) exchange(ctx context.Context, gen uint64, messages []Message) {
	text, err := s.completer.Complete(ctx, messages)

	s.mu.Lock()
	if gen != s.gen || s.state != StateSending {
		// Stop already finalized this exchange, or a later Send owns
		// the session now
		s.mu.Unlock()
		return
	}

	if ctx.Err() != nil {
		// User canceled: no error message is shown
		s.finalizeLocked()
		s.mu.Unlock()
		s.notify()
		return
	}

	if err != nil {
		s.transcript = append(s.transcript, Entry{
			ID:        uuid.New().String(),
			Role:      RoleAssistant,
			Content:   friendlyMessage(err),
			CreatedAt: time.Now(),
		})
		s.finalizeLocked()
		s.mu.Unlock()
		s.notify()
		return
	}

	entryID := uuid.New().String()
	s.transcript = append(s.transcript, Entry{
		ID:        entryID,
		Role:      RoleAssistant,
		CreatedAt: time.Now(),
	})
	s.state = StateReceiving
	s.mu.Unlock()
	s.notify()

	s.reveal(ctx, gen, text)
}

// reveal fills the newest assistant entry character by character.
// Cancellation stops the ticker; finalization is then Stop's job, so
// the entry is never finalized twice.
func (s *Session) reveal(ctx context.Context, gen uint64, text string) {
	runes := []rune(text)

	if len(runes) == 0 {
		s.mu.Lock()
		if gen == s.gen && s.state == StateReceiving {
			s.finalizeLocked()
		}
		s.mu.Unlock()
		s.notify()
		return
	}

	ticker := time.NewTicker(s.revealInterval)
	defer ticker.Stop()

	shown := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if gen != s.gen || s.state != StateReceiving {
				s.mu.Unlock()
				return
			}

			shown++
			s.transcript[len(s.transcript)-1].Content = string(runes[:shown])

			if shown == len(runes) {
				s.finalizeLocked()
				s.mu.Unlock()
				s.notify()
				return
			}
			s.mu.Unlock()
			s.notify()
		}
	}
}

// finalizeLocked returns the session to Idle, releasing the exchange's
// context so its resources are not held past completion.
func (s *Session) finalizeLocked() {
	s.state = StateIdle
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
