package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/saulo-duarte/aizzler/internal/aiquiz"
	"github.com/saulo-duarte/aizzler/internal/config"
)

type Generator interface {
	GenerateQuiz(ctx context.Context, req aiquiz.GenerateRequest) ([]aiquiz.Question, error)
}

type Snapshot struct {
	State     State
	Settings  aiquiz.Settings
	InputText string
	Questions []aiquiz.Question
	Answers   []*string
	Current   int
	Remaining int
	Score     int
	Saved     bool
	LastError error
}

// Machine owns one quiz session. Every transition goes through its mutex; the
// countdown goroutine is the only caller that is not user driven.
type Machine struct {
	mu        sync.Mutex
	gen       Generator
	newTicker func() Ticker

	state     State
	origin    State
	settings  aiquiz.Settings
	inputText string
	questions []aiquiz.Question
	answers   []*string
	current   int
	remaining int
	score     int
	saved     bool
	lastErr   error

	countdown *Countdown
	epoch     uint64
	request   uint64
	finished  chan struct{}
}

// New returns a machine in the input view with default settings. A nil
// newTicker uses a one second wall clock ticker.
func New(gen Generator, newTicker func() Ticker) *Machine {
	if newTicker == nil {
		newTicker = func() Ticker { return NewTicker(time.Second) }
	}
	return &Machine{
		gen:       gen,
		newTicker: newTicker,
		state:     StateInput,
		settings:  aiquiz.DefaultSettings(),
	}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		State:     m.state,
		Settings:  m.settings,
		InputText: m.inputText,
		Current:   m.current,
		Remaining: m.remaining,
		Score:     m.score,
		Saved:     m.saved,
		LastError: m.lastErr,
	}
	if m.questions != nil {
		s.Questions = append([]aiquiz.Question(nil), m.questions...)
	}
	if m.answers != nil {
		s.Answers = make([]*string, len(m.answers))
		for i, a := range m.answers {
			if a != nil {
				v := *a
				s.Answers[i] = &v
			}
		}
	}
	return s
}

// Finished is closed when the current quiz reaches the results view, either
// by submission or by the countdown running out.
func (m *Machine) Finished() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finished
}

func (m *Machine) Results() (Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateFinished && !(m.state == StateSaved && m.origin == StateFinished) {
		return Report{}, ErrInvalidTransition
	}
	return Evaluate(m.questions, m.answers), nil
}

// Generate blocks until the generator replies. The machine stays in the
// loading view meanwhile and rejects a second generation with ErrBusy.
func (m *Machine) Generate(ctx context.Context, text string) error {
	m.mu.Lock()
	switch m.state {
	case StateLoading:
		m.mu.Unlock()
		return ErrBusy
	case StateInput:
	default:
		m.mu.Unlock()
		return ErrInvalidTransition
	}
	m.inputText = text
	if strings.TrimSpace(text) == "" {
		m.lastErr = ErrEmptyInput
		m.mu.Unlock()
		return ErrEmptyInput
	}

	m.state = StateLoading
	m.lastErr = nil
	m.request++
	request := m.request
	req := m.settings.Request(text)
	m.mu.Unlock()

	questions, err := m.gen.GenerateQuiz(ctx, req)
	if err == nil && len(questions) == 0 {
		err = ErrNoQuestions
	}

	m.mu.Lock()
	if m.state != StateLoading || m.request != request {
		m.mu.Unlock()
		return ErrAbandoned
	}
	if err != nil {
		m.state = StateInput
		m.lastErr = err
		m.mu.Unlock()
		config.Logger().WithError(err).Warn("Quiz generation failed")
		return err
	}
	old := m.startLocked(questions)
	m.mu.Unlock()

	stopCountdown(old)
	return nil
}

// startLocked enters the active view with fresh answers and a new countdown.
// It returns the previous countdown, which the caller stops after unlocking.
func (m *Machine) startLocked(questions []aiquiz.Question) *Countdown {
	old := m.countdown

	m.state = StateActive
	m.questions = questions
	m.answers = make([]*string, len(questions))
	m.current = 0
	m.score = 0
	m.saved = false
	m.lastErr = nil
	m.remaining = m.settings.TimeLimitMinutes * 60
	m.finished = make(chan struct{})

	m.epoch++
	epoch := m.epoch
	m.countdown = StartCountdown(m.remaining, m.newTicker(),
		func(remaining int) { m.tick(epoch, remaining) },
		func() { m.expire(epoch) },
	)
	return old
}

func (m *Machine) tick(epoch uint64, remaining int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch || m.state != StateActive {
		return
	}
	m.remaining = remaining
}

func (m *Machine) expire(epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch || m.state != StateActive {
		return
	}
	m.remaining = 0
	// The countdown goroutine exits on its own after this callback.
	m.countdown = nil
	m.finishLocked()
}

func (m *Machine) finishLocked() {
	m.epoch++
	m.score = Score(m.questions, m.answers)
	m.state = StateFinished
	if m.finished != nil {
		close(m.finished)
	}
}

// detachLocked forgets the running countdown so its callbacks become no-ops.
func (m *Machine) detachLocked() *Countdown {
	old := m.countdown
	m.countdown = nil
	m.epoch++
	return old
}

func stopCountdown(c *Countdown) {
	if c != nil {
		c.Stop()
	}
}

// Answer commits value as the answer to question index. A blank value clears
// the answer.
func (m *Machine) Answer(index int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return ErrNotActive
	}
	if index < 0 || index >= len(m.questions) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if strings.TrimSpace(value) == "" {
		m.answers[index] = nil
		return nil
	}
	v := value
	m.answers[index] = &v
	return nil
}

func (m *Machine) Next() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateActive && m.current < len(m.questions)-1 {
		m.current++
	}
}

func (m *Machine) Prev() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateActive && m.current > 0 {
		m.current--
	}
}

func (m *Machine) Submit() error {
	m.mu.Lock()
	if m.state != StateActive {
		m.mu.Unlock()
		return ErrNotActive
	}
	old := m.detachLocked()
	m.finishLocked()
	m.mu.Unlock()

	stopCountdown(old)
	return nil
}

// NewQuiz discards the current quiz and returns to the input view.
func (m *Machine) NewQuiz() error {
	m.mu.Lock()
	switch m.state {
	case StateActive, StateFinished, StateInput:
	default:
		m.mu.Unlock()
		return ErrInvalidTransition
	}
	old := m.resetLocked()
	m.mu.Unlock()

	stopCountdown(old)
	return nil
}

func (m *Machine) resetLocked() *Countdown {
	old := m.detachLocked()
	m.request++
	m.state = StateInput
	m.origin = StateInput
	m.inputText = ""
	m.questions = nil
	m.answers = nil
	m.current = 0
	m.remaining = 0
	m.score = 0
	m.saved = false
	m.lastErr = nil
	m.finished = nil
	return old
}

func (m *Machine) OpenSettings() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateInput {
		return ErrInvalidTransition
	}
	m.state = StateSettings
	return nil
}

// SaveSettings validates s and returns to the input view. Invalid settings
// leave the machine in the settings view.
func (m *Machine) SaveSettings(s aiquiz.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateSettings {
		return ErrInvalidTransition
	}
	if err := s.Validate(); err != nil {
		m.lastErr = err
		return err
	}
	m.settings = s
	m.lastErr = nil
	m.state = StateInput
	return nil
}

func (m *Machine) CloseSettings() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateSettings {
		return ErrInvalidTransition
	}
	m.lastErr = nil
	m.state = StateInput
	return nil
}

func (m *Machine) OpenSaved() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateInput && m.state != StateFinished {
		return ErrInvalidTransition
	}
	m.origin = m.state
	m.state = StateSaved
	return nil
}

func (m *Machine) CloseSaved() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateSaved {
		return ErrInvalidTransition
	}
	m.state = m.origin
	return nil
}

// Retake restarts a stored quiz with its stored settings.
func (m *Machine) Retake(questions []aiquiz.Question, settings aiquiz.Settings) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	switch m.state {
	case StateSaved, StateInput, StateFinished:
	default:
		m.mu.Unlock()
		return ErrInvalidTransition
	}
	m.settings = settings
	m.origin = StateInput
	old := m.startLocked(append([]aiquiz.Question(nil), questions...))
	m.mu.Unlock()

	stopCountdown(old)
	return nil
}

// MarkSaved records that the finished quiz has been persisted.
func (m *Machine) MarkSaved() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateFinished {
		return ErrInvalidTransition
	}
	if m.saved {
		return ErrAlreadySaved
	}
	m.saved = true
	return nil
}

// SignedOut drops everything tied to the previous identity. Settings survive.
func (m *Machine) SignedOut() {
	m.mu.Lock()
	old := m.resetLocked()
	m.mu.Unlock()

	stopCountdown(old)
}

// Close stops the countdown, if any. The machine must not be used afterwards.
func (m *Machine) Close() {
	m.mu.Lock()
	old := m.detachLocked()
	m.mu.Unlock()

	stopCountdown(old)
}
