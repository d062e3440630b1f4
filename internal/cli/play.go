package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/saulo-duarte/aizzler/internal/aiquiz"
	"github.com/saulo-duarte/aizzler/internal/apiclient"
	"github.com/saulo-duarte/aizzler/internal/auth"
	"github.com/saulo-duarte/aizzler/internal/config"
	"github.com/saulo-duarte/aizzler/internal/quiz"
	"github.com/saulo-duarte/aizzler/internal/session"
	"github.com/saulo-duarte/aizzler/internal/user"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Backend is the part of the API client the terminal player needs.
type Backend interface {
	session.Generator
	SignUp(ctx context.Context, email, password string) (*user.AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*user.AuthResponse, error)
	SignOut(ctx context.Context) error
	ClearSession()
	Token() string
	Email() string
	SaveQuiz(ctx context.Context, dto quiz.SaveQuizDTO) (*quiz.SavedQuizResponse, error)
	ListQuizzes(ctx context.Context) ([]quiz.SavedQuizResponse, error)
	DeleteQuiz(ctx context.Context, id string) error
	Events(ctx context.Context) (<-chan auth.Event, error)
}

// NewPlayCmd runs the interactive terminal client against a running API.
func NewPlayCmd(configPath *string) *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Generate and take quizzes from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if apiURL == "" {
				apiURL = settings.Client.APIURL
			}

			// Keep log lines out of the interactive screen.
			config.Logger().SetOutput(os.Stderr)
			config.Logger().SetLevel(logrus.WarnLevel)

			client := apiclient.New(apiURL, &http.Client{Timeout: 2 * time.Minute})
			machine := session.New(client, nil)
			defer machine.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return NewPlayer(client, machine, cmd.OutOrStdout()).Run(ctx, readLines(cmd.InOrStdin()))
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "", "base URL of the aizzler API")
	return cmd
}

func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// Player turns input lines into session transitions and renders each view.
type Player struct {
	backend Backend
	machine *session.Machine
	out     io.Writer

	input         []string
	draft         aiquiz.Settings
	saved         []quiz.SavedQuizResponse
	pendingDelete *quiz.SavedQuizResponse

	events     <-chan auth.Event
	stopEvents context.CancelFunc
	generated  chan error
	announced  <-chan struct{}
}

func NewPlayer(backend Backend, machine *session.Machine, out io.Writer) *Player {
	return &Player{
		backend:   backend,
		machine:   machine,
		out:       out,
		generated: make(chan error, 1),
	}
}

// Run processes lines until they run out, ctx is cancelled or the user quits.
func (p *Player) Run(ctx context.Context, lines <-chan string) error {
	defer p.closeEvents()

	p.println("Welcome to aizzler.")
	p.renderAuth()

	for {
		finished := p.machine.Finished()
		if finished == p.announced {
			finished = nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if p.handle(ctx, line) {
				p.println("Bye.")
				return nil
			}

		case err := <-p.generated:
			p.onGenerated(err)

		case <-finished:
			p.announced = finished
			p.println("Quiz finished.")
			p.renderResults()

		case ev, ok := <-p.events:
			if !ok {
				p.events = nil
				continue
			}
			if ev.Event == auth.EventSignedOut {
				p.onRemoteSignOut()
			}
		}
	}
}

func (p *Player) handle(ctx context.Context, line string) bool {
	line = strings.TrimRight(line, "\r")
	cmd := strings.TrimSpace(line)

	if cmd == ":quit" || cmd == ":q" {
		return true
	}
	if p.backend.Token() == "" {
		p.handleAuth(ctx, cmd)
		return false
	}
	if p.pendingDelete != nil {
		p.confirmDelete(ctx, cmd)
		return false
	}
	if cmd == ":logout" {
		p.signOut(ctx)
		return false
	}

	switch p.machine.State() {
	case session.StateInput:
		p.handleInput(ctx, line, cmd)
	case session.StateLoading:
		p.println("Generating quiz, please wait...")
	case session.StateActive:
		p.handleActive(cmd)
	case session.StateFinished:
		p.handleFinished(ctx, cmd)
	case session.StateSettings:
		p.handleSettings(cmd)
	case session.StateSaved:
		p.handleSaved(ctx, cmd)
	}
	return false
}

func (p *Player) handleAuth(ctx context.Context, cmd string) {
	fields := strings.Fields(cmd)
	if len(fields) != 3 {
		p.renderAuth()
		return
	}

	var err error
	switch fields[0] {
	case "login":
		_, err = p.backend.SignIn(ctx, fields[1], fields[2])
	case "register":
		_, err = p.backend.SignUp(ctx, fields[1], fields[2])
	default:
		p.renderAuth()
		return
	}
	if err != nil {
		p.printf("Authentication failed: %s\n", describe(err))
		return
	}

	p.printf("Signed in as %s.\n", p.backend.Email())
	p.openEvents(ctx)
	p.renderInput()
}

func (p *Player) openEvents(ctx context.Context) {
	p.closeEvents()
	evCtx, cancel := context.WithCancel(ctx)
	events, err := p.backend.Events(evCtx)
	if err != nil {
		cancel()
		config.Logger().WithError(err).Warn("Auth event stream unavailable")
		return
	}
	p.events = events
	p.stopEvents = cancel
}

func (p *Player) closeEvents() {
	if p.stopEvents != nil {
		p.stopEvents()
		p.stopEvents = nil
	}
	p.events = nil
}

func (p *Player) signOut(ctx context.Context) {
	p.closeEvents()
	if err := p.backend.SignOut(ctx); err != nil {
		p.printf("Sign out did not reach the server: %s\n", describe(err))
	}
	p.resetIdentity()
	p.println("Signed out.")
	p.renderAuth()
}

func (p *Player) onRemoteSignOut() {
	p.closeEvents()
	p.backend.ClearSession()
	p.resetIdentity()
	p.println("Your session has ended.")
	p.renderAuth()
}

func (p *Player) resetIdentity() {
	p.machine.SignedOut()
	p.input = nil
	p.saved = nil
	p.pendingDelete = nil
}

func (p *Player) handleInput(ctx context.Context, line, cmd string) {
	switch cmd {
	case ":go":
		text := strings.Join(p.input, "\n")
		p.println("Generating quiz...")
		go func() { p.generated <- p.machine.Generate(ctx, text) }()
	case ":settings":
		if err := p.machine.OpenSettings(); err != nil {
			p.printf("Cannot open settings: %s\n", describe(err))
			return
		}
		p.draft = p.machine.Snapshot().Settings
		p.renderSettings()
	case ":saved":
		p.openSaved(ctx)
	case ":clear":
		p.input = nil
		p.println("Input cleared.")
	case ":help":
		p.renderInput()
	default:
		if strings.HasPrefix(cmd, ":") {
			p.printf("Unknown command %s\n", cmd)
			return
		}
		p.input = append(p.input, line)
	}
}

func (p *Player) onGenerated(err error) {
	switch {
	case err == nil:
		p.input = nil
		p.renderQuestion()
	case errors.Is(err, session.ErrAbandoned):
	case errors.Is(err, session.ErrBusy):
		p.println("Still generating the previous quiz, please wait...")
	case errors.Is(err, session.ErrEmptyInput):
		p.println("Please paste some text before generating a quiz.")
	default:
		p.printf("Could not generate quiz: %s\n", describe(err))
		p.renderInput()
	}
}

func (p *Player) handleActive(cmd string) {
	switch cmd {
	case ":next", ":n":
		p.machine.Next()
		p.renderQuestion()
	case ":prev", ":p":
		p.machine.Prev()
		p.renderQuestion()
	case ":submit":
		if err := p.machine.Submit(); err != nil {
			p.printf("Cannot submit: %s\n", describe(err))
		}
	case ":new":
		_ = p.machine.NewQuiz()
		p.renderInput()
	case ":show":
		p.renderQuestion()
	default:
		if strings.HasPrefix(cmd, ":") {
			p.printf("Unknown command %s\n", cmd)
			return
		}
		snap := p.machine.Snapshot()
		if err := p.machine.Answer(snap.Current, cmd); err != nil {
			p.printf("Answer not recorded: %s\n", describe(err))
			return
		}
		if cmd == "" {
			p.println("Answer cleared.")
			return
		}
		p.println("Answer recorded.")
	}
}

func (p *Player) handleFinished(ctx context.Context, cmd string) {
	name, rest := splitCommand(cmd)
	switch name {
	case ":save":
		p.save(ctx, rest)
	case ":saved":
		p.openSaved(ctx)
	case ":new":
		_ = p.machine.NewQuiz()
		p.renderInput()
	case ":results":
		p.renderResults()
	default:
		p.println("Commands: :save [name], :saved, :new, :results, :logout, :quit")
	}
}

func (p *Player) save(ctx context.Context, name string) {
	snap := p.machine.Snapshot()
	if snap.Saved {
		p.println("This quiz is already saved.")
		return
	}

	now := time.Now()
	dto := quiz.SaveQuizDTO{
		Name:        name,
		QuizData:    snap.Questions,
		UserAnswers: snap.Answers,
		Score:       snap.Score,
		Settings:    snap.Settings,
		Timestamp:   &now,
	}
	saved, err := p.backend.SaveQuiz(ctx, dto)
	if err != nil {
		p.printf("Could not save quiz: %s\n", describe(err))
		return
	}
	if err := p.machine.MarkSaved(); err != nil && !errors.Is(err, session.ErrAlreadySaved) {
		p.printf("Quiz saved but the session moved on: %s\n", describe(err))
		return
	}
	p.printf("Saved as %q.\n", saved.Name)
}

func (p *Player) openSaved(ctx context.Context) {
	if err := p.machine.OpenSaved(); err != nil {
		p.printf("Cannot open saved quizzes: %s\n", describe(err))
		return
	}
	if !p.refreshSaved(ctx) {
		_ = p.machine.CloseSaved()
		return
	}
	p.renderSaved()
}

func (p *Player) refreshSaved(ctx context.Context) bool {
	list, err := p.backend.ListQuizzes(ctx)
	if err != nil {
		p.printf("Could not load saved quizzes: %s\n", describe(err))
		return false
	}
	p.saved = list
	return true
}

func (p *Player) handleSaved(ctx context.Context, cmd string) {
	name, rest := splitCommand(cmd)
	switch name {
	case ":back":
		_ = p.machine.CloseSaved()
		p.saved = nil
		p.renderCurrent()
	case ":retake":
		entry, ok := p.pick(rest)
		if !ok {
			return
		}
		if err := p.machine.Retake(entry.QuizData, entry.Settings); err != nil {
			p.printf("Cannot retake quiz: %s\n", describe(err))
			return
		}
		p.saved = nil
		p.renderQuestion()
	case ":delete":
		entry, ok := p.pick(rest)
		if !ok {
			return
		}
		p.pendingDelete = &entry
		p.printf("Delete %q? Type yes to confirm.\n", entry.Name)
	default:
		p.renderSaved()
	}
}

func (p *Player) pick(arg string) (quiz.SavedQuizResponse, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > len(p.saved) {
		p.println("Pick a quiz by its number from the list.")
		return quiz.SavedQuizResponse{}, false
	}
	return p.saved[n-1], true
}

func (p *Player) confirmDelete(ctx context.Context, cmd string) {
	entry := p.pendingDelete
	p.pendingDelete = nil

	if !strings.EqualFold(cmd, "yes") && !strings.EqualFold(cmd, "y") {
		p.println("Delete cancelled.")
		return
	}
	if err := p.backend.DeleteQuiz(ctx, entry.ID.String()); err != nil {
		p.printf("Could not delete quiz: %s\n", describe(err))
		return
	}
	p.printf("Deleted %q.\n", entry.Name)
	if p.refreshSaved(ctx) {
		p.renderSaved()
	}
}

func (p *Player) handleSettings(cmd string) {
	name, rest := splitCommand(cmd)
	switch name {
	case "questions":
		if n, err := strconv.Atoi(rest); err == nil {
			p.draft.NumQuestions = n
		}
	case "minutes":
		if n, err := strconv.Atoi(rest); err == nil {
			p.draft.TimeLimitMinutes = n
		}
	case "format":
		p.draft.QuestionFormat = aiquiz.Format(rest)
	case "language":
		p.draft.Language = rest
	case ":save":
		if err := p.machine.SaveSettings(p.draft); err != nil {
			p.printf("Settings not saved: %s\n", describe(err))
			return
		}
		p.println("Settings saved.")
		p.renderInput()
		return
	case ":cancel":
		_ = p.machine.CloseSettings()
		p.renderInput()
		return
	}
	p.renderSettings()
}

func (p *Player) renderCurrent() {
	switch p.machine.State() {
	case session.StateFinished:
		p.renderResults()
	case session.StateActive:
		p.renderQuestion()
	default:
		p.renderInput()
	}
}

func (p *Player) renderAuth() {
	p.println("Sign in with: login <email> <password>")
	p.println("Or create an account: register <email> <password>")
}

func (p *Player) renderInput() {
	s := p.machine.Snapshot().Settings
	p.printf("Paste your study text, then type :go. (%d questions, %d min, %s, %s)\n",
		s.NumQuestions, s.TimeLimitMinutes, s.QuestionFormat, s.Language)
	p.println("Other commands: :settings, :saved, :clear, :logout, :quit")
}

func (p *Player) renderSettings() {
	p.printf("questions %d | minutes %d | format %s | language %s\n",
		p.draft.NumQuestions, p.draft.TimeLimitMinutes, p.draft.QuestionFormat, p.draft.Language)
	p.println("Change a value with e.g. `questions 8`, then :save or :cancel.")
}

func (p *Player) renderQuestion() {
	snap := p.machine.Snapshot()
	if snap.State != session.StateActive || len(snap.Questions) == 0 {
		return
	}
	q := snap.Questions[snap.Current]
	p.printf("Question %d/%d  [%s left]\n", snap.Current+1, len(snap.Questions), clock(snap.Remaining))
	p.println(q.Question)
	for _, opt := range q.Options {
		p.printf("  %s) %s\n", opt.Label, opt.Text)
	}
	if a := snap.Answers[snap.Current]; a != nil {
		p.printf("Your answer: %s\n", *a)
	}
	p.println("Type your answer, or :next, :prev, :submit, :new")
}

func (p *Player) renderResults() {
	report, err := p.machine.Results()
	if err != nil {
		return
	}
	p.printf("Score: %d/%d (%.0f%%)\n", report.Score, report.Total, report.Percentage)
	for _, r := range report.Results {
		mark := "wrong"
		if r.Correct {
			mark = "correct"
		}
		given := r.Given
		if !r.Answered {
			given = "(no answer)"
		}
		p.printf("%d. %s\n   you: %s | expected: %s | %s\n", r.Index+1, r.Question.Question, given, r.Question.Answer, mark)
	}
	p.println("Commands: :save [name], :saved, :new")
}

func (p *Player) renderSaved() {
	if len(p.saved) == 0 {
		p.println("No saved quizzes yet. Type :back to return.")
		return
	}
	for i, q := range p.saved {
		p.printf("%d. %s  %d/%d  %s\n", i+1, q.Name, q.Score, q.TotalQuestions, q.Timestamp.Local().Format(time.DateTime))
	}
	p.println("Commands: :retake <n>, :delete <n>, :back")
}

func (p *Player) println(s string) {
	fmt.Fprintln(p.out, s)
}

func (p *Player) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func splitCommand(cmd string) (string, string) {
	name, rest, _ := strings.Cut(cmd, " ")
	return name, strings.TrimSpace(rest)
}

func clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func describe(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, apiclient.ErrServiceUnavailable):
		return "the quiz service is unreachable, try again later"
	default:
		return err.Error()
	}
}
