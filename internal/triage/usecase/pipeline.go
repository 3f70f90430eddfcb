package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	maildomain "dayboard-backend/internal/mail/domain"
	mailusecase "dayboard-backend/internal/mail/usecase"
	"dayboard-backend/internal/triage/domain"

	"github.com/rs/zerolog"
)

// State is the pipeline's position in the triage flow.
type State string

const (
	StateIdle         State = "idle"
	StateFetching     State = "fetching"
	StateListed       State = "listed"
	StateAnalyzing    State = "analyzing"
	StateReplyReady   State = "reply_ready"
	StateSending      State = "sending"
	StateSent         State = "sent"
	StateTaskPrompt   State = "task_prompt"
	StateTaskCreating State = "task_creating"
	StateDone         State = "done"
)

var (
	// ErrInvalidTransition maps to 409: the UI asked for a step the
	// pipeline is not in a position to take.
	ErrInvalidTransition = errors.New("invalid pipeline transition")

	// ErrSuperseded is returned to the request whose analysis was
	// cancelled and replaced by a newer one.
	ErrSuperseded = errors.New("analysis superseded by a newer request")
)

// TaskCreator persists a task confirmed at the end of the pipeline.
type TaskCreator interface {
	CreateFromTriage(ctx context.Context, ownerID, title, description, priority string, dueDate *time.Time) error
}

// EventCreator persists a schedule entry for event-like messages.
type EventCreator interface {
	CreateFromTriage(ctx context.Context, ownerID, title, description, date, timeOfDay string) error
}

// Pipeline drives one UI session through fetch → classify → reply → send →
// optional task creation. At most one classification and one send are in
// flight at a time; a new Open supersedes an in-flight analysis and the
// stale result is discarded when it arrives.
type Pipeline struct {
	mail     mailusecase.MailUsecase
	analyzer *Analyzer
	tasks    TaskCreator
	events   EventCreator
	ownerID  string
	log      zerolog.Logger

	mu             sync.Mutex
	state          State
	messages       []*maildomain.Message
	fallbackReason string
	current        *maildomain.Message
	analysis       *domain.ClassificationResult
	replyBuffer    string
	analyzeGen     int
	cancelAnalyze  context.CancelFunc
}

func NewPipeline(mail mailusecase.MailUsecase, analyzer *Analyzer, tasks TaskCreator, events EventCreator, ownerID string, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		mail:     mail,
		analyzer: analyzer,
		tasks:    tasks,
		events:   events,
		ownerID:  ownerID,
		log:      log,
		state:    StateIdle,
	}
}

// Snapshot is the read-only view handed to the UI.
type Snapshot struct {
	State          State                        `json:"state"`
	Messages       []*maildomain.Message        `json:"messages,omitempty"`
	FallbackReason string                       `json:"fallbackReason,omitempty"`
	CurrentID      string                       `json:"currentId,omitempty"`
	Analysis       *domain.ClassificationResult `json:"analysis,omitempty"`
	ReplyBuffer    string                       `json:"replyBuffer,omitempty"`
}

func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		State:          p.state,
		Messages:       p.messages,
		FallbackReason: p.fallbackReason,
		Analysis:       p.analysis,
		ReplyBuffer:    p.replyBuffer,
	}
	if p.current != nil {
		s.CurrentID = p.current.ID
	}
	return s
}

// Refresh lists the inbox. Provider failure still lands in Listed with
// sample data; the reason travels along as a non-fatal notice.
func (p *Pipeline) Refresh(ctx context.Context, maxResults int) (*mailusecase.ListResult, error) {
	p.mu.Lock()
	p.state = StateFetching
	p.mu.Unlock()

	res, err := p.mail.ListMessages(ctx, maxResults)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = StateIdle
		return nil, err
	}

	p.state = StateListed
	p.messages = res.Messages
	p.fallbackReason = res.Reason
	return res, nil
}

// Open fetches one message and classifies it. If an analysis is already in
// flight it is cancelled and replaced; the superseded call returns
// ErrSuperseded instead of applying its stale result.
func (p *Pipeline) Open(ctx context.Context, id string) (*domain.ClassificationResult, error) {
	p.mu.Lock()
	if p.state == StateIdle || p.state == StateFetching || p.state == StateSending || p.state == StateTaskCreating {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot open a message while %s", ErrInvalidTransition, p.state)
	}
	if p.cancelAnalyze != nil {
		p.cancelAnalyze()
	}
	p.analyzeGen++
	gen := p.analyzeGen
	analyzeCtx, cancel := context.WithCancel(ctx)
	p.cancelAnalyze = cancel
	p.state = StateAnalyzing
	p.mu.Unlock()

	msg, _, err := p.mail.GetMessage(analyzeCtx, id)
	if err != nil {
		return nil, p.finishAnalysis(gen, nil, nil, err)
	}

	result := p.analyzer.Analyze(analyzeCtx, msg.Subject, msg.From, msg.Body, false)
	return result, p.finishAnalysis(gen, msg, result, analyzeCtx.Err())
}

// Regenerate re-runs classification for the current message, replacing the
// reply buffer. Each regeneration is independent; no history is kept.
func (p *Pipeline) Regenerate(ctx context.Context) (*domain.ClassificationResult, error) {
	p.mu.Lock()
	if p.state != StateReplyReady {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: regenerate requires a ready reply, not %s", ErrInvalidTransition, p.state)
	}
	if p.cancelAnalyze != nil {
		p.cancelAnalyze()
	}
	p.analyzeGen++
	gen := p.analyzeGen
	analyzeCtx, cancel := context.WithCancel(ctx)
	p.cancelAnalyze = cancel
	msg := p.current
	p.state = StateAnalyzing
	p.mu.Unlock()

	result := p.analyzer.Analyze(analyzeCtx, msg.Subject, msg.From, msg.Body, true)
	return result, p.finishAnalysis(gen, msg, result, analyzeCtx.Err())
}

// finishAnalysis commits an analysis outcome unless a newer request
// superseded this one in the meantime.
func (p *Pipeline) finishAnalysis(gen int, msg *maildomain.Message, result *domain.ClassificationResult, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.analyzeGen {
		return ErrSuperseded
	}
	p.cancelAnalyze = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ErrSuperseded
		}
		p.state = StateListed
		return err
	}

	p.current = msg
	p.analysis = result
	p.replyBuffer = result.Reply
	p.state = StateReplyReady
	return nil
}

// SetReply replaces the edit buffer with the user's text.
func (p *Pipeline) SetReply(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateReplyReady {
		return fmt.Errorf("%w: no reply to edit in state %s", ErrInvalidTransition, p.state)
	}
	p.replyBuffer = text
	return nil
}

// Send delivers the reply buffer. Failure rolls back to ReplyReady with the
// buffer untouched so the user's edits survive a retry.
func (p *Pipeline) Send(ctx context.Context, to, subject string) (string, State, error) {
	p.mu.Lock()
	if p.state != StateReplyReady {
		p.mu.Unlock()
		return "", p.state, fmt.Errorf("%w: nothing to send in state %s", ErrInvalidTransition, p.state)
	}
	p.state = StateSending
	msg := p.current
	body := p.replyBuffer
	p.mu.Unlock()

	sentID, err := p.mail.SendReply(ctx, msg.ID, to, subject, body)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = StateReplyReady
		return "", p.state, err
	}

	p.state = StateSent
	if p.analysis != nil && p.analysis.TaskSuggestion != "" {
		p.state = StateTaskPrompt
	} else {
		p.state = StateDone
	}
	p.log.Info().Str("sentId", sentID).Str("next", string(p.state)).Msg("triage reply sent")
	return sentID, p.state, nil
}

// ConfirmTask persists the follow-up from the current analysis: a schedule
// entry when the message implies an event, a task otherwise.
func (p *Pipeline) ConfirmTask(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateTaskPrompt {
		p.mu.Unlock()
		return fmt.Errorf("%w: no pending task prompt in state %s", ErrInvalidTransition, p.state)
	}
	p.state = StateTaskCreating
	analysis := p.analysis
	msg := p.current
	p.mu.Unlock()

	description := triageDescription(msg)
	var err error
	if analysis.IsEvent {
		err = p.events.CreateFromTriage(ctx, p.ownerID,
			analysis.EventDetails.Title, description,
			analysis.EventDetails.Date, analysis.EventDetails.Time)
	} else {
		err = p.tasks.CreateFromTriage(ctx, p.ownerID,
			analysis.TaskSuggestion, description,
			analysis.Priority, analysisDueDate(analysis))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = StateTaskPrompt
		return err
	}
	p.state = StateDone
	return nil
}

// DeclineTask skips persistence and finishes the flow.
func (p *Pipeline) DeclineTask() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateTaskPrompt {
		return fmt.Errorf("%w: no pending task prompt in state %s", ErrInvalidTransition, p.state)
	}
	p.state = StateDone
	return nil
}

func triageDescription(msg *maildomain.Message) string {
	excerpt := msg.Body
	if excerpt == "" {
		excerpt = msg.Snippet
	}
	if runes := []rune(excerpt); len(runes) > 200 {
		excerpt = string(runes[:200]) + "..."
	}
	return fmt.Sprintf("From: %s\nSubject: %s\n\n%s", msg.From, msg.Subject, excerpt)
}

func analysisDueDate(a *domain.ClassificationResult) *time.Time {
	date := a.Deadline
	if date == "" && a.EventDetails != nil {
		date = a.EventDetails.Date
	}
	if date == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil
	}
	return &t
}

// sessionTTL bounds how long an idle session's pipeline is retained before
// the next access sweeps it away.
const sessionTTL = 30 * time.Minute

type session struct {
	pipeline *Pipeline
	lastSeen time.Time
}

// Manager hands out one pipeline per UI session. State is session-scoped,
// never process-global, so concurrent users cannot see each other's flow.
// Sessions idle past sessionTTL are evicted on the next access.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	mail     mailusecase.MailUsecase
	analyzer *Analyzer
	tasks    TaskCreator
	events   EventCreator
	log      zerolog.Logger
	now      func() time.Time
}

func NewManager(mail mailusecase.MailUsecase, analyzer *Analyzer, tasks TaskCreator, events EventCreator, log zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		mail:     mail,
		analyzer: analyzer,
		tasks:    tasks,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// Session returns the pipeline for the given session id, creating it on
// first use. ownerID scopes any records the pipeline persists.
func (m *Manager) Session(sessionID, ownerID string) *Pipeline {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > sessionTTL {
			delete(m.sessions, id)
		}
	}

	if s, ok := m.sessions[sessionID]; ok {
		s.lastSeen = now
		return s.pipeline
	}
	p := NewPipeline(m.mail, m.analyzer, m.tasks, m.events, ownerID, m.log)
	m.sessions[sessionID] = &session{pipeline: p, lastSeen: now}
	return p
}
