package wizard

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"goodtime-diagnostic/internal/diagnostic"
	"goodtime-diagnostic/internal/model"
)

// AnalysisClient returns an enriched report for a finished diagnostic
type AnalysisClient interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error)
}

// NotificationSink receives the full submission of a finished diagnostic
type NotificationSink interface {
	Notify(ctx context.Context, sub *model.Submission) error
}

// Config tunes a controller
type Config struct {
	Variant       model.Variant
	AdvanceDelay  time.Duration
	NotifyTimeout time.Duration
	BookingURL    string
}

// DefaultConfig keeps both optional steps and a 400ms advance delay
func DefaultConfig() Config {
	return Config{
		Variant:       model.Variant{Qualification: true, Validation: true},
		AdvanceDelay:  400 * time.Millisecond,
		NotifyTimeout: 10 * time.Second,
	}
}

// Controller owns the state of one diagnostic run. All transitions are
// serialised; the lock is only released while the analysis call is in
// flight, during which every action but Restart fails with ErrBusy.
type Controller struct {
	mu sync.Mutex

	id        string
	bank      *diagnostic.Bank
	cfg       Config
	analysis  AnalysisClient
	sink      NotificationSink
	scheduler Scheduler
	dispatch  func(func())
	now       func() time.Time
	onChange  func(model.SessionView)

	state      model.WizardState
	pending    Timer
	advanceSeq uint64
	finishing  bool
	closed     bool
}

// NewController creates a controller positioned on the welcome step
func NewController(id string, bank *diagnostic.Bank, cfg Config) *Controller {
	c := &Controller{
		id:        id,
		bank:      bank,
		cfg:       cfg,
		scheduler: ClockScheduler(),
		dispatch:  func(f func()) { go f() },
		now:       time.Now,
	}
	c.state = c.initialState()
	return c
}

// SetAnalysisClient sets the optional analysis collaborator
func (c *Controller) SetAnalysisClient(a AnalysisClient) {
	c.analysis = a
}

// SetNotificationSink sets the optional webhook collaborator
func (c *Controller) SetNotificationSink(s NotificationSink) {
	c.sink = s
}

// SetScheduler replaces the timer used for the delayed advance
func (c *Controller) SetScheduler(s Scheduler) {
	c.scheduler = s
}

// SetDispatcher replaces how sink deliveries are started (a goroutine by default)
func (c *Controller) SetDispatcher(d func(func())) {
	c.dispatch = d
}

// SetClock replaces the time source
func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
	c.state.UpdatedAt = now()
}

// OnChange registers a hook called with every new state. It runs while the
// controller is locked and must not call back into it.
func (c *Controller) OnChange(fn func(model.SessionView)) {
	c.onChange = fn
}

// ID returns the session id
func (c *Controller) ID() string {
	return c.id
}

// Start leaves the welcome screen
func (c *Controller) Start() error {
	return c.mutate(ActionStart, func() error {
		c.state.Step = model.StepUserInfo
		return nil
	})
}

// SubmitUserInfo validates and stores the identity step
func (c *Controller) SubmitUserInfo(info model.UserInfo) error {
	return c.mutate(ActionSubmitUserInfo, func() error {
		if verr := diagnostic.ValidateUserInfo(info); verr != nil {
			return verr
		}
		c.state.UserInfo = diagnostic.NormalizeUserInfo(info)
		c.forwardLocked()
		return nil
	})
}

// SubmitQualification validates and stores the business profile
func (c *Controller) SubmitQualification(q model.Qualification) error {
	return c.mutate(ActionSubmitQualification, func() error {
		if verr := diagnostic.ValidateQualification(q); verr != nil {
			return verr
		}
		stored := trimQualification(q)
		c.state.Qualification = &stored
		c.forwardLocked()
		return nil
	})
}

// Answer records the value for the current question and schedules the
// advance. Answering again before the advance fires replaces both the
// value and the pending advance.
func (c *Controller) Answer(ctx context.Context, questionID, value int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guardLocked(ActionAnswer); err != nil {
		return err
	}
	q, ok := c.bank.At(c.state.CurrentQuestionIndex)
	if !ok || q.ID != questionID {
		return fmt.Errorf("%w: %d", ErrNotCurrentQuestion, questionID)
	}
	if _, ok := q.Option(value); !ok {
		return fmt.Errorf("%w: question %d has no option %d", diagnostic.ErrInvalidValue, questionID, value)
	}

	c.state.Answers[questionID] = value
	c.state.Notice = ""
	c.cancelPendingLocked()

	if c.cfg.AdvanceDelay <= 0 {
		return c.advanceLocked(ctx)
	}

	seq := c.advanceSeq
	detached := context.WithoutCancel(ctx)
	c.pending = c.scheduler.AfterFunc(c.cfg.AdvanceDelay, func() {
		c.fireAdvance(detached, seq)
	})
	c.commitLocked()
	return nil
}

// Previous moves one question back, or to the step before the questions
// when on the first one. Answers are kept.
func (c *Controller) Previous() error {
	return c.mutate(ActionPrevious, func() error {
		c.previousLocked()
		return nil
	})
}

// BackFromValidation returns to the last question
func (c *Controller) BackFromValidation() error {
	return c.mutate(ActionBackFromValidation, func() error {
		c.backFromValidationLocked()
		return nil
	})
}

// Back moves to the single predecessor of the current position
func (c *Controller) Back() error {
	return c.mutate(ActionBack, func() error {
		switch c.state.Step {
		case model.StepQuestions:
			c.previousLocked()
		case model.StepValidation:
			c.backFromValidationLocked()
		default:
			prev, ok := Prev(c.state.Variant, c.state.Step)
			if !ok {
				return invalidTransition(c.state.Step, ActionBack)
			}
			c.state.Step = prev
		}
		return nil
	})
}

// Confirm accepts the conditions on the validation step and runs the
// results transition. It returns once the analysis has resolved.
func (c *Controller) Confirm(ctx context.Context, acceptConditions bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guardLocked(ActionConfirm); err != nil {
		return err
	}
	if verr := diagnostic.ValidateConditions(acceptConditions); verr != nil {
		return verr
	}
	return c.finishLocked(ctx)
}

// Restart drops everything collected so far and returns to welcome. Any
// pending advance is cancelled and an in-flight analysis will be ignored.
func (c *Controller) Restart() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.cancelPendingLocked()
	gen := c.state.Generation + 1
	c.state = c.initialState()
	c.state.Generation = gen
	c.finishing = false
	c.commitLocked()
	return nil
}

// Close stops the controller for good. The pending advance is cancelled,
// an in-flight analysis is dropped without a webhook, and every later
// action fails with ErrClosed. Nothing is published after Close returns.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelPendingLocked()
	c.state.Generation++
	c.finishing = false
	c.closed = true
}

// View returns the current state with derived fields
func (c *Controller) View() model.SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Snapshot returns a copy of the serialisable state
func (c *Controller) Snapshot() model.WizardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyStateLocked()
}

// Restore replaces the state with a snapshot. Pending advances are not
// part of a snapshot and are lost.
func (c *Controller) Restore(s model.WizardState) error {
	if _, ok := transitions[s.Step]; !ok {
		return fmt.Errorf("unknown step %q", s.Step)
	}
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= c.bank.Len() {
		return fmt.Errorf("question index %d out of range", s.CurrentQuestionIndex)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelPendingLocked()
	c.finishing = false
	c.state = s
	c.state.SessionID = c.id
	c.state.Answers = s.Answers.Clone()
	c.state.Qualification = copyQualification(s.Qualification)
	return nil
}

func (c *Controller) initialState() model.WizardState {
	return model.WizardState{
		SessionID: c.id,
		Step:      model.StepWelcome,
		Variant:   c.cfg.Variant,
		Answers:   model.AnswerMap{},
		UpdatedAt: c.now(),
	}
}

// mutate applies fn under the lock and publishes the new state on success
func (c *Controller) mutate(action Action, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guardLocked(action); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	c.commitLocked()
	return nil
}

func (c *Controller) guardLocked(action Action) error {
	if c.closed {
		return ErrClosed
	}
	if c.finishing && action != ActionRestart {
		return ErrBusy
	}
	if !Allowed(c.state.Step, action) {
		return invalidTransition(c.state.Step, action)
	}
	return nil
}

func (c *Controller) commitLocked() {
	c.state.UpdatedAt = c.now()
	if c.onChange != nil && !c.closed {
		c.onChange(c.viewLocked())
	}
}

func (c *Controller) forwardLocked() {
	c.state.Notice = ""
	if next, ok := Next(c.state.Variant, c.state.Step); ok {
		c.state.Step = next
	}
}

func (c *Controller) previousLocked() {
	c.cancelPendingLocked()
	if c.state.CurrentQuestionIndex > 0 {
		c.state.CurrentQuestionIndex--
		return
	}
	if prev, ok := Prev(c.state.Variant, model.StepQuestions); ok {
		c.state.Step = prev
	}
}

func (c *Controller) backFromValidationLocked() {
	c.state.Step = model.StepQuestions
	c.state.CurrentQuestionIndex = c.bank.Len() - 1
}

func (c *Controller) cancelPendingLocked() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.advanceSeq++
}

func (c *Controller) fireAdvance(ctx context.Context, seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil || c.advanceSeq != seq {
		return
	}
	c.pending = nil
	if c.finishing || c.state.Step != model.StepQuestions {
		return
	}
	if err := c.advanceLocked(ctx); err != nil {
		log.Printf("wizard %s: advance failed: %v", c.id, err)
	}
}

func (c *Controller) advanceLocked(ctx context.Context) error {
	if c.state.CurrentQuestionIndex < c.bank.Len()-1 {
		c.state.CurrentQuestionIndex++
		c.commitLocked()
		return nil
	}
	if c.state.Variant.Validation {
		c.state.Step = model.StepValidation
		c.commitLocked()
		return nil
	}
	return c.finishLocked(ctx)
}

// finishLocked runs the results transition. The lock is released around
// the analysis call and re-acquired before returning.
func (c *Controller) finishLocked(ctx context.Context) error {
	if missing := c.bank.Len() - len(c.state.Answers); missing > 0 {
		return fmt.Errorf("%w: %d unanswered", ErrIncomplete, missing)
	}

	c.cancelPendingLocked()
	c.finishing = true
	gen := c.state.Generation
	user := c.state.UserInfo
	qual := copyQualification(c.state.Qualification)
	answers := c.state.Answers.Clone()
	c.commitLocked()

	req := diagnostic.AnalysisRequestFor(user, qual, answers)

	c.mu.Unlock()
	analysis, err := c.callAnalysis(ctx, req)
	c.mu.Lock()

	if c.closed {
		log.Printf("wizard %s: dropping analysis of a closed session", c.id)
		return ErrClosed
	}
	if c.state.Generation != gen {
		log.Printf("wizard %s: dropping analysis of a restarted run", c.id)
		return ErrSuperseded
	}
	c.finishing = false

	if err != nil {
		log.Printf("wizard %s: analysis failed, using static results: %v", c.id, err)
		c.state.Analysis = nil
		c.state.Notice = diagnostic.NoticeAnalysisError
	} else {
		c.state.Analysis = analysis
		c.state.Notice = ""
	}

	display := diagnostic.MergeAnalysis(diagnostic.ComputeScores(answers), c.state.Analysis)
	sub := diagnostic.BuildSubmission(c.bank, user, qual, answers, display, c.state.Analysis != nil, c.now())
	c.notify(sub)

	c.state.Step = model.StepResults
	c.commitLocked()
	return nil
}

func (c *Controller) callAnalysis(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error) {
	if c.analysis == nil {
		return nil, nil
	}
	return c.analysis.Analyze(ctx, req)
}

func (c *Controller) notify(sub *model.Submission) {
	if c.sink == nil {
		return
	}
	sink, timeout, id := c.sink, c.cfg.NotifyTimeout, c.id
	c.dispatch(func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if err := sink.Notify(ctx, sub); err != nil {
			log.Printf("wizard %s: webhook delivery failed: %v", id, err)
		}
	})
}

func (c *Controller) copyStateLocked() model.WizardState {
	s := c.state
	s.Answers = c.state.Answers.Clone()
	s.Qualification = copyQualification(c.state.Qualification)
	return s
}

func (c *Controller) viewLocked() model.SessionView {
	scores := diagnostic.ComputeScores(c.state.Answers)
	v := model.SessionView{
		WizardState:    c.copyStateLocked(),
		Progress:       Progress(c.state.Step, c.state.CurrentQuestionIndex, c.bank.Len()),
		TotalQuestions: c.bank.Len(),
		AdvancePending: c.pending != nil,
		Finishing:      c.finishing,
		Scores:         scores,
		Segment:        diagnostic.Classify(scores.Total),
	}
	if c.state.Step == model.StepQuestions {
		if q, ok := c.bank.At(c.state.CurrentQuestionIndex); ok {
			cur := *q
			v.CurrentQuestion = &cur
		}
	}
	if c.state.Step == model.StepResults {
		d := diagnostic.MergeAnalysis(scores, c.state.Analysis)
		v.Display = &d
		v.BookingURL = c.cfg.BookingURL
	}
	return v
}

func copyQualification(q *model.Qualification) *model.Qualification {
	if q == nil {
		return nil
	}
	out := *q
	return &out
}

func trimQualification(q model.Qualification) model.Qualification {
	return model.Qualification{
		Units:             strings.TrimSpace(q.Units),
		Goal12Months:      strings.TrimSpace(q.Goal12Months),
		AverageCommission: strings.TrimSpace(q.AverageCommission),
		ResponseDelay:     strings.TrimSpace(q.ResponseDelay),
		MonthlyBudget:     strings.TrimSpace(q.MonthlyBudget),
		GoogleBusiness:    strings.TrimSpace(q.GoogleBusiness),
		Closing:           strings.TrimSpace(q.Closing),
		Commitment12Month: strings.TrimSpace(q.Commitment12Month),
	}
}
