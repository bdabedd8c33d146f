package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodtime-diagnostic/internal/diagnostic"
	"goodtime-diagnostic/internal/model"
)

type fakeTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeScheduler only runs callbacks when told to
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
	delays []time.Duration
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{f: f}
	s.timers = append(s.timers, t)
	s.delays = append(s.delays, d)
	return t
}

func (s *fakeScheduler) take(includeStopped bool) []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []func()
	for _, t := range s.timers {
		if t.fired || (t.stopped && !includeStopped) {
			continue
		}
		t.fired = true
		out = append(out, t.f)
	}
	return out
}

// FireAll runs every live timer
func (s *fakeScheduler) FireAll() {
	for _, f := range s.take(false) {
		f()
	}
}

// RunStale also runs stopped timers, as if Stop lost the race
func (s *fakeScheduler) RunStale() {
	for _, f := range s.take(true) {
		f()
	}
}

type analysisFunc func(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error)

func (f analysisFunc) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error) {
	return f(ctx, req)
}

type recordingSink struct {
	mu   sync.Mutex
	subs []*model.Submission
	err  error
}

func (s *recordingSink) Notify(_ context.Context, sub *model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	return s.err
}

func (s *recordingSink) Submissions() []*model.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.Submission(nil), s.subs...)
}

func testUser() model.UserInfo {
	return model.UserInfo{
		FirstName: "Camille",
		LastName:  "Durand",
		Email:     "camille@example.fr",
		Phone:     "0612345678",
		City:      "Annecy",
	}
}

func testQualification() model.Qualification {
	return model.Qualification{
		Units:             "6-15",
		Goal12Months:      "stable",
		AverageCommission: "<1500",
		ResponseDelay:     "variable",
		MonthlyBudget:     "0",
		GoogleBusiness:    "non",
		Closing:           "personne",
		Commitment12Month: "non",
	}
}

func newTestController(t *testing.T, variant model.Variant) (*Controller, *fakeScheduler, *recordingSink) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Variant = variant
	c := NewController("s-1", diagnostic.DefaultBank(), cfg)
	sched := &fakeScheduler{}
	sink := &recordingSink{}
	c.SetScheduler(sched)
	c.SetNotificationSink(sink)
	c.SetDispatcher(func(f func()) { f() })
	c.SetClock(func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) })
	return c, sched, sink
}

func fullVariant() model.Variant {
	return model.Variant{Qualification: true, Validation: true}
}

func toQuestions(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.Start())
	require.NoError(t, c.SubmitUserInfo(testUser()))
	if c.View().Step == model.StepQualification {
		require.NoError(t, c.SubmitQualification(testQualification()))
	}
	require.Equal(t, model.StepQuestions, c.View().Step)
}

func answerCurrent(t *testing.T, c *Controller, sched *fakeScheduler, value int) {
	t.Helper()
	q := c.View().CurrentQuestion
	require.NotNil(t, q)
	require.NoError(t, c.Answer(context.Background(), q.ID, value))
	sched.FireAll()
}

func answerAll(t *testing.T, c *Controller, sched *fakeScheduler, value int) {
	t.Helper()
	for i := 0; i < diagnostic.DefaultBank().Len(); i++ {
		answerCurrent(t, c, sched, value)
	}
}

func TestFullFlowWithValidation(t *testing.T) {
	c, sched, sink := newTestController(t, fullVariant())

	var got model.AnalysisRequest
	c.SetAnalysisClient(analysisFunc(func(_ context.Context, req model.AnalysisRequest) (*model.Analysis, error) {
		got = req
		return &model.Analysis{Segment: "machine", DiagSummary: "Très solide"}, nil
	}))

	toQuestions(t, c)
	answerAll(t, c, sched, 2)

	view := c.View()
	require.Equal(t, model.StepValidation, view.Step)
	assert.Equal(t, 95.0, view.Progress)
	assert.Len(t, view.Answers, 22)

	var verr *diagnostic.ValidationError
	require.ErrorAs(t, c.Confirm(context.Background(), false), &verr)
	assert.Equal(t, diagnostic.NoticeConditions, verr.Notice)
	assert.Equal(t, model.StepValidation, c.View().Step)

	require.NoError(t, c.Confirm(context.Background(), true))

	view = c.View()
	require.Equal(t, model.StepResults, view.Step)
	assert.Equal(t, 100.0, view.Progress)
	assert.Equal(t, model.Scores{Total: 44, Structure: 20, Acquisition: 18, Value: 6}, view.Scores)
	assert.Equal(t, model.SegmentMachine, view.Segment.ID)
	require.NotNil(t, view.Display)
	assert.Equal(t, "Très solide", view.Display.Summary.Text)
	assert.Empty(t, view.Notice)

	// the request carries the final answer
	assert.Len(t, got.Answers, 22)
	assert.Equal(t, 2, got.Answers["22"])
	assert.Equal(t, 44, got.Scores.Total)
	assert.Equal(t, "6-15", got.UserInfo.Units)

	subs := sink.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, 44, subs[0].Score)
	assert.Equal(t, "Très solide", subs[0].DiagSummary)
	assert.True(t, subs[0].AnalysisAvailable)
	assert.Len(t, subs[0].QuestionsAndAnswers, 22)
}

func TestMinimalVariantFinishesOnLastAnswer(t *testing.T) {
	c, sched, sink := newTestController(t, model.Variant{})

	require.NoError(t, c.Start())
	require.NoError(t, c.SubmitUserInfo(testUser()))
	require.Equal(t, model.StepQuestions, c.View().Step)

	answerAll(t, c, sched, 0)

	view := c.View()
	require.Equal(t, model.StepResults, view.Step)
	assert.Equal(t, 0, view.Scores.Total)
	assert.Equal(t, model.SegmentFragile, view.Segment.ID)
	assert.Nil(t, view.Analysis)
	assert.Empty(t, view.Notice)
	require.Len(t, sink.Submissions(), 1)
	assert.Empty(t, sink.Submissions()[0].Units)
}

func TestAnswerTwiceIsIdempotent(t *testing.T) {
	c, sched, _ := newTestController(t, fullVariant())
	toQuestions(t, c)
	for i := 0; i < 4; i++ {
		answerCurrent(t, c, sched, 1)
	}
	require.Equal(t, 5, c.View().CurrentQuestion.ID)

	require.NoError(t, c.Answer(context.Background(), 5, 2))
	once := c.Snapshot().Answers

	require.NoError(t, c.Answer(context.Background(), 5, 2))
	assert.Equal(t, once, c.Snapshot().Answers)
	assert.True(t, c.View().AdvancePending)

	sched.FireAll()
	view := c.View()
	assert.Equal(t, 5, view.CurrentQuestionIndex, "a single advance")
	assert.False(t, view.AdvancePending)
}

func TestReanswerReplacesValue(t *testing.T) {
	c, sched, _ := newTestController(t, fullVariant())
	toQuestions(t, c)

	require.NoError(t, c.Answer(context.Background(), 1, 0))
	require.NoError(t, c.Answer(context.Background(), 1, 2))
	sched.FireAll()

	s := c.Snapshot()
	assert.Equal(t, model.AnswerMap{1: 2}, s.Answers)
	assert.Equal(t, 1, s.CurrentQuestionIndex)
}

func TestAnswerRejections(t *testing.T) {
	c, _, _ := newTestController(t, fullVariant())

	assert.ErrorIs(t, c.Answer(context.Background(), 1, 0), ErrInvalidTransition)

	toQuestions(t, c)
	assert.ErrorIs(t, c.Answer(context.Background(), 2, 0), ErrNotCurrentQuestion)
	assert.ErrorIs(t, c.Answer(context.Background(), 1, 3), diagnostic.ErrInvalidValue)
	assert.Empty(t, c.Snapshot().Answers)
}

func TestPreviousKeepsAnswers(t *testing.T) {
	c, sched, _ := newTestController(t, fullVariant())
	toQuestions(t, c)
	answerCurrent(t, c, sched, 2)
	answerCurrent(t, c, sched, 1)
	require.Equal(t, 2, c.View().CurrentQuestionIndex)

	require.NoError(t, c.Previous())
	require.NoError(t, c.Previous())
	assert.Equal(t, 0, c.View().CurrentQuestionIndex)

	require.NoError(t, c.Previous())
	view := c.View()
	assert.Equal(t, model.StepQualification, view.Step)
	assert.Equal(t, model.AnswerMap{1: 2, 2: 1}, view.Answers)
}

func TestPreviousWithoutQualification(t *testing.T) {
	c, _, _ := newTestController(t, model.Variant{Validation: true})
	toQuestions(t, c)

	require.NoError(t, c.Previous())
	assert.Equal(t, model.StepUserInfo, c.View().Step)
}

func TestPreviousCancelsPendingAdvance(t *testing.T) {
	c, sched, _ := newTestController(t, fullVariant())
	toQuestions(t, c)
	answerCurrent(t, c, sched, 1)

	require.NoError(t, c.Answer(context.Background(), 2, 1))
	require.NoError(t, c.Previous())
	require.Equal(t, 0, c.View().CurrentQuestionIndex)

	// a timer that fires after losing the Stop race must not move the flow
	sched.RunStale()
	view := c.View()
	assert.Equal(t, model.StepQuestions, view.Step)
	assert.Equal(t, 0, view.CurrentQuestionIndex)
	assert.False(t, view.AdvancePending)
}

func TestBackFromValidation(t *testing.T) {
	c, sched, _ := newTestController(t, fullVariant())
	toQuestions(t, c)
	answerAll(t, c, sched, 1)
	require.Equal(t, model.StepValidation, c.View().Step)

	require.NoError(t, c.BackFromValidation())
	view := c.View()
	assert.Equal(t, model.StepQuestions, view.Step)
	assert.Equal(t, 21, view.CurrentQuestionIndex)
	assert.Len(t, view.Answers, 22)

	answerCurrent(t, c, sched, 2)
	assert.Equal(t, model.StepValidation, c.View().Step)

	require.NoError(t, c.Back())
	assert.Equal(t, 21, c.View().CurrentQuestionIndex)
	assert.ErrorIs(t, c.BackFromValidation(), ErrInvalidTransition)
}

func TestBackNavigation(t *testing.T) {
	c, _, _ := newTestController(t, fullVariant())

	assert.ErrorIs(t, c.Back(), ErrInvalidTransition)

	require.NoError(t, c.Start())
	require.NoError(t, c.SubmitUserInfo(testUser()))
	require.Equal(t, model.StepQualification, c.View().Step)

	require.NoError(t, c.Back())
	assert.Equal(t, model.StepUserInfo, c.View().Step)
	assert.Equal(t, "Camille", c.View().UserInfo.FirstName, "identity is kept")

	require.NoError(t, c.Back())
	assert.Equal(t, model.StepWelcome, c.View().Step)
}

func TestInvalidTransitionsDoNotMutate(t *testing.T) {
	c, _, _ := newTestController(t, fullVariant())
	before := c.Snapshot()

	assert.ErrorIs(t, c.SubmitUserInfo(testUser()), ErrInvalidTransition)
	assert.ErrorIs(t, c.SubmitQualification(testQualification()), ErrInvalidTransition)
	assert.ErrorIs(t, c.Confirm(context.Background(), true), ErrInvalidTransition)
	assert.ErrorIs(t, c.Previous(), ErrInvalidTransition)

	assert.Equal(t, before, c.Snapshot())
}

func TestValidationErrorsKeepStep(t *testing.T) {
	c, _, _ := newTestController(t, fullVariant())
	require.NoError(t, c.Start())

	bad := testUser()
	bad.Email = "camille"
	err := c.SubmitUserInfo(bad)

	var verr *diagnostic.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email invalide", verr.Fields["email"])
	assert.Equal(t, model.StepUserInfo, c.View().Step)
	assert.Empty(t, c.View().UserInfo.Email)

	require.NoError(t, c.SubmitUserInfo(testUser()))
	q := testQualification()
	q.Units = ""
	require.ErrorAs(t, c.SubmitQualification(q), &verr)
	assert.Contains(t, verr.Fields, "units")
	assert.Equal(t, model.StepQualification, c.View().Step)
}

func TestRestartResetsEverything(t *testing.T) {
	c, sched, _ := newTestController(t, fullVariant())
	c.SetAnalysisClient(analysisFunc(func(context.Context, model.AnalysisRequest) (*model.Analysis, error) {
		return &model.Analysis{DiagSummary: "x"}, nil
	}))
	toQuestions(t, c)
	answerAll(t, c, sched, 1)
	require.NoError(t, c.Confirm(context.Background(), true))
	require.Equal(t, model.StepResults, c.View().Step)

	require.NoError(t, c.Restart())

	s := c.Snapshot()
	assert.Equal(t, model.StepWelcome, s.Step)
	assert.Empty(t, s.Answers)
	assert.Equal(t, 0, s.CurrentQuestionIndex)
	assert.Nil(t, s.Analysis)
	assert.Nil(t, s.Qualification)
	assert.Equal(t, model.UserInfo{}, s.UserInfo)
	assert.Empty(t, s.Notice)
	assert.Equal(t, uint64(1), s.Generation)
	assert.Equal(t, 0.0, c.View().Progress)
}

func TestRestartDropsPendingAdvance(t *testing.T) {
	c, sched, _ := newTestController(t, fullVariant())
	toQuestions(t, c)
	require.NoError(t, c.Answer(context.Background(), 1, 2))

	require.NoError(t, c.Restart())
	sched.RunStale()

	s := c.Snapshot()
	assert.Equal(t, model.StepWelcome, s.Step)
	assert.Empty(t, s.Answers)
}

func TestFailingAnalysisStillReachesResults(t *testing.T) {
	c, sched, sink := newTestController(t, fullVariant())
	c.SetAnalysisClient(analysisFunc(func(context.Context, model.AnalysisRequest) (*model.Analysis, error) {
		return nil, errors.New("503 from upstream")
	}))
	toQuestions(t, c)
	answerAll(t, c, sched, 1)

	require.NoError(t, c.Confirm(context.Background(), true))

	view := c.View()
	require.Equal(t, model.StepResults, view.Step)
	assert.Equal(t, diagnostic.NoticeAnalysisError, view.Notice)
	assert.Nil(t, view.Analysis)
	require.NotNil(t, view.Display)
	assert.Equal(t, model.SegmentTransition, view.Display.Segment)
	assert.Equal(t, 22, view.Display.Score.Value)
	assert.Equal(t, model.SourceStatic, view.Display.Summary.Source)

	subs := sink.Submissions()
	require.Len(t, subs, 1)
	assert.False(t, subs[0].AnalysisAvailable)
}

func TestSinkFailureIsSwallowed(t *testing.T) {
	c, sched, sink := newTestController(t, fullVariant())
	sink.err = errors.New("connection refused")
	toQuestions(t, c)
	answerAll(t, c, sched, 2)

	require.NoError(t, c.Confirm(context.Background(), true))
	assert.Equal(t, model.StepResults, c.View().Step)
	assert.Empty(t, c.View().Notice)
}

func TestLateAnalysisAfterRestartIsIgnored(t *testing.T) {
	c, sched, sink := newTestController(t, fullVariant())
	release := make(chan struct{})
	c.SetAnalysisClient(analysisFunc(func(context.Context, model.AnalysisRequest) (*model.Analysis, error) {
		<-release
		return &model.Analysis{DiagSummary: "stale"}, nil
	}))
	toQuestions(t, c)
	answerAll(t, c, sched, 2)

	done := make(chan error, 1)
	go func() { done <- c.Confirm(context.Background(), true) }()

	require.Eventually(t, func() bool { return c.View().Finishing }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, c.BackFromValidation(), ErrBusy)
	assert.ErrorIs(t, c.Confirm(context.Background(), true), ErrBusy)

	require.NoError(t, c.Restart())
	close(release)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("confirm did not return")
	}

	s := c.Snapshot()
	assert.Equal(t, model.StepWelcome, s.Step)
	assert.Nil(t, s.Analysis)
	assert.Empty(t, s.Answers)
	assert.False(t, c.View().Finishing)
	assert.Empty(t, sink.Submissions())
}

func TestOnChangePublishesEveryTransition(t *testing.T) {
	c, _, _ := newTestController(t, fullVariant())
	var steps []model.Step
	c.OnChange(func(v model.SessionView) { steps = append(steps, v.Step) })

	require.NoError(t, c.Start())
	require.Error(t, c.SubmitUserInfo(model.UserInfo{}))
	require.NoError(t, c.SubmitUserInfo(testUser()))
	require.NoError(t, c.Restart())

	assert.Equal(t, []model.Step{model.StepUserInfo, model.StepQualification, model.StepWelcome}, steps)
}

func TestSnapshotRestore(t *testing.T) {
	c, sched, _ := newTestController(t, fullVariant())
	toQuestions(t, c)
	answerCurrent(t, c, sched, 2)
	answerCurrent(t, c, sched, 0)
	snap := c.Snapshot()

	other, sched2, _ := newTestController(t, fullVariant())
	require.NoError(t, other.Restore(snap))

	view := other.View()
	assert.Equal(t, model.StepQuestions, view.Step)
	assert.Equal(t, 2, view.CurrentQuestionIndex)
	assert.Equal(t, model.AnswerMap{1: 2, 2: 0}, view.Answers)
	require.NotNil(t, view.Qualification)
	assert.Equal(t, "6-15", view.Qualification.Units)

	answerCurrent(t, other, sched2, 1)
	assert.Equal(t, 3, other.View().CurrentQuestionIndex)

	assert.Error(t, other.Restore(model.WizardState{Step: "nowhere"}))
	assert.Error(t, other.Restore(model.WizardState{Step: model.StepQuestions, CurrentQuestionIndex: 22}))
}

func TestConfirmRequiresEveryAnswer(t *testing.T) {
	c, _, _ := newTestController(t, fullVariant())
	require.NoError(t, c.Restore(model.WizardState{
		Step:                 model.StepValidation,
		Variant:              fullVariant(),
		Answers:              model.AnswerMap{1: 1, 2: 1},
		CurrentQuestionIndex: 21,
	}))

	assert.ErrorIs(t, c.Confirm(context.Background(), true), ErrIncomplete)
	assert.Equal(t, model.StepValidation, c.View().Step)
	assert.False(t, c.View().Finishing)
}

func TestImmediateAdvanceWithoutDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdvanceDelay = 0
	c := NewController("s-2", diagnostic.DefaultBank(), cfg)
	toQuestions(t, c)

	require.NoError(t, c.Answer(context.Background(), 1, 1))
	assert.Equal(t, 1, c.View().CurrentQuestionIndex)
}

func TestClockSchedulerAdvances(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdvanceDelay = 5 * time.Millisecond
	c := NewController("s-3", diagnostic.DefaultBank(), cfg)
	toQuestions(t, c)

	require.NoError(t, c.Answer(context.Background(), 1, 2))
	require.Eventually(t, func() bool {
		return c.View().CurrentQuestionIndex == 1
	}, time.Second, 2*time.Millisecond)
}

func TestAdvanceUsesConfiguredDelay(t *testing.T) {
	c, sched, _ := newTestController(t, fullVariant())
	toQuestions(t, c)
	require.NoError(t, c.Answer(context.Background(), 1, 2))

	sched.mu.Lock()
	defer sched.mu.Unlock()
	require.Len(t, sched.delays, 1)
	assert.Equal(t, 400*time.Millisecond, sched.delays[0])
}

func TestCloseSilencesController(t *testing.T) {
	c, sched, sink := newTestController(t, fullVariant())
	published := 0
	c.OnChange(func(model.SessionView) { published++ })
	toQuestions(t, c)
	require.NoError(t, c.Answer(context.Background(), 1, 2))
	before := published

	c.Close()
	sched.RunStale()

	assert.Equal(t, before, published)
	assert.Equal(t, 0, c.Snapshot().CurrentQuestionIndex)
	assert.ErrorIs(t, c.Answer(context.Background(), 1, 1), ErrClosed)
	assert.ErrorIs(t, c.Previous(), ErrClosed)
	assert.ErrorIs(t, c.Restart(), ErrClosed)
	assert.Empty(t, sink.Submissions())
}

func TestBookingLinkOnlyOnResults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = model.Variant{}
	cfg.BookingURL = "https://cal.goodtime.fr/appel"
	c := NewController("s-2", diagnostic.DefaultBank(), cfg)
	sched := &fakeScheduler{}
	c.SetScheduler(sched)

	toQuestions(t, c)
	assert.Empty(t, c.View().BookingURL)

	answerAll(t, c, sched, 1)
	v := c.View()
	require.Equal(t, model.StepResults, v.Step)
	assert.Equal(t, "https://cal.goodtime.fr/appel", v.BookingURL)
}
