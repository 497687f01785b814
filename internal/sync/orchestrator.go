// ABOUTME: Sync orchestrator deciding when to regenerate the plan and reconciling the result.
// ABOUTME: One request at a time, edge-triggered auto sync, explicit Idle/InFlight/Succeeded/Failed states.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/nexusfit/internal/models"
	"github.com/harperreed/nexusfit/internal/schema"
	"github.com/harperreed/nexusfit/internal/store"
)

// DefaultTimeout bounds one generation request.
const DefaultTimeout = 2 * time.Minute

// FailureMessage is what users see when a sync fails for any reason.
const FailureMessage = "Could not generate your plan right now. Try again in a moment."

var (
	// ErrInFlight is returned by Regenerate while another sync is running.
	ErrInFlight = errors.New("a plan sync is already in progress")

	// ErrNoProfile is returned by Regenerate before a profile exists.
	ErrNoProfile = errors.New("no profile to generate a plan from")
)

// Generator produces a raw plan document for a profile.
type Generator interface {
	GeneratePlan(ctx context.Context, profile *models.UserProfile) ([]byte, error)
}

// Status is the orchestrator's state machine position.
type Status int

const (
	StatusIdle Status = iota
	StatusInFlight
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInFlight:
		return "in_flight"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Trigger names what started a sync.
type Trigger string

const (
	TriggerAuto   Trigger = "auto"
	TriggerManual Trigger = "manual"
)

// State is a snapshot of the orchestrator.
type State struct {
	Status     Status
	Trigger    Trigger
	Message    string // user-facing banner text when Failed
	Err        error  // underlying cause when Failed
	Issues     []string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers fn to receive every state transition.
func WithObserver(fn func(State)) Option {
	return func(o *Orchestrator) {
		o.observers = append(o.observers, fn)
	}
}

// Orchestrator runs plan syncs against a store.
type Orchestrator struct {
	store     *store.Store
	gen       Generator
	timeout   time.Duration
	logger    *zap.Logger
	observers []func(State)

	mu          sync.Mutex
	state       State
	qualified   bool
	started     bool
	closed      bool
	unsubscribe func()
	cancelRun   context.CancelFunc

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
}

// New creates an orchestrator. Call Start to enable automatic syncs.
func New(st *store.Store, gen Generator, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		store:      st,
		gen:        gen,
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
		baseCtx:    ctx,
		baseCancel: cancel,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start subscribes to store commits and evaluates the current state once,
// so a qualifying state loaded from disk syncs immediately.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	if o.started || o.closed {
		o.mu.Unlock()
		return
	}
	o.started = true
	o.mu.Unlock()

	unsubscribe := o.store.Subscribe(func(c store.Change) { o.evaluate(c.State) })

	o.mu.Lock()
	o.unsubscribe = unsubscribe
	o.mu.Unlock()

	o.evaluate(o.store.Snapshot())
}

// Close stops automatic syncs, cancels a running request, and waits for it.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	unsubscribe := o.unsubscribe
	o.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	o.baseCancel()
	o.wg.Wait()
}

// Wait blocks until no sync is running.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() State {
	s := o.state
	s.Issues = append([]string(nil), o.state.Issues...)
	return s
}

// qualifies is the automatic sync precondition.
func qualifies(st models.AppState) bool {
	return st.OnboardingComplete && st.Profile != nil && st.CurrentPlan.IsEmpty()
}

// evaluate fires an automatic sync on a false-to-true transition of the
// precondition, unless a sync is running or an unresolved failure is showing.
func (o *Orchestrator) evaluate(st models.AppState) {
	q := qualifies(st)

	o.mu.Lock()
	edge := q && !o.qualified
	o.qualified = q
	if !edge || o.closed || o.state.Status == StatusInFlight || o.state.Status == StatusFailed {
		o.mu.Unlock()
		return
	}
	ctx, snap := o.beginLocked(o.baseCtx, TriggerAuto)
	o.mu.Unlock()

	o.notify(snap)
	o.logger.Info("starting automatic plan sync")

	profile := st.Profile.Clone()
	go func() {
		defer o.wg.Done()
		_ = o.run(ctx, profile)
	}()
}

// Regenerate runs a sync now, bypassing the empty-plan guard. It blocks
// until the sync finishes and returns its failure, if any. A call while
// another sync runs returns ErrInFlight without doing anything.
func (o *Orchestrator) Regenerate(ctx context.Context) error {
	profile := o.store.Profile()
	if profile == nil {
		return ErrNoProfile
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return context.Canceled
	}
	if o.state.Status == StatusInFlight {
		o.mu.Unlock()
		return ErrInFlight
	}
	runCtx, snap := o.beginLocked(ctx, TriggerManual)
	o.mu.Unlock()

	o.notify(snap)
	defer o.wg.Done()
	return o.run(runCtx, profile)
}

// DismissError clears a failure banner and re-arms the automatic trigger.
func (o *Orchestrator) DismissError() {
	o.mu.Lock()
	if o.state.Status != StatusFailed {
		o.mu.Unlock()
		return
	}
	o.state = State{Status: StatusIdle}
	o.qualified = false
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.notify(snap)
	o.evaluate(o.store.Snapshot())
}

// beginLocked moves to InFlight and returns the request context.
// Callers must hold o.mu and call o.wg.Done when the run ends.
func (o *Orchestrator) beginLocked(parent context.Context, trigger Trigger) (context.Context, State) {
	ctx, cancel := context.WithTimeout(parent, o.timeout)
	stop := context.AfterFunc(o.baseCtx, cancel)
	o.cancelRun = func() {
		stop()
		cancel()
	}
	o.wg.Add(1)
	o.state = State{Status: StatusInFlight, Trigger: trigger, StartedAt: time.Now()}
	return ctx, o.snapshotLocked()
}

func (o *Orchestrator) run(ctx context.Context, profile *models.UserProfile) error {
	err := o.sync(ctx, profile)

	o.mu.Lock()
	if o.cancelRun != nil {
		o.cancelRun()
		o.cancelRun = nil
	}
	o.state.FinishedAt = time.Now()
	if err != nil {
		o.state.Status = StatusFailed
		o.state.Message = FailureMessage
		o.state.Err = err
	} else {
		o.state.Status = StatusSucceeded
	}
	snap := o.snapshotLocked()
	o.mu.Unlock()

	if err != nil {
		o.logger.Warn("plan sync failed", zap.String("trigger", string(snap.Trigger)), zap.Error(err))
	} else {
		o.logger.Info("plan sync succeeded",
			zap.String("trigger", string(snap.Trigger)),
			zap.Duration("elapsed", snap.FinishedAt.Sub(snap.StartedAt)),
			zap.Int("issues", len(snap.Issues)))
	}
	o.notify(snap)
	return err
}

// sync performs request, validation, and commit. The prior plan is kept on
// any failure.
func (o *Orchestrator) sync(ctx context.Context, profile *models.UserProfile) error {
	raw, err := o.gen.GeneratePlan(ctx, profile)
	if err != nil {
		return fmt.Errorf("generate plan: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("generate plan: %w", err)
	}

	res, err := schema.ValidatePlan(raw, schema.Options{MealsPerDay: profile.Nutrition.MealsPerDay})
	if err != nil {
		return err
	}
	for _, issue := range res.Issues {
		o.logger.Debug("plan repaired", zap.String("issue", issue))
	}

	o.mu.Lock()
	o.state.Issues = res.Issues
	o.mu.Unlock()

	if err := o.store.ReplacePlan(res.Plan); err != nil {
		return fmt.Errorf("store plan: %w", err)
	}
	return nil
}

func (o *Orchestrator) notify(s State) {
	for _, fn := range o.observers {
		fn(s)
	}
}
