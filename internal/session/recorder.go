// ABOUTME: Session recorder walking a day's exercise list and timing the workout.
// ABOUTME: Completing the traversal appends one WorkoutSession to history; aborting discards it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/nexusfit/internal/models"
)

var (
	// ErrNotActive is returned when no traversal is in progress.
	ErrNotActive = errors.New("no workout in progress")

	// ErrActive is returned by Start while another traversal is in progress.
	ErrActive = errors.New("a workout is already in progress")

	// ErrRestDay is returned by Start for a day with no exercises.
	ErrRestDay = errors.New("rest day has no exercises")

	// ErrOutOfRange is returned by Start for an unknown day or exercise index.
	ErrOutOfRange = errors.New("no such day or exercise")
)

// Store is the part of the plan store the recorder needs.
type Store interface {
	Plan() *models.WeeklyPlan
	AppendSession(session models.WorkoutSession) error
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides time.Now for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// Recorder tracks one in-progress workout.
type Recorder struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	active    bool
	paused    bool
	dayName   string
	exercises []models.Exercise
	index     int
	elapsed   time.Duration
}

// New creates an idle Recorder.
func New(st Store, opts ...Option) *Recorder {
	r := &Recorder{
		store:  st,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins a traversal of day's exercises at index from. The exercise
// list is captured now; later plan edits do not affect this workout.
func (r *Recorder) Start(day, from int) error {
	d := r.store.Plan().Day(day)
	if d == nil {
		return fmt.Errorf("%w: day %d", ErrOutOfRange, day)
	}
	if len(d.Workout) == 0 {
		return ErrRestDay
	}
	if from < 0 || from >= len(d.Workout) {
		return fmt.Errorf("%w: exercise %d of %d", ErrOutOfRange, from, len(d.Workout))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return ErrActive
	}
	r.active = true
	r.paused = false
	r.dayName = d.Day
	r.exercises = append([]models.Exercise(nil), d.Workout...)
	r.index = from
	r.elapsed = 0

	r.logger.Info("workout started", zap.String("day", d.Day), zap.Int("exercises", len(d.Workout)), zap.Int("from", from))
	return nil
}

// Active reports whether a traversal is in progress.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Current returns the exercise at the pointer, its index, and the list length.
func (r *Recorder) Current() (models.Exercise, int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return models.Exercise{}, 0, 0, ErrNotActive
	}
	return r.exercises[r.index], r.index, len(r.exercises), nil
}

// Advance moves to the next exercise. Confirming and skipping are the same
// move. Advancing past the last exercise completes the session, in which
// case the recorded session is returned.
func (r *Recorder) Advance() (*models.WorkoutSession, error) {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return nil, ErrNotActive
	}
	if r.index < len(r.exercises)-1 {
		r.index++
		r.mu.Unlock()
		return nil, nil
	}
	r.mu.Unlock()

	s, err := r.CompleteSession()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Pause halts the timer without resetting it.
func (r *Recorder) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		r.paused = true
	}
}

// Resume restarts the timer.
func (r *Recorder) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = false
}

// Paused reports whether the timer is halted.
func (r *Recorder) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// Tick adds one second to an unpaused traversal.
func (r *Recorder) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active && !r.paused {
		r.elapsed += time.Second
	}
}

// Run ticks once a second until ctx is done.
func (r *Recorder) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

// Elapsed returns the accumulated workout time.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Abort discards the traversal. Nothing is recorded.
func (r *Recorder) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		r.logger.Info("workout aborted", zap.String("day", r.dayName), zap.Int("at", r.index))
	}
	r.resetLocked()
}

// CompleteSession records a session covering every exercise scheduled for
// the day and resets the traversal. Without a traversal it returns
// ErrNotActive. When the store fails the traversal is kept so the caller
// can retry.
func (r *Recorder) CompleteSession() (models.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return models.WorkoutSession{}, ErrNotActive
	}

	s := models.NewWorkoutSession(r.dayName, r.exercises, r.now())
	if err := r.store.AppendSession(s); err != nil {
		r.logger.Error("record session failed", zap.String("day", r.dayName), zap.Error(err))
		return models.WorkoutSession{}, fmt.Errorf("record session: %w", err)
	}

	r.logger.Info("workout completed",
		zap.String("day", r.dayName),
		zap.Float64("kcal", s.TotalKcal),
		zap.Duration("elapsed", r.elapsed))
	r.resetLocked()
	return s, nil
}

func (r *Recorder) resetLocked() {
	r.active = false
	r.paused = false
	r.dayName = ""
	r.exercises = nil
	r.index = 0
	r.elapsed = 0
}
