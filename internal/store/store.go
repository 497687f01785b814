// ABOUTME: Plan store: the single authoritative holder of AppState.
// ABOUTME: Every verb persists the full state before swapping it in, then notifies subscribers.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/nexusfit/internal/models"
	"github.com/harperreed/nexusfit/internal/storage"
)

// Change is delivered to subscribers after a successful commit.
type Change struct {
	Op       string
	Revision uint64
	State    models.AppState
}

// Listener receives commits in order. Listeners run on the committing
// goroutine and must not call mutating Store methods synchronously.
type Listener func(Change)

// Store owns the AppState and its persistence.
type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	repo     storage.Repository
	logger   *zap.Logger
	now      func() time.Time
	state    models.AppState
	revision uint64

	listeners map[int]Listener
	nextID    int
}

// Open rehydrates the store from repo. It never fails: an absent, corrupt,
// or unreadable blob yields models.DefaultAppState().
func Open(repo storage.Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		repo:      repo,
		logger:    logger,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	s.state = s.rehydrate()
	return s
}

func (s *Store) rehydrate() models.AppState {
	data, err := s.repo.Load()
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("no saved state, starting fresh")
		return models.DefaultAppState()
	}
	if err != nil {
		s.logger.Warn("load state failed, using defaults", zap.Error(err))
		return models.DefaultAppState()
	}

	state, version, notes, err := decodeState(data)
	if err != nil {
		if errors.Is(err, ErrFutureVersion) {
			s.logger.Error("saved state is from a newer release, using defaults", zap.Error(err))
		} else {
			s.logger.Warn("saved state unreadable, using defaults", zap.Error(err))
		}
		return models.DefaultAppState()
	}
	for _, n := range notes {
		s.logger.Info("state repaired on load", zap.Int("version", version), zap.String("note", n))
	}
	return state
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Plan returns a deep copy of the current plan.
func (s *Store) Plan() *models.WeeklyPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentPlan.Clone()
}

// Profile returns a deep copy of the profile, or nil before onboarding.
func (s *Store) Profile() *models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Profile.Clone()
}

// History returns the session history, most recent first.
func (s *Store) History() []models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WorkoutSession{}, s.state.History...)
}

// OnboardingComplete reports whether onboarding has finished.
func (s *Store) OnboardingComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.OnboardingComplete
}

// Revision counts successful commits since Open.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// ReplacePlan overwrites the current plan with a copy of plan.
// A plan that could not be reloaded is a constraint violation.
func (s *Store) ReplacePlan(plan *models.WeeklyPlan) error {
	if err := checkPlan(plan); err != nil {
		return err
	}
	next := plan.Clone()
	return s.commit("replace_plan", func(st *models.AppState) error {
		st.CurrentPlan = next
		return nil
	})
}

// UpdatePlan applies fn to a deep copy of the current plan and commits the
// result. An error from fn aborts the commit.
func (s *Store) UpdatePlan(op string, fn func(plan *models.WeeklyPlan) error) error {
	return s.commit(op, func(st *models.AppState) error {
		if st.CurrentPlan == nil {
			st.CurrentPlan = models.DefaultPlan()
		}
		if err := fn(st.CurrentPlan); err != nil {
			return err
		}
		return checkPlan(st.CurrentPlan)
	})
}

// checkPlan rejects plans that rehydration would replace with the default:
// every plan has seven days and every meal keeps at least one option.
func checkPlan(p *models.WeeklyPlan) error {
	if p == nil {
		return fmt.Errorf("%w: plan is nil", models.ErrConstraintViolation)
	}
	if n := len(p.WeeklyPlan); n != models.DaysPerPlan {
		return fmt.Errorf("%w: plan has %d days, want %d", models.ErrConstraintViolation, n, models.DaysPerPlan)
	}
	for i := range p.WeeklyPlan {
		for j, m := range p.WeeklyPlan[i].Nutrition {
			if len(m.Options) == 0 {
				return fmt.Errorf("%w: day %d meal %d has no options", models.ErrConstraintViolation, i, j)
			}
		}
	}
	return nil
}

// ReplaceProfile normalizes legacy enum values, validates, and overwrites the profile.
func (s *Store) ReplaceProfile(p *models.UserProfile) error {
	if p == nil {
		return fmt.Errorf("%w: profile is nil", models.ErrConstraintViolation)
	}
	next := p.Clone()
	next.Normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	return s.commit("replace_profile", func(st *models.AppState) error {
		st.Profile = next
		return nil
	})
}

// CompleteOnboarding stores the profile and marks onboarding finished in one commit.
func (s *Store) CompleteOnboarding(p *models.UserProfile) error {
	if p == nil {
		return fmt.Errorf("%w: profile is nil", models.ErrConstraintViolation)
	}
	next := p.Clone()
	next.Normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	return s.commit("complete_onboarding", func(st *models.AppState) error {
		st.Profile = next
		st.OnboardingComplete = true
		return nil
	})
}

// AppendSession prepends a completed session to history.
func (s *Store) AppendSession(session models.WorkoutSession) error {
	return s.commit("append_session", func(st *models.AppState) error {
		st.History = append([]models.WorkoutSession{session}, st.History...)
		return nil
	})
}

// Import replaces the whole state, e.g. from an export file.
func (s *Store) Import(state models.AppState) error {
	next := state.Clone()
	if next.CurrentPlan == nil {
		next.CurrentPlan = models.DefaultPlan()
	}
	if next.History == nil {
		next.History = []models.WorkoutSession{}
	}
	if err := checkPlan(next.CurrentPlan); err != nil {
		return err
	}
	if next.Profile != nil {
		next.Profile.Normalize()
		if err := next.Profile.Validate(); err != nil {
			return err
		}
	}
	return s.commit("import", func(st *models.AppState) error {
		*st = next
		return nil
	})
}

// Subscribe registers fn for every future commit and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// commit runs mutate on a copy of the state, persists the copy, and only
// then swaps it in. Listeners are called outside the state lock but while
// holding notifyMu so they observe commits in order.
func (s *Store) commit(op string, mutate func(st *models.AppState) error) error {
	s.mu.Lock()

	next := s.state.Clone()
	if err := mutate(&next); err != nil {
		s.mu.Unlock()
		return err
	}

	data, err := encodeState(next, s.now())
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("encode state failed", zap.String("op", op), zap.Error(err))
		return &PersistenceError{Op: op, Err: err}
	}
	if err := s.repo.Save(data); err != nil {
		s.mu.Unlock()
		s.logger.Error("save state failed", zap.String("op", op), zap.Error(err))
		return &PersistenceError{Op: op, Err: err}
	}

	s.state = next
	s.revision++
	rev := s.revision
	listeners := s.sortedListeners()

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.logger.Debug("state committed", zap.String("op", op), zap.Uint64("revision", rev))
	for _, fn := range listeners {
		fn(Change{Op: op, Revision: rev, State: next.Clone()})
	}
	return nil
}

func (s *Store) sortedListeners() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}
