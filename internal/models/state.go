// ABOUTME: AppState envelope holding the profile, current plan, and session history.
// ABOUTME: DefaultAppState is what a first run, or an unreadable store, starts from.
package models

// AppState is everything the application persists.
type AppState struct {
	Profile            *UserProfile     `json:"profile" yaml:"profile"`
	CurrentPlan        *WeeklyPlan      `json:"currentPlan" yaml:"currentPlan"`
	History            []WorkoutSession `json:"history" yaml:"history"`
	OnboardingComplete bool             `json:"onboardingComplete" yaml:"onboardingComplete"`
}

// DefaultAppState returns the state of a fresh install.
func DefaultAppState() AppState {
	return AppState{
		Profile:            nil,
		CurrentPlan:        DefaultPlan(),
		History:            []WorkoutSession{},
		OnboardingComplete: false,
	}
}

// Clone returns a deep copy of the state.
func (s AppState) Clone() AppState {
	c := AppState{
		Profile:            s.Profile.Clone(),
		CurrentPlan:        s.CurrentPlan.Clone(),
		OnboardingComplete: s.OnboardingComplete,
	}
	if s.History != nil {
		c.History = append(make([]WorkoutSession, 0, len(s.History)), s.History...)
	}
	return c
}
