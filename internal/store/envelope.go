// ABOUTME: Versioned on-disk envelope for AppState and best-effort decoding of older blobs.
// ABOUTME: Each top-level field is decoded on its own so one bad field cannot wipe the rest.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/nexusfit/internal/models"
	"github.com/harperreed/nexusfit/internal/schema"
)

// CurrentVersion is the envelope version written by this build.
const CurrentVersion = 1

// ErrFutureVersion means the blob was written by a newer build.
var ErrFutureVersion = errors.New("state written by a newer version")

type envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"savedAt"`
	State   models.AppState `json:"state"`
}

func encodeState(state models.AppState, now time.Time) ([]byte, error) {
	return json.Marshal(envelope{Version: CurrentVersion, SavedAt: now.UTC(), State: state})
}

// rawState mirrors AppState with every field left undecoded.
type rawState struct {
	Profile            json.RawMessage `json:"profile"`
	CurrentPlan        json.RawMessage `json:"currentPlan"`
	History            json.RawMessage `json:"history"`
	OnboardingComplete json.RawMessage `json:"onboardingComplete"`
}

// decodeState reads either a versioned envelope or the unversioned shape
// written by the legacy web client. Fields that fail to decode fall back to
// their defaults and are reported in notes.
func decodeState(data []byte) (state models.AppState, version int, notes []string, err error) {
	var probe struct {
		Version *int            `json:"version"`
		State   json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return models.AppState{}, 0, nil, fmt.Errorf("decode state: %w", err)
	}

	body := json.RawMessage(data)
	if probe.Version != nil {
		version = *probe.Version
		if version > CurrentVersion {
			return models.AppState{}, version, nil, fmt.Errorf("%w: version %d, supported %d", ErrFutureVersion, version, CurrentVersion)
		}
		body = probe.State
	}

	var raw rawState
	if isNull(body) {
		notes = append(notes, "state body missing")
	} else if err := json.Unmarshal(body, &raw); err != nil {
		return models.AppState{}, version, nil, fmt.Errorf("decode state body: %w", err)
	}

	state = models.DefaultAppState()

	if !isNull(raw.Profile) {
		var p models.UserProfile
		if err := json.Unmarshal(raw.Profile, &p); err != nil {
			notes = append(notes, fmt.Sprintf("profile dropped: %v", err))
		} else {
			p.Normalize()
			state.Profile = &p
		}
	}

	if !isNull(raw.CurrentPlan) {
		res, err := schema.ValidatePlan(raw.CurrentPlan, schema.Options{})
		if err != nil {
			notes = append(notes, fmt.Sprintf("plan replaced with default: %v", err))
		} else {
			state.CurrentPlan = res.Plan
			notes = append(notes, res.Issues...)
		}
	}

	if !isNull(raw.History) {
		var h []models.WorkoutSession
		if err := json.Unmarshal(raw.History, &h); err != nil {
			notes = append(notes, fmt.Sprintf("history dropped: %v", err))
		} else if h != nil {
			state.History = h
		}
	}

	if !isNull(raw.OnboardingComplete) {
		if err := json.Unmarshal(raw.OnboardingComplete, &state.OnboardingComplete); err != nil {
			notes = append(notes, fmt.Sprintf("onboardingComplete reset: %v", err))
		}
	}

	return state, version, notes, nil
}

func isNull(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}
