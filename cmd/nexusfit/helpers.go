// ABOUTME: Shared CLI helpers for argument parsing and text layout.
// ABOUTME: Parses day names and indexes, reads profile files, and pads table columns.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/nexusfit/internal/models"
)

// parseDay accepts a day index (0 is Monday) or an English weekday name,
// full or abbreviated to at least three letters.
func parseDay(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= models.DaysPerPlan {
			return 0, fmt.Errorf("day %d out of range 0-%d", n, models.DaysPerPlan-1)
		}
		return n, nil
	}
	if len(s) >= 3 {
		for i, name := range models.WeekdayNames {
			if strings.HasPrefix(strings.ToLower(name), strings.ToLower(s)) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("invalid day: %q (use 0-6 or a weekday name)", s)
}

// parseIndex parses a non-negative position argument.
func parseIndex(what, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s index: %q", what, s)
	}
	return n, nil
}

// readProfileFile loads a profile from JSON or YAML, chosen by extension.
// Fields missing from the file keep the new-profile defaults.
func readProfileFile(path string) (*models.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	p := models.NewProfile("")
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, p)
	default:
		err = json.Unmarshal(data, p)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
