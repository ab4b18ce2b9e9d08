// Package data implements JSON snapshots of the user and progress
// collections for the export/import CLIs.
package data

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type (
	User struct {
		ID              string     `json:"id"`
		Email           string     `json:"email"`
		Username        string     `json:"username"`
		PasswordHash    string     `json:"password_hash"`
		XP              int        `json:"xp"`
		Lives           int        `json:"lives"`
		Streak          int        `json:"streak"`
		LastActivity    *time.Time `json:"last_activity,omitempty"`
		ProfileImageURL string     `json:"profile_image_url,omitempty"`
		CreatedAt       time.Time  `json:"created_at"`
	}

	ProgressRecord struct {
		UserID      string     `json:"user_id"`
		LessonID    string     `json:"lesson_id"`
		Completed   bool       `json:"completed"`
		Score       int        `json:"score"`
		Attempts    int        `json:"attempts"`
		CompletedAt *time.Time `json:"completed_at,omitempty"`
	}

	Snapshot struct {
		ExportedAt time.Time        `json:"exported_at"`
		Users      []User           `json:"users"`
		Progress   []ProgressRecord `json:"progress"`
	}
)

// WriteFile stores the snapshot as indented JSON.
func (s *Snapshot) WriteFile(path string) error {
	payload, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err = os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadFile loads a snapshot produced by WriteFile.
func ReadFile(path string) (*Snapshot, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err = json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}
