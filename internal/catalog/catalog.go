// Package catalog holds the static Maya curriculum: lessons grouped into
// units, per-unit study tips and the dictionary. The datasets are embedded
// at build time and immutable at runtime.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//go:embed content/*.json
var content embed.FS

type (
	MatchingPair struct {
		Maya    string `json:"maya"`
		Spanish string `json:"spanish"`
	}

	Exercise struct {
		Type          string         `json:"type"`
		Question      string         `json:"question"`
		Options       []string       `json:"options,omitempty"`
		Pairs         []MatchingPair `json:"pairs,omitempty"`
		CorrectAnswer string         `json:"correct_answer"`
		AudioFile     string         `json:"audio_file,omitempty"`
	}

	Lesson struct {
		ID          string     `json:"id"`
		Unit        int        `json:"unit"`
		UnitTitle   string     `json:"unit_title"`
		Order       int        `json:"order"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		XPReward    int        `json:"xp_reward"`
		Exercises   []Exercise `json:"exercises"`
	}

	UnitTips struct {
		Title         string   `json:"title"`
		Grammar       []string `json:"grammar"`
		Pronunciation []string `json:"pronunciation"`
		Vocabulary    []string `json:"vocabulary"`
	}

	DictionaryEntry struct {
		Maya     string `json:"maya"`
		Spanish  string `json:"spanish"`
		Category string `json:"category"`
	}

	Catalog struct {
		lessons    []Lesson
		byID       map[string]*Lesson
		tips       map[int]UnitTips
		dictionary []DictionaryEntry
	}
)

// Load parses and validates the embedded datasets. Malformed content is a
// build artifact fault, so any validation failure aborts startup.
func Load() (*Catalog, error) {
	c := &Catalog{
		byID: make(map[string]*Lesson),
		tips: make(map[int]UnitTips),
	}

	if err := readJSON("content/lessons.json", &c.lessons); err != nil {
		return nil, err
	}

	rawTips := make(map[string]UnitTips)
	if err := readJSON("content/tips.json", &rawTips); err != nil {
		return nil, err
	}
	for key, tips := range rawTips {
		unit, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("tips: invalid unit key %q", key)
		}
		c.tips[unit] = tips
	}

	if err := readJSON("content/dictionary.json", &c.dictionary); err != nil {
		return nil, err
	}

	sort.SliceStable(c.lessons, func(i, j int) bool {
		if c.lessons[i].Unit != c.lessons[j].Unit {
			return c.lessons[i].Unit < c.lessons[j].Unit
		}
		return c.lessons[i].Order < c.lessons[j].Order
	})
	for i := range c.lessons {
		c.byID[c.lessons[i].ID] = &c.lessons[i]
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	return c, nil
}

// validate enforces catalog well-formedness: unique lesson IDs, positive XP
// rewards and a dense 1-based order sequence within every unit. The unlock
// walk relies on the dense sequence, so gaps and duplicates are rejected
// here instead of being repaired at request time.
func (c *Catalog) validate() error {
	if len(c.byID) != len(c.lessons) {
		return fmt.Errorf("duplicate lesson IDs: %d lessons, %d unique", len(c.lessons), len(c.byID))
	}

	unitOrders := make(map[int][]int)
	for _, l := range c.lessons {
		if l.Unit < 1 {
			return fmt.Errorf("lesson %s: unit must be positive, got %d", l.ID, l.Unit)
		}
		if l.XPReward < 1 {
			return fmt.Errorf("lesson %s: xp_reward must be positive, got %d", l.ID, l.XPReward)
		}
		if len(l.Exercises) == 0 {
			return fmt.Errorf("lesson %s: no exercises", l.ID)
		}
		unitOrders[l.Unit] = append(unitOrders[l.Unit], l.Order)
	}

	for unit, orders := range unitOrders {
		// lessons are already sorted by (unit, order)
		for i, order := range orders {
			if order != i+1 {
				return fmt.Errorf("unit %d: lesson orders must be a dense 1-based sequence, got %v", unit, orders)
			}
		}
	}

	return nil
}

// Lessons returns all lessons ordered by unit ascending, then order ascending.
func (c *Catalog) Lessons() []Lesson {
	return c.lessons
}

// Lesson returns the lesson with the given ID.
func (c *Catalog) Lesson(id string) (*Lesson, bool) {
	l, ok := c.byID[id]
	return l, ok
}

// Len returns the total number of lessons in the catalog.
func (c *Catalog) Len() int {
	return len(c.lessons)
}

// Tips returns the study tips for a unit.
func (c *Catalog) Tips(unit int) (UnitTips, bool) {
	t, ok := c.tips[unit]
	return t, ok
}

// Dictionary returns dictionary entries sorted by headword. A non-empty
// search filters case-insensitively over both the Maya and Spanish sides.
func (c *Catalog) Dictionary(search string) []DictionaryEntry {
	res := make([]DictionaryEntry, 0, len(c.dictionary))
	search = strings.ToLower(strings.TrimSpace(search))
	for _, entry := range c.dictionary {
		if search != "" &&
			!strings.Contains(strings.ToLower(entry.Maya), search) &&
			!strings.Contains(strings.ToLower(entry.Spanish), search) {
			continue
		}
		res = append(res, entry)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return strings.ToLower(res[i].Maya) < strings.ToLower(res[j].Maya)
	})
	return res
}

func readJSON(path string, target any) error {
	data, err := content.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
