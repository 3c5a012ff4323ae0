// Package autoaction holds the user's automated healing, curing and buffing
// configuration. Rules are plain data edited through the companion's dialogs;
// evaluating them against the game session is the proxy's job, not ours.
//
// Each rule kind persists to its own JSONL file under the profile directory.
// Mutations rewrite the whole file atomically, which keeps the format trivial
// to inspect and hand-edit.
package autoaction

import (
	"errors"

	"github.com/maruel/ksid"
)

var (
	// ErrRuleNotFound is returned when updating or removing an unknown rule ID.
	ErrRuleNotFound = errors.New("rule not found")
	// ErrDuplicateRuleID is returned when adding a rule whose ID already exists.
	ErrDuplicateRuleID = errors.New("duplicate rule id")

	errNameRequired   = errors.New("rule name is required")
	errRemedyRequired = errors.New("exactly one of spell or item must be set")
	errSpellRequired  = errors.New("spell is required")
)

// HealRule restores hit points when they drop below a threshold.
type HealRule struct {
	ID ksid.ID `json:"id"`
	// Name is the label shown in the priority list box.
	Name string `json:"name"`
	// Spell or Item is the remedy; exactly one is set.
	Spell string `json:"spell,omitempty"`
	Item  string `json:"item,omitempty"`
	// TriggerPct fires the rule when HP falls to this percentage or below.
	TriggerPct int  `json:"trigger_pct"`
	Priority   int  `json:"priority"`
	Enabled    bool `json:"enabled"`
}

// RuleID implements rule.
func (r HealRule) RuleID() ksid.ID { return r.ID }

// WithID implements rule.
func (r HealRule) WithID(id ksid.ID) HealRule { r.ID = id; return r }

// RulePriority implements rule.
func (r HealRule) RulePriority() int { return r.Priority }

// Validate implements rule.
func (r HealRule) Validate() error {
	if r.Name == "" {
		return errNameRequired
	}
	if (r.Spell == "") == (r.Item == "") {
		return errRemedyRequired
	}
	if r.TriggerPct < 1 || r.TriggerPct > 99 {
		return errors.New("trigger_pct must be between 1 and 99")
	}
	return nil
}

// CureRule removes an ailment (poison, blindness, ...) when it appears.
type CureRule struct {
	ID       ksid.ID `json:"id"`
	Ailment  string  `json:"ailment"`
	Spell    string  `json:"spell,omitempty"`
	Item     string  `json:"item,omitempty"`
	Priority int     `json:"priority"`
	Enabled  bool    `json:"enabled"`
}

// RuleID implements rule.
func (r CureRule) RuleID() ksid.ID { return r.ID }

// WithID implements rule.
func (r CureRule) WithID(id ksid.ID) CureRule { r.ID = id; return r }

// RulePriority implements rule.
func (r CureRule) RulePriority() int { return r.Priority }

// Validate implements rule.
func (r CureRule) Validate() error {
	if r.Ailment == "" {
		return errors.New("ailment is required")
	}
	if (r.Spell == "") == (r.Item == "") {
		return errRemedyRequired
	}
	return nil
}

// BuffRule keeps a spell active by recasting it on an interval.
type BuffRule struct {
	ID        ksid.ID `json:"id"`
	Spell     string  `json:"spell"`
	RecastSec int     `json:"recast_sec"`
	Priority  int     `json:"priority"`
	Enabled   bool    `json:"enabled"`
}

// RuleID implements rule.
func (r BuffRule) RuleID() ksid.ID { return r.ID }

// WithID implements rule.
func (r BuffRule) WithID(id ksid.ID) BuffRule { r.ID = id; return r }

// RulePriority implements rule.
func (r BuffRule) RulePriority() int { return r.Priority }

// Validate implements rule.
func (r BuffRule) Validate() error {
	if r.Spell == "" {
		return errSpellRequired
	}
	if r.RecastSec < 0 {
		return errors.New("recast_sec must be non-negative")
	}
	return nil
}
