package autoaction

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/maruel/ksid"
	"github.com/natefinch/atomic"
)

// rule is the contract every rule kind satisfies. WithID returns a copy so
// rule values stay immutable once handed out.
type rule[R any] interface {
	RuleID() ksid.ID
	WithID(id ksid.ID) R
	RulePriority() int
	Validate() error
}

// ruleSet stores one rule kind in a JSONL file with full in-memory caching.
// Rules have value semantics, so rows copy in and out naturally. Not safe for
// concurrent use; Profile serializes access.
type ruleSet[R rule[R]] struct {
	path string
	rows []R
}

// loadRuleSet reads all rules from path. A missing file is an empty set.
func loadRuleSet[R rule[R]](path string) (*ruleSet[R], error) {
	s := &ruleSet[R]{path: path}
	f, err := os.Open(path) //nolint:gosec // G304: path is under the configured profile directory
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to open rule file %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var row R
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rule in %s: %w", path, err)
		}
		s.rows = append(s.rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}
	return s, nil
}

// save rewrites the whole file atomically so a crash mid-write cannot leave a
// truncated rule list behind.
func (s *ruleSet[R]) save() error {
	var buf bytes.Buffer
	for _, row := range s.rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal rule: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("failed to write rule file %s: %w", s.path, err)
	}
	return nil
}

func (s *ruleSet[R]) indexOf(id ksid.ID) int {
	for i, row := range s.rows {
		if row.RuleID() == id {
			return i
		}
	}
	return -1
}

// add validates r, assigns an ID when none is set, and persists.
func (s *ruleSet[R]) add(r R) (R, error) {
	var zero R
	if err := r.Validate(); err != nil {
		return zero, err
	}
	if r.RuleID() == 0 {
		r = r.WithID(ksid.NewID())
	} else if s.indexOf(r.RuleID()) >= 0 {
		return zero, ErrDuplicateRuleID
	}
	s.rows = append(s.rows, r)
	if err := s.save(); err != nil {
		s.rows = s.rows[:len(s.rows)-1]
		return zero, err
	}
	return r, nil
}

// update replaces the rule with the same ID and persists.
func (s *ruleSet[R]) update(r R) error {
	if err := r.Validate(); err != nil {
		return err
	}
	i := s.indexOf(r.RuleID())
	if i < 0 {
		return ErrRuleNotFound
	}
	prev := s.rows[i]
	s.rows[i] = r
	if err := s.save(); err != nil {
		s.rows[i] = prev
		return err
	}
	return nil
}

// remove deletes the rule and persists.
func (s *ruleSet[R]) remove(id ksid.ID) error {
	i := s.indexOf(id)
	if i < 0 {
		return ErrRuleNotFound
	}
	prev := s.rows
	s.rows = slices.Delete(slices.Clone(s.rows), i, i+1)
	if err := s.save(); err != nil {
		s.rows = prev
		return err
	}
	return nil
}

// get returns the rule with the given ID.
func (s *ruleSet[R]) get(id ksid.ID) (R, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.rows[i], true
	}
	var zero R
	return zero, false
}

// list returns a copy sorted by priority, then ID for a stable order.
func (s *ruleSet[R]) list() []R {
	out := slices.Clone(s.rows)
	slices.SortStableFunc(out, func(a, b R) int {
		if d := a.RulePriority() - b.RulePriority(); d != 0 {
			return d
		}
		switch {
		case a.RuleID() < b.RuleID():
			return -1
		case a.RuleID() > b.RuleID():
			return 1
		default:
			return 0
		}
	})
	return out
}
