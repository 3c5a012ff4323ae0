package autoaction

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/maruel/ksid"
)

// Profile is the user's full automation configuration, one rule file per
// kind. All methods are safe for concurrent use; the dialogs mutate rules
// while the proxy bridge reads them.
type Profile struct {
	mu    sync.Mutex
	heals *ruleSet[HealRule]
	cures *ruleSet[CureRule]
	buffs *ruleSet[BuffRule]
}

// NewProfile loads (or initializes) the profile stored under dir.
func NewProfile(dir string) (*Profile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}
	heals, err := loadRuleSet[HealRule](filepath.Join(dir, "heals.jsonl"))
	if err != nil {
		return nil, err
	}
	cures, err := loadRuleSet[CureRule](filepath.Join(dir, "cures.jsonl"))
	if err != nil {
		return nil, err
	}
	buffs, err := loadRuleSet[BuffRule](filepath.Join(dir, "buffs.jsonl"))
	if err != nil {
		return nil, err
	}
	return &Profile{heals: heals, cures: cures, buffs: buffs}, nil
}

// AddHeal validates and stores a new heal rule, assigning an ID when unset.
func (p *Profile) AddHeal(r HealRule) (HealRule, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.heals.add(r)
}

// UpdateHeal replaces the heal rule with the same ID.
func (p *Profile) UpdateHeal(r HealRule) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.heals.update(r)
}

// RemoveHeal deletes a heal rule.
func (p *Profile) RemoveHeal(id ksid.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.heals.remove(id)
}

// HealByID returns one heal rule.
func (p *Profile) HealByID(id ksid.ID) (HealRule, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.heals.get(id)
}

// Heals returns all heal rules in priority order.
func (p *Profile) Heals() []HealRule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.heals.list()
}

// AddCure validates and stores a new cure rule, assigning an ID when unset.
func (p *Profile) AddCure(r CureRule) (CureRule, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cures.add(r)
}

// UpdateCure replaces the cure rule with the same ID.
func (p *Profile) UpdateCure(r CureRule) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cures.update(r)
}

// RemoveCure deletes a cure rule.
func (p *Profile) RemoveCure(id ksid.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cures.remove(id)
}

// CureByID returns one cure rule.
func (p *Profile) CureByID(id ksid.ID) (CureRule, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cures.get(id)
}

// Cures returns all cure rules in priority order.
func (p *Profile) Cures() []CureRule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cures.list()
}

// AddBuff validates and stores a new buff rule, assigning an ID when unset.
func (p *Profile) AddBuff(r BuffRule) (BuffRule, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffs.add(r)
}

// UpdateBuff replaces the buff rule with the same ID.
func (p *Profile) UpdateBuff(r BuffRule) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffs.update(r)
}

// RemoveBuff deletes a buff rule.
func (p *Profile) RemoveBuff(id ksid.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffs.remove(id)
}

// BuffByID returns one buff rule.
func (p *Profile) BuffByID(id ksid.ID) (BuffRule, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffs.get(id)
}

// Buffs returns all buff rules in priority order.
func (p *Profile) Buffs() []BuffRule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffs.list()
}
