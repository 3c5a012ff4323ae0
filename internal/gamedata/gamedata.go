// Package gamedata provides typed lookups over the canonical reference tables
// shipped with the game proxy. It is a thin layer over the refdata cache: a
// missing table or row degrades to absent so the UI can render "unknown".
package gamedata

import (
	"context"

	"github.com/mudproxy/companion/internal/refdata"
)

// Canonical table names. The name is the file stem on disk, case-sensitive.
const (
	TableRooms    = "Rooms"
	TableItems    = "Items"
	TableMonsters = "Monsters"
	TableSpells   = "Spells"
	TableClasses  = "Classes"
	TableRaces    = "Races"
)

// Field names shared by the canonical tables.
const (
	FieldNumber = "Number"
	FieldName   = "Name"
)

// Catalog answers reference queries for the UI layer.
type Catalog struct {
	cache *refdata.Cache
}

// NewCatalog returns a catalog over cache.
func NewCatalog(cache *refdata.Cache) *Catalog {
	return &Catalog{cache: cache}
}

// RoomByNumber returns the room with the given number. Matches whether the
// source encoded the number as an integer or a float.
func (c *Catalog) RoomByNumber(ctx context.Context, number int64) (refdata.Row, bool) {
	row, ok, _ := c.cache.FindByField(ctx, TableRooms, FieldNumber, refdata.IntValue(number), false)
	return row, ok
}

// ItemByName returns the item with the given name, ignoring case.
func (c *Catalog) ItemByName(ctx context.Context, name string) (refdata.Row, bool) {
	return c.byName(ctx, TableItems, name)
}

// MonsterByName returns the monster with the given name, ignoring case.
func (c *Catalog) MonsterByName(ctx context.Context, name string) (refdata.Row, bool) {
	return c.byName(ctx, TableMonsters, name)
}

// SpellByName returns the spell with the given name, ignoring case.
func (c *Catalog) SpellByName(ctx context.Context, name string) (refdata.Row, bool) {
	return c.byName(ctx, TableSpells, name)
}

// ClassByName returns the character class with the given name, ignoring case.
func (c *Catalog) ClassByName(ctx context.Context, name string) (refdata.Row, bool) {
	return c.byName(ctx, TableClasses, name)
}

// RaceByName returns the race with the given name, ignoring case.
func (c *Catalog) RaceByName(ctx context.Context, name string) (refdata.Row, bool) {
	return c.byName(ctx, TableRaces, name)
}

func (c *Catalog) byName(ctx context.Context, table, name string) (refdata.Row, bool) {
	row, ok, _ := c.cache.FindByField(ctx, table, FieldName, refdata.StringValue(name), true)
	return row, ok
}

// DisplayName returns a row's Name field, or "unknown" when absent. The UI
// uses it for list entries whose backing table failed to load.
func DisplayName(row refdata.Row, ok bool) string {
	if !ok {
		return "unknown"
	}
	v, found := row.Get(FieldName)
	if !found {
		return "unknown"
	}
	return v.String()
}
