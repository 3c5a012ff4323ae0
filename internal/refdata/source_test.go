package refdata

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDirSourceLoad(t *testing.T) {
	t.Run("decodes flat records", func(t *testing.T) {
		dir := t.TempDir()
		writeTable(t, dir, "Monsters", `[{"Name":"Goblin","Level":3,"Aggressive":true,"Boss":null}]`)

		table, err := NewDirSource(dir).Load("Monsters")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if table.Name() != "Monsters" {
			t.Errorf("Name() = %q, want Monsters", table.Name())
		}
		if table.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", table.Len())
		}
		row := table.Row(0)
		if v, ok := row.Get("Name"); !ok || v.Kind() != KindString || v.String() != "Goblin" {
			t.Errorf("Name = %v (%v)", v, v.Kind())
		}
		if v, ok := row.Get("Level"); !ok || v.Kind() != KindInteger {
			t.Errorf("Level = %v (%v), want integer", v, v.Kind())
		} else if i, _ := v.AsInt(); i != 3 {
			t.Errorf("Level = %d, want 3", i)
		}
		if v, ok := row.Get("Aggressive"); !ok || v.Kind() != KindBool {
			t.Errorf("Aggressive = %v (%v), want bool", v, v.Kind())
		}
		if v, ok := row.Get("Boss"); !ok || !v.IsNull() {
			t.Errorf("Boss = %v, want null", v)
		}
	})

	t.Run("preserves field order", func(t *testing.T) {
		dir := t.TempDir()
		writeTable(t, dir, "Rooms", `[{"Number":1,"Name":"Gate","Terrain":"road","Light":0}]`)

		table, err := NewDirSource(dir).Load("Rooms")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		var names []string
		for name := range table.Row(0).Fields() {
			names = append(names, name)
		}
		want := []string{"Number", "Name", "Terrain", "Light"}
		if !slices.Equal(names, want) {
			t.Errorf("field order = %v, want %v", names, want)
		}
	})

	t.Run("preserves integer float distinction", func(t *testing.T) {
		dir := t.TempDir()
		writeTable(t, dir, "Rooms", `[{"Number":7},{"Number":7.0}]`)

		table, err := NewDirSource(dir).Load("Rooms")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if v, _ := table.Row(0).Get("Number"); v.Kind() != KindInteger {
			t.Errorf("row 0 Number kind = %v, want integer", v.Kind())
		}
		if v, _ := table.Row(1).Get("Number"); v.Kind() != KindFloat {
			t.Errorf("row 1 Number kind = %v, want float", v.Kind())
		}
	})

	t.Run("accepts comments and trailing commas", func(t *testing.T) {
		dir := t.TempDir()
		writeTable(t, dir, "Spells", `[
			// hand-edited by players
			{"Name": "Minor Heal", "Mana": 4,},
		]`)

		table, err := NewDirSource(dir).Load("Spells")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if table.Len() != 1 {
			t.Errorf("Len() = %d, want 1", table.Len())
		}
	})

	t.Run("empty array decodes to empty table", func(t *testing.T) {
		dir := t.TempDir()
		writeTable(t, dir, "Items", `[]`)

		table, err := NewDirSource(dir).Load("Items")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if table.Len() != 0 {
			t.Errorf("Len() = %d, want 0", table.Len())
		}
	})

	t.Run("missing file is NOT_FOUND", func(t *testing.T) {
		_, err := NewDirSource(t.TempDir()).Load("NoSuchTable")
		if CodeOf(err) != ErrorCodeNotFound {
			t.Errorf("CodeOf = %q, want %q (err: %v)", CodeOf(err), ErrorCodeNotFound, err)
		}
	})

	t.Run("malformed content is DECODE_ERROR", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
		}{
			{"garbage", `{{{{`},
			{"top-level object", `{"Name":"Goblin"}`},
			{"top-level string", `"Goblin"`},
			{"non-object element", `[1, 2, 3]`},
			{"nested object", `[{"Name":"Goblin","Stats":{"Str":10}}]`},
			{"nested array", `[{"Name":"Goblin","Drops":[1,2]}]`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dir := t.TempDir()
				writeTable(t, dir, "Bad", tt.content)
				_, err := NewDirSource(dir).Load("Bad")
				if CodeOf(err) != ErrorCodeDecode {
					t.Errorf("CodeOf = %q, want %q (err: %v)", CodeOf(err), ErrorCodeDecode, err)
				}
			})
		}
	})
}

func TestDirSourceList(t *testing.T) {
	t.Run("lists sorted table stems", func(t *testing.T) {
		dir := t.TempDir()
		writeTable(t, dir, "Rooms", `[]`)
		writeTable(t, dir, "Items", `[]`)
		writeTable(t, dir, "Monsters", `[]`)
		if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Mkdir(filepath.Join(dir, "backup.json"), 0o755); err != nil {
			t.Fatal(err)
		}

		names, err := NewDirSource(dir).List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		want := []string{"Items", "Monsters", "Rooms"}
		if !slices.Equal(names, want) {
			t.Errorf("List() = %v, want %v", names, want)
		}
	})

	t.Run("missing directory is NOT_FOUND", func(t *testing.T) {
		_, err := NewDirSource(filepath.Join(t.TempDir(), "nope")).List()
		if CodeOf(err) != ErrorCodeNotFound {
			t.Errorf("CodeOf = %q, want %q (err: %v)", CodeOf(err), ErrorCodeNotFound, err)
		}
	})
}
