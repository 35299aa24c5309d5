package jsonldb

import (
	"path/filepath"
	"testing"

	"github.com/maruel/ksid"
)

type testRow struct {
	ID   ksid.ID `json:"id"`
	Name string  `json:"name"`
}

func (r *testRow) Clone() *testRow {
	c := *r
	return &c
}

func (r *testRow) GetID() ksid.ID {
	return r.ID
}

func TestTable(t *testing.T) {
	t.Parallel()

	t.Run("AppendGet", func(t *testing.T) {
		t.Parallel()
		table, err := NewTable[*testRow](filepath.Join(t.TempDir(), "rows.jsonl"))
		if err != nil {
			t.Fatalf("NewTable() failed: %v", err)
		}

		if err := table.Append(&testRow{ID: ksid.ID(1), Name: "one"}); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
		if err := table.Append(&testRow{ID: ksid.ID(2), Name: "two"}); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
		if table.Len() != 2 {
			t.Errorf("Len() = %d, want 2", table.Len())
		}

		row := table.Get(ksid.ID(1))
		if row == nil || row.Name != "one" {
			t.Errorf("Get(1) = %+v", row)
		}
		if got := table.Get(ksid.ID(99)); got != nil {
			t.Errorf("Get(99) = %+v, want nil", got)
		}

		// Get returns a clone; mutating it must not leak into the table.
		row.Name = "mutated"
		if table.Get(ksid.ID(1)).Name != "one" {
			t.Error("mutation of returned row leaked into the table")
		}
	})

	t.Run("Persistence", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "rows.jsonl")
		table, err := NewTable[*testRow](path)
		if err != nil {
			t.Fatalf("NewTable() failed: %v", err)
		}
		if err := table.Append(&testRow{ID: ksid.ID(1), Name: "one"}); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
		if _, err := table.Modify(ksid.ID(1), func(r *testRow) error {
			r.Name = "uno"
			return nil
		}); err != nil {
			t.Fatalf("Modify() failed: %v", err)
		}

		// A fresh table over the same file sees the modified state.
		reloaded, err := NewTable[*testRow](path)
		if err != nil {
			t.Fatalf("NewTable() reload failed: %v", err)
		}
		row := reloaded.Get(ksid.ID(1))
		if row == nil || row.Name != "uno" {
			t.Errorf("reloaded Get(1) = %+v, want uno", row)
		}
	})

	t.Run("ModifyAbsent", func(t *testing.T) {
		t.Parallel()
		table, err := NewTable[*testRow](filepath.Join(t.TempDir(), "rows.jsonl"))
		if err != nil {
			t.Fatalf("NewTable() failed: %v", err)
		}
		row, err := table.Modify(ksid.ID(1), func(r *testRow) error { return nil })
		if err != nil {
			t.Fatalf("Modify() failed: %v", err)
		}
		if row != nil {
			t.Errorf("Modify() = %+v, want nil for absent ID", row)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "rows.jsonl")
		table, err := NewTable[*testRow](path)
		if err != nil {
			t.Fatalf("NewTable() failed: %v", err)
		}
		if err := table.Append(&testRow{ID: ksid.ID(1), Name: "one"}); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
		ok, err := table.Delete(ksid.ID(1))
		if err != nil || !ok {
			t.Fatalf("Delete() = %v, %v", ok, err)
		}
		ok, err = table.Delete(ksid.ID(1))
		if err != nil {
			t.Fatalf("second Delete() failed: %v", err)
		}
		if ok {
			t.Error("second Delete() = true, want false")
		}

		reloaded, err := NewTable[*testRow](path)
		if err != nil {
			t.Fatalf("NewTable() reload failed: %v", err)
		}
		if reloaded.Len() != 0 {
			t.Errorf("reloaded Len() = %d, want 0", reloaded.Len())
		}
	})

	t.Run("All", func(t *testing.T) {
		t.Parallel()
		table, err := NewTable[*testRow](filepath.Join(t.TempDir(), "rows.jsonl"))
		if err != nil {
			t.Fatalf("NewTable() failed: %v", err)
		}
		for i := 1; i <= 3; i++ {
			if err := table.Append(&testRow{ID: ksid.ID(i), Name: "row"}); err != nil {
				t.Fatalf("Append() failed: %v", err)
			}
		}
		n := 0
		for range table.All() {
			n++
		}
		if n != 3 {
			t.Errorf("All() yielded %d rows, want 3", n)
		}
	})
}
