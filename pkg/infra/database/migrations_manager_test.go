package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestRegisterMigration_DuplicatePanics(t *testing.T) {
	noop := func(*gorm.DB) error { return nil }
	RegisterMigration(Migration{ID: "00000000_test_only", Name: "test", Up: noop})
	t.Cleanup(func() {
		registryMu.Lock()
		delete(registry, "00000000_test_only")
		registryMu.Unlock()
	})

	assert.Panics(t, func() {
		RegisterMigration(Migration{ID: "00000000_test_only", Name: "again", Up: noop})
	})
	assert.Contains(t, Pending(), "00000000_test_only")
}

func TestPending_SortedByID(t *testing.T) {
	noop := func(*gorm.DB) error { return nil }
	for _, id := range []string{"00000003_c", "00000001_a", "00000002_b"} {
		RegisterMigration(Migration{ID: id, Up: noop})
	}
	t.Cleanup(func() {
		registryMu.Lock()
		for _, id := range []string{"00000003_c", "00000001_a", "00000002_b"} {
			delete(registry, id)
		}
		registryMu.Unlock()
	})

	ids := Pending()
	assert.Equal(t, []string{"00000001_a", "00000002_b", "00000003_c"}, ids)
}
