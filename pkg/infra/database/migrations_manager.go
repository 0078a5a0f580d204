package database

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

type Migration struct {
	ID   string
	Name string
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

// migrationVersion is one applied row in public.migration_version.
type migrationVersion struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (migrationVersion) TableName() string {
	return "public.migration_version"
}

var (
	registryMu sync.Mutex
	registry   = make(map[string]Migration)
)

// RegisterMigration is called from init functions in the migrations
// package. Duplicate IDs panic.
func RegisterMigration(m Migration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[m.ID]; exists {
		panic(fmt.Sprintf("migration with ID %s already registered", m.ID))
	}
	registry[m.ID] = m
}

// Pending returns the registered migration IDs in apply order.
func Pending() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func lookup(id string) (Migration, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	m, ok := registry[id]
	return m, ok
}

type MigrationsManager struct {
	db *gorm.DB
}

func NewMigrationsManager(db *gorm.DB) *MigrationsManager {
	return &MigrationsManager{db: db}
}

func (m *MigrationsManager) applied() (map[string]struct{}, error) {
	if err := m.db.AutoMigrate(&migrationVersion{}); err != nil {
		return nil, fmt.Errorf("ensure migrations table: %w", err)
	}
	var rows []migrationVersion
	if err := m.db.Select("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	done := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		done[r.ID] = struct{}{}
	}
	return done, nil
}

// ApplyPending runs every unapplied migration in ID order, each in its own
// transaction together with its version row.
func (m *MigrationsManager) ApplyPending() error {
	done, err := m.applied()
	if err != nil {
		return err
	}

	for _, id := range Pending() {
		if _, ok := done[id]; ok {
			continue
		}
		mig, _ := lookup(id)
		if mig.Up == nil {
			return fmt.Errorf("migration %s has no Up function", id)
		}
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&migrationVersion{ID: mig.ID, Name: mig.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s (%s): %w", mig.ID, mig.Name, err)
		}
	}
	return nil
}

// Rollback reverts the most recently applied migration.
func (m *MigrationsManager) Rollback() error {
	var last migrationVersion
	res := m.db.Order("id DESC").Limit(1).Find(&last)
	if res.Error != nil {
		return fmt.Errorf("load last migration: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}
	mig, ok := lookup(last.ID)
	if !ok || mig.Down == nil {
		return fmt.Errorf("migration %s cannot be rolled back", last.ID)
	}
	return m.db.Transaction(func(tx *gorm.DB) error {
		if err := mig.Down(tx); err != nil {
			return fmt.Errorf("rollback migration %s: %w", last.ID, err)
		}
		return tx.Delete(&migrationVersion{ID: last.ID}).Error
	})
}
