package sqlsource

import (
	"context"
	"fmt"
	"sync"

	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
)

// configStore is the configuration of one syllabus, backed by syllabus_config.
// Reads come from a snapshot taken when the store is loaded.
type configStore struct {
	store      *Store
	syllabusID int64

	mu     sync.RWMutex
	values map[string]string
	staged map[string]configEntry
}

type configEntry struct {
	Section string `db:"section"`
	Name    string `db:"name"`
	Value   string `db:"value"`
}

var _ contract.ConfigStore = &configStore{} // Compile-time check

// ForSyllabus implements contract.ConfigProvider.
func (s *Store) ForSyllabus(ctx context.Context, syllabusID int64) (contract.ConfigStore, error) {
	var rows []configEntry
	query := s.db.Rebind("SELECT section, name, value FROM syllabus_config WHERE syllabus_id = ?")
	if err := s.db.SelectContext(ctx, &rows, query, syllabusID); err != nil {
		return nil, fmt.Errorf("failed to load configuration of syllabus %d: %w", syllabusID, err)
	}
	c := &configStore{
		store:      s,
		syllabusID: syllabusID,
		values:     make(map[string]string, len(rows)),
		staged:     make(map[string]configEntry),
	}
	for _, r := range rows {
		c.values[configKey(r.Section, r.Name)] = r.Value
	}
	return c, nil
}

func configKey(section, key string) string { return section + "." + key }

// Get implements contract.ConfigStore. Staged values are visible before Save.
func (c *configStore) Get(section, key, def string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	k := configKey(section, key)
	if e, ok := c.staged[k]; ok {
		return e.Value
	}
	if v, ok := c.values[k]; ok {
		return v
	}
	return def
}

// Set implements contract.ConfigStore.
func (c *configStore) Set(section, key, value string) error {
	if section == "" || key == "" {
		return schema.ModelError("configuration section and key must not be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staged[configKey(section, key)] = configEntry{Section: section, Name: key, Value: value}
	return nil
}

// Save implements contract.ConfigStore. Staged values are written in one transaction.
func (c *configStore) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.staged) == 0 {
		return nil
	}

	ctx := context.Background()
	tx, err := c.store.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin configuration transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := tx.Rebind(upsertConfigSQL(c.store.backend))
	for _, e := range c.staged {
		if _, err := tx.ExecContext(ctx, query, c.syllabusID, e.Section, e.Name, e.Value); err != nil {
			return fmt.Errorf("failed to save %s.%s: %w", e.Section, e.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit configuration: %w", err)
	}

	for k, e := range c.staged {
		c.values[k] = e.Value
	}
	clear(c.staged)
	return nil
}

func upsertConfigSQL(backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return `INSERT INTO syllabus_config (syllabus_id, section, name, value) VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE value = VALUES(value)`
	}
	return `INSERT INTO syllabus_config (syllabus_id, section, name, value) VALUES (?, ?, ?, ?)
		ON CONFLICT (syllabus_id, section, name) DO UPDATE SET value = excluded.value`
}
