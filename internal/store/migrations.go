package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Events table - one row per dispatched action
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL CHECK(action IN ('next-item', 'previous-item', 'toggle-playback')),
			outcome TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			area REAL NOT NULL DEFAULT 0,
			snapshot BLOB,
			sink_error TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,

		// Settings table - overrides of the configuration surface as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_events_action ON events(action)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
