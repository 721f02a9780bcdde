// Package store persists per-entity position snapshots so topics can
// be rehydrated after a restart.
package store

import (
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"

	"vek"
	"vek/veklog"
)

const schema = `
	CREATE TABLE IF NOT EXISTS position_snapshots (
		topic TEXT NOT NULL,
		entity TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		tick INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_topic_tick
		ON position_snapshots (topic, tick);
`

type snapshotRow struct {
	Entity string  `db:"entity"`
	X      float64 `db:"x"`
	Y      float64 `db:"y"`
	Tick   int64   `db:"tick"`
}

type SnapshotStore struct {
	db  *sqlx.DB
	log veklog.Logger
}

// Open connects to the sqlite database at addr (":memory:" works) and
// bootstraps the schema.
func Open(addr string, logger veklog.Logger) (*SnapshotStore, error) {
	if logger == nil {
		logger = veklog.Nop{}
	}

	db, err := sqlx.Connect("sqlite", addr)
	if err != nil {
		return nil, fmt.Errorf("connect snapshot store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap snapshot store: %w", err)
	}

	return &SnapshotStore{db: db, log: logger}, nil
}

func (s *SnapshotStore) Save(topic, entity string, v vek.Vector2, tick int64) error {
	_, err := s.db.Exec(
		"INSERT INTO position_snapshots (topic, entity, x, y, tick) VALUES ($1, $2, $3, $4, $5)",
		topic, entity, v.X, v.Y, tick,
	)
	return err
}

// Latest returns the newest stored vector per entity on a topic. Rows
// are rehydrated through the vek.New gate; anything non-finite that
// made it into storage is dropped, not resurrected.
func (s *SnapshotStore) Latest(topic string) (map[string]vek.Vector2, error) {
	var rows []snapshotRow
	err := s.db.Select(&rows, `
		SELECT entity, x, y, MAX(tick) AS tick
		FROM position_snapshots
		WHERE topic = $1
		GROUP BY entity`,
		topic,
	)
	if err != nil {
		return nil, err
	}

	out := make(map[string]vek.Vector2, len(rows))
	for _, row := range rows {
		v, err := vek.New(row.X, row.Y)
		if err != nil {
			s.log.Warn("dropping non-finite snapshot", "topic", topic, "entity", row.Entity)
			continue
		}
		out[row.Entity] = v
	}
	return out, nil
}

// History returns every stored position of an entity in tick order.
func (s *SnapshotStore) History(topic, entity string) ([]vek.Vector2, error) {
	var rows []snapshotRow
	err := s.db.Select(&rows, `
		SELECT entity, x, y, tick
		FROM position_snapshots
		WHERE topic = $1 AND entity = $2
		ORDER BY tick`,
		topic, entity,
	)
	if err != nil {
		return nil, err
	}

	out := make([]vek.Vector2, 0, len(rows))
	for _, row := range rows {
		v, err := vek.New(row.X, row.Y)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
