package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/creatures/genome"
)

// SQLiteStore archives lineage in a SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	// Single writer; the tick loop is the only caller.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("pinging %s: %w", s.path, err)
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("creating tables: %w", err)
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveBirth(ctx context.Context, b Birth) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO creatures (
			run_id, id, parent_id, generation, fingerprint, birth_tick, born_at,
			attack_power, move_speed, max_vigor, hit_cooldown, reproduce_cooldown
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, id) DO UPDATE SET
			parent_id = excluded.parent_id,
			generation = excluded.generation,
			fingerprint = excluded.fingerprint,
			birth_tick = excluded.birth_tick,
			born_at = excluded.born_at,
			attack_power = excluded.attack_power,
			move_speed = excluded.move_speed,
			max_vigor = excluded.max_vigor,
			hit_cooldown = excluded.hit_cooldown,
			reproduce_cooldown = excluded.reproduce_cooldown
	`, b.RunID.String(), b.ID, b.ParentID, b.Generation, b.Fingerprint, b.BirthTick, b.BornAt,
		b.Traits.AttackPower, b.Traits.MoveSpeed, b.Traits.MaxVigor, b.Traits.HitCooldown, b.Traits.ReproduceCooldown)
	if err != nil {
		return fmt.Errorf("saving birth %d: %w", b.ID, err)
	}
	return nil
}

func (s *SQLiteStore) SaveDeath(ctx context.Context, d Death) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO deaths (run_id, id, death_tick, died_at, hits, kills, children, damage_dealt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, id) DO UPDATE SET
			death_tick = excluded.death_tick,
			died_at = excluded.died_at,
			hits = excluded.hits,
			kills = excluded.kills,
			children = excluded.children,
			damage_dealt = excluded.damage_dealt
	`, d.RunID.String(), d.ID, d.DeathTick, d.DiedAt, d.Hits, d.Kills, d.Children, d.DamageDealt)
	if err != nil {
		return fmt.Errorf("saving death %d: %w", d.ID, err)
	}
	return nil
}

const selectCreature = `
	SELECT c.id, c.parent_id, c.generation, c.fingerprint, c.birth_tick, c.born_at,
		c.attack_power, c.move_speed, c.max_vigor, c.hit_cooldown, c.reproduce_cooldown,
		d.death_tick, d.died_at, d.hits, d.kills, d.children, d.damage_dealt
	FROM creatures c
	LEFT JOIN deaths d ON d.run_id = c.run_id AND d.id = c.id
`

func (s *SQLiteStore) GetCreature(ctx context.Context, runID uuid.UUID, id uint32) (Creature, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Creature{}, false, err
	}

	row := db.QueryRowContext(ctx, selectCreature+` WHERE c.run_id = ? AND c.id = ?`, runID.String(), id)
	c, err := scanCreature(row, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Creature{}, false, nil
		}
		return Creature{}, false, fmt.Errorf("loading creature %d: %w", id, err)
	}
	return c, true, nil
}

func (s *SQLiteStore) ListRun(ctx context.Context, runID uuid.UUID) ([]Creature, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectCreature+` WHERE c.run_id = ? ORDER BY c.id`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("listing run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []Creature
	for rows.Next() {
		c, err := scanCreature(rows, runID)
		if err != nil {
			return nil, fmt.Errorf("listing run %s: %w", runID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCreature(row scanner, runID uuid.UUID) (Creature, error) {
	var (
		b Birth
		t genome.Traits

		deathTick sql.NullInt32
		diedAt    sql.NullFloat64
		hits      sql.NullInt64
		kills     sql.NullInt64
		children  sql.NullInt64
		damage    sql.NullFloat64
	)
	err := row.Scan(&b.ID, &b.ParentID, &b.Generation, &b.Fingerprint, &b.BirthTick, &b.BornAt,
		&t.AttackPower, &t.MoveSpeed, &t.MaxVigor, &t.HitCooldown, &t.ReproduceCooldown,
		&deathTick, &diedAt, &hits, &kills, &children, &damage)
	if err != nil {
		return Creature{}, err
	}
	b.RunID = runID
	b.Traits = t

	c := Creature{Birth: b}
	if deathTick.Valid {
		c.Death = &Death{
			RunID:       runID,
			ID:          b.ID,
			DeathTick:   deathTick.Int32,
			DiedAt:      diedAt.Float64,
			Hits:        int(hits.Int64),
			Kills:       int(kills.Int64),
			Children:    int(children.Int64),
			DamageDealt: damage.Float64,
		}
	}
	return c, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS creatures (
			run_id TEXT NOT NULL,
			id INTEGER NOT NULL,
			parent_id INTEGER NOT NULL,
			generation INTEGER NOT NULL,
			fingerprint INTEGER NOT NULL,
			birth_tick INTEGER NOT NULL,
			born_at REAL NOT NULL,
			attack_power REAL NOT NULL,
			move_speed REAL NOT NULL,
			max_vigor REAL NOT NULL,
			hit_cooldown REAL NOT NULL,
			reproduce_cooldown REAL NOT NULL,
			PRIMARY KEY (run_id, id)
		);
		CREATE TABLE IF NOT EXISTS deaths (
			run_id TEXT NOT NULL,
			id INTEGER NOT NULL,
			death_tick INTEGER NOT NULL,
			died_at REAL NOT NULL,
			hits INTEGER NOT NULL,
			kills INTEGER NOT NULL,
			children INTEGER NOT NULL,
			damage_dealt REAL NOT NULL,
			PRIMARY KEY (run_id, id)
		);
		CREATE INDEX IF NOT EXISTS creatures_parent ON creatures (run_id, parent_id);
	`)
	return err
}
