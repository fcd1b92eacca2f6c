package profilesvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("profile not found")
	ErrExists   = errors.New("profile already exists")
)

// Profile is a player's account record, kept beside the event logs.
type Profile struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	GoldTrophies   int       `json:"gold_trophies"`
	SilverTrophies int       `json:"silver_trophies"`
	BronzeTrophies int       `json:"bronze_trophies"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Store persists profiles in SQLite or Postgres.
type Store struct {
	db       *sql.DB
	postgres bool
}

const schema = `
CREATE TABLE IF NOT EXISTS player_profiles (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	email TEXT NOT NULL,
	age INTEGER NOT NULL,
	gold_trophies INTEGER NOT NULL DEFAULT 0,
	silver_trophies INTEGER NOT NULL DEFAULT 0,
	bronze_trophies INTEGER NOT NULL DEFAULT 0,
	created_at_ms BIGINT NOT NULL,
	updated_at_ms BIGINT NOT NULL
);`

const columns = "id, username, email, age, gold_trophies, silver_trophies, bronze_trophies, created_at_ms, updated_at_ms"

// NewStore wraps db and creates the table if needed. driver is "sqlite" or
// "postgres" and selects the placeholder style.
func NewStore(ctx context.Context, db *sql.DB, driver string) (*Store, error) {
	s := &Store{db: db, postgres: driver == "postgres"}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("profiles migrate: %w", err)
	}
	return s, nil
}

// q rewrites $N placeholders to ? for SQLite.
func (s *Store) q(query string) string {
	if s.postgres {
		return query
	}
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] == '$' {
			j := i + 1
			for j < len(query) && query[j] >= '0' && query[j] <= '9' {
				j++
			}
			if j > i+1 {
				b.WriteByte('?')
				i = j - 1
				continue
			}
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Create inserts p unless a profile with the same id exists.
func (s *Store) Create(ctx context.Context, p Profile) error {
	res, err := s.db.ExecContext(ctx, s.q(`INSERT INTO player_profiles (`+columns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (id) DO NOTHING`),
		p.ID, p.Username, p.Email, p.Age, p.GoldTrophies, p.SilverTrophies, p.BronzeTrophies,
		p.CreatedAt.UnixMilli(), p.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	if n == 0 {
		return ErrExists
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (Profile, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+columns+` FROM player_profiles WHERE id = $1`), id)
	return scanProfile(row)
}

// Save overwrites every mutable column of an existing profile.
func (s *Store) Save(ctx context.Context, p Profile) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE player_profiles
		SET username = $1, email = $2, age = $3, gold_trophies = $4, silver_trophies = $5, bronze_trophies = $6, updated_at_ms = $7
		WHERE id = $8`),
		p.Username, p.Email, p.Age, p.GoldTrophies, p.SilverTrophies, p.BronzeTrophies, p.UpdatedAt.UnixMilli(), p.ID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func scanProfile(row *sql.Row) (Profile, error) {
	var p Profile
	var created, updated int64
	err := row.Scan(&p.ID, &p.Username, &p.Email, &p.Age, &p.GoldTrophies, &p.SilverTrophies, &p.BronzeTrophies, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("select profile: %w", err)
	}
	p.CreatedAt = time.UnixMilli(created).UTC()
	p.UpdatedAt = time.UnixMilli(updated).UTC()
	return p, nil
}
