package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // embedded SQLite driver

	"talenttrack/internal/candidate"
)

// Timestamps are stored as RFC3339 UTC text so both drivers handle them
// identically and ORDER BY created_at stays correct lexicographically.
const timeLayout = time.RFC3339

var (
	// ErrNotFound means no record carries the requested identifier.
	ErrNotFound = errors.New("candidate not found")
	// ErrDuplicate means a unique constraint (email or phone) refused
	// the write.
	ErrDuplicate = errors.New("duplicate email or phone")
)

type DB struct {
	connection *sql.DB
	driver     string
}

// Open connects to the record table. A postgres:// (or postgresql://)
// DSN selects the PostgreSQL driver; anything else is treated as a
// SQLite file path (or ":memory:").
func Open(dataSourceName string) (*DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(dataSourceName, "postgres://") || strings.HasPrefix(dataSourceName, "postgresql://") {
		driver = "postgres"
	}

	db, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	if driver == "postgres" {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	} else {
		// Single writer; also keeps :memory: databases on one
		// connection so every query sees the same schema.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &DB{connection: db, driver: driver}, nil
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		log.Println("Error closing the database connection:", err)
	}
}

// InitSchema creates the candidates table. Called explicitly at startup.
func (db *DB) InitSchema(ctx context.Context) error {
	_, err := db.connection.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS candidates (
			candidate_id   TEXT PRIMARY KEY,
			candidate_name TEXT NOT NULL,
			skills         TEXT,
			phone          TEXT UNIQUE NOT NULL,
			email          TEXT UNIQUE NOT NULL,
			location       TEXT,
			available_time TEXT,
			status         TEXT,
			notes          TEXT,
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		)`)
	return err
}

// rebind converts ?-style placeholders to $n for the postgres driver.
func (db *DB) rebind(query string) string {
	if db.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	// lib/pq: 23505 unique_violation. modernc.org/sqlite reports
	// "UNIQUE constraint failed: ..." in the error text.
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// Insert stores a new record. Returns ErrDuplicate when the email or
// phone uniqueness constraint refuses it.
func (db *DB) Insert(ctx context.Context, c *candidate.Candidate) error {
	query := db.rebind(`INSERT INTO candidates (
		candidate_id, candidate_name, skills, phone, email,
		location, available_time, status, notes, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := db.connection.ExecContext(ctx, query,
		c.ID, c.Name, c.Skills, c.Phone, c.Email,
		c.Location, c.AvailableTime, c.Status, c.Notes,
		c.CreatedAt.UTC().Format(timeLayout), c.UpdatedAt.UTC().Format(timeLayout),
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Update rewrites every mutable field of the record; candidate_id and
// created_at are never touched.
func (db *DB) Update(ctx context.Context, c *candidate.Candidate) error {
	query := db.rebind(`UPDATE candidates SET
		candidate_name = ?, skills = ?, phone = ?, email = ?,
		location = ?, available_time = ?, status = ?, notes = ?, updated_at = ?
		WHERE candidate_id = ?`)

	res, err := db.connection.ExecContext(ctx, query,
		c.Name, c.Skills, c.Phone, c.Email,
		c.Location, c.AvailableTime, c.Status, c.Notes,
		c.UpdatedAt.UTC().Format(timeLayout), c.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.connection.ExecContext(ctx,
		db.rebind(`DELETE FROM candidates WHERE candidate_id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

const selectColumns = `candidate_id, candidate_name, skills, phone, email,
	location, available_time, status, notes, created_at, updated_at`

func scanCandidate(row interface{ Scan(...interface{}) error }) (*candidate.Candidate, error) {
	c := &candidate.Candidate{}
	var createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.Name, &c.Skills, &c.Phone, &c.Email,
		&c.Location, &c.AvailableTime, &c.Status, &c.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if c.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if c.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return c, nil
}

func (db *DB) GetByID(ctx context.Context, id string) (*candidate.Candidate, error) {
	query := db.rebind(`SELECT ` + selectColumns + ` FROM candidates WHERE candidate_id = ?`)
	c, err := scanCandidate(db.connection.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// LatestMatch returns the most recently created record sharing the
// email or phone, or nil when none does.
func (db *DB) LatestMatch(ctx context.Context, email, phone string) (*candidate.Match, error) {
	query := db.rebind(`SELECT candidate_id, created_at
		FROM candidates
		WHERE email = ? OR phone = ?
		ORDER BY created_at DESC
		LIMIT 1`)

	var id, createdAt string
	err := db.connection.QueryRowContext(ctx, query, email, phone).Scan(&id, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &candidate.Match{ID: id, CreatedAt: created}, nil
}

// NameExists reports whether a record other than excludeID carries the
// same candidate name. Feeds the non-blocking duplicate-name warning.
func (db *DB) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	query := db.rebind(`SELECT EXISTS(
		SELECT 1 FROM candidates WHERE candidate_name = ? AND candidate_id <> ?)`)
	var exists bool
	err := db.connection.QueryRowContext(ctx, query, name, excludeID).Scan(&exists)
	return exists, err
}

// Criteria used to filter the candidate list. Empty fields match all.
type Criteria struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Skill    string `json:"skill"`
	Status   string `json:"status"`
}

// List returns candidates matching the criteria using case-insensitive
// substring matches, ordered by creation time (newest first).
func (db *DB) List(ctx context.Context, criteria *Criteria) ([]*candidate.Candidate, error) {
	base := `SELECT ` + selectColumns + ` FROM candidates`
	var where []string
	var args []interface{}

	if criteria == nil {
		criteria = &Criteria{}
	}

	if criteria.Name != "" {
		where = append(where, "LOWER(candidate_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(criteria.Name)+"%")
	}
	if criteria.Location != "" {
		where = append(where, "LOWER(location) LIKE ?")
		args = append(args, "%"+strings.ToLower(criteria.Location)+"%")
	}
	if criteria.Skill != "" {
		where = append(where, "LOWER(skills) LIKE ?")
		args = append(args, "%"+strings.ToLower(criteria.Skill)+"%")
	}
	if criteria.Status != "" {
		where = append(where, "status = ?")
		args = append(args, criteria.Status)
	}

	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}
	base += " ORDER BY created_at DESC"

	rows, err := db.connection.QueryContext(ctx, db.rebind(base), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*candidate.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}
