package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	_ "github.com/mattn/go-sqlite3"

	"mergington/internal/model"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrActivityFull     = errors.New("activity is full")
	ErrAlreadySignedUp  = errors.New("student is already signed up")
	ErrNotRegistered    = errors.New("student is not signed up for this activity")
)

type Repository interface {
	GetAllActivities(ctx context.Context) ([]model.Activity, error)
	GetActivityByName(ctx context.Context, name string) (*model.Activity, error)
	GetParticipantEmails(ctx context.Context, activityID int64) ([]string, error)
	CountParticipants(ctx context.Context, activityID int64) (int, error)
	SignupTx(ctx context.Context, activityName, email string) (*model.Activity, error)
	UnregisterTx(ctx context.Context, activityName, email string) (*model.Activity, error)
	Seed(ctx context.Context) error
	Close() error
}

type repository struct {
	db  *sql.DB
	log *zerolog.Logger
}

// NewRepository opens the SQLite database at path and creates the schema
// if it does not exist yet. _txlock=immediate makes write transactions
// take the database lock up front, so the check-then-insert in SignupTx
// cannot interleave with a concurrent signup.
func NewRepository(path string, log *zerolog.Logger) (Repository, error) {
	dsn := fmt.Sprintf("file:%s?_fk=1&_txlock=immediate", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS activities (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			name             TEXT    NOT NULL UNIQUE,
			description      TEXT    NOT NULL,
			schedule         TEXT    NOT NULL,
			max_participants INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS participants (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			email       TEXT    NOT NULL,
			activity_id INTEGER NOT NULL REFERENCES activities(id)
		);
		CREATE INDEX IF NOT EXISTS idx_participants_activity ON participants(activity_id);
	`); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &repository{db: db, log: log}, nil
}

func (r *repository) Close() error {
	return r.db.Close()
}

// Seed inserts the fixed set of activities when the table is empty.
// Safe to run on every startup.
func (r *repository) Seed(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count); err != nil {
		return fmt.Errorf("count activities: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}

	for _, a := range initialActivities {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO activities (name, description, schedule, max_participants)
			VALUES (?, ?, ?, ?)
		`, a.Name, a.Description, a.Schedule, a.MaxParticipants); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	r.log.Info().Int("activities", len(initialActivities)).Msg("seeded initial activities")
	return nil
}

func (r *repository) GetAllActivities(ctx context.Context) ([]model.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, schedule, max_participants
		FROM activities
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}
	defer rows.Close()

	activities := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Schedule, &a.MaxParticipants); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}

	return activities, nil
}

func (r *repository) GetActivityByName(ctx context.Context, name string) (*model.Activity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, schedule, max_participants
		FROM activities
		WHERE name = ?
	`, name)

	var a model.Activity
	if err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Schedule, &a.MaxParticipants); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return &a, nil
}

// GetParticipantEmails returns the registered emails in signup order.
func (r *repository) GetParticipantEmails(ctx context.Context, activityID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT email FROM participants
		WHERE activity_id = ?
		ORDER BY id ASC
	`, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return emails, nil
}

func (r *repository) CountParticipants(ctx context.Context, activityID int64) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM participants WHERE activity_id = ?
	`, activityID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

// SignupTx registers email for the named activity. Lookup, duplicate
// check, capacity check and insert run in one transaction; two concurrent
// signups cannot both pass the capacity check.
func (r *repository) SignupTx(ctx context.Context, activityName, email string) (*model.Activity, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var a model.Activity
	err = tx.QueryRowContext(ctx, `
		SELECT id, name, description, schedule, max_participants
		FROM activities
		WHERE name = ?
	`, activityName).Scan(&a.ID, &a.Name, &a.Description, &a.Schedule, &a.MaxParticipants)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	var existing int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM participants
		WHERE activity_id = ? AND email = ?
	`, a.ID, email).Scan(&existing)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to check duplicate signup: %w", err)
	}
	if existing > 0 {
		_ = tx.Rollback()
		return nil, ErrAlreadySignedUp
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM participants WHERE activity_id = ?
	`, a.ID).Scan(&count)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}
	if count >= a.MaxParticipants {
		_ = tx.Rollback()
		return nil, ErrActivityFull
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO participants (email, activity_id) VALUES (?, ?)
	`, email, a.ID); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &a, nil
}

// UnregisterTx removes email from the named activity.
func (r *repository) UnregisterTx(ctx context.Context, activityName, email string) (*model.Activity, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var a model.Activity
	err = tx.QueryRowContext(ctx, `
		SELECT id, name, description, schedule, max_participants
		FROM activities
		WHERE name = ?
	`, activityName).Scan(&a.ID, &a.Name, &a.Description, &a.Schedule, &a.MaxParticipants)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM participants WHERE activity_id = ? AND email = ?
	`, a.ID, email)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to delete participant: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return nil, ErrNotRegistered
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &a, nil
}
