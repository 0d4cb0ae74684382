package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id INTEGER PRIMARY KEY,
	username TEXT NOT NULL DEFAULT '',
	current_mode TEXT NOT NULL DEFAULT 'subscription',
	trial_used INTEGER NOT NULL DEFAULT 0,
	has_paid INTEGER NOT NULL DEFAULT 0,
	subscription_end TEXT,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS payments (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	amount INTEGER NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TEXT NOT NULL
);
`

// SQLiteStore persists user records and payments in a local SQLite file.
// database/sql serializes access, and SQLite commits each statement, so
// the synchronous-commit contract of UserStore holds.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID int64) (UserRecord, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, current_mode, trial_used, has_paid, subscription_end, created_at
		 FROM users WHERE user_id = ?`, userID)
	rec, err := scanUser(row)
	if err == sql.ErrNoRows {
		return UserRecord{}, false, nil
	}
	if err != nil {
		return UserRecord{}, false, fmt.Errorf("get user: %w", err)
	}
	return rec, true, nil
}

func scanUser(row *sql.Row) (UserRecord, error) {
	var (
		rec       UserRecord
		mode      string
		trial     int
		paid      int
		end       sql.NullString
		createdAt string
	)
	if err := row.Scan(&rec.ID, &rec.Username, &mode, &trial, &paid, &end, &createdAt); err != nil {
		return UserRecord{}, err
	}
	rec.Mode = Mode(mode)
	rec.TrialUsed = trial != 0
	rec.HasPaid = paid != 0
	if end.Valid {
		t, err := time.Parse(time.RFC3339, end.String)
		if err != nil {
			return UserRecord{}, fmt.Errorf("parse subscription_end: %w", err)
		}
		rec.SubscriptionEnd = &t
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return UserRecord{}, fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = t
	return rec, nil
}

func (s *SQLiteStore) Create(ctx context.Context, userID int64, username string) (UserRecord, error) {
	rec := UserRecord{
		ID:        userID,
		Username:  username,
		Mode:      ModeSubscription,
		CreatedAt: s.now(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO users (user_id, username, current_mode, trial_used, has_paid, subscription_end, created_at)
		 VALUES (?, ?, ?, 0, 0, NULL, ?)`,
		userID, username, string(rec.Mode), rec.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) GrantTrial(ctx context.Context, userID int64, days int) (bool, error) {
	end := s.now().Add(time.Duration(days) * 24 * time.Hour)
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET trial_used = 1, subscription_end = ?
		 WHERE user_id = ? AND trial_used = 0`,
		end.Format(time.RFC3339), userID)
	if err != nil {
		return false, fmt.Errorf("grant trial: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("grant trial: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) GrantPaid(ctx context.Context, userID int64, days int) (bool, error) {
	end := s.now().Add(time.Duration(days) * 24 * time.Hour)
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET has_paid = 1, subscription_end = ? WHERE user_id = ?`,
		end.Format(time.RFC3339), userID)
	if err != nil {
		return false, fmt.Errorf("grant paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("grant paid: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Status(ctx context.Context, userID int64) (Status, error) {
	rec, ok, err := s.Get(ctx, userID)
	if err != nil {
		return Status{}, err
	}
	if !ok {
		return Status{Kind: KindNone}, nil
	}
	return computeStatus(rec, s.now()), nil
}

func (s *SQLiteStore) SetMode(ctx context.Context, userID int64, username string, mode Mode) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, username, current_mode, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET username = excluded.username, current_mode = excluded.current_mode`,
		userID, username, string(mode), s.now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set mode: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddPayment(ctx context.Context, userID int64, amount int, description string) (PaymentRecord, error) {
	p := PaymentRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Status:      PaymentStatusPending,
		CreatedAt:   s.now(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, user_id, amount, description, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Amount, p.Description, p.Status, p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return PaymentRecord{}, fmt.Errorf("add payment: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) Payments(ctx context.Context, userID int64) ([]PaymentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, amount, description, status, created_at
		 FROM payments WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var out []PaymentRecord
	for rows.Next() {
		var (
			p         PaymentRecord
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Description, &p.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		p.CreatedAt = t
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
