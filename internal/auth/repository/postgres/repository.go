package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/auth/domain"
)

// DBTX is the subset of pgxpool.Pool the repository needs. pgxmock stands in
// for it in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db DBTX
}

func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

const accountColumns = `id, email, name, role, failed_login_attempts, locked_until,
		       last_login_ip, last_login_at, created_at, updated_at`

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1
		LIMIT 1;
	`

	account, err := r.scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return account, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
		LIMIT 1;
	`

	account, err := r.scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}
	return account, nil
}

func (r *Repository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Role, &a.FailedLoginAttempts,
		&a.LockedUntil, &a.LastLoginIP, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts the account and its credential in one statement; either
// both rows land or neither does.
func (r *Repository) Create(ctx context.Context, account *domain.Account, passwordHash string) error {
	query := `
		WITH new_account AS (
			INSERT INTO accounts (email, name, role, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
			RETURNING id
		)
		INSERT INTO credentials (account_id, password_hash, updated_at)
		SELECT id, $4, now() FROM new_account
		RETURNING account_id;
	`

	err := r.db.QueryRow(ctx, query, account.Email, account.Name, account.Role, passwordHash).
		Scan(&account.ID)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *Repository) GetCredential(ctx context.Context, accountID int64) (*domain.Credential, error) {
	query := `
		SELECT account_id, password_hash, updated_at
		FROM credentials
		WHERE account_id = $1;
	`

	var c domain.Credential
	err := r.db.QueryRow(ctx, query, accountID).Scan(&c.AccountID, &c.PasswordHash, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return &c, nil
}

// IncrementFailedAttempts bumps the counter and decides the lock in a single
// UPDATE so that concurrent failures cannot under-count toward the threshold.
func (r *Repository) IncrementFailedAttempts(ctx context.Context, accountID int64, threshold, lockMinutes int) (int, *time.Time, error) {
	query := `
		UPDATE accounts
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE
		        WHEN failed_login_attempts + 1 >= $2 THEN now() + make_interval(mins => $3)
		        ELSE locked_until
		    END,
		    updated_at = now()
		WHERE id = $1
		RETURNING failed_login_attempts, locked_until;
	`

	var count int
	var lockedUntil *time.Time
	err := r.db.QueryRow(ctx, query, accountID, threshold, lockMinutes).Scan(&count, &lockedUntil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to increment login failures: %w", err)
	}
	return count, lockedUntil, nil
}

func (r *Repository) ResetLoginState(ctx context.Context, accountID int64, ip string, at time.Time) error {
	query := `
		UPDATE accounts
		SET failed_login_attempts = 0,
		    locked_until = NULL,
		    last_login_ip = $2,
		    last_login_at = $3,
		    updated_at = now()
		WHERE id = $1;
	`

	if _, err := r.db.Exec(ctx, query, accountID, ip, at); err != nil {
		return fmt.Errorf("failed to reset login state: %w", err)
	}
	return nil
}

func (r *Repository) CreateSession(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (id, account_id, token, origin_ip, client_descriptor, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	_, err := r.db.Exec(ctx, query,
		s.ID, s.AccountID, s.Token, s.OriginIP, s.ClientDescriptor, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

const sessionColumns = `id, account_id, token, COALESCE(origin_ip, ''), COALESCE(client_descriptor, ''),
		       expires_at, revoked_at, created_at`

func (r *Repository) GetUsableSession(ctx context.Context, token string) (*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE token = $1 AND revoked_at IS NULL
		LIMIT 1;
	`

	var s domain.Session
	err := r.db.QueryRow(ctx, query, token).Scan(&s.ID, &s.AccountID, &s.Token,
		&s.OriginIP, &s.ClientDescriptor, &s.ExpiresAt, &s.RevokedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// RevokeSession marks the session revoked if it is not already. Zero rows
// touched is fine: revocation is idempotent and unknown tokens are a no-op.
func (r *Repository) RevokeSession(ctx context.Context, token string, at time.Time) error {
	query := `
		UPDATE sessions
		SET revoked_at = $2
		WHERE token = $1 AND revoked_at IS NULL;
	`

	if _, err := r.db.Exec(ctx, query, token, at); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (r *Repository) RevokeAccountSessions(ctx context.Context, accountID int64, at time.Time) error {
	query := `
		UPDATE sessions
		SET revoked_at = $2
		WHERE account_id = $1 AND revoked_at IS NULL;
	`

	if _, err := r.db.Exec(ctx, query, accountID, at); err != nil {
		return fmt.Errorf("failed to revoke account sessions: %w", err)
	}
	return nil
}

func (r *Repository) ListAccountSessions(ctx context.Context, accountID int64) ([]domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE account_id = $1
		ORDER BY created_at DESC;
	`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.ID, &s.AccountID, &s.Token, &s.OriginIP,
			&s.ClientDescriptor, &s.ExpiresAt, &s.RevokedAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}

	return sessions, nil
}

func (r *Repository) RecordLoginAttempt(ctx context.Context, email, ip string, success bool) error {
	query := `
		INSERT INTO login_audit (id, email, origin_ip, succeeded, attempted_at)
		VALUES (gen_random_uuid(), $1, $2, $3, now());
	`

	if _, err := r.db.Exec(ctx, query, email, ip, success); err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}
	return nil
}
