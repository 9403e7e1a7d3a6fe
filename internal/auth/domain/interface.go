package domain

//go:generate mockgen -destination=../../mocks/mock_account_repository.go -package=mocks github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/auth/domain AccountRepository

import (
	"context"
	"time"
)

type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
	Create(ctx context.Context, account *Account, passwordHash string) error
	GetCredential(ctx context.Context, accountID int64) (*Credential, error)

	// IncrementFailedAttempts bumps the failure counter and, when the new
	// count reaches threshold, sets locked_until = now + lockMinutes in the
	// same statement. Two concurrent failures must both count.
	IncrementFailedAttempts(ctx context.Context, accountID int64, threshold, lockMinutes int) (int, *time.Time, error)

	// ResetLoginState zeroes the failure counter, clears any lock and stamps
	// the last-login metadata in one atomic update.
	ResetLoginState(ctx context.Context, accountID int64, ip string, at time.Time) error

	CreateSession(ctx context.Context, session *Session) error

	// GetUsableSession returns the unrevoked session holding the given
	// refresh token, or nil when none exists. The caller still has to check
	// the expiry against the current time.
	GetUsableSession(ctx context.Context, token string) (*Session, error)

	// RevokeSession is idempotent; revoking an unknown or already-revoked
	// token is a no-op, not an error.
	RevokeSession(ctx context.Context, token string, at time.Time) error
	RevokeAccountSessions(ctx context.Context, accountID int64, at time.Time) error
	ListAccountSessions(ctx context.Context, accountID int64) ([]Session, error)

	RecordLoginAttempt(ctx context.Context, email, ip string, success bool) error
}
