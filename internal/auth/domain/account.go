package domain

import (
	"math"
	"time"
)

type Account struct {
	ID                  int64
	Email               string
	Name                string
	Role                string
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginIP         *string
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Credential is the one-to-one password record for an account. It is looked
// up separately from the account so that its absence can be treated as a
// plain authentication failure.
type Credential struct {
	AccountID    int64
	PasswordHash string
	UpdatedAt    time.Time
}

// Locked reports whether a lock deadline is still in the future. The
// transition back to open is passive: once the deadline has elapsed the
// account is treated as open on the next attempt, no sweep required.
func Locked(now time.Time, lockedUntil *time.Time) bool {
	return lockedUntil != nil && now.Before(*lockedUntil)
}

// LockMinutesLeft is the remaining lock time rounded up to whole minutes.
// Zero when the account is not locked.
func LockMinutesLeft(now time.Time, lockedUntil *time.Time) int {
	if !Locked(now, lockedUntil) {
		return 0
	}
	return int(math.Ceil(lockedUntil.Sub(now).Minutes()))
}

func (a *Account) IsLocked(now time.Time) bool {
	return Locked(now, a.LockedUntil)
}

func (a *Account) RemainingLockMinutes(now time.Time) int {
	return LockMinutesLeft(now, a.LockedUntil)
}
