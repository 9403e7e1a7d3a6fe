package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/config"
	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/auth/domain"
	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/auth/dto"
	autherror "github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/errors"
	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/pkg/constant"
)

// AuthService composes the credential store, lockout state, token issuer and
// session ledger into the public authentication operations.
type AuthService struct {
	repo   domain.AccountRepository
	tokens TokenGenerator
	cfg    *config.Config
	logger *zap.Logger
}

func NewAuthService(repo domain.AccountRepository, tokens TokenGenerator, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *AuthService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AccountSummary, error) {
	if input.Email == "" {
		return nil, autherror.NewValidation("email is required")
	}
	if len(input.Password) < 8 {
		return nil, autherror.NewValidation("password must be at least 8 characters")
	}

	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Email: input.Email,
		Name:  input.Name,
		Role:  constant.DefaultRole,
	}
	if err := s.repo.Create(ctx, account, string(hash)); err != nil {
		return nil, err
	}

	return accountSummary(account), nil
}

// Authenticate verifies a credential pair and, on success, issues an access
// and refresh token and opens a session. Every decision-step failure
// surfaces as the generic credentials error; only the lock state is
// reported distinctly.
func (s *AuthService) Authenticate(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	if input.Email == "" || input.Password == "" {
		return nil, autherror.NewValidation("email and password are required")
	}

	account, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("account lookup failed", zap.Error(err))
		return nil, autherror.ErrInvalidCredentials
	}
	if account == nil {
		// Identical to the wrong-password outcome; a probe must not learn
		// which emails exist.
		return nil, autherror.ErrInvalidCredentials
	}

	now := time.Now()
	if account.IsLocked(now) {
		// Fast reject: no credential fetch, no hash comparison.
		return nil, &autherror.AccountLockedError{RemainingMinutes: account.RemainingLockMinutes(now)}
	}

	cred, err := s.repo.GetCredential(ctx, account.ID)
	if err != nil {
		s.logger.Error("credential lookup failed", zap.Int64("account_id", account.ID), zap.Error(err))
		return nil, autherror.ErrInvalidCredentials
	}
	if cred == nil {
		// A missing credential row still counts toward the lockout, but it
		// is reported as the generic failure even when the increment crosses
		// the threshold; only a wrong password escalates to the locked
		// variant.
		s.recordFailure(ctx, account, input)
		return nil, autherror.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(input.Password)) != nil {
		return nil, s.registerFailure(ctx, account, input, now)
	}

	// Success. Counter reset, audit and session persistence are
	// bookkeeping: the tokens stay valid even if any of them fail.
	if err := s.repo.ResetLoginState(ctx, account.ID, input.IPAddress, now); err != nil {
		s.logger.Warn("failed to reset login state", zap.Int64("account_id", account.ID), zap.Error(err))
	}
	if err := s.repo.RecordLoginAttempt(ctx, input.Email, input.IPAddress, true); err != nil {
		s.logger.Warn("failed to record login audit", zap.Error(err))
	}

	accessToken, err := s.tokens.IssueAccessToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	session := &domain.Session{
		ID:               uuid.NewString(),
		AccountID:        account.ID,
		Token:            refreshToken,
		OriginIP:         input.IPAddress,
		ClientDescriptor: input.UserAgent,
		ExpiresAt:        now.Add(s.tokens.RefreshTokenTTL()),
		CreatedAt:        now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		// The access token alone is valid for its window; a dead ledger
		// must not turn a correct password into a failed login.
		s.logger.Warn("failed to persist session", zap.Int64("account_id", account.ID), zap.Error(err))
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Account:      *accountSummary(account),
	}, nil
}

// recordFailure writes the audit row and bumps the lockout counter. Both are
// best-effort; a store failure here must not change what the caller reports.
func (s *AuthService) recordFailure(ctx context.Context, account *domain.Account, input dto.LoginInput) (int, *time.Time) {
	if err := s.repo.RecordLoginAttempt(ctx, input.Email, input.IPAddress, false); err != nil {
		s.logger.Warn("failed to record login audit", zap.Error(err))
	}

	count, lockedUntil, err := s.repo.IncrementFailedAttempts(ctx, account.ID, s.cfg.LockoutThreshold, s.cfg.LockoutMinutes)
	if err != nil {
		s.logger.Error("failed to increment login failures", zap.Int64("account_id", account.ID), zap.Error(err))
		return 0, nil
	}
	return count, lockedUntil
}

// registerFailure handles a wrong password: the failure is recorded and, when
// the bump crosses the threshold, the caller is told it is now locked rather
// than merely wrong.
func (s *AuthService) registerFailure(ctx context.Context, account *domain.Account, input dto.LoginInput, now time.Time) error {
	count, lockedUntil := s.recordFailure(ctx, account, input)

	if count >= s.cfg.LockoutThreshold && domain.Locked(now, lockedUntil) {
		return &autherror.AccountLockedError{RemainingMinutes: domain.LockMinutesLeft(now, lockedUntil)}
	}

	return autherror.ErrInvalidCredentials
}

// Refresh mints a new access token against a live session. The refresh token
// itself is deliberately not rotated; it stays valid until logout or expiry.
func (s *AuthService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.RefreshResponse, error) {
	claims, err := s.tokens.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, autherror.ErrInvalidToken
	}

	session, err := s.repo.GetUsableSession(ctx, input.RefreshToken)
	if err != nil {
		s.logger.Error("session lookup failed", zap.Error(err))
		return nil, autherror.ErrSessionNotFound
	}
	if session == nil {
		return nil, autherror.ErrSessionNotFound
	}

	now := time.Now()
	if !session.Usable(now) {
		// Lazy expiry: the first refresh past the deadline converts the
		// session to revoked.
		if err := s.repo.RevokeSession(ctx, session.Token, now); err != nil {
			s.logger.Warn("failed to revoke expired session", zap.String("session_id", session.ID), zap.Error(err))
		}
		return nil, autherror.ErrSessionExpired
	}

	account, err := s.repo.GetByID(ctx, claims.AccountID)
	if err != nil {
		s.logger.Error("account lookup failed", zap.Int64("account_id", claims.AccountID), zap.Error(err))
		return nil, autherror.ErrInvalidToken
	}
	if account == nil {
		// Account deleted after the token was issued.
		return nil, autherror.ErrInvalidToken
	}

	accessToken, err := s.tokens.IssueAccessToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &dto.RefreshResponse{AccessToken: accessToken}, nil
}

// Revoke ends the session behind a refresh token. Logout never fails loudly:
// unknown and already-revoked tokens are a no-op.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	if err := s.repo.RevokeSession(ctx, refreshToken, time.Now()); err != nil {
		s.logger.Warn("failed to revoke session", zap.Error(err))
	}
	return nil
}

func (s *AuthService) AccountSessions(ctx context.Context, accountID int64) ([]dto.SessionOutput, error) {
	sessions, err := s.repo.ListAccountSessions(ctx, accountID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, dto.SessionOutput{
			ID:               sess.ID,
			OriginIP:         sess.OriginIP,
			ClientDescriptor: sess.ClientDescriptor,
			CreatedAt:        sess.CreatedAt,
			ExpiresAt:        sess.ExpiresAt,
			RevokedAt:        sess.RevokedAt,
		})
	}
	return out, nil
}

// ForceLogout revokes every usable session an account holds. Idempotent.
func (s *AuthService) ForceLogout(ctx context.Context, accountID int64) error {
	return s.repo.RevokeAccountSessions(ctx, accountID, time.Now())
}

func accountSummary(a *domain.Account) *dto.AccountSummary {
	return &dto.AccountSummary{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Role:  a.Role,
	}
}
