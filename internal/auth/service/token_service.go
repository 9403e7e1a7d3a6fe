package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/auth/service TokenGenerator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	autherror "github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/errors"
	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/pkg/constant"
)

type TokenGenerator interface {
	IssueAccessToken(accountID int64, email, role string) (string, error)
	IssueRefreshToken(accountID int64, email, role string) (string, error)
	VerifyAccessToken(tokenString string) (*Claims, error)
	VerifyRefreshToken(tokenString string) (*Claims, error)
	RefreshTokenTTL() time.Duration
}

type Claims struct {
	jwt.RegisteredClaims
	AccountID int64  `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// TokenIssuer mints and verifies both token kinds. Access and refresh tokens
// are signed with separate secrets so a leaked access secret is not enough
// to mint refresh tokens. Stateless; construct once and share.
type TokenIssuer struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessMinutes, refreshDays int) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     time.Duration(accessMinutes) * time.Minute,
		refreshTTL:    time.Duration(refreshDays) * 24 * time.Hour,
	}
}

func (ti *TokenIssuer) IssueAccessToken(accountID int64, email, role string) (string, error) {
	return ti.issue(accountID, email, role, ti.accessTTL, ti.accessSecret)
}

func (ti *TokenIssuer) IssueRefreshToken(accountID int64, email, role string) (string, error) {
	return ti.issue(accountID, email, role, ti.refreshTTL, ti.refreshSecret)
}

func (ti *TokenIssuer) issue(accountID int64, email, role string, ttl time.Duration, secret string) (string, error) {
	if role == "" {
		role = constant.DefaultRole
	}

	now := time.Now()
	claims := Claims{
		AccountID: accountID,
		Email:     email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (ti *TokenIssuer) VerifyAccessToken(tokenString string) (*Claims, error) {
	return ti.verify(tokenString, ti.accessSecret)
}

func (ti *TokenIssuer) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return ti.verify(tokenString, ti.refreshSecret)
}

// verify reports every failure mode the same way; a caller learns "invalid",
// not whether the signature, expiry or shape was at fault.
func (ti *TokenIssuer) verify(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}

func (ti *TokenIssuer) AccessTokenTTL() time.Duration {
	return ti.accessTTL
}

func (ti *TokenIssuer) RefreshTokenTTL() time.Duration {
	return ti.refreshTTL
}
