package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Validator checks signature, expiry and revocation of an access token
type Validator struct {
	tokens    *TokenManager
	blacklist Blacklist
}

// NewValidator creates a Validator; a nil blacklist disables revocation checks
func NewValidator(tokens *TokenManager, blacklist Blacklist) *Validator {
	if blacklist == nil {
		blacklist = NoopBlacklist{}
	}
	return &Validator{tokens: tokens, blacklist: blacklist}
}

// ValidateToken returns the user ID carried by a valid, unrevoked token
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (uuid.UUID, error) {
	claims, err := v.tokens.Parse(tokenString)
	if err != nil {
		return uuid.Nil, err
	}

	revoked, err := v.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if revoked {
		return uuid.Nil, ErrTokenRevoked
	}

	return UserIDFromClaims(claims)
}

// Revoke blacklists tokenString for the rest of its lifetime
func (v *Validator) Revoke(ctx context.Context, tokenString string) error {
	claims, err := v.tokens.Parse(tokenString)
	if err != nil {
		return err
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return v.blacklist.Revoke(ctx, claims.ID, ttl)
}

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
