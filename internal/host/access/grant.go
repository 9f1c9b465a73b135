package access

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	"github.com/PinoyQ8/trust-bazaar/internal/host"
	apperrors "github.com/PinoyQ8/trust-bazaar/internal/platform/errors"
)

type grantContextKey struct{}

// WithGrant attaches a signed call grant to the context. Hosts that front the
// core with a token-based boundary place the caller's grant here before
// invoking an operation.
func WithGrant(ctx context.Context, grant string) context.Context {
	return context.WithValue(ctx, grantContextKey{}, grant)
}

// grantFromContext extracts the call grant, if any.
func grantFromContext(ctx context.Context) string {
	grant, _ := ctx.Value(grantContextKey{}).(string)
	return grant
}

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer    string `env:"TRUST_BAZAAR_GRANT_ISSUER"`
	Audience  string `env:"TRUST_BAZAAR_GRANT_AUDIENCE"`
	PublicKey string `env:"TRUST_BAZAAR_GRANT_PUBLIC_KEY"`
}

// GrantConfig defines how call grants are verified.
type GrantConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// grantClaims is the internal claims type used for JWT parsing. The subject
// carries the principal the caller controls.
type grantClaims struct {
	jwt.RegisteredClaims
}

// LoadGrantConfigFromEnv reads call grant verification configuration.
func LoadGrantConfigFromEnv(now func() time.Time) (GrantConfig, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return GrantConfig{}, fmt.Errorf("parse grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return GrantConfig{}, fmt.Errorf("TRUST_BAZAAR_GRANT_ISSUER is required")
	}
	if audience == "" {
		return GrantConfig{}, fmt.Errorf("TRUST_BAZAAR_GRANT_AUDIENCE is required")
	}
	if publicKey == "" {
		return GrantConfig{}, fmt.Errorf("TRUST_BAZAAR_GRANT_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return GrantConfig{}, fmt.Errorf("decode grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return GrantConfig{}, fmt.Errorf("grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return GrantConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// Grants verifies EdDSA-signed call grants carried on the context. A grant
// authorizes exactly the principal named by its subject claim.
type Grants struct {
	cfg GrantConfig
}

// NewGrants creates a grant-based Access from verification configuration.
func NewGrants(cfg GrantConfig) (*Grants, error) {
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return nil, errors.New("grant verifier is not configured")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Grants{cfg: cfg}, nil
}

// Authorize implements host.Access by validating the context grant against
// the expected principal.
func (g *Grants) Authorize(ctx context.Context, p host.Principal) error {
	if g == nil {
		return apperrors.New(apperrors.CodeUnauthorized, "access is not configured")
	}
	grant := strings.TrimSpace(grantFromContext(ctx))
	if grant == "" {
		return apperrors.New(apperrors.CodeUnauthorized, "call grant is required")
	}

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return g.cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != g.cfg.Issuer {
		return apperrors.WithMetadata(apperrors.CodeUnauthorized, "call grant issuer mismatch", map[string]string{
			"Field": "issuer",
		})
	}
	if !audienceContains(parsed.Audience, g.cfg.Audience) {
		return apperrors.WithMetadata(apperrors.CodeUnauthorized, "call grant audience mismatch", map[string]string{
			"Field": "audience",
		})
	}
	if parsed.ExpiresAt == nil {
		return apperrors.New(apperrors.CodeUnauthorized, "call grant exp is required")
	}
	now := g.cfg.Now().UTC()
	if !parsed.ExpiresAt.Time.UTC().After(now) {
		return apperrors.New(apperrors.CodeUnauthorized, "call grant is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return apperrors.New(apperrors.CodeUnauthorized, "call grant not active yet")
	}

	subject := strings.TrimSpace(parsed.Subject)
	if subject == "" || host.Principal(subject) != p {
		return apperrors.WithMetadata(apperrors.CodeUnauthorized, "call grant principal mismatch", map[string]string{
			"Field": "subject",
		})
	}
	return nil
}

var _ host.Access = (*Grants)(nil)

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeUnauthorized, "call grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeUnauthorized, "call grant alg is invalid")
	}
	return apperrors.New(apperrors.CodeUnauthorized, "call grant is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
