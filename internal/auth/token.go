package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session tokens are HS256 JWTs per RFC 7519. The algorithm is pinned: a
// token claiming anything but HS256 is rejected outright to close the
// algorithm-confusion class of attacks.
const tokenAlgorithm = "HS256"

type tokenHeader struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// Claims is the session token payload.
type Claims struct {
	UserID    string `json:"sub"`
	Email     string `json:"email,omitempty"`
	Admin     bool   `json:"adm,omitempty"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
}

// TokenIssuer signs and verifies session tokens. The signing key lives in
// memory only and should be at least 32 bytes.
type TokenIssuer struct {
	signingKey []byte
	ttl        time.Duration
}

// NewTokenIssuer creates a token issuer with the given key and token
// lifetime.
func NewTokenIssuer(signingKey []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{signingKey: signingKey, ttl: ttl}, nil
}

// Issue creates a signed session token for the user.
func (t *TokenIssuer) Issue(user *User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:    user.ID.String(),
		Email:     user.Email,
		Admin:     user.IsAdmin,
		ExpiresAt: now.Add(t.ttl).Unix(),
		IssuedAt:  now.Unix(),
	}

	headerJSON, err := json.Marshal(tokenHeader{Type: "JWT", Algorithm: tokenAlgorithm})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal token claims: %w", err)
	}

	payload := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return payload + "." + t.sign(payload), nil
}

// Verify validates a session token and resolves the caller's identity.
func (t *TokenIssuer) Verify(token string) (*Identity, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	// Signature first, constant-time, before trusting any decoded content.
	payload := parts[0] + "." + parts[1]
	expected := t.sign(payload)
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) != 1 {
		return nil, ErrInvalidSignature
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return nil, ErrInvalidToken
	}
	var header tokenHeader
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, ErrInvalidToken
	}
	if header.Algorithm != tokenAlgorithm {
		return nil, ErrInvalidToken
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}
	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	if claims.ExpiresAt > 0 && time.Now().Unix() > claims.ExpiresAt {
		return nil, ErrExpiredToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:  userID,
		Email:   claims.Email,
		IsAdmin: claims.Admin,
	}, nil
}

func (t *TokenIssuer) sign(payload string) string {
	h := hmac.New(sha256.New, t.signingKey)
	h.Write([]byte(payload))
	return base64URLEncode(h.Sum(nil))
}

// base64URLEncode encodes without padding as required by RFC 7515.
func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
