package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/id"
)

const (
	stateAudience = "kakao-oauth-state"
	// DefaultStateTTL bounds the time between issuing the authorize link and the redirect.
	DefaultStateTTL = 10 * time.Minute
)

// StateService issues and verifies the opaque OAuth "state" parameter as an
// encrypted PASETO v4.local token, so the server stays stateless across the
// Kakao redirect.
type StateService struct {
	key paseto.V4SymmetricKey
	ttl time.Duration
	now func() time.Time
}

// NewStateService derives the state key from the server secret.
func NewStateService(secret []byte, ttl time.Duration) (*StateService, error) {
	raw, err := deriveKey(secret, "oauth-state")
	if err != nil {
		return nil, err
	}
	key, err := paseto.V4SymmetricKeyFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("create state key: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &StateService{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue returns a fresh state token.
func (s *StateService) Issue() (string, error) {
	nonce, err := id.Generate("st")
	if err != nil {
		return "", fmt.Errorf("generate state nonce: %w", err)
	}

	now := s.now()
	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(stateAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.ttl))
	token.SetString("nonce", nonce)

	return token.V4Encrypt(s.key, nil), nil
}

// Verify checks that state was issued by this server and has not expired.
func (s *StateService) Verify(state string) error {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ForAudience(stateAudience))
	parser.AddRule(paseto.ValidAt(s.now()))

	token, err := parser.ParseV4Local(s.key, state, nil)
	if err != nil {
		return fmt.Errorf("%w: state: %v", ErrInvalidToken, err)
	}

	if nonce, err := token.GetString("nonce"); err != nil || nonce == "" {
		return fmt.Errorf("%w: state nonce missing", ErrInvalidToken)
	}
	return nil
}
