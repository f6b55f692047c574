package token

import (
	"errors"
	"fmt"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
)

// Kind tags a token as usable for API calls or only for minting new pairs.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"

	// KindAny skips the kind check in Verify.
	KindAny Kind = ""
)

// ErrInvalid is returned for every verification failure: bad signature,
// malformed input, expiry, or kind mismatch. Callers must not learn which.
var ErrInvalid = errors.New("invalid token")

// Claims is the decoded, verified payload of a token.
type Claims struct {
	Subject   string
	Kind      Kind
	ExpiresAt time.Time
}

// Pair holds the two tokens issued by every login-like flow.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type kindClaims struct {
	TokenType string `json:"token_type"`
}

// Codec signs and verifies expiring HS256 tokens with a process-wide secret.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option customizes a Codec.
type Option func(*Codec)

// WithClock overrides the time source, used by tests to simulate expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec constructs a codec with the given signing secret and lifetimes.
func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration, opts ...Option) *Codec {
	c := &Codec{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue signs a token for the subject with the kind's configured lifetime.
func (c *Codec) Issue(subject string, kind Kind) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: c.secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	now := c.now().UTC()
	std := gojwt.Claims{
		Subject:  subject,
		IssuedAt: gojwt.NewNumericDate(now),
		Expiry:   gojwt.NewNumericDate(now.Add(c.ttl(kind))),
	}
	custom := kindClaims{TokenType: string(kind)}

	raw, err := gojwt.Signed(signer).Claims(std).Claims(custom).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize token: %w", err)
	}
	return raw, nil
}

// IssuePair signs an access and a refresh token for the subject.
func (c *Codec) IssuePair(subject string) (Pair, error) {
	access, err := c.Issue(subject, KindAccess)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := c.Issue(subject, KindRefresh)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks signature, expiry, and (unless expected is KindAny) the token
// kind. Every failure collapses into ErrInvalid.
func (c *Codec) Verify(raw string, expected Kind) (*Claims, error) {
	parsed, err := gojwt.ParseSigned(raw, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return nil, ErrInvalid
	}

	var std gojwt.Claims
	var custom kindClaims
	if err := parsed.Claims(c.secret, &std, &custom); err != nil {
		return nil, ErrInvalid
	}

	if err := std.ValidateWithLeeway(gojwt.Expected{Time: c.now().UTC()}, 0); err != nil {
		return nil, ErrInvalid
	}
	if std.Subject == "" || std.Expiry == nil {
		return nil, ErrInvalid
	}
	if expected != KindAny && Kind(custom.TokenType) != expected {
		return nil, ErrInvalid
	}

	return &Claims{
		Subject:   std.Subject,
		Kind:      Kind(custom.TokenType),
		ExpiresAt: std.Expiry.Time(),
	}, nil
}

// RefreshTTL exposes the configured refresh lifetime, used as the ceiling
// for revocation entries when a presented token cannot be decoded.
func (c *Codec) RefreshTTL() time.Duration {
	return c.refreshTTL
}

func (c *Codec) ttl(kind Kind) time.Duration {
	if kind == KindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}
