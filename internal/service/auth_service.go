package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ebatarlar/personal-finance/internal/domain"
	pw "github.com/ebatarlar/personal-finance/internal/password"
	"github.com/ebatarlar/personal-finance/internal/repository"
	"github.com/ebatarlar/personal-finance/internal/revocation"
	"github.com/ebatarlar/personal-finance/internal/token"
)

const minPasswordLength = 8

// RegisterOutcome distinguishes a created user from the "already registered"
// case, which is a sentinel rather than an error so callers can offer a
// "log in instead" path.
type RegisterOutcome struct {
	User          domain.User
	AlreadyExists bool
}

// AuthService orchestrates registration, login, OAuth linking, logout, and
// token refresh.
type AuthService struct {
	users   repository.UserRepository
	codec   *token.Codec
	revoked revocation.Registry
	newID   func() string
	logger  *zap.Logger
	tracer  trace.Tracer
}

// NewAuthService wires dependencies.
func NewAuthService(users repository.UserRepository, codec *token.Codec, revoked revocation.Registry, newID func() string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:   users,
		codec:   codec,
		revoked: revoked,
		newID:   newID,
		logger:  logger,
		tracer:  otel.Tracer("github.com/ebatarlar/personal-finance/internal/service"),
	}
}

// Register creates a user from the candidate. The candidate must carry a
// password of at least eight characters or an OAuth binding; a user with
// neither credential would be unable to ever log in.
func (s *AuthService) Register(ctx context.Context, candidate domain.NewUser) (RegisterOutcome, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Register")
	defer span.End()

	email := normalizeEmail(candidate.Email)
	if email == "" {
		return RegisterOutcome{}, domain.NewError(domain.KindValidation, "email is required")
	}
	if strings.TrimSpace(candidate.Name) == "" || strings.TrimSpace(candidate.Surname) == "" {
		return RegisterOutcome{}, domain.NewError(domain.KindValidation, "name and surname are required")
	}
	if candidate.OAuthInfo != nil && !candidate.OAuthInfo.Provider.Valid() {
		return RegisterOutcome{}, domain.NewError(domain.KindValidation, "unsupported oauth provider")
	}
	if candidate.Password == "" && candidate.OAuthInfo == nil {
		return RegisterOutcome{}, domain.NewError(domain.KindValidation, "either password or oauth info must be provided")
	}
	if candidate.Password != "" && len(candidate.Password) < minPasswordLength {
		return RegisterOutcome{}, domain.NewError(domain.KindValidation, "password must be at least 8 characters long")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		s.audit("register.exists", "email", email)
		return RegisterOutcome{AlreadyExists: true}, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		span.RecordError(err)
		return RegisterOutcome{}, fmt.Errorf("check existing user: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:        s.newID(),
		Email:     email,
		Name:      strings.TrimSpace(candidate.Name),
		Surname:   strings.TrimSpace(candidate.Surname),
		OAuthInfo: candidate.OAuthInfo,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if candidate.Password != "" {
		hashed, err := pw.Hash(candidate.Password)
		if err != nil {
			span.RecordError(err)
			return RegisterOutcome{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hashed
	}

	created, err := s.users.Insert(ctx, user)
	if err != nil {
		span.RecordError(err)
		return RegisterOutcome{}, fmt.Errorf("create user: %w", err)
	}

	s.audit("register.success", "user_id", created.ID)
	return RegisterOutcome{User: created}, nil
}

// Login authenticates by email and password and issues a token pair. The
// returned error is identical for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (token.Pair, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		span.RecordError(err)
		return token.Pair{}, domain.ErrInvalidCredentials
	}

	valid, err := pw.Verify(password, user.PasswordHash)
	if err != nil || !valid {
		return token.Pair{}, domain.ErrInvalidCredentials
	}

	pair, err := s.codec.IssuePair(user.ID)
	if err != nil {
		span.RecordError(err)
		return token.Pair{}, fmt.Errorf("issue tokens: %w", err)
	}

	s.audit("login.success", "user_id", user.ID)
	return pair, nil
}

// OAuthLogin handles the post-redirect flow. Lookup precedence matters: the
// exact provider binding wins, then a user with the same email gains the
// binding (account linking), and only then is a fresh account created. The
// email check before create is what keeps a password-registered user from
// ending up with a second account.
func (s *AuthService) OAuthLogin(ctx context.Context, info domain.OAuthInfo, candidate domain.NewUser) (token.Pair, error) {
	ctx, span := s.startSpan(ctx, "AuthService.OAuthLogin")
	defer span.End()

	if !info.Provider.Valid() || strings.TrimSpace(info.ProviderUserID) == "" {
		return token.Pair{}, domain.NewError(domain.KindValidation, "provider and provider_user_id are required")
	}

	user, err := s.users.FindByOAuth(ctx, info.Provider, info.ProviderUserID)
	if err == nil {
		s.audit("oauth.login.success", "user_id", user.ID, "provider", info.Provider)
		return s.codec.IssuePair(user.ID)
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		span.RecordError(err)
		return token.Pair{}, fmt.Errorf("lookup oauth binding: %w", err)
	}

	existing, err := s.users.FindByEmail(ctx, normalizeEmail(candidate.Email))
	if err == nil {
		linked, err := s.users.UpdateFields(ctx, existing.ID, map[string]any{"oauth_info": info})
		if err != nil {
			span.RecordError(err)
			return token.Pair{}, fmt.Errorf("link oauth binding: %w", err)
		}
		s.audit("oauth.link.success", "user_id", linked.ID, "provider", info.Provider)
		return s.codec.IssuePair(linked.ID)
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		span.RecordError(err)
		return token.Pair{}, fmt.Errorf("lookup user by email: %w", err)
	}

	candidate.OAuthInfo = &info
	outcome, err := s.Register(ctx, candidate)
	if err != nil {
		return token.Pair{}, err
	}
	if outcome.AlreadyExists {
		// Lost a race with a concurrent registration for the same email.
		existing, err := s.users.FindByEmail(ctx, normalizeEmail(candidate.Email))
		if err != nil {
			span.RecordError(err)
			return token.Pair{}, fmt.Errorf("load user after register race: %w", err)
		}
		return s.codec.IssuePair(existing.ID)
	}

	s.audit("oauth.signup.success", "user_id", outcome.User.ID, "provider", info.Provider)
	return s.codec.IssuePair(outcome.User.ID)
}

// Logout revokes the presented token. It is best-effort and idempotent:
// expired, malformed, or already-revoked tokens all report success.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	ctx, span := s.startSpan(ctx, "AuthService.Logout")
	defer span.End()

	if strings.TrimSpace(raw) == "" {
		return nil
	}

	ttl := s.codec.RefreshTTL()
	if claims, err := s.codec.Verify(raw, token.KindAny); err == nil {
		ttl = time.Until(claims.ExpiresAt)
	}
	if err := s.revoked.Revoke(ctx, raw, ttl); err != nil {
		span.RecordError(err)
		s.log().Warn("revoke on logout failed", zap.Error(err))
	}
	return nil
}

// Refresh verifies a refresh token and mints a new pair for its subject. The
// presented token stays valid until expiry; there is no rotation-on-use.
func (s *AuthService) Refresh(ctx context.Context, raw string) (token.Pair, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Refresh")
	defer span.End()

	claims, err := s.codec.Verify(raw, token.KindRefresh)
	if err != nil {
		return token.Pair{}, domain.ErrInvalidToken
	}

	revoked, err := s.revoked.IsRevoked(ctx, raw)
	if err != nil {
		span.RecordError(err)
		return token.Pair{}, domain.Wrap(domain.KindPersistence, "check revocation", err)
	}
	if revoked {
		return token.Pair{}, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return token.Pair{}, domain.ErrUserNotFound
		}
		span.RecordError(err)
		return token.Pair{}, fmt.Errorf("load refresh subject: %w", err)
	}

	pair, err := s.codec.IssuePair(user.ID)
	if err != nil {
		span.RecordError(err)
		return token.Pair{}, fmt.Errorf("issue tokens: %w", err)
	}

	s.audit("refresh.success", "user_id", user.ID)
	return pair, nil
}

// ValidateAccess verifies a bearer token for the HTTP auth middleware.
func (s *AuthService) ValidateAccess(_ context.Context, raw string) (*token.Claims, error) {
	claims, err := s.codec.Verify(raw, token.KindAccess)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// SendVerificationEmail issues a verification token and logs the would-be
// link. Actual delivery is not implemented.
func (s *AuthService) SendVerificationEmail(ctx context.Context, userID string) error {
	ctx, span := s.startSpan(ctx, "AuthService.SendVerificationEmail")
	defer span.End()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	verification, err := s.codec.Issue(user.ID, token.KindAccess)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("issue verification token: %w", err)
	}

	s.log().Info("verification email requested",
		zap.String("user_id", user.ID),
		zap.String("link", "/api/auth/verify-email?token="+verification))
	return nil
}

// VerifyEmail validates a verification token and marks the address verified.
func (s *AuthService) VerifyEmail(ctx context.Context, raw string) error {
	ctx, span := s.startSpan(ctx, "AuthService.VerifyEmail")
	defer span.End()

	claims, err := s.codec.Verify(raw, token.KindAccess)
	if err != nil {
		return domain.ErrInvalidToken
	}

	if _, err := s.users.UpdateFields(ctx, claims.Subject, map[string]any{"email_verified": true}); err != nil {
		span.RecordError(err)
		return err
	}

	s.audit("email.verified", "user_id", claims.Subject)
	return nil
}

// SendPasswordResetEmail issues a reset token and logs the would-be link. It
// always reports success so callers cannot probe which emails are registered.
func (s *AuthService) SendPasswordResetEmail(ctx context.Context, email string) error {
	ctx, span := s.startSpan(ctx, "AuthService.SendPasswordResetEmail")
	defer span.End()

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil
	}

	reset, err := s.codec.Issue(user.ID, token.KindAccess)
	if err != nil {
		span.RecordError(err)
		return nil
	}

	s.log().Info("password reset requested",
		zap.String("user_id", user.ID),
		zap.String("link", "/api/auth/reset-password?token="+reset))
	return nil
}

// ResetPassword applies a new password hash for the token's subject.
func (s *AuthService) ResetPassword(ctx context.Context, raw, newPassword string) error {
	ctx, span := s.startSpan(ctx, "AuthService.ResetPassword")
	defer span.End()

	claims, err := s.codec.Verify(raw, token.KindAccess)
	if err != nil {
		return domain.ErrInvalidToken
	}
	if len(newPassword) < minPasswordLength {
		return domain.NewError(domain.KindValidation, "password must be at least 8 characters long")
	}

	hashed, err := pw.Hash(newPassword)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.users.UpdateFields(ctx, claims.Subject, map[string]any{"hashed_password": hashed}); err != nil {
		span.RecordError(err)
		return err
	}

	s.audit("password.reset", "user_id", claims.Subject)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *AuthService) audit(event string, attrs ...any) {
	logger := s.log()
	if logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}

func (s *AuthService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}
