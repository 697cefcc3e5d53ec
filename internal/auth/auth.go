// Package auth issues and verifies HS256 bearer tokens and threads the
// authenticated user id through request contexts.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	svcErr "github.com/oggyb/eventswipe/internal/errors"
)

type ctxKey struct{}

// Authenticator signs and checks tokens with a shared secret.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	public map[string]bool
}

// New builds an Authenticator. Methods listed in public skip authentication.
func New(secret string, ttl time.Duration, public ...string) *Authenticator {
	a := &Authenticator{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		public: make(map[string]bool, len(public)),
	}
	for _, m := range public {
		a.public[m] = true
	}
	return a
}

// IssueToken signs a token whose subject is userID.
func (a *Authenticator) IssueToken(userID string) (string, error) {
	if userID == "" {
		return "", svcErr.Validation("user id is required")
	}
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses the token and returns its subject.
func (a *Authenticator) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid or expired token: %w", svcErr.ErrUnauthenticated)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject: %w", svcErr.ErrUnauthenticated)
	}
	return claims.Subject, nil
}

// UnaryInterceptor rejects calls without a valid "authorization: Bearer"
// header and stores the subject on the context.
func (a *Authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if a.public[info.FullMethod] || strings.HasPrefix(info.FullMethod, "/grpc.health.v1.Health/") {
			return handler(ctx, req)
		}

		token, err := bearer(ctx)
		if err != nil {
			return nil, svcErr.Unauthenticated(err.Error())
		}
		userID, err := a.Verify(token)
		if err != nil {
			return nil, svcErr.Unauthenticated("invalid or expired token")
		}
		return handler(WithUserID(ctx, userID), req)
	}
}

func bearer(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", fmt.Errorf("authorization header required")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", fmt.Errorf("authorization header required")
	}
	parts := strings.SplitN(values[0], " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("invalid authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// WithUserID stores the authenticated user id on ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the authenticated user id, or ErrUnauthenticated.
func UserID(ctx context.Context) (string, error) {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return id, nil
	}
	return "", svcErr.ErrUnauthenticated
}

// BearerCredentials attaches a static token to every client call.
type BearerCredentials struct {
	Token    string
	Insecure bool
}

func (c BearerCredentials) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + c.Token}, nil
}

func (c BearerCredentials) RequireTransportSecurity() bool { return !c.Insecure }
