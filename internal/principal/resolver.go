package principal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gazette-news/gazette/internal/authz"
	"github.com/gazette-news/gazette/internal/shared"
	"github.com/gazette-news/gazette/internal/token"
)

// Resolver turns an incoming request into a principal or anonymous. A nil
// principal with a nil error is a normal anonymous outcome; a non-nil
// error is an internal failure (unreachable store), never a bad credential.
type Resolver interface {
	Resolve(r *http.Request) (*Principal, error)
}

// TokenDecoder is the slice of the token service the bearer path needs.
type TokenDecoder interface {
	Decode(tokenString string, kind token.Kind) (*token.Claims, error)
}

// UserRecord is the directory's answer: the minimal slice of an account
// the resolver needs to build a principal.
type UserRecord struct {
	ID          string
	Nickname    string
	DisplayName string
	Role        authz.Role
}

// Directory is the user-lookup collaborator for the session path. The
// user store adapts itself onto this shape rather than the resolver
// depending on the store's own domain type.
type Directory interface {
	FindByID(ctx context.Context, id string) (*UserRecord, error)
}

// BearerResolver resolves API requests from the Authorization header.
//
// An absent or malformed header is not a failure: the request proceeds
// anonymously so public routes are unaffected by a garbled or expired
// token. The decode failure kind is logged and never surfaced.
type BearerResolver struct {
	Tokens TokenDecoder
	Logger *slog.Logger
}

// Resolve implements Resolver.
func (br *BearerResolver) Resolve(r *http.Request) (*Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		br.Logger.Debug("malformed authorization header", slog.String("path", r.URL.Path))
		return nil, nil
	}

	claims, err := br.Tokens.Decode(parts[1], token.KindAccess)
	if err != nil {
		br.Logger.Info("bearer token rejected", slog.String("reason", err.Error()), slog.String("path", r.URL.Path))
		return nil, nil
	}

	role, err := claims.Role()
	if err != nil {
		br.Logger.Warn("bearer token carried unknown role", slog.String("role", claims.RoleName))
		return nil, nil
	}

	return &Principal{
		UserID:      claims.UserID,
		Role:        role,
		Permissions: authz.PermissionsFor(role),
		TokenExpiry: claims.ExpiresAt.Time,
	}, nil
}

// SessionResolver resolves web requests from the server-side session.
//
// States: no cookie, cookie present but unresolvable (unknown session,
// empty or unknown user id), cookie resolved. The first two yield
// anonymous; the third builds a principal carrying the full permission set
// and display fields. A store failure is an internal error, distinct from
// not-found.
//
// The session itself is loaded into context by the session middleware; the
// resolver only interprets it. A missing session here means the pipeline
// was composed without that middleware, which is a wiring bug, not an
// anonymous request.
type SessionResolver struct {
	Users  Directory
	Logger *slog.Logger
}

// Resolve implements Resolver.
func (sr *SessionResolver) Resolve(r *http.Request) (*Principal, error) {
	ctx := r.Context()

	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return nil, errors.New("principal: session middleware missing from pipeline")
	}

	userID := strings.TrimSpace(sess.User())
	if userID == "" {
		return nil, nil
	}

	user, err := sr.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			sr.Logger.Info("session references unknown user", slog.String("user_id", userID))
			return nil, nil
		}
		return nil, err
	}

	return &Principal{
		UserID:      user.ID,
		Role:        user.Role,
		Permissions: authz.PermissionsFor(user.Role),
		Nickname:    user.Nickname,
		DisplayName: user.DisplayName,
	}, nil
}
