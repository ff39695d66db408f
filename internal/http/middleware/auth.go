package middleware

import (
	"context"
	"net/http"
	"strings"

	"jobportal/internal/common"
	"jobportal/internal/domain/user"
	"jobportal/internal/http/response"
	"jobportal/internal/security"
)

type contextKey string

const (
	ContextUserIDKey contextKey = "user_id"
	ContextRoleKey   contextKey = "role"
)

type AuthMiddleware struct {
	jwt *security.JWTProvider
}

func NewAuthMiddleware(jwt *security.JWTProvider) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		identity, err := m.ParseToken(parts[1])
		if err != nil {
			response.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// Identity is the actor extracted from a validated bearer token. Core
// operations receive it explicitly; nothing reads ambient session state.
type Identity struct {
	UserID common.UUID
	Role   user.Role
}

// ParseToken validates a raw token. Exposed for the websocket handler,
// which receives the token as a query parameter instead of a header.
func (m *AuthMiddleware) ParseToken(token string) (Identity, error) {
	claims, err := m.jwt.Parse(token)
	if err != nil {
		return Identity{}, common.NewError(common.CodeUnauthorized, "invalid token", err)
	}
	userID, err := common.ParseUUID(claims.UserID)
	if err != nil {
		return Identity{}, common.NewError(common.CodeUnauthorized, "invalid user id", err)
	}
	role, ok := user.ParseRole(claims.Role)
	if !ok {
		return Identity{}, common.NewError(common.CodeUnauthorized, "invalid role", nil)
	}
	return Identity{UserID: userID, Role: role}, nil
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	ctx = context.WithValue(ctx, ContextUserIDKey, identity.UserID)
	return context.WithValue(ctx, ContextRoleKey, identity.Role)
}

func RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			activeRole, ok := r.Context().Value(ContextRoleKey).(user.Role)
			if !ok {
				response.Error(w, common.NewError(common.CodeForbidden, "role not found", nil))
				return
			}
			if activeRole != role {
				response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UserIDFromContext(ctx context.Context) (common.UUID, bool) {
	id, ok := ctx.Value(ContextUserIDKey).(common.UUID)
	return id, ok
}

func RoleFromContext(ctx context.Context) (user.Role, bool) {
	role, ok := ctx.Value(ContextRoleKey).(user.Role)
	return role, ok
}
