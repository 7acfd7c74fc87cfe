package middleware

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpool/internal/auth"
	"github.com/mmynk/splitpool/pkg/api"
)

type contextKey string

// SubjectKey is the context key for storing the authenticated token subject.
const SubjectKey contextKey = "subject"

// GetSubject extracts the token subject from the context.
// Returns empty string if not found.
func GetSubject(ctx context.Context) string {
	subject, _ := ctx.Value(SubjectKey).(string)
	return subject
}

// groupOf returns the group a request targets, or "" for requests that do
// not target a single group.
func groupOf(req connect.AnyRequest) string {
	if scoped, ok := req.Any().(api.GroupScoped); ok {
		return scoped.GetGroupID()
	}
	return ""
}

// RequireAuth validates the bearer token of every call and stores its
// subject in the context. Tokens scoped to groups are refused with
// PermissionDenied for any other group and for calls without a group.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			header := req.Header().Get("Authorization")
			if header == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				slog.Warn("Rejected token", "procedure", req.Spec().Procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			if group := groupOf(req); !claims.Allows(group) {
				slog.Warn("Token out of scope",
					"procedure", req.Spec().Procedure,
					"subject", claims.Subject,
					"group_id", group,
				)
				return nil, connect.NewError(connect.CodePermissionDenied, auth.ErrOutOfScope)
			}

			return next(context.WithValue(ctx, SubjectKey, claims.Subject), req)
		}
	}
}
