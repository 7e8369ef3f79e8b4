package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

type tenantKey struct{}

// ErrOrgIDNotFound means the request carries no organization. Every record
// is org-scoped, so handlers answer 401 rather than guess.
var ErrOrgIDNotFound = errors.New("org_id not found in context")

// OrgIDFromCtx returns the organization the request acts for. uuid.Nil is
// treated as absent.
func OrgIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	if orgID, ok := ctx.Value(tenantKey{}).(uuid.UUID); ok && orgID != uuid.Nil {
		return orgID, nil
	}
	return uuid.Nil, ErrOrgIDNotFound
}

// WithOrgID scopes ctx to orgID. Set by RequireAuth and StaticOrg.
func WithOrgID(ctx context.Context, orgID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantKey{}, orgID)
}

// LogAttrs tags log records with the acting org. Register it with
// logger.WithContextAttrs.
func LogAttrs(ctx context.Context) []slog.Attr {
	if orgID, err := OrgIDFromCtx(ctx); err == nil {
		return []slog.Attr{slog.String("org_id", orgID.String())}
	}
	return nil
}
