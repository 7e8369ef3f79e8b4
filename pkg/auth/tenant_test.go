package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestOrgIDFromCtx(t *testing.T) {
	orgID := uuid.New()
	tests := []struct {
		name    string
		ctx     context.Context
		want    uuid.UUID
		wantErr error
	}{
		{"set", WithOrgID(context.Background(), orgID), orgID, nil},
		{"missing", context.Background(), uuid.Nil, ErrOrgIDNotFound},
		{"nil uuid", WithOrgID(context.Background(), uuid.Nil), uuid.Nil, ErrOrgIDNotFound},
		{"wrong type under string key", context.WithValue(context.Background(), "org_id", orgID.String()), uuid.Nil, ErrOrgIDNotFound}, //nolint:staticcheck
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OrgIDFromCtx(tt.ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestWithOrgID_Overrides(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	ctx := WithOrgID(WithOrgID(context.Background(), first), second)

	got, err := OrgIDFromCtx(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != second {
		t.Fatalf("expected innermost org %v, got %v", second, got)
	}
}

func TestLogAttrs(t *testing.T) {
	if attrs := LogAttrs(context.Background()); attrs != nil {
		t.Fatalf("expected no attrs without an org, got %v", attrs)
	}
	orgID := uuid.New()
	attrs := LogAttrs(WithOrgID(context.Background(), orgID))
	if len(attrs) != 1 || attrs[0].Key != "org_id" || attrs[0].Value.String() != orgID.String() {
		t.Fatalf("unexpected attrs %v", attrs)
	}
}
