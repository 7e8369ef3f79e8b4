package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"

	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/config"
)

type recordingTransport struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (t *recordingTransport) Configure(sentry.ClientOptions)        {}
func (t *recordingTransport) Flush(time.Duration) bool              { return true }
func (t *recordingTransport) FlushWithContext(context.Context) bool { return true }
func (t *recordingTransport) Close()                                {}
func (t *recordingTransport) SendEvent(e *sentry.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
}

func TestSetupSentry_NoDSN(t *testing.T) {
	if err := SetupSentry(&config.Config{}); err != nil {
		t.Fatalf("expected no-op without DSN, got %v", err)
	}
}

func TestCaptureError_WithoutClientIsNoop(t *testing.T) {
	hub := sentry.NewHub(nil, sentry.NewScope())
	ctx := sentry.SetHubOnContext(context.Background(), hub)
	if id := CaptureError(ctx, errors.New("boom")); id != nil {
		t.Fatalf("expected no event id without a client, got %v", *id)
	}
	if id := CaptureError(ctx, nil); id != nil {
		t.Fatal("nil error must not be captured")
	}
}

func TestCaptureError_TagsOrg(t *testing.T) {
	transport := &recordingTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:       "https://public@sentry.example.com/1",
		Transport: transport,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	hub := sentry.NewHub(client, sentry.NewScope())

	orgID := uuid.New()
	ctx := auth.WithOrgID(sentry.SetHubOnContext(context.Background(), hub), orgID)

	if id := CaptureError(ctx, errors.New("stock ledger write failed")); id == nil {
		t.Fatal("expected an event id")
	}

	transport.mu.Lock()
	defer transport.mu.Unlock()
	if len(transport.events) != 1 {
		t.Fatalf("expected one event, got %d", len(transport.events))
	}
	if got := transport.events[0].Tags["org_id"]; got != orgID.String() {
		t.Fatalf("expected org_id tag %s, got %q", orgID, got)
	}
}
