package events

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type samplePayload struct {
	OrderID string `json:"order_id"`
	Count   int    `json:"count"`
}

func TestNewJSONMessage_Metadata(t *testing.T) {
	eventID := uuid.New()
	orgID := uuid.New()

	msg, err := NewJSONMessage(eventID, 2, orgID, samplePayload{OrderID: "o-1", Count: 3})
	if err != nil {
		t.Fatalf("NewJSONMessage: %v", err)
	}

	if got := msg.Metadata.Get(MetadataEventID); got != eventID.String() {
		t.Errorf("event_id: got %q, want %q", got, eventID)
	}
	if got := msg.Metadata.Get(MetadataEventVersion); got != "2" {
		t.Errorf("event_version: got %q, want %q", got, "2")
	}
	if got := msg.Metadata.Get(MetadataOrgID); got != orgID.String() {
		t.Errorf("org_id: got %q, want %q", got, orgID)
	}
	if msg.UUID == "" {
		t.Error("expected message UUID to be set")
	}
}

func TestDecodeJSON(t *testing.T) {
	msg, err := NewJSONMessage(uuid.New(), 1, uuid.New(), samplePayload{OrderID: "o-2", Count: 7})
	if err != nil {
		t.Fatalf("NewJSONMessage: %v", err)
	}

	var got samplePayload
	if err := DecodeJSON(msg, &got); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got.OrderID != "o-2" || got.Count != 7 {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	msg := message.NewMessage("id", []byte("{not json"))
	var got samplePayload
	if err := DecodeJSON(msg, &got); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
