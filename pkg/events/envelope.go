package events

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Metadata keys set on every domain event message.
const (
	MetadataEventID      = "event_id"
	MetadataEventVersion = "event_version"
	MetadataOrgID        = "org_id"
)

// NewJSONMessage marshals payload into a Watermill message and stamps the
// event id, schema version and tenant into its metadata. Subscribers use
// event_id for deduplication since delivery is at-least-once.
func NewJSONMessage(eventID uuid.UUID, version int, orgID uuid.UUID, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(MetadataEventID, eventID.String())
	msg.Metadata.Set(MetadataEventVersion, strconv.Itoa(version))
	msg.Metadata.Set(MetadataOrgID, orgID.String())
	return msg, nil
}

// DecodeJSON unmarshals a message payload into v.
func DecodeJSON(msg *message.Message, v any) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("events: decode %s: %w", msg.UUID, err)
	}
	return nil
}
