package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope every analytics message is published in.
type Event struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	SubjectID     string            `json:"subject_id,omitempty"`
	SubjectType   string            `json:"subject_type,omitempty"`
	DeviceID      string            `json:"device_id"`
	UserID        string            `json:"user_id,omitempty"`
	Version       int               `json:"version"`
	Timestamp     time.Time         `json:"timestamp"`
	Source        string            `json:"source"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Data          json.RawMessage   `json:"data,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEvent creates an event with a generated ID and the current UTC time.
func NewEvent(eventType, deviceID, source string, data any) (*Event, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		DeviceID:  deviceID,
		Version:   1,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Data:      raw,
	}, nil
}

// WithSubject names the menu item, order or promotion the event is about.
func (e *Event) WithSubject(subjectType, id string) *Event {
	e.SubjectType = subjectType
	e.SubjectID = id
	return e
}

func (e *Event) WithUser(id string) *Event {
	e.UserID = id
	return e
}

func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

func (e *Event) WithMetadata(key, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// PartitionKey keeps events of one device ordered within a partition.
func (e *Event) PartitionKey() []byte {
	return []byte(e.DeviceID)
}

func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func UnmarshalEvent(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// UnmarshalData decodes the event payload into target.
func (e *Event) UnmarshalData(target any) error {
	return json.Unmarshal(e.Data, target)
}
