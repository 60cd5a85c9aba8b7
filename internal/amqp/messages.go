package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// SlotChangedMessage announces that a list slot was rewritten. It carries
// only the key and the new record count; consumers reload the slot itself.
type SlotChangedMessage struct {
	Key       string    `json:"key"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

var errMissingKey = errors.New("slot changed message without key")

func NewSlotChangedMessage(key string, count int) *SlotChangedMessage {
	return &SlotChangedMessage{
		Key:       key,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}

func (m *SlotChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SlotChangedMessageFromJSON decodes a message body. A body without a key is
// rejected.
func SlotChangedMessageFromJSON(data []byte) (*SlotChangedMessage, error) {
	var msg SlotChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Key == "" {
		return nil, errMissingKey
	}
	return &msg, nil
}
