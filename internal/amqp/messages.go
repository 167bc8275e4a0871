package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// LedgerSavedMessage announces that the ledger stored under Key was
// persisted at Version. It carries no records; consumers reload the payload
// from the shared store.
type LedgerSavedMessage struct {
	Key       string    `json:"key"`
	Version   int64     `json:"version"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerSavedMessage stamps a message with the current time.
func NewLedgerSavedMessage(key string, version int64, count int) *LedgerSavedMessage {
	return &LedgerSavedMessage{
		Key:       key,
		Version:   version,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerSavedMessageFromJSON decodes and checks a message body.
func LedgerSavedMessageFromJSON(data []byte) (*LedgerSavedMessage, error) {
	var msg LedgerSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Key == "" {
		return nil, errors.New("ledger saved message without key")
	}
	return &msg, nil
}
