package amqp

import (
	"encoding/json"
	"time"
)

// TransactionCreatedMessage signals the worker that a new transaction was
// recorded. It carries only the ID and version, the worker fetches the full
// row from the database.
type TransactionCreatedMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionCreatedMessage(id, version int64) *TransactionCreatedMessage {
	return &TransactionCreatedMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *TransactionCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionCreatedMessageFromJSON(data []byte) (*TransactionCreatedMessage, error) {
	var msg TransactionCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
