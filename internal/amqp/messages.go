package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the cost events queue.
const (
	KindCostLogged  = "cost_logged"
	KindCostRemoved = "cost_removed"
)

// CostEventMessage is a lightweight notification that a cost entry was
// logged or removed. It carries only the entry id; the worker fetches the
// full row from the ledger when it still exists.
type CostEventMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewCostEventMessage(kind string, id int64) *CostEventMessage {
	return &CostEventMessage{
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *CostEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CostEventMessageFromJSON creates a message from JSON bytes.
func CostEventMessageFromJSON(data []byte) (*CostEventMessage, error) {
	var msg CostEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
