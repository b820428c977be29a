package amqp

import (
	"testing"
	"time"
)

func TestNewCostEventMessage(t *testing.T) {
	msg := NewCostEventMessage(KindCostLogged, 42)

	if msg.Kind != KindCostLogged {
		t.Errorf("Kind = %q, want %q", msg.Kind, KindCostLogged)
	}
	if msg.ID != 42 {
		t.Errorf("ID = %d, want 42", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
}

func TestCostEventMessage_JSON(t *testing.T) {
	msg := &CostEventMessage{
		Kind:      KindCostRemoved,
		ID:        12345,
		Timestamp: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := CostEventMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("CostEventMessageFromJSON() error = %v", err)
	}

	if parsed.Kind != msg.Kind || parsed.ID != msg.ID || !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("round trip mismatch: %+v != %+v", parsed, msg)
	}
}

func TestCostEventMessage_InvalidJSON(t *testing.T) {
	if _, err := CostEventMessageFromJSON([]byte(`{"id": "not_a_number"}`)); err == nil {
		t.Error("CostEventMessageFromJSON() should fail with invalid JSON")
	}
}
