package amqp

import (
	"strings"
	"testing"
	"time"
)

func TestNewLedgerEvent(t *testing.T) {
	before := time.Now().UTC()
	e := NewLedgerEvent(EventSettlementRecorded, "g1", "s1", 25)

	if e.Type != EventSettlementRecorded || e.GroupID != "g1" || e.EntityID != "s1" {
		t.Errorf("unexpected event fields: %+v", e)
	}
	if e.Amount != 25 {
		t.Errorf("Amount = %v, want 25", e.Amount)
	}
	if e.Timestamp.Before(before) {
		t.Errorf("Timestamp %v is before creation time %v", e.Timestamp, before)
	}
}

func TestLedgerEventJSON(t *testing.T) {
	e := NewLedgerEvent(EventGroupDeleted, "g1", "", 0)

	data, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if strings.Contains(string(data), "entity_id") || strings.Contains(string(data), "amount") {
		t.Errorf("empty optional fields should be omitted: %s", data)
	}
	if !strings.Contains(string(data), `"type":"group.deleted"`) {
		t.Errorf("type missing from payload: %s", data)
	}

	decoded, err := LedgerEventFromJSON(data)
	if err != nil {
		t.Fatalf("LedgerEventFromJSON failed: %v", err)
	}
	if decoded.GroupID != "g1" || !decoded.Timestamp.Equal(e.Timestamp) {
		t.Errorf("decoded event mismatch: %+v", decoded)
	}

	if _, err := LedgerEventFromJSON([]byte("{")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
