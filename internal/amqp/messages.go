package amqp

import (
	"encoding/json"
	"time"
)

// Ledger event types. Each is also the routing key on the topic exchange.
const (
	EventExpenseAdded       = "expense.added"
	EventExpenseDeleted     = "expense.deleted"
	EventSettlementRecorded = "settlement.recorded"
	EventSettlementDeleted  = "settlement.deleted"
	EventGroupDeleted       = "group.deleted"
)

// LedgerEvent announces a change to a group's ledger. It carries only IDs;
// consumers fetch current balances through the API.
type LedgerEvent struct {
	Type      string    `json:"type"`
	GroupID   string    `json:"group_id"`
	EntityID  string    `json:"entity_id,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time.
func NewLedgerEvent(eventType, groupID, entityID string, amount float64) *LedgerEvent {
	return &LedgerEvent{
		Type:      eventType,
		GroupID:   groupID,
		EntityID:  entityID,
		Amount:    amount,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes an event from JSON bytes
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
