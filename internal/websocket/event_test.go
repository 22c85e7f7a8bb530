package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EventType
		expected string
	}{
		{"created", EventTypeCreated, "created"},
		{"updated", EventTypeUpdated, "updated"},
		{"deleted", EventTypeDeleted, "deleted"},
		{"generated", EventTypeGenerated, "generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestEntityType_String(t *testing.T) {
	tests := []struct {
		name     string
		et       EntityType
		expected string
	}{
		{"expense", EntityTypeExpense, "expense"},
		{"budget", EntityTypeBudget, "budget"},
		{"recurring", EntityTypeRecurring, "recurring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.et))
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":       1,
		"category": "Food",
		"amount":   "100.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeExpense, payload)
	after := time.Now()

	assert.Equal(t, "expense.created", evt.Type)
	assert.Equal(t, EntityTypeExpense, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_JSON_Serialization(t *testing.T) {
	fixedTime := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	payload := map[string]interface{}{
		"id":       float64(1),
		"category": "Transport",
		"amount":   "12.50",
	}

	evt := Event{
		Type:      "expense.created",
		Entity:    EntityTypeExpense,
		Payload:   payload,
		Timestamp: fixedTime,
	}

	data, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded Event
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, evt.Type, decoded.Type)
	assert.Equal(t, evt.Entity, decoded.Entity)
	assert.Equal(t, fixedTime.UTC(), decoded.Timestamp.UTC())

	// Payload should be preserved
	decodedPayload, ok := decoded.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), decodedPayload["id"])
	assert.Equal(t, "Transport", decodedPayload["category"])
	assert.Equal(t, "12.50", decodedPayload["amount"])
}

func TestEvent_ToJSON(t *testing.T) {
	payload := map[string]interface{}{
		"id": float64(42),
	}

	evt := NewEvent(EventTypeUpdated, EntityTypeExpense, payload)

	data, err := evt.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// Verify it's valid JSON
	var decoded map[string]interface{}
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "expense.updated", decoded["type"])
	assert.Equal(t, "expense", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestExpenseEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":       float64(1),
		"category": "Food",
		"amount":   "50.00",
	}

	t.Run("ExpenseCreated", func(t *testing.T) {
		evt := ExpenseCreated(payload)
		assert.Equal(t, "expense.created", evt.Type)
		assert.Equal(t, EntityTypeExpense, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("ExpenseUpdated", func(t *testing.T) {
		evt := ExpenseUpdated(payload)
		assert.Equal(t, "expense.updated", evt.Type)
		assert.Equal(t, EntityTypeExpense, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("ExpenseDeleted", func(t *testing.T) {
		evt := ExpenseDeleted(payload)
		assert.Equal(t, "expense.deleted", evt.Type)
		assert.Equal(t, EntityTypeExpense, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})
}

func TestBudgetEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"category":      "Utilities",
		"monthly_limit": "200.00",
	}

	t.Run("BudgetCreated", func(t *testing.T) {
		evt := BudgetCreated(payload)
		assert.Equal(t, "budget.created", evt.Type)
		assert.Equal(t, EntityTypeBudget, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("BudgetUpdated", func(t *testing.T) {
		evt := BudgetUpdated(payload)
		assert.Equal(t, "budget.updated", evt.Type)
		assert.Equal(t, EntityTypeBudget, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("BudgetDeleted", func(t *testing.T) {
		evt := BudgetDeleted(payload)
		assert.Equal(t, "budget.deleted", evt.Type)
		assert.Equal(t, EntityTypeBudget, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})
}

func TestRecurringEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"id":        float64(3),
		"frequency": "monthly",
	}

	t.Run("RecurringCreated", func(t *testing.T) {
		evt := RecurringCreated(payload)
		assert.Equal(t, "recurring.created", evt.Type)
		assert.Equal(t, EntityTypeRecurring, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("RecurringUpdated", func(t *testing.T) {
		evt := RecurringUpdated(payload)
		assert.Equal(t, "recurring.updated", evt.Type)
		assert.Equal(t, EntityTypeRecurring, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("RecurringDeleted", func(t *testing.T) {
		evt := RecurringDeleted(payload)
		assert.Equal(t, "recurring.deleted", evt.Type)
		assert.Equal(t, EntityTypeRecurring, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("RecurringGenerated", func(t *testing.T) {
		evt := RecurringGenerated(payload)
		assert.Equal(t, "recurring.generated", evt.Type)
		assert.Equal(t, EntityTypeRecurring, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})
}
