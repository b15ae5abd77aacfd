package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_TypeFormat(t *testing.T) {
	evt := TransactionCreated(map[string]interface{}{"id": "t1"})

	assert.Equal(t, "transaction.created", evt.Type)
	assert.Equal(t, EntityTypeTransaction, evt.Entity)
	assert.False(t, evt.Timestamp.IsZero())
}

func TestEventConstructors(t *testing.T) {
	cases := []struct {
		evt      Event
		expected string
		entity   EntityType
	}{
		{TransactionCreated(nil), "transaction.created", EntityTypeTransaction},
		{TransactionUpdated(nil), "transaction.updated", EntityTypeTransaction},
		{TransactionDeleted(nil), "transaction.deleted", EntityTypeTransaction},
		{TransactionsArchived(nil), "transaction.archived", EntityTypeTransaction},
		{BudgetUpdated(nil), "budget.updated", EntityTypeBudget},
		{SavingsUpdated(nil), "savings.updated", EntityTypeSavings},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, tc.evt.Type)
		assert.Equal(t, tc.entity, tc.evt.Entity)
	}
}

func TestEvent_ToJSON(t *testing.T) {
	evt := SavingsUpdated(map[string]interface{}{"category": "Vacation"})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "savings.updated", decoded["type"])
	assert.Equal(t, "savings", decoded["entity"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Vacation", payload["category"])
}
