package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ticketescrow/entities"
)

func TestEventSummary_ApplyWithdrawal(t *testing.T) {
	var summary entities.EventSummary

	assert.True(t, summary.ApplyWithdrawal("key-1", 700))
	assert.False(t, summary.ApplyWithdrawal("key-1", 700))
	assert.True(t, summary.ApplyWithdrawal("key-2", 300))

	assert.EqualValues(t, 1_000, summary.TotalWithdrawn)
	assert.Equal(t, 2, summary.Withdrawals)
	assert.Equal(t, []string{"key-1", "key-2"}, summary.WithdrawalKeys)
}
