package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_IsPaid(t *testing.T) {
	tests := []struct {
		status OrderStatus
		paid   bool
	}{
		{OrderStatusPending, false},
		{OrderStatusOnHold, false},
		{OrderStatusFailed, false},
		{OrderStatusCancelled, false},
		{OrderStatusRefunded, false},
		{OrderStatusProcessing, true},
		{OrderStatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.paid, tt.status.IsPaid())
		})
	}
}

func TestOrder_GetMeta(t *testing.T) {
	o := &Order{}
	assert.Equal(t, "", o.GetMeta("_cashonrails_ref"))

	o.Meta = map[string]string{"_cashonrails_ref": "CR-abc"}
	assert.Equal(t, "CR-abc", o.GetMeta("_cashonrails_ref"))
}
