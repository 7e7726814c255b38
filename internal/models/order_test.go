package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderCanTransition(t *testing.T) {
	tests := []struct {
		from   string
		to     string
		wantOK bool
	}{
		{OrderStatusPending, OrderStatusApproved, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusPacked, false},
		{OrderStatusApproved, OrderStatusInProduction, true},
		{OrderStatusApproved, OrderStatusCancelled, true},
		{OrderStatusInProduction, OrderStatusPacked, true},
		{OrderStatusInProduction, OrderStatusCancelled, false},
		{OrderStatusPacked, OrderStatusDispatched, true},
		{OrderStatusDispatched, OrderStatusDelivered, true},
		{OrderStatusDelivered, OrderStatusDispatched, false},
		{OrderStatusCancelled, OrderStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			order := &Order{Status: tt.from}
			assert.Equal(t, tt.wantOK, order.CanTransition(tt.to))
		})
	}
}
