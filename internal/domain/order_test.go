package domain

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{OrderStatusPending, OrderStatusProcessing},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusDelivered},
	}
	for _, tr := range allowed {
		if !CanTransition(tr[0], tr[1]) {
			t.Errorf("expected %s -> %s to be allowed", tr[0], tr[1])
		}
	}

	rejected := [][2]string{
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusCancelled},
		{OrderStatusCancelled, OrderStatusCancelled},
		{OrderStatusCancelled, OrderStatusPending},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusPending, OrderStatusPending},
	}
	for _, tr := range rejected {
		if CanTransition(tr[0], tr[1]) {
			t.Errorf("expected %s -> %s to be rejected", tr[0], tr[1])
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		if !ValidOrderStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidOrderStatus("refunded") {
		t.Errorf("expected unknown status to be invalid")
	}
}
