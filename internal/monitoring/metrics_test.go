package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountRequest(t *testing.T) {
	m := NewMetrics()

	m.CountRequest("/orders", "ok")
	m.CountRequest("/orders", "ok")
	m.CountRequest("/orders", "transport_error")

	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("/orders", "ok")); got != 2 {
		t.Errorf("api_requests{/orders,ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("/orders", "transport_error")); got != 1 {
		t.Errorf("api_requests{/orders,transport_error} = %v, want 1", got)
	}
}

func TestCountSubmission(t *testing.T) {
	m := NewMetrics()

	m.CountSubmission("cart", "ok")
	m.CountSubmission("booking", "error")

	if got := testutil.ToFloat64(m.ordersSubmitted.WithLabelValues("cart", "ok")); got != 1 {
		t.Errorf("orders_submitted{cart,ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ordersSubmitted.WithLabelValues("booking", "error")); got != 1 {
		t.Errorf("orders_submitted{booking,error} = %v, want 1", got)
	}
}

func TestRegistryGathers(t *testing.T) {
	m := NewMetrics()
	m.CountCartOp("add")

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	if len(families) == 0 {
		t.Error("Gather() returned no metric families")
	}
}
