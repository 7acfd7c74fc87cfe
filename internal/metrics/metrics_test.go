package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectors(t *testing.T) {
	m := New()

	m.RPCRequests.WithLabelValues("/splitpool.v1.LedgerService/AddMember", "ok").Inc()
	m.RPCRequests.WithLabelValues("/splitpool.v1.LedgerService/AddMember", "ok").Inc()
	m.Settlements.Add(3)
	m.Entries.WithLabelValues("purchase").Inc()

	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues("/splitpool.v1.LedgerService/AddMember", "ok")); got != 2 {
		t.Errorf("rpc_requests_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Settlements); got != 3 {
		t.Errorf("settlements_total = %v, want 3", got)
	}

	// Separate instances do not share state.
	if got := testutil.ToFloat64(New().Settlements); got != 0 {
		t.Errorf("fresh settlements_total = %v, want 0", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.Entries.WithLabelValues("transfer").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	out := string(body)
	for _, want := range []string{
		`splitpool_entries_added_total{kind="transfer"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
