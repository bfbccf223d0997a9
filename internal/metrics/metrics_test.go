package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Messages.WithLabelValues("translate", OutcomeOK).Inc()
	assert.InDelta(t, 1, testutil.ToFloat64(a.Messages.WithLabelValues("translate", OutcomeOK)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.Messages.WithLabelValues("translate", OutcomeOK)), 0)
}

func TestHandler(t *testing.T) {
	m := New()
	m.CacheLookups.WithLabelValues("hit").Add(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `hinglish_cache_lookups_total{result="hit"} 2`)
}
