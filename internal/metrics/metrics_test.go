package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Inc(t *testing.T) {
	t.Run("Known series start at zero", func(t *testing.T) {
		r := NewRegistry()
		assert.Equal(t, float64(0), testutil.ToFloat64(r.counters[familyReports].WithLabelValues("generated")))
		assert.Equal(t, 2, testutil.CollectAndCount(r.counters[familyOrders]))
	})

	t.Run("Concurrent increments", func(t *testing.T) {
		r := NewRegistry()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r.Inc(OrderNumbersIssued)
			}()
		}
		wg.Wait()

		assert.Equal(t, float64(50), testutil.ToFloat64(r.counters[familyOrderNumbers].WithLabelValues("issued")))
		assert.Equal(t, float64(0), testutil.ToFloat64(r.counters[familyOrderNumbers].WithLabelValues("failed")))
	})
}

func TestRegistry_ObserveReportBuild(t *testing.T) {
	r := NewRegistry()
	r.ObserveReportBuild("ok", 20*time.Millisecond)
	r.ObserveReportBuild("ok", 40*time.Millisecond)
	r.ObserveReportBuild("error", time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(r.reportBuild))
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.Inc(ReportExports)
	r.ObserveReportBuild("ok", time.Second)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `caixa_reports_total{event="export"} 1`)
	assert.Contains(t, string(body), `caixa_report_build_duration_seconds_count{outcome="ok"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), time.Millisecond)
}
