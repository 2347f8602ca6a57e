package dashboard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct{ open bool }

func (c fakeConn) IsConnectionOpen() bool { return c.open }

type fakeBreaker string

func (b fakeBreaker) BreakerState() string { return string(b) }

func TestAdmin_Healthz(t *testing.T) {
	rec := httptest.NewRecorder()
	NewAdminMux(nil, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAdmin_Readyz(t *testing.T) {
	tests := []struct {
		name     string
		conn     ConnChecker
		breaker  BreakerReporter
		wantCode int
		want     readiness
	}{
		{
			name:     "mqtt disabled",
			wantCode: http.StatusOK,
			want:     readiness{Ready: true},
		},
		{
			name:     "mqtt connected",
			conn:     fakeConn{open: true},
			breaker:  fakeBreaker("closed"),
			wantCode: http.StatusOK,
			want:     readiness{Ready: true, MQTTEnabled: true, MQTTConnected: true, Breaker: "closed"},
		},
		{
			name:     "mqtt disconnected",
			conn:     fakeConn{open: false},
			breaker:  fakeBreaker("open"),
			wantCode: http.StatusServiceUnavailable,
			want:     readiness{MQTTEnabled: true, Breaker: "open"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewAdminMux(nil, tt.conn, tt.breaker).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var got readiness
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdmin_MetricsReportToggles(t *testing.T) {
	metrics := NewMetrics()
	svc := NewService(NewStore(), metrics, nil)

	public := httptest.NewServer(NewHTTPMux(svc, metrics))
	defer public.Close()
	admin := httptest.NewServer(NewAdminMux(metrics, nil, nil))
	defer admin.Close()

	for i := 0; i < 3; i++ {
		resp, err := http.Post(public.URL+"/toggle_pump", "", nil)
		require.NoError(t, err)
		resp.Body.Close()
	}
	resp, err := http.Get(public.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(admin.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, `dashboard_pump_toggles_total{source="http"} 3`)
	assert.Contains(t, text, "dashboard_pump_on 1")
	assert.Contains(t, text, `dashboard_http_requests_total{code="200",route="/toggle_pump"} 3`)
	assert.Contains(t, text, `dashboard_http_requests_total{code="404",route="other"} 1`)
	assert.Contains(t, text, "go_goroutines")
}

func TestAdmin_MetricsDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	NewAdminMux(nil, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
