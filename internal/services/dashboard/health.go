package dashboard

import (
	"net/http"
)

// ConnChecker reports whether a broker connection is usable.
type ConnChecker interface {
	IsConnectionOpen() bool
}

// BreakerReporter exposes the state of a circuit breaker.
type BreakerReporter interface {
	BreakerState() string
}

type readiness struct {
	Ready         bool   `json:"ready"`
	MQTTEnabled   bool   `json:"mqtt_enabled"`
	MQTTConnected bool   `json:"mqtt_connected"`
	Breaker       string `json:"breaker,omitempty"`
}

// NewAdminMux serves /healthz, /readyz and /metrics on the admin listener.
// conn and breaker are nil when MQTT is disabled.
func NewAdminMux(metrics *Metrics, conn ConnChecker, breaker BreakerReporter) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		st := readiness{MQTTEnabled: conn != nil}
		if conn != nil {
			st.MQTTConnected = conn.IsConnectionOpen()
		}
		if breaker != nil {
			st.Breaker = breaker.BreakerState()
		}
		st.Ready = !st.MQTTEnabled || st.MQTTConnected

		code := http.StatusOK
		if !st.Ready {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, st)
	})

	mux.Handle("GET /metrics", metrics.Handler())

	return mux
}
