package dashboard

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type toggleResponse struct {
	Pump bool `json:"pump"`
}

// NewHTTPMux builds the public router:
//
//	GET  /             dashboard page
//	GET  /get_data     current sensor state
//	POST /toggle_pump  flip the pump, returns {"pump": <new value>}
//
// Anything else is answered by the mux itself (404, or 405 on a known path).
func NewHTTPMux(svc *Service, metrics *Metrics) http.Handler {
	page := mustParsePage()

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		renderPage(w, page)
	})

	mux.HandleFunc("GET /get_data", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, svc.State())
	})

	mux.HandleFunc("POST /toggle_pump", func(w http.ResponseWriter, r *http.Request) {
		on := svc.TogglePump(r.Context(), SourceHTTP)
		writeJSON(w, http.StatusOK, toggleResponse{Pump: on})
	})

	return instrument(mux, metrics)
}

func renderPage(w http.ResponseWriter, page *template.Template) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, pageData{Title: pageTitle}); err != nil {
		log.Error().Err(err).Msg("render dashboard page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

var knownRoutes = map[string]bool{"/": true, "/get_data": true, "/toggle_pump": true}

// instrument logs each request and records it in metrics. Unknown paths share
// one route label.
func instrument(next http.Handler, metrics *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := r.URL.Path
		if !knownRoutes[route] {
			route = "other"
		}
		metrics.observeRequest(route, rec.status, elapsed)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Msg("request")
	})
}
