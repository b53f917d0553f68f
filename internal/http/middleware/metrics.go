package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics считает длительность запросов по шаблону маршрута chi и коду ответа.
// reg == nil - prometheus.DefaultRegisterer.
func Metrics(reg prometheus.Registerer, namespace string) Middleware {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	hist := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of served HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "code"})
	reg.MustRegister(hist)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}

			hist.WithLabelValues(r.Method, route, strconv.Itoa(sw.Status())).Observe(time.Since(start).Seconds())
		})
	}
}
