package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - гистограмма длительности вызовов API по операции и статусу.
type Metrics struct {
	duration *prometheus.HistogramVec
}

// NewMetrics регистрирует метрики в reg (nil - prometheus.DefaultRegisterer).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "comments_widget",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of comment API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "code"}),
	}
	reg.MustRegister(m.duration)

	return m
}

// observe - nil-safe запись наблюдения. status == 0 - ошибка транспорта.
func (m *Metrics) observe(op string, status int, d time.Duration) {
	if m == nil {
		return
	}

	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}

	m.duration.WithLabelValues(op, code).Observe(d.Seconds())
}
