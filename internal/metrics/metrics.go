package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hyperifyio/seatwatch/internal/seats"
)

// Recorder turns one seat check into Prometheus gauges. It owns a private
// registry so a run writes exactly its own series, which the node_exporter
// textfile collector then picks up between runs.
type Recorder struct {
	registry *prometheus.Registry

	availableSeats *prometheus.GaugeVec
	meetsThreshold *prometheus.GaugeVec
	checkOK        *prometheus.GaugeVec
	lastCheckTS    *prometheus.GaugeVec
	checkDuration  prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}
	r.availableSeats = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "seatwatch",
		Name:      "available_seats",
		Help:      "Seats left for the target trip; absent when the count is unknown",
	}, []string{"target"})
	r.meetsThreshold = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "seatwatch",
		Name:      "meets_threshold",
		Help:      "1 when available seats reach the configured threshold",
	}, []string{"target"})
	r.checkOK = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "seatwatch",
		Name:      "check_ok",
		Help:      "1 when the last check determined a seat count",
	}, []string{"target"})
	r.lastCheckTS = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "seatwatch",
		Name:      "last_check_timestamp_seconds",
		Help:      "Unix timestamp of the last check",
	}, []string{"target"})
	r.checkDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "seatwatch",
		Name:      "check_duration_seconds",
		Help:      "Wall time of the last check including the page fetch",
	})
	r.registry.MustRegister(r.availableSeats, r.meetsThreshold, r.checkOK, r.lastCheckTS, r.checkDuration)
	return r
}

// Observe records res. elapsed covers the whole run.
func (r *Recorder) Observe(res seats.Result, elapsed time.Duration) {
	target := res.Target
	if n, ok := res.Seats(); ok {
		r.availableSeats.WithLabelValues(target).Set(float64(n))
	} else {
		r.availableSeats.DeleteLabelValues(target)
	}
	r.meetsThreshold.WithLabelValues(target).Set(boolGauge(res.MeetsThreshold))
	r.checkOK.WithLabelValues(target).Set(boolGauge(res.OK))

	checked, err := time.Parse(time.RFC3339, res.CheckedAt)
	if err != nil {
		checked = time.Now()
	}
	r.lastCheckTS.WithLabelValues(target).Set(float64(checked.Unix()))
	r.checkDuration.Set(elapsed.Seconds())
}

// WriteFile atomically replaces path with the current series in text
// exposition format.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
