// Package metrics records what a pack generation run did.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder defines the interface for recording run metrics
type Recorder interface {
	// RecordExtraction records one archive extraction with its outcome
	RecordExtraction(files int, bytes int64, success bool, duration time.Duration)

	// RecordTextures records the textures produced by an overlay pass
	RecordTextures(blended, sidecars int)

	// RecordRun records the terminal state of a pipeline run
	RecordRun(outcome string, duration time.Duration)
}

// PrometheusRecorder implements Recorder on a private Prometheus registry
type PrometheusRecorder struct {
	registry           *prometheus.Registry
	extractedFiles     prometheus.Counter
	extractedBytes     prometheus.Counter
	extractionDuration *prometheus.HistogramVec
	texturesTotal      *prometheus.CounterVec
	runsTotal          *prometheus.CounterVec
	runDuration        prometheus.Gauge
}

// NewPrometheusRecorder creates a recorder and registers its metrics
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		extractedFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "packoverlay_archive_files_extracted_total",
			Help: "Total number of archive file entries extracted",
		}),
		extractedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "packoverlay_archive_bytes_extracted_total",
			Help: "Total number of decompressed bytes written during extraction",
		}),
		extractionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "packoverlay_extraction_duration_seconds",
				Help:    "Duration of archive extraction in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"success"},
		),
		texturesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packoverlay_textures_total",
				Help: "Total number of texture directory entries handled, by result",
			},
			[]string{"result"},
		),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packoverlay_runs_total",
				Help: "Total number of pipeline runs, by terminal state",
			},
			[]string{"outcome"},
		),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "packoverlay_last_run_duration_seconds",
			Help: "Duration of the most recent pipeline run in seconds",
		}),
	}

	r.registry.MustRegister(
		r.extractedFiles,
		r.extractedBytes,
		r.extractionDuration,
		r.texturesTotal,
		r.runsTotal,
		r.runDuration,
	)
	return r
}

// Registry exposes the underlying registry, e.g. for tests or an HTTP handler
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *PrometheusRecorder) RecordExtraction(files int, bytes int64, success bool, duration time.Duration) {
	r.extractedFiles.Add(float64(files))
	r.extractedBytes.Add(float64(bytes))
	r.extractionDuration.WithLabelValues(strconv.FormatBool(success)).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) RecordTextures(blended, sidecars int) {
	r.texturesTotal.WithLabelValues("blended").Add(float64(blended))
	r.texturesTotal.WithLabelValues("sidecar").Add(float64(sidecars))
}

func (r *PrometheusRecorder) RecordRun(outcome string, duration time.Duration) {
	r.runsTotal.WithLabelValues(outcome).Inc()
	r.runDuration.Set(duration.Seconds())
}

// WriteTextfile writes all metrics in the text exposition format, replacing path atomically
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
