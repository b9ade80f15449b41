package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countRunsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_runs_in_queue",
	Help: "Number of indexing runs waiting in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var documentsIndexed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "documents_indexed_total",
	Help: "Documents successfully written to the search index",
})

var documentsFailed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "documents_failed_total",
	Help: "Documents that could not be indexed",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) CaptureWriteHeaderMetrics(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementRunsInQueue() {
	countRunsInQueue.Inc()
}

func DecrementRunsInQueue() {
	countRunsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func AddDocumentsIndexed(n int) {
	documentsIndexed.Add(float64(n))
}

func AddDocumentsFailed(n int) {
	if n > 0 {
		documentsFailed.Add(float64(n))
	}
}

var runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_run_duration_seconds",
	Help:    "Total time spent in one indexing run.",
	Buckets: []float64{1, 5, 15, 60, 300, 900, 1800},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureDependencyLatency(service string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(service).Observe(timeElapsed.Seconds())
}

func CaptureRunMetrics(status string, timeElapsed time.Duration) {
	runDuration.WithLabelValues(status).Observe(timeElapsed.Seconds())
}
