package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every pdftools collector. It is private so tests and the
// textfile export see only this process' series.
var Registry = prometheus.NewRegistry()

var (
	operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdftools",
			Name:      "operations_total",
			Help:      "Total page operations by operation and result",
		},
		[]string{"op", "result"},
	)

	operationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pdftools",
			Name:      "operation_duration_seconds",
			Help:      "Duration of page operations by operation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	pagesOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdftools",
			Name:      "pages_total",
			Help:      "Pages produced (or counted) by successful operations",
		},
		[]string{"op"},
	)

	inputBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdftools",
			Name:      "input_bytes_total",
			Help:      "Bytes of PDF input handed to operations",
		},
		[]string{"op"},
	)

	thumbnails = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdftools",
			Name:      "thumbnails_total",
			Help:      "Rendered page previews by color mode and result",
		},
		[]string{"gray", "result"},
	)
)

func init() {
	Registry.MustRegister(operations, operationLatency, pagesOut, inputBytes, thumbnails)
}

// WriteTextfile writes the registry in the node exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}

func ObserveOperation(op, result string, dur time.Duration) {
	operations.WithLabelValues(op, result).Inc()
	operationLatency.WithLabelValues(op).Observe(dur.Seconds())
}

func AddPages(op string, n int)      { pagesOut.WithLabelValues(op).Add(float64(n)) }
func AddInputBytes(op string, n int) { inputBytes.WithLabelValues(op).Add(float64(n)) }

func IncThumbnail(gray bool, result string) {
	thumbnails.WithLabelValues(strconv.FormatBool(gray), result).Inc()
}
