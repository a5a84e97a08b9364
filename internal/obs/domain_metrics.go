package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// BillsGeneratedTotal counts bill submissions by outcome.
	BillsGeneratedTotal *prometheus.CounterVec
	// BillLinesSkippedTotal counts dropped selections by reason.
	BillLinesSkippedTotal *prometheus.CounterVec
	// BillLinesPerBill records how many lines each stored bill carries.
	BillLinesPerBill prometheus.Histogram
	// DocumentsRenderedTotal counts PDF and share-link renders by outcome.
	DocumentsRenderedTotal *prometheus.CounterVec
	// ArchiveUploadsTotal counts PDF archive uploads by outcome.
	ArchiveUploadsTotal *prometheus.CounterVec
	// WritesThrottledTotal counts form submissions rejected by the rate limiter.
	WritesThrottledTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		BillsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bills_generated_total",
			Help:      "Count of bill submissions by outcome.",
		}, []string{"result"})
		BillLinesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bill_lines_skipped_total",
			Help:      "Count of bill selections dropped before pricing.",
		}, []string{"reason"})
		BillLinesPerBill = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bill_lines",
			Help:      "Number of priced lines per generated bill.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		})
		DocumentsRenderedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rendered_total",
			Help:      "Count of rendered bill documents by kind and outcome.",
		}, []string{"kind", "result"})
		ArchiveUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_uploads_total",
			Help:      "Count of bill PDF archive uploads by outcome.",
		}, []string{"result"})
		WritesThrottledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_throttled_total",
			Help:      "Count of write requests rejected by the rate limiter.",
		}, []string{"scope"})

		mustRegisterCollector(reg, BillsGeneratedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BillsGeneratedTotal = v
			}
		})
		mustRegisterCollector(reg, BillLinesSkippedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				BillLinesSkippedTotal = v
			}
		})
		mustRegisterCollector(reg, BillLinesPerBill, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				BillLinesPerBill = v
			}
		})
		mustRegisterCollector(reg, DocumentsRenderedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DocumentsRenderedTotal = v
			}
		})
		mustRegisterCollector(reg, ArchiveUploadsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ArchiveUploadsTotal = v
			}
		})
		mustRegisterCollector(reg, WritesThrottledTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				WritesThrottledTotal = v
			}
		})
	})
}

// IncCounter increments vec with labels when the collector is registered.
func IncCounter(vec *prometheus.CounterVec, labels ...string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(labels...).Inc()
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
