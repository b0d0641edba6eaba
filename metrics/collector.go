// Package metrics exposes bundle cache statistics as Prometheus metrics.
//
// Collector implements [prometheus.Collector] by snapshotting a
// [bundlecache.Manager] on every scrape. Register it with any registry:
//
//	mgr := bundlecache.New()
//	prometheus.MustRegister(metrics.NewCollector(mgr))
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lingopack/bundlecache"
)

const (
	subsystem = "bundlecache"

	defaultScrapeTimeout = 5 * time.Second
)

// Collector reads Manager statistics on demand. Counters are cumulative
// for the lifetime of the Manager, not of the Collector, so re-registering
// a Collector over the same Manager never resets a series.
type Collector struct {
	manager       *bundlecache.Manager
	namespace     string
	scrapeTimeout time.Duration

	hits             *prometheus.Desc
	misses           *prometheus.Desc
	hitRate          *prometheus.Desc
	persistedBytes   *prometheus.Desc
	persistedEntries *prometheus.Desc

	scrapeErrors prometheus.Counter
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a Collector scraping the given Manager.
func NewCollector(manager *bundlecache.Manager, opts ...Option) *Collector {
	c := &Collector{
		manager:       manager,
		scrapeTimeout: defaultScrapeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.hits = prometheus.NewDesc(
		prometheus.BuildFQName(c.namespace, subsystem, "hits_total"),
		"Total number of cache lookups served from the cache.",
		nil, nil,
	)
	c.misses = prometheus.NewDesc(
		prometheus.BuildFQName(c.namespace, subsystem, "misses_total"),
		"Total number of cache lookups that found nothing usable.",
		nil, nil,
	)
	c.hitRate = prometheus.NewDesc(
		prometheus.BuildFQName(c.namespace, subsystem, "hit_rate"),
		"Fraction of lookups served from the cache, 0 when none were made.",
		nil, nil,
	)
	c.persistedBytes = prometheus.NewDesc(
		prometheus.BuildFQName(c.namespace, subsystem, "persisted_bytes"),
		"Serialized size of all decodable entries in the persistent store.",
		nil, nil,
	)
	c.persistedEntries = prometheus.NewDesc(
		prometheus.BuildFQName(c.namespace, subsystem, "persisted_entries"),
		"Number of decodable entries in the persistent store.",
		nil, nil,
	)
	c.scrapeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: subsystem,
		Name:      "scrape_errors_total",
		Help:      "Total number of scrapes that failed to read cache statistics.",
	})
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.hitRate
	ch <- c.persistedBytes
	ch <- c.persistedEntries
	c.scrapeErrors.Describe(ch)
}

// Collect implements prometheus.Collector. A failed statistics read only
// advances the scrape error counter; partial values are never reported.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	defer c.scrapeErrors.Collect(ch)

	ctx, cancel := context.WithTimeout(context.Background(), c.scrapeTimeout)
	defer cancel()

	stats, err := c.manager.Stats(ctx)
	if err != nil {
		c.scrapeErrors.Inc()
		return
	}

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.hitRate, prometheus.GaugeValue, stats.HitRate)
	ch <- prometheus.MustNewConstMetric(c.persistedBytes, prometheus.GaugeValue, float64(stats.TotalSize))
	ch <- prometheus.MustNewConstMetric(c.persistedEntries, prometheus.GaugeValue, float64(stats.ItemCount))
}
