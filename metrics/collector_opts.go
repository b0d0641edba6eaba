package metrics

import "time"

// Option configures a Collector.
type Option func(*Collector)

// WithNamespace prefixes every metric name with the given namespace,
// producing names like "myapp_bundlecache_hits_total".
func WithNamespace(namespace string) Option {
	return func(c *Collector) {
		c.namespace = namespace
	}
}

// WithScrapeTimeout bounds how long a single scrape may spend reading
// statistics from the underlying store. The default is five seconds.
func WithScrapeTimeout(timeout time.Duration) Option {
	return func(c *Collector) {
		if timeout > 0 {
			c.scrapeTimeout = timeout
		}
	}
}
