package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

type poolMetric struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
	read      func(*pgxpool.Stat) float64
}

// poolStatsCollector exports pgxpool statistics on each scrape, so gauges
// are always current without a sampling goroutine.
type poolStatsCollector struct {
	pool    *pgxpool.Pool
	service string
	metrics []poolMetric
}

func newPoolStatsCollector(pool *pgxpool.Pool, service string) *poolStatsCollector {
	labels := []string{"service"}
	gauge := func(name, help string, read func(*pgxpool.Stat) float64) poolMetric {
		return poolMetric{
			desc:      prometheus.NewDesc(prometheus.BuildFQName("storefront", "db_pool", name), help, labels, nil),
			valueType: prometheus.GaugeValue,
			read:      read,
		}
	}
	counter := func(name, help string, read func(*pgxpool.Stat) float64) poolMetric {
		return poolMetric{
			desc:      prometheus.NewDesc(prometheus.BuildFQName("storefront", "db_pool", name), help, labels, nil),
			valueType: prometheus.CounterValue,
			read:      read,
		}
	}

	return &poolStatsCollector{
		pool:    pool,
		service: service,
		metrics: []poolMetric{
			gauge("acquired_connections", "Connections currently checked out",
				func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
			gauge("idle_connections", "Connections sitting idle in the pool",
				func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
			gauge("total_connections", "All connections the pool currently holds",
				func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
			gauge("max_connections", "Configured pool ceiling",
				func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
			counter("acquire_count_total", "Successful connection acquires",
				func(s *pgxpool.Stat) float64 { return float64(s.AcquireCount()) }),
			counter("acquire_duration_seconds_total", "Time spent waiting to acquire connections",
				func(s *pgxpool.Stat) float64 { return s.AcquireDuration().Seconds() }),
			counter("empty_acquire_count_total", "Acquires that had to wait for a free connection",
				func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) }),
			counter("canceled_acquire_count_total", "Acquires canceled by their context",
				func(s *pgxpool.Stat) float64 { return float64(s.CanceledAcquireCount()) }),
			counter("new_connections_total", "Connections opened over the pool's lifetime",
				func(s *pgxpool.Stat) float64 { return float64(s.NewConnsCount()) }),
		},
	}
}

func (c *poolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

func (c *poolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()
	for _, m := range c.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.valueType, m.read(stat), c.service)
	}
}

// RegisterPoolMetrics exposes the order store's pool statistics under the
// storefront_db_pool_* metric names on the default registry.
func RegisterPoolMetrics(pool *pgxpool.Pool, service string) {
	prometheus.MustRegister(newPoolStatsCollector(pool, service))
}
