package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrlokans/bookreviews/internal/entities"
)

// Snapshotter is the read side of the store.
type Snapshotter interface {
	Snapshot() *entities.Snapshot
}

// StoreCollector reports entity counts read from the store at scrape time.
type StoreCollector struct {
	store Snapshotter

	users    *prometheus.Desc
	books    *prometheus.Desc
	reviews  *prometheus.Desc
	upcoming *prometheus.Desc
	clock    func() entities.Timestamp
}

func NewStoreCollector(store Snapshotter, clock func() entities.Timestamp) *StoreCollector {
	if clock == nil {
		clock = entities.Now
	}
	return &StoreCollector{
		store:    store,
		clock:    clock,
		users:    prometheus.NewDesc(prometheus.BuildFQName(namespace, "store", "users"), "Number of registered users.", nil, nil),
		books:    prometheus.NewDesc(prometheus.BuildFQName(namespace, "store", "books"), "Number of published books.", nil, nil),
		reviews:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "store", "reviews"), "Number of reviews.", nil, nil),
		upcoming: prometheus.NewDesc(prometheus.BuildFQName(namespace, "store", "upcoming_books"), "Number of books not yet released.", nil, nil),
	}
}

func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.users
	ch <- c.books
	ch <- c.reviews
	ch <- c.upcoming
}

func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.store.Snapshot()
	now := c.clock()

	upcoming := 0
	for _, b := range snap.Books {
		if b.IsUpcoming(now) {
			upcoming++
		}
	}

	ch <- prometheus.MustNewConstMetric(c.users, prometheus.GaugeValue, float64(len(snap.Users)))
	ch <- prometheus.MustNewConstMetric(c.books, prometheus.GaugeValue, float64(len(snap.Books)))
	ch <- prometheus.MustNewConstMetric(c.reviews, prometheus.GaugeValue, float64(len(snap.Reviews)))
	ch <- prometheus.MustNewConstMetric(c.upcoming, prometheus.GaugeValue, float64(upcoming))
}
