package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "represent_cache_hits_total",
		Help: "Cache hits by store implementation.",
	}, []string{"store"})
	missesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "represent_cache_misses_total",
		Help: "Cache misses by store implementation.",
	}, []string{"store"})
)
