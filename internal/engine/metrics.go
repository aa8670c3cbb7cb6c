package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	tapsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progression_taps_total",
			Help: "Total taps resolved by the engine",
		},
	)
	levelUpsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progression_level_ups_total",
			Help: "Total taps that produced at least one level-up",
		},
	)
	energyRefillsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progression_energy_refills_total",
			Help: "Total refill calls that credited energy",
		},
	)
)

func init() {
	prometheus.MustRegister(tapsTotal, levelUpsTotal, energyRefillsTotal)
}
