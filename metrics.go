/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"

	"github.com/Seednode/impostor/games/impostor"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is updated from the hub goroutine only.
type Metrics struct {
	registry *prometheus.Registry

	connections  prometheus.Gauge
	rooms        prometheus.Gauge
	members      prometheus.Gauge
	activeRounds prometheus.Gauge

	roomsCreated  prometheus.Counter
	roundsStarted prometheus.Counter
	roundsEnded   prometheus.Counter
}

func newMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "impostor_connections",
			Help: "Open websocket connections.",
		}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "impostor_rooms",
			Help: "Rooms currently open.",
		}),
		members: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "impostor_members",
			Help: "Connections currently in a room.",
		}),
		activeRounds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "impostor_active_rounds",
			Help: "Rooms with a round in progress.",
		}),
		roomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "impostor_rooms_created_total",
			Help: "Rooms created since start.",
		}),
		roundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "impostor_rounds_started_total",
			Help: "Rounds started since start.",
		}),
		roundsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "impostor_rounds_ended_total",
			Help: "Rounds ended by play-again votes since start.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.connections,
		m.rooms,
		m.members,
		m.activeRounds,
		m.roomsCreated,
		m.roundsStarted,
		m.roundsEnded,
	)

	return m
}

func (m *Metrics) RoomCreated()  { m.roomsCreated.Inc() }
func (m *Metrics) RoundStarted() { m.roundsStarted.Inc() }
func (m *Metrics) RoundEnded()   { m.roundsEnded.Inc() }

func (m *Metrics) observe(stats impostor.Stats, connections int) {
	m.connections.Set(float64(connections))
	m.rooms.Set(float64(stats.Rooms))
	m.members.Set(float64(stats.Members))
	m.activeRounds.Set(float64(stats.ActiveRounds))
}

func registerMetricsHandler(cfg *Config, m *Metrics, mux *httprouter.Router) {
	mux.Handler(http.MethodGet, cfg.prefix+"/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
