package gamesession

import (
	"github.com/eskrenkovic/movie-duel/internal/modules/game-session/domain"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	sessionsCreated prometheus.Counter
	actions         *prometheus.CounterVec
	gamesFinished   prometheus.Counter
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "movie_duel",
			Name:      "sessions_created_total",
			Help:      "Number of game sessions created.",
		}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "movie_duel",
			Name:      "actions_total",
			Help:      "Number of successful turn actions by action kind.",
		}, []string{"action"}),
		gamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "movie_duel",
			Name:      "games_finished_total",
			Help:      "Number of games that reached the finished state.",
		}),
	}

	registerer.MustRegister(m.sessionsCreated, m.actions, m.gamesFinished)

	return m
}

// The recorders below accept a nil receiver so handlers can run without
// metrics in tests.

func (m *Metrics) SessionCreated() {
	if m == nil {
		return
	}
	m.sessionsCreated.Inc()
}

func (m *Metrics) ActionPerformed(action domain.Action, session domain.Session) {
	if m == nil {
		return
	}

	m.actions.WithLabelValues(string(action)).Inc()
	if session.Status == domain.StatusFinished {
		m.gamesFinished.Inc()
	}
}
