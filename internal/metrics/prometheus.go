// Copyright (C) 2020  Lukas Dietrich <lukas@lukasdietrich.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "minismtp"

// PrometheusCollector exports the recorded values as prometheus metrics.
type PrometheusCollector struct {
	sessionsTotal  prometheus.Counter
	sessionsActive prometheus.Gauge
	commandsTotal  *prometheus.CounterVec
	repliesTotal   *prometheus.CounterVec
	messagesTotal  *prometheus.CounterVec
	messagesSize   prometheus.Histogram
}

// NewPrometheusCollector creates all metrics and registers them with reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of smtp sessions opened.",
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of currently open smtp sessions.",
		}),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total number of command lines processed.",
		}, []string{"keyword"}),
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Total number of replies sent.",
		}, []string{"code"}),
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of completed messages.",
		}, []string{"result"}),
		messagesSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "messages_size_bytes",
			Help:      "Size of spooled messages in bytes.",
			Buckets:   []float64{256, 1024, 10240, 102400, 1048576, 10485760},
		}),
	}

	reg.MustRegister(
		c.sessionsTotal,
		c.sessionsActive,
		c.commandsTotal,
		c.repliesTotal,
		c.messagesTotal,
		c.messagesSize,
	)

	return c
}

func (c *PrometheusCollector) SessionOpened() {
	c.sessionsTotal.Inc()
	c.sessionsActive.Inc()
}

func (c *PrometheusCollector) SessionClosed() {
	c.sessionsActive.Dec()
}

func (c *PrometheusCollector) CommandProcessed(keyword string) {
	c.commandsTotal.WithLabelValues(keyword).Inc()
}

func (c *PrometheusCollector) ReplySent(code int) {
	c.repliesTotal.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (c *PrometheusCollector) MessageAccepted(size int64) {
	c.messagesTotal.WithLabelValues("spooled").Inc()
	c.messagesSize.Observe(float64(size))
}

func (c *PrometheusCollector) SpoolFailed() {
	c.messagesTotal.WithLabelValues("failed").Inc()
}
