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
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
)

// WireSet contains providers for the collector and the metrics server.
var WireSet = wire.NewSet(
	OptionsFromViper,
	NewCollector,
	NewServer,
)

func init() {
	viper.SetDefault("metrics.enable", false)
	viper.SetDefault("metrics.address", "127.0.0.1:9401")
	viper.SetDefault("metrics.path", "/metrics")
}

// Options configure whether and where metrics are exposed.
type Options struct {
	Enable  bool
	Address string
	Path    string
}

// OptionsFromViper reads the metrics options from the configuration.
func OptionsFromViper() Options {
	return Options{
		Enable:  viper.GetBool("metrics.enable"),
		Address: viper.GetString("metrics.address"),
		Path:    viper.GetString("metrics.path"),
	}
}

// Collector records what happens during smtp sessions.
type Collector interface {
	// SessionOpened is called when a client connects.
	SessionOpened()
	// SessionClosed is called when a session ends for any reason.
	SessionClosed()
	// CommandProcessed counts a command line by its keyword.
	CommandProcessed(keyword string)
	// ReplySent counts a reply by its status code.
	ReplySent(code int)
	// MessageAccepted is called once a message has been spooled.
	MessageAccepted(size int64)
	// SpoolFailed is called when a completed message could not be spooled.
	SpoolFailed()
}

// NewCollector returns a collector registered with the default prometheus
// registry, or a collector doing nothing if metrics are disabled.
func NewCollector(opts Options) Collector {
	if !opts.Enable {
		return NoopCollector{}
	}

	return NewPrometheusCollector(prometheus.DefaultRegisterer)
}
