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
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lukasdietrich/minismtp/internal/log"
)

// Server exposes the collected metrics.
type Server interface {
	// Start serves until ctx is done.
	Start(ctx context.Context) error
}

// NewServer returns a prometheus http server, or a server doing nothing if
// metrics are disabled.
func NewServer(opts Options) Server {
	if !opts.Enable {
		return NoopServer{}
	}

	return NewPrometheusServer(opts.Address, opts.Path)
}

// PrometheusServer serves the default prometheus registry over http.
type PrometheusServer struct {
	server *http.Server
}

// NewPrometheusServer creates a server handling path on address.
func NewPrometheusServer(address, path string) *PrometheusServer {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	return &PrometheusServer{
		server: &http.Server{
			Addr:    address,
			Handler: mux,
		},
	}
}

func (s *PrometheusServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.server.Addr).
			Msg("serving metrics")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.server.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
