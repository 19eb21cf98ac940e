// Copyright (C) 2018  Lukas Dietrich <lukas@lukasdietrich.com>
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

package textproto

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/lukasdietrich/minismtp/internal/log"
)

// Server accepts connections and hands each of them to a Protocol.
type Server interface {
	// Listen will open a new tcp listener and block until an error occurs
	// or the context is cancelled. An error is either returned when trying to
	// bind the given address or whenever accepting a new connection fails.
	Listen(ctx context.Context, addr string) error

	// Serve is like Listen, but uses an existing listener. The listener is
	// closed when Serve returns.
	Serve(ctx context.Context, l net.Listener) error
}

// Protocol is the consumer of connections.
type Protocol interface {
	// Handle is supposed to consume a connection and manage all traffic
	// over it. Once Handle returns, the underlying network connection is
	// automatically closed by the server.
	Handle(Conn)
}

type server struct {
	proto Protocol

	connections int32
	wg          sync.WaitGroup
}

// NewServer creates a server running proto for every connection.
func NewServer(proto Protocol) Server {
	return &server{
		proto: proto,
	}
}

func (s *server) Listen(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().
		Str("address", l.Addr().String()).
		Msg("listening")

	return s.Serve(ctx, l)
}

func (s *server) Serve(ctx context.Context, l net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)

	defer s.wg.Wait()
	defer cancel()

	go func() {
		<-ctx.Done()
		l.Close() // nolint:errcheck
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Temporary() { // nolint:staticcheck
				log.Warn().Err(err).Msg("temporary error accepting connection")
				continue
			}

			return err
		}

		id := atomic.AddInt32(&s.connections, 1)

		s.wg.Add(1)
		go s.handle(ctx, conn, id)
	}
}

func (s *server) handle(ctx context.Context, conn net.Conn, id int32) {
	defer s.wg.Done()
	defer conn.Close() // nolint:errcheck

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			conn.Close() // nolint:errcheck
		case <-done:
		}
	}()

	wrapped := wrapConn(ctx, conn, id)

	log.DebugContext(wrapped.Context()).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("connection accepted")

	s.proto.Handle(wrapped)
}
