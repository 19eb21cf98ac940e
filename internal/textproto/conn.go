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
	"net"
	"time"

	"github.com/lukasdietrich/minismtp/internal/log"
)

// Conn is a line based connection to a single client.
type Conn interface {
	Reader
	Writer

	// Context returns the context of the connection. It carries the
	// connection id for logging and is cancelled when the server stops.
	Context() context.Context

	// RemoteAddr returns the network address of the client.
	RemoteAddr() net.Addr

	// SetReadTimeout sets the deadline for read calls to a time now + x
	SetReadTimeout(time.Duration) error

	// SetWriteTimeout sets the deadline for write calls to a time now + x
	SetWriteTimeout(time.Duration) error
}

type conn struct {
	raw net.Conn
	ctx context.Context

	Reader
	Writer
}

func wrapConn(ctx context.Context, netConn net.Conn, id int32) *conn {
	return &conn{
		raw: netConn,
		ctx: log.WithConnection(ctx, id),

		Reader: newReader(netConn),
		Writer: newWriter(netConn),
	}
}

func (c *conn) Context() context.Context {
	return c.ctx
}

func (c *conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

func (c *conn) SetReadTimeout(d time.Duration) error {
	return c.raw.SetReadDeadline(time.Now().Add(d))
}

func (c *conn) SetWriteTimeout(d time.Duration) error {
	return c.raw.SetWriteDeadline(time.Now().Add(d))
}
