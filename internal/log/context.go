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

package log

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type fieldConnection struct{}
type fieldOrigin struct{}
type fieldCommand struct{}
type fieldState struct{}

// WithConnection attaches the id of a network connection.
func WithConnection(ctx context.Context, connection int32) context.Context {
	return context.WithValue(ctx, fieldConnection{}, connection)
}

// Connection returns the connection id attached to ctx.
func Connection(ctx context.Context) (int32, bool) {
	connection, ok := ctx.Value(fieldConnection{}).(int32)
	return connection, ok
}

// WithOrigin attaches the name of the component producing log events.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, fieldOrigin{}, origin)
}

// WithCommand attaches the keyword of the command being processed.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, fieldCommand{}, command)
}

// WithState attaches the protocol state a command is processed in.
func WithState(ctx context.Context, state fmt.Stringer) context.Context {
	return context.WithValue(ctx, fieldState{}, state)
}

func appendContextFields(ctx context.Context, event *zerolog.Event) *zerolog.Event {
	if connection, ok := Connection(ctx); ok {
		event.Int32("connection", connection)
	}

	if origin, ok := ctx.Value(fieldOrigin{}).(string); ok {
		event.Str("origin", origin)
	}

	if command, ok := ctx.Value(fieldCommand{}).(string); ok {
		event.Str("command", command)
	}

	if state, ok := ctx.Value(fieldState{}).(fmt.Stringer); ok {
		event.Str("state", state.String())
	}

	return event
}
