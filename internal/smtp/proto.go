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

package smtp

import (
	"context"
	"time"

	"github.com/spf13/viper"

	"github.com/lukasdietrich/minismtp/internal/log"
	"github.com/lukasdietrich/minismtp/internal/mails"
	"github.com/lukasdietrich/minismtp/internal/metrics"
	"github.com/lukasdietrich/minismtp/internal/textproto"
)

func init() {
	viper.SetDefault("smtp.timeout", "5m")
}

// Spooler takes over accepted messages.
type Spooler interface {
	Accept(ctx context.Context, msg *mails.Message) (string, error)
}

// ProtoOptions configure the connection handling.
type ProtoOptions struct {
	// Timeout limits how long a single read or write may block.
	Timeout time.Duration
}

// ProtoOptionsFromViper reads the protocol options from the configuration.
func ProtoOptionsFromViper() ProtoOptions {
	return ProtoOptions{
		Timeout: viper.GetDuration("smtp.timeout"),
	}
}

// Proto is a smtp server protocol implementation.
type Proto struct {
	machine   *Machine
	spool     Spooler
	collector metrics.Collector
	timeout   time.Duration
}

// New creates a new Protocol instance to be used with a textproto Server.
func New(
	policies Policies,
	spool Spooler,
	collector metrics.Collector,
	opts ProtoOptions,
) *Proto {
	return &Proto{
		machine:   NewMachine(policies),
		spool:     spool,
		collector: collector,
		timeout:   opts.Timeout,
	}
}

// Handle greets the client and feeds every line into a new session until the
// client quits or the connection is lost.
func (p *Proto) Handle(c textproto.Conn) {
	p.collector.SessionOpened()
	defer p.collector.SessionClosed()

	ctx := log.WithOrigin(c.Context(), "smtp")
	log.InfoContext(ctx).
		Str("remoteAddr", c.RemoteAddr().String()).
		Msg("starting session")

	if err := p.reply(c, Reply{Code: CodeReady}); err != nil {
		log.DebugContext(ctx).Err(err).Msg("could not greet client")
		return
	}

	if err := p.loop(ctx, c, NewSession()); err != nil {
		log.InfoContext(ctx).Err(err).Msg("connection lost")
		return
	}

	log.InfoContext(ctx).Msg("session closed")
}

func (p *Proto) loop(ctx context.Context, c textproto.Conn, s *Session) error {
	for {
		if p.timeout > 0 {
			c.SetReadTimeout(p.timeout) // nolint:errcheck
		}

		cmd, err := readCommand(c)
		if err != nil {
			return err
		}

		reply, ok := p.machine.Handle(s, cmd)
		if !ok {
			continue
		}

		ctx := log.WithState(log.WithCommand(ctx, string(cmd.Keyword)), s.State())
		p.collector.CommandProcessed(commandLabel(cmd.Keyword))

		if msg, ok := s.Accepted(); ok {
			if err := p.spoolMessage(ctx, c, msg); err != nil {
				log.ErrorContext(ctx).Err(err).Msg("could not spool message")
				p.collector.SpoolFailed()

				// the transaction is gone, the client has to try again later
				reply = Reply{Code: CodeLocalError}
			}
		}

		log.DebugContext(ctx).
			Int("reply", int(reply.Code)).
			Msg("command handled")

		if err := p.reply(c, reply); err != nil {
			return err
		}

		if reply.Closes() || reply.Code == CodeLocalError {
			return nil
		}
	}
}

func (p *Proto) spoolMessage(ctx context.Context, c textproto.Conn, msg *mails.Message) error {
	msg.Envelope.Addr = c.RemoteAddr().String()
	msg.Envelope.Date = time.Now()

	id, err := p.spool.Accept(ctx, msg)
	if err != nil {
		return err
	}

	log.InfoContext(ctx).
		Str("mail", id).
		Msg("message accepted")

	p.collector.MessageAccepted(msg.Size())
	return nil
}

func (p *Proto) reply(c textproto.Conn, r Reply) error {
	if p.timeout > 0 {
		c.SetWriteTimeout(p.timeout) // nolint:errcheck
	}

	p.collector.ReplySent(int(r.Code))
	return r.writeTo(c)
}

func commandLabel(k Keyword) string {
	if k.Recognized() {
		return string(k)
	}

	return "unrecognized"
}
