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

package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/lukasdietrich/minismtp/internal/delivery"
	"github.com/lukasdietrich/minismtp/internal/storage"
	"github.com/lukasdietrich/minismtp/internal/storage/queries"
)

type shellCommand struct {
	Database *storage.Database
	Blobs    storage.Blobs
	Spool    *delivery.Spool
}

func (s *shellCommand) run() error {
	defer s.Database.Close() // nolint:errcheck

	shell := ishell.New()
	s.setupShell(shell)
	shell.Run()

	return nil
}

func (s *shellCommand) setupShell(shell *ishell.Shell) {
	shell.AddCmd(composeShellCmd(
		ishell.Cmd{
			Name: "mails",
			Help: "inspect spooled mails",
		},
		[]*ishell.Cmd{
			{
				Name: "list",
				Help: "list all spooled mails",
				Func: s.wrapShellFunc(s.mailsList),
			},
			{
				Name: "show",
				Help: "print the envelope and content of a mail",
				Func: s.wrapShellFunc(s.mailsShow),
			},
			{
				Name: "remove",
				Help: "remove a mail from the spool",
				Func: s.mailsRemove,
			},
		},
	))
}

func (s *shellCommand) mailsList(ctx shellContext) error {
	if !ctx.checkArgs(0) {
		return errors.New("Usage: mails list")
	}

	mails, err := queries.FindMails(ctx.tx)
	if err != nil {
		return err
	}

	ctx.printf("\n(%d) Mails:\n", len(mails))
	for _, mail := range mails {
		ctx.printf("\t%s\t%s\t%q\t%d bytes\n",
			mail.ID,
			formatTime(mail.ReceivedAt),
			mail.ReturnPath,
			mail.Size)
	}
	ctx.printf("\n")

	return nil
}

func (s *shellCommand) mailsShow(ctx shellContext) error {
	if !ctx.checkArgs(1) {
		return errors.New("Usage: mails show [ID]")
	}

	mail, err := queries.FindMail(ctx.tx, ctx.arg(0))
	if err != nil {
		return err
	}

	recipients, err := queries.FindRecipientsByMail(ctx.tx, mail.ID)
	if err != nil {
		return err
	}

	ctx.printf("\nMail %s\n", mail.ID)
	ctx.printf("\tReceived: %s\n", formatTime(mail.ReceivedAt))
	ctx.printf("\tHelo:     %s\n", mail.Helo)
	ctx.printf("\tRemote:   %s\n", mail.RemoteAddr)
	ctx.printf("\tFrom:     %s\n", mail.ReturnPath)

	for _, recipient := range recipients {
		ctx.printf("\tTo:       %s\n", recipient.ForwardPath)
	}

	r, err := s.Blobs.Reader(mail.ID)
	if err != nil {
		return err
	}

	defer r.Close()

	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	ctx.printf("\n%s\n", content)
	return nil
}

func (s *shellCommand) mailsRemove(shell *ishell.Context) {
	if len(shell.Args) != 1 {
		shell.Err(errors.New("Usage: mails remove [ID]"))
		return
	}

	id := shell.Args[0]

	if err := s.Spool.Remove(context.Background(), id); err != nil {
		if storage.IsErrNoRows(err) {
			err = errors.New("no such mail")
		}

		shell.Err(err)
		return
	}

	shell.Printf("\n\tMail %q removed.\n\n", id)
}

func formatTime(unix int64) string {
	return time.Unix(unix, 0).Format(time.RFC3339)
}

type shellContext struct {
	shell *ishell.Context
	tx    *storage.Tx
}

func (c *shellContext) checkArgs(n int) bool {
	return len(c.shell.Args) == n
}

func (c *shellContext) arg(i int) string {
	return c.shell.Args[i]
}

func (c *shellContext) printf(format string, v ...interface{}) {
	c.shell.Printf(format, v...)
}

func composeShellCmd(cmd ishell.Cmd, children []*ishell.Cmd) *ishell.Cmd {
	for _, child := range children {
		cmd.AddCmd(child)
	}

	return &cmd
}

func (s *shellCommand) wrapShellFunc(fn func(shellContext) error) func(*ishell.Context) {
	return func(shell *ishell.Context) {
		tx, err := s.Database.BeginTx(context.Background())
		if err != nil {
			shell.Err(err)
			return
		}

		defer tx.Rollback() // nolint:errcheck

		ctx := shellContext{
			shell: shell,
			tx:    tx,
		}

		if err := fn(ctx); err != nil {
			if storage.IsErrNoRows(err) {
				err = errors.New("no such mail")
			}

			shell.Err(err)
			return
		}

		if err := tx.Commit(); err != nil {
			shell.Err(err)
		}
	}
}
