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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/lukasdietrich/minismtp/internal/log"
	"github.com/lukasdietrich/minismtp/internal/metrics"
	"github.com/lukasdietrich/minismtp/internal/smtp"
	"github.com/lukasdietrich/minismtp/internal/storage"
	"github.com/lukasdietrich/minismtp/internal/textproto"
)

func init() {
	viper.SetDefault("smtp.address", "127.0.0.1:9400")
}

type startCommand struct {
	Database *storage.Database
	Proto    *smtp.Proto
	Metrics  metrics.Server
}

func (s *startCommand) run() error {
	defer s.Database.Close() // nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return s.Metrics.Start(ctx)
	})

	group.Go(func() error {
		return textproto.NewServer(s.Proto).Listen(ctx, viper.GetString("smtp.address"))
	})

	err := group.Wait()
	log.Info().Msg("server stopped")

	return err
}
