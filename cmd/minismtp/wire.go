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

// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/lukasdietrich/minismtp/internal/crypto"
	"github.com/lukasdietrich/minismtp/internal/delivery"
	"github.com/lukasdietrich/minismtp/internal/metrics"
	"github.com/lukasdietrich/minismtp/internal/smtp"
	"github.com/lukasdietrich/minismtp/internal/storage"
)

var wireSet = wire.NewSet(
	wire.Struct(new(startCommand), "*"),
	wire.Struct(new(shellCommand), "*"),
	wire.Bind(new(smtp.Spooler), new(*delivery.Spool)),

	crypto.WireSet,
	storage.WireSet,
	delivery.WireSet,
	metrics.WireSet,
	smtp.WireSet,
)

func newStartCommand() (*startCommand, error) {
	panic(wire.Build(wireSet))
}

func newShellCommand() (*shellCommand, error) {
	panic(wire.Build(wireSet))
}
