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
	"fmt"
	"strconv"

	"github.com/lukasdietrich/minismtp/internal/textproto"
)

// Code is a three-digit smtp reply code.
type Code int

// Reply codes as specified in RFC#5321 4.2.3
const (
	CodeReady        Code = 220
	CodeClosing      Code = 221
	CodeOK           Code = 250
	CodeStartData    Code = 354
	CodeLocalError   Code = 451
	CodeUnrecognized Code = 500
	CodeSyntax       Code = 501
	CodeBadSequence  Code = 503
)

var reasonPhrases = map[Code]string{
	CodeReady:        "Service ready",
	CodeClosing:      "Service closing transmission channel",
	CodeOK:           "Requested mail action okay, completed",
	CodeStartData:    "Start mail input end <CRLF>.<CRLF>",
	CodeLocalError:   "Requested action aborted: local error in processing",
	CodeUnrecognized: "Syntax error, command unrecognized",
	CodeSyntax:       "Syntax error in parameters or arguments",
	CodeBadSequence:  "Bad sequence of commands",
}

// ReasonPhrase returns the canonical text for a reply code. Every code emitted
// by this package is registered, so an unknown code is a programming error and
// causes a panic.
func ReasonPhrase(code Code) string {
	phrase, ok := reasonPhrases[code]
	if !ok {
		panic(fmt.Sprintf("smtp: no reason phrase for code %d", code))
	}

	return phrase
}

// Reply is a single status line sent to the client.
type Reply struct {
	Code Code
}

// Closes reports whether the connection has to be closed after the reply is
// delivered.
func (r Reply) Closes() bool {
	return r.Code == CodeClosing
}

func (r Reply) String() string {
	return strconv.Itoa(int(r.Code)) + " " + ReasonPhrase(r.Code)
}

func (r Reply) writeTo(w textproto.Writer) error {
	w.WriteString(r.String()) // nolint:errcheck
	w.Endline()               // nolint:errcheck

	return w.Flush()
}
