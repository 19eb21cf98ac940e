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
	"strings"

	"github.com/lukasdietrich/minismtp/internal/textproto"
)

// Keyword is the leading token of a command line. Keywords are case-sensitive.
type Keyword string

// Recognized keywords.
const (
	KeywordEHLO Keyword = "EHLO"
	KeywordMAIL Keyword = "MAIL"
	KeywordRCPT Keyword = "RCPT"
	KeywordDATA Keyword = "DATA"
	KeywordDot  Keyword = "."
	KeywordRSET Keyword = "RSET"
	KeywordNOOP Keyword = "NOOP"
	KeywordQUIT Keyword = "QUIT"
)

var vocabulary = map[Keyword]bool{
	KeywordEHLO: true,
	KeywordMAIL: true,
	KeywordRCPT: true,
	KeywordDATA: true,
	KeywordDot:  true,
	KeywordRSET: true,
	KeywordNOOP: true,
	KeywordQUIT: true,
}

// Recognized reports whether k is part of the command vocabulary.
func (k Keyword) Recognized() bool {
	return vocabulary[k]
}

// Command is a keyword and its parameters.
type Command struct {
	Keyword Keyword
	Params  []string
}

// ParseCommand splits a line without its trailing <CR> <LF> at the first
// space. Everything after the space is kept as a single parameter, even if it
// is empty or contains more spaces.
func ParseCommand(line string) Command {
	space := strings.IndexByte(line, ' ')
	if space < 0 {
		return Command{Keyword: Keyword(line)}
	}

	return Command{
		Keyword: Keyword(line[:space]),
		Params:  []string{line[space+1:]},
	}
}

// String reassembles the line the command was parsed from.
func (c Command) String() string {
	if len(c.Params) == 0 {
		return string(c.Keyword)
	}

	return string(c.Keyword) + " " + strings.Join(c.Params, " ")
}

func readCommand(r textproto.Reader) (Command, error) {
	line, err := r.ReadLine()
	if err != nil {
		return Command{}, err
	}

	return ParseCommand(string(line)), nil
}
