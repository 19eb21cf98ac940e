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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	cmd := ParseCommand("NOOP")

	assert.Equal(t, KeywordNOOP, cmd.Keyword)
	assert.Nil(t, cmd.Params)

	cmd = ParseCommand("MAIL foo@bar.com")

	assert.Equal(t, KeywordMAIL, cmd.Keyword)
	assert.Equal(t, []string{"foo@bar.com"}, cmd.Params)
}

func TestParseCommandSingleParameter(t *testing.T) {
	cmd := ParseCommand("RCPT a@b.com c@d.com")

	assert.Equal(t, KeywordRCPT, cmd.Keyword)
	assert.Equal(t, []string{"a@b.com c@d.com"}, cmd.Params)

	cmd = ParseCommand("EHLO ")

	assert.Equal(t, KeywordEHLO, cmd.Keyword)
	assert.Equal(t, []string{""}, cmd.Params)
}

func TestCommandString(t *testing.T) {
	for _, line := range []string{
		"",
		".",
		"NOOP",
		"EHLO ",
		"Subject:  two spaces",
		"QUIT now please",
	} {
		assert.Equal(t, line, ParseCommand(line).String())
	}
}

func TestKeywordRecognized(t *testing.T) {
	for _, k := range []Keyword{"EHLO", "MAIL", "RCPT", "DATA", ".", "RSET", "NOOP", "QUIT"} {
		assert.True(t, k.Recognized(), string(k))
	}

	for _, k := range []Keyword{"", "XYZZY", "HELO", "ehlo", "Quit", "VRFY", ".."} {
		assert.False(t, k.Recognized(), string(k))
	}
}
