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
	"bufio"
	"io"
)

// MaxLineLength is the longest line a Reader accepts, excluding the line
// ending. Reading a longer line fails with bufio.ErrTooLong.
const MaxLineLength = 1 << 20

// Reader reads lines terminated by <CR> <LF>.
type Reader interface {
	// ReadLine returns the next line without its line ending. The slice is
	// only valid until the next call. io.EOF is returned once the peer closed
	// the connection.
	ReadLine() ([]byte, error)
}

type reader struct {
	buffer *bufio.Scanner
}

func newReader(r io.Reader) *reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), MaxLineLength+2)

	return &reader{
		buffer: scanner,
	}
}

func (r *reader) ReadLine() ([]byte, error) {
	if !r.buffer.Scan() {
		if err := r.buffer.Err(); err != nil {
			return nil, err
		}

		return nil, io.EOF
	}

	return r.buffer.Bytes(), nil
}
