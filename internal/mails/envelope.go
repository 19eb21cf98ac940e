// Copyright (C) 2019  Lukas Dietrich <lukas@lukasdietrich.com>
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

package mails

import (
	"time"
)

// Envelope is the transaction data collected before the content.
type Envelope struct {
	// Helo is the string provided by an smtp client when greeting the server.
	Helo string
	// Addr is the remote address of the sender.
	Addr string
	// Date is the time when the data transmission ended.
	Date time.Time
	// From is the email-address of the sender.
	From Address
	// To is a list of recipient email-addresses.
	To []Address
}

// Message is an accepted transaction.
type Message struct {
	Envelope Envelope
	// Content holds the lines received after DATA, each terminated by <CR> <LF>.
	Content []byte
}

// Size is the length of the content in bytes.
func (m *Message) Size() int64 {
	return int64(len(m.Content))
}
