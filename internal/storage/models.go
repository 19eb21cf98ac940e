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

package storage

import (
	"github.com/lukasdietrich/minismtp/internal/mails"
)

// Mail is the metadata of an accepted message. The content is kept as a blob
// with the same id.
type Mail struct {
	ID         string        `db:"id"`
	ReceivedAt int64         `db:"received_at"`
	Helo       string        `db:"helo"`
	RemoteAddr string        `db:"remote_addr"`
	ReturnPath mails.Address `db:"return_path"`
	Size       int64         `db:"size"`
}

// Recipient is a single forward path of a mail.
type Recipient struct {
	ID          int64         `db:"id"`
	MailID      string        `db:"mail_id"`
	ForwardPath mails.Address `db:"forward_path"`
}
