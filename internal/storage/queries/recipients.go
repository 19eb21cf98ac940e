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

package queries

import (
	"github.com/lukasdietrich/minismtp/internal/storage"
)

// InsertRecipient adds a forward path to a mail.
func InsertRecipient(tx *storage.Tx, recipient *storage.Recipient) error {
	const query = `
		insert into "recipients" (
			"mail_id" ,
			"forward_path"
		) values (
			:mail_id ,
			:forward_path
		) ;
	`

	result, err := tx.NamedExec(query, recipient)
	if err != nil {
		return err
	}

	recipient.ID, err = result.LastInsertId()
	return err
}

// FindRecipientsByMail returns the recipients of a mail in the order they
// were added.
func FindRecipientsByMail(tx *storage.Tx, mailID string) ([]storage.Recipient, error) {
	const query = `
		select *
		from "recipients"
		where "mail_id" = $1
		order by "id" asc ;
	`

	var recipientSlice []storage.Recipient
	return recipientSlice, tx.Select(&recipientSlice, query, mailID)
}
