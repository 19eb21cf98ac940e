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

// InsertMail stores the metadata of a new mail.
func InsertMail(tx *storage.Tx, mail *storage.Mail) error {
	const query = `
		insert into "mails" (
			"id" ,
			"received_at" ,
			"helo" ,
			"remote_addr" ,
			"return_path" ,
			"size"
		) values (
			:id ,
			:received_at ,
			:helo ,
			:remote_addr ,
			:return_path ,
			:size
		) ;
	`

	_, err := tx.NamedExec(query, mail)
	return err
}

// FindMails returns all mails, oldest first.
func FindMails(tx *storage.Tx) ([]storage.Mail, error) {
	const query = `
		select *
		from "mails"
		order by "received_at" asc, "id" asc ;
	`

	var mailSlice []storage.Mail
	return mailSlice, tx.Select(&mailSlice, query)
}

// FindMail returns the mail with the given id.
func FindMail(tx *storage.Tx, id string) (*storage.Mail, error) {
	const query = `
		select *
		from "mails"
		where "id" = $1 ;
	`

	var mail storage.Mail
	return &mail, tx.Get(&mail, query, id)
}

// DeleteMail removes a mail and, by cascade, its recipients.
func DeleteMail(tx *storage.Tx, id string) error {
	const query = `
		delete from "mails"
		where "id" = $1 ;
	`

	_, err := tx.Exec(query, id)
	return err
}
