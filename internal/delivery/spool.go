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

package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/lukasdietrich/minismtp/internal/log"
	"github.com/lukasdietrich/minismtp/internal/mails"
	"github.com/lukasdietrich/minismtp/internal/storage"
	"github.com/lukasdietrich/minismtp/internal/storage/queries"
)

var (
	// ErrDuplicateID is returned when a generated mail id is already taken.
	ErrDuplicateID = errors.New("delivery: duplicate mail id")
)

// Spool keeps accepted messages. The content goes to the blob store, the
// envelope to the database.
type Spool struct {
	database *storage.Database
	blobs    storage.Blobs
}

// NewSpool creates a new Spool.
func NewSpool(database *storage.Database, blobs storage.Blobs) *Spool {
	return &Spool{
		database: database,
		blobs:    blobs,
	}
}

// Accept stores msg and returns its id. Either both content and envelope are
// stored or neither.
func (s *Spool) Accept(ctx context.Context, msg *mails.Message) (string, error) {
	from, to, err := normalizeEnvelope(msg.Envelope)
	if err != nil {
		return "", err
	}

	id, size, err := s.blobs.Write(ctx, bytes.NewReader(msg.Content))
	if err != nil {
		return "", err
	}

	tx, err := s.database.BeginTx(ctx)
	if err != nil {
		s.removeBlob(ctx, id)
		return "", err
	}

	defer tx.RollbackWith(func() { s.removeBlob(ctx, id) }) // nolint:errcheck

	mail := storage.Mail{
		ID:         id,
		ReceivedAt: msg.Envelope.Date.Unix(),
		Helo:       msg.Envelope.Helo,
		RemoteAddr: msg.Envelope.Addr,
		ReturnPath: from,
		Size:       size,
	}

	log.InfoContext(ctx).
		Str("mail", id).
		Int("recipients", len(to)).
		Int64("size", size).
		Msg("spooling mail")

	if err := queries.InsertMail(tx, &mail); err != nil {
		if storage.IsErrUnique(err) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}

		return "", err
	}

	for _, forwardPath := range to {
		recipient := storage.Recipient{
			MailID:      id,
			ForwardPath: forwardPath,
		}

		if err := queries.InsertRecipient(tx, &recipient); err != nil {
			return "", err
		}
	}

	return id, tx.Commit()
}

// Remove deletes a mail and its content.
func (s *Spool) Remove(ctx context.Context, id string) error {
	tx, err := s.database.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer tx.Rollback() // nolint:errcheck

	if _, err := queries.FindMail(tx, id); err != nil {
		return err
	}

	if err := queries.DeleteMail(tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return s.blobs.Delete(ctx, id)
}

func (s *Spool) removeBlob(ctx context.Context, id string) {
	log.WarnContext(ctx).
		Str("mail", id).
		Msg("an error occured while spooling, removing content")

	if err := s.blobs.Delete(ctx, id); err != nil {
		log.WarnContext(ctx).
			Str("mail", id).
			Err(err).
			Msg("could not remove content")
	}
}

func normalizeEnvelope(envelope mails.Envelope) (mails.Address, []mails.Address, error) {
	from, err := envelope.From.Normalized()
	if err != nil {
		return from, nil, err
	}

	to := make([]mails.Address, len(envelope.To))

	for i, forwardPath := range envelope.To {
		if to[i], err = forwardPath.Normalized(); err != nil {
			return from, nil, err
		}
	}

	return from, to, nil
}
