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
	"context"
	"errors"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/lukasdietrich/minismtp/internal/crypto"
	"github.com/lukasdietrich/minismtp/internal/log"
)

var (
	// ErrInvalidBlobID is returned for ids, that cannot be a file name.
	ErrInvalidBlobID = errors.New("storage: invalid blob id")
)

func init() {
	viper.SetDefault("storage.blobs.foldername", "data/blobs")
}

// BlobsOptions configure where blobs are stored.
type BlobsOptions struct {
	Foldername string
}

// BlobsOptionsFromViper reads the blob options from the configuration.
func BlobsOptionsFromViper() BlobsOptions {
	return BlobsOptions{
		Foldername: viper.GetString("storage.blobs.foldername"),
	}
}

// Blobs stores message contents as files.
type Blobs interface {
	// Write stores r under a newly generated id.
	Write(ctx context.Context, r io.Reader) (string, int64, error)
	// Reader opens the blob stored under id.
	Reader(id string) (io.ReadCloser, error)
	// Delete removes the blob stored under id.
	Delete(ctx context.Context, id string) error
}

type fsBlobs struct {
	fs    afero.Fs
	idGen crypto.IDGenerator
}

// NewBlobs creates the blob folder if necessary.
func NewBlobs(fs afero.Fs, idGen crypto.IDGenerator, opts BlobsOptions) (Blobs, error) {
	if err := fs.MkdirAll(opts.Foldername, 0700); err != nil {
		return nil, err
	}

	return fsBlobs{
		fs:    afero.NewBasePathFs(fs, opts.Foldername),
		idGen: idGen,
	}, nil
}

func (b fsBlobs) Write(ctx context.Context, r io.Reader) (string, int64, error) {
	id, err := b.idGen.GenerateID()
	if err != nil {
		return "", -1, err
	}

	f, err := b.fs.Create(id)
	if err != nil {
		return "", -1, err
	}

	log.DebugContext(ctx).
		Str("blob", id).
		Msg("writing blob")

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()         // nolint:errcheck
		b.Delete(ctx, id) // nolint:errcheck

		return "", -1, err
	}

	return id, size, f.Close()
}

func (b fsBlobs) Delete(ctx context.Context, id string) error {
	if err := checkBlobID(id); err != nil {
		return err
	}

	log.DebugContext(ctx).
		Str("blob", id).
		Msg("removing blob")

	return b.fs.Remove(id)
}

func (b fsBlobs) Reader(id string) (io.ReadCloser, error) {
	if err := checkBlobID(id); err != nil {
		return nil, err
	}

	return b.fs.Open(id)
}

func checkBlobID(id string) error {
	if id == "" || id == "." || id == ".." {
		return ErrInvalidBlobID
	}

	for _, r := range id {
		if r == '/' || r == '\\' {
			return ErrInvalidBlobID
		}
	}

	return nil
}
