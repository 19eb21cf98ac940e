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
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidAddressFormat is used for addresses of zero length or without
	// an "@" sign.
	ErrInvalidAddressFormat = errors.New("address: invalid format")

	// ZeroAddress is an invalid, zero value Address.
	ZeroAddress Address

	// profile maps domains like idna.Lookup, but permits underscores.
	profile = idna.New(idna.MapForLookup(), idna.StrictDomainName(false))
)

// Address is a mailbox of the form local-part@domain. Whether the parts are
// acceptable is decided by the protocol, not by this type.
type Address struct {
	raw string
	at  int
}

// ParseAddress splits raw at its last "@" sign.
func ParseAddress(raw string) (Address, error) {
	if len(raw) == 0 {
		return ZeroAddress, ErrInvalidAddressFormat
	}

	at := strings.LastIndex(raw, "@")
	if at < 0 {
		return ZeroAddress, ErrInvalidAddressFormat
	}

	return Address{raw, at}, nil
}

// Normalized returns a copy with the domain mapped to its lowercase ASCII
// form. The local part is kept as is.
func (a Address) Normalized() (Address, error) {
	domain, err := DomainToASCII(a.Domain())
	if err != nil {
		return a, err
	}

	return Address{a.LocalPart() + "@" + domain, a.at}, nil
}

func (a Address) String() string {
	return a.raw
}

// LocalPart is everything before the "@" sign.
func (a Address) LocalPart() string {
	return a.raw[:a.at]
}

// Domain is everything after the "@" sign.
func (a Address) Domain() string {
	return a.raw[a.at+1:]
}

// Scan implements sql.Scanner.
func (a *Address) Scan(src interface{}) error {
	var raw string

	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("address: cannot scan %T", src)
	}

	v, err := ParseAddress(raw)
	if err != nil {
		return err
	}

	*a = v
	return nil
}

// Value implements driver.Valuer.
func (a Address) Value() (driver.Value, error) {
	return a.raw, nil
}

// DomainToUnicode maps a domain to its NFC normalized unicode form.
func DomainToUnicode(domain string) (string, error) {
	mapped, err := profile.ToUnicode(domain)
	if err != nil {
		return domain, err
	}

	return norm.NFC.String(mapped), nil
}

// DomainToASCII maps a domain to its punycode form.
func DomainToASCII(domain string) (string, error) {
	mapped, err := DomainToUnicode(domain)
	if err != nil {
		return domain, err
	}

	return profile.ToASCII(mapped)
}
