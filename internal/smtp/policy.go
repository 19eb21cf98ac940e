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
	"regexp"

	"github.com/spf13/viper"
)

const (
	// DefaultHelo is the only client identity accepted by default.
	DefaultHelo = "127.0.0.1"

	// DefaultAddressPattern accepts a local part of word characters with at
	// most one "." or "_" inside, and a domain of at least two dot separated
	// labels of word characters.
	DefaultAddressPattern = `^\w+[._]?\w*@\w+(\.\w+)+$`
)

func init() {
	viper.SetDefault("smtp.helo", DefaultHelo)
	viper.SetDefault("smtp.addresspattern", DefaultAddressPattern)
}

// Policy decides whether a single command parameter is acceptable.
type Policy func(param string) bool

// LiteralPolicy accepts exactly one literal value.
func LiteralPolicy(literal string) Policy {
	return func(param string) bool {
		return param == literal
	}
}

// PatternPolicy accepts values matching the complete pattern.
func PatternPolicy(pattern *regexp.Regexp) Policy {
	return func(param string) bool {
		return pattern.MatchString(param)
	}
}

// Policies are the argument rules applied by the state machine.
type Policies struct {
	// Helo validates the client identity of EHLO.
	Helo Policy
	// Address validates the mailbox of MAIL and RCPT.
	Address Policy
}

// DefaultPolicies returns the built-in rules.
func DefaultPolicies() Policies {
	return Policies{
		Helo:    LiteralPolicy(DefaultHelo),
		Address: PatternPolicy(regexp.MustCompile(DefaultAddressPattern)),
	}
}

// PoliciesFromViper builds the policies from the configuration.
func PoliciesFromViper() (Policies, error) {
	pattern, err := regexp.Compile(viper.GetString("smtp.addresspattern"))
	if err != nil {
		return Policies{}, err
	}

	return Policies{
		Helo:    LiteralPolicy(viper.GetString("smtp.helo")),
		Address: PatternPolicy(pattern),
	}, nil
}
