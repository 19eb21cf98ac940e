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
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralPolicy(t *testing.T) {
	policy := LiteralPolicy("127.0.0.1")

	assert.True(t, policy("127.0.0.1"))
	assert.False(t, policy("127.0.0.2"))
	assert.False(t, policy(" 127.0.0.1"))
	assert.False(t, policy(""))
}

func TestDefaultAddressPolicyValid(t *testing.T) {
	policy := DefaultPolicies().Address

	for _, addr := range []string{
		"alice@example.com",
		"bob@example.com",
		"john.doe@mail.example.org",
		"john_doe@example.co.uk",
		"a1@b2.c3",
		"x.@example.com",
		"john._doe@example.com",
	} {
		assert.True(t, policy(addr), addr)
	}
}

func TestDefaultAddressPolicyInvalid(t *testing.T) {
	policy := DefaultPolicies().Address

	for _, addr := range []string{
		"",
		"foo@bar..com",
		"foo@bar",
		"foo@bar.",
		"foo+tag@bar.com",
		"foo-bar@bar.com",
		"foo@bar-baz.com",
		"john.do.e@example.com",
		".doe@example.com",
		"@example.com",
		"foo@@example.com",
		"<foo@example.com>",
		"FROM:<foo@example.com>",
		"foo@example.com ",
	} {
		assert.False(t, policy(addr), addr)
	}
}

func TestPoliciesFromViper(t *testing.T) {
	viper.Set("smtp.helo", "mail.example.com")
	viper.Set("smtp.addresspattern", `^\w+@example\.com$`)

	defer func() {
		viper.Set("smtp.helo", DefaultHelo)
		viper.Set("smtp.addresspattern", DefaultAddressPattern)
	}()

	policies, err := PoliciesFromViper()
	require.NoError(t, err)

	assert.True(t, policies.Helo("mail.example.com"))
	assert.False(t, policies.Helo("127.0.0.1"))
	assert.True(t, policies.Address("alice@example.com"))
	assert.False(t, policies.Address("alice@example.org"))
}

func TestPoliciesFromViperInvalidPattern(t *testing.T) {
	viper.Set("smtp.addresspattern", "(")
	defer viper.Set("smtp.addresspattern", DefaultAddressPattern)

	_, err := PoliciesFromViper()
	assert.Error(t, err)
}

func TestPatternPolicy(t *testing.T) {
	policy := PatternPolicy(regexp.MustCompile(`^a+$`))

	assert.True(t, policy("aaa"))
	assert.False(t, policy("aab"))
}
