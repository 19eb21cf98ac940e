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
	"github.com/lukasdietrich/minismtp/internal/mails"
)

// Machine validates commands and moves sessions between states. It holds no
// per-session data and is safe for concurrent use with distinct sessions.
type Machine struct {
	policies Policies
}

// NewMachine creates a state machine using the given argument policies.
func NewMachine(policies Policies) *Machine {
	return &Machine{policies: policies}
}

// Handle applies a single command to the session. The second return value is
// false for content lines, which are collected without a reply.
func (m *Machine) Handle(s *Session, c Command) (Reply, bool) {
	if s.state == StateDataCollecting && !isEndOfData(c) {
		s.collect(c.String())
		return Reply{}, false
	}

	next, code := m.dispatch(s, c)

	if next == StateDataComplete && s.state == StateDataCollecting {
		s.complete()
		next = StateIdle
	}

	s.state = next
	return Reply{Code: code}, true
}

func isEndOfData(c Command) bool {
	return c.Keyword == KeywordDot && len(c.Params) == 0
}

func (m *Machine) dispatch(s *Session, c Command) (State, Code) {
	if code, ok := m.check(s.state, c); !ok {
		return s.state, code
	}

	switch c.Keyword {
	case KeywordQUIT:
		s.reset()
		return StateIdle, CodeClosing

	case KeywordNOOP:
		return s.state, CodeOK

	case KeywordRSET:
		s.reset()
		return StateIdle, CodeOK
	}

	switch s.state {
	case StateIdle:
		return m.idle(s, c)
	case StateGreeted:
		return m.greeted(s, c)
	case StateSenderSet:
		return m.senderSet(s, c)
	case StateRecipientSet:
		return m.recipientSet(s, c)
	case StateDataCollecting:
		return m.dataCollecting(s, c)
	case StateDataComplete:
		return m.dataComplete(s, c)
	}

	return s.state, CodeBadSequence
}

// check runs the validation shared by all states: vocabulary, sequence and
// argument shape, in that order.
func (m *Machine) check(state State, c Command) (Code, bool) {
	switch {
	case !c.Keyword.Recognized():
		return CodeUnrecognized, false
	case !state.permits(c.Keyword):
		return CodeBadSequence, false
	case !m.wellFormed(c):
		return CodeSyntax, false
	}

	return CodeOK, true
}

func (m *Machine) wellFormed(c Command) bool {
	switch c.Keyword {
	case KeywordEHLO:
		return len(c.Params) == 1 && m.policies.Helo(c.Params[0])

	case KeywordMAIL, KeywordRCPT:
		if len(c.Params) != 1 || !m.policies.Address(c.Params[0]) {
			return false
		}

		_, err := mails.ParseAddress(c.Params[0])
		return err == nil

	default:
		return len(c.Params) == 0
	}
}

func (m *Machine) idle(s *Session, c Command) (State, Code) {
	if c.Keyword == KeywordEHLO {
		return greet(s, c)
	}

	return s.state, CodeBadSequence
}

func (m *Machine) greeted(s *Session, c Command) (State, Code) {
	switch c.Keyword {
	case KeywordEHLO:
		return greet(s, c)

	case KeywordMAIL:
		s.envelope.From, _ = mails.ParseAddress(c.Params[0])
		return StateSenderSet, CodeOK
	}

	return s.state, CodeBadSequence
}

func (m *Machine) senderSet(s *Session, c Command) (State, Code) {
	switch c.Keyword {
	case KeywordEHLO:
		return greet(s, c)

	case KeywordRCPT:
		return addRecipient(s, c)
	}

	return s.state, CodeBadSequence
}

func (m *Machine) recipientSet(s *Session, c Command) (State, Code) {
	switch c.Keyword {
	case KeywordEHLO:
		return greet(s, c)

	case KeywordRCPT:
		return addRecipient(s, c)

	case KeywordDATA:
		s.content.Reset()
		return StateDataCollecting, CodeStartData
	}

	return s.state, CodeBadSequence
}

// dataCollecting only sees the end-of-data line, all other lines are content.
func (m *Machine) dataCollecting(s *Session, c Command) (State, Code) {
	if isEndOfData(c) {
		return StateDataComplete, CodeOK
	}

	return s.state, CodeBadSequence
}

// dataComplete is left as soon as it is entered, but it still answers like
// any state with nothing but the base commands.
func (m *Machine) dataComplete(s *Session, c Command) (State, Code) {
	if c.Keyword == KeywordEHLO {
		return greet(s, c)
	}

	return s.state, CodeBadSequence
}

// greet starts over with a new client identity, see RFC#5321 4.1.4
func greet(s *Session, c Command) (State, Code) {
	s.reset()
	s.envelope.Helo = c.Params[0]

	return StateGreeted, CodeOK
}

func addRecipient(s *Session, c Command) (State, Code) {
	to, _ := mails.ParseAddress(c.Params[0])
	s.envelope.To = append(s.envelope.To, to)

	return StateRecipientSet, CodeOK
}
