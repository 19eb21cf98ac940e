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

package smtp

import (
	"bytes"

	"github.com/lukasdietrich/minismtp/internal/mails"
)

// State is the protocol state of a session.
type State uint

// Session states in the order of a successful transaction.
const (
	StateIdle State = iota
	StateGreeted
	StateSenderSet
	StateRecipientSet
	StateDataCollecting
	StateDataComplete
)

func (s State) String() string {
	return [...]string{
		"idle",
		"greeted",
		"sender-set",
		"recipient-set",
		"data-collecting",
		"data-complete",
	}[s]
}

var baseCommands = []Keyword{KeywordRSET, KeywordEHLO, KeywordQUIT, KeywordNOOP}

// progressCommands lists the commands leading towards the next state. Together
// with the base commands they are all that a state permits.
var progressCommands = [...][]Keyword{
	StateIdle:           {KeywordEHLO},
	StateGreeted:        {KeywordMAIL},
	StateSenderSet:      {KeywordRCPT},
	StateRecipientSet:   {KeywordRCPT, KeywordDATA},
	StateDataCollecting: {KeywordDot},
	StateDataComplete:   nil,
}

func (s State) permits(k Keyword) bool {
	for _, allowed := range baseCommands {
		if allowed == k {
			return true
		}
	}

	for _, allowed := range progressCommands[s] {
		if allowed == k {
			return true
		}
	}

	return false
}

// Session is the protocol state of one connection. A Session must not be
// shared between goroutines.
type Session struct {
	state    State
	envelope mails.Envelope
	content  bytes.Buffer
	accepted *mails.Message
}

// NewSession creates a session in the idle state.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Envelope returns the transaction collected so far.
func (s *Session) Envelope() mails.Envelope {
	return s.envelope
}

// Accepted returns the message completed by the last end-of-data line and
// forgets it. The second return value is false if there is none.
func (s *Session) Accepted() (*mails.Message, bool) {
	msg := s.accepted
	s.accepted = nil

	return msg, msg != nil
}

// reset discards the transaction including the client identity.
func (s *Session) reset() {
	s.envelope = mails.Envelope{}
	s.content.Reset()
}

func (s *Session) collect(line string) {
	s.content.WriteString(line)
	s.content.WriteString("\r\n")
}

func (s *Session) complete() {
	content := make([]byte, s.content.Len())
	copy(content, s.content.Bytes())

	s.accepted = &mails.Message{
		Envelope: s.envelope,
		Content:  content,
	}

	s.reset()
}
