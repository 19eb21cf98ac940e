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
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/lukasdietrich/minismtp/internal/mails"
	"github.com/lukasdietrich/minismtp/internal/metrics"
	"github.com/lukasdietrich/minismtp/internal/textproto"
)

type mockSpooler struct {
	mock.Mock
}

func (m *mockSpooler) Accept(ctx context.Context, msg *mails.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func TestProtoTestSuite(t *testing.T) {
	suite.Run(t, new(ProtoTestSuite))
}

type ProtoTestSuite struct {
	suite.Suite

	spool  *mockSpooler
	cancel context.CancelFunc
	result chan error

	conn   net.Conn
	reader *bufio.Reader
}

func (s *ProtoTestSuite) SetupTest() {
	s.spool = new(mockSpooler)

	proto := New(DefaultPolicies(), s.spool, metrics.NoopCollector{}, ProtoOptions{
		Timeout: time.Second,
	})

	l, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.result = make(chan error, 1)

	go func() {
		s.result <- textproto.NewServer(proto).Serve(ctx, l)
	}()

	conn, err := net.Dial("tcp", l.Addr().String())
	s.Require().NoError(err)

	s.conn = conn
	s.reader = bufio.NewReader(conn)
	s.expect("220 Service ready")
}

func (s *ProtoTestSuite) TearDownTest() {
	s.conn.Close() // nolint:errcheck
	s.cancel()
	s.Assert().NoError(<-s.result)

	mock.AssertExpectationsForObjects(s.T(), s.spool)
}

func (s *ProtoTestSuite) send(lines ...string) {
	for _, line := range lines {
		_, err := s.conn.Write([]byte(line + "\r\n"))
		s.Require().NoError(err)
	}
}

func (s *ProtoTestSuite) expect(reply string) {
	line, err := s.reader.ReadString('\n')
	s.Require().NoError(err)
	s.Assert().Equal(reply, strings.TrimRight(line, "\r\n"))
}

func (s *ProtoTestSuite) expectClosed() {
	_, err := s.reader.ReadString('\n')
	s.Assert().Error(err)
}

func (s *ProtoTestSuite) TestQuit() {
	s.send("QUIT")
	s.expect("221 Service closing transmission channel")
	s.expectClosed()
}

func (s *ProtoTestSuite) TestRejections() {
	s.send("HELO 127.0.0.1")
	s.expect("500 Syntax error, command unrecognized")

	s.send("MAIL a@b.com")
	s.expect("503 Bad sequence of commands")

	s.send("EHLO example.com")
	s.expect("501 Syntax error in parameters or arguments")

	s.send("NOOP")
	s.expect("250 Requested mail action okay, completed")
}

func (s *ProtoTestSuite) TestTransaction() {
	accepted := make(chan *mails.Message, 1)

	s.spool.
		On("Accept", mock.Anything, mock.AnythingOfType("*mails.Message")).
		Run(func(args mock.Arguments) { accepted <- args.Get(1).(*mails.Message) }).
		Return("mail-1", nil).
		Once()

	s.send("EHLO 127.0.0.1")
	s.expect("250 Requested mail action okay, completed")
	s.send("MAIL alice@example.com")
	s.expect("250 Requested mail action okay, completed")
	s.send("RCPT bob@example.com")
	s.expect("250 Requested mail action okay, completed")
	s.send("DATA")
	s.expect("354 Start mail input end <CRLF>.<CRLF>")

	s.send("Subject: Hi", "", "Hello Bob")
	s.send(".")
	s.expect("250 Requested mail action okay, completed")

	msg := <-accepted
	s.Assert().Equal("127.0.0.1", msg.Envelope.Helo)
	s.Assert().Equal("alice@example.com", msg.Envelope.From.String())
	s.Require().Len(msg.Envelope.To, 1)
	s.Assert().Equal("bob@example.com", msg.Envelope.To[0].String())
	s.Assert().Equal(s.conn.LocalAddr().String(), msg.Envelope.Addr)
	s.Assert().False(msg.Envelope.Date.IsZero())
	s.Assert().Equal("Subject: Hi\r\n\r\nHello Bob\r\n", string(msg.Content))

	s.send("MAIL alice@example.com")
	s.expect("503 Bad sequence of commands")
}

func (s *ProtoTestSuite) TestSpoolFailure() {
	s.spool.
		On("Accept", mock.Anything, mock.Anything).
		Return("", errors.New("disk full")).
		Once()

	s.send("EHLO 127.0.0.1", "MAIL alice@example.com", "RCPT bob@example.com", "DATA")

	for i := 0; i < 3; i++ {
		s.expect("250 Requested mail action okay, completed")
	}

	s.expect("354 Start mail input end <CRLF>.<CRLF>")

	s.send("Hello", ".")
	s.expect("451 Requested action aborted: local error in processing")
	s.expectClosed()
}

func (s *ProtoTestSuite) TestConnectionLost() {
	s.send("EHLO 127.0.0.1")
	s.expect("250 Requested mail action okay, completed")

	s.Require().NoError(s.conn.(*net.TCPConn).CloseWrite())
	s.expectClosed()
}

func (s *ProtoTestSuite) TestLongContentLine() {
	long := strings.Repeat("x", 100*1024)
	accepted := make(chan *mails.Message, 1)

	s.spool.
		On("Accept", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { accepted <- args.Get(1).(*mails.Message) }).
		Return("mail-1", nil).
		Once()

	s.send("EHLO 127.0.0.1", "MAIL alice@example.com", "RCPT bob@example.com", "DATA")

	for i := 0; i < 3; i++ {
		s.expect("250 Requested mail action okay, completed")
	}

	s.expect("354 Start mail input end <CRLF>.<CRLF>")

	s.send(long, ".")
	s.expect("250 Requested mail action okay, completed")

	msg := <-accepted
	s.Assert().Equal(long+"\r\n", string(msg.Content))
}
