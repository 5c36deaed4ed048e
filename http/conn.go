package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	badRequestBody = "Bad Request"
	incompleteBody = "Incomplete HTTP request"

	// write buffers above this size are released after the response is sent
	maxRetainedWriteBuffer = 64 * 1024
)

// conn is the state of one connection loop. Only its own goroutine touches it.
type conn struct {
	server  *Server
	netConn net.Conn
	id      uuid.UUID
	ctx     context.Context

	rbuf   []byte
	filled int
	wbuf   []byte

	reqCtx RequestCtx
}

func newConn(s *Server, netConn net.Conn) *conn {
	c := &conn{
		server:  s,
		netConn: netConn,
		id:      uuid.New(),
		ctx:     s.ctx,
		rbuf:    make([]byte, s.ReadBufferSize),
	}
	c.reqCtx.ConnID = c.id
	c.reqCtx.RemoteAddr = netConn.RemoteAddr()
	c.reqCtx.ctx = c.ctx
	return c
}

func (c *conn) serve() error {
	for {
		if c.filled == len(c.rbuf) {
			c.server.metrics.rejected(c.ctx, ParsePartial)
			return c.writeError(incompleteBody, ErrRequestTooLarge)
		}

		if err := c.read(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		done, err := c.process()
		if err != nil || done {
			return err
		}
	}
}

// read issues a single read that appends to the bytes already buffered.
func (c *conn) read() error {
	if c.server.IdleTimeout > 0 {
		if err := c.netConn.SetReadDeadline(time.Now().Add(c.server.IdleTimeout)); err != nil {
			return fmt.Errorf("http: set read deadline: %w", err)
		}
	}

	n, err := c.netConn.Read(c.rbuf[c.filled:])
	c.filled += n
	if n > 0 || err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	return fmt.Errorf("http: read: %w", err)
}

// process answers every complete request in the buffer. It reports true
// when the connection must be closed.
func (c *conn) process() (bool, error) {
	for c.filled > 0 {
		c.reqCtx.Reset()
		req, res := &c.reqCtx.Request, &c.reqCtx.Response

		n, err := req.Parse(c.rbuf[:c.filled])
		switch status := ParseStatusOf(err); status {
		case ParsePartial:
			return false, nil
		case ParseMalformed:
			c.server.metrics.rejected(c.ctx, status)
			return true, c.writeError(badRequestBody, err)
		}

		keepAlive := req.KeepAlive()
		c.server.Handler(&c.reqCtx)
		if v, found := res.HeaderValue("Connection"); found && strings.EqualFold(v, "close") {
			keepAlive = false
		}
		if !keepAlive {
			res.SetHeader("Connection", "close")
		}

		if err := c.write(res, bytes.Equal(req.Method, methodHead)); err != nil {
			return true, err
		}

		// The request view is no longer referenced; drop its bytes.
		c.filled = copy(c.rbuf, c.rbuf[n:c.filled])

		if !keepAlive {
			return true, nil
		}
	}
	return false, nil
}

// writeError sends a 400 response that closes the connection and returns
// cause, joined with any write failure.
func (c *conn) writeError(body string, cause error) error {
	res := &c.reqCtx.Response
	res.Reset()
	res.WithStatus(StatusBadRequest).WithText(body)
	res.SetHeader("Connection", "close")

	if err := c.write(res, false); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// write sends res. Responses to HEAD carry the headers of the full
// response but no body.
func (c *conn) write(res *Response, headOnly bool) error {
	if headOnly {
		c.wbuf = res.AppendHeadTo(c.wbuf[:0], c.server.now())
	} else {
		c.wbuf = res.AppendTo(c.wbuf[:0], c.server.now())
	}

	if c.server.WriteTimeout > 0 {
		if err := c.netConn.SetWriteDeadline(time.Now().Add(c.server.WriteTimeout)); err != nil {
			return fmt.Errorf("http: set write deadline: %w", err)
		}
	}

	err := writeFull(c.netConn, c.wbuf)
	if cap(c.wbuf) > maxRetainedWriteBuffer {
		c.wbuf = nil
	}
	if err != nil {
		return err
	}

	c.server.metrics.responded(c.ctx, res.Status)
	return nil
}

// writeFull writes b completely, retrying short writes.
func writeFull(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		b = b[n:]
		if err != nil {
			return fmt.Errorf("http: write: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("http: write: %w", io.ErrShortWrite)
		}
	}
	return nil
}
