package http

import (
	"bytes"
	"errors"
)

// HeaderField is one request header. Name and Value alias the read buffer.
type HeaderField struct {
	Name  []byte
	Value []byte
}

// Request is a borrowed view over the connection's read buffer. Every slice
// it holds is invalidated as soon as the buffer is compacted or refilled, so
// it must not be retained past the handler call.
type Request struct {
	Method  []byte
	Target  []byte
	Proto   []byte
	Headers []HeaderField
	Body    []byte

	headers [MaxRequestHeaders]HeaderField
}

// ParseError describes why bytes could not form a request.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return "http: malformed request: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}

func malformed(reason string) error {
	return &ParseError{Reason: reason, Err: ErrMalformed}
}

var (
	errBadMethod        = malformed("invalid method")
	errBadTarget        = malformed("invalid request target")
	errBadVersion       = malformed("unsupported protocol version")
	errBadRequestLine   = malformed("invalid request line")
	errBadHeaderName    = malformed("invalid header name")
	errBadHeaderValue   = malformed("invalid header value")
	errBadContentLength = malformed("invalid content-length")
	errTransferEncoding = malformed("transfer-encoding is not supported")
	errTooManyHeaders   = &ParseError{Reason: "too many headers", Err: ErrTooManyHeaders}
)

type ParseStatus uint8

const (
	ParseComplete ParseStatus = iota
	ParsePartial
	ParseMalformed
)

func (s ParseStatus) String() string {
	switch s {
	case ParseComplete:
		return "complete"
	case ParsePartial:
		return "partial"
	default:
		return "malformed"
	}
}

// ParseStatusOf classifies the error returned by Request.Parse.
func ParseStatusOf(err error) ParseStatus {
	switch {
	case err == nil:
		return ParseComplete
	case errors.Is(err, ErrIncomplete):
		return ParsePartial
	default:
		return ParseMalformed
	}
}

func (req *Request) Reset() {
	req.Method = nil
	req.Target = nil
	req.Proto = nil
	req.Headers = req.headers[:0]
	req.Body = nil
}

// Parse parses a single request from the start of b without copying. On
// success it returns the number of bytes the request occupies, body
// included. It returns ErrIncomplete when b is a valid prefix of a request
// and an error matching ErrMalformed when it can never become one.
func (req *Request) Parse(b []byte) (int, error) {
	req.Reset()

	pos := 0
	for pos < len(b) && (b[pos] == '\r' || b[pos] == '\n') {
		pos++
	}

	n, err := req.parseRequestLine(b[pos:])
	if err != nil {
		return 0, err
	}
	pos += n

	n, err = req.parseHeaders(b[pos:])
	if err != nil {
		return 0, err
	}
	pos += n

	contentLength, err := req.bodyLength()
	if err != nil {
		return 0, err
	}
	if len(b)-pos < contentLength {
		return 0, ErrIncomplete
	}
	if contentLength > 0 {
		req.Body = b[pos : pos+contentLength]
	}

	return pos + contentLength, nil
}

// request-line = method SP request-target SP HTTP-version CRLF
func (req *Request) parseRequestLine(b []byte) (int, error) {
	i := 0
	for ; i < len(b) && b[i] != ' '; i++ {
		if !isTokenByte(b[i]) {
			return 0, errBadMethod
		}
	}
	if i == len(b) {
		return 0, ErrIncomplete
	}
	if i == 0 {
		return 0, errBadMethod
	}
	req.Method = b[:i]
	i++

	start := i
	for ; i < len(b) && b[i] != ' '; i++ {
		if !isTargetByte(b[i]) {
			return 0, errBadTarget
		}
	}
	if i == len(b) {
		return 0, ErrIncomplete
	}
	if i == start {
		return 0, errBadTarget
	}
	req.Target = b[start:i]
	i++

	start = i
	rest := b[start:]
	if len(rest) < len(protocolHttp11) {
		if !bytes.HasPrefix(protocolHttp11, rest) && !bytes.HasPrefix(protocolHttp10, rest) {
			return 0, errBadVersion
		}
		return 0, ErrIncomplete
	}
	proto := rest[:len(protocolHttp11)]
	if !bytes.Equal(proto, protocolHttp11) && !bytes.Equal(proto, protocolHttp10) {
		return 0, errBadVersion
	}
	req.Proto = proto
	i += len(proto)

	n, err := lineEnd(b[i:])
	if err != nil {
		return 0, err
	}
	return i + n, nil
}

// lineEnd expects b to start with CRLF or a bare LF and returns its length.
func lineEnd(b []byte) (int, error) {
	switch {
	case len(b) == 0:
		return 0, ErrIncomplete
	case b[0] == '\n':
		return 1, nil
	case b[0] != '\r':
		return 0, errBadRequestLine
	case len(b) == 1:
		return 0, ErrIncomplete
	case b[1] == '\n':
		return 2, nil
	default:
		return 0, errBadRequestLine
	}
}

func (req *Request) parseHeaders(b []byte) (int, error) {
	pos := 0
	for {
		if pos == len(b) {
			return 0, ErrIncomplete
		}
		if b[pos] == '\r' || b[pos] == '\n' {
			n, err := lineEnd(b[pos:])
			if err != nil {
				return 0, err
			}
			return pos + n, nil
		}

		i := pos
		for ; i < len(b) && b[i] != ':'; i++ {
			if !isTokenByte(b[i]) {
				return 0, errBadHeaderName
			}
		}
		if i == len(b) {
			return 0, ErrIncomplete
		}
		if i == pos {
			return 0, errBadHeaderName
		}
		name := b[pos:i]
		i++

		start := i
		for ; i < len(b) && b[i] != '\r' && b[i] != '\n'; i++ {
			if !isValueByte(b[i]) {
				return 0, errBadHeaderValue
			}
		}
		value := b[start:i]

		n, err := lineEnd(b[i:])
		if err != nil {
			if errors.Is(err, ErrMalformed) {
				return 0, errBadHeaderValue
			}
			return 0, err
		}

		if len(req.Headers) == MaxRequestHeaders {
			return 0, errTooManyHeaders
		}
		req.Headers = append(req.Headers, HeaderField{Name: name, Value: trimOWS(value)})
		pos = i + n
	}
}

func (req *Request) bodyLength() (int, error) {
	length := -1
	for _, h := range req.Headers {
		switch {
		case equalFold(h.Name, headerTransferEncoding):
			return 0, errTransferEncoding
		case equalFold(h.Name, headerContentLength):
			n, ok := atoi(h.Value)
			if !ok || (length >= 0 && n != length) {
				return 0, errBadContentLength
			}
			length = n
		}
	}
	if length < 0 {
		return 0, nil
	}
	return length, nil
}

// Header returns the value of the first header named name, compared
// case-insensitively.
func (req *Request) Header(name string) ([]byte, bool) {
	for _, h := range req.Headers {
		if equalFoldString(h.Name, name) {
			return h.Value, true
		}
	}
	return nil, false
}

// Path returns the request target without its query string.
func (req *Request) Path() []byte {
	if i := bytes.IndexByte(req.Target, '?'); i >= 0 {
		return req.Target[:i]
	}
	return req.Target
}

// KeepAlive reports whether the client allows the connection to be reused.
func (req *Request) KeepAlive() bool {
	v, found := req.Header("Connection")
	if bytes.Equal(req.Proto, protocolHttp10) {
		return found && hasToken(v, headerKeepAlive)
	}
	return !found || !hasToken(v, headerClose)
}

func hasToken(v, token []byte) bool {
	for len(v) > 0 {
		var item []byte
		if i := bytes.IndexByte(v, ','); i >= 0 {
			item, v = v[:i], v[i+1:]
		} else {
			item, v = v, nil
		}
		if equalFold(trimOWS(item), token) {
			return true
		}
	}
	return false
}
