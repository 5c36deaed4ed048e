package http

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	responseBaseOverhead   = len("HTTP/1.1 000 \r\n\r\n") + 32 // status line, final CRLF, reason
	responseHeaderOverhead = len(": \r\n")
	injectedHeaderOverhead = len("Content-Length: 00000000000000000000\r\n") + len("Date: ") + len(TimeFormat) + 2
)

// Header is one response header, written exactly as supplied.
type Header struct {
	Name  string
	Value string
}

type Response struct {
	Status  uint16
	Headers []Header
	Body    []byte
}

func (res *Response) Reset() {
	res.Status = StatusOK
	res.Headers = res.Headers[:0]
	res.Body = res.Body[:0]
}

// SetHeader replaces the first header named name, compared
// case-insensitively, or appends a new one.
func (res *Response) SetHeader(name, value string) {
	for i := range res.Headers {
		if strings.EqualFold(res.Headers[i].Name, name) {
			res.Headers[i].Value = value
			return
		}
	}
	res.Headers = append(res.Headers, Header{Name: name, Value: value})
}

func (res *Response) AddHeader(name, value string) {
	res.Headers = append(res.Headers, Header{Name: name, Value: value})
}

func (res *Response) HeaderValue(name string) (string, bool) {
	for _, h := range res.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

func (res *Response) HasHeader(name string) bool {
	_, found := res.HeaderValue(name)
	return found
}

func (res *Response) WithStatus(status uint16) *Response {
	res.Status = status
	return res
}

func (res *Response) WithText(payload string) *Response {
	res.SetHeader("Content-Type", "text/plain")
	res.Body = append(res.Body[:0], payload...)
	return res
}

func (res *Response) WithBytes(contentType string, payload []byte) *Response {
	res.SetHeader("Content-Type", contentType)
	res.Body = append(res.Body[:0], payload...)
	return res
}

// EstimateSize returns the expected serialized size of res.
func (res *Response) EstimateSize() int {
	size := responseBaseOverhead + injectedHeaderOverhead + len(res.Body)
	for _, h := range res.Headers {
		size += len(h.Name) + len(h.Value) + responseHeaderOverhead
	}
	return size
}

// AppendTo appends the HTTP/1.1 wire form of res to dst. Content-Length and
// Date are injected, in that order, when the handler did not set them.
func (res *Response) AppendTo(dst []byte, now time.Time) []byte {
	dst = slices.Grow(dst, res.EstimateSize())
	dst = res.AppendHeadTo(dst, now)
	return append(dst, res.Body...)
}

// AppendHeadTo appends the status line and headers of res, up to and
// including the blank line. Content-Length still describes Body, which is
// how a response to HEAD is framed.
func (res *Response) AppendHeadTo(dst []byte, now time.Time) []byte {
	dst = append(dst, "HTTP/1.1 "...)
	dst = strconv.AppendUint(dst, uint64(res.Status), 10)
	dst = append(dst, ' ')
	dst = append(dst, StatusText(res.Status)...)
	dst = append(dst, crlf...)

	hasContentLength, hasDate := false, false
	for _, h := range res.Headers {
		switch {
		case strings.EqualFold(h.Name, "Content-Length"):
			hasContentLength = true
		case strings.EqualFold(h.Name, "Date"):
			hasDate = true
		}
		dst = append(dst, h.Name...)
		dst = append(dst, ": "...)
		dst = append(dst, h.Value...)
		dst = append(dst, crlf...)
	}

	if !hasContentLength {
		dst = append(dst, "Content-Length: "...)
		dst = strconv.AppendInt(dst, int64(len(res.Body)), 10)
		dst = append(dst, crlf...)
	}
	if !hasDate {
		dst = append(dst, "Date: "...)
		dst = now.UTC().AppendFormat(dst, TimeFormat)
		dst = append(dst, crlf...)
	}

	return append(dst, crlf...)
}

// Serialize returns the wire form of res in a newly allocated slice.
func (res *Response) Serialize(now time.Time) []byte {
	return res.AppendTo(make([]byte, 0, res.EstimateSize()), now)
}
