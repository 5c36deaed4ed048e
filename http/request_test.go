package http

import (
	"errors"
	"strings"
	"testing"
	"unsafe"

	"github.com/freekieb7/kiezel/test"
)

const validRequest = "GET /test HTTP/1.1\r\nAccept: text/css\r\nConnection: keep-alive\r\nContent-Length: 0\r\n\r\n"

func TestRequestParse(t *testing.T) {
	var req Request

	reqMsg := []byte(validRequest)

	n, err := req.Parse(reqMsg)
	test.NoError(t, err)
	test.Equal(t, len(reqMsg), n)

	test.Equal(t, "GET", string(req.Method))
	test.Equal(t, "/test", string(req.Target))
	test.Equal(t, "HTTP/1.1", string(req.Proto))
	test.Equal(t, 3, len(req.Headers))

	h, found := req.Header("connection")
	test.True(t, found, "connection header not found")
	test.Equal(t, "keep-alive", string(h))

	test.Equal(t, "Accept", string(req.Headers[0].Name))
	test.Equal(t, "Connection", string(req.Headers[1].Name))
	test.Equal(t, "Content-Length", string(req.Headers[2].Name))
}

func TestRequestParseDoesNotCopy(t *testing.T) {
	var req Request

	buf := []byte("GET /zero HTTP/1.1\r\nHost: example.com\r\n\r\n")
	_, err := req.Parse(buf)
	test.NoError(t, err)

	within := func(b []byte) bool {
		start := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
		p := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
		return p >= start && p+uintptr(len(b)) <= start+uintptr(len(buf))
	}

	test.True(t, within(req.Method), "method is not a view of the buffer")
	test.True(t, within(req.Target), "target is not a view of the buffer")
	test.True(t, within(req.Headers[0].Name), "header name is not a view of the buffer")
	test.True(t, within(req.Headers[0].Value), "header value is not a view of the buffer")
}

func TestRequestParseEveryPrefixIsPartial(t *testing.T) {
	requests := []string{
		validRequest,
		"POST /submit HTTP/1.0\r\nContent-Length: 5\r\n\r\nhello",
		"\r\nGET / HTTP/1.1\nHost: x\n\n",
	}

	var req Request
	for _, raw := range requests {
		for i := 0; i < len(raw); i++ {
			_, err := req.Parse([]byte(raw[:i]))
			if !errors.Is(err, ErrIncomplete) {
				t.Fatalf("prefix %q: expected ErrIncomplete, got %v", raw[:i], err)
			}
		}

		n, err := req.Parse([]byte(raw))
		test.NoError(t, err)
		test.Equal(t, len(raw), n)
	}
}

func TestRequestParseMalformed(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"binary garbage", "\x00\x01\x02"},
		{"leading space", " / HTTP/1.1\r\n\r\n"},
		{"empty target", "GET  HTTP/1.1\r\n\r\n"},
		{"control byte in target", "GET /a\x01b HTTP/1.1\r\n\r\n"},
		{"unknown version", "GET / HTTP/2.0\r\n\r\n"},
		{"not a version", "GET / XTTP"},
		{"junk after version", "GET / HTTP/1.1x\r\n\r\n"},
		{"cr without lf", "GET / HTTP/1.1\rX"},
		{"space in header name", "GET / HTTP/1.1\r\nBad Header: x\r\n\r\n"},
		{"empty header name", "GET / HTTP/1.1\r\n: x\r\n\r\n"},
		{"control byte in value", "GET / HTTP/1.1\r\nX-Test: a\x01b\r\n\r\n"},
		{"folded header", "GET / HTTP/1.1\r\nX-Test: a\r\n b\r\n\r\n"},
		{"bad content-length", "POST / HTTP/1.1\r\nContent-Length: abc\r\n\r\n"},
		{"conflicting content-length", "POST / HTTP/1.1\r\nContent-Length: 1\r\nContent-Length: 2\r\n\r\nab"},
		{"chunked body", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n0\r\n\r\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var req Request

			_, err := req.Parse([]byte(tc.input))
			test.ErrorIs(t, err, ErrMalformed)
			test.Equal(t, ParseMalformed, ParseStatusOf(err))

			var parseErr *ParseError
			test.True(t, errors.As(err, &parseErr), "expected *ParseError")
		})
	}
}

func TestRequestParseHeaderLimit(t *testing.T) {
	build := func(count int) []byte {
		var b strings.Builder
		b.WriteString("GET / HTTP/1.1\r\n")
		for i := 0; i < count; i++ {
			b.WriteString("X-H: v\r\n")
		}
		b.WriteString("\r\n")
		return []byte(b.String())
	}

	var req Request

	_, err := req.Parse(build(MaxRequestHeaders))
	test.NoError(t, err)
	test.Equal(t, MaxRequestHeaders, len(req.Headers))

	_, err = req.Parse(build(MaxRequestHeaders + 1))
	test.ErrorIs(t, err, ErrTooManyHeaders)
	test.ErrorIs(t, err, ErrMalformed)
}

func TestRequestParseBody(t *testing.T) {
	var req Request

	raw := []byte("POST /submit HTTP/1.1\r\nContent-Length: 5\r\n\r\nhelloGET / HTTP/1.1\r\n\r\n")
	n, err := req.Parse(raw)
	test.NoError(t, err)
	test.Equal(t, "hello", string(req.Body))
	test.Equal(t, "GET / HTTP/1.1\r\n\r\n", string(raw[n:]))

	n, err = req.Parse(raw[n:])
	test.NoError(t, err)
	test.Equal(t, 18, n)
	test.Equal(t, 0, len(req.Body))
}

func TestRequestParseStatus(t *testing.T) {
	var req Request

	_, err := req.Parse(nil)
	test.Equal(t, ParsePartial, ParseStatusOf(err))

	_, err = req.Parse([]byte("GET / HTTP/1.1\r\n"))
	test.Equal(t, ParsePartial, ParseStatusOf(err))

	_, err = req.Parse([]byte("GET / HTTP/1.1\r\n\r\n"))
	test.Equal(t, ParseComplete, ParseStatusOf(err))
}

func TestRequestHeaderValueTrimmed(t *testing.T) {
	var req Request

	_, err := req.Parse([]byte("GET / HTTP/1.1\r\nX-Test: \t padded \t\r\n\r\n"))
	test.NoError(t, err)

	v, found := req.Header("x-test")
	test.True(t, found, "x-test header not found")
	test.Equal(t, "padded", string(v))

	_, found = req.Header("x-missing")
	test.True(t, !found, "x-missing should not be found")
}

func TestRequestPath(t *testing.T) {
	testCases := []struct {
		target   string
		expected string
	}{
		{"/", "/"},
		{"/health", "/health"},
		{"/health?verbose=1", "/health"},
		{"/?", "/"},
	}

	for _, tc := range testCases {
		var req Request

		_, err := req.Parse([]byte("GET " + tc.target + " HTTP/1.1\r\n\r\n"))
		test.NoError(t, err)
		test.Equal(t, tc.expected, string(req.Path()))
	}
}

func TestRequestKeepAlive(t *testing.T) {
	testCases := []struct {
		raw      string
		expected bool
	}{
		{"GET / HTTP/1.1\r\n\r\n", true},
		{"GET / HTTP/1.1\r\nConnection: keep-alive\r\n\r\n", true},
		{"GET / HTTP/1.1\r\nConnection: close\r\n\r\n", false},
		{"GET / HTTP/1.1\r\nConnection: Upgrade, Close\r\n\r\n", false},
		{"GET / HTTP/1.0\r\n\r\n", false},
		{"GET / HTTP/1.0\r\nConnection: Keep-Alive\r\n\r\n", true},
	}

	for _, tc := range testCases {
		var req Request

		_, err := req.Parse([]byte(tc.raw))
		test.NoError(t, err)
		if req.KeepAlive() != tc.expected {
			t.Errorf("KeepAlive(%q) = %v, want %v", tc.raw, req.KeepAlive(), tc.expected)
		}
	}
}

func BenchmarkRequestParse(b *testing.B) {
	reqMsg := []byte(validRequest)
	var req Request

	for b.Loop() {
		if _, err := req.Parse(reqMsg); err != nil {
			b.Error(err)
		}
	}
}
