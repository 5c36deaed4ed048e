package http

import "errors"

const (
	DefaultReadBufferSize = 8 * 1024 // 8kB
	MinReadBufferSize     = 512
	MaxRequestHeaders     = 64

	// TimeFormat is the IMF-fixdate layout of RFC 7231, 7.1.1.1.
	TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
)

var (
	ErrIncomplete      = errors.New("http: incomplete request")
	ErrMalformed       = errors.New("http: malformed request")
	ErrTooManyHeaders  = errors.New("http: too many request headers")
	ErrRequestTooLarge = errors.New("http: request exceeds read buffer")
	ErrServerClosed    = errors.New("http: server closed")
)

// Handler serves one request. It writes into ctx.Response and never fails;
// errors are expressed as 4xx/5xx responses.
type Handler func(ctx *RequestCtx)

var (
	protocolHttp10 = []byte("HTTP/1.0")
	protocolHttp11 = []byte("HTTP/1.1")

	headerContentLength    = []byte("Content-Length")
	headerTransferEncoding = []byte("Transfer-Encoding")
	headerKeepAlive        = []byte("keep-alive")
	headerClose            = []byte("close")

	crlf = []byte("\r\n")

	methodHead = []byte(MethodHead)
)

const (
	MethodGet     = "GET"
	MethodHead    = "HEAD"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodConnect = "CONNECT"
	MethodOptions = "OPTIONS"
	MethodTrace   = "TRACE"
)
