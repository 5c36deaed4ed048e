package http

import (
	"context"
	"net"

	"github.com/google/uuid"
)

// RequestCtx is handed to every Handler. It is owned by a single connection
// and reused for each request on it.
type RequestCtx struct {
	ConnID     uuid.UUID
	RemoteAddr net.Addr

	Request  Request
	Response Response

	ctx context.Context
}

func (reqCtx *RequestCtx) Reset() {
	reqCtx.Request.Reset()
	reqCtx.Response.Reset()
}

// Context returns the connection's context, or context.Background.
func (reqCtx *RequestCtx) Context() context.Context {
	if reqCtx.ctx == nil {
		return context.Background()
	}
	return reqCtx.ctx
}

// SetContext replaces the context seen by handlers further down the chain.
func (reqCtx *RequestCtx) SetContext(ctx context.Context) {
	reqCtx.ctx = ctx
}
