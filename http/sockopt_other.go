//go:build !darwin && !linux

package http

import (
	"errors"
	"syscall"
)

var errReusePortUnsupported = errors.New("http: SO_REUSEPORT is not supported on this platform")

func (s *Server) control(network, address string, c syscall.RawConn) error {
	if s.ReusePort {
		return errReusePortUnsupported
	}
	return nil
}
