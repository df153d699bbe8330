package messaging

import "time"

type ServerOpt func(*Server)

// WithStartTimeout sets how long to wait for the embedded server to accept
// connections.
func WithStartTimeout(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.startupTimeout = d
	}
}

// WithHost sets the listen host.
func WithHost(host string) ServerOpt {
	return func(s *Server) {
		s.host = host
	}
}

// WithPort sets the listen port.
func WithPort(port int) ServerOpt {
	return func(s *Server) {
		s.port = port
	}
}
