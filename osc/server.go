package osc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"runtime"
	"time"
)

// HandlerFunc is called once for every message decoded from a received
// packet, with the address of the sender.
type HandlerFunc func(msg *Message, addr net.Addr)

// Server represents an OSC server. The server listens on Addr for incoming
// OSC packets and hands every decoded message to Handler.
type Server struct {
	Addr        string
	Handler     HandlerFunc
	ReadTimeout time.Duration
	Logger      *slog.Logger
}

// ListenAndServe binds Addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.ListenPacket(ctx, "udp", s.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	return s.Serve(ctx, ln)
}

// Serve retrieves incoming OSC packets from the given connection and
// dispatches the decoded messages, in order, on the calling goroutine.
// Malformed packets are logged and skipped. Serve returns ctx.Err() once ctx
// is cancelled, or the first non-timeout network error.
func (s *Server) Serve(ctx context.Context, c net.PacketConn) error {
	stop := context.AfterFunc(ctx, func() {
		// Unblock the pending ReadFrom.
		_ = c.SetReadDeadline(time.Now())
	})
	defer stop()

	log := s.logger()
	for {
		msgs, addr, err := s.ReceivePacketFromConn(c)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) {
				if ne.Timeout() {
					continue
				}
				return err
			}
			log.Warn("skipping malformed OSC packet", "from", addr, "err", err)
		}

		for _, msg := range msgs {
			s.serve(msg, addr)
		}
	}
}

func (s *Server) serve(m *Message, a net.Addr) {
	defer func() {
		if err := recover(); err != nil {
			buf := make([]byte, 64<<10)
			buf = buf[:runtime.Stack(buf, false)]
			s.logger().Error("panic handling OSC message", "from", a, "address", m.Address, "panic", err, "stack", string(buf))
		}
	}()
	if s.Handler != nil {
		s.Handler(m, a)
	}
}

// ReceivePacketFromConn reads one datagram from c and decodes it. On a
// decode error the messages that did decode are still returned.
func (s *Server) ReceivePacketFromConn(c net.PacketConn) ([]*Message, net.Addr, error) {
	return s.readFromConnection(c)
}

// readFromConnection retrieves OSC packets.
func (s *Server) readFromConnection(c net.PacketConn) ([]*Message, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	b := bufPool.Get().(*[]byte)
	defer bufPool.Put(b)

	n, a, err := c.ReadFrom(*b)
	if err != nil {
		return nil, a, err
	}

	// Decoded arguments never alias the buffer.
	msgs, err := ParsePacket((*b)[:n])
	return msgs, a, err
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
