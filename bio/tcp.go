package bio

import (
	"errors"
	"io"
	"net"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/spiretrading/beam-sub006/beamerr"
)

// TCPChannelIdentifier names a TCP Channel by its remote address, ported
// from the reference's TcpSocketChannel identifier (typically an
// IpAddress).
type TCPChannelIdentifier struct {
	addr net.Addr
}

func (id TCPChannelIdentifier) String() string { return id.addr.String() }

// TCPConnection is the Connection half of a TCP Channel: Close is
// idempotent, matching Beam's Connection::Close contract.
type TCPConnection struct {
	conn net.Conn
	once sync.Once
	err  error
}

func (c *TCPConnection) Close() error {
	c.once.Do(func() { c.err = c.conn.Close() })
	return c.err
}

// TCPReader is the Reader half of a TCP Channel.
type TCPReader struct {
	conn net.Conn
}

// Poll is always false: net.Conn exposes no portable, non-blocking "would
// this Read block" check, so Reader.Read() is the only way to find out -
// the same limitation Beam's own non-epoll-backed readers document.
func (r *TCPReader) Poll() bool { return false }

func (r *TCPReader) Read(destination []byte) (int, error) {
	n, err := r.conn.Read(destination)
	if err != nil {
		if isEOF(err) {
			return n, beamerr.EndOfFile
		}
		return n, &beamerr.SocketError{Cause: err, Errno: errno(err)}
	}
	return n, nil
}

// TCPWriter is the Writer half of a TCP Channel. mu serializes concurrent
// Write calls from different routines so one caller's payload can never
// interleave with another's on the wire (spec.md §9 "fairness of
// concurrent writes": mutual exclusion, no ordering guarantee beyond it).
type TCPWriter struct {
	conn net.Conn
	mu   sync.Mutex
}

func (w *TCPWriter) Write(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(data) != 0 {
		n, err := w.conn.Write(data)
		if err != nil {
			if isEOF(err) {
				return beamerr.EndOfFile
			}
			return &beamerr.SocketError{Cause: err, Errno: errno(err)}
		}
		data = data[n:]
	}
	return nil
}

// TCPChannel is a Channel over a net.TCPConn, ported from the reference's
// TcpSocketChannel.
type TCPChannel struct {
	identifier TCPChannelIdentifier
	connection *TCPConnection
	reader     *TCPReader
	writer     *TCPWriter
}

// NewTCPChannel wraps an already-established net.Conn as a Channel, tuning
// its socket options via golang.org/x/sys/unix the same way the
// reference's TcpSocketOptions applies SO_RCVBUF/SO_SNDBUF/TCP_NODELAY.
func NewTCPChannel(conn net.Conn) (*TCPChannel, error) {
	if err := tuneTCPSocket(conn); err != nil {
		return nil, err
	}
	return &TCPChannel{
		identifier: TCPChannelIdentifier{addr: conn.RemoteAddr()},
		connection: &TCPConnection{conn: conn},
		reader:     &TCPReader{conn: conn},
		writer:     &TCPWriter{conn: conn},
	}, nil
}

func (c *TCPChannel) Identifier() ChannelIdentifier { return c.identifier }
func (c *TCPChannel) Connection() Connection        { return c.connection }
func (c *TCPChannel) Reader() Reader                { return c.reader }
func (c *TCPChannel) Writer() Writer                { return c.writer }

// tuneTCPSocket applies TCP_NODELAY and generous socket buffers to conn's
// underlying file descriptor, ported from Beam's TcpSocketOptions. Reached
// via (*net.TCPConn).SyscallConn and golang.org/x/sys/unix.SetsockoptInt
// the same way eventloop's fd_unix.go drives its file descriptors directly
// through the unix package, rather than through any net-level wrapper.
func tuneTCPSocket(conn net.Conn) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	if err := tcpConn.SetNoDelay(true); err != nil {
		return &beamerr.SocketError{Cause: err, Errno: errno(err)}
	}
	raw, err := tcpConn.SyscallConn()
	if err != nil {
		return &beamerr.SocketError{Cause: err, Errno: errno(err)}
	}
	const socketBufferSize = 1 << 20
	var sockErr error
	ctrlErr := raw.Control(func(fd uintptr) {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, socketBufferSize); err != nil {
			sockErr = err
			return
		}
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, socketBufferSize); err != nil {
			sockErr = err
		}
	})
	if ctrlErr != nil {
		return &beamerr.SocketError{Cause: ctrlErr, Errno: errno(ctrlErr)}
	}
	if sockErr != nil {
		return &beamerr.SocketError{Cause: sockErr, Errno: errno(sockErr)}
	}
	return nil
}

// TCPServerConnection accepts TCPChannels, ported from the reference's
// TcpServerSocket.
type TCPServerConnection struct {
	listener net.Listener
	once     sync.Once
	err      error
}

// NewTCPServerConnection listens on addr (e.g. "0.0.0.0:9000") and returns
// a ServerConnection accepting TCPChannels.
func NewTCPServerConnection(addr string) (*TCPServerConnection, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, &beamerr.SocketError{Cause: err, Errno: errno(err)}
	}
	return &TCPServerConnection{listener: listener}, nil
}

// Accept blocks the calling routine's goroutine until a connection
// arrives; since net.Listener.Accept already parks on the Go runtime's own
// netpoller rather than spinning an OS thread, it composes transparently
// with routine-scheduled callers without any additional suspension
// plumbing.
func (s *TCPServerConnection) Accept() (Channel, error) {
	conn, err := s.listener.Accept()
	if err != nil {
		if isEOF(err) {
			return nil, beamerr.EndOfFile
		}
		return nil, &beamerr.SocketError{Cause: err, Errno: errno(err)}
	}
	return NewTCPChannel(conn)
}

// Close stops accepting new connections. Idempotent; unblocks any routine
// parked in Accept with beamerr.EndOfFile.
func (s *TCPServerConnection) Close() error {
	s.once.Do(func() { s.err = s.listener.Close() })
	return s.err
}

// Addr returns the address the server is listening on, primarily useful
// when NewTCPServerConnection was given an ephemeral port ("host:0").
func (s *TCPServerConnection) Addr() net.Addr {
	return s.listener.Addr()
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}

func errno(err error) int {
	var se syscall.Errno
	if errors.As(err, &se) {
		return int(se)
	}
	return 0
}
