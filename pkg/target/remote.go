package target

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Remote defaults.
const (
	DefaultRemoteTimeout = 2 * time.Second
	maxResends           = 3

	// drainQuiet is how long the line must stay silent before a
	// connection left mid-exchange is considered in sync again.
	drainQuiet = 20 * time.Millisecond
)

// ErrTargetError indicates the stub answered a request with an Exx reply.
var ErrTargetError = errors.New("target error reply")

// RemoteConfig configures a Remote accessor.
type RemoteConfig struct {
	// PointerBits is the target's pointer width (default 32).
	PointerBits uint

	// ByteOrder of the target (default little endian).
	ByteOrder ByteOrder

	// Timeout bounds each request/response exchange (default 2s).
	Timeout time.Duration
}

// Remote reads memory through a GDB remote serial protocol stub such as
// gdbserver, OpenOCD or pyOCD.
//
// Remote is not safe for concurrent use.
type Remote struct {
	conn   net.Conn
	writer *PacketWriter
	reader *PacketReader
	config RemoteConfig

	// dirty is set when an exchange failed and a late reply may still
	// be in flight.
	dirty bool
}

// DialRemote connects to a stub listening at address (host:port).
func DialRemote(ctx context.Context, address string, config RemoteConfig) (*Remote, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, withDefaults(config).Timeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return NewRemote(conn, config), nil
}

// NewRemote wraps an established connection.
func NewRemote(conn net.Conn, config RemoteConfig) *Remote {
	return &Remote{
		conn:   conn,
		writer: NewPacketWriter(conn),
		reader: NewPacketReader(conn),
		config: withDefaults(config),
	}
}

func withDefaults(c RemoteConfig) RemoteConfig {
	if c.PointerBits == 0 {
		c.PointerBits = 32
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultRemoteTimeout
	}
	return c
}

// Close closes the connection.
func (r *Remote) Close() error {
	return r.conn.Close()
}

// PointerBits implements Accessor.
func (r *Remote) PointerBits() uint {
	return r.config.PointerBits
}

// ReadUnsigned implements Accessor with an 'm addr,length' request.
func (r *Remote) ReadUnsigned(address uint64, widthBits uint) (uint64, error) {
	n, err := byteWidth(widthBits)
	if err != nil {
		return 0, err
	}

	reply, err := r.exchange(fmt.Sprintf("m%x,%x", address, n))
	if err != nil {
		return 0, fmt.Errorf("%w at %#x: %v", ErrMemoryAccess, address, err)
	}

	if len(reply) == 3 && reply[0] == 'E' {
		return 0, fmt.Errorf("%w at %#x: %w %s", ErrMemoryAccess, address, ErrTargetError, reply)
	}

	data, err := hex.DecodeString(reply)
	if err != nil || len(data) != n {
		return 0, fmt.Errorf("%w at %#x: malformed reply %q", ErrMemoryAccess, address, reply)
	}
	return r.config.ByteOrder.decode(data), nil
}

// exchange sends a request and returns the reply payload. The whole
// exchange, resends included, is bounded by the configured timeout.
func (r *Remote) exchange(request string) (reply string, err error) {
	if r.dirty {
		if err := r.drain(); err != nil {
			return "", fmt.Errorf("failed to resynchronize: %w", err)
		}
	}
	defer func() {
		if err != nil {
			r.dirty = true
		}
	}()

	if err := r.conn.SetDeadline(time.Now().Add(r.config.Timeout)); err != nil {
		return "", err
	}
	defer r.conn.SetDeadline(time.Time{})

	acked := false
	for attempt := 0; attempt < maxResends && !acked; attempt++ {
		if err := r.writer.WritePacket([]byte(request)); err != nil {
			return "", err
		}
		ok, err := r.reader.ReadAck()
		if err != nil {
			return "", fmt.Errorf("waiting for ack: %w", err)
		}
		acked = ok
	}
	if !acked {
		return "", ErrNack
	}

	for attempt := 0; attempt < maxResends; attempt++ {
		payload, err := r.reader.ReadPacket()
		if errors.Is(err, ErrBadChecksum) {
			if err := r.writer.WriteAck(false); err != nil {
				return "", err
			}
			continue
		}
		if err != nil {
			return "", fmt.Errorf("waiting for reply: %w", err)
		}
		if err := r.writer.WriteAck(true); err != nil {
			return "", err
		}
		return strings.TrimSpace(string(payload)), nil
	}
	return "", ErrBadChecksum
}

// drain discards whatever a failed exchange left behind: the bytes already
// buffered and anything that arrives until the line has been quiet for
// drainQuiet. It gives up after the configured timeout.
func (r *Remote) drain() error {
	defer r.conn.SetReadDeadline(time.Time{})

	buf := make([]byte, 512)
	giveUp := time.Now().Add(r.config.Timeout)
	for time.Now().Before(giveUp) {
		r.reader.Discard()
		if err := r.conn.SetReadDeadline(time.Now().Add(drainQuiet)); err != nil {
			return err
		}
		if _, err := r.conn.Read(buf); err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				r.dirty = false
				return nil
			}
			return err
		}
	}
	return errors.New("line did not go quiet")
}

// Compile-time interface satisfaction check.
var _ Accessor = (*Remote)(nil)
