package target

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Packet framing for the GDB remote serial protocol:
//
//	$<payload>#<checksum>
//
// where checksum is the modulo 256 sum of the payload bytes as two hex
// digits. The receiver answers '+' (accepted) or '-' (resend).

// Packet errors.
var (
	// ErrBadChecksum indicates a packet whose checksum did not match.
	ErrBadChecksum = errors.New("packet checksum mismatch")

	// ErrPacketTruncated indicates the stream ended inside a packet.
	ErrPacketTruncated = errors.New("packet truncated")

	// ErrNack indicates the peer kept rejecting a packet.
	ErrNack = errors.New("packet rejected by peer")
)

const (
	packetStart  = '$'
	packetEnd    = '#'
	packetEscape = '}'
	packetRepeat = '*'
	ack          = '+'
	nack         = '-'
)

func checksum(payload []byte) byte {
	var sum byte
	for _, b := range payload {
		sum += b
	}
	return sum
}

// escapePayload escapes the bytes that carry framing meaning.
func escapePayload(payload []byte) []byte {
	out := make([]byte, 0, len(payload))
	for _, b := range payload {
		switch b {
		case packetStart, packetEnd, packetEscape, packetRepeat:
			out = append(out, packetEscape, b^0x20)
		default:
			out = append(out, b)
		}
	}
	return out
}

// PacketWriter frames payloads onto an underlying writer.
type PacketWriter struct {
	w io.Writer
}

// NewPacketWriter creates a new packet writer.
func NewPacketWriter(w io.Writer) *PacketWriter {
	return &PacketWriter{w: w}
}

// WritePacket writes one framed packet.
func (pw *PacketWriter) WritePacket(payload []byte) error {
	body := escapePayload(payload)
	frame := make([]byte, 0, len(body)+4)
	frame = append(frame, packetStart)
	frame = append(frame, body...)
	frame = append(frame, packetEnd)
	frame = append(frame, fmt.Sprintf("%02x", checksum(body))...)

	if _, err := pw.w.Write(frame); err != nil {
		return fmt.Errorf("failed to write packet: %w", err)
	}
	return nil
}

// WriteAck writes a single acknowledgement byte.
func (pw *PacketWriter) WriteAck(ok bool) error {
	b := []byte{ack}
	if !ok {
		b[0] = nack
	}
	_, err := pw.w.Write(b)
	return err
}

// PacketReader reads framed packets from an underlying reader.
type PacketReader struct {
	r *bufio.Reader
}

// NewPacketReader creates a new packet reader.
func NewPacketReader(r io.Reader) *PacketReader {
	return &PacketReader{r: bufio.NewReader(r)}
}

// Discard drops any bytes already buffered from the underlying reader.
func (pr *PacketReader) Discard() {
	pr.r.Discard(pr.r.Buffered())
}

// ReadAck skips to the next '+' or '-' and reports which one it was.
func (pr *PacketReader) ReadAck() (bool, error) {
	for {
		b, err := pr.r.ReadByte()
		if err != nil {
			return false, err
		}
		switch b {
		case ack:
			return true, nil
		case nack:
			return false, nil
		}
	}
}

// ReadPacket skips to the next packet start and returns its decoded payload.
// Escapes and run-length encoding are expanded.
func (pr *PacketReader) ReadPacket() ([]byte, error) {
	for {
		b, err := pr.r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == packetStart {
			break
		}
	}

	var raw []byte
	for {
		b, err := pr.r.ReadByte()
		if err != nil {
			return nil, truncated(err)
		}
		if b == packetEnd {
			break
		}
		raw = append(raw, b)
	}

	var sumText [2]byte
	if _, err := io.ReadFull(pr.r, sumText[:]); err != nil {
		return nil, truncated(err)
	}
	want, err := strconv.ParseUint(string(sumText[:]), 16, 8)
	if err != nil || byte(want) != checksum(raw) {
		return nil, ErrBadChecksum
	}

	return decodePayload(raw)
}

func truncated(err error) error {
	if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrPacketTruncated
	}
	return err
}

func decodePayload(raw []byte) ([]byte, error) {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case packetEscape:
			i++
			if i >= len(raw) {
				return nil, ErrPacketTruncated
			}
			out = append(out, raw[i]^0x20)
		case packetRepeat:
			i++
			if i >= len(raw) || len(out) == 0 {
				return nil, ErrPacketTruncated
			}
			last := out[len(out)-1]
			for n := int(raw[i]) - 29; n > 0; n-- {
				out = append(out, last)
			}
		default:
			out = append(out, raw[i])
		}
	}
	return out, nil
}
