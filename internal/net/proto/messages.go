// Package proto defines the binary wire format exchanged between the
// interaction client and the waypoint server.
//
// Every frame starts with a two-byte header [version][type] followed by the
// payload fields in declaration order, big-endian. Strings carry a uint16
// length prefix. Decoding is strict: truncated frames, oversized fields and
// trailing bytes all fail with an explicit error so a malformed frame can
// never yield a partially populated value.
package proto

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/maltiez2/vsmod-mapmarkers/marker"
)

// Version tracks the wire-protocol revision expected by clients.
const Version = 1

const headerSize = 2

// MessageType identifies the payload carried by a frame.
type MessageType uint8

const (
	// Client to server.
	MsgWaypointRequest MessageType = 0x01
	MsgWaypointRemove  MessageType = 0x02

	// Server to client.
	MsgWaypointList MessageType = 0x10
)

var (
	// ErrTruncated reports a frame shorter than its declared layout.
	ErrTruncated = errors.New("proto: truncated frame")
	// ErrTrailingBytes reports leftover bytes after a complete payload.
	ErrTrailingBytes = errors.New("proto: trailing bytes after payload")
	// ErrStringTooLong reports a string field longer than the uint16
	// length prefix can carry.
	ErrStringTooLong = errors.New("proto: string field exceeds 65535 bytes")
	// ErrTooManyWaypoints reports a list longer than the uint16 count
	// prefix can carry.
	ErrTooManyWaypoints = errors.New("proto: waypoint list exceeds 65535 entries")
)

// WaypointRequest asks the server to place a marker at a world position.
type WaypointRequest struct {
	Position   marker.Position
	Appearance marker.Appearance
}

// WaypointRemove asks the server to delete the sender's waypoint nearest to
// the given position.
type WaypointRemove struct {
	Position marker.Position
}

// WaypointList carries the sender's current waypoints after a change.
type WaypointList struct {
	Waypoints []marker.Waypoint
}

// MessageKind reads the frame header and returns the payload type without
// decoding the payload itself.
func MessageKind(data []byte) (MessageType, error) {
	if len(data) < headerSize {
		return 0, ErrTruncated
	}
	if data[0] != Version {
		return 0, fmt.Errorf("proto: unsupported protocol version %d", data[0])
	}
	return MessageType(data[1]), nil
}

// EncodeWaypointRequest renders a waypoint request frame.
func EncodeWaypointRequest(msg WaypointRequest) ([]byte, error) {
	w := newFrameWriter(MsgWaypointRequest)
	w.position(msg.Position)
	if err := w.appearance(msg.Appearance); err != nil {
		return nil, err
	}
	return w.bytes(), nil
}

// DecodeWaypointRequest parses a waypoint request frame.
func DecodeWaypointRequest(data []byte) (WaypointRequest, error) {
	var msg WaypointRequest
	r, err := newFrameReader(data, MsgWaypointRequest)
	if err != nil {
		return msg, err
	}
	if msg.Position, err = r.position(); err != nil {
		return WaypointRequest{}, err
	}
	if msg.Appearance, err = r.appearance(); err != nil {
		return WaypointRequest{}, err
	}
	if err := r.finish(); err != nil {
		return WaypointRequest{}, err
	}
	return msg, nil
}

// EncodeWaypointRemove renders a waypoint removal frame.
func EncodeWaypointRemove(msg WaypointRemove) ([]byte, error) {
	w := newFrameWriter(MsgWaypointRemove)
	w.position(msg.Position)
	return w.bytes(), nil
}

// DecodeWaypointRemove parses a waypoint removal frame.
func DecodeWaypointRemove(data []byte) (WaypointRemove, error) {
	var msg WaypointRemove
	r, err := newFrameReader(data, MsgWaypointRemove)
	if err != nil {
		return msg, err
	}
	if msg.Position, err = r.position(); err != nil {
		return WaypointRemove{}, err
	}
	if err := r.finish(); err != nil {
		return WaypointRemove{}, err
	}
	return msg, nil
}

// EncodeWaypointList renders a waypoint list frame.
func EncodeWaypointList(msg WaypointList) ([]byte, error) {
	if len(msg.Waypoints) > math.MaxUint16 {
		return nil, ErrTooManyWaypoints
	}
	w := newFrameWriter(MsgWaypointList)
	w.uint16(uint16(len(msg.Waypoints)))
	for _, wp := range msg.Waypoints {
		w.uint64(wp.ID)
		w.position(wp.Position)
		if err := w.string(wp.Title); err != nil {
			return nil, err
		}
		if err := w.string(wp.Icon); err != nil {
			return nil, err
		}
		w.int32(wp.Color)
		w.bool(wp.Pinned)
		if err := w.string(wp.OwnedBy); err != nil {
			return nil, err
		}
	}
	return w.bytes(), nil
}

// DecodeWaypointList parses a waypoint list frame.
func DecodeWaypointList(data []byte) (WaypointList, error) {
	var msg WaypointList
	r, err := newFrameReader(data, MsgWaypointList)
	if err != nil {
		return msg, err
	}
	count, err := r.uint16()
	if err != nil {
		return WaypointList{}, err
	}
	if count > 0 {
		msg.Waypoints = make([]marker.Waypoint, 0, count)
	}
	for i := 0; i < int(count); i++ {
		var wp marker.Waypoint
		if wp.ID, err = r.uint64(); err != nil {
			return WaypointList{}, err
		}
		if wp.Position, err = r.position(); err != nil {
			return WaypointList{}, err
		}
		if wp.Title, err = r.string(); err != nil {
			return WaypointList{}, err
		}
		if wp.Icon, err = r.string(); err != nil {
			return WaypointList{}, err
		}
		if wp.Color, err = r.int32(); err != nil {
			return WaypointList{}, err
		}
		if wp.Pinned, err = r.bool(); err != nil {
			return WaypointList{}, err
		}
		if wp.OwnedBy, err = r.string(); err != nil {
			return WaypointList{}, err
		}
		msg.Waypoints = append(msg.Waypoints, wp)
	}
	if err := r.finish(); err != nil {
		return WaypointList{}, err
	}
	return msg, nil
}

type frameWriter struct {
	buf bytes.Buffer
}

func newFrameWriter(t MessageType) *frameWriter {
	w := &frameWriter{}
	w.buf.WriteByte(Version)
	w.buf.WriteByte(byte(t))
	return w
}

func (w *frameWriter) bytes() []byte { return w.buf.Bytes() }

func (w *frameWriter) position(p marker.Position) {
	w.float64(p.X)
	w.float64(p.Y)
	w.float64(p.Z)
}

func (w *frameWriter) appearance(a marker.Appearance) error {
	if err := w.string(a.Title); err != nil {
		return err
	}
	if err := w.string(a.Icon); err != nil {
		return err
	}
	if err := w.string(a.Color); err != nil {
		return err
	}
	w.bool(a.Pinned)
	w.float32(a.CoverageRadius)
	return nil
}

func (w *frameWriter) string(s string) error {
	if len(s) > math.MaxUint16 {
		return ErrStringTooLong
	}
	w.uint16(uint16(len(s)))
	w.buf.WriteString(s)
	return nil
}

func (w *frameWriter) bool(v bool) {
	if v {
		w.buf.WriteByte(1)
		return
	}
	w.buf.WriteByte(0)
}

func (w *frameWriter) uint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *frameWriter) int32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

func (w *frameWriter) uint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *frameWriter) float32(v float32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	w.buf.Write(b[:])
}

func (w *frameWriter) float64(v float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

type frameReader struct {
	r *bytes.Reader
}

func newFrameReader(data []byte, want MessageType) (*frameReader, error) {
	got, err := MessageKind(data)
	if err != nil {
		return nil, err
	}
	if got != want {
		return nil, fmt.Errorf("proto: unexpected message type %#02x, want %#02x", uint8(got), uint8(want))
	}
	return &frameReader{r: bytes.NewReader(data[headerSize:])}, nil
}

func (r *frameReader) finish() error {
	if r.r.Len() != 0 {
		return ErrTrailingBytes
	}
	return nil
}

func (r *frameReader) position() (marker.Position, error) {
	var p marker.Position
	var err error
	if p.X, err = r.float64(); err != nil {
		return marker.Position{}, err
	}
	if p.Y, err = r.float64(); err != nil {
		return marker.Position{}, err
	}
	if p.Z, err = r.float64(); err != nil {
		return marker.Position{}, err
	}
	return p, nil
}

func (r *frameReader) appearance() (marker.Appearance, error) {
	var a marker.Appearance
	var err error
	if a.Title, err = r.string(); err != nil {
		return marker.Appearance{}, err
	}
	if a.Icon, err = r.string(); err != nil {
		return marker.Appearance{}, err
	}
	if a.Color, err = r.string(); err != nil {
		return marker.Appearance{}, err
	}
	if a.Pinned, err = r.bool(); err != nil {
		return marker.Appearance{}, err
	}
	if a.CoverageRadius, err = r.float32(); err != nil {
		return marker.Appearance{}, err
	}
	return a, nil
}

func (r *frameReader) string() (string, error) {
	n, err := r.uint16()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return "", ErrTruncated
	}
	return string(b), nil
}

func (r *frameReader) bool() (bool, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return false, ErrTruncated
	}
	return b != 0, nil
}

func (r *frameReader) uint16() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, ErrTruncated
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (r *frameReader) int32() (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, ErrTruncated
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

func (r *frameReader) uint64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, ErrTruncated
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func (r *frameReader) float32() (float32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, ErrTruncated
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b[:])), nil
}

func (r *frameReader) float64() (float64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, ErrTruncated
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b[:])), nil
}
