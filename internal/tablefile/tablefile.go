// Package tablefile reads and writes precomputed lookup tables in a small
// big-endian container:
//
//	[0:4]   checksum of every byte after it
//	[4:8]   tag: 0 flat float32 list, 2 or 3 grid of float32x4 texels
//	[8:..]  count (tag 0) or one size per axis (tags 2, 3)
//	[....]  payload, big-endian float32
package tablefile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

type Tag uint32

const (
	TagFloats Tag = 0
	TagGrid2  Tag = 2
	TagGrid3  Tag = 3
)

const (
	word      = 4
	texelSize = 4 * word
)

// Table is one decoded container. Floats is set for TagFloats, Texels for
// the grid tags, stored row-major (z, y, x).
type Table struct {
	Tag     Tag
	X, Y, Z int
	Floats  []float32
	Texels  [][4]float32
}

func Floats(v []float32) *Table { return &Table{Tag: TagFloats, Floats: v} }

func Grid2(x, y int, texels [][4]float32) *Table {
	return &Table{Tag: TagGrid2, X: x, Y: y, Texels: texels}
}

func Grid3(x, y, z int, texels [][4]float32) *Table {
	return &Table{Tag: TagGrid3, X: x, Y: y, Z: z, Texels: texels}
}

// Dims returns the declared axis sizes of a grid table, nil for a float list.
func (t *Table) Dims() []int {
	switch t.Tag {
	case TagGrid2:
		return []int{t.X, t.Y}
	case TagGrid3:
		return []int{t.X, t.Y, t.Z}
	}
	return nil
}

// Count is the number of texels (or floats) the header declares.
func (t *Table) Count() int {
	if t.Tag == TagFloats {
		return len(t.Floats)
	}
	n := 1
	for _, d := range t.Dims() {
		n *= d
	}
	return n
}

var (
	ErrTruncated = errors.New("unexpected end of data")
	ErrChecksum  = errors.New("checksum mismatch")
	ErrLength    = errors.New("payload length mismatch")
	ErrTag       = errors.New("unknown dimension tag")
)

// DecodeError reports why a container was rejected. Err is one of the Err* sentinels.
type DecodeError struct {
	Path string
	Err  error
	Msg  string
}

func (e *DecodeError) Error() string {
	where := "table"
	if e.Path != "" {
		where = e.Path
	}
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", where, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", where, e.Err, e.Msg)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(err error, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Err: err, Msg: fmt.Sprintf(format, args...)}
}

// Checksum is the wrapping sum of each byte XOR its index.
func Checksum(b []byte) uint32 {
	var sum uint32
	for i, c := range b {
		sum += uint32(c) ^ uint32(i)
	}
	return sum
}

// Encode serializes t, filling in the checksum.
func Encode(t *Table) ([]byte, error) {
	if t == nil {
		return nil, errors.New("encode: nil table")
	}
	var header []int
	switch t.Tag {
	case TagFloats:
		header = []int{len(t.Floats)}
	case TagGrid2, TagGrid3:
		for _, d := range t.Dims() {
			if d <= 0 || uint64(d) > math.MaxUint32 {
				return nil, fmt.Errorf("encode: dimension %d out of range in %v", d, t.Dims())
			}
		}
		if n := t.Count(); n != len(t.Texels) {
			return nil, fmt.Errorf("encode: expected %v = %d texels, but buffer holds %d", t.Dims(), n, len(t.Texels))
		}
		header = t.Dims()
	default:
		return nil, fmt.Errorf("encode: %w %d", ErrTag, t.Tag)
	}

	size := 2*word + len(header)*word + len(t.Floats)*word + len(t.Texels)*texelSize
	buf := make([]byte, 2*word, size)
	binary.BigEndian.PutUint32(buf[word:], uint32(t.Tag))
	for _, h := range header {
		buf = binary.BigEndian.AppendUint32(buf, uint32(h))
	}
	for _, f := range t.Floats {
		buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(f))
	}
	for _, v := range t.Texels {
		for _, f := range v {
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	binary.BigEndian.PutUint32(buf, Checksum(buf[word:]))
	return buf, nil
}

// Decode parses and validates a container. Failures are *DecodeError.
func Decode(b []byte) (*Table, error) {
	if len(b) < 2*word {
		return nil, decodeErr(ErrTruncated, "%d bytes, header needs %d", len(b), 2*word)
	}
	declared, computed := binary.BigEndian.Uint32(b), Checksum(b[word:])
	if declared != computed {
		return nil, decodeErr(ErrChecksum, "declared %d, computed %d", declared, computed)
	}

	tag := Tag(binary.BigEndian.Uint32(b[word:]))
	var axes, stride int
	switch tag {
	case TagFloats:
		axes, stride = 1, word
	case TagGrid2:
		axes, stride = 2, texelSize
	case TagGrid3:
		axes, stride = 3, texelSize
	default:
		return nil, decodeErr(ErrTag, "tag %d", tag)
	}
	head := (2 + axes) * word
	if len(b) < head {
		return nil, decodeErr(ErrTruncated, "%d bytes, tag %d header needs %d", len(b), tag, head)
	}
	payload := b[head:]
	dims := make([]int, axes)
	count := uint64(1)
	for i := range dims {
		d := binary.BigEndian.Uint32(b[(2+i)*word:])
		dims[i] = int(d)
		// saturate, any count beyond the payload is rejected below
		count = min(count*uint64(d), uint64(len(payload))+1)
	}
	if want := count * uint64(stride); uint64(len(payload)) != want {
		if uint64(len(payload)) < want {
			return nil, decodeErr(ErrLength, "payload has %d bytes, header declares %v (%d bytes)", len(payload), dims, want)
		}
		return nil, decodeErr(ErrLength, "%d extraneous bytes", uint64(len(payload))-want)
	}

	f32 := func(off int) float32 { return math.Float32frombits(binary.BigEndian.Uint32(payload[off:])) }
	t := &Table{Tag: tag}
	switch tag {
	case TagFloats:
		t.Floats = make([]float32, int(count))
		for i := range t.Floats {
			t.Floats[i] = f32(i * word)
		}
		return t, nil
	case TagGrid2:
		t.X, t.Y = dims[0], dims[1]
	case TagGrid3:
		t.X, t.Y, t.Z = dims[0], dims[1], dims[2]
	}
	t.Texels = make([][4]float32, int(count))
	for i := range t.Texels {
		for c := 0; c < 4; c++ {
			t.Texels[i][c] = f32(i*texelSize + c*word)
		}
	}
	return t, nil
}
