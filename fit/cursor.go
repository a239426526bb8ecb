package fit

import "encoding/binary"

// cursor walks a byte slice without copying. Every read either consumes the
// requested bytes or fails with ErrTruncated and leaves the position alone.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, ErrTruncated
	}
	out := c.data[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}

func (c *cursor) readByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, ErrTruncated
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) readUint16(arch binary.ByteOrder) (uint16, error) {
	raw, err := c.readBytes(2)
	if err != nil {
		return 0, err
	}
	return arch.Uint16(raw), nil
}

func (c *cursor) position() int {
	return c.pos
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}
