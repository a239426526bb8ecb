package fit

import (
	"encoding/binary"
	"fmt"
)

// fieldDef is one field slot declared by a definition message.
type fieldDef struct {
	num  uint8
	size uint8
	base baseType
}

// devFieldDef is one developer field slot declared by a definition message.
type devFieldDef struct {
	num      uint8
	size     uint8
	devIndex uint8
}

// definition is the active wire layout for one local message number.
type definition struct {
	local     uint8
	global    uint16
	arch      binary.ByteOrder
	fields    []fieldDef
	devFields []devFieldDef
}

// payloadSize returns the exact byte length of a data message that uses this
// definition.
func (d *definition) payloadSize() int {
	n := 0
	for _, f := range d.fields {
		n += int(f.size)
	}
	for _, f := range d.devFields {
		n += int(f.size)
	}
	return n
}

// definitionTable maps local message numbers to their active definitions.
// A later definition for the same local number supersedes the earlier one
// unconditionally.
type definitionTable map[uint8]*definition

func (t definitionTable) define(d *definition) {
	t[d.local] = d
}

func (t definitionTable) lookup(local uint8) (*definition, error) {
	d, ok := t[local]
	if !ok {
		return nil, fmt.Errorf("local %d: %w", local, ErrUndefinedLocalMessage)
	}
	return d, nil
}

// parseDefinition reads the body of a definition message. The record header
// byte has already been consumed from the cursor.
func parseDefinition(c *cursor, headerByte uint8) (*definition, error) {
	if _, err := c.readByte(); err != nil { // reserved
		return nil, err
	}

	archByte, err := c.readByte()
	if err != nil {
		return nil, err
	}
	var arch binary.ByteOrder
	switch archByte {
	case 0:
		arch = binary.LittleEndian
	case 1:
		arch = binary.BigEndian
	default:
		return nil, fmt.Errorf("invalid architecture byte %d", archByte)
	}

	global, err := c.readUint16(arch)
	if err != nil {
		return nil, err
	}
	numFields, err := c.readByte()
	if err != nil {
		return nil, err
	}

	def := &definition{
		local:  headerByte & localMessageMask,
		global: global,
		arch:   arch,
		fields: make([]fieldDef, 0, numFields),
	}
	for i := 0; i < int(numFields); i++ {
		raw, err := c.readBytes(3)
		if err != nil {
			return nil, err
		}
		def.fields = append(def.fields, fieldDef{
			num:  raw[0],
			size: raw[1],
			base: canonicalBaseType(raw[2]),
		})
	}

	if headerByte&devDataMask == devDataMask {
		devCount, err := c.readByte()
		if err != nil {
			return nil, err
		}
		def.devFields = make([]devFieldDef, 0, devCount)
		for i := 0; i < int(devCount); i++ {
			raw, err := c.readBytes(3)
			if err != nil {
				return nil, err
			}
			def.devFields = append(def.devFields, devFieldDef{
				num:      raw[0],
				size:     raw[1],
				devIndex: raw[2],
			})
		}
	}
	return def, nil
}
