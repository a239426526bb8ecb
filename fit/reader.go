// Package fit decodes the binary FIT activity file format produced by
// Garmin devices and most other fitness head units.
//
// Decode parses a complete file into an Activity: per-sample records, lap
// and session summaries, and activity-level metadata. Stream walks the raw
// message sequence without assembling. Structural problems (bad header,
// truncation, undefined local message types) fail the decode; integrity
// anomalies (CRC mismatch, unknown message numbers, timestamp regressions)
// are reported as warnings alongside a still-usable result.
package fit

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/tormoder/fit/dyncrc16"
)

const (
	compressedHeaderMask = 0x80
	compressedLocalMask  = 0x60
	compressedTimeMask   = 0x1F
	definitionMask       = 0x40
	devDataMask          = 0x20
	localMessageMask     = 0x0F

	headerSizeNoCRC = 12
	headerSizeCRC   = 14
)

var fitEpoch = time.Date(1989, 12, 31, 0, 0, 0, 0, time.UTC)

// decoder carries the mutable state of one decode pass: the definition
// table, registered developer fields, the compressed-timestamp reference,
// and accumulated warnings.
type decoder struct {
	table          definitionTable
	devFields      map[devFieldKey]devFieldSpec
	lastTimestamp  uint32
	lastTimeOffset int32
	warnings       []Warning
	unknownGlobals map[uint16]bool
}

func newDecoder() *decoder {
	return &decoder{
		table:          definitionTable{},
		devFields:      map[devFieldKey]devFieldSpec{},
		unknownGlobals: map[uint16]bool{},
	}
}

func (d *decoder) warn(code string, offset int, detail string) {
	d.warnings = append(d.warnings, Warning{Code: code, Offset: offset, Detail: detail})
}

// Decode parses a complete FIT file held in memory and assembles the
// activity-level result. The returned error is nil even when integrity
// warnings were found; those ride along in Activity.Warnings.
func Decode(data []byte) (*Activity, error) {
	d := newDecoder()
	asm := newAssembler(d.warn)

	err := d.walk(data, func(msg Message) error {
		asm.fold(msg)
		return nil
	})
	if err != nil {
		return nil, err
	}

	act := asm.finish()
	if len(d.warnings) > 0 {
		act.Warnings = d.warnings
	}
	return act, nil
}

type header struct {
	size            uint8
	protocolVersion uint8
	profileVersion  uint16
	dataSize        uint32
}

func parseHeader(data []byte) (header, error) {
	if len(data) < headerSizeNoCRC {
		return header{}, fmt.Errorf("%w: %d bytes is shorter than the minimum header", ErrHeaderInvalid, len(data))
	}
	size := data[0]
	if size != headerSizeNoCRC && size != headerSizeCRC {
		return header{}, fmt.Errorf("%w: header size byte %d", ErrHeaderInvalid, size)
	}
	if len(data) < int(size) {
		return header{}, fmt.Errorf("%w: header declares %d bytes, file has %d", ErrHeaderInvalid, size, len(data))
	}
	if tag := string(data[8:12]); tag != ".FIT" {
		return header{}, fmt.Errorf("%w: data type tag %q", ErrHeaderInvalid, tag)
	}

	h := header{
		size:            size,
		protocolVersion: data[1],
		profileVersion:  binary.LittleEndian.Uint16(data[2:4]),
		dataSize:        binary.LittleEndian.Uint32(data[4:8]),
	}

	// The 14-byte header carries an optional CRC over its first 12 bytes.
	// Zero means the writer skipped it.
	if size == headerSizeCRC {
		stored := binary.LittleEndian.Uint16(data[12:14])
		if stored != 0 {
			if computed := dyncrc16.Checksum(data[:12]); computed != stored {
				return header{}, fmt.Errorf("%w: header crc stored 0x%04X computed 0x%04X", ErrHeaderInvalid, stored, computed)
			}
		}
	}
	return h, nil
}

// walk parses the header, then every record in the data section, emitting
// each decoded data message in wire order. The trailing CRC is verified last
// and reported through warnings rather than failing the walk.
func (d *decoder) walk(data []byte, emit func(Message) error) error {
	h, err := parseHeader(data)
	if err != nil {
		return err
	}

	dataEnd := int(h.size) + int(h.dataSize)
	if len(data) < dataEnd {
		return fmt.Errorf("%w: header declares %d data bytes, file has %d after the header",
			ErrTruncated, h.dataSize, len(data)-int(h.size))
	}

	c := newCursor(data[h.size:dataEnd])
	for c.remaining() > 0 {
		start := int(h.size) + c.position()
		headerByte, err := c.readByte()
		if err != nil {
			return malformed(start, err)
		}

		switch {
		case headerByte&compressedHeaderMask == compressedHeaderMask:
			local := (headerByte & compressedLocalMask) >> 5
			ts, hasTS := d.rollCompressedTimestamp(headerByte, start)
			msg, err := d.walkData(c, local, start)
			if err != nil {
				return err
			}
			if hasTS {
				msg.Timestamp = &ts
			}
			if err := emit(msg); err != nil {
				return err
			}
		case headerByte&definitionMask == definitionMask:
			def, err := parseDefinition(c, headerByte)
			if err != nil {
				return malformed(start, err)
			}
			d.table.define(def)
		default:
			msg, err := d.walkData(c, headerByte&localMessageMask, start)
			if err != nil {
				return err
			}
			if err := emit(msg); err != nil {
				return err
			}
		}
	}

	d.checkFileCRC(data, dataEnd)
	return nil
}

// walkData resolves the local message's definition, slices its payload from
// the data section, and decodes it.
func (d *decoder) walkData(c *cursor, local uint8, start int) (Message, error) {
	def, err := d.table.lookup(local)
	if err != nil {
		return Message{}, malformed(start, err)
	}

	need := def.payloadSize()
	if c.remaining() < need {
		return Message{}, malformed(start, fmt.Errorf("definition declares %d payload bytes, %d remain in the data section: %w",
			need, c.remaining(), ErrSizeMismatch))
	}
	payload, err := c.readBytes(need)
	if err != nil {
		return Message{}, malformed(start, err)
	}

	msg, err := d.decodeData(def, payload, start)
	if err != nil {
		return Message{}, malformed(start, err)
	}

	if !d.unknownGlobals[def.global] {
		if _, known := profile[def.global]; !known {
			d.unknownGlobals[def.global] = true
			d.warn("unknown_message", start, fmt.Sprintf("global message %d (%s) is not in the field dictionary", def.global, msg.Name))
		}
	}
	if def.global == mesgNumFieldDescription {
		d.registerDevField(msg)
	}
	return msg, nil
}

// rollCompressedTimestamp reconstructs the absolute timestamp carried by a
// compressed record header. The five offset bits roll forward from the most
// recent full timestamp, wrapping every 32 seconds. Without a reference the
// header's offset bits are unusable and the message stays unstamped.
func (d *decoder) rollCompressedTimestamp(headerByte uint8, offset int) (time.Time, bool) {
	if d.lastTimestamp == 0 {
		d.warn("missing_timestamp_reference", offset, "compressed timestamp with no preceding full timestamp")
		return time.Time{}, false
	}
	timeOffset := int32(headerByte & compressedTimeMask)
	d.lastTimestamp += uint32((timeOffset - d.lastTimeOffset) & int32(compressedTimeMask))
	d.lastTimeOffset = timeOffset
	return fitTime(d.lastTimestamp), true
}

// checkFileCRC compares the trailing CRC against one computed over the
// header and data section. Both a mismatch and a missing trailer are
// warnings; the decoded body stands either way.
func (d *decoder) checkFileCRC(data []byte, dataEnd int) {
	if len(data) < dataEnd+2 {
		d.warn("crc_missing", dataEnd, "file ends without the trailing crc")
		return
	}
	stored := binary.LittleEndian.Uint16(data[dataEnd : dataEnd+2])
	computed := dyncrc16.Checksum(data[:dataEnd])
	if stored != computed {
		d.warn("crc_mismatch", dataEnd, fmt.Sprintf("stored 0x%04X computed 0x%04X", stored, computed))
	}
}
