package fit

import (
	"encoding/binary"
	"testing"
)

func TestDecodeScalarSentinels(t *testing.T) {
	cases := []struct {
		name    string
		bt      baseType
		raw     []byte
		invalid bool
	}{
		{"enum valid", baseEnum, []byte{0x01}, false},
		{"enum invalid", baseEnum, []byte{0xFF}, true},
		{"sint8 invalid", baseSint8, []byte{0x7F}, true},
		{"uint8 invalid", baseUint8, []byte{0xFF}, true},
		{"sint16 invalid", baseSint16, []byte{0xFF, 0x7F}, true},
		{"uint16 valid max-1", baseUint16, []byte{0xFE, 0xFF}, false},
		{"uint16 invalid", baseUint16, []byte{0xFF, 0xFF}, true},
		{"sint32 invalid", baseSint32, []byte{0xFF, 0xFF, 0xFF, 0x7F}, true},
		{"uint32 invalid", baseUint32, []byte{0xFF, 0xFF, 0xFF, 0xFF}, true},
		{"float32 invalid", baseFloat32, []byte{0xFF, 0xFF, 0xFF, 0xFF}, true},
		{"float64 invalid", baseFloat64, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, true},
		{"uint8z zero invalid", baseUint8z, []byte{0x00}, true},
		{"uint8z valid", baseUint8z, []byte{0x01}, false},
		{"uint16z zero invalid", baseUint16z, []byte{0x00, 0x00}, true},
		{"uint32z zero invalid", baseUint32z, []byte{0x00, 0x00, 0x00, 0x00}, true},
		{"sint64 invalid", baseSint64, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F}, true},
		{"uint64 invalid", baseUint64, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, true},
		{"uint64z zero invalid", baseUint64z, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, invalid := decodeScalar(tc.raw, tc.bt, binary.LittleEndian)
			if invalid != tc.invalid {
				t.Fatalf("invalid = %v, want %v", invalid, tc.invalid)
			}
		})
	}
}

func TestDecodeScalarBigEndian(t *testing.T) {
	v, invalid := decodeScalar([]byte{0x01, 0x2C}, baseUint16, binary.BigEndian)
	if invalid {
		t.Fatal("unexpected invalid")
	}
	if v != uint16(300) {
		t.Fatalf("value = %v", v)
	}
}

func TestCanonicalBaseType(t *testing.T) {
	cases := map[byte]baseType{
		0x00: baseEnum,
		0x01: baseSint8,
		0x02: baseUint8,
		0x83: baseSint16, // endian-capable flag set
		0x03: baseSint16, // and stripped
		0x84: baseUint16,
		0x86: baseUint32,
		0x07: baseString,
		0x88: baseFloat32,
		0x89: baseFloat64,
		0x0A: baseUint8z,
		0x8B: baseUint16z,
		0x0D: baseByte,
		0x8E: baseSint64,
		0x8F: baseUint64,
		0x90: baseUint64z,
	}
	for raw, want := range cases {
		if got := canonicalBaseType(raw); got != want {
			t.Fatalf("canonicalBaseType(0x%02X) = 0x%02X, want 0x%02X", raw, got, want)
		}
	}
}

func TestDecodeCString(t *testing.T) {
	if s := decodeCString([]byte{'r', 'i', 'd', 'e', 0, 0}); s != "ride" {
		t.Fatalf("got %q", s)
	}
	if s := decodeCString([]byte{'r', 'i', 'd', 'e'}); s != "ride" {
		t.Fatalf("unterminated string: got %q", s)
	}
	if s := decodeCString([]byte{0, 'x'}); s != "" {
		t.Fatalf("leading NUL: got %q", s)
	}
}
