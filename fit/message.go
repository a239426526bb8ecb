package fit

import (
	"encoding/binary"
	"fmt"
	"time"
)

// decodeData decodes one data message payload against its definition. The
// payload length must equal the definition's declared total. Fields holding
// their base type's invalid sentinel are left out of the result entirely.
func (d *decoder) decodeData(def *definition, payload []byte, offset int) (Message, error) {
	if len(payload) != def.payloadSize() {
		return Message{}, fmt.Errorf("payload is %d bytes, definition declares %d: %w",
			len(payload), def.payloadSize(), ErrSizeMismatch)
	}

	msg := Message{
		Offset: offset,
		Local:  def.local,
		Global: def.global,
		Name:   globalMessageName(def.global),
		Fields: make(map[string]any, len(def.fields)),
	}

	specs := profile[def.global]
	pos := 0
	for _, f := range def.fields {
		raw := payload[pos : pos+int(f.size)]
		pos += int(f.size)

		if f.num == fieldNumTimestamp && f.base == baseUint32 {
			v, invalid := decodeScalar(raw, baseUint32, def.arch)
			if invalid {
				continue
			}
			tsRaw := v.(uint32)
			d.lastTimestamp = tsRaw
			d.lastTimeOffset = int32(tsRaw & compressedTimeMask)
			ts := fitTime(tsRaw)
			msg.Timestamp = &ts
			msg.Fields["timestamp"] = ts
			continue
		}

		spec := specs[f.num]
		value, ok := decodeFieldValue(raw, f.base, def.arch, spec)
		if !ok {
			continue
		}
		msg.Fields[fieldName(def.global, f.num)] = value
	}

	for _, df := range def.devFields {
		raw := payload[pos : pos+int(df.size)]
		pos += int(df.size)

		name, value, ok := d.decodeDevField(raw, def.arch, df)
		if !ok {
			continue
		}
		msg.Fields[name] = value
	}

	return msg, nil
}

// decodeFieldValue decodes one field slot. The second return is false when
// the slot holds only invalid sentinels and the field should be absent.
func decodeFieldValue(raw []byte, bt baseType, arch binary.ByteOrder, spec fieldSpec) (any, bool) {
	if bt == baseString {
		str := decodeCString(raw)
		if str == "" {
			return nil, false
		}
		return str, true
	}
	if bt == baseByte {
		if allBytes(raw, 0xFF) {
			return nil, false
		}
		return byteValues(raw), true
	}

	bs, known := baseSpecs[bt]
	if !known || bs.size <= 0 || len(raw)%bs.size != 0 {
		// Unknown base type or a slot that does not divide evenly. Keep the
		// raw bytes so nothing is silently dropped.
		return byteValues(raw), true
	}

	count := len(raw) / bs.size
	if count == 1 {
		v, invalid := decodeScalar(raw, bt, arch)
		if invalid {
			return nil, false
		}
		return spec.transform(v), true
	}

	values := make([]any, count)
	invalidCount := 0
	for i := 0; i < count; i++ {
		part := raw[i*bs.size : (i+1)*bs.size]
		v, invalid := decodeScalar(part, bt, arch)
		if invalid {
			invalidCount++
			continue
		}
		values[i] = spec.transform(v)
	}
	if invalidCount == count {
		return nil, false
	}
	return values, true
}

// transform applies the field's decode rules to a raw scalar: timestamp
// conversion, enum naming, then scale/offset.
func (s fieldSpec) transform(v any) any {
	if s.isTime {
		if raw, ok := asUint64(v); ok {
			return fitTime(uint32(raw))
		}
		return v
	}
	if s.enum != nil {
		if raw, ok := asUint64(v); ok {
			if name, ok := s.enum[raw]; ok {
				return name
			}
		}
		return v
	}
	if s.scale != 0 {
		return scaleValue(v, s.scale, s.offset)
	}
	return v
}

// scaleValue applies decoded = raw/scale - offset across the numeric types
// decodeScalar can produce. Non-numeric values pass through untouched.
func scaleValue(v any, scale, offset float64) any {
	switch x := v.(type) {
	case uint8:
		return float64(x)/scale - offset
	case int8:
		return float64(x)/scale - offset
	case uint16:
		return float64(x)/scale - offset
	case int16:
		return float64(x)/scale - offset
	case uint32:
		return float64(x)/scale - offset
	case int32:
		return float64(x)/scale - offset
	case uint64:
		return float64(x)/scale - offset
	case int64:
		return float64(x)/scale - offset
	case float64:
		return x/scale - offset
	default:
		return v
	}
}

func asUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case int8:
		if x >= 0 {
			return uint64(x), true
		}
	case int16:
		if x >= 0 {
			return uint64(x), true
		}
	case int32:
		if x >= 0 {
			return uint64(x), true
		}
	case int64:
		if x >= 0 {
			return uint64(x), true
		}
	}
	return 0, false
}

func fitTime(ts uint32) time.Time {
	return fitEpoch.Add(time.Duration(ts) * time.Second)
}

// devFieldKey identifies one developer field across the file.
type devFieldKey struct {
	devIndex uint8
	num      uint8
}

// devFieldSpec is the decode recipe a field_description message registered
// for a developer field.
type devFieldSpec struct {
	name   string
	base   baseType
	scale  float64
	offset float64
	units  string
}

// decodeDevField decodes one developer field slot. Slots without a prior
// field_description keep their raw bytes under a synthetic dev_<idx>_<num>
// name.
func (d *decoder) decodeDevField(raw []byte, arch binary.ByteOrder, df devFieldDef) (string, any, bool) {
	spec, ok := d.devFields[devFieldKey{devIndex: df.devIndex, num: df.num}]
	if !ok {
		name := fmt.Sprintf("dev_%d_%d", df.devIndex, df.num)
		if allBytes(raw, 0xFF) {
			return name, nil, false
		}
		return name, byteValues(raw), true
	}

	value, ok := decodeFieldValue(raw, spec.base, arch, fieldSpec{scale: spec.scale, offset: spec.offset, units: spec.units})
	if !ok {
		return spec.name, nil, false
	}
	return spec.name, value, true
}

// registerDevField folds a decoded field_description message into the
// developer field table so later data messages can resolve their dev slots.
func (d *decoder) registerDevField(msg Message) {
	devIndex, ok := asUint64(msg.Fields["developer_data_index"])
	if !ok {
		return
	}
	num, ok := asUint64(msg.Fields["field_definition_number"])
	if !ok {
		return
	}
	baseID, ok := asUint64(msg.Fields["fit_base_type_id"])
	if !ok {
		return
	}

	spec := devFieldSpec{
		base: canonicalBaseType(uint8(baseID)),
	}
	if name, ok := msg.Fields["field_name"].(string); ok {
		spec.name = name
	}
	if spec.name == "" {
		spec.name = fmt.Sprintf("dev_%d_%d", devIndex, num)
	}
	if units, ok := msg.Fields["units"].(string); ok {
		spec.units = units
	}
	if scale, ok := asUint64(msg.Fields["scale"]); ok && scale > 1 {
		spec.scale = float64(scale)
	}
	if offset, ok := msg.Fields["offset"].(int8); ok && offset != 0 {
		spec.offset = float64(offset)
	}

	d.devFields[devFieldKey{devIndex: uint8(devIndex), num: uint8(num)}] = spec
}
