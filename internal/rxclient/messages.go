package rxclient

import (
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// message is implemented by every type that crosses the wire. The receiver
// schema is small and fixed, so the messages encode themselves with
// protowire instead of generated code.
type message interface {
	appendWire(b []byte) []byte
	consumeWire(b []byte) error
}

// StringValue mirrors google.protobuf.StringValue.
type StringValue struct {
	Value string
}

// Empty mirrors google.protobuf.Empty.
type Empty struct{}

type EmptyResponse struct {
	Code ErrorCode
}

type Timestamp struct {
	Seconds int64
	Nanos   int32
}

type FftFrame struct {
	Data       []float32
	Timestamp  *Timestamp
	CenterFreq float64
	SampleRate float64
}

type FftFrameResponse struct {
	Code     ErrorCode
	FftFrame *FftFrame
}

// fieldFunc consumes the value of one field and returns its length, or 0
// for a field it does not know.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func consumeFields(b []byte, field fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := field(num, typ, b)
		if err != nil {
			return errors.WithMessagef(err, "field %d", num)
		}
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return errors.WithMessagef(protowire.ParseError(m), "field %d", num)
		}
		b = b[m:]
	}
	return nil
}

func wrongType(typ protowire.Type) error {
	return errors.Errorf("unexpected wire type %d", typ)
}

func consumeVarint(typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, wrongType(typ)
	}
	v, n := protowire.ConsumeVarint(b)
	return v, n, nil
}

// consumeNumber accepts a double as well as an integer encoding, so frames
// from receivers that send integral frequencies decode the same way.
func consumeNumber(typ protowire.Type, b []byte) (float64, int, error) {
	switch typ {
	case protowire.Fixed64Type:
		v, n := protowire.ConsumeFixed64(b)
		return math.Float64frombits(v), n, nil
	case protowire.VarintType:
		v, n := protowire.ConsumeVarint(b)
		return float64(int64(v)), n, nil
	case protowire.Fixed32Type:
		v, n := protowire.ConsumeFixed32(b)
		return float64(math.Float32frombits(v)), n, nil
	default:
		return 0, 0, wrongType(typ)
	}
}

func (m *StringValue) appendWire(b []byte) []byte {
	if m.Value != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Value)
	}
	return b
}

func (m *StringValue) consumeWire(b []byte) error {
	*m = StringValue{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		if typ != protowire.BytesType {
			return 0, wrongType(typ)
		}
		v, n := protowire.ConsumeString(b)
		m.Value = v
		return n, nil
	})
}

func (m *Empty) appendWire(b []byte) []byte { return b }

func (m *Empty) consumeWire(b []byte) error {
	return consumeFields(b, func(protowire.Number, protowire.Type, []byte) (int, error) { return 0, nil })
}

func appendCode(b []byte, code ErrorCode) []byte {
	if code == CodeOK {
		return b
	}
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(code)))
}

func (m *EmptyResponse) appendWire(b []byte) []byte {
	return appendCode(b, m.Code)
}

func (m *EmptyResponse) consumeWire(b []byte) error {
	*m = EmptyResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		v, n, err := consumeVarint(typ, b)
		m.Code = ErrorCode(int32(v))
		return n, err
	})
}

func (m *Timestamp) appendWire(b []byte) []byte {
	if m.Seconds != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.Seconds))
	}
	if m.Nanos != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(m.Nanos)))
	}
	return b
}

func (m *Timestamp) consumeWire(b []byte) error {
	*m = Timestamp{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(typ, b)
			m.Seconds = int64(v)
			return n, err
		case 2:
			v, n, err := consumeVarint(typ, b)
			m.Nanos = int32(v)
			return n, err
		}
		return 0, nil
	})
}

func (m *FftFrame) appendWire(b []byte) []byte {
	if len(m.Data) > 0 {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendVarint(b, uint64(4*len(m.Data)))
		for _, v := range m.Data {
			b = protowire.AppendFixed32(b, math.Float32bits(v))
		}
	}
	if m.Timestamp != nil {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Timestamp.appendWire(nil))
	}
	if m.CenterFreq != 0 {
		b = protowire.AppendTag(b, 3, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(m.CenterFreq))
	}
	if m.SampleRate != 0 {
		b = protowire.AppendTag(b, 4, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(m.SampleRate))
	}
	return b
}

func (m *FftFrame) consumeWire(b []byte) error {
	*m = FftFrame{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return m.consumeData(typ, b)
		case 2:
			if typ != protowire.BytesType {
				return 0, wrongType(typ)
			}
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			m.Timestamp = &Timestamp{}
			return n, m.Timestamp.consumeWire(v)
		case 3:
			v, n, err := consumeNumber(typ, b)
			m.CenterFreq = v
			return n, err
		case 4:
			v, n, err := consumeNumber(typ, b)
			m.SampleRate = v
			return n, err
		}
		return 0, nil
	})
}

// consumeData reads both the packed and the one-value-per-tag encodings.
func (m *FftFrame) consumeData(typ protowire.Type, b []byte) (int, error) {
	switch typ {
	case protowire.Fixed32Type:
		v, n := protowire.ConsumeFixed32(b)
		if n >= 0 {
			m.Data = append(m.Data, math.Float32frombits(v))
		}
		return n, nil
	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, nil
		}
		if len(packed)%4 != 0 {
			return 0, errors.Errorf("packed float data of %d bytes", len(packed))
		}
		if m.Data == nil {
			m.Data = make([]float32, 0, len(packed)/4)
		}
		for len(packed) > 0 {
			v, k := protowire.ConsumeFixed32(packed)
			m.Data = append(m.Data, math.Float32frombits(v))
			packed = packed[k:]
		}
		return n, nil
	default:
		return 0, wrongType(typ)
	}
}

func (m *FftFrameResponse) appendWire(b []byte) []byte {
	b = appendCode(b, m.Code)
	if m.FftFrame != nil {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, m.FftFrame.appendWire(nil))
	}
	return b
}

func (m *FftFrameResponse) consumeWire(b []byte) error {
	*m = FftFrameResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(typ, b)
			m.Code = ErrorCode(int32(v))
			return n, err
		case 2:
			if typ != protowire.BytesType {
				return 0, wrongType(typ)
			}
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			m.FftFrame = &FftFrame{}
			return n, m.FftFrame.consumeWire(v)
		}
		return 0, nil
	})
}
