package rxclient

import (
	"github.com/pkg/errors"
)

// Codec is a connect.Codec for the binary protobuf encoding of the receiver
// messages. It registers under the name "proto", replacing connect's default
// so no generated code is required.
type Codec struct{}

func (Codec) Name() string { return "proto" }

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(message)
	if !ok {
		return nil, errors.Errorf("rxclient: cannot marshal %T", v)
	}
	return m.appendWire(nil), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(message)
	if !ok {
		return errors.Errorf("rxclient: cannot unmarshal into %T", v)
	}
	return errors.Wrapf(m.consumeWire(data), "rxclient: unmarshal %T", v)
}
