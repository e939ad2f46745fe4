package format

import (
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/dhamidi/nbtkit/nbt"
)

// cborEncMode uses Core Deterministic Encoding, so equal trees produce
// identical bytes.
var cborEncMode cbor.EncMode

var cborDecMode cbor.DecMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("format: CBOR encoder initialization failed: " + err.Error())
	}
	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("format: CBOR decoder initialization failed: " + err.Error())
	}
}

type CBOREncoder struct {
	w   io.Writer
	tag nbt.Tag
}

func NewCBOREncoder(w io.Writer) *CBOREncoder {
	return &CBOREncoder{w: w}
}

func (e *CBOREncoder) Encode(tag nbt.Tag) error {
	e.tag = tag
	return write(e.w, e)
}

func (e *CBOREncoder) MarshalText() ([]byte, error) {
	v, err := ToNative(e.tag)
	if err != nil {
		return nil, err
	}
	data, err := cborEncMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cbor: %w", err)
	}
	return data, nil
}

func DecodeCBOR(data []byte) (nbt.Tag, error) {
	var v any
	if err := cborDecMode.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("cbor: %w", err)
	}
	return FromNative(v)
}
