package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"

	"github.com/dhamidi/nbtkit/nbt"
)

type JSONEncoder struct {
	w      io.Writer
	tag    nbt.Tag
	indent string
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w, indent: "  "}
}

// SetIndent sets the indentation of nested values; "" writes compact JSON.
func (e *JSONEncoder) SetIndent(indent string) {
	e.indent = indent
}

func (e *JSONEncoder) Encode(tag nbt.Tag) error {
	e.tag = tag
	return write(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	v, err := ToNative(e.tag)
	if err != nil {
		return nil, err
	}
	var data []byte
	if e.indent == "" {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", e.indent)
	}
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeJSON reads a tag tree from JSON. Comments and trailing commas are
// accepted.
func DecodeJSON(data []byte) (nbt.Tag, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return FromNative(v)
}
