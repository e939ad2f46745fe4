package format

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/nbtkit/nbt"
)

type YAMLEncoder struct {
	w   io.Writer
	tag nbt.Tag
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(tag nbt.Tag) error {
	e.tag = tag
	return write(e.w, e)
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	v, err := ToNative(e.tag)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return data, nil
}

func DecodeYAML(data []byte) (nbt.Tag, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return FromNative(v)
}
