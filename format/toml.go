package format

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"

	"github.com/dhamidi/nbtkit/nbt"
)

// TOMLEncoder writes compound roots as TOML documents. TOML has no
// representation for other roots.
type TOMLEncoder struct {
	w   io.Writer
	tag nbt.Tag
}

func NewTOMLEncoder(w io.Writer) *TOMLEncoder {
	return &TOMLEncoder{w: w}
}

func (e *TOMLEncoder) Encode(tag nbt.Tag) error {
	e.tag = tag
	return write(e.w, e)
}

func (e *TOMLEncoder) MarshalText() ([]byte, error) {
	if _, ok := e.tag.(*nbt.Compound); !ok {
		return nil, fmt.Errorf("toml: root must be a compound, got %s", e.tag.ID())
	}
	v, err := ToNative(e.tag)
	if err != nil {
		return nil, err
	}
	data, err := toml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("toml: %w", err)
	}
	return data, nil
}

func DecodeTOML(data []byte) (nbt.Tag, error) {
	var v map[string]any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("toml: %w", err)
	}
	return FromNative(v)
}
