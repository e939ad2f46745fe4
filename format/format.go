// Package format renders tag trees in external formats and reads them back.
package format

import (
	"encoding"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/dhamidi/nbtkit/nbt"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(tag nbt.Tag) error
}

var encoders = map[string]func(w io.Writer) Encoder{
	"json": func(w io.Writer) Encoder { return NewJSONEncoder(w) },
	"yaml": func(w io.Writer) Encoder { return NewYAMLEncoder(w) },
	"toml": func(w io.Writer) Encoder { return NewTOMLEncoder(w) },
	"cbor": func(w io.Writer) Encoder { return NewCBOREncoder(w) },
	"nbt":  func(w io.Writer) Encoder { return NewBinaryEncoder(w) },
	"line": func(w io.Writer) Encoder { return NewLineEncoder(w) },
}

// Names lists the formats known to NewEncoder.
func Names() []string {
	return slices.Sorted(maps.Keys(encoders))
}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	newEncoder, ok := encoders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return newEncoder(w), nil
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
