package format

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/dhamidi/nbtkit/nbt"
)

// BinaryEncoder writes the binary format with an empty root name and
// compound keys in sorted order.
type BinaryEncoder struct {
	w   io.Writer
	tag nbt.Tag
}

func NewBinaryEncoder(w io.Writer) *BinaryEncoder {
	return &BinaryEncoder{w: w}
}

func (e *BinaryEncoder) Encode(tag nbt.Tag) error {
	e.tag = tag
	return write(e.w, e)
}

func (e *BinaryEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if err := nbt.NewEncoder(&buf, nbt.WithSortedKeys()).Encode(e.tag); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Digest returns the hex BLAKE3 hash of the sorted binary encoding of t.
// Trees that are equal hash equally, whatever their insertion order.
func Digest(t nbt.Tag) (string, error) {
	h := blake3.New()
	if err := nbt.NewEncoder(h, nbt.WithSortedKeys()).Encode(t); err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

var decoders = map[string]func([]byte) (nbt.Tag, error){
	"json": DecodeJSON,
	"yaml": DecodeYAML,
	"toml": DecodeTOML,
	"cbor": DecodeCBOR,
	"nbt":  decodeBinary,
}

// Decode reads a tag tree written in the named format.
func Decode(name string, data []byte) (nbt.Tag, error) {
	decode, ok := decoders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("cannot decode format %q", name)
	}
	return decode(data)
}

func decodeBinary(data []byte) (nbt.Tag, error) {
	return nbt.Unmarshal(data, nbt.DefaultAccounter())
}
