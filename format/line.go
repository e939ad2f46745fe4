package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/nbtkit/nbt"
)

// LineEncoder writes one tab separated line per leaf: path, type and value.
// Paths join compound keys with '.' and index lists with [i]; keys that
// would be ambiguous are quoted. Arrays are leaves with comma separated
// values, empty containers are leaves with value "-".
type LineEncoder struct {
	w   io.Writer
	tag nbt.Tag
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(tag nbt.Tag) error {
	e.tag = tag
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	writeLines(&sb, "", e.tag)
	return []byte(sb.String()), nil
}

func writeLines(sb *strings.Builder, path string, t nbt.Tag) {
	switch x := t.(type) {
	case *nbt.Compound:
		if x.Len() == 0 {
			writeLine(sb, path, t, "-")
		}
		for k, v := range x.Sorted() {
			writeLines(sb, joinKey(path, k), v)
		}
	case *nbt.List:
		if x.Len() == 0 {
			writeLine(sb, path, t, "-")
		}
		for i, v := range x.Elements() {
			writeLines(sb, path+"["+strconv.Itoa(i)+"]", v)
		}
	default:
		writeLine(sb, path, t, leafValue(t))
	}
}

func writeLine(sb *strings.Builder, path string, t nbt.Tag, value string) {
	if path == "" {
		path = "."
	}
	fmt.Fprintf(sb, "%s\t%s\t%s\n", path, strings.ToLower(t.ID().String()), value)
}

func joinKey(path, key string) string {
	if key == "" || strings.ContainsAny(key, ".[]\"\t\n ") {
		key = strconv.Quote(key)
	}
	if path == "" {
		return key
	}
	return path + "." + key
}

func leafValue(t nbt.Tag) string {
	switch x := t.(type) {
	case nbt.String:
		return strconv.Quote(string(x))
	case nbt.Float:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case nbt.Double:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case nbt.Numeric:
		return strconv.FormatInt(x.Int64(), 10)
	case *nbt.ByteArray:
		return joinInts(x.View())
	case *nbt.IntArray:
		return joinInts(x.View())
	case *nbt.LongArray:
		return joinInts(x.View())
	}
	return "-"
}

func joinInts[E int8 | int32 | int64](values []E) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(int64(v), 10)
	}
	return strings.Join(parts, ",")
}
