package nbt

import "unicode/utf16"

// modifiedUTF8Len returns the length of s in modified UTF-8.
func modifiedUTF8Len(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r == 0:
			n += 2
		case r < 0x80:
			n++
		case r < 0x800:
			n += 2
		case r < 0x10000:
			n += 3
		default:
			n += 6
		}
	}
	return n
}

func appendModifiedUTF8(buf []byte, s string) []byte {
	for _, r := range s {
		switch {
		case r == 0:
			buf = append(buf, 0xC0, 0x80)
		case r < 0x80:
			buf = append(buf, byte(r))
		case r < 0x800:
			buf = append(buf, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			buf = appendUnit3(buf, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			buf = appendUnit3(appendUnit3(buf, hi), lo)
		}
	}
	return buf
}

func appendUnit3(buf []byte, r rune) []byte {
	return append(buf, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
}

func decodeModifiedUTF8(bytes []byte) string {
	runes := make([]rune, 0, len(bytes))
	i := 0
	for i < len(bytes) {
		b := bytes[i]
		if b&0x80 == 0 {
			runes = append(runes, rune(b))
			i++
		} else if b&0xE0 == 0xC0 {
			if i+1 >= len(bytes) {
				break
			}
			runes = append(runes, rune(b&0x1F)<<6|rune(bytes[i+1]&0x3F))
			i += 2
		} else if b&0xF0 == 0xE0 {
			if i+2 >= len(bytes) {
				break
			}
			r := unit3(bytes[i:])
			if utf16.IsSurrogate(r) && r < 0xDC00 && i+5 < len(bytes) && bytes[i+3]&0xF0 == 0xE0 {
				if low := unit3(bytes[i+3:]); low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, utf16.DecodeRune(r, low))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		} else {
			runes = append(runes, rune(b))
			i++
		}
	}
	return string(runes)
}

func unit3(b []byte) rune {
	return rune(b[0]&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F)
}
