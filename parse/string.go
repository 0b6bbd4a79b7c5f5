package parse

// string: '"' characters '"'
func nextString(buf []byte, idx int) (int, string) {
	if idx >= len(buf) || buf[idx] != '"' {
		return idx, ""
	}
	next, decoded := nextCharacters(buf, idx+1, nil)
	if next < len(buf) && buf[next] == '"' {
		return next + 1, string(decoded)
	}
	return idx, ""
}

// characters: "" | character characters
func nextCharacters(buf []byte, idx int, dst []byte) (int, []byte) {
	for {
		next, out := nextCharacter(buf, idx, dst)
		if next == idx {
			return idx, out
		}
		idx, dst = next, out
	}
}

// character: any byte of a code point >= U+0020 except '"' and '\', or a '\'
// escape. Decoded bytes append to dst; multi-byte UTF-8 sequences pass
// through one byte at a time.
func nextCharacter(buf []byte, idx int, dst []byte) (int, []byte) {
	if idx >= len(buf) {
		return idx, dst
	}
	c := buf[idx]
	if c >= 0x20 && c != '"' && c != '\\' {
		return idx + 1, append(dst, c)
	}
	if c == '\\' {
		next, out := nextEscape(buf, idx+1, dst)
		if next != idx+1 {
			return next, out
		}
	}
	return idx, dst
}

// escape: '"' | '\' | '/' | 'b' | 'f' | 'n' | 'r' | 't' | 'u' hex hex hex hex
func nextEscape(buf []byte, idx int, dst []byte) (int, []byte) {
	if idx >= len(buf) {
		return idx, dst
	}
	switch buf[idx] {
	case '"', '\\', '/':
		return idx + 1, append(dst, buf[idx])
	case 'b':
		return idx + 1, append(dst, '\b')
	case 'f':
		return idx + 1, append(dst, '\f')
	case 'n':
		return idx + 1, append(dst, '\n')
	case 'r':
		return idx + 1, append(dst, '\r')
	case 't':
		return idx + 1, append(dst, '\t')
	case 'u':
		if idx+4 < len(buf) && isHexDigit(buf[idx+1]) && isHexDigit(buf[idx+2]) && isHexDigit(buf[idx+3]) && isHexDigit(buf[idx+4]) {
			unit := hexValue(buf[idx+1])<<12 | hexValue(buf[idx+2])<<8 | hexValue(buf[idx+3])<<4 | hexValue(buf[idx+4])
			return idx + 5, appendCodeUnit(dst, unit)
		}
	}
	return idx, dst
}

// appendCodeUnit appends one 16-bit code unit in its UTF-8 byte form. No
// surrogate-pair combination is performed: an unpaired surrogate keeps its
// own three-byte encoding, so it survives a decode/encode round trip intact.
func appendCodeUnit(dst []byte, unit uint16) []byte {
	switch {
	case unit < 0x80:
		return append(dst, byte(unit))
	case unit < 0x800:
		return append(dst, 0xC0|byte(unit>>6), 0x80|byte(unit&0x3F))
	default:
		return append(dst, 0xE0|byte(unit>>12), 0x80|byte(unit>>6&0x3F), 0x80|byte(unit&0x3F))
	}
}
