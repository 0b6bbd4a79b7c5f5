package parse

// Character-class predicates over the raw input buffer. The grammar operates
// on bytes; multi-byte UTF-8 sequences only ever appear inside strings, where
// every byte of such a sequence is >= 0x80 and copied through verbatim.

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func hexValue(c byte) uint16 {
	switch {
	case c >= 'a':
		return uint16(c-'a') + 10
	case c >= 'A':
		return uint16(c-'A') + 10
	default:
		return uint16(c - '0')
	}
}

// whitespace: zero or more of space, LF, CR, tab. Never fails.
func nextWhitespace(buf []byte, idx int) int {
	for idx < len(buf) && isWhitespace(buf[idx]) {
		idx++
	}
	return idx
}

// digits: digit | digit digits
func nextDigits(buf []byte, idx int) int {
	for idx < len(buf) && isDigit(buf[idx]) {
		idx++
	}
	return idx
}

// sign: "" | '+' | '-'
func nextSign(buf []byte, idx int) int {
	if idx < len(buf) && (buf[idx] == '+' || buf[idx] == '-') {
		return idx + 1
	}
	return idx
}
