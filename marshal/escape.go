package marshal

import "unicode/utf8"

const hexDigits = "0123456789ABCDEF"

// appendQuotedString writes s as a JSON string using the fixed escape table:
// \b \f \n \r \t \" \/ \\, code points U+0000..001F and U+007F..009F as
// \u00XX, U+2000..20FF as \uXXXX (uppercase hex), everything else verbatim.
func appendQuotedString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '\b':
				dst = append(dst, '\\', 'b')
			case '\f':
				dst = append(dst, '\\', 'f')
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			case '"':
				dst = append(dst, '\\', '"')
			case '/':
				dst = append(dst, '\\', '/')
			case '\\':
				dst = append(dst, '\\', '\\')
			default:
				if c <= 0x1F || c == 0x7F {
					dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
				} else {
					dst = append(dst, c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			// bytes outside valid UTF-8 (preserved surrogate code units)
			// copy through untouched
			dst = append(dst, c)
			i++
			continue
		}
		if (r >= 0x80 && r <= 0x9F) || (r >= 0x2000 && r <= 0x20FF) {
			dst = append(dst, '\\', 'u',
				hexDigits[r>>12&0xF], hexDigits[r>>8&0xF], hexDigits[r>>4&0xF], hexDigits[r&0xF])
		} else {
			dst = append(dst, s[i:i+size]...)
		}
		i += size
	}
	return append(dst, '"')
}
