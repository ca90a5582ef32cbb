package apiclient

import "strings"

const upperhex = "0123456789ABCDEF"

// EscapeComponent percent-encodes every byte of s that is not an ASCII letter or digit.
// Path segments and query values supplied by callers go through it.
func EscapeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
