package position

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16ToByteOffset converts a UTF-16 code unit offset within s to a byte offset.
// An offset landing inside a surrogate pair is clamped to the start of that rune.
func UTF16ToByteOffset(s string, utf16Col int) int {
	units := 0
	offset := 0
	for offset < len(s) && units < utf16Col {
		r, size := utf8.DecodeRuneInString(s[offset:])
		n := 1
		if r != utf8.RuneError || size != 1 {
			n = utf16.RuneLen(r)
		}
		if n == 2 && units+1 == utf16Col {
			break
		}
		units += n
		offset += size
	}
	return offset
}

// StringLengthUTF16 returns the length of s in UTF-16 code units.
// Invalid bytes count as one unit each.
func StringLengthUTF16(s string) int {
	n := 0
	for _, r := range s {
		if r == utf8.RuneError {
			n++
			continue
		}
		n += utf16.RuneLen(r)
	}
	return n
}

// RunesToUTF16 returns the UTF-16 length of the first n runes of s
func RunesToUTF16(s string, n int) int {
	units := 0
	for _, r := range s {
		if n <= 0 {
			break
		}
		n--
		if r == utf8.RuneError {
			units++
			continue
		}
		units += utf16.RuneLen(r)
	}
	return units
}
