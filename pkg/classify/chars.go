package classify

// IsBlank reports whether c is a space, tab or carriage return.
func IsBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

// IsMeta reports whether c ends an unquoted word in command context.
func IsMeta(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ';', '&', '|', '(', ')', '<', '>':
		return true
	}
	return false
}

// IsNameStart reports whether c may begin a variable name.
func IsNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsNameChar reports whether c may continue a variable name.
func IsNameChar(c byte) bool {
	return IsNameStart(c) || IsDigit(c)
}

// IsDigit reports whether c is an ASCII digit.
func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsSpecialParameter reports whether c names a special parameter such as $? or $1.
func IsSpecialParameter(c byte) bool {
	switch c {
	case '@', '*', '#', '?', '$', '!', '-':
		return true
	}
	return IsDigit(c)
}

// SkipBlanks returns the first position at or after pos that is not blank.
func SkipBlanks(src []byte, pos int) int {
	for pos < len(src) && IsBlank(src[pos]) {
		pos++
	}
	return pos
}

// AtWordStart reports whether a new word may begin at pos, that is, pos is
// not in the middle of an unquoted word.
func AtWordStart(src []byte, pos int) bool {
	if pos <= 0 {
		return true
	}
	return IsMeta(src[pos-1])
}

// AtWordEnd reports whether an unquoted word ending at pos is complete.
func AtWordEnd(src []byte, pos int) bool {
	return pos >= len(src) || IsMeta(src[pos])
}

// LineEnd returns the index of the newline ending the line containing pos,
// or len(src) if the line is the last one.
func LineEnd(src []byte, pos int) int {
	for pos < len(src) && src[pos] != '\n' {
		pos++
	}
	return pos
}
