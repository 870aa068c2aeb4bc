package osc

import (
	"regexp"
	"strings"
	"sync"
)

////
// Utility and helper functions
////
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, MaxPacketSize)
		return &b
	},
}

// getRegEx compiles and returns a regular expression object for the given
// address `pattern`. The expression is anchored, so it only matches whole
// addresses.
func getRegEx(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(patternToRegexp(pattern))
}

// patternToRegexp rewrites the OSC pattern syntax and quotes everything else:
//
//	*       any run of characters within one part
//	?       any single character within one part
//	[a-z]   a character class, negated by a leading '!'
//	{a,b}   one of the comma separated strings
func patternToRegexp(pattern string) string {
	var sb strings.Builder
	sb.WriteByte('^')

	inClass, inAlt := false, false
	classStart := 0
	for i, r := range pattern {
		if inClass {
			switch {
			case r == ']':
				inClass = false
				sb.WriteByte(']')
			case r == '!' && i == classStart:
				sb.WriteByte('^')
			case r == '-':
				sb.WriteByte('-')
			default:
				sb.WriteString(regexp.QuoteMeta(string(r)))
			}
			continue
		}

		switch {
		case r == '*':
			sb.WriteString("[^/]*")
		case r == '?':
			sb.WriteString("[^/]")
		case r == '[':
			inClass = true
			classStart = i + 1
			sb.WriteByte('[')
		case r == '{' && !inAlt:
			inAlt = true
			sb.WriteString("(?:")
		case r == ',' && inAlt:
			sb.WriteByte('|')
		case r == '}' && inAlt:
			inAlt = false
			sb.WriteByte(')')
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	sb.WriteByte('$')
	return sb.String()
}
