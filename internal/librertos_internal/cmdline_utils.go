// Command line flag usage formatting, shared by cmd/librertosd.

package librertos_internal

import (
	"bytes"
	"strings"
)

const (
	// The help usage message line wraparound default width:
	DefaultFlagUsageWidth = 58
)

// FormatFlagUsageWidth reformats a flag usage string by wrapping its words
// at width, discarding the source string's own line breaks and indentation.
// Example:
//
//	var flagArg = flag.String(
//		name,
//		value,
//		FormatFlagUsageWidth(`
//		This usage message will be reformatted to the given width, discarding
//		the current line breaks and line prefixing spaces.
//		`, 40),
//	)
func FormatFlagUsageWidth(usage string, width int) string {
	buf := &bytes.Buffer{}
	lineLen := 0
	for i, word := range strings.Fields(strings.TrimSpace(usage)) {
		if i > 0 {
			if lineLen+len(word)+1 > width {
				buf.WriteByte('\n')
				lineLen = 0
			} else {
				buf.WriteByte(' ')
				lineLen++
			}
		}
		n, err := buf.WriteString(word)
		if err != nil {
			return usage
		}
		lineLen += n
	}
	return buf.String()
}

// FormatFlagUsage is FormatFlagUsageWidth at DefaultFlagUsageWidth.
func FormatFlagUsage(usage string) string {
	return FormatFlagUsageWidth(usage, DefaultFlagUsageWidth)
}
