// Package render turns the final answer text into the requested artifact
// format. Rendering is a pure function of the input text.
package render

import (
	"fmt"
	"strings"
)

// Format selects the final artifact encoding.
type Format string

const (
	FormatPlain Format = "txt"
	FormatRTF   Format = "rtf"
)

const (
	rtfHeader = `{\rtf1\ansi\deff0{\fonttbl{\f0\fswiss\fcharset0 Arial;}}\viewkind4\uc1\pard\f0\fs24 `
	rtfFooter = `}`
)

// Render transforms text into the given format. Plain mode is the identity.
func Render(text string, format Format) string {
	if format == FormatRTF {
		return toRTF(text)
	}
	return text
}

// toRTF escapes RTF metacharacters, converts line breaks to paragraph
// breaks, and encodes every non-ASCII rune as an explicit numeric escape.
func toRTF(text string) string {
	escaped := strings.NewReplacer(
		`\`, `\\`,
		`{`, `\{`,
		`}`, `\}`,
	).Replace(text)
	escaped = strings.ReplaceAll(escaped, "\n", "\\par\n")

	var b strings.Builder
	b.Grow(len(rtfHeader) + len(escaped) + len(rtfFooter))
	b.WriteString(rtfHeader)
	for _, r := range escaped {
		if r > 127 {
			fmt.Fprintf(&b, "\\u%d?", r)
		} else {
			b.WriteRune(r)
		}
	}
	b.WriteString(rtfFooter)
	return b.String()
}
