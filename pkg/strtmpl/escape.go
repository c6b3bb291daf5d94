package strtmpl

import (
	"regexp"
	"strings"
)

// Private-use runes standing in for escaped sigils while the substitution
// loop runs. They must not occur in real input.
const (
	escapedDollar   = '\uE000' // \$ with an odd backslash run: a literal "$"
	backslashDollar = '\uE001' // even backslash run before $: a literal `\$`
	escapedPercent  = '\uE002' // %%: a literal "%"
)

const placeholderRunes = string(escapedDollar) + string(backslashDollar) + string(escapedPercent)

// EscapeCodec hides syntax-specific escape sequences from the scanner.
type EscapeCodec interface {
	// Escape replaces escape sequences in s with placeholders.
	Escape(s string) string
	// Unescape turns placeholders back into literal text.
	Unescape(s string) string
	// Protect hides every sigil in s so the scanner skips it and
	// Unescape restores it verbatim.
	Protect(s string) string
}

// backslashRunDollar matches a run of backslashes ending in `\$`.
var backslashRunDollar = regexp.MustCompile(`(\\*)\\\$`)

type unixCodec struct{}

// Escape implements EscapeCodec. Each backslash run ending in `\$` is
// consumed whole; the parity of its backslash count (including the one next
// to the dollar) picks the placeholder.
func (unixCodec) Escape(s string) string {
	matches := backslashRunDollar.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		backslashes := m[3] - m[2] + 1
		if backslashes%2 == 1 {
			b.WriteRune(escapedDollar)
		} else {
			b.WriteRune(backslashDollar)
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

var unixUnescaper = strings.NewReplacer(
	string(escapedDollar), "$",
	string(backslashDollar), `\$`,
)

// Unescape implements EscapeCodec.
func (unixCodec) Unescape(s string) string {
	return unixUnescaper.Replace(s)
}

// Protect implements EscapeCodec.
func (unixCodec) Protect(s string) string {
	return strings.ReplaceAll(s, "$", string(escapedDollar))
}

type windowsCodec struct{}

// Escape implements EscapeCodec.
func (windowsCodec) Escape(s string) string {
	return strings.ReplaceAll(s, "%%", string(escapedPercent))
}

// Unescape implements EscapeCodec.
func (windowsCodec) Unescape(s string) string {
	return strings.ReplaceAll(s, string(escapedPercent), "%")
}

// Protect implements EscapeCodec.
func (windowsCodec) Protect(s string) string {
	return strings.ReplaceAll(s, "%", string(escapedPercent))
}

func containsPlaceholder(s string) bool {
	return strings.ContainsAny(s, placeholderRunes)
}
