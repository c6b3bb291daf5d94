package strtmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnixCodec(t *testing.T) {
	codec := unixCodec{}
	e := string(escapedDollar)
	b := string(backslashDollar)

	tests := []struct {
		name    string
		input   string
		escaped string
		output  string
	}{
		{"nothing to escape", "a $b c", "a $b c", "a $b c"},
		{"single escape", `\$`, e, "$"},
		{"even run", `\\$`, b, `\$`},
		{"odd run", `\\\$`, e, "$"},
		{"two escapes", `\$x\$`, e + "x" + e, "$x$"},
		{"backslash not before dollar", `a\b`, `a\b`, `a\b`},
		{"trailing backslash", `a\`, `a\`, `a\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			escaped := codec.Escape(tt.input)
			assert.Equal(t, tt.escaped, escaped)
			assert.Equal(t, tt.output, codec.Unescape(escaped))
		})
	}
}

func TestWindowsCodec(t *testing.T) {
	codec := windowsCodec{}
	p := string(escapedPercent)

	assert.Equal(t, p, codec.Escape("%%"))
	assert.Equal(t, p+"%", codec.Escape("%%%"))
	assert.Equal(t, "a%b", codec.Escape("a%b"))
	assert.Equal(t, "%", codec.Unescape(codec.Escape("%%")))
	assert.Equal(t, "%%", codec.Unescape(codec.Escape("%%%%")))
}

func TestContainsPlaceholder(t *testing.T) {
	assert.False(t, containsPlaceholder("plain $x %y%"))
	assert.True(t, containsPlaceholder("x"+string(escapedPercent)))
}

func TestProtect(t *testing.T) {
	unix := unixCodec{}
	assert.Equal(t, `cost \$5 and $x`, unix.Unescape(unix.Protect(`cost \$5 and $x`)))
	assert.NotContains(t, unix.Protect("$x"), "$")

	win := windowsCodec{}
	assert.Equal(t, "%a% 50%", win.Unescape(win.Protect("%a% 50%")))
	assert.NotContains(t, win.Protect("%a%"), "%")
}
