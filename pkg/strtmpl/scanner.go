package strtmpl

import (
	"fmt"
	"regexp"
)

// DefaultNamePattern matches variable names made of ASCII letters, digits
// and underscores.
const DefaultNamePattern = `[A-Za-z0-9_]+`

// Scanner locates the next variable reference in a string.
type Scanner interface {
	// Find returns the reference to substitute next in s, or false when s
	// holds no reference.
	Find(s string) (Reference, bool)
}

// unixScanner recognizes ${name}, ${name?default} and $name.
//
// The long form wins globally: $name is only considered when no long-form
// reference exists anywhere in the string.
type unixScanner struct {
	long      *regexp.Regexp
	short     *regexp.Regexp
	longName  int
	longDef   int
	shortName int
}

func newUnixScanner(namePattern string) (*unixScanner, error) {
	long, err := regexp.Compile(`\$\{(?P<name>` + namePattern + `)(?P<default>\?[^}]*)?\}`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNamePattern, err)
	}
	short, err := regexp.Compile(`\$(?P<name>` + namePattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNamePattern, err)
	}
	return &unixScanner{
		long:      long,
		short:     short,
		longName:  long.SubexpIndex("name"),
		longDef:   long.SubexpIndex("default"),
		shortName: short.SubexpIndex("name"),
	}, nil
}

// Find implements Scanner.
func (u *unixScanner) Find(s string) (Reference, bool) {
	if m := u.long.FindStringSubmatchIndex(s); m != nil {
		ref := Reference{
			Start: m[0],
			End:   m[1],
			Name:  s[m[2*u.longName]:m[2*u.longName+1]],
		}
		if d := 2 * u.longDef; m[d] >= 0 {
			// Drop the leading '?'.
			ref.Default = s[m[d]+1 : m[d+1]]
			ref.HasDefault = true
		}
		return ref, true
	}
	if m := u.short.FindStringSubmatchIndex(s); m != nil {
		return Reference{
			Start: m[0],
			End:   m[1],
			Name:  s[m[2*u.shortName]:m[2*u.shortName+1]],
		}, true
	}
	return Reference{}, false
}

// windowsScanner recognizes %name%.
type windowsScanner struct {
	re   *regexp.Regexp
	name int
}

func newWindowsScanner(namePattern string) (*windowsScanner, error) {
	re, err := regexp.Compile(`%(?P<name>` + namePattern + `)%`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNamePattern, err)
	}
	return &windowsScanner{re: re, name: re.SubexpIndex("name")}, nil
}

// Find implements Scanner.
func (w *windowsScanner) Find(s string) (Reference, bool) {
	m := w.re.FindStringSubmatchIndex(s)
	if m == nil {
		return Reference{}, false
	}
	return Reference{
		Start: m[0],
		End:   m[1],
		Name:  s[m[2*w.name]:m[2*w.name+1]],
	}, true
}
