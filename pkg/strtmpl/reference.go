package strtmpl

// Reference is one recognized variable reference inside a working string.
//
// Start and End are half-open byte offsets into the string that was scanned,
// which is not the original input once earlier references were replaced.
type Reference struct {
	Start int
	End   int
	Name  string

	// Default is only meaningful when HasDefault is set. ${x?} has an
	// empty default, ${x} has none.
	Default    string
	HasDefault bool
}

// Resolver maps a variable name to its value.
// It must be a pure lookup; the engine may call it any number of times.
type Resolver func(name string) (value string, ok bool)

// MapResolver returns a Resolver backed by m.
// The map must not be modified while templates using it are running.
func MapResolver(m map[string]string) Resolver {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

// ChainResolver returns a Resolver that tries each resolver in order and
// returns the first value found. Nil resolvers are skipped.
func ChainResolver(resolvers ...Resolver) Resolver {
	return func(name string) (string, bool) {
		for _, r := range resolvers {
			if r == nil {
				continue
			}
			if v, ok := r(name); ok {
				return v, true
			}
		}
		return "", false
	}
}

func (r Resolver) lookup(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	return r(name)
}
