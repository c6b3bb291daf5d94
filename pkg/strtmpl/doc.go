/*
Package strtmpl substitutes variable references embedded in strings.

# Overview

strtmpl resolves references such as $name, ${name}, ${name?default} or
%name% against a caller-supplied Resolver and returns the fully substituted
string. Two syntaxes are provided on top of one shared substitution loop:

  - Unix shell: $name, ${name} and ${name?default}; a literal dollar is \$
  - Windows cmd: %name%; a literal percent is %%

# Basic Usage

	tmpl, err := strtmpl.NewUnixShell(strtmpl.MapResolver(map[string]string{
	    "host": "api.example.com",
	    "port": "443",
	}))
	if err != nil {
	    log.Fatal(err)
	}

	url, err := tmpl.Substitute("https://${host}:$port/v1")
	// url: "https://api.example.com:443/v1"

The Windows syntax works the same way:

	tmpl, _ := strtmpl.NewWindowsCmd(resolver)
	out, _ := tmpl.Substitute("%USERPROFILE%\\bin is 100%% mine")

# Resolution

For every reference the resolver is consulted first. When it has no value,
the inline default of a long-form Unix reference is used. When there is no
default either, safe templates substitute the empty string and unsafe
templates fail with a *VariableNotFoundError:

	tmpl, _ := strtmpl.NewUnixShell(nil, strtmpl.WithSafe(true))
	out, _ := tmpl.Substitute("[${missing}] [${name?anon}]")
	// out: "[] [anon]"

# Recursive Expansion

Substituted values are scanned again, so a value may itself contain
references:

	r := strtmpl.MapResolver(map[string]string{"foo": "FOO", "bar": "$foo"})
	tmpl, _ := strtmpl.NewUnixShell(r)
	out, _ := tmpl.Substitute("$bar")
	// out: "FOO"

A value that refers back to itself expands forever. Templates fed with
untrusted values should set WithMaxExpansions, or have the resolver wrap
values in Template.Literal so they are copied through without rescanning.

Short forms are matched only once every long form is gone, and a short
name takes as many name characters as it can. Text substituted for a long
form therefore joins a short name right before it: "$foo${foo}" is read
as $fooFOO. Use braces when a reference touches other text.

# Escapes

Escape sequences are swapped for private-use placeholder runes (U+E000 to
U+E002) before scanning and restored afterwards. Input containing those
runes has undefined output unless WithPlaceholderCheck is enabled, in
which case it is rejected with ErrPlaceholderCollision.

# Thread Safety

A Template is immutable after construction and safe for concurrent use,
provided its Resolver is safe for concurrent reads.
*/
package strtmpl
