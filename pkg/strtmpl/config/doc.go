/*
Package config exposes YAML and JSON documents as variable sources.

# Overview

A Config wraps a map[string]any decoded from a file. Values are addressed
by dotted paths into nested maps, which makes a Config usable both as a
settings reader and as the backing store of a strtmpl.Resolver:

	cfg, err := config.FromFile("vars.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	tmpl, _ := strtmpl.NewUnixShell(cfg.Resolver(),
	    strtmpl.WithNamePattern(`[A-Za-z0-9_.]+`))
	out, _ := tmpl.Substitute("postgres://${db.user}@${db.host}:${db.port}")

# Lookup Rules

Lookup walks nested map[string]any values one path segment at a time.
A key containing dots is matched literally first, so {"a.b": 1} and
{"a": {"b": 1}} both answer "a.b". Scalars are formatted with %v.
Maps, slices and nulls are not resolvable.

# Typed Accessors

String, Int and Bool read top-level settings and fall back to a default
when the key is missing or holds another type.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
