// Package vars provides a concurrency-safe set of named string variables.
//
// A Set can back a strtmpl.Template while other goroutines update it:
//
//	s := vars.New()
//	s.Put("env", "prod")
//
//	tmpl, _ := strtmpl.NewUnixShell(s.Resolver())
//	out, _ := tmpl.Substitute("deploy-$env") // "deploy-prod"
//
//	s.Put("env", "staging") // later calls see the new value
//
// Each individual lookup is atomic. A single Substitute call may observe
// updates made while it runs; take a Snapshot first when a call must see
// one consistent view.
package vars
