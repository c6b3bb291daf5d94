package vars_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl"
	"github.com/randalmurphal/strtmpl/pkg/strtmpl/vars"
)

func TestSet_BasicOperations(t *testing.T) {
	s := vars.New()
	assert.Equal(t, 0, s.Len())

	s.Put("b", "2")
	s.PutMany(map[string]string{"a": "1", "c": "3"})

	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.True(t, s.Has("c"))
	assert.Equal(t, []string{"a", "b", "c"}, s.Names())

	s.Delete("b")
	s.Delete("missing")
	assert.False(t, s.Has("b"))
	assert.Equal(t, 2, s.Len())
}

func TestSet_PutAssignment(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		value   string
		wantErr bool
	}{
		{"a=1", "a", "1", false},
		{"empty=", "empty", "", false},
		{"url=x=y", "url", "x=y", false},
		{"novalue", "", "", true},
		{"=nokey", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s := vars.New()
			err := s.PutAssignment(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			v, ok := s.Get(tt.name)
			assert.True(t, ok)
			assert.Equal(t, tt.value, v)
		})
	}
}

func TestSet_SnapshotIsCopy(t *testing.T) {
	s := vars.FromMap(map[string]string{"a": "1"})
	snap := s.Snapshot()
	snap["a"] = "changed"

	v, _ := s.Get("a")
	assert.Equal(t, "1", v)
}

func TestSet_Range(t *testing.T) {
	s := vars.FromMap(map[string]string{"a": "1", "b": "2", "c": "3"})

	var seen []string
	s.Range(func(name, value string) bool {
		seen = append(seen, name+"="+value)
		s.Delete(name)
		return name != "b"
	})
	assert.Equal(t, []string{"a=1", "b=2"}, seen)
	assert.Equal(t, []string{"c"}, s.Names())
}

func TestSet_Resolver(t *testing.T) {
	s := vars.FromMap(map[string]string{"env": "prod"})
	tmpl := strtmpl.MustUnixShell(s.Resolver())

	out, err := tmpl.Substitute("deploy-$env")
	require.NoError(t, err)
	assert.Equal(t, "deploy-prod", out)

	s.Put("env", "staging")
	out, err = tmpl.Substitute("deploy-$env")
	require.NoError(t, err)
	assert.Equal(t, "deploy-staging", out)
}

func TestSet_Concurrent(t *testing.T) {
	s := vars.New()
	tmpl := strtmpl.MustUnixShell(s.Resolver(), strtmpl.WithSafe(true))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Put(fmt.Sprintf("v%d", i), "x")
		}(i)
		go func(i int) {
			defer wg.Done()
			_, err := tmpl.Substitute(fmt.Sprintf("$v%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, s.Len())
}
