package strtmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustSubstitute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tmpl := MustUnixShell(MapResolver(map[string]string{"name": "World"}))
		assert.Equal(t, "Hello World", tmpl.MustSubstitute("Hello ${name}"))
	})

	t.Run("panics on error", func(t *testing.T) {
		tmpl := MustUnixShell(nil)
		assert.PanicsWithValue(t, "strtmpl: variable not found: missing", func() {
			tmpl.MustSubstitute("${missing}")
		})
	})
}

func TestSubstituteAll(t *testing.T) {
	tmpl := MustUnixShell(MapResolver(map[string]string{"env": "prod", "region": "us-east"}))

	t.Run("basic", func(t *testing.T) {
		out, err := tmpl.SubstituteAll([]string{
			"https://${env}.api.com",
			"https://$env.$region.db.com",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://prod.api.com",
			"https://prod.us-east.db.com",
		}, out)
	})

	t.Run("nil slice", func(t *testing.T) {
		out, err := tmpl.SubstituteAll(nil)
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("empty slice", func(t *testing.T) {
		out, err := tmpl.SubstituteAll([]string{})
		require.NoError(t, err)
		assert.Equal(t, []string{}, out)
	})

	t.Run("first error aborts", func(t *testing.T) {
		out, err := tmpl.SubstituteAll([]string{"$env", "$missing"})
		assert.ErrorIs(t, err, ErrVariableNotFound)
		assert.Nil(t, out)
	})
}

func TestSubstituteMap(t *testing.T) {
	tmpl := MustUnixShell(MapResolver(map[string]string{"env": "prod", "host": "api.example.com"}))

	t.Run("nested values", func(t *testing.T) {
		out, err := tmpl.SubstituteMap(map[string]any{
			"url":     "https://${host}/api",
			"port":    8080,
			"enabled": true,
			"nested": map[string]any{
				"name": "$env",
				"list": []any{"${env}-a", 3, map[string]any{"deep": "$host"}},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "https://api.example.com/api", out["url"])
		assert.Equal(t, 8080, out["port"])
		assert.Equal(t, true, out["enabled"])

		nested, ok := out["nested"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "prod", nested["name"])

		list, ok := nested["list"].([]any)
		require.True(t, ok)
		assert.Equal(t, "prod-a", list[0])
		assert.Equal(t, 3, list[1])
		assert.Equal(t, map[string]any{"deep": "api.example.com"}, list[2])
	})

	t.Run("input is not modified", func(t *testing.T) {
		in := map[string]any{"k": "$env"}
		_, err := tmpl.SubstituteMap(in)
		require.NoError(t, err)
		assert.Equal(t, "$env", in["k"])
	})

	t.Run("nil map", func(t *testing.T) {
		out, err := tmpl.SubstituteMap(nil)
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("error names the key", func(t *testing.T) {
		_, err := tmpl.SubstituteMap(map[string]any{
			"outer": map[string]any{"inner": "${missing}"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrVariableNotFound)
		assert.Contains(t, err.Error(), `key "outer"`)
		assert.Contains(t, err.Error(), `key "inner"`)
	})
}

func TestReferences(t *testing.T) {
	t.Run("unix", func(t *testing.T) {
		tmpl := MustUnixShell(nil)
		names := tmpl.References(`${a} $b ${c?x} \$d $a $$e`)
		assert.Equal(t, []string{"a", "b", "c", "e"}, names)
	})

	t.Run("blanking does not join fragments", func(t *testing.T) {
		tmpl := MustUnixShell(nil)
		assert.Equal(t, []string{"x"}, tmpl.References("$${x}y"))
	})

	t.Run("windows", func(t *testing.T) {
		tmpl := MustWindowsCmd(nil)
		names := tmpl.References("%x% %%y%% %z% %x%")
		assert.Equal(t, []string{"x", "z"}, names)
	})

	t.Run("none", func(t *testing.T) {
		tmpl := MustUnixShell(nil)
		assert.Empty(t, tmpl.References("nothing"))
	})
}

func TestExpand(t *testing.T) {
	t.Run("unix", func(t *testing.T) {
		assert.Equal(t, "Hello World", Expand("Hello ${name?World}", nil))
		assert.Equal(t, "1-", Expand("$a-$b", map[string]string{"a": "1"}))
		assert.Equal(t, "$5", Expand(`\$5`, nil))
		assert.Equal(t, "", Expand("", nil))
	})

	t.Run("windows", func(t *testing.T) {
		assert.Equal(t, "bob 50%", ExpandWindows("%USER% 50%%", map[string]string{"USER": "bob"}))
		assert.Equal(t, "no refs", ExpandWindows("no refs", nil))
	})

	t.Run("does not share resolvers", func(t *testing.T) {
		assert.Equal(t, "1", Expand("$a", map[string]string{"a": "1"}))
		assert.Equal(t, "", Expand("$a", nil))
	})
}
