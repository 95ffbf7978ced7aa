package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/core/domain"
)

func TestParseManifest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "not json", data: "{ name: app"},
		{name: "array", data: `["a"]`},
		{name: "null", data: "null"},
		{name: "conflict markers", data: "{\n<<<<<<< HEAD\n  \"a\": 1\n=======\n  \"a\": 2\n>>>>>>> b\n}\n"},
		{name: "section is a string", data: `{"dependencies": "react"}`},
		{name: "section holds a number", data: `{"devDependencies": {"jest": 29}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.ParseManifest([]byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, domain.ErrManifestParse, domain.Kind(err))
		})
	}
}

func TestParseManifest_NullSectionIsAbsent(t *testing.T) {
	m, err := domain.ParseManifest([]byte(`{"name": "app", "dependencies": null}`))
	require.NoError(t, err)

	deps, ok, err := m.Section(domain.SectionDependencies)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, deps)
}

func TestManifest_KeepsKeyOrder(t *testing.T) {
	m, err := domain.ParseManifest([]byte(`{"version": "1.0.0", "name": "app", "private": true, "dependencies": {"zod": "3.0.0", "axios": "1.0.0"}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"version", "name", "private", "dependencies"}, m.Keys())

	deps, ok, err := m.Section(domain.SectionDependencies)
	require.NoError(t, err)
	require.True(t, ok)

	var names []string
	for name := range deps.All() {
		names = append(names, name)
	}
	assert.Equal(t, []string{"zod", "axios"}, names)
}

func TestManifest_Marshal(t *testing.T) {
	input := `{"name":"app","version":"1.0.0","scripts":{"build":"tsc && vite build","lint":"eslint ."},` +
		`"files":[],"config":{},"dependencies":{"react":">=17 <19","left-pad":"1.3.0"}}`

	m, err := domain.ParseManifest([]byte(input))
	require.NoError(t, err)

	out, err := m.Marshal()
	require.NoError(t, err)

	want := `{
  "name": "app",
  "version": "1.0.0",
  "scripts": {
    "build": "tsc && vite build",
    "lint": "eslint ."
  },
  "files": [],
  "config": {},
  "dependencies": {
    "react": ">=17 <19",
    "left-pad": "1.3.0"
  }
}
`
	assert.Equal(t, want, string(out))
}

func TestManifest_MarshalNormalizesEscapes(t *testing.T) {
	input := `{"description":"caf\u00e9 \u003c3 \/ tabs\tkept","keywords":["\u0041pi"],` +
		`"nested":{"z":1.50,"a":[true,null,"\u2603"]},"dependencies":{"\u0040scope/pkg":"\u003e=1"}}`

	m, err := domain.ParseManifest([]byte(input))
	require.NoError(t, err)

	out, err := m.Marshal()
	require.NoError(t, err)

	want := `{
  "description": "café <3 / tabs\tkept",
  "keywords": [
    "Api"
  ],
  "nested": {
    "z": 1.50,
    "a": [
      true,
      null,
      "☃"
    ]
  },
  "dependencies": {
    "@scope/pkg": ">=1"
  }
}
`
	assert.Equal(t, want, string(out))
}

func TestManifest_MarshalIsStable(t *testing.T) {
	input := "{\n  \"name\": \"app\",\n  \"nested\": {\n    \"b\": [1, 2, {\"c\": null}],\n    \"a\": false\n  }\n}\n"

	m, err := domain.ParseManifest([]byte(input))
	require.NoError(t, err)
	first, err := m.Marshal()
	require.NoError(t, err)

	again, err := domain.ParseManifest(first)
	require.NoError(t, err)
	second, err := again.Marshal()
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestManifest_SetSection(t *testing.T) {
	m, err := domain.ParseManifest([]byte(`{"dependencies": {"a": "1.0.0"}, "name": "app"}`))
	require.NoError(t, err)

	deps := domain.NewDependencies()
	deps.Set("b", "2.0.0")
	require.NoError(t, m.SetSection(domain.SectionDependencies, deps))
	require.NoError(t, m.SetSection(domain.SectionDevDependencies, domain.NewDependencies()))

	assert.Equal(t, []string{"dependencies", "name", "devDependencies"}, m.Keys())

	out, err := m.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"dependencies\": {\n    \"b\": \"2.0.0\"\n  },\n  \"name\": \"app\",\n  \"devDependencies\": {}\n}\n", string(out))
}

func TestManifest_CloneIsIndependent(t *testing.T) {
	m, err := domain.ParseManifest([]byte(`{"name": "app"}`))
	require.NoError(t, err)

	clone := m.Clone()
	clone.SetRaw("version", []byte(`"2.0.0"`))

	assert.Equal(t, []string{"name"}, m.Keys())
	assert.Equal(t, []string{"name", "version"}, clone.Keys())
}

func TestDependencies_SetKeepsPosition(t *testing.T) {
	deps := domain.NewDependencies()
	deps.Set("a", "1.0.0")
	deps.Set("b", "1.0.0")
	deps.Set("a", "2.0.0")

	out, err := deps.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"2.0.0","b":"1.0.0"}`, string(out))
	assert.Equal(t, `{"a":"2.0.0","b":"1.0.0"}`, string(out))
	assert.Equal(t, 2, deps.Len())
}
