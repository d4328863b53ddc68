package sourcemap

import (
	"errors"
	"testing"

	"github.com/gosrcmap/sourcemap/pkg/mapping"
	"github.com/gosrcmap/sourcemap/pkg/srcmaperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleEnvelope() Envelope {
	return Envelope{
		Version:  3,
		Names:    []string{"foo"},
		Sources:  []string{"a.ts"},
		Mappings: "AAAA,IAAC,KCAA",
	}
}

func TestParseRequiresSourcesMappingsNames(t *testing.T) {
	cases := map[string]string{
		"missing sources":  `{"version":3,"names":[],"mappings":""}`,
		"missing mappings": `{"version":3,"names":[],"sources":[]}`,
		"missing names":    `{"version":3,"sources":[],"mappings":""}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body), Config{})
			assert.Error(t, err)
		})
	}
}

func TestParseValidEnvelope(t *testing.T) {
	svc, err := Parse([]byte(`{"version":3,"names":["x"],"sources":["a.ts"],"mappings":"AAAA"}`), Config{})
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestNewRejectsWrongVersion(t *testing.T) {
	env := sampleEnvelope()
	env.Version = 2
	_, err := New(env, Config{})
	require.Error(t, err)

	var srcErr *srcmaperr.Error
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, srcmaperr.UnsupportedVersion, srcErr.Kind())
}

func TestNewToleratesMissingVersion(t *testing.T) {
	env := sampleEnvelope()
	env.Version = 0
	_, err := New(env, Config{})
	assert.NoError(t, err)
}

func TestPositionByGenerated(t *testing.T) {
	svc, err := New(Envelope{
		Version:  3,
		Names:    []string{"myVar"},
		Sources:  []string{"orig.ts"},
		Mappings: "AAAAA",
	}, Config{})
	require.NoError(t, err)

	pos, ok := svc.PositionByGenerated(1, 1, mapping.Exact)
	require.True(t, ok)
	assert.Equal(t, "orig.ts", pos.Source)
	assert.Equal(t, 1, pos.OriginalLine)
	assert.Equal(t, 1, pos.OriginalColumn)
	require.NotNil(t, pos.Name)
	assert.Equal(t, "myVar", *pos.Name)
}

func TestPositionByOriginalBySubstring(t *testing.T) {
	svc, err := New(Envelope{
		Version:  3,
		Names:    []string{},
		Sources:  []string{"src/a.ts", "src/b.ts"},
		Mappings: "AAAA;ACAA",
	}, Config{})
	require.NoError(t, err)

	pos, ok, err := svc.PositionByOriginal(1, 1, BySourceQuery("b.ts"), mapping.Exact)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "src/b.ts", pos.Source)
	assert.Equal(t, 2, pos.GeneratedLine)
}

func TestPositionByOriginalSourceNotFound(t *testing.T) {
	svc, err := New(sampleEnvelope(), Config{})
	require.NoError(t, err)

	_, _, err = svc.PositionByOriginal(1, 1, BySourceQuery("nope"), mapping.Exact)
	assert.Error(t, err)
}

func TestConcatMappingShift(t *testing.T) {
	a, err := New(Envelope{Version: 3, Names: []string{}, Sources: []string{"a.ts"}, Mappings: "AAAA"}, Config{})
	require.NoError(t, err)
	b, err := New(Envelope{Version: 3, Names: []string{}, Sources: []string{"b.ts"}, Mappings: "AAAA,AAAA"}, Config{})
	require.NoError(t, err)

	require.NoError(t, a.Concat(b))

	env := a.Envelope()
	assert.Equal(t, "AAAA;ACAA,AAAA", env.Mappings)
	assert.Len(t, env.Sources, 2)
}

func TestConcatNewMapLeavesOriginalUnchanged(t *testing.T) {
	a, err := New(Envelope{Version: 3, Names: []string{}, Sources: []string{"a.ts"}, Mappings: "AAAA"}, Config{})
	require.NoError(t, err)
	b, err := New(Envelope{Version: 3, Names: []string{}, Sources: []string{"b.ts"}, Mappings: "AAAA"}, Config{})
	require.NoError(t, err)

	combined, err := a.ConcatNewMap(b)
	require.NoError(t, err)

	assert.Equal(t, "AAAA", a.Envelope().Mappings)
	assert.Len(t, a.Envelope().Sources, 1)
	assert.Len(t, combined.Envelope().Sources, 2)
}

func TestConcatEmptyIsError(t *testing.T) {
	a, err := New(sampleEnvelope(), Config{})
	require.NoError(t, err)
	assert.Error(t, a.Concat())

	_, err = a.ConcatNewMap()
	assert.Error(t, err)
}

func TestConcatPreservesLeftContentArityWithEmptyRight(t *testing.T) {
	left := sampleEnvelope()
	left.SourcesContent = []*string{strPtr("left content")}
	a, err := New(left, Config{})
	require.NoError(t, err)

	b, err := New(Envelope{Version: 3, Names: []string{}, Sources: []string{"b.ts"}, Mappings: "AAAA"}, Config{})
	require.NoError(t, err)

	require.NoError(t, a.Concat(b))
	env := a.Envelope()
	require.Len(t, env.SourcesContent, 2)
	require.NotNil(t, env.SourcesContent[0])
	assert.Equal(t, "left content", *env.SourcesContent[0])
	require.NotNil(t, env.SourcesContent[1])
	assert.Equal(t, "", *env.SourcesContent[1])
}

func TestPositionWithSnippet(t *testing.T) {
	content := "function name(data) {\n  console.log('x');\n  throw new Error('e');\n}\n"
	env := Envelope{
		Version:        3,
		Names:          []string{},
		Sources:        []string{"app.ts"},
		SourcesContent: []*string{&content},
		// Maps generated (1,1) to original line 3, column 1.
		Mappings: "AAEA",
	}
	svc, err := New(env, Config{})
	require.NoError(t, err)

	got, ok := svc.PositionWithSnippet(1, 1, mapping.Exact, SnippetOptions{LinesBefore: 2, LinesAfter: 1})
	require.True(t, ok)
	assert.Equal(t, 1, got.StartLine)
	assert.Equal(t, 4, got.EndLine)
	assert.Contains(t, got.Code, "  throw new Error('e');")
}

func TestPositionWithContentNoStoredContent(t *testing.T) {
	svc, err := New(sampleEnvelope(), Config{})
	require.NoError(t, err)
	_, ok := svc.PositionWithContent(1, 1, mapping.Exact)
	assert.False(t, ok)
}

func TestToJSONKeyOrderAndRoundTrip(t *testing.T) {
	svc, err := New(sampleEnvelope(), Config{})
	require.NoError(t, err)

	data, err := svc.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"version":3,"names":["foo"],"sources":["a.ts"],"mappings":"AAAA,IAAC,KCAA"}`, string(data))

	reparsed, err := Parse(data, Config{})
	require.NoError(t, err)
	assert.Equal(t, svc.Envelope().Mappings, reparsed.Envelope().Mappings)
}

func TestToJSONNeverEmitsNullArrays(t *testing.T) {
	svc, err := New(Envelope{Version: 3}, Config{})
	require.NoError(t, err)

	data, err := svc.ToJSON()
	require.NoError(t, err)

	assert.NotContains(t, string(data), `"names":null`)
	assert.NotContains(t, string(data), `"sources":null`)
	assert.Contains(t, string(data), `"names":[]`)
	assert.Contains(t, string(data), `"sources":[]`)
}
