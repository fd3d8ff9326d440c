package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	assert.Nil(t, Parse(""))
	assert.Equal(t, Path{"contactDetails", "address", "street"}, Parse("contactDetails.address.street"))
	assert.Equal(t, "hobbies.0", Path{"hobbies", "0"}.String())

	base := Path{"a"}
	left := base.Child("b")
	right := base.Child("c")
	assert.Equal(t, "a.b", left.String())
	assert.Equal(t, "a.c", right.String())
	assert.True(t, Parse("a.b").Equal(left))
	assert.Equal(t, "b", left.Last())
}

func TestGetMissingReturnsAbsent(t *testing.T) {
	data := map[string]any{
		"a": map[string]any{"b": 1},
		"s": []any{"x", "y"},
		"n": nil,
	}

	cases := []string{"a.c", "a.b.c", "s.2", "s.-1", "s.x", "n.child", "missing"}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			value, ok := Lookup(data, raw)
			assert.False(t, ok)
			assert.Nil(t, value)
		})
	}

	value, ok := Lookup(data, "s.1")
	require.True(t, ok)
	assert.Equal(t, "y", value)

	value, ok = Lookup(data, "n")
	require.True(t, ok)
	assert.Nil(t, value)

	_, ok = Get(data, nil)
	assert.False(t, ok)
}

func TestSetCreatesIntermediateNodes(t *testing.T) {
	data := map[string]any{}

	require.NoError(t, Assign(data, "a.b.c", 5))
	require.NoError(t, Assign(data, "list.1.name", "second"))

	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": map[string]any{"c": 5}},
		"list": []any{
			nil,
			map[string]any{"name": "second"},
		},
	}, data)
}

func TestSetReplacesScalarIntermediate(t *testing.T) {
	data := map[string]any{"a": "scalar"}
	require.NoError(t, Assign(data, "a.b", true))
	assert.Equal(t, map[string]any{"a": map[string]any{"b": true}}, data)
}

func TestSetGrowsExistingSequence(t *testing.T) {
	data := map[string]any{"hobbies": []any{"reading"}}
	require.NoError(t, Assign(data, "hobbies.2", "chess"))
	assert.Equal(t, []any{"reading", nil, "chess"}, data["hobbies"])
}

func TestSetRoundTrip(t *testing.T) {
	data := map[string]any{"contactDetails": map[string]any{"address": map[string]any{"city": "Lyon"}}}
	paths := []string{"fullName", "contactDetails.address.street", "hobbies.0", "matrix.0.1"}
	for _, raw := range paths {
		require.NoError(t, Assign(data, raw, raw+"!"))
		got, ok := Lookup(data, raw)
		require.True(t, ok, raw)
		assert.Equal(t, raw+"!", got)
	}
	city, ok := Lookup(data, "contactDetails.address.city")
	require.True(t, ok)
	assert.Equal(t, "Lyon", city)
}

func TestSetErrors(t *testing.T) {
	assert.ErrorIs(t, Set(nil, Path{"a"}, 1), ErrNilContainer)
	assert.ErrorIs(t, Set(map[string]any{}, nil, 1), ErrEmptyPath)

	data := map[string]any{"list": []any{}}
	err := Assign(data, "list.name", 1)
	assert.ErrorIs(t, err, ErrNotIndex)
}

func TestSetRejectsIndexPastMax(t *testing.T) {
	data := map[string]any{"tags": []any{"a"}}

	err := Assign(data, "tags.30000000", "x")
	require.ErrorIs(t, err, ErrIndexRange)
	assert.Equal(t, []any{"a"}, data["tags"])

	err = Assign(data, "fresh.30000000.name", "x")
	require.ErrorIs(t, err, ErrIndexRange)
	assert.NotContains(t, data, "fresh")

	require.NoError(t, Set(data, Path{"edge", "65535"}, true))
	edge, ok := data["edge"].([]any)
	require.True(t, ok)
	assert.Len(t, edge, MaxIndex+1)
	assert.Equal(t, true, edge[MaxIndex])
}

func TestCloneIsDeep(t *testing.T) {
	src := map[string]any{"a": map[string]any{"b": []any{1, 2}}}
	clone := CloneMap(src)
	require.NoError(t, Assign(clone, "a.b.0", 9))

	original, _ := Lookup(src, "a.b.0")
	assert.Equal(t, 1, original)
	assert.Equal(t, map[string]any{}, CloneMap(nil))
}

func TestPathText(t *testing.T) {
	var p Path
	require.NoError(t, p.UnmarshalText([]byte("a.0.b")))
	assert.Equal(t, Path{"a", "0", "b"}, p)

	text, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "a.0.b", string(text))
}
