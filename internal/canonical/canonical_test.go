package canonical

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"int64", int64(-100), "-100"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"float", 1.5, "1.5"},
		{"integral float", 100.0, "100"},
		{"small float", 1e-7, "1e-07"},
		{"negative float", -0.123, "-0.123"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"string slice", []string{"a", "b"}, `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": 1,
		"alpha": 2,
		"beta":  map[string]any{"y": 1, "x": 2},
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":{"x":2,"y":1},"zebra":1}`, string(result))
}

func TestMarshalNoHTMLEscape(t *testing.T) {
	result, err := Marshal("<a&b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a&b>"`, string(result))
}

func TestMarshalNFCNormalization(t *testing.T) {
	decomposed, err := Marshal("e\u0301")
	require.NoError(t, err)
	composed, err := Marshal("\u00e9")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestMarshalRejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
		{"nested nan", map[string]any{"a": []any{1, math.NaN()}}},
		{"unsupported", struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestMarshalNull(t *testing.T) {
	got, err := Marshal(map[string]any{"unit": nil, "a": []any{1, nil}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,null],"unit":null}`, string(got))
}

func TestSortedKeysUTF16Order(t *testing.T) {
	// U+1F600 encodes as a surrogate pair (0xD83D...), which sorts before
	// U+FF21 (0xFF21) in UTF-16 even though it is after it in UTF-8.
	m := map[string]int{"\uFF21": 1, "\U0001F600": 2, "a": 3}
	assert.Equal(t, []string{"a", "\U0001F600", "\uFF21"}, SortedKeys(m))
}

func TestDigestDomainSeparation(t *testing.T) {
	data := []byte(`{"a":1}`)

	d1 := Digest(DomainDocument, data)
	d2 := Digest("testis/other/v1", data)

	assert.Len(t, d1, 64)
	assert.NotEqual(t, d1, d2)
	assert.Equal(t, d1, Digest(DomainDocument, data))
}

func TestDigestValueStableAcrossKeyOrder(t *testing.T) {
	a := map[string]any{"x": 1.25, "y": []any{"p", "q"}}
	b := map[string]any{"y": []any{"p", "q"}, "x": 1.25}

	da, err := DigestValue(DomainDocument, a)
	require.NoError(t, err)
	db, err := DigestValue(DomainDocument, b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}
