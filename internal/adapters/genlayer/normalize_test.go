package genlayer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_NestedStructures(t *testing.T) {
	raw := json.RawMessage(`{
		"id": 3,
		"team1": "Arsenal",
		"odds_team1": "1.85",
		"total_pool": 125000,
		"nested": {"winner": -1, "list": [1, 2.5, "x"]}
	}`)

	v, err := normalizeRaw(raw)
	require.NoError(t, err)

	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(3), m["id"])
	assert.Equal(t, "Arsenal", m["team1"])
	assert.Equal(t, "1.85", m["odds_team1"], "las odds llegan como strings y pasan tal cual")
	assert.Equal(t, int64(125000), m["total_pool"])

	nested, ok := m["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(-1), nested["winner"])
	assert.Equal(t, []any{int64(1), 2.5, "x"}, nested["list"])
}

func TestNormalizeNumber_SafeIntegerRange(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"0", int64(0)},
		{"9007199254740991", int64(9007199254740991)},   // 2^53-1, justo dentro
		{"-9007199254740991", int64(-9007199254740991)}, // límite negativo
		{"9007199254740992", "9007199254740992"},        // fuera → string decimal
		{"-9007199254740992", "-9007199254740992"},
		{"184467440737095516150", "184467440737095516150"}, // > int64, no debe perder precisión
		{"2.5", 2.5},
		{"1e3", 1000.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeNumber(json.Number(tc.in)), "normalizeNumber(%s)", tc.in)
	}
}

func TestNormalizeRaw_Scalars(t *testing.T) {
	v, err := normalizeRaw(json.RawMessage(`42`))
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = normalizeRaw(json.RawMessage(`"0xdeadbeef"`))
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", v)

	v, err = normalizeRaw(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, v)
}
