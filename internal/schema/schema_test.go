package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSchemas(t *testing.T) {
	charity := Charity()
	assert.Equal(t, "charity", charity.Name)
	require.Len(t, charity.Fields, 3)
	assert.Contains(t, charity.Synonyms(FieldAmount), "发生金额")
	assert.Contains(t, charity.Synonyms(FieldAmount), "捐赠金额")

	holding := Holding()
	assert.Equal(t, "holding", holding.Name)
	require.Len(t, holding.Fields, 3)
	assert.Contains(t, holding.Synonyms(FieldShare), "当前份额")
	assert.Nil(t, holding.Synonyms(FieldCounterparty))
}

func TestApplyOverrides(t *testing.T) {
	base := Charity()

	t.Run("Nil overrides keep builtins", func(t *testing.T) {
		got, err := base.Apply(nil)
		require.NoError(t, err)
		assert.Equal(t, base, got)
	})

	t.Run("Override replaces one field only", func(t *testing.T) {
		got, err := base.Apply(map[string][]string{
			"amount": {"donation amount", "amt"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"donation amount", "amt"}, got.Synonyms(FieldAmount))
		assert.Equal(t, base.Synonyms(FieldProductName), got.Synonyms(FieldProductName))
		// The receiver stays untouched.
		assert.Contains(t, base.Synonyms(FieldAmount), "发生金额")
	})

	t.Run("Empty override list keeps builtins", func(t *testing.T) {
		got, err := base.Apply(map[string][]string{"amount": {}})
		require.NoError(t, err)
		assert.Equal(t, base.Synonyms(FieldAmount), got.Synonyms(FieldAmount))
	})

	t.Run("Unknown field fails loudly", func(t *testing.T) {
		_, err := base.Apply(map[string][]string{"amonut": {"typo"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "amonut")
	})
}

func TestDumpAndLoadOverridesRoundTrip(t *testing.T) {
	data, err := Holding().Dump()
	require.NoError(t, err)

	overrides, err := LoadOverrides(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"当前份额", "份额", "持有份额"}, overrides["share"])

	applied, err := Holding().Apply(overrides)
	require.NoError(t, err)
	assert.Equal(t, Holding(), applied)
}

func TestLoadOverridesRejectsMalformedYAML(t *testing.T) {
	_, err := LoadOverrides([]byte("amount: [unterminated"))
	assert.Error(t, err)
}
