package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSerial(t *testing.T) {
	t.Run("valid lowercases", func(t *testing.T) {
		s, err := ParseSerial("SN-0001:AB_c")
		require.NoError(t, err)
		assert.Equal(t, Serial("sn-0001:ab_c"), s)
	})

	t.Run("empty rejected", func(t *testing.T) {
		_, err := ParseSerial("")
		require.Error(t, err)
	})

	t.Run("too long rejected", func(t *testing.T) {
		_, err := ParseSerial(strings.Repeat("a", 65))
		require.Error(t, err)
	})

	t.Run("exactly 64 chars accepted", func(t *testing.T) {
		_, err := ParseSerial(strings.Repeat("a", 64))
		require.NoError(t, err)
	})

	t.Run("invalid characters rejected", func(t *testing.T) {
		_, err := ParseSerial("sn 0001")
		require.Error(t, err)
	})
}

func TestParsePackageName(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p, err := ParsePackageName("com.studio.beatsaber")
		require.NoError(t, err)
		assert.Equal(t, PackageName("com.studio.beatsaber"), p)
	})

	t.Run("single segment rejected", func(t *testing.T) {
		_, err := ParsePackageName("com")
		require.Error(t, err)
	})

	t.Run("segment starting with digit rejected", func(t *testing.T) {
		_, err := ParsePackageName("com.0studio")
		require.Error(t, err)
	})

	t.Run("empty segment rejected", func(t *testing.T) {
		_, err := ParsePackageName("com..studio")
		require.Error(t, err)
	})
}

func TestNewIDIsNotNil(t *testing.T) {
	id := NewID()
	assert.False(t, id.IsNil())
	assert.NotEmpty(t, id.String())
}
