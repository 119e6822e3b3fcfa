package statecodes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFips(t *testing.T) {
	code, ok := Fips("CA")
	require.True(t, ok)
	require.Equal(t, "06", code)

	code, ok = Fips("WY")
	require.True(t, ok)
	require.Equal(t, "56", code)

	_, ok = Fips("PR")
	require.False(t, ok)

	_, ok = Fips("")
	require.False(t, ok)
}
