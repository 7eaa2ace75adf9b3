package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCADGroupsThousands(t *testing.T) {
	t.Parallel()

	require.Equal(t, "$999.00", CAD(999, "en"))
	require.Equal(t, "$1,049.00", CAD(1049, "en"))
	require.Equal(t, "$1,234,567.89", CAD(1234567.89, "en"))
	require.Equal(t, "-$50.00", CAD(-50, "en"))
}

func TestCADFrenchStyle(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1 049,00 $", CAD(1049, "fr"))
	require.Equal(t, "999,50 $", CAD(999.5, "fr"))
}

func TestDateStringFallsBackToRaw(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Sep 1, 2026", DateString("2026-09-01T10:30:00Z", "en"))
	require.Equal(t, "2026-09-01", DateString("2026-09-01T10:30:00", "fr"))
	require.Equal(t, "not-a-date", DateString("not-a-date", "en"))
	require.Equal(t, "", DateString("  ", "en"))
}
