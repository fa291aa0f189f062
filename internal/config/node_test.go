package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBlockAndLeaf(t *testing.T) {
	src := `
flight_controls {
  scalar_gain 1.5;
  control_surface "aileron" {
    min -25.0;
    max 25.0;
  }
}
`
	root, err := Parse(src, "test.cfg")
	require.NoError(t, err)
	require.Len(t, root.Children, 1)

	fc := root.Children[0]
	require.Equal(t, "flight_controls", fc.Name)

	gain := fc.Find("scalar_gain")
	require.NotNil(t, gain)
	v, err := gain.Float(0, "test.cfg")
	require.NoError(t, err)
	require.Equal(t, 1.5, v)

	surf := fc.Find("control_surface")
	require.NotNil(t, surf)
	require.Equal(t, "aileron", surf.Arg(0))

	min := surf.Find("min")
	require.NotNil(t, min)
	minVal, err := min.Float(0, "test.cfg")
	require.NoError(t, err)
	require.Equal(t, -25.0, minVal)
}

func TestParseUnterminatedBlockIsBadValue(t *testing.T) {
	_, err := Parse(`zone { min_alt 0;`, "bad.cfg")
	require.Error(t, err)
	var bv *BadValue
	require.ErrorAs(t, err, &bv)
}

func TestParseMissingSemicolonIsBadValue(t *testing.T) {
	_, err := Parse(`zone { min_alt 0 }`, "bad.cfg")
	require.Error(t, err)
	var bv *BadValue
	require.ErrorAs(t, err, &bv)
}
