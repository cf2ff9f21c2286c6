package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/histochart/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"svg", "PNG", " pdf ", "json"} {
		_, err := ParseFormat(in)
		require.NoError(t, err, in)
	}
	_, err := ParseFormat("gif")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
	require.Equal(t, ".pdf", FormatPDF.Ext())
}

func TestConvertSVGPassesThrough(t *testing.T) {
	svg := []byte("<svg/>")
	out, err := Convert(context.Background(), svg, FormatSVG, 1)
	require.NoError(t, err)
	require.Equal(t, svg, out)

	_, err = Convert(context.Background(), svg, FormatJSON, 1)
	require.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}
