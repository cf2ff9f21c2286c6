package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/histochart/pkg/errors"
)

// Format is an output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want svg, png, pdf or json)", s)
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Convert turns SVG into f. SVG passes through unchanged; JSON is not a
// conversion of SVG and is rejected.
func Convert(ctx context.Context, svg []byte, f Format, scale float64) ([]byte, error) {
	switch f {
	case FormatSVG:
		return svg, nil
	case FormatPNG:
		return ToPNG(ctx, svg, scale)
	case FormatPDF:
		return ToPDF(ctx, svg)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "cannot convert SVG to %s", f)
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert: %s", strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
