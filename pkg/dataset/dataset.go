// Package dataset reads and writes the numeric datasets charts are built
// from.
//
// Three input forms are accepted:
//
//	[3, 1, 4, 1, 5]                               JSON array
//	{"data": [3, 1, 4], "domain": [0, 10]}        JSON object with optional domain
//	3 1 4, 1 5                                    numbers separated by spaces, commas or newlines
//
// In the plain form, text after a # up to the end of the line is ignored.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/histochart/pkg/chart/scale"
	"github.com/matzehuels/histochart/pkg/errors"
)

// Dataset is a list of values with an optional explicit domain.
type Dataset struct {
	Values []float64
	Domain *scale.Domain
}

type jsonDataset struct {
	Data   []float64   `json:"data"`
	Domain *[2]float64 `json:"domain,omitempty"`
}

// Read parses a dataset from r. Read does not close r.
func Read(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read dataset")
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dataset is empty")
	}

	var ds *Dataset
	switch trimmed[0] {
	case '[':
		var values []float64
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON array")
		}
		ds = &Dataset{Values: values}
	case '{':
		var data jsonDataset
		if err := json.Unmarshal(trimmed, &data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON object")
		}
		ds = &Dataset{Values: data.Data}
		if data.Domain != nil {
			ds.Domain = &scale.Domain{Min: data.Domain[0], Max: data.Domain[1]}
		}
	default:
		values, err := parsePlain(trimmed)
		if err != nil {
			return nil, err
		}
		ds = &Dataset{Values: values}
	}

	if len(ds.Values) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "dataset has no values")
	}
	for i, v := range ds.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "value %d is not a finite number", i+1)
		}
	}
	return ds, nil
}

// Import reads a dataset from a file. The path "-" reads standard input.
func Import(path string) (*Dataset, error) {
	if path == "-" {
		return Read(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes the dataset as a JSON object.
func Write(w io.Writer, ds *Dataset) error {
	out := jsonDataset{Data: ds.Values}
	if ds.Domain != nil {
		out.Domain = &[2]float64{ds.Domain.Min, ds.Domain.Max}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func parsePlain(raw []byte) ([]float64, error) {
	var values []float64
	sc := bufio.NewScanner(bytes.NewReader(raw))
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\r'
		})
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "line %d: %q is not a number", line, f)
			}
			values = append(values, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "scan dataset")
	}
	return values, nil
}
