package observation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var csvColumns = []string{"band", "reflectance", "sza", "vza", "saa", "vaa"}

// ReadCSV parses observations from a CSV stream with a header row naming
// the columns band, reflectance, sza, vza, saa and vaa in any order. Extra
// columns are ignored. Angles are degrees. NaN and infinite inputs are
// rejected.
func ReadCSV(r io.Reader) ([]Observation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv: missing header row")
		}
		return nil, fmt.Errorf("csv: reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("csv: missing column %q", col)
		}
	}

	var obs []Observation
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}

		var vals [5]float64
		for i, col := range csvColumns[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[index[col]]), 64)
			if err != nil {
				return nil, fmt.Errorf("csv: line %d: column %s: %w", line, col, err)
			}
			vals[i] = v
		}

		o := Observation{
			Band:        strings.TrimSpace(record[index["band"]]),
			Reflectance: vals[0],
			SZA:         vals[1],
			VZA:         vals[2],
			SAA:         vals[3],
			VAA:         vals[4],
		}
		if err := o.CheckFinite(); err != nil {
			return nil, fmt.Errorf("csv: line %d: column %w", line, err)
		}
		obs = append(obs, o)
	}

	return obs, nil
}

// WriteCSV writes results with the input columns followed by c_lambda,
// nbar and error.
func WriteCSV(w io.Writer, results []Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(append(append([]string{}, csvColumns...), "c_lambda", "nbar", "error")); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, r := range results {
		record := []string{
			r.Band, f(r.Reflectance), f(r.SZA), f(r.VZA), f(r.SAA), f(r.VAA),
			"", "", r.Error,
		}
		if r.Error == "" {
			record[6] = f(float64(r.CLambda))
			record[7] = f(float64(r.NBAR))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
