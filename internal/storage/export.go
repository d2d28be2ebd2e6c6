package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/ballsim/internal/sim"
)

type ExportData struct {
	Run     RunMetadata  `json:"run"`
	Fields  []string     `json:"fields"`
	Samples []sim.Sample `json:"samples"`
}

func ExportJSON(w io.Writer, meta RunMetadata, samples []sim.Sample) error {
	data := ExportData{
		Run:     meta,
		Fields:  sim.SampleFields,
		Samples: samples,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes a header of sim.SampleFields and one row per sample.
func ExportCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sim.SampleFields); err != nil {
		return err
	}
	row := make([]string, len(sim.SampleFields))
	for _, smp := range samples {
		for i, v := range smp.Values() {
			row[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
