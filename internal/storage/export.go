package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/sim"
)

// ExportData is the flat JSON shape consumed by downstream plotting
// tools: the grid plus one long series per compartment.
type ExportData struct {
	Beta        float64            `json:"beta"`
	Gamma       float64            `json:"gamma"`
	Checkpoints int                `json:"checkpoints"`
	Times       []float64          `json:"times"`
	Susceptible []float64          `json:"susceptible"`
	Infected    []float64          `json:"infected"`
	Recovered   []float64          `json:"recovered"`
	Summary     map[string]float64 `json:"summary"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, tr *sim.Trajectory) error {
	data := ExportData{
		Beta:        meta.Beta,
		Gamma:       meta.Gamma,
		Checkpoints: tr.Len(),
		Times:       tr.Times(),
		Susceptible: tr.Series(epi.S),
		Infected:    tr.Series(epi.I),
		Recovered:   tr.Series(epi.R),
		Summary:     meta.Summary,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func WriteCSV(w io.Writer, tr *sim.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i := 0; i < tr.Len(); i++ {
		state := tr.State(i)
		row := []string{strconv.FormatFloat(tr.Time(i), 'f', 6, 64)}
		for _, v := range state {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
