package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/metrics"
)

type ExportData struct {
	Params  *config.Params `json:"params"`
	Shape   [2]int         `json:"shape"`
	Samples int            `json:"samples"`
	Final   *metrics.Row   `json:"final,omitempty"`
	Rows    []metrics.Row  `json:"rows,omitempty"`
	UMax    float64        `json:"u_max"`
	VNorm   float64        `json:"v_norm"`
}

// ExportJSON writes a summary of an archive. Rows are included only when
// withRows is set.
func ExportJSON(w io.Writer, a *Archive, withRows bool) error {
	data := ExportData{
		Params:  a.Params,
		Shape:   [2]int{a.U.NY, a.U.NX},
		Samples: len(a.Rows),
		UMax:    a.U.Max(),
		VNorm:   a.V.Norm(),
	}
	if len(a.Rows) > 0 {
		final := a.Rows[len(a.Rows)-1]
		data.Final = &final
	}
	if withRows {
		data.Rows = a.Rows
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
