package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/RollCut/internal/model"
)

// JobResult holds a job read from a TOML job file.
type JobResult struct {
	Job      model.Job
	Errors   []string
	Warnings []string
}

// jobFile is the TOML layout of a job:
//
//	name = "Kitchen"
//
//	[roll]
//	width = 1050
//	length = 50000
//
//	[settings]
//	max_row_pieces = 6
//	policy = "abandon"
//
//	[[piece]]
//	label = "Door"
//	width = 400
//	height = 700
//	quantity = 2
type jobFile struct {
	Name  string `toml:"name"`
	Roll  struct {
		Width  *int `toml:"width"`
		Length *int `toml:"length"`
	} `toml:"roll"`
	Settings struct {
		MaxRowPieces *int   `toml:"max_row_pieces"`
		Policy       string `toml:"policy"`
	} `toml:"settings"`
	Pieces []struct {
		Label    string `toml:"label"`
		Width    int    `toml:"width"`
		Height   int    `toml:"height"`
		Quantity *int   `toml:"quantity"`
	} `toml:"piece"`
}

// ImportJobTOML reads a job file. Values left out fall back to the defaults of
// base, which is typically model.NewJob() with the app config applied.
func ImportJobTOML(path string, base model.Job) JobResult {
	f, err := os.Open(path)
	if err != nil {
		return JobResult{Job: base, Errors: []string{fmt.Sprintf("Cannot open job file: %v", err)}}
	}
	defer f.Close()
	return DecodeJobTOML(f, base)
}

// DecodeJobTOML reads a job in TOML form from r.
func DecodeJobTOML(r io.Reader, base model.Job) JobResult {
	result := JobResult{Job: base}

	var jf jobFile
	md, err := toml.NewDecoder(r).Decode(&jf)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot parse job file: %v", err))
		return result
	}
	for _, key := range md.Undecoded() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Unknown key '%s' ignored", key))
	}

	job := &result.Job
	if jf.Name != "" {
		job.Name = jf.Name
	}
	if jf.Roll.Width != nil {
		job.Settings.RollWidth = *jf.Roll.Width
	}
	if jf.Roll.Length != nil {
		job.RollLength = *jf.Roll.Length
	}
	if jf.Settings.MaxRowPieces != nil {
		job.Settings.MaxRowPieces = *jf.Settings.MaxRowPieces
	}
	if jf.Settings.Policy != "" {
		job.Settings.Policy = model.Policy(strings.ToLower(jf.Settings.Policy))
	}

	job.Pieces = nil
	for i, p := range jf.Pieces {
		label := p.Label
		if label == "" {
			label = fmt.Sprintf("Piece %d", i+1)
		}
		qty := 1
		if p.Quantity != nil {
			qty = *p.Quantity
		}
		if p.Width <= 0 || p.Height <= 0 || qty <= 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Piece %d: Width, height, and quantity must be positive", i+1))
			continue
		}
		job.Pieces = append(job.Pieces, model.NewPieceType(label, p.Width, p.Height, qty))
	}

	if len(jf.Pieces) == 0 {
		result.Errors = append(result.Errors, "Job file has no [[piece]] entries")
	}
	return result
}
