package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/RollCut/internal/model"
)

// JobExtension is the file extension used for saved jobs.
const JobExtension = ".rollcut"

// SaveJob writes a job, including any packing result it carries, as JSON.
func SaveJob(path string, job model.Job) error {
	if err := writeJSON(path, job); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// LoadJob reads a job saved by SaveJob. Missing settings fall back to defaults.
func LoadJob(path string) (model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to read job: %w", err)
	}
	job := model.NewJob()
	if err := json.Unmarshal(data, &job); err != nil {
		return model.Job{}, fmt.Errorf("failed to parse job %s: %w", path, err)
	}
	if job.Pieces == nil {
		job.Pieces = []model.PieceType{}
	}
	return job, nil
}
