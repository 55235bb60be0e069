package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validate checks the structural requirements for a submitted timeline and
// returns one human-readable message per problem; an empty slice means the
// phases are acceptable. Date ordering within a phase is deliberately not
// checked.
func Validate(phases []Phase) []string {
	var errs []string
	for i, phase := range phases {
		n := i + 1
		if strings.TrimSpace(phase.ID) == "" {
			errs = append(errs, fmt.Sprintf("phase %d: id is required", n))
		}
		if strings.TrimSpace(phase.Name) == "" {
			errs = append(errs, fmt.Sprintf("phase %d: name is required", n))
		}
		if strings.TrimSpace(phase.StartDate) == "" {
			errs = append(errs, fmt.Sprintf("phase %d: start date is required", n))
		}
		if strings.TrimSpace(phase.EndDate) == "" {
			errs = append(errs, fmt.Sprintf("phase %d: end date is required", n))
		}
		for j, task := range phase.Tasks {
			if strings.TrimSpace(task.ID) == "" {
				errs = append(errs, fmt.Sprintf("phase %d task %d: id is required", n, j+1))
			}
			if strings.TrimSpace(task.Name) == "" {
				errs = append(errs, fmt.Sprintf("phase %d task %d: name is required", n, j+1))
			}
			if strings.TrimSpace(task.DueDate) == "" {
				errs = append(errs, fmt.Sprintf("phase %d task %d: due date is required", n, j+1))
			}
		}
	}
	return errs
}

// DecodePayload decodes a raw timeline payload. A payload that is not a JSON
// array of phases fails with a single shape error; field-level validation is
// left to the save path, which fills missing identifiers first.
func DecodePayload(raw json.RawMessage) ([]Phase, []string) {
	var phases []Phase
	if err := json.Unmarshal(raw, &phases); err != nil {
		return nil, []string{"timeline must be an array of phases"}
	}
	return phases, nil
}

// FillIDs returns a copy of phases where every phase and task missing an
// identifier receives a fresh one. Present identifiers are preserved.
func FillIDs(phases []Phase, newID func() string) []Phase {
	filled := make([]Phase, len(phases))
	for i, phase := range phases {
		if strings.TrimSpace(phase.ID) == "" {
			phase.ID = newID()
		}
		if len(phase.Tasks) > 0 {
			tasks := make([]Task, len(phase.Tasks))
			for j, task := range phase.Tasks {
				if strings.TrimSpace(task.ID) == "" {
					task.ID = newID()
				}
				tasks[j] = task
			}
			phase.Tasks = tasks
		}
		filled[i] = phase
	}
	return filled
}
