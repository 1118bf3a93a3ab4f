package api

import (
	"github.com/rick2x/fieldprofiler/app"
	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
)

// ProfileRequestDTO is the analyze endpoint's request body.
type ProfileRequestDTO struct {
	Fields      []string        `json:"fields,omitempty"`
	SelectedIDs []int64         `json:"selected_ids,omitempty"`
	Config      *profile.Config `json:"config,omitempty"`
}

// SelectRequestDTO names the statistic whose evidence should resolve back to
// records.
type SelectRequestDTO struct {
	Field string `json:"field"`
	Key   string `json:"key"`
}

// StatDTO is one statistic entry in transport form. HasEvidence tells the
// client which statistics the select endpoint accepts.
type StatDTO struct {
	Key         string `json:"key"`
	Value       any    `json:"value"`
	Note        string `json:"note,omitempty"`
	HasEvidence bool   `json:"has_evidence"`
}

// RecordDTO is one field's finished record in transport form.
type RecordDTO struct {
	Field       string    `json:"field"`
	StorageType string    `json:"storage_type"`
	WorkingType string    `json:"working_type"`
	Scoped      bool      `json:"scoped"`
	Stats       []StatDTO `json:"stats"`
}

// RunDTO is the analyze endpoint's response body.
type RunDTO struct {
	RunID     string      `json:"run_id"`
	Layer     string      `json:"layer"`
	RuntimeMs int64       `json:"runtime_ms"`
	Records   []RecordDTO `json:"records"`
}

func toRunDTO(run *app.RunResult) RunDTO {
	dto := RunDTO{
		RunID:     run.RunID.String(),
		Layer:     run.Layer,
		RuntimeMs: run.RuntimeMs,
		Records:   make([]RecordDTO, len(run.Records)),
	}
	for i, rec := range run.Records {
		dto.Records[i] = toRecordDTO(rec)
	}
	return dto
}

func toRecordDTO(rec *profile.Record) RecordDTO {
	dto := RecordDTO{
		Field:       rec.Field,
		StorageType: string(rec.Storage),
		WorkingType: string(rec.Working),
		Scoped:      rec.Scoped,
	}
	for _, s := range rec.Stats() {
		dto.Stats = append(dto.Stats, StatDTO{
			Key:         string(s.Key),
			Value:       s.Value,
			Note:        s.Note,
			HasEvidence: s.Evidence != nil,
		})
	}
	return dto
}

func toRecordIDs(raw []int64) []field.RecordID {
	out := make([]field.RecordID, len(raw))
	for i, id := range raw {
		out[i] = field.RecordID(id)
	}
	return out
}
