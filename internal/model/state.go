package model

import (
	"slices"

	"github.com/google/uuid"
)

// Stage is the pipeline phase a PipelineState was produced in.
type Stage string

const (
	StageIdle           Stage = "idle"
	StageResolvingQuery Stage = "resolving_query"
	StageCollecting     Stage = "collecting"
	StageClassifying    Stage = "classifying"
	StageParsing        Stage = "parsing"
	StageDone           Stage = "done"
	StageFailed         Stage = "failed"
)

// Terminal reports whether no further transitions follow s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// PipelineState is a snapshot of one search run. It is treated as immutable:
// every With* method returns a modified copy and never touches the receiver's
// slices.
type PipelineState struct {
	RunID       string       `json:"run_id"`
	Query       Query        `json:"query"`
	SearchQuery string       `json:"search_query,omitempty"`
	Stage       Stage        `json:"stage"`
	Links       []Link       `json:"links,omitempty"`
	Tiers       TierGroups   `json:"tiers"`
	InFlight    []TieredLink `json:"in_flight,omitempty"`
	Results     []ResultRow  `json:"results,omitempty"`
	Err         string       `json:"error,omitempty"`
}

// NewPipelineState starts a run for q with a fresh run ID.
func NewPipelineState(q Query) PipelineState {
	return PipelineState{
		RunID: uuid.NewString(),
		Query: q,
		Stage: StageIdle,
	}
}

// WithStage moves the state to the given stage.
func (s PipelineState) WithStage(stage Stage) PipelineState {
	s.Stage = stage
	return s
}

// WithSearchQuery records the resolved search string.
func (s PipelineState) WithSearchQuery(q string) PipelineState {
	s.SearchQuery = q
	return s
}

// WithLinks records the collected links.
func (s PipelineState) WithLinks(links []Link) PipelineState {
	s.Links = slices.Clone(links)
	return s
}

// WithTiers records the classifier output.
func (s PipelineState) WithTiers(g TierGroups) PipelineState {
	s.Tiers = TierGroups{
		Tier1: slices.Clone(g.Tier1),
		Tier2: slices.Clone(g.Tier2),
		Tier3: slices.Clone(g.Tier3),
	}
	return s
}

// WithInFlight records the links currently being parsed. An empty slice
// means parsing has finished.
func (s PipelineState) WithInFlight(links []TieredLink) PipelineState {
	s.InFlight = slices.Clone(links)
	return s
}

// WithResults replaces the result set wholesale.
func (s PipelineState) WithResults(rows []ResultRow) PipelineState {
	s.Results = slices.Clone(rows)
	return s
}

// WithError marks the run as failed.
func (s PipelineState) WithError(err error) PipelineState {
	s.Stage = StageFailed
	if err != nil {
		s.Err = err.Error()
	}
	return s
}
