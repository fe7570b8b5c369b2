package contracts

import "fmt"

// Envelope status values
const (
	EnvelopeSuccess = "success"
	EnvelopeError   = "error"
)

// StageResult is the status envelope returned by every stage entry point
type StageResult struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Stage   Stage       `json:"stage,omitempty"`
	RunID   string      `json:"run_id,omitempty"`
	Summary interface{} `json:"summary,omitempty"`
}

// Success builds a success envelope
func Success(stage Stage, format string, args ...interface{}) StageResult {
	return StageResult{Status: EnvelopeSuccess, Stage: stage, Message: fmt.Sprintf(format, args...)}
}

// Failure builds an error envelope
func Failure(stage Stage, format string, args ...interface{}) StageResult {
	return StageResult{Status: EnvelopeError, Stage: stage, Message: fmt.Sprintf(format, args...)}
}

// OK reports whether the stage succeeded
func (r StageResult) OK() bool {
	return r.Status == EnvelopeSuccess
}

// FetchSummary reports the fetch stage outcome
type FetchSummary struct {
	Requested int      `json:"requested"`
	Fetched   int      `json:"fetched"`
	Failed    []string `json:"failed,omitempty"`
}

// PreprocessSummary reports the preprocess stage outcome
type PreprocessSummary struct {
	TotalCompanies              int            `json:"total_companies"`
	CompaniesWithSufficientData int            `json:"companies_with_sufficient_data"`
	AverageYearsData            float64        `json:"average_years_data"`
	CommonMetrics               map[string]int `json:"common_metrics"`
	Removed                     int            `json:"removed"`
	Undecodable                 []string       `json:"undecodable,omitempty"`
}

// AnalyzeSummary reports the analyze stage outcome
type AnalyzeSummary struct {
	Companies int            `json:"companies"`
	Statuses  map[string]int `json:"statuses"`
}
