package dto

// ImportReport is the outcome of a CSV bulk import. The pipeline itself always
// resolves with a tally; individual row failures are listed in Errors.
type ImportReport struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Total     int      `json:"total"`
	Errors    []string `json:"errors,omitempty"`
}
