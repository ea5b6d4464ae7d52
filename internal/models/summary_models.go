package models

// SummaryRequest is the JSON body of the HTTP routes and the shape of a
// direct invocation payload.
type SummaryRequest struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Model string `json:"model,omitempty"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

// StorageResult is returned to the runtime after an S3-triggered run.
type StorageResult struct {
	Status string `json:"status"`
	Wrote  string `json:"wrote"`
}
