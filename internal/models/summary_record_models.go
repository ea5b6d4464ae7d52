package models

// Sources recorded on a SummaryRecord.
const (
	SourceStorage = "s3"
	SourceText    = "http-text"
	SourceURL     = "http-url"
	SourceDirect  = "direct"
)

// SummaryRecord is the audit entry written to DynamoDB for each summary.
type SummaryRecord struct {
	RequestID string `dynamodbav:"request_id"`
	Source    string `dynamodbav:"source"`
	ModelID   string `dynamodbav:"model_id"`
	InputKey  string `dynamodbav:"input_key,omitempty"`
	OutputKey string `dynamodbav:"output_key,omitempty"`
	SourceURL string `dynamodbav:"source_url,omitempty"`
	InputSize int    `dynamodbav:"input_chars"`
	Chunks    int    `dynamodbav:"chunks"`
	Truncated bool   `dynamodbav:"truncated"`
	Cached    bool   `dynamodbav:"cached"`
}
