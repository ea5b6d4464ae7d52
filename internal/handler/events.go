package handler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spacesedan/summariser/internal/models"
)

const (
	PathSummariseText = "/summarise-text"
	PathSummariseURL  = "/summarise"

	s3EventSourcePrefix = "aws:s3"
)

// Kind says which trigger produced an invocation.
type Kind int

const (
	KindUnknown Kind = iota
	KindStorage
	KindSubmitText
	KindSubmitURL
	KindDirect
)

func (k Kind) String() string {
	switch k {
	case KindStorage:
		return "storage"
	case KindSubmitText:
		return "submit-text"
	case KindSubmitURL:
		return "submit-url"
	case KindDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// Invocation is a classified event. Only the fields for its Kind are set.
type Invocation struct {
	Kind Kind
	// Path is the HTTP path for HTTP-shaped events, empty otherwise.
	Path string

	Bucket string
	Key    string

	Request models.SummaryRequest
}

// rawEvent overlays the fields of every trigger shape the function accepts:
// S3 notifications, API Gateway / function URL requests (v2 rawPath, v1
// path) and bare direct-invocation payloads.
type rawEvent struct {
	Records []events.S3EventRecord `json:"Records"`

	RawPath         string  `json:"rawPath"`
	Path            string  `json:"path"`
	Body            *string `json:"body"`
	IsBase64Encoded bool    `json:"isBase64Encoded"`

	Text  *string `json:"text"`
	URL   *string `json:"url"`
	Model string  `json:"model"`
}

// Classify decides which trigger fired. Malformed JSON, in the envelope or in
// an HTTP body, is an error; a missing field is not, so the caller can answer
// 400.
func Classify(payload []byte) (Invocation, error) {
	var ev rawEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Invocation{}, fmt.Errorf("decode event: %w", err)
	}

	if len(ev.Records) > 0 && strings.HasPrefix(ev.Records[0].EventSource, s3EventSourcePrefix) {
		rec := ev.Records[0].S3
		return Invocation{
			Kind:   KindStorage,
			Bucket: rec.Bucket.Name,
			Key:    rec.Object.Key,
		}, nil
	}

	path := ev.RawPath
	if path == "" {
		path = ev.Path
	}

	if path != "" {
		var kind Kind
		switch path {
		case PathSummariseText:
			kind = KindSubmitText
		case PathSummariseURL:
			kind = KindSubmitURL
		default:
			return Invocation{Kind: KindUnknown, Path: path}, nil
		}

		req, err := decodeBody(ev.Body, ev.IsBase64Encoded)
		if err != nil {
			return Invocation{}, err
		}
		return Invocation{Kind: kind, Path: path, Request: req}, nil
	}

	if ev.Text != nil || ev.URL != nil {
		req := models.SummaryRequest{Model: ev.Model}
		if ev.Text != nil {
			req.Text = *ev.Text
		}
		if ev.URL != nil {
			req.URL = *ev.URL
		}
		return Invocation{Kind: KindDirect, Request: req}, nil
	}

	return Invocation{Kind: KindUnknown}, nil
}

func decodeBody(body *string, isBase64 bool) (models.SummaryRequest, error) {
	var req models.SummaryRequest
	if body == nil || *body == "" {
		return req, nil
	}

	raw := []byte(*body)
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(*body)
		if err != nil {
			return req, fmt.Errorf("decode base64 body: %w", err)
		}
		raw = decoded
	}

	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("decode request body: %w", err)
	}
	return req, nil
}
