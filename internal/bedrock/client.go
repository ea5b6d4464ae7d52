package bedrock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const contentTypeJSON = "application/json"

// InvokeModelAPI is the slice of the Bedrock Runtime client used here.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type Client struct {
	api InvokeModelAPI
}

func NewClient(api InvokeModelAPI) *Client {
	return &Client{api: api}
}

// Generate sends one prompt to the model and returns its text output.
func (c *Client) Generate(ctx context.Context, model Model, prompt Prompt) (string, error) {
	body, err := model.Family.BuildRequest(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to build %s request: %w", model.Family.Name(), err)
	}

	start := time.Now()
	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(model.ID),
		Body:        body,
		ContentType: aws.String(contentTypeJSON),
		Accept:      aws.String(contentTypeJSON),
	})
	if err != nil {
		slog.Error("[BedrockClient] InvokeModel failed",
			slog.String("model_id", model.ID),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("invoke model %s: %w", model.ID, err)
	}

	text, err := model.Family.ParseResponse(out.Body)
	if err != nil {
		slog.Error("[BedrockClient] Failed to parse model response",
			slog.String("model_id", model.ID),
			slog.String("family", model.Family.Name()),
			slog.Int("raw_response_length", len(out.Body)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("parse %s response: %w", model.Family.Name(), err)
	}

	slog.Debug("[BedrockClient] InvokeModel successful",
		slog.String("model_id", model.ID),
		slog.Int("prompt_chars", len(prompt.User)),
		slog.Duration("elapsed", time.Since(start)))

	return text, nil
}
