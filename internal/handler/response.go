package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spacesedan/summariser/internal/models"
)

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"
)

func corsHeaders(contentType string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "*",
		"Content-Type":                 contentType,
	}
}

func textResponse(status int, body string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    corsHeaders(contentTypeText),
		Body:       body,
	}
}

func summaryResponse(summary string) (events.APIGatewayV2HTTPResponse, error) {
	body, err := json.Marshal(models.SummaryResponse{Summary: summary})
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, fmt.Errorf("encode summary response: %w", err)
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Headers:    corsHeaders(contentTypeJSON),
		Body:       string(body),
	}, nil
}

func missingField(field string) events.APIGatewayV2HTTPResponse {
	return textResponse(http.StatusBadRequest, fmt.Sprintf("Missing '%s' field", field))
}

func notFound() events.APIGatewayV2HTTPResponse {
	return textResponse(http.StatusNotFound, "Not found")
}
