package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/spacesedan/summariser/internal/bedrock"
	"github.com/spacesedan/summariser/internal/models"
	"github.com/spacesedan/summariser/internal/storage"
	"github.com/spacesedan/summariser/internal/summarizer"
)

var ErrNoBucket = errors.New("no bucket configured")

type Summarizer interface {
	Summarize(ctx context.Context, text string, model bedrock.Model) (summarizer.Result, error)
}

type ObjectStore interface {
	GetText(ctx context.Context, bucket, key string) (string, error)
	PutText(ctx context.Context, bucket, key, text string) error
}

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

type RecordStore interface {
	PutRecord(ctx context.Context, record models.SummaryRecord) error
}

// Deps are the collaborators a Dispatcher needs. Records may be nil.
type Deps struct {
	Summarizer Summarizer
	Store      ObjectStore
	Fetcher    Fetcher
	Models     *bedrock.Registry
	Records    RecordStore
}

type Options struct {
	// Bucket receives persisted request text and summaries.
	Bucket string
	// StoreRequests persists raw text and summary of /summarise-text calls.
	StoreRequests bool
}

// Dispatcher routes one Lambda event to the matching trigger handler.
type Dispatcher struct {
	Deps
	opts  Options
	now   func() time.Time
	newID func() string
}

func NewDispatcher(deps Deps, opts Options) *Dispatcher {
	return &Dispatcher{
		Deps:  deps,
		opts:  opts,
		now:   time.Now,
		newID: storage.NewObjectID,
	}
}

// Handle is the Lambda entrypoint. It returns an APIGatewayV2HTTPResponse for
// HTTP-shaped and direct events and a StorageResult for S3 notifications.
// Failures past input validation come back as errors and fail the invocation.
func (d *Dispatcher) Handle(ctx context.Context, payload json.RawMessage) (any, error) {
	inv, err := Classify(payload)
	if err != nil {
		slog.Error("[Dispatcher] Failed to decode event", slog.String("error", err.Error()))
		return nil, err
	}

	slog.Info("[Dispatcher] Received event",
		slog.String("kind", inv.Kind.String()),
		slog.String("path", inv.Path))

	switch inv.Kind {
	case KindStorage:
		return d.handleStorage(ctx, inv)
	case KindSubmitText:
		return d.handleSubmitText(ctx, inv.Request)
	case KindSubmitURL:
		return d.handleSubmitURL(ctx, inv.Request, models.SourceURL)
	case KindDirect:
		return d.handleDirect(ctx, inv.Request)
	default:
		return notFound(), nil
	}
}

// S3 uploads always use the default model; there is no caller to pick one.
func (d *Dispatcher) handleStorage(ctx context.Context, inv Invocation) (models.StorageResult, error) {
	key, err := storage.DecodeEventKey(inv.Key)
	if err != nil {
		return models.StorageResult{}, err
	}

	// our own output would otherwise retrigger the function
	if strings.HasPrefix(key, storage.SummaryPrefix) {
		slog.Warn("[Dispatcher] Ignoring event for summary object",
			slog.String("bucket", inv.Bucket),
			slog.String("key", key))
		return models.StorageResult{Status: "SKIPPED"}, nil
	}

	text, err := d.Store.GetText(ctx, inv.Bucket, key)
	if err != nil {
		return models.StorageResult{}, err
	}

	model := d.Models.Default()
	res, err := d.Summarizer.Summarize(ctx, text, model)
	if err != nil {
		return models.StorageResult{}, err
	}

	outKey := storage.SummaryKeyFor(key)
	if err := d.Store.PutText(ctx, inv.Bucket, outKey, res.Summary); err != nil {
		return models.StorageResult{}, err
	}

	d.record(ctx, models.SummaryRecord{
		Source:    models.SourceStorage,
		ModelID:   model.ID,
		InputKey:  key,
		OutputKey: outKey,
		InputSize: len([]rune(text)),
	}, res)

	return models.StorageResult{Status: "OK", Wrote: outKey}, nil
}

func (d *Dispatcher) handleSubmitText(ctx context.Context, req models.SummaryRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.Text == "" {
		return missingField("text"), nil
	}

	model := d.Models.Resolve(req.Model)
	record := models.SummaryRecord{
		Source:    models.SourceText,
		ModelID:   model.ID,
		InputSize: len([]rune(req.Text)),
	}

	var id string
	if d.opts.StoreRequests {
		if d.opts.Bucket == "" {
			return events.APIGatewayV2HTTPResponse{}, fmt.Errorf("store request text: %w", ErrNoBucket)
		}
		id = d.newID()
		record.InputKey = storage.GeneratedKey(storage.InputPrefix, "txt", d.now(), id)
		if err := d.Store.PutText(ctx, d.opts.Bucket, record.InputKey, req.Text); err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}
	}

	res, err := d.Summarizer.Summarize(ctx, req.Text, model)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	if d.opts.StoreRequests {
		record.OutputKey = storage.GeneratedKey(storage.SummaryPrefix, "txt", d.now(), id)
		if err := d.Store.PutText(ctx, d.opts.Bucket, record.OutputKey, res.Summary); err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}
	}

	d.record(ctx, record, res)
	return summaryResponse(res.Summary)
}

func (d *Dispatcher) handleSubmitURL(ctx context.Context, req models.SummaryRequest, source string) (events.APIGatewayV2HTTPResponse, error) {
	if req.URL == "" {
		return missingField("url"), nil
	}

	text, err := d.Fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	model := d.Models.Resolve(req.Model)
	res, err := d.Summarizer.Summarize(ctx, text, model)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	d.record(ctx, models.SummaryRecord{
		Source:    source,
		ModelID:   model.ID,
		SourceURL: req.URL,
		InputSize: len([]rune(text)),
	}, res)
	return summaryResponse(res.Summary)
}

// Direct invocations prefer text and fall back to fetching url.
func (d *Dispatcher) handleDirect(ctx context.Context, req models.SummaryRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.Text == "" {
		if req.URL == "" {
			return textResponse(http.StatusBadRequest, "Missing 'text' or 'url' field"), nil
		}
		return d.handleSubmitURL(ctx, req, models.SourceDirect)
	}

	model := d.Models.Resolve(req.Model)
	res, err := d.Summarizer.Summarize(ctx, req.Text, model)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	d.record(ctx, models.SummaryRecord{
		Source:    models.SourceDirect,
		ModelID:   model.ID,
		InputSize: len([]rune(req.Text)),
	}, res)
	return summaryResponse(res.Summary)
}

// record writes the audit entry. The summary is already delivered at this
// point, so a failed write is logged and not returned.
func (d *Dispatcher) record(ctx context.Context, rec models.SummaryRecord, res summarizer.Result) {
	if d.Records == nil {
		return
	}

	rec.RequestID = requestID(ctx, d.newID)
	rec.Chunks = res.Chunks
	rec.Truncated = res.Truncated
	rec.Cached = res.Cached

	if err := d.Records.PutRecord(ctx, rec); err != nil {
		slog.Warn("[Dispatcher] Failed to store summary record",
			slog.String("request_id", rec.RequestID),
			slog.String("error", err.Error()))
	}
}

func requestID(ctx context.Context, fallback func() string) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return fallback()
}
