package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spacesedan/summariser/config"
	"github.com/spacesedan/summariser/internal/bedrock"
	"github.com/spacesedan/summariser/internal/cache"
	"github.com/spacesedan/summariser/internal/clients"
	"github.com/spacesedan/summariser/internal/db"
	"github.com/spacesedan/summariser/internal/fetch"
	"github.com/spacesedan/summariser/internal/handler"
	"github.com/spacesedan/summariser/internal/logging"
	"github.com/spacesedan/summariser/internal/storage"
	"github.com/spacesedan/summariser/internal/summarizer"
)

var dispatcher *handler.Dispatcher

// init runs once per Lambda cold start
func init() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", slog.String("error", err.Error()))
		panic(err)
	}
	logging.InitLogger(cfg.LogLevel)
	slog.Info("Lambda cold start: Initializing...", slog.String("environment", cfg.AppEnv))

	registry, err := bedrock.NewRegistry(cfg.DefaultModelID)
	if err != nil {
		slog.Error("Invalid DEFAULT_MODEL_ID", slog.String("model_id", cfg.DefaultModelID), slog.String("error", err.Error()))
		panic(err)
	}

	awsCfg := clients.GetAWSConfig(cfg.AWSRegion, cfg.AWSEndpoint)

	var summaryCache summarizer.Cache
	if cfg.ValkeyAddress != "" {
		client, err := clients.NewValkeyClient(clients.ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			UseTLS:   cfg.ValkeyTLS,
		})
		if err != nil {
			// the cache is optional, run without it
			slog.Warn("Summary cache disabled", slog.String("error", err.Error()))
		} else {
			summaryCache = cache.NewSummaryCache(client, cfg.CacheTTL)
		}
	}

	var records handler.RecordStore
	if cfg.SummaryTableName != "" {
		records = db.NewRecordStore(clients.GetDynamoDBClient(awsCfg), cfg.SummaryTableName)
	}

	dispatcher = handler.NewDispatcher(handler.Deps{
		Summarizer: summarizer.New(bedrock.NewClient(clients.GetBedrockClient(awsCfg)), summaryCache),
		Store:      storage.NewStore(clients.GetS3Client(awsCfg)),
		Fetcher: fetch.NewFetcher(fetch.Options{
			Timeout:     cfg.FetchTimeout,
			ExtractHTML: cfg.ExtractHTML,
		}),
		Models:  registry,
		Records: records,
	}, handler.Options{
		Bucket:        cfg.BucketName,
		StoreRequests: cfg.StoreRequests,
	})

	slog.Info("Initialization complete.",
		slog.String("default_model", registry.Default().ID),
		slog.String("bucket", cfg.BucketName),
		slog.Bool("cache", summaryCache != nil),
		slog.Bool("records", records != nil))
}

func main() {
	lambda.Start(dispatcher.Handle)
}
