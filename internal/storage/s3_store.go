package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const textContentType = "text/plain; charset=utf-8"

// S3API is the slice of the S3 client used by Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Store struct {
	api S3API
}

func NewStore(api S3API) *Store {
	return &Store{api: api}
}

// GetText reads an object and decodes it as UTF-8, dropping invalid bytes.
func (s *Store) GetText(ctx context.Context, bucket, key string) (string, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("[S3Store] get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("[S3Store] read s3://%s/%s: %w", bucket, key, err)
	}

	slog.Info("[S3Store] Read object",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.Int("bytes", len(raw)))

	return DecodeText(raw), nil
}

func (s *Store) PutText(ctx context.Context, bucket, key, text string) error {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(text)),
		ContentType: aws.String(textContentType),
	})
	if err != nil {
		return fmt.Errorf("[S3Store] put s3://%s/%s: %w", bucket, key, err)
	}

	slog.Info("[S3Store] Wrote object",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.Int("bytes", len(text)))
	return nil
}

// DecodeText turns bytes into a valid UTF-8 string, dropping invalid sequences.
func DecodeText(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "")
}
