package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/policy-validator-action/internal/shared"
)

// Writer publishes run results.
type Writer interface {
	// Append name=value to the step output file
	AppendOutput(name, value string) error
	// Write data to s3 bucket
	ExportToS3(ctx context.Context, bucket, key string, data []byte) error
}

// S3PutObjectAPI is the part of the S3 client the writer needs.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type _Writer struct {
	outputPath string
	s3Client   S3PutObjectAPI
	logger     logger.Logger
}

type WriterInitConfig struct {
	OutputPath string
	S3Client   S3PutObjectAPI // only needed for ExportToS3
	Logger     logger.Logger
}

func Init(config WriterInitConfig) (Writer, error) {
	// create new writer
	w, err := newWriter(config)
	// return errors
	if err != nil {
		return nil, err
	}
	return w, nil
}

func newWriter(config WriterInitConfig) (*_Writer, error) {
	// check if output path or logger is missing
	if config.OutputPath == "" {
		return nil, shared.ConfigError{Message: string(shared.EnvGithubOutput) + " is not set"}
	}
	if config.Logger == nil {
		return nil, errors.New("logger is not set")
	}
	return &_Writer{
		outputPath: config.OutputPath,
		s3Client:   config.S3Client,
		logger:     config.Logger,
	}, nil
}

// AppendOutput opens the output file for append, creating it if needed, and
// writes a single name=value line.
func (w *_Writer) AppendOutput(name, value string) error {
	file, err := os.OpenFile(w.outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return shared.PublishError{Target: w.outputPath, Err: err}
	}

	_, err = fmt.Fprintf(file, "%s=%s\n", name, value)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return shared.PublishError{Target: w.outputPath, Err: err}
	}
	w.logger.Debugf("[%s] written to [%s]", name, w.outputPath)
	return nil
}

// ExportToS3 uploads data to an S3 bucket.
func (w *_Writer) ExportToS3(ctx context.Context, bucket, key string, data []byte) error {
	target := "s3://" + bucket + "/" + key
	if w.s3Client == nil {
		return shared.PublishError{Target: target, Err: errors.New("s3 client is not set")}
	}

	// Upload the data to S3
	_, err := w.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		w.logger.Errorf("failed to export result to [%s] : %v", target, err)
		return shared.PublishError{Target: target, Err: err}
	}
	w.logger.Infof("result exported to [%s]", target)
	return nil
}

// FormatResult removes every whitespace rune from raw, including whitespace
// inside JSON string values.
func FormatResult(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
}

// PublishResult writes result=<formatted output> to the step output.
func PublishResult(w Writer, raw string) (string, error) {
	value := FormatResult(raw)
	if err := w.AppendOutput(shared.ActionOutputResult, value); err != nil {
		return "", err
	}
	return value, nil
}

// ArchiveKey returns <prefix>/<checkType>/<timestamp>.json.
func ArchiveKey(prefix string, checkType shared.CheckType, t time.Time) string {
	return path.Join(prefix, string(checkType), t.UTC().Format(time.RFC3339)+".json")
}
