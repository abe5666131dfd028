// Package fetcher downloads s3:// inputs to local files so the validator can
// read them from disk.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/policy-validator-action/internal/shared"
)

const s3Scheme = "s3://"

type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Fetcher interface {
	// download an s3:// object, returns the local path
	Fetch(ctx context.Context, uri string) (string, error)
	// remove downloaded files
	Cleanup() error
}

type _Fetcher struct {
	client  S3GetObjectAPI
	dir     string
	ownsDir bool
	count   int
	logger  logger.Logger
}

type FetcherInitConfig struct {
	Client S3GetObjectAPI
	// Dir receives downloads; a temp dir is created when empty
	Dir    string
	Logger logger.Logger
}

func Init(config FetcherInitConfig) (Fetcher, error) {
	if config.Client == nil || config.Logger == nil {
		return nil, errors.New("s3 client or logger is not set")
	}
	f := &_Fetcher{
		client: config.Client,
		dir:    config.Dir,
		logger: config.Logger,
	}
	if f.dir == "" {
		dir, err := os.MkdirTemp("", "policy-validator-")
		if err != nil {
			return nil, err
		}
		f.dir = dir
		f.ownsDir = true
	}
	return f, nil
}

// IsS3URI reports whether value names an S3 object.
func IsS3URI(value string) bool {
	return strings.HasPrefix(value, s3Scheme)
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", shared.FetchError{URI: uri, Err: errors.New("not an s3:// uri")}
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(uri, s3Scheme), "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", shared.FetchError{URI: uri, Err: errors.New("expected s3://bucket/key")}
	}
	return bucket, key, nil
}

func (f *_Fetcher) Fetch(ctx context.Context, uri string) (string, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return "", err
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		f.logger.Errorf("failed to get object [%s] from s3, %v", uri, err)
		return "", shared.FetchError{URI: uri, Err: err}
	}
	defer out.Body.Close()

	// prefix with a counter so two objects with the same base name don't collide
	f.count++
	local := filepath.Join(f.dir, fmt.Sprintf("%d-%s", f.count, path.Base(key)))
	file, err := os.Create(local)
	if err != nil {
		return "", shared.FetchError{URI: uri, Err: err}
	}
	_, err = io.Copy(file, out.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", shared.FetchError{URI: uri, Err: err}
	}

	f.logger.Infof("[%s] downloaded to [%s]", uri, local)
	return local, nil
}

func (f *_Fetcher) Cleanup() error {
	if !f.ownsDir {
		return nil
	}
	return os.RemoveAll(f.dir)
}

// NeedsFetch reports whether any file input of cfg is an s3:// uri.
func NeedsFetch(cfg shared.InputSource) bool {
	for _, key := range shared.FetchableInputs {
		if IsS3URI(cfg.Input(key)) {
			return true
		}
	}
	return false
}

// FetchInputs downloads every s3:// file input and points the input at the
// local copy. It returns the number of objects downloaded.
func FetchInputs(ctx context.Context, f Fetcher, cfg *shared.Config) (int, error) {
	fetched := 0
	for _, key := range shared.FetchableInputs {
		value := cfg.Input(key)
		if !IsS3URI(value) {
			continue
		}
		local, err := f.Fetch(ctx, value)
		if err != nil {
			return fetched, err
		}
		cfg.SetInput(key, local)
		fetched++
	}
	return fetched, nil
}
