package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rpupo63/blog-admin-console/config"
	"github.com/rpupo63/blog-admin-console/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	storageService     = "storage"
	defaultCacheMaxAge = "max-age=3600"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageStorage uploads post images to a bucket of an S3 compatible storage
// service and builds their public URLs.
type ImageStorage struct {
	client  objectPutter
	bucket  string
	baseURL string
	logger  zerolog.Logger
}

// NewImageStorage connects to the storage service's S3 endpoint at
// {baseURL}/storage/v1/s3 using path style addressing.
func NewImageStorage(baseURL string, settings config.StorageSettings) *ImageStorage {
	baseURL = strings.TrimSuffix(baseURL, "/")
	client := s3.New(s3.Options{
		Region:       settings.Region,
		BaseEndpoint: aws.String(baseURL + "/storage/v1/s3"),
		UsePathStyle: true,
		Credentials: credentials.NewStaticCredentialsProvider(
			settings.AccessKeyID, settings.SecretAccessKey, "",
		),
	})
	return newImageStorage(client, baseURL, settings.Bucket)
}

func newImageStorage(client objectPutter, baseURL, bucket string) *ImageStorage {
	return &ImageStorage{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  log.With().Str("service", storageService).Str("bucket", bucket).Logger(),
	}
}

// Upload stores body under key without overwriting an existing object and
// returns the stored object path.
func (s *ImageStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", errs.NewUnexpectedError(storageService, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(defaultCacheMaxAge),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("upload failed")
		return "", classifyStorageError(err)
	}

	s.logger.Info().Str("key", key).Int("bytes", len(data)).Msg("image uploaded")
	return key, nil
}

// PublicURL resolves the public address of a stored object path
func (s *ImageStorage) PublicURL(path string) string {
	return BuildPublicObjectURL(s.baseURL, s.bucket, path)
}

// BuildObjectKey names a stored image after the post it belongs to
func BuildObjectKey(title, filename string) string {
	return fmt.Sprintf("%s-%s", title, filename)
}

// BuildPublicObjectURL constructs
// {baseURL}/storage/v1/object/public/{bucket}/{path}. The path is never
// cleaned: each segment is escaped on its own, empty segments are kept, and
// dot segments are percent-encoded so clients cannot resolve them away.
func BuildPublicObjectURL(baseURL, bucket, path string) string {
	if baseURL == "" || path == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + "/storage/v1/object/public/" +
		url.PathEscape(bucket) + "/" + escapeObjectKey(path)
}

func escapeObjectKey(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		switch segment {
		case ".":
			segments[i] = "%2E"
		case "..":
			segments[i] = "%2E%2E"
		default:
			segments[i] = url.PathEscape(segment)
		}
	}
	return strings.Join(segments, "/")
}

func classifyStorageError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) {
			status = respErr.HTTPStatusCode()
		}
		message := apiErr.ErrorMessage()
		if message == "" {
			message = apiErr.ErrorCode()
		}
		return errs.NewServiceError(storageService, status, message, err)
	}
	return errs.NewUnexpectedError(storageService, err)
}
