package labeler

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imglabel/label-pipe/internal/types"
)

// concurrency is the max number of images labeled at once in batch mode
const concurrency = 10

// uploadPrefix is where CLI directory mode places images. Uploads land
// outside the beta/prod subtrees, so the fallback route applies.
const uploadPrefix = "rekognition-input/"

// HandleLambdaEvent processes a single S3 object-created notification.
// The event source is configured for single-record delivery; extra
// records indicate a wiring change, so they are logged rather than
// silently dropped, and only the first record is processed.
func (l *Labeler) HandleLambdaEvent(ctx context.Context, event types.S3ObjectCreatedEvent) (types.Response, error) {
	inv := l
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		inv = l.withLogger(l.logger.With(zap.String("request_id", lc.AwsRequestID)))
	}

	if len(event.Records) == 0 {
		return types.Response{}, &MalformedEventError{Reason: "no records"}
	}
	if len(event.Records) > 1 {
		inv.logger.Warn("multi-record event, only the first record is processed",
			zap.Int("dropped", len(event.Records)-1))
	}

	rec := event.Records[0]
	bucket := rec.S3.Bucket.Name
	if bucket == "" {
		return types.Response{}, &MalformedEventError{Reason: "missing bucket name"}
	}
	rawKey := rec.S3.Object.Key
	if rawKey == "" {
		return types.Response{}, &MalformedEventError{Reason: "missing object key"}
	}
	// S3 notifications URL-encode keys ("my photo.jpg" arrives as "my+photo.jpg")
	key, err := url.QueryUnescape(rawKey)
	if err != nil {
		return types.Response{}, &MalformedEventError{Reason: fmt.Sprintf("undecodable object key %q", rawKey)}
	}

	record, err := inv.LabelImage(types.S3ObjectInfo{Bucket: bucket, Key: key})
	if err != nil {
		return types.Response{}, err
	}

	return types.Response{OK: true, Filename: record.Filename, Count: len(record.Labels)}, nil
}

// HandleS3URL labels every object under an existing s3://bucket/prefix.
func (l *Labeler) HandleS3URL(s3URL string) error {
	bucket, prefix, err := parseS3URL(s3URL)
	if err != nil {
		return fmt.Errorf("failed to parse S3 URL: %v", err)
	}

	batch := l.withLogger(l.logger.With(zap.String("run_id", uuid.NewString())))
	batch.logger.Info("labeling objects under prefix",
		zap.String("bucket", bucket), zap.String("prefix", prefix))

	var s3Objects []types.S3ObjectInfo
	var continuationToken *string
	for {
		resp, err := l.s3Client.ListObjectsV2(&s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return fmt.Errorf("failed to list objects: %v", err)
		}

		for _, item := range resp.Contents {
			s3Objects = append(s3Objects, types.S3ObjectInfo{
				Bucket: bucket,
				Key:    *item.Key,
			})
		}

		if resp.IsTruncated == nil || !*resp.IsTruncated {
			break
		}
		continuationToken = resp.NextContinuationToken
	}

	return batch.labelS3Objects(s3Objects)
}

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// HandleLocalDir uploads every image in dir to the configured bucket
// and labels each uploaded object.
func (l *Labeler) HandleLocalDir(dir string) error {
	if l.cfg.Bucket == "" {
		return fmt.Errorf("environment variable S3_BUCKET is required for directory mode")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %v", dir, err)
	}

	batch := l.withLogger(l.logger.With(zap.String("run_id", uuid.NewString())))

	var s3Objects []types.S3ObjectInfo
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		key := uploadPrefix + entry.Name()
		if err := batch.uploadImage(filepath.Join(dir, entry.Name()), key); err != nil {
			return err
		}
		s3Objects = append(s3Objects, types.S3ObjectInfo{Bucket: l.cfg.Bucket, Key: key})
	}

	if len(s3Objects) == 0 {
		batch.logger.Info("no images found, nothing to do", zap.String("dir", dir))
		return nil
	}

	return batch.labelS3Objects(s3Objects)
}

func (l *Labeler) uploadImage(path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	l.logger.Info("uploading image",
		zap.String("path", path), zap.String("bucket", l.cfg.Bucket), zap.String("key", key))
	_, err = l.s3Client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(l.cfg.Bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %v", path, err)
	}
	return nil
}

func (l *Labeler) labelS3Objects(s3Objects []types.S3ObjectInfo) error {
	errs := make(chan error, len(s3Objects)) // buffered channel for errors
	var wg sync.WaitGroup
	concurrent := make(chan int, concurrency) // buffered channel for concurrency

	for _, s3obj := range s3Objects {
		wg.Add(1)
		concurrent <- 1
		go func(s3obj types.S3ObjectInfo) {
			defer func() {
				wg.Done()
				<-concurrent
			}()
			if _, err := l.LabelImage(s3obj); err != nil {
				errs <- fmt.Errorf("error labeling s3://%s/%s: %w", s3obj.Bucket, s3obj.Key, err)
			}
		}(s3obj)
	}

	go func() {
		wg.Wait()
		close(errs)
	}()

	var errorList []error
	for err := range errs {
		errorList = append(errorList, err)
	}

	if len(errorList) > 0 {
		return fmt.Errorf("encountered errors: %v", errorList)
	}

	return nil
}

func parseS3URL(s3URL string) (bucket string, prefix string, err error) {
	if !strings.HasPrefix(s3URL, "s3://") {
		return "", "", fmt.Errorf("invalid S3 URL, missing 's3://' prefix")
	}
	trimmed := strings.TrimPrefix(s3URL, "s3://")
	splitPos := strings.Index(trimmed, "/")
	if splitPos == -1 {
		return "", "", fmt.Errorf("invalid S3 URL, no '/' found after bucket name")
	}
	bucket = trimmed[:splitPos]
	prefix = trimmed[splitPos+1:]
	return bucket, prefix, nil
}
