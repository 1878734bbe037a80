package labeler

import (
	"math"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/imglabel/label-pipe/internal/config"
	"github.com/imglabel/label-pipe/internal/types"
)

const (
	maxLabels     = 10
	minConfidence = 70.0
)

type RekognitionAPI interface {
	DetectLabels(input *rekognition.DetectLabelsInput) (*rekognition.DetectLabelsOutput, error)
}

type DynamoDBAPI interface {
	PutItem(input *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
}

type S3API interface {
	PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error)
	ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error)
}

// Labeler runs the label-and-persist flow. Clients are created once
// per process and shared across invocations; the Labeler itself holds
// no per-invocation state.
type Labeler struct {
	rekClient RekognitionAPI
	ddbClient DynamoDBAPI
	s3Client  S3API
	cfg       config.Config
	logger    *zap.Logger
	now       func() time.Time
}

func NewLabeler(sess *session.Session, cfg config.Config, logger *zap.Logger) *Labeler {
	return &Labeler{
		rekClient: rekognition.New(sess),
		ddbClient: dynamodb.New(sess),
		s3Client:  s3.New(sess),
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// withLogger returns a shallow copy of the Labeler carrying the given
// logger, so per-invocation fields like request ids don't leak into
// the shared instance.
func (l *Labeler) withLogger(logger *zap.Logger) *Labeler {
	c := *l
	c.logger = logger
	return &c
}

// LabelImage routes the object by key, detects labels, and persists
// one ResultRecord to the routed table. The expiry window is computed
// from the invocation time, so relabeling the same key produces an
// independent window.
func (l *Labeler) LabelImage(obj types.S3ObjectInfo) (types.ResultRecord, error) {
	branch, table := l.routeForKey(obj.Key)

	out, err := l.rekClient.DetectLabels(&rekognition.DetectLabelsInput{
		Image: &rekognition.Image{
			S3Object: &rekognition.S3Object{
				Bucket: aws.String(obj.Bucket),
				Name:   aws.String(obj.Key),
			},
		},
		MaxLabels:     aws.Int64(maxLabels),
		MinConfidence: aws.Float64(minConfidence),
	})
	if err != nil {
		return types.ResultRecord{}, &DetectionError{Bucket: obj.Bucket, Key: obj.Key, Err: err}
	}

	invokedAt := l.now().UTC()
	record := types.ResultRecord{
		Filename:  obj.Key,
		Timestamp: invokedAt.Format("2006-01-02T15:04:05Z"),
		Branch:    branch,
		Labels:    collectLabels(out),
		ExpiresAt: invokedAt.Unix() + int64(l.cfg.TTLHours)*3600,
	}

	if err := l.putRecord(table, record); err != nil {
		return types.ResultRecord{}, err
	}

	l.logger.Info("image labeled",
		zap.String("filename", record.Filename),
		zap.Any("labels", record.Labels),
		zap.String("timestamp", record.Timestamp),
		zap.String("branch", record.Branch),
		zap.String("table", table),
		zap.Int64("expires_at", record.ExpiresAt),
	)

	return record, nil
}

// collectLabels normalizes a DetectLabels response, skipping entries
// with a missing name or confidence and rounding confidence to two
// decimal places.
func collectLabels(out *rekognition.DetectLabelsOutput) []types.Label {
	labels := make([]types.Label, 0, len(out.Labels))
	for _, lbl := range out.Labels {
		if lbl.Name == nil || lbl.Confidence == nil {
			continue
		}
		labels = append(labels, types.Label{
			Name:       *lbl.Name,
			Confidence: roundConfidence(*lbl.Confidence),
		})
	}
	return labels
}

func roundConfidence(c float64) float64 {
	return math.Round(c*100) / 100
}
