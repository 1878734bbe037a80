package labeler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/rekognition"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseS3URL(t *testing.T) {
	t.Run("Valid S3 URL", func(t *testing.T) {
		bucket, prefix, err := parseS3URL("s3://mybucket/rekognition-input/beta/")
		require.NoError(t, err)
		assert.Equal(t, "mybucket", bucket)
		assert.Equal(t, "rekognition-input/beta/", prefix)
	})

	t.Run("Missing s3 prefix", func(t *testing.T) {
		_, _, err := parseS3URL("mybucket/mykey")
		require.Error(t, err)
		assert.Equal(t, "invalid S3 URL, missing 's3://' prefix", err.Error())
	})

	t.Run("No slash after bucket", func(t *testing.T) {
		_, _, err := parseS3URL("s3://mybucket")
		require.Error(t, err)
		assert.Equal(t, "invalid S3 URL, no '/' found after bucket name", err.Error())
	})
}

func TestHandleS3URL(t *testing.T) {
	s3c := new(mockS3Client)
	s3c.On("ListObjectsV2", mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		Contents: []*s3.Object{
			{Key: aws.String("rekognition-input/beta/a.jpg")},
			{Key: aws.String("rekognition-input/beta/b.jpg")},
		},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("token1"),
	}, nil)
	s3c.On("ListObjectsV2", mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return in.ContinuationToken != nil && *in.ContinuationToken == "token1"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []*s3.Object{
			{Key: aws.String("rekognition-input/beta/c.jpg")},
		},
		IsTruncated: aws.Bool(false),
	}, nil)

	rek := new(mockRekognitionClient)
	rek.On("DetectLabels", mock.Anything).Return(detectOutput(
		&rekognition.Label{Name: aws.String("Shoe"), Confidence: aws.Float64(90.0)},
	), nil)

	ddb := new(mockDynamoDBClient)
	ddb.On("PutItem", mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

	lb := newTestLabeler(rek, ddb, s3c, 168)
	err := lb.HandleS3URL("s3://images/rekognition-input/beta/")
	require.NoError(t, err)

	rek.AssertNumberOfCalls(t, "DetectLabels", 3)
	ddb.AssertNumberOfCalls(t, "PutItem", 3)
}

func TestHandleS3URL_InvalidURL(t *testing.T) {
	lb := newTestLabeler(nil, nil, nil, 168)
	err := lb.HandleS3URL("images/rekognition-input")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse S3 URL")
}

func TestHandleS3URL_LabelFailureSurfaces(t *testing.T) {
	s3c := new(mockS3Client)
	s3c.On("ListObjectsV2", mock.Anything).Return(&s3.ListObjectsV2Output{
		Contents: []*s3.Object{
			{Key: aws.String("rekognition-input/beta/a.jpg")},
		},
		IsTruncated: aws.Bool(false),
	}, nil)

	rek := new(mockRekognitionClient)
	rek.On("DetectLabels", mock.Anything).Return(nil, errors.New("throttled"))

	ddb := new(mockDynamoDBClient)

	lb := newTestLabeler(rek, ddb, s3c, 168)
	err := lb.HandleS3URL("s3://images/rekognition-input/beta/")
	require.Error(t, err)
	ddb.AssertNotCalled(t, "PutItem", mock.Anything)
}

func TestHandleLocalDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shoe.jpg"), []byte("jpg bytes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.PNG"), []byte("png bytes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o644))

	s3c := new(mockS3Client)
	var uploadedKeys []string
	s3c.On("PutObject", mock.AnythingOfType("*s3.PutObjectInput")).
		Run(func(args mock.Arguments) {
			in := args.Get(0).(*s3.PutObjectInput)
			assert.Equal(t, "images", *in.Bucket)
			uploadedKeys = append(uploadedKeys, *in.Key)
		}).
		Return(&s3.PutObjectOutput{}, nil)

	rek := new(mockRekognitionClient)
	rek.On("DetectLabels", mock.Anything).Return(detectOutput(), nil)

	ddb := new(mockDynamoDBClient)
	ddb.On("PutItem", mock.Anything).Return(&dynamodb.PutItemOutput{}, nil)

	lb := newTestLabeler(rek, ddb, s3c, 168)
	err := lb.HandleLocalDir(dir)
	require.NoError(t, err)

	// the txt file is skipped, extensions match case-insensitively
	assert.ElementsMatch(t, []string{
		"rekognition-input/shoe.jpg",
		"rekognition-input/scene.PNG",
	}, uploadedKeys)
	rek.AssertNumberOfCalls(t, "DetectLabels", 2)
	ddb.AssertNumberOfCalls(t, "PutItem", 2)
}

func TestHandleLocalDir_NoImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o644))

	s3c := new(mockS3Client)
	lb := newTestLabeler(nil, nil, s3c, 168)

	require.NoError(t, lb.HandleLocalDir(dir))
	s3c.AssertNotCalled(t, "PutObject", mock.Anything)
}

func TestHandleLocalDir_RequiresBucket(t *testing.T) {
	lb := newTestLabeler(nil, nil, nil, 168)
	lb.cfg.Bucket = ""

	err := lb.HandleLocalDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
}
