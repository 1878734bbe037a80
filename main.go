package main

import (
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/imglabel/label-pipe/internal/config"
	"github.com/imglabel/label-pipe/internal/labeler"
)

func createSession(cfg config.Config) (*session.Session, error) {
	if cfg.Endpoint != "" {
		// localstack
		return session.NewSession(&aws.Config{
			Region:           aws.String(cfg.Region),
			Endpoint:         aws.String(cfg.Endpoint),
			DisableSSL:       aws.Bool(true),
			S3ForcePathStyle: aws.Bool(true),
		})
	}

	return session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
}

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	sess, err := createSession(cfg)
	if err != nil {
		logger.Fatal("failed to create AWS session", zap.Error(err))
	}

	lb := labeler.NewLabeler(sess, cfg, logger)

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		logger.Info("running in AWS Lambda environment")
		lambda.Start(lb.HandleLambdaEvent)
		return
	}

	logger.Info("running in cli mode")
	if len(os.Args) < 2 {
		logger.Fatal("an s3 url or image directory is required as an argument")
	}

	arg := os.Args[1]
	if strings.HasPrefix(arg, "s3://") {
		err = lb.HandleS3URL(arg)
	} else {
		err = lb.HandleLocalDir(arg)
	}
	if err != nil {
		logger.Fatal("batch labeling failed", zap.Error(err))
	}
}
