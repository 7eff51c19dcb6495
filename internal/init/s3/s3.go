package s3

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"moiport/config"
)

// S3Storage holds the configured client for the tenant logo bucket.
type S3Storage struct {
	Client *s3.Client
	Cfg    config.S3Config
}

// NewS3Storage builds the S3 client and makes sure the logo bucket exists
// with a public-read policy.
func NewS3Storage(appS3Cfg config.S3Config) (*S3Storage, error) {
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")

	if accessKey == "" || secretKey == "" {
		return nil, errors.New("S3_ACCESS_KEY or S3_SECRET_KEY environment variables are not set")
	}

	customResolver := aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
		if service == s3.ServiceID {
			endpointURL := appS3Cfg.Endpoint
			if endpointURL != "" && !strings.HasPrefix(endpointURL, "http") {
				endpointURL = "https://" + endpointURL
			}
			return aws.Endpoint{
				URL:               endpointURL,
				HostnameImmutable: true,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	sdkLoadOptions := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsConfig.WithRegion(appS3Cfg.Region),
		awsConfig.WithEndpointResolver(customResolver),
	}

	sdkCfg, err := awsConfig.LoadDefaultConfig(context.TODO(), sdkLoadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg)
	storage := &S3Storage{
		Client: client,
		Cfg:    appS3Cfg,
	}

	if appS3Cfg.BucketTenantLogos != "" {
		if err := storage.ensureBucketExistsAndConfigured(appS3Cfg.BucketTenantLogos); err != nil {
			log.Printf("S3 Init: Warning - failed to ensure bucket '%s' is ready: %v", appS3Cfg.BucketTenantLogos, err)
		}
	}

	return storage, nil
}

func (s *S3Storage) ensureBucketExistsAndConfigured(bucketName string) error {
	_, err := s.Client.HeadBucket(context.TODO(), &s3.HeadBucketInput{Bucket: aws.String(bucketName)})
	if err != nil {
		var apiError interface{ ErrorCode() string }
		isNotFoundError := false
		if errors.As(err, &apiError) {
			errorCode := apiError.ErrorCode()
			if errorCode == "NotFound" || errorCode == "NoSuchBucket" {
				isNotFoundError = true
			}
		}
		if !isNotFoundError {
			return fmt.Errorf("error during HeadBucket for '%s': %w", bucketName, err)
		}

		var createBucketCfg *types.CreateBucketConfiguration
		if s.Cfg.Region != "" && s.Cfg.Region != "us-east-1" {
			createBucketCfg = &types.CreateBucketConfiguration{
				LocationConstraint: types.BucketLocationConstraint(s.Cfg.Region),
			}
		}
		_, createErr := s.Client.CreateBucket(context.TODO(), &s3.CreateBucketInput{
			Bucket:                    aws.String(bucketName),
			CreateBucketConfiguration: createBucketCfg,
		})
		if createErr != nil {
			var alreadyOwnedError *types.BucketAlreadyOwnedByYou
			var alreadyExistsError *types.BucketAlreadyExists
			if !errors.As(createErr, &alreadyOwnedError) && !errors.As(createErr, &alreadyExistsError) {
				return fmt.Errorf("failed to create bucket '%s': %w", bucketName, createErr)
			}
		}
	}

	if err := s.applyPublicReadPolicy(bucketName); err != nil {
		log.Printf("S3 Bucket '%s': Warning - failed to apply public read policy: %v", bucketName, err)
	}
	return nil
}

func (s *S3Storage) applyPublicReadPolicy(bucketName string) error {
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": "*",
				"Action": ["s3:GetObject"],
				"Resource": "arn:aws:s3:::%s/*"
			}
		]
	}`, bucketName)

	_, err := s.Client.PutBucketPolicy(context.TODO(), &s3.PutBucketPolicyInput{
		Bucket: aws.String(bucketName),
		Policy: aws.String(policy),
	})
	if err != nil {
		return fmt.Errorf("failed to apply public read policy: %w", err)
	}
	return nil
}
