package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"moiport/config"
	s3init "moiport/internal/init/s3"
	"moiport/internal/modules/tenant"
)

type TenantS3 struct {
	log       *slog.Logger
	client    *s3.Client
	bucket    string
	s3BaseURL string
}

func NewTenantS3(log *slog.Logger, s3Client *s3init.S3Storage, s3cfg config.S3Config) *TenantS3 {
	return &TenantS3{
		log:       log,
		client:    s3Client.Client,
		bucket:    s3cfg.BucketTenantLogos,
		s3BaseURL: fmt.Sprintf("https://%s/%s", s3cfg.Endpoint, s3cfg.BucketTenantLogos),
	}
}

func (s *TenantS3) UploadLogo(s3Key string, imageBytes []byte, contentType string) error {
	op := "TenantS3.UploadLogo"
	log := s.log.With(
		slog.String("op", op),
		slog.String("bucket", s.bucket),
		slog.String("key", s3Key),
	)

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3Key),
		Body:        bytes.NewReader(imageBytes),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error("failed to upload tenant logo to S3", "error", err)
		return tenant.ErrLogoUploadFailed
	}

	log.Info("tenant logo uploaded to S3 successfully")
	return nil
}

func (s *TenantS3) DeleteLogo(s3Key string) error {
	op := "TenantS3.DeleteLogo"
	log := s.log.With(
		slog.String("op", op),
		slog.String("bucket", s.bucket),
		slog.String("key", s3Key),
	)

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		log.Error("failed to delete tenant logo from S3", "error", err)
		return tenant.ErrTenantInternal
	}

	log.Info("tenant logo deleted from S3 successfully")
	return nil
}

func (s *TenantS3) GetLogoPublicURL(s3Key string) string {
	if s3Key == "" || s.s3BaseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", s.s3BaseURL, strings.TrimPrefix(s3Key, "/"))
}
