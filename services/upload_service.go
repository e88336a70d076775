package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/KeshavX3/ERP-2/apperrors"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// PresignedUpload is the response for a direct-to-S3 product image upload.
type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	Method    string `json:"method"`
	Key       string `json:"key"`
	PublicURL string `json:"public_url"`
	ExpiresIn int    `json:"expires_in"`
}

// UploadService issues presigned PUT URLs so product images go straight to
// S3 instead of through this server.
type UploadService struct {
	presigner *s3.PresignClient
	bucket    string
	region    string
}

func NewUploadService(ctx context.Context, bucket, region string) (*UploadService, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is not configured")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &UploadService{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		region:    region,
	}, nil
}

// PresignProductImage validates the content type and returns a presigned
// PUT URL for a fresh object key under products/.
func (s *UploadService) PresignProductImage(ctx context.Context, filename, contentType string) (*PresignedUpload, error) {
	if s == nil {
		return nil, apperrors.Internal("Uploads are not configured", nil)
	}

	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, apperrors.Validation("Invalid content type. Allowed: image/jpeg, image/png, image/webp, image/gif")
	}
	if fileExt := strings.ToLower(path.Ext(filename)); fileExt != "" {
		ext = fileExt
	}

	key := fmt.Sprintf("products/%s%s", uuid.New().String(), ext)
	expires := 15 * time.Minute

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return nil, apperrors.Internal("Failed to generate presigned upload", err)
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		Method:    "PUT",
		Key:       key,
		PublicURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key),
		ExpiresIn: int(expires.Seconds()),
	}, nil
}
