package utils

import (
	"bytes"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Storage uploads files to an S3-compatible object store. Dispute
// evidence photos go through here.
type Storage struct {
	client    *s3.S3
	bucket    string
	publicURL string
}

// NewStorage connects to the configured S3-compatible endpoint.
func NewStorage(accessKey, secretKey, bucket, region, endpoint string) (*Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Endpoint:    aws.String(endpoint),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return nil, err
	}
	return &Storage{
		client:    s3.New(sess),
		bucket:    bucket,
		publicURL: fmt.Sprintf("https://%s.%s", bucket, trimScheme(endpoint)),
	}, nil
}

func trimScheme(endpoint string) string {
	for _, p := range []string{"https://", "http://"} {
		if len(endpoint) > len(p) && endpoint[:len(p)] == p {
			return endpoint[len(p):]
		}
	}
	return endpoint
}

// Upload stores the file publicly and returns its URL.
func (s *Storage) Upload(file []byte, fileName, folder, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := path.Join(folder, fileName)

	_, err := s.client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %v", err)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}
