package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/thanos-io/objstore"
	"github.com/thanos-io/objstore/providers/filesystem"
	"github.com/thanos-io/objstore/providers/s3"
)

// New opens the bucket behind bucketURL. Supported forms:
//
//	s3://<endpoint>/<bucket>[/<prefix>][?region=..&insecure=true]
//	filesystem://<dir>
//	inmemory://
func New(ctx context.Context, bucketURL string) (objstore.Bucket, error) {
	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("parsing bucket URL: %w", err)
	}

	switch u.Scheme {
	case "s3":
		return newS3Bucket(u)
	case "filesystem":
		return filesystem.NewBucket(u.Host + u.Path)
	case "inmemory":
		return objstore.NewInMemBucket(), nil
	default:
		return nil, fmt.Errorf("unsupported bucket scheme: %s", u.Scheme)
	}
}

// s3Location splits the path of an s3 URL into bucket name and key prefix.
func s3Location(u *url.URL) (bucket, prefix string, err error) {
	p := strings.Trim(u.Path, "/")
	bucket, prefix, _ = strings.Cut(p, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("bucket name is empty")
	}
	return bucket, prefix, nil
}

func s3Config(u *url.URL, bucket string) s3.Config {
	q := u.Query()
	region := q.Get("region")
	if region == "" {
		region = "us-east-1"
	}

	return s3.Config{
		Bucket:    bucket,
		Endpoint:  u.Host,
		Region:    region,
		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		Insecure:  q.Get("insecure") == "true",
	}
}

func newS3Bucket(u *url.URL) (objstore.Bucket, error) {
	name, prefix, err := s3Location(u)
	if err != nil {
		return nil, err
	}

	bucket, err := s3.NewBucketWithConfig(log.NewNopLogger(), s3Config(u, name), "skyload",
		func(rt http.RoundTripper) http.RoundTripper { return rt })
	if err != nil {
		return nil, fmt.Errorf("creating S3 bucket %s: %w", name, err)
	}

	if prefix != "" {
		return objstore.NewPrefixedBucket(bucket, prefix), nil
	}
	return bucket, nil
}
