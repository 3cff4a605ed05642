package upload

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

const (
	BackendDisk       = "disk"
	BackendGridFS     = "gridfs"
	BackendCloudinary = "cloudinary"
	BackendS3         = "s3"
)

// Options selects and configures an upload backend.
type Options struct {
	Backend       string
	Dir           string
	BaseURL       string
	CloudinaryURL string
	S3Bucket      string
	AWSRegion     string
	// GridFSBucket is only consulted for the gridfs backend.
	GridFSBucket func() (*gridfs.Bucket, error)
}

func New(ctx context.Context, opts Options) (Uploader, error) {
	switch opts.Backend {
	case BackendDisk, "":
		return NewDisk(opts.Dir, opts.BaseURL)
	case BackendGridFS:
		if opts.GridFSBucket == nil {
			return nil, errors.New("gridfs uploads need MongoDB storage")
		}
		bucket, err := opts.GridFSBucket()
		if err != nil {
			return nil, fmt.Errorf("open GridFS bucket: %w", err)
		}
		return NewGridFS(bucket, opts.BaseURL), nil
	case BackendCloudinary:
		return NewCloudinary(opts.CloudinaryURL)
	case BackendS3:
		return NewS3FromEnv(ctx, opts.S3Bucket, opts.AWSRegion)
	default:
		return nil, fmt.Errorf("unknown upload backend %q", opts.Backend)
	}
}
