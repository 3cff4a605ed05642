package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
)

// MaxImageSize is the largest accepted image, in bytes.
const MaxImageSize = 5 << 20

// Folder is the path prefix blog images are stored under on remote hosts.
const Folder = "blogs"

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

// Image is an uploaded file whose size and content type have been checked.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Name returns a fresh collision-free object name for the image.
func (img *Image) Name() string {
	return uuid.NewString() + img.Extension
}

func (img *Image) Reader() io.Reader { return bytes.NewReader(img.Data) }

// Read consumes r and accepts it only if it is a JPEG, PNG or WEBP image of
// at most MaxImageSize bytes. The type is sniffed from the content; the name
// and header the client sent are ignored.
func Read(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, errs.Upload("Failed to read image").WithCause(err)
	}
	if len(data) == 0 {
		return nil, errs.Upload("Image file is empty")
	}
	if len(data) > MaxImageSize {
		return nil, errs.Upload("Image must be 5MB or smaller")
	}

	mtype := mimetype.Detect(data)
	for _, allowed := range allowedTypes {
		if mtype.Is(allowed) {
			ext := mtype.Extension()
			if ext == "" {
				ext = "." + strings.TrimPrefix(allowed, "image/")
			}
			return &Image{Data: data, ContentType: allowed, Extension: ext}, nil
		}
	}
	return nil, errs.Upload("Only JPEG, PNG and WEBP images are allowed").
		WithCause(fmt.Errorf("detected %s", mtype.String()))
}

// Uploader stores a validated image and returns the public URL it is served
// from. Delete removes an image by that URL; URLs the backend did not issue
// are ignored.
type Uploader interface {
	Upload(ctx context.Context, img *Image) (string, error)
	Delete(ctx context.Context, url string) error
}

// objectName returns the last path segment of an upload URL when it lives
// under prefix.
func objectName(url, prefix string) (string, bool) {
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return "", false
	}
	return name, true
}

// Mounter is implemented by uploaders that serve their files from this
// process.
type Mounter interface {
	Mount(r gin.IRouter)
}
