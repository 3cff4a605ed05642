package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary pushes images to a Cloudinary account configured by a
// cloudinary:// URL.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloudinaryURL string) (*Cloudinary, error) {
	if cloudinaryURL == "" {
		return nil, errors.New("CLOUDINARY_URL is not set")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &Cloudinary{cld: cld, folder: Folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, img *Image) (string, error) {
	params := uploader.UploadParams{
		Folder:   c.folder,
		PublicID: strings.TrimSuffix(img.Name(), img.Extension),
	}
	res, err := c.cld.Upload.Upload(ctx, img.Reader(), params)
	if err != nil {
		return "", fmt.Errorf("upload to cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload to cloudinary: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// Delete destroys the asset behind a Cloudinary delivery URL, whose last
// segment is "<public id>.<ext>" inside the blogs folder.
func (c *Cloudinary) Delete(ctx context.Context, url string) error {
	i := strings.Index(url, "/"+c.folder+"/")
	if i < 0 {
		return nil
	}
	name := url[i+len(c.folder)+2:]
	if name == "" || strings.Contains(name, "/") {
		return nil
	}
	if dot := strings.LastIndexByte(name, '.'); dot > 0 {
		name = name[:dot]
	}
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: c.folder + "/" + name})
	if err != nil {
		return fmt.Errorf("destroy cloudinary asset: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("destroy cloudinary asset: %s", res.Error.Message)
	}
	return nil
}
