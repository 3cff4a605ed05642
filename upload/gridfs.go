package upload

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFS stores images in a MongoDB GridFS bucket and streams them back
// under /uploads/:id.
type GridFS struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewGridFS(bucket *gridfs.Bucket, baseURL string) *GridFS {
	return &GridFS{bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

func (g *GridFS) Upload(ctx context.Context, img *Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := primitive.NewObjectID()
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": img.ContentType})
	if err := g.bucket.UploadFromStreamWithID(id, img.Name(), img.Reader(), opts); err != nil {
		return "", fmt.Errorf("store image in GridFS: %w", err)
	}
	return g.baseURL + "/uploads/" + id.Hex(), nil
}

func (g *GridFS) Delete(ctx context.Context, url string) error {
	name, ok := objectName(url, g.baseURL+"/uploads/")
	if !ok {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(name)
	if err != nil {
		return nil
	}
	err = g.bucket.DeleteContext(ctx, id)
	if err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return fmt.Errorf("delete GridFS image: %w", err)
	}
	return nil
}

func (g *GridFS) Mount(r gin.IRouter) {
	r.GET("/uploads/:id", g.serve)
}

func (g *GridFS) serve(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Image not found"})
		return
	}

	stream, err := g.bucket.OpenDownloadStream(id)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Image not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("id", id.Hex()).Msg("open GridFS image")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read image"})
		return
	}
	defer stream.Close()

	file := stream.GetFile()
	contentType := "application/octet-stream"
	if ct, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok {
		contentType = ct
	}
	c.DataFromReader(http.StatusOK, file.Length, contentType, stream, nil)
}
