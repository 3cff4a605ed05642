package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/middleware"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/services"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/upload"
)

// maxFormSize bounds a create request: one image plus room for the fields.
const maxFormSize = upload.MaxImageSize + 1<<20

type blogJSONRequest struct {
	Data     *[]models.ContentBlock `json:"data"`
	Category *[]models.Category     `json:"category"`
	Tags     []string               `json:"tags"`
	Image    string                 `json:"image"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

var errMissingFields = errs.Validation("", "All fields are required")

// decodeFormField parses a form value the client sent as a JSON string.
func decodeFormField(c *gin.Context, name string, dst any) (bool, error) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, errs.Validation(name, name+" must be valid JSON").WithCause(err)
	}
	return true, nil
}

// bindBlogForm reads the form fields and the optional image. The image is
// only checked here; storing it is left to CreateBlog.
func bindBlogForm(c *gin.Context) (services.BlogInput, *upload.Image, error) {
	var in services.BlogInput
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormSize)
	if err := c.Request.ParseMultipartForm(maxFormSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return in, nil, errs.Upload("Image must be 5MB or smaller")
		}
		return in, nil, errs.Validation("", "Invalid form data").WithCause(err)
	}

	hasData, err := decodeFormField(c, "data", &in.Data)
	if err != nil {
		return in, nil, err
	}
	hasCategory, err := decodeFormField(c, "category", &in.Category)
	if err != nil {
		return in, nil, err
	}
	if !hasData || !hasCategory {
		return in, nil, errMissingFields
	}
	if _, err := decodeFormField(c, "tags", &in.Tags); err != nil {
		return in, nil, err
	}

	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, errs.Upload("Failed to read image").WithCause(err)
	}
	src, err := file.Open()
	if err != nil {
		return in, nil, errs.Upload("Failed to read image").WithCause(err)
	}
	defer src.Close()

	img, err := upload.Read(src)
	if err != nil {
		return in, nil, err
	}
	return in, img, nil
}

func bindBlogJSON(c *gin.Context) (services.BlogInput, error) {
	var req blogJSONRequest
	if err := bindJSON(c, &req); err != nil {
		return services.BlogInput{}, err
	}
	if req.Data == nil || req.Category == nil {
		return services.BlogInput{}, errMissingFields
	}
	return services.BlogInput{Data: *req.Data, Category: *req.Category, Tags: req.Tags, Image: req.Image}, nil
}

// CreateBlog accepts either multipart form data with an optional image file
// or a plain JSON body. An image is stored only once the post has passed
// validation, and removed again if the post cannot be saved.
func (h *Handler) CreateBlog(c *gin.Context) {
	author, err := principal(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var (
		in  services.BlogInput
		img *upload.Image
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		in, img, err = bindBlogForm(c)
	} else {
		in, err = bindBlogJSON(c)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.blogs.Check(author, in); err != nil {
		h.fail(c, err)
		return
	}

	if img != nil {
		uploadCtx, cancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
		in.Image, err = h.uploader.Upload(uploadCtx, img)
		cancel()
		if err != nil {
			h.fail(c, errs.Internal("Failed to upload image", err))
			return
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	post, err := h.blogs.Create(ctx, author, in)
	if err != nil {
		if img != nil {
			h.discardImage(c, in.Image)
		}
		h.fail(c, err)
		return
	}
	h.logger.Info().Str("blog", post.ID.Hex()).Str("admin", author.Account.ID.Hex()).Msg("blog created")
	c.JSON(http.StatusCreated, gin.H{"message": "Blog created successfully", "blog": post})
}

// discardImage removes an image whose post was never stored. It runs even if
// the client has gone away.
func (h *Handler) discardImage(c *gin.Context, url string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), uploadTimeout)
	defer cancel()
	if err := h.uploader.Delete(ctx, url); err != nil {
		h.logger.Warn().Err(err).Str("image", url).Msg("orphaned upload not removed")
	}
}

func (h *Handler) ListBlogs(c *gin.Context) {
	var viewer *models.Principal
	if p, ok := middleware.PrincipalFrom(c); ok {
		viewer = &p
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.blogs.List(ctx, viewer)
	if err != nil {
		h.fail(c, errs.Internal("Error fetching blogs", err))
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetBlog(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	post, err := h.blogs.Get(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) ToggleLike(c *gin.Context) {
	liker, err := principal(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.blogs.ToggleLike(ctx, c.Param("id"), liker)
	if err != nil {
		h.fail(c, err)
		return
	}
	message := "Blog liked"
	if res.Action == models.Unliked {
		message = "Like removed"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "action": res.Action, "likesCount": res.LikesCount})
}

func (h *Handler) AddComment(c *gin.Context) {
	author, err := principal(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var req commentRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.blogs.AddComment(ctx, c.Param("id"), author, req.Comment)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Comment added", "comment": comment})
}

func (h *Handler) UpdateBlog(c *gin.Context) {
	var patch models.BlogPatch
	if err := bindJSON(c, &patch); err != nil {
		h.fail(c, err)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	post, err := h.blogs.Update(ctx, c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog updated successfully", "blog": post})
}

func (h *Handler) DeleteBlog(c *gin.Context) {
	requester, err := principal(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.blogs.Delete(ctx, c.Param("id"), requester); err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info().Str("blog", c.Param("id")).Msg("blog deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}
