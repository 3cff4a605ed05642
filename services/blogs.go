package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
)

// BlogInput is what an author submits when creating a post.
type BlogInput struct {
	Data     []models.ContentBlock `json:"data"`
	Category []models.Category     `json:"category"`
	Tags     []string              `json:"tags"`
	Image    string                `json:"image"`
}

// BlogListItem is a post as shown in the public listing: the like set is
// replaced by its size and, for a signed-in user, whether they liked it.
type BlogListItem struct {
	ID         primitive.ObjectID    `json:"_id"`
	Data       []models.ContentBlock `json:"data"`
	Image      string                `json:"image"`
	Category   []models.Category     `json:"category"`
	Tags       []string              `json:"tags"`
	Comments   []models.Comment      `json:"comments"`
	Views      int64                 `json:"views"`
	AdminID    *primitive.ObjectID   `json:"adminId,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	LikesCount int                   `json:"likesCount"`
	IsLiked    bool                  `json:"isLiked"`
}

// BlogDetail is a single post without its author.
type BlogDetail struct {
	ID        primitive.ObjectID    `json:"_id"`
	Data      []models.ContentBlock `json:"data"`
	Image     string                `json:"image"`
	Category  []models.Category     `json:"category"`
	Tags      []string              `json:"tags"`
	Likes     []primitive.ObjectID  `json:"likes"`
	Comments  []models.Comment      `json:"comments"`
	Views     int64                 `json:"views"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

type Blogs struct {
	repo BlogRepository
	now  func() time.Time
}

func NewBlogs(repo BlogRepository) *Blogs {
	return &Blogs{repo: repo, now: time.Now}
}

func (s *Blogs) build(author models.Principal, in BlogInput) (*models.BlogPost, error) {
	if !author.IsAdmin() {
		return nil, errs.Forbidden("Only admins can create blogs")
	}
	authorID := author.Account.ID
	now := s.now().UTC()
	post := &models.BlogPost{
		ID:        primitive.NewObjectID(),
		Data:      append([]models.ContentBlock(nil), in.Data...),
		Image:     in.Image,
		Category:  in.Category,
		Tags:      in.Tags,
		AdminID:   &authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	post.Normalize()
	if err := models.Validate(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Check reports whether Create would accept in from author, without storing
// anything. Callers use it to reject a post before uploading its image.
func (s *Blogs) Check(author models.Principal, in BlogInput) error {
	_, err := s.build(author, in)
	return err
}

// Create stores a new post owned by author, with no likes, views or comments.
func (s *Blogs) Create(ctx context.Context, author models.Principal, in BlogInput) (*models.BlogPost, error) {
	post, err := s.build(author, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns every post newest first. viewer may be nil for anonymous
// callers, and isLiked is only ever true for a user viewer.
func (s *Blogs) List(ctx context.Context, viewer *models.Principal) ([]BlogListItem, error) {
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]BlogListItem, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		items = append(items, BlogListItem{
			ID:         p.ID,
			Data:       p.Data,
			Image:      p.Image,
			Category:   p.Category,
			Tags:       p.Tags,
			Comments:   p.Comments,
			Views:      p.Views,
			AdminID:    p.AdminID,
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
			LikesCount: p.LikesCount(),
			IsLiked:    viewer != nil && viewer.IsUser() && p.LikedBy(viewer.Account.ID),
		})
	}
	return items, nil
}

// Get counts a view and returns the post as it is after that view.
func (s *Blogs) Get(ctx context.Context, id string) (*BlogDetail, error) {
	p, err := s.repo.IncrementViews(ctx, id)
	if errs.IsNotFound(err) {
		return nil, errs.NotFound("Blog")
	}
	if err != nil {
		return nil, err
	}
	return &BlogDetail{
		ID:        p.ID,
		Data:      p.Data,
		Image:     p.Image,
		Category:  p.Category,
		Tags:      p.Tags,
		Likes:     p.Likes,
		Comments:  p.Comments,
		Views:     p.Views,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func (s *Blogs) ToggleLike(ctx context.Context, id string, liker models.Principal) (models.LikeResult, error) {
	if !liker.IsUser() {
		return models.LikeResult{}, errs.Forbidden("Only users can like blogs")
	}
	res, err := s.repo.ToggleLike(ctx, id, liker.Account.ID)
	if errs.IsNotFound(err) {
		return models.LikeResult{}, errs.NotFound("Blog")
	}
	return res, err
}

// Update merges patch into the stored post, validates the result and writes
// only the patched fields. Counters touched concurrently are never
// overwritten.
func (s *Blogs) Update(ctx context.Context, id string, patch models.BlogPatch) (*models.BlogPost, error) {
	current, err := s.repo.FindByID(ctx, id)
	if errs.IsNotFound(err) {
		return nil, errs.NotFound("Blog")
	}
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	merged := *current
	patch.Apply(&merged)
	merged.Normalize()
	if err := models.Validate(&merged); err != nil {
		return nil, err
	}

	var clean models.BlogPatch
	if patch.Data != nil {
		clean.Data = &merged.Data
	}
	if patch.Image != nil {
		clean.Image = &merged.Image
	}
	if patch.Category != nil {
		clean.Category = &merged.Category
	}
	if patch.Tags != nil {
		clean.Tags = &merged.Tags
	}

	updated, err := s.repo.Update(ctx, id, clean)
	if errs.IsNotFound(err) {
		return nil, errs.NotFound("Blog")
	}
	return updated, err
}

// Delete removes a post if requester is its author. Posts whose author is
// unknown cannot be deleted by anyone.
func (s *Blogs) Delete(ctx context.Context, id string, requester models.Principal) error {
	post, err := s.repo.FindByID(ctx, id)
	if errs.IsNotFound(err) {
		return errs.NotFound("Blog")
	}
	if err != nil {
		return err
	}
	if !requester.IsAdmin() || !post.AuthoredBy(requester.Account.ID) {
		return errs.Forbidden("Access denied. can't delete the Blog.")
	}
	err = s.repo.Delete(ctx, id)
	if errs.IsNotFound(err) {
		return errs.NotFound("Blog")
	}
	return err
}

func (s *Blogs) AddComment(ctx context.Context, id string, author models.Principal, text string) (*models.Comment, error) {
	if !author.IsUser() {
		return nil, errs.Forbidden("Only users can comment on blogs")
	}
	now := s.now().UTC()
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		User:      author.Account.ID,
		Text:      strings.TrimSpace(text),
		CreatedAt: now,
	}
	if err := models.Validate(&comment); err != nil {
		return nil, err
	}
	err := s.repo.AddComment(ctx, id, comment)
	if errs.IsNotFound(err) {
		return nil, errs.NotFound("Blog")
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
