package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/database/inmemory"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
)

func principal(kind models.Kind) models.Principal {
	return models.Principal{Kind: kind, Account: models.Account{ID: primitive.NewObjectID()}}
}

func sampleInput() BlogInput {
	return BlogInput{
		Data: []models.ContentBlock{
			{Type: models.BlockTitle, Value: " Tree planting "},
			{Type: models.BlockParagraph, Value: "Two hundred saplings went in."},
		},
		Category: []models.Category{"Environment", "Events"},
		Tags:     []string{"trees", " ", "green "},
	}
}

func newBlogFixture(t *testing.T) (*Blogs, models.Principal, *models.BlogPost) {
	t.Helper()
	blogs := NewBlogs(inmemory.NewBlogStore())
	admin := principal(models.KindAdmin)
	post, err := blogs.Create(context.Background(), admin, sampleInput())
	require.NoError(t, err)
	return blogs, admin, post
}

func TestBlogs_CreateInitialState(t *testing.T) {
	_, admin, post := newBlogFixture(t)

	assert.Equal(t, "Tree planting", post.Data[0].Value)
	assert.Equal(t, []string{"trees", "green"}, post.Tags)
	assert.Equal(t, models.DefaultImageURL, post.Image)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)
	assert.Zero(t, post.Views)
	require.NotNil(t, post.AdminID)
	assert.Equal(t, admin.Account.ID, *post.AdminID)
}

func TestBlogs_CreateRejectsInvalid(t *testing.T) {
	blogs := NewBlogs(inmemory.NewBlogStore())
	admin := principal(models.KindAdmin)
	ctx := context.Background()

	in := sampleInput()
	in.Category = []models.Category{"Gardening"}
	_, err := blogs.Create(ctx, admin, in)
	assert.ErrorIs(t, err, errs.ErrValidation)

	in = sampleInput()
	in.Data = nil
	_, err = blogs.Create(ctx, admin, in)
	assert.Equal(t, "data", errs.As(err).Field)

	_, err = blogs.Create(ctx, principal(models.KindUser), sampleInput())
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestBlogs_CheckStoresNothing(t *testing.T) {
	store := inmemory.NewBlogStore()
	blogs := NewBlogs(store)
	admin := principal(models.KindAdmin)

	require.NoError(t, blogs.Check(admin, sampleInput()))

	in := sampleInput()
	in.Category = []models.Category{"Sports"}
	assert.ErrorIs(t, blogs.Check(admin, in), errs.ErrValidation)
	assert.ErrorIs(t, blogs.Check(principal(models.KindUser), sampleInput()), errs.ErrForbidden)

	posts, err := store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestBlogs_GetCountsViews(t *testing.T) {
	blogs, _, post := newBlogFixture(t)
	ctx := context.Background()

	const k = 25
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := blogs.Get(ctx, post.ID.Hex())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	detail, err := blogs.Get(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.EqualValues(t, k+1, detail.Views)

	_, err = blogs.Get(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBlogs_ToggleLikeAndListing(t *testing.T) {
	blogs, _, post := newBlogFixture(t)
	ctx := context.Background()
	asha := principal(models.KindUser)
	ravi := principal(models.KindUser)

	res, err := blogs.ToggleLike(ctx, post.ID.Hex(), asha)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Action: models.Liked, LikesCount: 1}, res)

	items, err := blogs.List(ctx, &asha)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].LikesCount)
	assert.True(t, items[0].IsLiked)

	items, err = blogs.List(ctx, &ravi)
	require.NoError(t, err)
	assert.False(t, items[0].IsLiked)

	items, err = blogs.List(ctx, nil)
	require.NoError(t, err)
	assert.False(t, items[0].IsLiked)
	assert.Equal(t, 1, items[0].LikesCount)

	res, err = blogs.ToggleLike(ctx, post.ID.Hex(), asha)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Action: models.Unliked, LikesCount: 0}, res)

	_, err = blogs.ToggleLike(ctx, post.ID.Hex(), principal(models.KindAdmin))
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestBlogs_ConcurrentTogglesByOneUser(t *testing.T) {
	blogs, _, post := newBlogFixture(t)
	ctx := context.Background()
	asha := principal(models.KindUser)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := blogs.ToggleLike(ctx, post.ID.Hex(), asha)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	detail, err := blogs.Get(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, detail.Likes)
}

func TestBlogs_ConcurrentLikesByManyUsers(t *testing.T) {
	blogs, _, post := newBlogFixture(t)
	ctx := context.Background()

	const n = 30
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := blogs.ToggleLike(ctx, post.ID.Hex(), principal(models.KindUser))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	detail, err := blogs.Get(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, detail.Likes, n)
}

func TestBlogs_Update(t *testing.T) {
	blogs, _, post := newBlogFixture(t)
	ctx := context.Background()
	asha := principal(models.KindUser)
	_, err := blogs.ToggleLike(ctx, post.ID.Hex(), asha)
	require.NoError(t, err)

	tags := []string{" updated "}
	updated, err := blogs.Update(ctx, post.ID.Hex(), models.BlogPatch{Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, []string{"updated"}, updated.Tags)
	assert.Len(t, updated.Likes, 1)
	assert.Equal(t, post.Data, updated.Data)

	bad := []models.Category{"Nope"}
	_, err = blogs.Update(ctx, post.ID.Hex(), models.BlogPatch{Category: &bad})
	assert.ErrorIs(t, err, errs.ErrValidation)

	empty := []models.ContentBlock{}
	_, err = blogs.Update(ctx, post.ID.Hex(), models.BlogPatch{Data: &empty})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = blogs.Update(ctx, primitive.NewObjectID().Hex(), models.BlogPatch{Tags: &tags})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBlogs_DeleteRequiresAuthor(t *testing.T) {
	blogs, author, post := newBlogFixture(t)
	ctx := context.Background()

	err := blogs.Delete(ctx, post.ID.Hex(), principal(models.KindAdmin))
	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, "Access denied. can't delete the Blog.", errs.As(err).Message)

	require.NoError(t, blogs.Delete(ctx, post.ID.Hex(), author))
	_, err = blogs.Get(ctx, post.ID.Hex())
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, blogs.Delete(ctx, post.ID.Hex(), author), errs.ErrNotFound)
}

func TestBlogs_DeleteOrphanedPost(t *testing.T) {
	store := inmemory.NewBlogStore()
	blogs := NewBlogs(store)
	ctx := context.Background()
	post := &models.BlogPost{
		Data:     []models.ContentBlock{{Type: models.BlockTitle, Value: "Legacy"}},
		Category: []models.Category{"Culture"},
	}
	post.Normalize()
	require.NoError(t, store.Insert(ctx, post))

	err := blogs.Delete(ctx, post.ID.Hex(), principal(models.KindAdmin))
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestBlogs_AddComment(t *testing.T) {
	blogs, admin, post := newBlogFixture(t)
	ctx := context.Background()
	asha := principal(models.KindUser)

	comment, err := blogs.AddComment(ctx, post.ID.Hex(), asha, "  Great work ")
	require.NoError(t, err)
	assert.Equal(t, "Great work", comment.Text)
	assert.Equal(t, asha.Account.ID, comment.User)

	detail, err := blogs.Get(ctx, post.ID.Hex())
	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)

	_, err = blogs.AddComment(ctx, post.ID.Hex(), asha, "   ")
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = blogs.AddComment(ctx, post.ID.Hex(), admin, "hi")
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = blogs.AddComment(ctx, primitive.NewObjectID().Hex(), asha, "hi")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
