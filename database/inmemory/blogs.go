package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
)

type storedPost struct {
	seq  uint64
	post models.BlogPost
}

// BlogStore is an in-memory blog collection. A single mutex serialises every
// write, which gives each like toggle and view increment the same atomicity
// a Mongo document update has.
type BlogStore struct {
	mu    sync.RWMutex
	seq   uint64
	posts map[primitive.ObjectID]*storedPost
}

func NewBlogStore() *BlogStore {
	return &BlogStore{posts: make(map[primitive.ObjectID]*storedPost)}
}

func clonePost(p *models.BlogPost) *models.BlogPost {
	cp := *p
	cp.Data = append([]models.ContentBlock{}, p.Data...)
	cp.Category = append([]models.Category{}, p.Category...)
	cp.Tags = append([]string{}, p.Tags...)
	cp.Likes = append([]primitive.ObjectID{}, p.Likes...)
	cp.Comments = append([]models.Comment{}, p.Comments...)
	if p.AdminID != nil {
		id := *p.AdminID
		cp.AdminID = &id
	}
	return &cp
}

func (s *BlogStore) lookup(id string) (*storedPost, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.NotFound("Blog")
	}
	sp, ok := s.posts[oid]
	if !ok {
		return nil, errs.NotFound("Blog")
	}
	return sp, nil
}

func (s *BlogStore) Insert(ctx context.Context, post *models.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	s.seq++
	s.posts[post.ID] = &storedPost{seq: s.seq, post: *clonePost(post)}
	return nil
}

func (s *BlogStore) FindAll(ctx context.Context) ([]models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := make([]*storedPost, 0, len(s.posts))
	for _, sp := range s.posts {
		stored = append(stored, sp)
	}
	sort.Slice(stored, func(i, j int) bool {
		a, b := stored[i], stored[j]
		if !a.post.CreatedAt.Equal(b.post.CreatedAt) {
			return a.post.CreatedAt.After(b.post.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]models.BlogPost, 0, len(stored))
	for _, sp := range stored {
		out = append(out, *clonePost(&sp.post))
	}
	return out, nil
}

func (s *BlogStore) FindByID(ctx context.Context, id string) (*models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return clonePost(&sp.post), nil
}

func (s *BlogStore) IncrementViews(ctx context.Context, id string) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sp.post.Views++
	return clonePost(&sp.post), nil
}

func (s *BlogStore) ToggleLike(ctx context.Context, id string, userID primitive.ObjectID) (models.LikeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, err := s.lookup(id)
	if err != nil {
		return models.LikeResult{}, err
	}
	for i, liker := range sp.post.Likes {
		if liker == userID {
			sp.post.Likes = append(sp.post.Likes[:i:i], sp.post.Likes[i+1:]...)
			return models.LikeResult{Action: models.Unliked, LikesCount: len(sp.post.Likes)}, nil
		}
	}
	sp.post.Likes = append(sp.post.Likes, userID)
	return models.LikeResult{Action: models.Liked, LikesCount: len(sp.post.Likes)}, nil
}

func (s *BlogStore) Update(ctx context.Context, id string, patch models.BlogPatch) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	patch.Apply(&sp.post)
	sp.post.UpdatedAt = time.Now().UTC()
	return clonePost(&sp.post), nil
}

func (s *BlogStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, err := s.lookup(id)
	if err != nil {
		return err
	}
	delete(s.posts, sp.post.ID)
	return nil
}

func (s *BlogStore) AddComment(ctx context.Context, id string, comment models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp, err := s.lookup(id)
	if err != nil {
		return err
	}
	sp.post.Comments = append(sp.post.Comments, comment)
	return nil
}
