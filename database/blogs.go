package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
)

type BlogRepo struct {
	coll *mongo.Collection
}

func NewBlogRepo(coll *mongo.Collection) *BlogRepo {
	return &BlogRepo{coll: coll}
}

func blogID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errs.NotFound("Blog")
	}
	return oid, nil
}

func (r *BlogRepo) Insert(ctx context.Context, post *models.BlogPost) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	return nil
}

func (r *BlogRepo) FindAll(ctx context.Context) ([]models.BlogPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []models.BlogPost{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}
	return posts, nil
}

func (r *BlogRepo) FindByID(ctx context.Context, id string) (*models.BlogPost, error) {
	oid, err := blogID(id)
	if err != nil {
		return nil, err
	}
	var post models.BlogPost
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NotFound("Blog")
	}
	if err != nil {
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return &post, nil
}

func (r *BlogRepo) findOneAndUpdate(ctx context.Context, id string, update any, out any, opts ...*options.FindOneAndUpdateOptions) error {
	oid, err := blogID(id)
	if err != nil {
		return err
	}
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts...).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.NotFound("Blog")
	}
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	return nil
}

func (r *BlogRepo) IncrementViews(ctx context.Context, id string) (*models.BlogPost, error) {
	var post models.BlogPost
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.findOneAndUpdate(ctx, id, bson.M{"$inc": bson.M{"views": 1}}, &post, opts); err != nil {
		return nil, err
	}
	return &post, nil
}

// toggleLikePipeline removes userID from likes when present and appends it
// otherwise. Running it as an update pipeline keeps the membership test and
// the write in one document operation.
func toggleLikePipeline(userID primitive.ObjectID) mongo.Pipeline {
	likes := bson.D{{Key: "$ifNull", Value: bson.A{"$likes", bson.A{}}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{userID, likes}}},
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: likes},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", userID}}}},
				}}},
				bson.D{{Key: "$concatArrays", Value: bson.A{likes, bson.A{userID}}}},
			}}}},
		}}},
	}
}

func (r *BlogRepo) ToggleLike(ctx context.Context, id string, userID primitive.ObjectID) (models.LikeResult, error) {
	var after struct {
		Likes []primitive.ObjectID `bson:"likes"`
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likes": 1})
	if err := r.findOneAndUpdate(ctx, id, toggleLikePipeline(userID), &after, opts); err != nil {
		return models.LikeResult{}, err
	}

	res := models.LikeResult{Action: models.Unliked, LikesCount: len(after.Likes)}
	for _, liker := range after.Likes {
		if liker == userID {
			res.Action = models.Liked
			break
		}
	}
	return res, nil
}

func (r *BlogRepo) Update(ctx context.Context, id string, patch models.BlogPatch) (*models.BlogPost, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Data != nil {
		set["data"] = *patch.Data
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}

	var post models.BlogPost
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.findOneAndUpdate(ctx, id, bson.M{"$set": set}, &post, opts); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	oid, err := blogID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("Blog")
	}
	return nil
}

func (r *BlogRepo) AddComment(ctx context.Context, id string, comment models.Comment) error {
	oid, err := blogID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("Blog")
	}
	return nil
}
