package reviewRepo

import (
	"context"
	"fmt"
	"time"

	"metro/database/repository"
	"metro/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo creates a new instance of ReviewRepository using MongoDB.
func NewMongoReviewRepo(db *mongo.Database) (ReviewRepository, error) {
	repo := &MongoReviewRepo{coll: db.Collection("reviews")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, fmt.Errorf("review repository: %w", err)
	}
	return repo, nil
}

func (r *MongoReviewRepo) ensureIndexes() error {
	ctx, cancel := repository.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "partner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new review document.
func (r *MongoReviewRepo) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	review.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListByPartner returns a partner's reviews, newest first.
func (r *MongoReviewRepo) ListByPartner(ctx context.Context, partnerID string, approvedOnly bool) ([]models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"partner_id": partnerID}
	if approvedOnly {
		filter["is_approved"] = true
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// List returns reviews matching the admin filter, newest first.
func (r *MongoReviewRepo) List(ctx context.Context, f models.ReviewFilter) ([]models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if f.Rating != 0 {
		filter["rating"] = f.Rating
	}
	if f.PartnerID != "" {
		filter["partner_id"] = f.PartnerID
	}
	if f.CustomerID != "" {
		filter["customer_id"] = f.CustomerID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(500)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

// SetApproved flips the moderation flag of a review.
func (r *MongoReviewRepo) SetApproved(ctx context.Context, id string, approved bool) (*models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var review models.Review
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"is_approved": approved}}, opts).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return &review, nil
}

// Delete removes a review document.
func (r *MongoReviewRepo) Delete(ctx context.Context, id string) (*models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var review models.Review
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&review); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete review: %w", err)
	}
	return &review, nil
}

// ReviewedBookingIDs returns the booking ids reviewed by the customer.
func (r *MongoReviewRepo) ReviewedBookingIDs(ctx context.Context, customerID string) (map[string]bool, error) {
	ctx, cancel := repository.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ids, err := r.coll.Distinct(ctx, "booking_id", bson.M{"customer_id": customerID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviewed bookings: %w", err)
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		if s, ok := id.(string); ok {
			out[s] = true
		}
	}
	return out, nil
}
