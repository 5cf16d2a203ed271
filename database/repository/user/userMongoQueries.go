package userRepo

import (
	"context"
	"fmt"
	"time"

	"metro/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindPartners returns approved partners with the skill, optionally serving the pincode,
// excluding the given ids.
func (r *MongoUserRepo) FindPartners(ctx context.Context, q models.PartnerQuery) ([]models.User, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"role":   models.RolePartner,
		"status": models.PartnerApproved,
	}
	if q.Skill != "" {
		filter["partner_profile.skills"] = q.Skill
	}
	if q.Pincode != "" {
		filter["partner_profile.serviceable_pincodes"] = q.Pincode
	}
	if len(q.ExcludeIDs) > 0 {
		filter["id"] = bson.M{"$nin": q.ExcludeIDs}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetProjection(bson.M{"bank_details": 0, "fcm_token": 0})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve partners: %w", err)
	}
	defer cursor.Close(ctx)

	var partners []models.User
	if err := cursor.All(ctx, &partners); err != nil {
		return nil, fmt.Errorf("failed to decode partners: %w", err)
	}
	return partners, nil
}
