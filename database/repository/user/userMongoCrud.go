// File: database/repository/user/userMongoCrud.go
package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"metro/database/repository"
	"metro/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &user, nil
}

// SetContactID stores the provider payee id.
func (r *MongoUserRepo) SetContactID(ctx context.Context, id, contactID string) error {
	return r.updateSetDocument(ctx, id, bson.M{"partner_profile.contact_id": contactID})
}

// SetFundAccountID stores the provider funding destination id while the destination it was
// created for is still the one on file.
func (r *MongoUserRepo) SetFundAccountID(ctx context.Context, id string, provisioned models.BankDetails, fundAccountID string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":                          id,
		"bank_details.account_number": optionalField(provisioned.AccountNumber),
		"bank_details.ifsc_code":      optionalField(provisioned.IFSCCode),
		"bank_details.vpa":            optionalField(provisioned.VPA),
	}
	update := bson.M{"$set": bson.M{
		"bank_details.fund_account_id": fundAccountID,
		"updated_at":                   time.Now().UTC(),
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to store fund account for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrVersionConflict
	}
	return nil
}

// optionalField matches v, treating an empty value as an absent omitempty field.
func optionalField(v string) interface{} {
	if v == "" {
		return bson.M{"$in": bson.A{nil, ""}}
	}
	return v
}

// UpdateBankDetails replaces the whole bank details sub-document.
func (r *MongoUserRepo) UpdateBankDetails(ctx context.Context, id string, details models.BankDetails) error {
	return r.updateSetDocument(ctx, id, bson.M{"bank_details": details})
}

// UpdatePartnerProfile replaces the editable profile fields and keeps the payee id.
func (r *MongoUserRepo) UpdatePartnerProfile(ctx context.Context, id string, profile models.PartnerProfile) error {
	return r.updateSetDocument(ctx, id, bson.M{
		"partner_profile.bio":                  profile.Bio,
		"partner_profile.skills":               profile.Skills,
		"partner_profile.serviceable_pincodes": profile.ServiceablePincodes,
	})
}

// SetAvailability stores the blocked hours of one date.
func (r *MongoUserRepo) SetAvailability(ctx context.Context, id, date string, blockedHours []int) error {
	return r.updateSetDocument(ctx, id, bson.M{"availability." + date: blockedHours})
}

func (r *MongoUserRepo) SetRating(ctx context.Context, id string, rating float64) error {
	return r.updateSetDocument(ctx, id, bson.M{"rating": rating})
}

func (r *MongoUserRepo) updateSetDocument(ctx context.Context, id string, updateDoc bson.M) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	updateDoc["updated_at"] = time.Now().UTC()
	// Wrap in $set to comply with MongoDB update syntax
	update := bson.M{"$set": updateDoc}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
