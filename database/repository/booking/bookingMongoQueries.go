package bookingRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"metro/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListByCustomer returns a customer's bookings, newest first.
func (r *MongoBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"customer_id": customerID}, defaultListLimit)
}

// ListForPartner returns bookings in which the partner holds or has declined an item.
func (r *MongoBookingRepo) ListForPartner(ctx context.Context, partnerID string) ([]models.Booking, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"items.partner_id": partnerID},
		bson.M{"items.rejected_by.partner_id": partnerID},
	}}
	return r.find(ctx, filter, defaultListLimit)
}

// WalkCompletedForPartner streams every booking with an item the partner completed.
func (r *MongoBookingRepo) WalkCompletedForPartner(ctx context.Context, partnerID string, fn func(*models.Booking) error) error {
	ctx, cancel := newContext(ctx, 60*time.Second)
	defer cancel()

	filter := bson.M{"items": bson.M{"$elemMatch": bson.M{
		"partner_id": partnerID,
		"status":     bson.M{"$in": bson.A{models.ItemCompletedByPartner, models.ItemCompleted}},
	}}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("failed to retrieve completed bookings: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return fmt.Errorf("failed to decode booking: %w", err)
		}
		if err := fn(&b); err != nil {
			return err
		}
	}
	return cursor.Err()
}

// ListJobRequests returns open bookings broadcast to the partner or waiting on their confirmation.
func (r *MongoBookingRepo) ListJobRequests(ctx context.Context, partnerID string) ([]models.Booking, error) {
	filter := bson.M{
		"status": bson.M{"$nin": bson.A{models.BookingCancelled, models.BookingCompleted}},
		"$or": bson.A{
			bson.M{"broadcasted_to": partnerID},
			bson.M{"items": bson.M{"$elemMatch": bson.M{
				"partner_id": partnerID,
				"status":     models.ItemPendingPartnerConfirmation,
			}}},
		},
	}
	return r.find(ctx, filter, defaultListLimit)
}

// Search returns bookings matching the admin filter, newest first.
func (r *MongoBookingRepo) Search(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		filter["booking_id"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	if f.DateFrom != "" || f.DateTo != "" {
		rng := bson.M{}
		if f.DateFrom != "" {
			rng["$gte"] = f.DateFrom
		}
		if f.DateTo != "" {
			rng["$lte"] = f.DateTo
		}
		filter["booking_date"] = rng
	}
	limit := f.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return r.find(ctx, filter, limit)
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, limit int) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
