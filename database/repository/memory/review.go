package memoryRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"metro/database/repository"
	"metro/models"
)

// ReviewStore implements reviewRepo.ReviewRepository in memory.
type ReviewStore struct {
	mu        sync.RWMutex
	byBooking map[string]models.Review
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{byBooking: make(map[string]models.Review)}
}

func (s *ReviewStore) Create(_ context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byBooking[review.BookingID]; ok {
		return repository.ErrDuplicate
	}
	review.CreatedAt = time.Now().UTC()
	s.byBooking[review.BookingID] = *review
	return nil
}

func (s *ReviewStore) ListByPartner(_ context.Context, partnerID string, approvedOnly bool) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Review
	for _, r := range s.byBooking {
		if r.PartnerID != partnerID || (approvedOnly && !r.IsApproved) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *ReviewStore) List(_ context.Context, f models.ReviewFilter) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Review{}
	for _, r := range s.byBooking {
		if f.Rating != 0 && r.Rating != f.Rating {
			continue
		}
		if f.PartnerID != "" && r.PartnerID != f.PartnerID {
			continue
		}
		if f.CustomerID != "" && r.CustomerID != f.CustomerID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *ReviewStore) SetApproved(_ context.Context, id string, approved bool) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, r := range s.byBooking {
		if r.ID == id {
			r.IsApproved = approved
			s.byBooking[key] = r
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *ReviewStore) Delete(_ context.Context, id string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, r := range s.byBooking {
		if r.ID == id {
			delete(s.byBooking, key)
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *ReviewStore) ReviewedBookingIDs(_ context.Context, customerID string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool)
	for id, r := range s.byBooking {
		if r.CustomerID == customerID {
			out[id] = true
		}
	}
	return out, nil
}
