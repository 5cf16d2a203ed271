// Package memoryRepo holds in-process repositories for local runs and tests.
package memoryRepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"metro/database/repository"
	"metro/models"
)

// listLimit mirrors the cap the Mongo repository puts on list queries.
const listLimit = 200

// BookingStore implements bookingRepo.BookingRepository in memory with the same
// version semantics as the Mongo repository.
type BookingStore struct {
	mu       sync.RWMutex
	bookings map[string]*models.Booking
	codes    map[string]string
}

func NewBookingStore() *BookingStore {
	return &BookingStore{
		bookings: make(map[string]*models.Booking),
		codes:    make(map[string]string),
	}
}

func (s *BookingStore) Create(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[b.ID]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := s.codes[b.BookingID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	b.Version = 1
	s.bookings[b.ID] = b.Clone()
	s.codes[b.BookingID] = b.ID
	return nil
}

func (s *BookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b.Clone(), nil
}

func (s *BookingStore) Update(_ context.Context, b *models.Booking, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.bookings[b.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	b.Version = expectedVersion + 1
	b.UpdatedAt = time.Now().UTC()
	s.bookings[b.ID] = b.Clone()
	return nil
}

func (s *BookingStore) ListByCustomer(_ context.Context, customerID string) ([]models.Booking, error) {
	return capped(s.filter(func(b *models.Booking) bool { return b.CustomerID == customerID })), nil
}

func (s *BookingStore) ListForPartner(_ context.Context, partnerID string) ([]models.Booking, error) {
	return capped(s.filter(func(b *models.Booking) bool {
		for i := range b.Items {
			if b.Items[i].PartnerID == partnerID || b.Items[i].WasRejectedBy(partnerID) {
				return true
			}
		}
		return false
	})), nil
}

func (s *BookingStore) WalkCompletedForPartner(_ context.Context, partnerID string, fn func(*models.Booking) error) error {
	all := s.filter(func(b *models.Booking) bool {
		for _, it := range b.Items {
			if it.PartnerID == partnerID && (it.Status == models.ItemCompletedByPartner || it.Status == models.ItemCompleted) {
				return true
			}
		}
		return false
	})
	for i := len(all) - 1; i >= 0; i-- {
		if err := fn(&all[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *BookingStore) ListJobRequests(_ context.Context, partnerID string) ([]models.Booking, error) {
	return capped(s.filter(func(b *models.Booking) bool {
		if b.Status == models.BookingCancelled || b.Status == models.BookingCompleted {
			return false
		}
		if b.IsBroadcastTo(partnerID) {
			return true
		}
		for _, it := range b.Items {
			if it.PartnerID == partnerID && it.Status == models.ItemPendingPartnerConfirmation {
				return true
			}
		}
		return false
	})), nil
}

func (s *BookingStore) Search(_ context.Context, f models.BookingFilter) ([]models.Booking, error) {
	out := s.filter(func(b *models.Booking) bool {
		if f.Status != "" && b.Status != f.Status {
			return false
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(b.BookingID), strings.ToLower(f.Search)) {
			return false
		}
		if f.DateFrom != "" && b.BookingDate < f.DateFrom {
			return false
		}
		if f.DateTo != "" && b.BookingDate > f.DateTo {
			return false
		}
		return true
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func capped(out []models.Booking) []models.Booking {
	if len(out) > listLimit {
		return out[:listLimit]
	}
	return out
}

func (s *BookingStore) filter(keep func(*models.Booking) bool) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, *b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].BookingID > out[j].BookingID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
