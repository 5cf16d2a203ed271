package memoryRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"metro/database/repository"
	"metro/models"
)

// UserStore implements userRepo.UserRepository in memory.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.BankDetails != nil {
		bd := *u.BankDetails
		c.BankDetails = &bd
	}
	if u.PartnerProfile != nil {
		pp := *u.PartnerProfile
		pp.Skills = append([]string(nil), u.PartnerProfile.Skills...)
		pp.ServiceablePincodes = append([]string(nil), u.PartnerProfile.ServiceablePincodes...)
		c.PartnerProfile = &pp
	}
	if u.Availability != nil {
		c.Availability = make(map[string][]int, len(u.Availability))
		for k, v := range u.Availability {
			c.Availability[k] = append([]int(nil), v...)
		}
	}
	return &c
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *UserStore) FindPartners(_ context.Context, q models.PartnerQuery) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	excluded := make(map[string]bool, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		excluded[id] = true
	}

	var out []models.User
	for _, u := range s.users {
		if u.Role != models.RolePartner || u.Status != models.PartnerApproved || excluded[u.ID] {
			continue
		}
		if q.Skill != "" && (u.PartnerProfile == nil || !contains(u.PartnerProfile.Skills, q.Skill)) {
			continue
		}
		if q.Pincode != "" && (u.PartnerProfile == nil || !contains(u.PartnerProfile.ServiceablePincodes, q.Pincode)) {
			continue
		}
		c := cloneUser(u)
		c.BankDetails = nil
		c.FCMToken = ""
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating == out[j].Rating {
			return out[i].ID < out[j].ID
		}
		return out[i].Rating > out[j].Rating
	})
	return out, nil
}

func (s *UserStore) SetContactID(_ context.Context, id, contactID string) error {
	return s.mutate(id, func(u *models.User) {
		if u.PartnerProfile == nil {
			u.PartnerProfile = &models.PartnerProfile{}
		}
		u.PartnerProfile.ContactID = contactID
	})
}

func (s *UserStore) SetFundAccountID(_ context.Context, id string, provisioned models.BankDetails, fundAccountID string) error {
	stale := false
	err := s.mutate(id, func(u *models.User) {
		bd := u.BankDetails
		if bd == nil || bd.AccountNumber != provisioned.AccountNumber || bd.IFSCCode != provisioned.IFSCCode || bd.VPA != provisioned.VPA {
			stale = true
			return
		}
		bd.FundAccountID = fundAccountID
	})
	if err != nil {
		return err
	}
	if stale {
		return repository.ErrVersionConflict
	}
	return nil
}

func (s *UserStore) UpdateBankDetails(_ context.Context, id string, details models.BankDetails) error {
	return s.mutate(id, func(u *models.User) {
		bd := details
		u.BankDetails = &bd
	})
}

func (s *UserStore) UpdatePartnerProfile(_ context.Context, id string, profile models.PartnerProfile) error {
	return s.mutate(id, func(u *models.User) {
		contactID := ""
		if u.PartnerProfile != nil {
			contactID = u.PartnerProfile.ContactID
		}
		p := profile
		p.Skills = append([]string(nil), profile.Skills...)
		p.ServiceablePincodes = append([]string(nil), profile.ServiceablePincodes...)
		p.ContactID = contactID
		u.PartnerProfile = &p
	})
}

func (s *UserStore) SetAvailability(_ context.Context, id, date string, blockedHours []int) error {
	return s.mutate(id, func(u *models.User) {
		if u.Availability == nil {
			u.Availability = make(map[string][]int)
		}
		u.Availability[date] = append([]int(nil), blockedHours...)
	})
}

func (s *UserStore) SetRating(_ context.Context, id string, rating float64) error {
	return s.mutate(id, func(u *models.User) { u.Rating = rating })
}

func (s *UserStore) mutate(id string, fn func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
