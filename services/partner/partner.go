package partner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"metro/apperrors"
	"metro/database/repository"
	userRepo "metro/database/repository/user"
	"metro/models"

	"go.uber.org/zap"
)

var (
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	vpaPattern     = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// PartnerService manages a partner's own payout destination, calendar and profile.
type PartnerService interface {
	GetBankDetails(ctx context.Context, actor models.Actor) (*models.BankDetails, error)
	UpdateBankDetails(ctx context.Context, actor models.Actor, req models.BankDetailsRequest) (*models.BankDetails, error)
	GetAvailability(ctx context.Context, actor models.Actor, date string) (*models.Availability, error)
	SetAvailability(ctx context.Context, actor models.Actor, req models.AvailabilityRequest) (*models.Availability, error)
	GetProfile(ctx context.Context, actor models.Actor) (*models.User, error)
	UpdateProfile(ctx context.Context, actor models.Actor, req models.UpdateProfileRequest) (*models.User, error)
}

type DefaultPartnerService struct {
	Users  userRepo.UserRepository
	Logger *zap.Logger
}

func NewPartnerService(users userRepo.UserRepository, logger *zap.Logger) *DefaultPartnerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultPartnerService{Users: users, Logger: logger}
}

func (s *DefaultPartnerService) GetBankDetails(ctx context.Context, actor models.Actor) (*models.BankDetails, error) {
	u, err := s.self(ctx, actor)
	if err != nil {
		return nil, err
	}
	if u.BankDetails == nil {
		return nil, apperrors.NotFound("bank details")
	}
	return masked(*u.BankDetails), nil
}

// UpdateBankDetails replaces the payout destination. The provider funding destination is
// dropped so the next payout provisions one for the new account.
func (s *DefaultPartnerService) UpdateBankDetails(ctx context.Context, actor models.Actor, req models.BankDetailsRequest) (*models.BankDetails, error) {
	if _, err := s.self(ctx, actor); err != nil {
		return nil, err
	}

	details := models.BankDetails{
		AccountHolderName: strings.TrimSpace(req.AccountHolderName),
		AccountNumber:     strings.ReplaceAll(strings.TrimSpace(req.AccountNumber), " ", ""),
		IFSCCode:          strings.ToUpper(strings.TrimSpace(req.IFSCCode)),
		VPA:               strings.TrimSpace(req.VPA),
	}
	if details.AccountHolderName == "" {
		return nil, apperrors.Validation("accountHolderName is required")
	}
	hasAccount := details.AccountNumber != "" || details.IFSCCode != ""
	if !hasAccount && details.VPA == "" {
		return nil, apperrors.Validation("provide accountNumber and ifscCode, or a vpa")
	}
	if hasAccount {
		if len(details.AccountNumber) < 9 || len(details.AccountNumber) > 18 || strings.Trim(details.AccountNumber, "0123456789") != "" {
			return nil, apperrors.Validation("accountNumber must be 9 to 18 digits")
		}
		if !ifscPattern.MatchString(details.IFSCCode) {
			return nil, apperrors.Validation("ifscCode is invalid")
		}
	}
	if details.VPA != "" && !vpaPattern.MatchString(details.VPA) {
		return nil, apperrors.Validation("vpa is invalid")
	}

	if err := s.Users.UpdateBankDetails(ctx, actor.ID, details); err != nil {
		return nil, apperrors.Internal("failed to save bank details", err)
	}
	s.Logger.Info("partner bank details updated", zap.String("partner_id", actor.ID))
	return masked(details), nil
}

func (s *DefaultPartnerService) GetAvailability(ctx context.Context, actor models.Actor, date string) (*models.Availability, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	u, err := s.self(ctx, actor)
	if err != nil {
		return nil, err
	}
	hours := u.Availability[date]
	if hours == nil {
		hours = []int{}
	}
	return &models.Availability{Date: date, BlockedHours: hours}, nil
}

// SetAvailability replaces the blocked hours of one date. An empty list unblocks the day.
func (s *DefaultPartnerService) SetAvailability(ctx context.Context, actor models.Actor, req models.AvailabilityRequest) (*models.Availability, error) {
	if err := validateDate(req.Date); err != nil {
		return nil, err
	}
	if _, err := s.self(ctx, actor); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(req.BlockedHours))
	hours := make([]int, 0, len(req.BlockedHours))
	for _, h := range req.BlockedHours {
		if h < 0 || h > 23 {
			return nil, apperrors.Validation(fmt.Sprintf("hour %d is outside 0-23", h))
		}
		if !seen[h] {
			seen[h] = true
			hours = append(hours, h)
		}
	}
	sort.Ints(hours)

	if err := s.Users.SetAvailability(ctx, actor.ID, req.Date, hours); err != nil {
		return nil, apperrors.Internal("failed to save availability", err)
	}
	return &models.Availability{Date: req.Date, BlockedHours: hours}, nil
}

func (s *DefaultPartnerService) GetProfile(ctx context.Context, actor models.Actor) (*models.User, error) {
	u, err := s.self(ctx, actor)
	if err != nil {
		return nil, err
	}
	if u.BankDetails != nil {
		u.BankDetails = masked(*u.BankDetails)
	}
	return u, nil
}

func (s *DefaultPartnerService) UpdateProfile(ctx context.Context, actor models.Actor, req models.UpdateProfileRequest) (*models.User, error) {
	if _, err := s.self(ctx, actor); err != nil {
		return nil, err
	}
	skills := normalize(req.Skills)
	if len(skills) == 0 {
		return nil, apperrors.Validation("at least one skill is required")
	}
	pincodes := normalize(req.ServiceablePincodes)
	for _, p := range pincodes {
		if !pincodePattern.MatchString(p) {
			return nil, apperrors.Validation("invalid pincode " + p)
		}
	}

	profile := models.PartnerProfile{
		Bio:                 strings.TrimSpace(req.Bio),
		Skills:              skills,
		ServiceablePincodes: pincodes,
	}
	if err := s.Users.UpdatePartnerProfile(ctx, actor.ID, profile); err != nil {
		return nil, apperrors.Internal("failed to save profile", err)
	}
	return s.GetProfile(ctx, actor)
}

func (s *DefaultPartnerService) self(ctx context.Context, actor models.Actor) (*models.User, error) {
	if actor.Role != models.RolePartner {
		return nil, apperrors.Forbidden("partner account required")
	}
	u, err := s.Users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("partner")
		}
		return nil, apperrors.Internal("failed to load partner", err)
	}
	u.FCMToken = ""
	return u, nil
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return apperrors.Validation("date must be YYYY-MM-DD")
	}
	return nil
}

// masked hides all but the last four account digits and the provider id.
func masked(d models.BankDetails) *models.BankDetails {
	if n := len(d.AccountNumber); n > 4 {
		d.AccountNumber = strings.Repeat("X", n-4) + d.AccountNumber[n-4:]
	}
	d.FundAccountID = ""
	return &d
}

func normalize(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
