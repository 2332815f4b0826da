package address

import (
	"context"
	"strings"

	"storefront/internal/domain"
	addressrepo "storefront/internal/repository/address"
)

// Service manages a user's saved shipping addresses.
type Service struct {
	repo addressrepo.Repository
}

func New(repo addressrepo.Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput mirrors the address form.
type CreateInput struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Country  string `json:"country"`
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Address, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	a := domain.Address{
		UserID:   userID,
		FullName: strings.TrimSpace(in.FullName),
		Phone:    strings.TrimSpace(in.Phone),
		Street:   strings.TrimSpace(in.Street),
		City:     strings.TrimSpace(in.City),
		State:    strings.TrimSpace(in.State),
		Pincode:  strings.TrimSpace(in.Pincode),
		Country:  strings.TrimSpace(in.Country),
	}
	if a.FullName == "" || a.Phone == "" || a.Street == "" || a.City == "" || a.State == "" || a.Pincode == "" {
		return nil, domain.ErrInvalidAddress
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Address, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	return s.repo.Delete(ctx, userID, id)
}
