package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type AddressInput struct {
	AddressLine string `json:"address_line" validate:"required,min=5,max=100"`
	City        string `json:"city"         validate:"required,regex=^[A-Za-z][A-Za-z ]+$"`
	State       string `json:"state"        validate:"required,regex=^[A-Za-z][A-Za-z ]+$"`
	Country     string `json:"country"      validate:"required,regex=^[A-Za-z][A-Za-z ]+$"`
	Pincode     string `json:"pincode"      validate:"required,regex=^[0-9]{6}$"`
	Mobile      string `json:"mobile"       validate:"required,regex=^[6-9][0-9]{9}$"`
}

func (in AddressInput) fields() map[string]interface{} {
	return map[string]interface{}{
		"address_line": strings.TrimSpace(in.AddressLine),
		"city":         strings.TrimSpace(in.City),
		"state":        strings.TrimSpace(in.State),
		"country":      strings.TrimSpace(in.Country),
		"pincode":      in.Pincode,
		"mobile":       in.Mobile,
	}
}

// AddressService manages a user's address book. Addresses are never removed,
// only disabled; a disabled or foreign address reads as not found.
type AddressService struct {
	addresses *repositories.AddressRepository
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{addresses: repositories.NewAddressRepository(db)}
}

func (s *AddressService) Create(ctx context.Context, userID uint, in AddressInput) (*models.Address, error) {
	a := &models.Address{
		UserID:      userID,
		AddressLine: strings.TrimSpace(in.AddressLine),
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),
		Country:     strings.TrimSpace(in.Country),
		Pincode:     in.Pincode,
		Mobile:      in.Mobile,
		Status:      true,
	}
	if err := s.addresses.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AddressService) List(ctx context.Context, userID uint) ([]models.Address, error) {
	out, err := s.addresses.Active(ctx, userID)
	if out == nil {
		out = []models.Address{}
	}
	return out, err
}

func (s *AddressService) Get(ctx context.Context, userID, id uint) (*models.Address, error) {
	a, err := s.addresses.FindActive(ctx, userID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAddressNotFound
	}
	return a, err
}

func (s *AddressService) Update(ctx context.Context, userID, id uint, in AddressInput) (*models.Address, error) {
	if err := s.addresses.Update(ctx, userID, id, in.fields()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func (s *AddressService) Disable(ctx context.Context, userID, id uint) error {
	err := s.addresses.Disable(ctx, userID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrAddressNotFound
	}
	return err
}
