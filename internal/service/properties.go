package service

import (
	"context"
	"strings"

	"inmo-backoffice/internal/domain"
	"inmo-backoffice/internal/repository"
	"inmo-backoffice/internal/search"

	"go.uber.org/zap"
)

type ListingRequest struct {
	Title       string
	Price       int64
	Address     string
	Bedrooms    int
	ImageURL    string
	Description string
	Transaction domain.TransactionType
	Featured    bool
}

// ListingEdit nil fields are left unchanged. Occupancy is not editable here.
type ListingEdit struct {
	Title       *string
	Price       *int64
	Address     *string
	Bedrooms    *int
	ImageURL    *string
	Description *string
	Featured    *bool
}

type PropertyService struct {
	properties repository.Repository[domain.Property]
	newID      IDGenerator
	logger     *zap.Logger
}

func NewPropertyService(deps Deps, logger *zap.Logger) *PropertyService {
	deps = deps.withDefaults()
	return &PropertyService{properties: deps.Properties, newID: deps.NewID, logger: logger}
}

// CreateListing publishes a new, available property.
func (s *PropertyService) CreateListing(ctx context.Context, req ListingRequest) (domain.Property, error) {
	p := domain.Property{
		ID:          s.newID(),
		Title:       strings.TrimSpace(req.Title),
		Price:       req.Price,
		Address:     strings.TrimSpace(req.Address),
		Bedrooms:    req.Bedrooms,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Transaction: req.Transaction,
		Status:      domain.AvailabilityAvailable,
		Featured:    req.Featured,
	}
	if err := s.properties.Insert(ctx, p); err != nil {
		return domain.Property{}, err
	}
	s.logger.Info("Listing created", zap.String("property_id", p.ID), zap.String("type", string(p.Transaction)))
	return p, nil
}

func (s *PropertyService) UpdateListing(ctx context.Context, id string, edit ListingEdit) (domain.Property, error) {
	return s.properties.Update(ctx, id, func(p *domain.Property) error {
		if edit.Title != nil {
			p.Title = strings.TrimSpace(*edit.Title)
		}
		if edit.Price != nil {
			p.Price = *edit.Price
		}
		if edit.Address != nil {
			p.Address = strings.TrimSpace(*edit.Address)
		}
		if edit.Bedrooms != nil {
			p.Bedrooms = *edit.Bedrooms
		}
		if edit.ImageURL != nil {
			p.ImageURL = *edit.ImageURL
		}
		if edit.Description != nil {
			p.Description = *edit.Description
		}
		if edit.Featured != nil {
			p.Featured = *edit.Featured
		}
		return nil
	})
}

func (s *PropertyService) Get(ctx context.Context, id string) (domain.Property, error) {
	return s.properties.Get(ctx, id)
}

func (s *PropertyService) Search(ctx context.Context, query string) []domain.Property {
	return search.Properties(s.properties.List(ctx), query)
}

// Listings applies a rental or sale listing filter.
func (s *PropertyService) Listings(ctx context.Context, f search.ListingFilter) []domain.Property {
	return f.Apply(s.properties.List(ctx))
}

func (s *PropertyService) Featured(ctx context.Context) []domain.Property {
	return search.FeaturedListings(s.properties.List(ctx))
}
