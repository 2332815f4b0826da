package product

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

// ErrReviewNotAllowed is returned when the user has no delivered order
// containing the product.
var ErrReviewNotAllowed = errors.New("only customers with a delivered order can review this product")

type deliveryChecker interface {
	HasDeliveredProduct(ctx context.Context, userID, productID string) (bool, error)
}

// Service covers the catalog: browsing, search, admin CRUD and reviews.
type Service struct {
	repo       productrepo.Repository
	deliveries deliveryChecker
}

func New(repo productrepo.Repository, deliveries deliveryChecker) *Service {
	return &Service{repo: repo, deliveries: deliveries}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, f productrepo.SearchFilter) ([]domain.Product, error) {
	return s.repo.Search(ctx, f)
}

// Suggest returns up to limit product names matching the query prefix or
// substring, for the search box dropdown.
func (s *Service) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}
	if limit < 1 || limit > 20 {
		limit = 8
	}
	return s.repo.Suggest(ctx, query, limit)
}

// CheckStock reports whether quantity units of the product are available.
func (s *Service) CheckStock(ctx context.Context, productID string, quantity int) (bool, int, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return false, 0, err
	}
	return p.Stock >= quantity, p.Stock, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) LowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	if threshold < 1 {
		threshold = 10
	}
	return s.repo.LowStock(ctx, threshold)
}

// CreateInput mirrors the admin product form.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Brand       string `json:"brand"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	p, err := validated(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, *p)
}

// BulkCreate inserts many products at once and returns how many were
// created. The whole batch is rejected when any entry is invalid.
func (s *Service) BulkCreate(ctx context.Context, ins []CreateInput) (int, error) {
	if len(ins) == 0 {
		return 0, domain.Invalid("no products provided")
	}
	ps := make([]domain.Product, 0, len(ins))
	for _, in := range ins {
		p, err := validated(in)
		if err != nil {
			return 0, err
		}
		ps = append(ps, *p)
	}
	return s.repo.BulkCreate(ctx, ps)
}

func (s *Service) Update(ctx context.Context, id string, in productrepo.UpdateInput) (*domain.Product, error) {
	if in.Price != nil && *in.Price < 0 {
		return nil, domain.Invalid("price must not be negative")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, domain.Invalid("stock must not be negative")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("name must not be empty")
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AddReview records the user's rating and comment for a product they have
// received. A second review by the same user replaces the first. Returns the
// product with its recomputed rating.
func (s *Service) AddReview(ctx context.Context, userID, userName, productID string, rating int, comment string) (*domain.Product, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if rating < 1 || rating > 5 {
		return nil, domain.Invalid("rating must be between 1 and 5")
	}
	delivered, err := s.deliveries.HasDeliveredProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !delivered {
		return nil, ErrReviewNotAllowed
	}
	return s.repo.UpsertReview(ctx, domain.Review{
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	})
}

func validated(in CreateInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name required")
	}
	if in.Price < 0 {
		return nil, domain.Invalid("price must not be negative")
	}
	if in.Stock < 0 {
		return nil, domain.Invalid("stock must not be negative")
	}
	return &domain.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		Brand:       strings.TrimSpace(in.Brand),
		Stock:       in.Stock,
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}, nil
}
