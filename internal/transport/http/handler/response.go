package handler

import (
	"time"

	"github.com/akazakov/shop-backend/internal/domain"
	"github.com/akazakov/shop-backend/internal/money"
)

// Prices are stored in cents but cross the API as decimal strings, so the
// response shapes are built here instead of serializing domain records
// directly.

type productResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       string            `json:"price"`
	Stock       int64             `json:"stock"`
	ImageUrl    string            `json:"image_url"`
	CategoryID  int64             `json:"category_id"`
	Active      bool              `json:"active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Category    *categoryResponse `json:"category,omitempty"`
}

type categoryResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Active      bool              `json:"active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Products    []productResponse `json:"products,omitempty"`
}

func toProductResponse(p *domain.Product) productResponse {
	res := productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money.FromCents(p.PriceCents),
		Stock:       p.Stock,
		ImageUrl:    p.ImageUrl,
		CategoryID:  p.CategoryID,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if p.Category != nil {
		c := toCategoryResponse(p.Category, nil)
		res.Category = &c
	}

	return res
}

func toProductResponses(products []domain.Product) []productResponse {
	res := make([]productResponse, 0, len(products))
	for i := range products {
		res = append(res, toProductResponse(&products[i]))
	}
	return res
}

func toCategoryResponse(c *domain.Category, products []domain.Product) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Products:    toProductResponses(products),
	}
}
