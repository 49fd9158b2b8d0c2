// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG QUERIES
// Thin reads over the azkar catalog. Ordering and ranking belong to the store.
// ══════════════════════════════════════════════════════════════════════════════

// ListAzkarQuery selects one category.
type ListAzkarQuery struct {
	Category string
}

// ListAzkarHandler lists a category ordered by display order.
type ListAzkarHandler struct {
	repo azkar.Repository
}

// NewListAzkarHandler creates a new ListAzkarHandler.
func NewListAzkarHandler(repo azkar.Repository) *ListAzkarHandler {
	return &ListAzkarHandler{repo: repo}
}

// Handle executes the query.
func (h *ListAzkarHandler) Handle(ctx context.Context, q ListAzkarQuery) ([]*azkar.Zikr, error) {
	category, err := azkar.ParseCategory(q.Category)
	if err != nil {
		return nil, fmt.Errorf("list_azkar: %w", err)
	}

	items, err := h.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list_azkar: %w", err)
	}
	if items == nil {
		items = []*azkar.Zikr{}
	}
	return items, nil
}

// SearchAzkarQuery is a full-text search request.
type SearchAzkarQuery struct {
	Term string
	// Category is optional.
	Category string
}

// SearchAzkarHandler runs full-text search over the catalog.
type SearchAzkarHandler struct {
	repo azkar.Repository
}

// NewSearchAzkarHandler creates a new SearchAzkarHandler.
func NewSearchAzkarHandler(repo azkar.Repository) *SearchAzkarHandler {
	return &SearchAzkarHandler{repo: repo}
}

// Handle executes the query. At most azkar.SearchLimit items come back.
func (h *SearchAzkarHandler) Handle(ctx context.Context, q SearchAzkarQuery) ([]*azkar.Zikr, error) {
	term := strings.TrimSpace(q.Term)
	if term == "" {
		return nil, fmt.Errorf("search_azkar: %w", shared.ErrEmptySearchTerm)
	}

	sq := azkar.SearchQuery{Term: term}
	if strings.TrimSpace(q.Category) != "" {
		c, err := azkar.ParseCategory(q.Category)
		if err != nil {
			return nil, fmt.Errorf("search_azkar: %w", err)
		}
		sq.Category = c
	}

	items, err := h.repo.Search(ctx, sq)
	if err != nil {
		return nil, fmt.Errorf("search_azkar: %w", err)
	}
	if len(items) > azkar.SearchLimit {
		items = items[:azkar.SearchLimit]
	}
	if items == nil {
		items = []*azkar.Zikr{}
	}
	return items, nil
}

// GetZikrHandler loads one catalog item.
type GetZikrHandler struct {
	repo azkar.Repository
}

// NewGetZikrHandler creates a new GetZikrHandler.
func NewGetZikrHandler(repo azkar.Repository) *GetZikrHandler {
	return &GetZikrHandler{repo: repo}
}

// Handle returns ErrZikrNotFound for unknown ids.
func (h *GetZikrHandler) Handle(ctx context.Context, id string) (*azkar.Zikr, error) {
	zid, err := shared.NewZikrID(id)
	if err != nil {
		return nil, fmt.Errorf("get_zikr: %w", err)
	}
	z, err := h.repo.GetByID(ctx, zid)
	if err != nil {
		return nil, fmt.Errorf("get_zikr: %w", err)
	}
	return z, nil
}
