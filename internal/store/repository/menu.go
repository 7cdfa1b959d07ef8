package repository

import (
	"context"
	"fmt"

	"github.com/stadiumhouse/blueline/internal/store"
)

// MenuRepository handles menu data access
type MenuRepository struct {
	db *store.Database
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *store.Database) *MenuRepository {
	return &MenuRepository{db: db}
}

// GetCategories returns all menu categories in display order
func (r *MenuRepository) GetCategories(ctx context.Context) ([]*store.MenuCategory, error) {
	query := `
		SELECT category_id, name, sort_order
		FROM menu_categories
		ORDER BY sort_order, name
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying menu categories: %w", err)
	}
	defer rows.Close()

	var categories []*store.MenuCategory
	for rows.Next() {
		cat := &store.MenuCategory{}
		if err := rows.Scan(&cat.CategoryID, &cat.Name, &cat.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning menu category: %w", err)
		}
		categories = append(categories, cat)
	}

	return categories, rows.Err()
}

// GetItemsByCategory returns available items for one category
func (r *MenuRepository) GetItemsByCategory(ctx context.Context, categoryID int) ([]*store.MenuItem, error) {
	query := `
		SELECT item_id, category_id, name, description, price_cents,
			is_available, tags, created_at, updated_at
		FROM menu_items
		WHERE category_id = $1 AND is_available = true
		ORDER BY name
	`

	return r.queryItems(ctx, query, categoryID)
}

// GetAllItems returns every available menu item
func (r *MenuRepository) GetAllItems(ctx context.Context) ([]*store.MenuItem, error) {
	query := `
		SELECT item_id, category_id, name, description, price_cents,
			is_available, tags, created_at, updated_at
		FROM menu_items
		WHERE is_available = true
		ORDER BY category_id, name
	`

	return r.queryItems(ctx, query)
}

func (r *MenuRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]*store.MenuItem, error) {
	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying menu items: %w", err)
	}
	defer rows.Close()

	var items []*store.MenuItem
	for rows.Next() {
		item := &store.MenuItem{}
		err := rows.Scan(
			&item.ItemID, &item.CategoryID, &item.Name, &item.Description,
			&item.PriceCents, &item.IsAvailable, &item.Tags,
			&item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning menu item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
