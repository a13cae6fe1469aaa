package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/phanxgames/printshop/account"
	"github.com/phanxgames/printshop/cart"
	"github.com/phanxgames/printshop/order"
)

// --- Cart ---

// SaveCart replaces the stored cart.
func (s *Store) SaveCart(ctx context.Context, st cart.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cart (id, state_json, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state_json = excluded.state_json, updated_at = excluded.updated_at`,
		string(data), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	s.log.Debug("cart saved", zap.Int("lines", len(st.Items)))
	return nil
}

// LoadCart returns the stored cart, or an empty state when none was saved.
func (s *Store) LoadCart(ctx context.Context) (cart.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT state_json FROM cart WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return cart.State{}, nil
	}
	if err != nil {
		return cart.State{}, fmt.Errorf("failed to load cart: %w", err)
	}

	var st cart.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return cart.State{}, fmt.Errorf("failed to decode cart: %w", err)
	}
	return st, nil
}

// --- Designs ---

// SaveDesign inserts or replaces a design.
func (s *Store) SaveDesign(ctx context.Context, d account.Design) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal design: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO designs (id, name, product_id, created_at, data_json) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			product_id = excluded.product_id,
			created_at = excluded.created_at,
			data_json = excluded.data_json`,
		d.ID, d.Name, d.ProductID, d.CreatedAt.UnixNano(), string(data))
	if err != nil {
		return fmt.Errorf("failed to save design %s: %w", d.ID, err)
	}
	return nil
}

// ListDesigns returns every design, oldest first.
func (s *Store) ListDesigns(ctx context.Context) ([]account.Design, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT data_json FROM designs ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	defer rows.Close()

	var out []account.Design
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan design: %w", err)
		}
		var d account.Design
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return nil, fmt.Errorf("failed to decode design: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDesign removes a design.
func (s *Store) DeleteDesign(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM designs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete design %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("design %s: %w", id, ErrNotFound)
	}
	return nil
}

// --- Wishlist ---

// SaveWishlist replaces the stored wishlist.
func (s *Store) SaveWishlist(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM wishlist`); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO wishlist (product_id, position) VALUES (?, ?)`, id, i); err != nil {
			return fmt.Errorf("failed to save wishlist entry %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// LoadWishlist returns the stored product ids in wishlist order.
func (s *Store) LoadWishlist(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT product_id FROM wishlist ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// --- Orders ---

// SaveOrder inserts or updates an order.
func (s *Store) SaveOrder(ctx context.Context, o *order.Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (id, status, created_at, updated_at, data_json) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at,
			data_json = excluded.data_json`,
		o.ID, string(o.Status), o.CreatedAt.UnixNano(), o.UpdatedAt.UnixNano(), string(data))
	if err != nil {
		return fmt.Errorf("failed to save order %s: %w", o.ID, err)
	}
	s.log.Debug("order saved", zap.String("order", o.ID), zap.String("status", string(o.Status)))
	return nil
}

// ListOrders returns every order, newest first.
func (s *Store) ListOrders(ctx context.Context) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT data_json FROM orders ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var out []*order.Order
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o, err := decodeOrder(data)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// FindOrder returns the order with the given id.
func (s *Store) FindOrder(ctx context.Context, id string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data_json FROM orders WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", id, err)
	}
	return decodeOrder(data)
}

func decodeOrder(data string) (*order.Order, error) {
	var o order.Order
	if err := json.Unmarshal([]byte(data), &o); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	return &o, nil
}
