package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"minimarket/internal/common"
	"minimarket/internal/domain/model"
)

// ProductFilter narrows List. A zero OwnerID means all owners.
type ProductFilter struct {
	OwnerID string
	Limit   int
	Offset  int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
}

type pgProductRepository struct {
	db *sql.DB
}

func NewPgProductRepository(db *sql.DB) ProductRepository {
	return &pgProductRepository{db: db}
}

func (r *pgProductRepository) Create(ctx context.Context, p *model.Product) error {
	query := `INSERT INTO products (id, owner_id, name, slug, description, price)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.OwnerID, p.Name, p.Slug, p.Description, p.Price).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgProductRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT id, owner_id, name, slug, description, price, created_at, updated_at
	          FROM products WHERE id = $1`
	p := &model.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProductRepository.FindByID: %w", err)
	}
	return p, nil
}

func (r *pgProductRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, int, error) {
	where := ""
	args := []interface{}{}
	if filter.OwnerID != "" {
		where = " WHERE owner_id = $1"
		args = append(args, filter.OwnerID)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgProductRepository.List count: %w", err)
	}

	query := fmt.Sprintf(`SELECT id, owner_id, name, slug, description, price, created_at, updated_at
	          FROM products%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgProductRepository.List: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("pgProductRepository.List scan: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgProductRepository.List rows: %w", err)
	}
	return products, total, nil
}

// Update writes all mutable columns in one statement; the merge of partial
// fields happens in the service against the loaded row.
func (r *pgProductRepository) Update(ctx context.Context, p *model.Product) error {
	query := `UPDATE products SET
	            name = $1, slug = $2, description = $3, price = $4, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $5
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Slug, p.Description, p.Price, p.ID).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgProductRepository.Update: %w", err)
	}
	return nil
}

func (r *pgProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgProductRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgProductRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
