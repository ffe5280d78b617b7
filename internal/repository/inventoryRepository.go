package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/japi-express/shipment-service/internal/domain"
)

type InventoryRepo interface {
	ListProducts(ctx context.Context, companyID int64) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	AddProduct(ctx context.Context, p *domain.Product) error
	AddSupplyRequest(ctx context.Context, req *domain.SupplyRequest) error
	ListSupplyRequests(ctx context.Context, companyID int64) ([]domain.SupplyRequest, error)
}

type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(p *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: p}
}

// ListProducts returns the whole catalog, or one company's slice of it when
// companyID is non-zero.
func (p *InventoryRepository) ListProducts(ctx context.Context, companyID int64) ([]domain.Product, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, sku, product_name, description, company_id, available, created_at
		 FROM japi.products
		 WHERE $1 = 0 OR company_id = $1
		 ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var pr domain.Product
		if err := rows.Scan(&pr.ID, &pr.SKU, &pr.Name, &pr.Description, &pr.CompanyID, &pr.Available, &pr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (p *InventoryRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	var pr domain.Product
	err := p.pool.QueryRow(ctx,
		`SELECT id, sku, product_name, description, company_id, available, created_at
		 FROM japi.products WHERE id = $1`, id,
	).Scan(&pr.ID, &pr.SKU, &pr.Name, &pr.Description, &pr.CompanyID, &pr.Available, &pr.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

func (p *InventoryRepository) AddProduct(ctx context.Context, pr *domain.Product) error {
	return p.pool.QueryRow(ctx,
		`INSERT INTO japi.products (sku, product_name, description, company_id, available)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		pr.SKU, pr.Name, pr.Description, pr.CompanyID, pr.Available,
	).Scan(&pr.ID, &pr.CreatedAt)
}

func (p *InventoryRepository) AddSupplyRequest(ctx context.Context, req *domain.SupplyRequest) error {
	items, err := json.Marshal(req.Items)
	if err != nil {
		return err
	}
	return p.pool.QueryRow(ctx,
		`INSERT INTO japi.supply_requests (company_id, status, items)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		req.CompanyID, string(req.Status), items,
	).Scan(&req.ID, &req.CreatedAt)
}

func (p *InventoryRepository) ListSupplyRequests(ctx context.Context, companyID int64) ([]domain.SupplyRequest, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, company_id, status, items, created_at
		 FROM japi.supply_requests
		 WHERE $1 = 0 OR company_id = $1
		 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SupplyRequest
	for rows.Next() {
		var (
			req   domain.SupplyRequest
			items []byte
		)
		if err := rows.Scan(&req.ID, &req.CompanyID, &req.Status, &items, &req.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &req.Items); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
