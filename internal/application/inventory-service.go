package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/japi-express/shipment-service/internal/domain"
	"github.com/japi-express/shipment-service/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrEmptySupply     = errors.New("supply request has no items")
)

// InventoryService covers the product catalog, stock levels and inbound
// supply requests. It also backs the wizard's warehouse quantity checks.
type InventoryService struct {
	repo repository.InventoryRepo
}

func NewInventoryService(r repository.InventoryRepo) *InventoryService {
	return &InventoryService{repo: r}
}

func (s *InventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, 0)
}

func (s *InventoryService) ListProductsByCompany(ctx context.Context, companyID int64) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, companyID)
}

func (s *InventoryService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if strings.TrimSpace(p.SKU) == "" || strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: SKU and product_name are required", ErrInvalidInput)
	}
	return s.repo.AddProduct(ctx, p)
}

// AvailableQuantity satisfies the wizard's StockReader.
func (s *InventoryService) AvailableQuantity(ctx context.Context, productID int64) (int, error) {
	p, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, ErrProductNotFound
	}
	return p.Available, nil
}

func (s *InventoryService) CreateSupplyRequest(ctx context.Context, req *domain.SupplyRequest) error {
	if len(req.Items) == 0 {
		return ErrEmptySupply
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: supply item quantity must be positive", ErrInvalidInput)
		}
	}
	req.Status = domain.SupplyPending
	return s.repo.AddSupplyRequest(ctx, req)
}

func (s *InventoryService) ListSupplyRequests(ctx context.Context, companyID int64) ([]domain.SupplyRequest, error) {
	return s.repo.ListSupplyRequests(ctx, companyID)
}
