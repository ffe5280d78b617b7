package application

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/japi-express/shipment-service/internal/domain"
	"github.com/japi-express/shipment-service/internal/logger"
	"github.com/japi-express/shipment-service/internal/repository"
)

// ShipmentsService persists submitted shipments and keeps a read cache by
// uid. The Kafka consumer feeds it; the HTTP layer reads from it.
type ShipmentsService struct {
	repo  repository.ShipmentRepo
	mu    sync.RWMutex
	byUID map[string]*domain.Shipment
}

func NewShipmentsService(r repository.ShipmentRepo) *ShipmentsService {
	return &ShipmentsService{
		repo:  r,
		byUID: make(map[string]*domain.Shipment),
	}
}

func (s *ShipmentsService) AddShipment(ctx context.Context, sh *domain.Shipment) error {
	err := s.repo.AddShipment(ctx, sh)
	if err != nil {
		if errors.Is(err, repository.ErrShipmentAlreadyExists) {
			// replayed message, the stored row wins
			return nil
		}
		logger.Warn("add shipment failed", "uid", sh.ShipmentUID, "err", err)
		return err
	}

	s.mu.Lock()
	s.byUID[sh.ShipmentUID] = sh
	s.mu.Unlock()
	return nil
}

func (s *ShipmentsService) GetByUID(ctx context.Context, uid string) (*domain.Shipment, error) {
	s.mu.RLock()
	if sh, ok := s.byUID[uid]; ok {
		s.mu.RUnlock()
		return sh, nil
	}
	s.mu.RUnlock()

	sh, err := s.repo.GetShipmentByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, nil
	}

	s.mu.Lock()
	s.byUID[sh.ShipmentUID] = sh
	s.mu.Unlock()
	return sh, nil
}

func (s *ShipmentsService) ListByCompany(ctx context.Context, companyID int64, limit int) ([]domain.Shipment, error) {
	return s.repo.ListShipmentsByCompany(ctx, companyID, limit)
}

// RestoreCache reloads the most recent shipments after a restart.
func (s *ShipmentsService) RestoreCache(ctx context.Context, limit int) error {
	rows, err := s.repo.ListRecentPayloads(ctx, limit)
	if err != nil {
		return err
	}

	tmp := make(map[string]*domain.Shipment, len(rows))
	for _, r := range rows {
		var sh domain.Shipment
		if err := json.Unmarshal(r.Payload, &sh); err != nil {
			logger.Warn("skip shipment with bad payload", "uid", r.UID, "err", err)
			continue
		}
		sh.ShipmentID = r.ID
		tmp[sh.ShipmentUID] = &sh
	}

	s.mu.Lock()
	s.byUID = tmp
	s.mu.Unlock()
	return nil
}
