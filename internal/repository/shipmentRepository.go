package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/japi-express/shipment-service/internal/domain"
	"github.com/japi-express/shipment-service/internal/logger"
)

var (
	ErrShipmentAlreadyExists = errors.New("shipment already exists")
	ErrInsufficientStock     = errors.New("insufficient stock")
)

type PayloadRow struct {
	ID      uuid.UUID
	UID     string
	Payload []byte
}

type ShipmentRepo interface {
	AddShipment(ctx context.Context, sh *domain.Shipment) error
	GetShipmentByUID(ctx context.Context, uid string) (*domain.Shipment, error)
	ListShipmentsByCompany(ctx context.Context, companyID int64, limit int) ([]domain.Shipment, error)
	ListRecentPayloads(ctx context.Context, limit int) ([]PayloadRow, error)
}

type ShipmentRepository struct {
	pool *pgxpool.Pool
}

func NewShipmentRepository(p *pgxpool.Pool) *ShipmentRepository {
	return &ShipmentRepository{pool: p}
}

// AddShipment writes the shipment, its recipient and its items in one
// transaction. For warehouse shipments stock is decremented here, so a
// replayed message can never ship more than is available.
func (p *ShipmentRepository) AddShipment(ctx context.Context, sh *domain.Shipment) error {
	payload, err := json.Marshal(sh)
	if err != nil {
		return err
	}

	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	svc := sh.Form.Service
	var shipmentID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO japi.shipments
			(uid, company_id, origin, pickup_address, pickup_phone,
			 service_level, delivery_mode, delivery_date, collect_on_delivery, cod_amount,
			 payment_method, payment_form, created_at, payload)
		 VALUES
			($1, $2, $3, $4, $5,
			 $6, $7, $8, $9, $10,
			 $11, $12, $13, $14)
		 RETURNING id
		`, sh.ShipmentUID,
		sh.CompanyID,
		string(sh.Form.Origin),
		sh.Form.Pickup.Address,
		sh.Form.Pickup.Phone,
		string(svc.Level),
		string(svc.DeliveryMode),
		svc.DeliveryDate,
		svc.CollectOnDelivery,
		svc.CODAmount.String(),
		string(sh.Form.Payment.Method),
		string(sh.Form.Payment.Form),
		sh.CreatedAt,
		payload,
	).Scan(&shipmentID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrShipmentAlreadyExists
		}
		logger.Warn("insert shipment failed", "uid", sh.ShipmentUID, "err", err)
		return err
	}

	rcp := sh.Form.Recipient
	_, err = tx.Exec(ctx,
		`INSERT INTO japi.recipients
			(shipment_id, full_name, phone, email, region_id, district_id, sector_id, address_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, shipmentID,
		rcp.FullName,
		rcp.Phone,
		rcp.Email,
		rcp.Address.RegionID,
		rcp.Address.DistrictID,
		rcp.Address.SectorID,
		rcp.Address.Text,
	)
	if err != nil {
		logger.Warn("insert recipient failed", "uid", sh.ShipmentUID, "err", err)
		return err
	}

	switch sh.Form.Origin {
	case domain.OriginPickup:
		if len(sh.Form.PickupItems) > 0 {
			batch := &pgx.Batch{}
			for _, it := range sh.Form.PickupItems {
				batch.Queue(
					`INSERT INTO japi.shipment_items (shipment_id, item_id, description, quantity)
					 VALUES ($1, $2, $3, $4)`,
					shipmentID, it.ID, it.Description, it.Quantity,
				)
			}
			br := tx.SendBatch(ctx, batch)
			if err = br.Close(); err != nil {
				return err
			}
		}
	case domain.OriginWarehouse:
		for _, it := range sh.Form.WarehouseItems {
			_, err = tx.Exec(ctx,
				`INSERT INTO japi.shipment_items (shipment_id, product_id, quantity)
				 VALUES ($1, $2, $3)`,
				shipmentID, it.ProductID, it.Quantity,
			)
			if err != nil {
				return err
			}
			ct, err := tx.Exec(ctx,
				`UPDATE japi.products SET available = available - $1
				 WHERE id = $2 AND available >= $1`,
				it.Quantity, it.ProductID,
			)
			if err != nil {
				return err
			}
			if ct.RowsAffected() == 0 {
				return ErrInsufficientStock
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}
	tx = nil
	sh.ShipmentID = shipmentID
	return nil
}

func (p *ShipmentRepository) GetShipmentByUID(ctx context.Context, uid string) (*domain.Shipment, error) {
	var row PayloadRow
	err := p.pool.QueryRow(ctx,
		`SELECT id, uid, payload FROM japi.shipments WHERE uid = $1`, uid,
	).Scan(&row.ID, &row.UID, &row.Payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return unmarshalShipment(row)
}

func (p *ShipmentRepository) ListShipmentsByCompany(ctx context.Context, companyID int64, limit int) ([]domain.Shipment, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, uid, payload FROM japi.shipments
		 WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2`,
		companyID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Shipment
	for rows.Next() {
		var row PayloadRow
		if err := rows.Scan(&row.ID, &row.UID, &row.Payload); err != nil {
			return nil, err
		}
		sh, err := unmarshalShipment(row)
		if err != nil {
			logger.Warn("skip shipment with bad payload", "uid", row.UID, "err", err)
			continue
		}
		out = append(out, *sh)
	}
	return out, rows.Err()
}

func (p *ShipmentRepository) ListRecentPayloads(ctx context.Context, limit int) ([]PayloadRow, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, uid, payload FROM japi.shipments ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PayloadRow
	for rows.Next() {
		var row PayloadRow
		if err := rows.Scan(&row.ID, &row.UID, &row.Payload); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func unmarshalShipment(row PayloadRow) (*domain.Shipment, error) {
	var sh domain.Shipment
	if err := json.Unmarshal(row.Payload, &sh); err != nil {
		return nil, err
	}
	sh.ShipmentID = row.ID
	return &sh, nil
}
