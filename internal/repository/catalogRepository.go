package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/japi-express/shipment-service/internal/catalog"
)

type CatalogRepo interface {
	LoadRegions(ctx context.Context) ([]catalog.Region, error)
}

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(p *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: p}
}

// LoadRegions pulls the whole region → district → sector hierarchy; the
// catalog is small and read once at boot.
func (p *CatalogRepository) LoadRegions(ctx context.Context) ([]catalog.Region, error) {
	sectors := make(map[int64][]catalog.Sector)
	rows, err := p.pool.Query(ctx,
		`SELECT id, district_id, name FROM japi.sectors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var s catalog.Sector
		if err := rows.Scan(&s.ID, &s.DistrictID, &s.Name); err != nil {
			rows.Close()
			return nil, err
		}
		sectors[s.DistrictID] = append(sectors[s.DistrictID], s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	districts := make(map[int64][]catalog.District)
	rows, err = p.pool.Query(ctx,
		`SELECT id, region_id, name FROM japi.districts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var d catalog.District
		if err := rows.Scan(&d.ID, &d.RegionID, &d.Name); err != nil {
			rows.Close()
			return nil, err
		}
		d.Sectors = sectors[d.ID]
		districts[d.RegionID] = append(districts[d.RegionID], d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var regions []catalog.Region
	rows, err = p.pool.Query(ctx, `SELECT id, name FROM japi.regions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r catalog.Region
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		r.Districts = districts[r.ID]
		regions = append(regions, r)
	}
	return regions, rows.Err()
}
