package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCatalog() *Catalog {
	return New([]Region{
		{
			ID:   1,
			Name: "LIMA",
			Districts: []District{
				{
					ID: 10, RegionID: 1, Name: "SAN JUAN DE LURIGANCHO",
					Sectors: []Sector{
						{ID: 100, DistrictID: 10, Name: "ZARATE"},
						{ID: 101, DistrictID: 10, Name: "CANTO REY"},
					},
				},
				{ID: 11, RegionID: 1, Name: "MIRAFLORES"},
			},
		},
		{ID: 2, Name: "CALLAO"},
	})
}

func TestRegionOptions(t *testing.T) {
	c := testCatalog()
	opts := c.RegionOptions()
	assert.Equal(t, []Option{{ID: 1, Name: "LIMA"}, {ID: 2, Name: "CALLAO"}}, opts)
}

func TestDistrictOptions(t *testing.T) {
	c := testCatalog()
	assert.Len(t, c.DistrictOptions(1), 2)
	assert.Empty(t, c.DistrictOptions(2))
	assert.Empty(t, c.DistrictOptions(999))
}

func TestSectorOptions(t *testing.T) {
	c := testCatalog()
	assert.Equal(t, []Option{{ID: 100, Name: "ZARATE"}, {ID: 101, Name: "CANTO REY"}}, c.SectorOptions(10))
	assert.Empty(t, c.SectorOptions(11))
	assert.Empty(t, c.SectorOptions(999))
}

func TestMembership(t *testing.T) {
	c := testCatalog()

	assert.True(t, c.RegionExists(1))
	assert.True(t, c.RegionExists(2))
	assert.False(t, c.RegionExists(999))

	assert.True(t, c.DistrictInRegion(10, 1))
	assert.True(t, c.DistrictInRegion(11, 1))
	assert.False(t, c.DistrictInRegion(10, 2))
	assert.False(t, c.DistrictInRegion(999, 1))
	assert.False(t, c.DistrictInRegion(0, 0))

	assert.True(t, c.SectorInDistrict(100, 10))
	assert.True(t, c.SectorInDistrict(101, 10))
	assert.False(t, c.SectorInDistrict(100, 11))
	assert.False(t, c.SectorInDistrict(999, 10))
	assert.False(t, c.SectorInDistrict(0, 0))
}

func TestDistrictHasSectors(t *testing.T) {
	c := testCatalog()
	assert.True(t, c.DistrictHasSectors(10))
	assert.False(t, c.DistrictHasSectors(11))
	assert.False(t, c.DistrictHasSectors(999))
}
