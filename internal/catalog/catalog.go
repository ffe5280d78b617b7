package catalog

// Option is one selectable entry in a cascading location select.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Region struct {
	ID        int64
	Name      string
	Districts []District
}

type District struct {
	ID       int64
	RegionID int64
	Name     string
	Sectors  []Sector
}

type Sector struct {
	ID         int64
	DistrictID int64
	Name       string
}

// Catalog is a read-only view over the region → district → sector hierarchy.
// It is loaded once at boot and shared; lookups never fail, unknown ids
// yield empty slices.
type Catalog struct {
	regions        []Region
	byRegion       map[int64][]District
	byDistrict     map[int64][]Sector
	regionNames    map[int64]string
	districtRegion map[int64]int64
	sectorDistrict map[int64]int64
}

func New(regions []Region) *Catalog {
	c := &Catalog{
		regions:        regions,
		byRegion:       make(map[int64][]District, len(regions)),
		byDistrict:     make(map[int64][]Sector),
		regionNames:    make(map[int64]string, len(regions)),
		districtRegion: make(map[int64]int64),
		sectorDistrict: make(map[int64]int64),
	}
	for _, r := range regions {
		c.byRegion[r.ID] = r.Districts
		c.regionNames[r.ID] = r.Name
		for _, d := range r.Districts {
			c.byDistrict[d.ID] = d.Sectors
			c.districtRegion[d.ID] = r.ID
			for _, s := range d.Sectors {
				c.sectorDistrict[s.ID] = d.ID
			}
		}
	}
	return c
}

func (c *Catalog) RegionOptions() []Option {
	out := make([]Option, 0, len(c.regions))
	for _, r := range c.regions {
		out = append(out, Option{ID: r.ID, Name: r.Name})
	}
	return out
}

func (c *Catalog) DistrictOptions(regionID int64) []Option {
	ds := c.byRegion[regionID]
	out := make([]Option, 0, len(ds))
	for _, d := range ds {
		out = append(out, Option{ID: d.ID, Name: d.Name})
	}
	return out
}

func (c *Catalog) SectorOptions(districtID int64) []Option {
	ss := c.byDistrict[districtID]
	out := make([]Option, 0, len(ss))
	for _, s := range ss {
		out = append(out, Option{ID: s.ID, Name: s.Name})
	}
	return out
}

func (c *Catalog) DistrictHasSectors(districtID int64) bool {
	return len(c.byDistrict[districtID]) > 0
}

func (c *Catalog) RegionExists(regionID int64) bool {
	_, ok := c.regionNames[regionID]
	return ok
}

func (c *Catalog) DistrictInRegion(districtID, regionID int64) bool {
	return c.districtRegion[districtID] == regionID && regionID != 0
}

func (c *Catalog) SectorInDistrict(sectorID, districtID int64) bool {
	return c.sectorDistrict[sectorID] == districtID && districtID != 0
}
