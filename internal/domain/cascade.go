package domain

// CascadeAddress applies the dependent-select reset rules to an incoming
// address. A value is stale when the request carried it over unchanged from
// the old state: a region change discards a carried-over district and
// sector, a district change discards a carried-over sector. Values the
// request explicitly replaces alongside the parent change are kept, so a
// full address sent in one shot survives intact. Pure function, the wizard
// applies it before storing.
func CascadeAddress(old, next Address) Address {
	if next.RegionID != old.RegionID {
		if next.DistrictID == old.DistrictID {
			next.DistrictID = 0
		}
		if next.SectorID == old.SectorID || next.DistrictID == 0 {
			next.SectorID = 0
		}
		return next
	}
	if next.DistrictID != old.DistrictID && next.SectorID == old.SectorID {
		next.SectorID = 0
	}
	return next
}
