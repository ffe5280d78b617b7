package domain

import "strings"

// FieldErrors maps a field name to a user-facing message. Empty map means
// the slice passed validation.
type FieldErrors map[string]string

func (fe FieldErrors) Ok() bool { return len(fe) == 0 }

func (f *ShipmentForm) ValidateOrigin() FieldErrors {
	fe := FieldErrors{}
	if !f.Origin.Valid() {
		fe["origin"] = "select a shipment origin"
	}
	return fe
}

func (f *ShipmentForm) ValidatePackages() FieldErrors {
	fe := FieldErrors{}
	switch f.Origin {
	case OriginPickup:
		if len(f.PickupItems) == 0 {
			fe["package_items"] = "add at least one package"
		}
		for _, it := range f.PickupItems {
			if strings.TrimSpace(it.Description) == "" {
				fe["package_items"] = "package description is required"
			}
			if it.Quantity <= 0 {
				fe["package_items"] = "package quantity must be positive"
			}
		}
	case OriginWarehouse:
		if len(f.WarehouseItems) == 0 {
			fe["warehouse_items"] = "select at least one product"
		}
		for _, it := range f.WarehouseItems {
			if it.Quantity < 1 || it.Quantity > it.MaxQuantity {
				fe["warehouse_items"] = "product quantity exceeds available stock"
			}
		}
	default:
		fe["origin"] = "select a shipment origin"
	}
	return fe
}

func (f *ShipmentForm) ValidatePickup() FieldErrors {
	fe := FieldErrors{}
	if strings.TrimSpace(f.Pickup.Address) == "" {
		fe["address"] = "pickup address is required"
	}
	if strings.TrimSpace(f.Pickup.Phone) == "" {
		fe["phone"] = "pickup phone is required"
	}
	return fe
}

func (f *ShipmentForm) ValidateService() FieldErrors {
	fe := FieldErrors{}
	if !f.Service.Level.Valid() {
		fe["level"] = "select a service level"
	}
	if !f.Service.DeliveryMode.Valid() {
		fe["delivery_mode"] = "select a delivery mode"
	}
	if f.Service.DeliveryDate.IsZero() {
		fe["delivery_date"] = "delivery date is required"
	}
	if f.Service.CollectOnDelivery {
		if !f.Service.CODAmount.IsPositive() {
			fe["cod_amount"] = "collection amount is required"
		}
	} else if !f.Service.CODAmount.IsZero() {
		fe["cod_amount"] = "collection amount must be 0 without collect on delivery"
	}
	return fe
}

// LocationCatalog is what recipient validation needs from the location
// hierarchy: existence, membership, and whether a district carries sectors.
type LocationCatalog interface {
	RegionExists(regionID int64) bool
	DistrictInRegion(districtID, regionID int64) bool
	SectorInDistrict(sectorID, districtID int64) bool
	DistrictHasSectors(districtID int64) bool
}

// ValidateRecipient checks the address against the catalog: ids must exist
// and belong to their parent, and a sector is required exactly when the
// chosen district has sectors.
func (f *ShipmentForm) ValidateRecipient(loc LocationCatalog) FieldErrors {
	fe := FieldErrors{}
	r := f.Recipient
	if strings.TrimSpace(r.FullName) == "" {
		fe["full_name"] = "recipient name is required"
	}
	if len(r.Phone) != 9 {
		fe["phone"] = "phone must be 9 digits"
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		fe["email"] = "email is invalid"
	}
	switch {
	case r.Address.RegionID == 0:
		fe["region_id"] = "select a region"
	case !loc.RegionExists(r.Address.RegionID):
		fe["region_id"] = "unknown region"
	}
	switch {
	case r.Address.DistrictID == 0:
		fe["district_id"] = "select a district"
	case !loc.DistrictInRegion(r.Address.DistrictID, r.Address.RegionID):
		fe["district_id"] = "district does not belong to the region"
	default:
		if loc.DistrictHasSectors(r.Address.DistrictID) {
			switch {
			case r.Address.SectorID == 0:
				fe["sector_id"] = "select a sector"
			case !loc.SectorInDistrict(r.Address.SectorID, r.Address.DistrictID):
				fe["sector_id"] = "sector does not belong to the district"
			}
		} else if r.Address.SectorID != 0 {
			fe["sector_id"] = "district has no sectors"
		}
	}
	if strings.TrimSpace(r.Address.Text) == "" {
		fe["address_text"] = "delivery address is required"
	}
	return fe
}

// ValidatePayment reads the COD amount from the service slice; it is a single
// value owned there, the payment step only checks it again before submit.
func (f *ShipmentForm) ValidatePayment() FieldErrors {
	fe := FieldErrors{}
	if !f.Payment.Method.Valid() {
		fe["payment_method"] = "select a payment method"
	}
	if !f.Payment.Form.Valid() {
		fe["payment_form"] = "select a payment form"
	}
	if f.Service.CollectOnDelivery && !f.Service.CODAmount.IsPositive() {
		fe["cod_amount"] = "collection amount is required"
	}
	return fe
}
