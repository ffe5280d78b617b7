package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Origin string

const (
	OriginPickup    Origin = "pickup"
	OriginWarehouse Origin = "warehouse"
)

func (o Origin) Valid() bool {
	return o == OriginPickup || o == OriginWarehouse
}

type ServiceLevel string

const (
	LevelRegular ServiceLevel = "regular"
	LevelExpress ServiceLevel = "express"
	LevelChange  ServiceLevel = "change"
)

func (l ServiceLevel) Valid() bool {
	return l == LevelRegular || l == LevelExpress || l == LevelChange
}

type DeliveryMode string

const (
	ModeDeliveryOnly  DeliveryMode = "delivery_only"
	ModePayOnDelivery DeliveryMode = "pay_on_delivery"
)

func (m DeliveryMode) Valid() bool {
	return m == ModeDeliveryOnly || m == ModePayOnDelivery
}

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
	MethodYape     PaymentMethod = "yape"
	MethodPlin     PaymentMethod = "plin"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodYape, MethodPlin:
		return true
	}
	return false
}

type PaymentForm string

const (
	FormJapiPayment   PaymentForm = "japi_payment"
	FormSellerPayment PaymentForm = "seller_payment"
)

func (f PaymentForm) Valid() bool {
	return f == FormJapiPayment || f == FormSellerPayment
}

type PickupDetails struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// PackageItem is a pickup-origin package described by the sender.
type PackageItem struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
}

// WarehouseItem references stocked catalog product. MaxQuantity is the
// available stock captured at selection time and bounds Quantity.
type WarehouseItem struct {
	ProductID   int64 `json:"id"`
	Quantity    int   `json:"quantity"`
	MaxQuantity int   `json:"max_quantity"`
}

type ServiceDetails struct {
	Level             ServiceLevel    `json:"level"`
	DeliveryMode      DeliveryMode    `json:"delivery_mode"`
	DeliveryDate      time.Time       `json:"delivery_date"`
	CollectOnDelivery bool            `json:"collect_on_delivery"`
	CODAmount         decimal.Decimal `json:"cod_amount"`
}

type PaymentDetails struct {
	Method PaymentMethod `json:"payment_method"`
	Form   PaymentForm   `json:"payment_form"`
}

type Address struct {
	RegionID   int64  `json:"region_id"`
	DistrictID int64  `json:"district_id"`
	SectorID   int64  `json:"sector_id"`
	Text       string `json:"address_text"`
}

type Recipient struct {
	FullName string  `json:"full_name"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	Address  Address `json:"address"`
}

// ShipmentForm is the wizard aggregate. Exactly one of PickupItems /
// WarehouseItems is populated, matching Origin.
type ShipmentForm struct {
	Origin         Origin          `json:"origin"`
	Pickup         PickupDetails   `json:"pickup"`
	PickupItems    []PackageItem   `json:"package_items"`
	WarehouseItems []WarehouseItem `json:"warehouse_items"`
	Service        ServiceDetails  `json:"service"`
	Recipient      Recipient       `json:"recipient"`
	Payment        PaymentDetails  `json:"payment"`
}

// Clone returns a copy whose item slices no longer share backing arrays
// with the receiver, so a snapshot cannot see later edits.
func (f ShipmentForm) Clone() ShipmentForm {
	c := f
	c.PickupItems = append([]PackageItem(nil), f.PickupItems...)
	c.WarehouseItems = append([]WarehouseItem(nil), f.WarehouseItems...)
	return c
}

// Shipment is the submitted order as published to Kafka and persisted.
type Shipment struct {
	ShipmentUID string       `json:"shipment_uid"`
	ShipmentID  uuid.UUID    `json:"-"`
	CompanyID   int64        `json:"company_id"`
	Form        ShipmentForm `json:"form"`
	CreatedAt   time.Time    `json:"created_at"`
}
