package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/japi-express/shipment-service/internal/catalog"
	"github.com/japi-express/shipment-service/internal/domain"
	"github.com/japi-express/shipment-service/internal/logger"
	"github.com/japi-express/shipment-service/internal/wizard"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDraftNotFound      = errors.New("draft not found")
	ErrInvalidItem        = errors.New("invalid package item")
	ErrItemNotFound       = errors.New("item not found")
	ErrQuantityOutOfRange = errors.New("quantity exceeds available stock")
	ErrFormIncomplete     = errors.New("form is not complete")
	ErrSubmitInFlight     = errors.New("submission already in progress")
	ErrSubmitFailed       = errors.New("submission failed")
)

// StockReader answers how many units of a product the warehouse can ship.
type StockReader interface {
	AvailableQuantity(ctx context.Context, productID int64) (int, error)
}

// Publisher hands a finished shipment to the submission pipeline.
type Publisher interface {
	PublishShipment(ctx context.Context, sh domain.Shipment) error
}

type Draft struct {
	ID        uuid.UUID
	CompanyID int64
	CreatedAt time.Time

	form       domain.ShipmentForm
	machine    *wizard.Machine
	submitting bool
	touchedAt  time.Time
}

// DraftView is the read snapshot handed to the HTTP layer. Form always holds
// exactly the values currently stored, so a reopened section repopulates
// without loss.
type DraftView struct {
	ID            uuid.UUID              `json:"id"`
	Form          domain.ShipmentForm    `json:"form"`
	Progress      []wizard.SectionStatus `json:"progress"`
	SubmitEnabled bool                   `json:"submit_enabled"`
}

// DraftService keeps in-progress shipment wizards in memory, keyed by draft
// id. Drafts never touch the database; only a successful submission leaves
// the process.
type DraftService struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Draft

	catalog       *catalog.Catalog
	stock         StockReader
	publisher     Publisher
	submitTimeout time.Duration
	ttl           time.Duration
	now           func() time.Time
}

func NewDraftService(c *catalog.Catalog, stock StockReader, pub Publisher, submitTimeout, draftTTL time.Duration) *DraftService {
	if submitTimeout <= 0 {
		submitTimeout = 10 * time.Second
	}
	if draftTTL <= 0 {
		draftTTL = 24 * time.Hour
	}
	return &DraftService{
		byID:          make(map[uuid.UUID]*Draft),
		catalog:       c,
		stock:         stock,
		publisher:     pub,
		submitTimeout: submitTimeout,
		ttl:           draftTTL,
		now:           time.Now,
	}
}

func (s *DraftService) Create(companyID int64) *DraftView {
	now := s.now().UTC()
	d := &Draft{
		ID:        uuid.New(),
		CompanyID: companyID,
		CreatedAt: now,
		touchedAt: now,
		machine:   wizard.NewMachine(wizard.SectionsFor(true)),
	}
	s.mu.Lock()
	s.byID[d.ID] = d
	s.mu.Unlock()
	return view(d)
}

// get resolves a draft under the caller's write lock, evicting it when it
// sat untouched past the TTL.
func (s *DraftService) get(id uuid.UUID) (*Draft, error) {
	d, ok := s.byID[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if s.now().Sub(d.touchedAt) > s.ttl {
		delete(s.byID, id)
		return nil, ErrDraftNotFound
	}
	return d, nil
}

func (s *DraftService) Get(id uuid.UUID) (*DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return view(d), nil
}

// Delete discards an abandoned draft. A draft whose submission is in
// flight cannot be deleted out from under it.
func (s *DraftService) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.get(id)
	if err != nil {
		return err
	}
	if d.submitting {
		return ErrSubmitInFlight
	}
	delete(s.byID, id)
	return nil
}

func view(d *Draft) *DraftView {
	return &DraftView{
		ID:            d.ID,
		Form:          d.form.Clone(),
		Progress:      d.machine.Progress(),
		SubmitEnabled: d.machine.Complete(),
	}
}

// withActive runs fn on the draft after checking the section is the one
// currently editable. Mutating a completed section requires Edit first,
// and nothing may change while a submission is in flight.
func (s *DraftService) withActive(id uuid.UUID, sec wizard.Section, fn func(d *Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.get(id)
	if err != nil {
		return err
	}
	if d.submitting {
		return ErrSubmitInFlight
	}
	switch d.machine.StateOf(sec) {
	case wizard.StateActive:
	case wizard.StateLocked:
		return wizard.ErrSectionLocked
	default:
		return wizard.ErrSectionNotActive
	}
	if err := fn(d); err != nil {
		return err
	}
	d.touchedAt = s.now()
	return nil
}

// SetOrigin picks pickup vs warehouse. Switching discards everything owned
// by the other variant so stale values cannot leak into the submission.
func (s *DraftService) SetOrigin(id uuid.UUID, origin domain.Origin) error {
	if !origin.Valid() {
		return ErrInvalidItem
	}
	return s.withActive(id, wizard.SectionOrigin, func(d *Draft) error {
		if d.form.Origin == origin {
			return nil
		}
		d.form.Origin = origin
		d.form.Pickup = domain.PickupDetails{}
		d.form.PickupItems = nil
		d.form.WarehouseItems = nil
		return d.machine.Reshape(wizard.SectionsFor(origin == domain.OriginPickup))
	})
}

func (s *DraftService) AddPickupItem(id uuid.UUID, description string, quantity int) (domain.PackageItem, error) {
	var item domain.PackageItem
	err := s.withActive(id, wizard.SectionPackages, func(d *Draft) error {
		if d.form.Origin != domain.OriginPickup {
			return ErrInvalidItem
		}
		description = strings.TrimSpace(description)
		if description == "" || quantity <= 0 {
			return ErrInvalidItem
		}
		item = domain.PackageItem{ID: uuid.New(), Description: description, Quantity: quantity}
		d.form.PickupItems = append(d.form.PickupItems, item)
		return nil
	})
	return item, err
}

// AddWarehouseItem validates the quantity against current stock. An
// out-of-range quantity is rejected outright, never clamped.
func (s *DraftService) AddWarehouseItem(ctx context.Context, id uuid.UUID, productID int64, quantity int) (domain.WarehouseItem, error) {
	available, err := s.stock.AvailableQuantity(ctx, productID)
	if err != nil {
		return domain.WarehouseItem{}, err
	}
	var item domain.WarehouseItem
	err = s.withActive(id, wizard.SectionPackages, func(d *Draft) error {
		if d.form.Origin != domain.OriginWarehouse {
			return ErrInvalidItem
		}
		if quantity < 1 || quantity > available {
			return ErrQuantityOutOfRange
		}
		for i, it := range d.form.WarehouseItems {
			if it.ProductID != productID {
				continue
			}
			// merge with the existing selection, still bounded by stock
			if it.Quantity+quantity > available {
				return ErrQuantityOutOfRange
			}
			d.form.WarehouseItems[i].Quantity += quantity
			d.form.WarehouseItems[i].MaxQuantity = available
			item = d.form.WarehouseItems[i]
			return nil
		}
		item = domain.WarehouseItem{ProductID: productID, Quantity: quantity, MaxQuantity: available}
		d.form.WarehouseItems = append(d.form.WarehouseItems, item)
		return nil
	})
	return item, err
}

func (s *DraftService) RemoveItem(id uuid.UUID, itemID string) error {
	return s.withActive(id, wizard.SectionPackages, func(d *Draft) error {
		switch d.form.Origin {
		case domain.OriginPickup:
			iid, err := uuid.Parse(itemID)
			if err != nil {
				return ErrItemNotFound
			}
			for i, it := range d.form.PickupItems {
				if it.ID == iid {
					d.form.PickupItems = append(d.form.PickupItems[:i], d.form.PickupItems[i+1:]...)
					return nil
				}
			}
		case domain.OriginWarehouse:
			pid, err := strconv.ParseInt(itemID, 10, 64)
			if err != nil {
				return ErrItemNotFound
			}
			for i, it := range d.form.WarehouseItems {
				if it.ProductID == pid {
					d.form.WarehouseItems = append(d.form.WarehouseItems[:i], d.form.WarehouseItems[i+1:]...)
					return nil
				}
			}
		}
		return ErrItemNotFound
	})
}

func (s *DraftService) SetPickup(id uuid.UUID, address, phone string) error {
	return s.withActive(id, wizard.SectionPickup, func(d *Draft) error {
		d.form.Pickup = domain.PickupDetails{
			Address: domain.NormalizeAddress(address),
			Phone:   domain.NormalizePhone(phone),
		}
		return nil
	})
}

// SetService stores level, mode and date. Collect-on-delivery follows the
// delivery mode; leaving pay_on_delivery clears the amount instead of
// hiding it.
func (s *DraftService) SetService(id uuid.UUID, level domain.ServiceLevel, mode domain.DeliveryMode, date time.Time, codAmount decimal.Decimal) error {
	return s.withActive(id, wizard.SectionService, func(d *Draft) error {
		cod := mode == domain.ModePayOnDelivery
		if !cod {
			codAmount = decimal.Zero
		}
		d.form.Service = domain.ServiceDetails{
			Level:             level,
			DeliveryMode:      mode,
			DeliveryDate:      date,
			CollectOnDelivery: cod,
			CODAmount:         codAmount,
		}
		return nil
	})
}

func (s *DraftService) SetRecipient(id uuid.UUID, r domain.Recipient) error {
	return s.withActive(id, wizard.SectionRecipient, func(d *Draft) error {
		next := domain.Recipient{
			FullName: domain.NormalizeName(r.FullName),
			Phone:    domain.NormalizePhone(r.Phone),
			Email:    domain.NormalizeEmail(r.Email),
			Address:  r.Address,
		}
		next.Address.Text = domain.NormalizeAddress(r.Address.Text)
		next.Address = domain.CascadeAddress(d.form.Recipient.Address, next.Address)
		d.form.Recipient = next
		return nil
	})
}

func (s *DraftService) SetPayment(id uuid.UUID, method domain.PaymentMethod, form domain.PaymentForm) error {
	return s.withActive(id, wizard.SectionPayment, func(d *Draft) error {
		d.form.Payment = domain.PaymentDetails{Method: method, Form: form}
		return nil
	})
}

// Advance completes the active section when it validates. Field errors come
// back to the caller for inline rendering; they never advance the wizard.
func (s *DraftService) Advance(id uuid.UUID) (domain.FieldErrors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if d.submitting {
		return nil, ErrSubmitInFlight
	}
	var fields domain.FieldErrors
	err = d.machine.Advance(func(sec wizard.Section) bool {
		fields = s.validate(d, sec)
		return fields.Ok()
	})
	if err != nil {
		return fields, err
	}
	d.touchedAt = s.now()
	return nil, nil
}

func (s *DraftService) Edit(id uuid.UUID, sec wizard.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.get(id)
	if err != nil {
		return err
	}
	if d.submitting {
		return ErrSubmitInFlight
	}
	if err := d.machine.Edit(sec); err != nil {
		return err
	}
	d.touchedAt = s.now()
	return nil
}

func (s *DraftService) validate(d *Draft, sec wizard.Section) domain.FieldErrors {
	switch sec {
	case wizard.SectionOrigin:
		return d.form.ValidateOrigin()
	case wizard.SectionPackages:
		return d.form.ValidatePackages()
	case wizard.SectionPickup:
		return d.form.ValidatePickup()
	case wizard.SectionService:
		return d.form.ValidateService()
	case wizard.SectionRecipient:
		return d.form.ValidateRecipient(s.catalog)
	case wizard.SectionPayment:
		return d.form.ValidatePayment()
	}
	return domain.FieldErrors{}
}

// Submit assembles the payload and hands it to the pipeline. One submission
// per draft may be in flight; failures leave the draft untouched so the
// user can retry.
func (s *DraftService) Submit(ctx context.Context, id uuid.UUID) (string, error) {
	s.mu.Lock()
	d, err := s.get(id)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	if !d.machine.Complete() {
		s.mu.Unlock()
		return "", ErrFormIncomplete
	}
	if d.submitting {
		s.mu.Unlock()
		return "", ErrSubmitInFlight
	}
	d.submitting = true
	sh := domain.Shipment{
		ShipmentUID: "JE-" + strconv.FormatInt(time.Now().UTC().UnixNano(), 10),
		ShipmentID:  uuid.New(),
		CompanyID:   d.CompanyID,
		Form:        d.form.Clone(),
		CreatedAt:   time.Now().UTC(),
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	backoff := retry.WithMaxRetries(2, retry.NewConstant(300*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.publisher.PublishShipment(ctx, sh); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		s.mu.Lock()
		d.submitting = false
		s.mu.Unlock()
		logger.Warn("shipment publish failed", "uid", sh.ShipmentUID, "err", err)
		return "", errors.Join(ErrSubmitFailed, err)
	}

	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
	logger.Info("shipment submitted", "uid", sh.ShipmentUID, "company", sh.CompanyID)
	return sh.ShipmentUID, nil
}
