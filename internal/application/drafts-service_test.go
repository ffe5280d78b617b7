package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japi-express/shipment-service/internal/catalog"
	"github.com/japi-express/shipment-service/internal/domain"
	"github.com/japi-express/shipment-service/internal/wizard"
)

type fakeStock struct {
	available map[int64]int
}

func (f *fakeStock) AvailableQuantity(_ context.Context, productID int64) (int, error) {
	n, ok := f.available[productID]
	if !ok {
		return 0, ErrProductNotFound
	}
	return n, nil
}

type fakePublisher struct {
	published []domain.Shipment
	fail      error
}

func (f *fakePublisher) PublishShipment(_ context.Context, sh domain.Shipment) error {
	if f.fail != nil {
		return f.fail
	}
	f.published = append(f.published, sh)
	return nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Region{
		{
			ID: 1, Name: "LIMA",
			Districts: []catalog.District{
				{ID: 10, RegionID: 1, Name: "SAN JUAN DE LURIGANCHO",
					Sectors: []catalog.Sector{{ID: 100, DistrictID: 10, Name: "ZARATE"}}},
				{ID: 11, RegionID: 1, Name: "MIRAFLORES"},
			},
		},
	})
}

func newTestService(pub Publisher) *DraftService {
	return NewDraftService(
		testCatalog(),
		&fakeStock{available: map[int64]int{7: 5}},
		pub,
		time.Second,
		time.Hour,
	)
}

func fillRecipientAndPayment(t *testing.T, svc *DraftService, draft *DraftView) {
	t.Helper()
	require.NoError(t, svc.SetRecipient(draft.ID, domain.Recipient{
		FullName: "juan perez",
		Phone:    "912345678",
		Address:  domain.Address{RegionID: 1, DistrictID: 11, Text: "calle falsa 123"},
	}))
	mustAdvance(t, svc, draft)
	require.NoError(t, svc.SetPayment(draft.ID, domain.MethodCash, domain.FormSellerPayment))
	mustAdvance(t, svc, draft)
}

func mustAdvance(t *testing.T, svc *DraftService, draft *DraftView) {
	t.Helper()
	fields, err := svc.Advance(draft.ID)
	require.NoError(t, err, "fields: %v", fields)
}

func TestPickupShipmentEndToEnd(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(pub)
	draft := svc.Create(42)

	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginPickup))
	mustAdvance(t, svc, draft)

	_, err := svc.AddPickupItem(draft.ID, "LAPTOP", 1)
	require.NoError(t, err)
	mustAdvance(t, svc, draft)

	require.NoError(t, svc.SetPickup(draft.ID, "av. ejemplo 123", "987654321"))
	mustAdvance(t, svc, draft)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SetService(draft.ID, domain.LevelExpress, domain.ModeDeliveryOnly, date, decimal.Zero))
	mustAdvance(t, svc, draft)

	fillRecipientAndPayment(t, svc, draft)

	uid, err := svc.Submit(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	require.Len(t, pub.published, 1)
	sh := pub.published[0]
	assert.Equal(t, int64(42), sh.CompanyID)
	assert.Equal(t, domain.OriginPickup, sh.Form.Origin)
	assert.Equal(t, "AV. EJEMPLO 123", sh.Form.Pickup.Address)
	assert.Equal(t, "987654321", sh.Form.Pickup.Phone)
	require.Len(t, sh.Form.PickupItems, 1)
	assert.Equal(t, "LAPTOP", sh.Form.PickupItems[0].Description)
	assert.Equal(t, domain.LevelExpress, sh.Form.Service.Level)
	assert.False(t, sh.Form.Service.CollectOnDelivery)
	assert.True(t, sh.Form.Service.CODAmount.IsZero())
	assert.Equal(t, "JUAN PEREZ", sh.Form.Recipient.FullName)
	assert.Equal(t, "CALLE FALSA 123", sh.Form.Recipient.Address.Text)
	assert.Equal(t, domain.MethodCash, sh.Form.Payment.Method)
	assert.Equal(t, domain.FormSellerPayment, sh.Form.Payment.Form)

	// the draft is gone once submitted
	_, err = svc.Get(draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestPayOnDeliveryRequiresAmount(t *testing.T) {
	svc := newTestService(&fakePublisher{})
	draft := svc.Create(1)

	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginPickup))
	mustAdvance(t, svc, draft)
	_, err := svc.AddPickupItem(draft.ID, "BOX", 2)
	require.NoError(t, err)
	mustAdvance(t, svc, draft)
	require.NoError(t, svc.SetPickup(draft.ID, "AV. LIMA 1", "987654321"))
	mustAdvance(t, svc, draft)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SetService(draft.ID, domain.LevelRegular, domain.ModePayOnDelivery, date, decimal.Zero))

	fields, err := svc.Advance(draft.ID)
	assert.ErrorIs(t, err, wizard.ErrSectionIncomplete)
	assert.Contains(t, fields, "cod_amount")

	v, err := svc.Get(draft.ID)
	require.NoError(t, err)
	for _, st := range v.Progress {
		if st.Section == wizard.SectionService {
			assert.Equal(t, wizard.StateActive, st.State)
		}
	}
}

func TestWarehouseQuantityBoundedByStock(t *testing.T) {
	svc := newTestService(&fakePublisher{})
	draft := svc.Create(1)

	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginWarehouse))
	mustAdvance(t, svc, draft)

	_, err := svc.AddWarehouseItem(context.Background(), draft.ID, 7, 6)
	assert.ErrorIs(t, err, ErrQuantityOutOfRange)

	item, err := svc.AddWarehouseItem(context.Background(), draft.ID, 7, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, 5, item.MaxQuantity)

	// merging an existing selection is bounded too
	_, err = svc.AddWarehouseItem(context.Background(), draft.ID, 7, 1)
	assert.ErrorIs(t, err, ErrQuantityOutOfRange)
}

func TestSwitchingOriginClearsOtherVariant(t *testing.T) {
	svc := newTestService(&fakePublisher{})
	draft := svc.Create(1)

	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginPickup))
	mustAdvance(t, svc, draft)
	_, err := svc.AddPickupItem(draft.ID, "TV", 1)
	require.NoError(t, err)
	mustAdvance(t, svc, draft)
	require.NoError(t, svc.SetPickup(draft.ID, "AV. LIMA 1", "987654321"))

	require.NoError(t, svc.Edit(draft.ID, wizard.SectionOrigin))
	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginWarehouse))

	v, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Empty(t, v.Form.PickupItems)
	assert.Empty(t, v.Form.Pickup.Address)
	assert.Empty(t, v.Form.Pickup.Phone)
	for _, st := range v.Progress {
		assert.NotEqual(t, wizard.SectionPickup, st.Section)
	}

	// and back again drops the warehouse selection
	mustAdvance(t, svc, draft)
	_, err = svc.AddWarehouseItem(context.Background(), draft.ID, 7, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Edit(draft.ID, wizard.SectionOrigin))
	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginPickup))

	v, err = svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Empty(t, v.Form.WarehouseItems)
}

func TestCollectOnDeliveryResetClearsAmount(t *testing.T) {
	svc := newTestService(&fakePublisher{})
	draft := svc.Create(1)

	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginWarehouse))
	mustAdvance(t, svc, draft)
	_, err := svc.AddWarehouseItem(context.Background(), draft.ID, 7, 1)
	require.NoError(t, err)
	mustAdvance(t, svc, draft)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SetService(draft.ID, domain.LevelRegular, domain.ModePayOnDelivery, date, decimal.NewFromInt(50)))

	v, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.True(t, v.Form.Service.CollectOnDelivery)

	require.NoError(t, svc.SetService(draft.ID, domain.LevelRegular, domain.ModeDeliveryOnly, date, decimal.NewFromInt(50)))
	v, err = svc.Get(draft.ID)
	require.NoError(t, err)
	assert.False(t, v.Form.Service.CollectOnDelivery)
	assert.True(t, v.Form.Service.CODAmount.IsZero())
}

func TestRecipientCascadeAndNormalization(t *testing.T) {
	svc := newTestService(&fakePublisher{})
	draft := svc.Create(1)

	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginWarehouse))
	mustAdvance(t, svc, draft)
	_, err := svc.AddWarehouseItem(context.Background(), draft.ID, 7, 1)
	require.NoError(t, err)
	mustAdvance(t, svc, draft)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SetService(draft.ID, domain.LevelRegular, domain.ModeDeliveryOnly, date, decimal.Zero))
	mustAdvance(t, svc, draft)

	require.NoError(t, svc.SetRecipient(draft.ID, domain.Recipient{
		FullName: "maria lopez",
		Phone:    "+51 912 345 678",
		Email:    "Maria@Mail.COM",
		Address:  domain.Address{RegionID: 1, DistrictID: 10, SectorID: 100, Text: "jr. union 500"},
	}))
	v, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "MARIA LOPEZ", v.Form.Recipient.FullName)
	assert.Equal(t, "912345678", v.Form.Recipient.Phone)
	assert.Equal(t, "maria@mail.com", v.Form.Recipient.Email)
	assert.Equal(t, "JR. UNION 500", v.Form.Recipient.Address.Text)

	// the full address arriving in one update stays intact
	assert.Equal(t, int64(10), v.Form.Recipient.Address.DistrictID)
	assert.Equal(t, int64(100), v.Form.Recipient.Address.SectorID)

	// changing district drops the stale sector
	require.NoError(t, svc.SetRecipient(draft.ID, domain.Recipient{
		FullName: "maria lopez",
		Phone:    "912345678",
		Address:  domain.Address{RegionID: 1, DistrictID: 11, SectorID: 100, Text: "jr. union 500"},
	}))
	v, err = svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Form.Recipient.Address.SectorID)
}

func TestCompletedSectionRequiresEditBeforeMutation(t *testing.T) {
	svc := newTestService(&fakePublisher{})
	draft := svc.Create(1)

	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginPickup))
	mustAdvance(t, svc, draft)
	_, err := svc.AddPickupItem(draft.ID, "TV", 1)
	require.NoError(t, err)
	mustAdvance(t, svc, draft)

	// packages is completed now; adds are refused until it is reopened
	_, err = svc.AddPickupItem(draft.ID, "RADIO", 1)
	assert.ErrorIs(t, err, wizard.ErrSectionNotActive)

	require.NoError(t, svc.Edit(draft.ID, wizard.SectionPackages))
	_, err = svc.AddPickupItem(draft.ID, "RADIO", 1)
	assert.NoError(t, err)
}

func TestEditRoundTripKeepsValues(t *testing.T) {
	svc := newTestService(&fakePublisher{})
	draft := svc.Create(1)

	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginPickup))
	mustAdvance(t, svc, draft)
	_, err := svc.AddPickupItem(draft.ID, "LAPTOP", 1)
	require.NoError(t, err)
	mustAdvance(t, svc, draft)

	before, err := svc.Get(draft.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Edit(draft.ID, wizard.SectionPackages))
	after, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Form, after.Form)
}

func TestSubmitIncompleteRefused(t *testing.T) {
	svc := newTestService(&fakePublisher{})
	draft := svc.Create(1)

	_, err := svc.Submit(context.Background(), draft.ID)
	assert.ErrorIs(t, err, ErrFormIncomplete)
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	pub := &fakePublisher{fail: errors.New("broker down")}
	svc := newTestService(pub)
	draft := svc.Create(9)

	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginPickup))
	mustAdvance(t, svc, draft)
	_, err := svc.AddPickupItem(draft.ID, "LAPTOP", 1)
	require.NoError(t, err)
	mustAdvance(t, svc, draft)
	require.NoError(t, svc.SetPickup(draft.ID, "AV. LIMA 1", "987654321"))
	mustAdvance(t, svc, draft)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SetService(draft.ID, domain.LevelRegular, domain.ModeDeliveryOnly, date, decimal.Zero))
	mustAdvance(t, svc, draft)
	fillRecipientAndPayment(t, svc, draft)

	_, err = svc.Submit(context.Background(), draft.ID)
	assert.ErrorIs(t, err, ErrSubmitFailed)

	// everything is still there for a retry
	v, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.True(t, v.SubmitEnabled)

	pub.fail = nil
	_, err = svc.Submit(context.Background(), draft.ID)
	assert.NoError(t, err)
}

// blockingPublisher parks inside PublishShipment until released, so tests
// can poke the draft while the submission is in flight.
type blockingPublisher struct {
	entered   chan struct{}
	release   chan struct{}
	published []domain.Shipment
}

func (p *blockingPublisher) PublishShipment(_ context.Context, sh domain.Shipment) error {
	select {
	case p.entered <- struct{}{}:
	default:
	}
	<-p.release
	p.published = append(p.published, sh)
	return nil
}

func TestInFlightSubmitBlocksMutation(t *testing.T) {
	pub := &blockingPublisher{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc := newTestService(pub)
	draft := svc.Create(3)

	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginWarehouse))
	mustAdvance(t, svc, draft)
	_, err := svc.AddWarehouseItem(context.Background(), draft.ID, 7, 2)
	require.NoError(t, err)
	mustAdvance(t, svc, draft)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SetService(draft.ID, domain.LevelRegular, domain.ModeDeliveryOnly, date, decimal.Zero))
	mustAdvance(t, svc, draft)
	fillRecipientAndPayment(t, svc, draft)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), draft.ID)
		done <- err
	}()
	<-pub.entered

	assert.ErrorIs(t, svc.Edit(draft.ID, wizard.SectionPackages), ErrSubmitInFlight)
	_, err = svc.AddWarehouseItem(context.Background(), draft.ID, 7, 3)
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	_, err = svc.Advance(draft.ID)
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.ErrorIs(t, svc.Delete(draft.ID), ErrSubmitInFlight)

	close(pub.release)
	require.NoError(t, <-done)

	// the payload carries exactly what was validated
	require.Len(t, pub.published, 1)
	require.Len(t, pub.published[0].Form.WarehouseItems, 1)
	assert.Equal(t, 2, pub.published[0].Form.WarehouseItems[0].Quantity)
}

func TestDraftViewIsDetached(t *testing.T) {
	svc := newTestService(&fakePublisher{})
	draft := svc.Create(1)

	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginPickup))
	mustAdvance(t, svc, draft)
	_, err := svc.AddPickupItem(draft.ID, "TV", 1)
	require.NoError(t, err)

	v, err := svc.Get(draft.ID)
	require.NoError(t, err)
	v.Form.PickupItems[0].Quantity = 99

	v, err = svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Form.PickupItems[0].Quantity)
}

func TestIdleDraftEvicted(t *testing.T) {
	svc := newTestService(&fakePublisher{})
	base := time.Now()
	svc.now = func() time.Time { return base }
	draft := svc.Create(1)

	// activity resets the idle clock
	base = base.Add(50 * time.Minute)
	require.NoError(t, svc.SetOrigin(draft.ID, domain.OriginPickup))

	base = base.Add(50 * time.Minute)
	_, err := svc.Get(draft.ID)
	require.NoError(t, err)

	base = base.Add(61 * time.Minute)
	_, err = svc.Get(draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDeleteDraft(t *testing.T) {
	svc := newTestService(&fakePublisher{})
	draft := svc.Create(1)

	require.NoError(t, svc.Delete(draft.ID))
	_, err := svc.Get(draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.ErrorIs(t, svc.Delete(draft.ID), ErrDraftNotFound)
}
