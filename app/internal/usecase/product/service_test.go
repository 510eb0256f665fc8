package product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	domfavorite "example.com/localspark/app/internal/domain/favorite"
	domnotification "example.com/localspark/app/internal/domain/notification"
	dom "example.com/localspark/app/internal/domain/product"
	"example.com/localspark/app/internal/infra/persistence/memory"
)

type sentNotification struct {
	ownerID string
	typ     domnotification.Type
	title   string
	message string
}

type mockNotifier struct {
	sent      []sentNotification
	err       error
	failFirst int
}

func (m *mockNotifier) Notify(ctx context.Context, ownerID string, typ domnotification.Type, title, message string) error {
	if m.err != nil {
		return m.err
	}
	if m.failFirst > 0 {
		m.failFirst--
		return errors.New("push failed")
	}
	m.sent = append(m.sent, sentNotification{ownerID: ownerID, typ: typ, title: title, message: message})
	return nil
}

type failingRepository struct {
	dom.Repository
	err error
}

func (f failingRepository) Create(ctx context.Context, p *dom.Product) (*dom.Product, error) {
	return nil, f.err
}

func newTestService(t *testing.T) (*Service, *memory.Store, *mockNotifier) {
	t.Helper()
	store := memory.NewStore()
	notifier := &mockNotifier{}
	return NewService(store.Products(), store.Favorites(), notifier, nil), store, notifier
}

func mustCreate(t *testing.T, svc *Service, in CreateInput) *dom.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

func TestService_Create(t *testing.T) {
	svc, _, _ := newTestService(t)

	p, err := svc.Create(context.Background(), CreateInput{
		Name:          "  Trail Shoes ",
		Category:      " Sports ",
		Price:         89.5,
		Brand:         " Peak ",
		StockQuantity: 4,
		SKU:           " TS-1 ",
		Tags:          []string{"outdoor"},
	})

	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, "Trail Shoes", p.Name)
	require.Equal(t, "Sports", p.Category)
	require.Equal(t, "Peak", p.Brand)
	require.Equal(t, "TS-1", p.SKU)
	require.True(t, p.IsActive)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   CreateInput
	}{
		{name: "Blank name", in: CreateInput{Name: "  ", Price: 10}},
		{name: "Zero price", in: CreateInput{Name: "Mug", Price: 0}},
		{name: "Negative stock", in: CreateInput{Name: "Mug", Price: 5, StockQuantity: -1}},
		{name: "Comma in tag", in: CreateInput{Name: "Mug", Price: 5, Tags: []string{"kitchen,home"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)

			_, err := svc.Create(context.Background(), tt.in)

			require.ErrorIs(t, err, dom.ErrInvalidProduct)
		})
	}
}

func TestService_Update_PartialFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	p := mustCreate(t, svc, CreateInput{Name: "Mug", Description: "Ceramic", Price: 12, StockQuantity: 3})

	name := "Big Mug"
	stock := int64(10)
	updated, err := svc.Update(context.Background(), UpdateInput{ID: p.ID, Name: &name, StockQuantity: &stock})

	require.NoError(t, err)
	require.Equal(t, "Big Mug", updated.Name)
	require.Equal(t, "Ceramic", updated.Description)
	require.Equal(t, int64(10), updated.StockQuantity)
	require.InDelta(t, 12.0, updated.Price, 1e-9)
}

func TestService_Update_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	p := mustCreate(t, svc, CreateInput{Name: "Mug", Price: 12})
	blank := " "
	zero := 0.0
	negative := int64(-2)

	for name, in := range map[string]UpdateInput{
		"Blank name":     {ID: p.ID, Name: &blank},
		"Zero price":     {ID: p.ID, Price: &zero},
		"Negative stock": {ID: p.ID, StockQuantity: &negative},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), in)
			require.ErrorIs(t, err, dom.ErrInvalidProduct)
		})
	}

	t.Run("Comma in tag", func(t *testing.T) {
		_, err := svc.Update(context.Background(), UpdateInput{ID: p.ID, Tags: []string{"ok", "a,b"}})
		require.ErrorIs(t, err, dom.ErrInvalidProduct)
	})

	_, err := svc.Update(context.Background(), UpdateInput{ID: "missing"})
	require.ErrorIs(t, err, dom.ErrProductNotFound)
}

func TestService_Update_PriceDropNotifiesFavoriters(t *testing.T) {
	svc, store, notifier := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, CreateInput{Name: "Lamp", Price: 40, StockQuantity: 2})

	for _, owner := range []string{"user-1", "guest:abc"} {
		_, err := store.Favorites().Add(ctx, &domfavorite.Favorite{OwnerID: owner, Kind: domfavorite.KindProduct, TargetID: p.ID})
		require.NoError(t, err)
	}

	price := 30.0
	_, err := svc.Update(ctx, UpdateInput{ID: p.ID, Price: &price})
	require.NoError(t, err)

	require.Len(t, notifier.sent, 2)
	owners := []string{notifier.sent[0].ownerID, notifier.sent[1].ownerID}
	require.ElementsMatch(t, []string{"user-1", "guest:abc"}, owners)
	require.Equal(t, domnotification.TypeFavorites, notifier.sent[0].typ)
	require.Equal(t, "Lamp dropped from $40.00 to $30.00.", notifier.sent[0].message)
}

func TestService_Update_NoNotificationWithoutDrop(t *testing.T) {
	svc, store, notifier := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, CreateInput{Name: "Lamp", Price: 40})
	_, err := store.Favorites().Add(ctx, &domfavorite.Favorite{OwnerID: "user-1", Kind: domfavorite.KindProduct, TargetID: p.ID})
	require.NoError(t, err)

	higher := 45.0
	_, err = svc.Update(ctx, UpdateInput{ID: p.ID, Price: &higher})
	require.NoError(t, err)

	lower := 20.0
	inactive := false
	_, err = svc.Update(ctx, UpdateInput{ID: p.ID, Price: &lower, IsActive: &inactive})
	require.NoError(t, err)

	require.Empty(t, notifier.sent)
}

func TestService_Update_NotifierErrorDoesNotFailUpdate(t *testing.T) {
	svc, store, notifier := newTestService(t)
	ctx := context.Background()
	notifier.err = errors.New("push failed")
	p := mustCreate(t, svc, CreateInput{Name: "Lamp", Price: 40})
	_, err := store.Favorites().Add(ctx, &domfavorite.Favorite{OwnerID: "user-1", Kind: domfavorite.KindProduct, TargetID: p.ID})
	require.NoError(t, err)

	price := 10.0
	updated, err := svc.Update(ctx, UpdateInput{ID: p.ID, Price: &price})

	require.NoError(t, err)
	require.InDelta(t, 10.0, updated.Price, 1e-9)
}

func TestService_Update_PriceDropContinuesPastFailedNotify(t *testing.T) {
	store := memory.NewStore()
	notifier := &mockNotifier{failFirst: 1}
	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(store.Products(), store.Favorites(), notifier, zap.New(core))
	ctx := context.Background()
	p := mustCreate(t, svc, CreateInput{Name: "Lamp", Price: 40})
	for _, owner := range []string{"user-1", "user-2", "guest:abc"} {
		_, err := store.Favorites().Add(ctx, &domfavorite.Favorite{OwnerID: owner, Kind: domfavorite.KindProduct, TargetID: p.ID})
		require.NoError(t, err)
	}

	price := 25.0
	_, err := svc.Update(ctx, UpdateInput{ID: p.ID, Price: &price})

	require.NoError(t, err)
	require.Len(t, notifier.sent, 2)
	entries := logs.FilterMessage("price drop notification failed").All()
	require.Len(t, entries, 1)
	require.Equal(t, p.ID, entries[0].ContextMap()["product_id"])
}

func TestService_GetActive_HidesInactive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, CreateInput{Name: "Mug", Price: 12})

	got, err := svc.GetActive(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)

	inactive := false
	_, err = svc.Update(ctx, UpdateInput{ID: p.ID, IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.GetActive(ctx, p.ID)
	require.ErrorIs(t, err, dom.ErrProductNotFound)

	got, err = svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)
}

func TestService_List_DefaultsToRating(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustCreate(t, svc, CreateInput{Name: "Low", Price: 5, Rating: 3.1})
	mustCreate(t, svc, CreateInput{Name: "High", Price: 50, Rating: 4.9})

	items, total, err := svc.List(context.Background(), dom.ListFilter{})

	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, "High", items[0].Name)
	require.Equal(t, "Low", items[1].Name)
}

func TestService_Delete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, CreateInput{Name: "Mug", Price: 12})

	require.NoError(t, svc.Delete(ctx, p.ID))
	require.ErrorIs(t, svc.Delete(ctx, p.ID), dom.ErrProductNotFound)
}

func TestService_Import(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustCreate(t, svc, CreateInput{Name: "Existing", Price: 10, SKU: "SKU-1"})

	res, err := svc.Import(context.Background(), []*dom.Product{
		{Name: "Kettle", Price: 30, SKU: "SKU-2", StockQuantity: 5},
		{Name: "Duplicate", Price: 15, SKU: "sku-1"},
		{Name: "", Price: 15},
		{Name: "Toaster", Price: 25},
	})

	require.NoError(t, err)
	require.Equal(t, 2, res.Created)
	require.Equal(t, []ImportSkip{
		{Name: "Duplicate", Reason: dom.ErrSKUExists.Error()},
		{Name: "", Reason: dom.ErrInvalidProduct.Error()},
	}, res.Skipped)
}

func TestService_Import_AbortsOnStoreError(t *testing.T) {
	svc := NewService(failingRepository{err: errors.New("db down")}, nil, nil, nil)

	res, err := svc.Import(context.Background(), []*dom.Product{{Name: "Kettle", Price: 30}})

	require.EqualError(t, err, "db down")
	require.Nil(t, res)
}
