package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domcart "example.com/localspark/app/internal/domain/cart"
	domevent "example.com/localspark/app/internal/domain/event"
	domfavorite "example.com/localspark/app/internal/domain/favorite"
	domnotification "example.com/localspark/app/internal/domain/notification"
	domorder "example.com/localspark/app/internal/domain/order"
	domproduct "example.com/localspark/app/internal/domain/product"
	domregistration "example.com/localspark/app/internal/domain/registration"
	domsession "example.com/localspark/app/internal/domain/session"
	domuser "example.com/localspark/app/internal/domain/user"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.clock = func() time.Time { return base }
	return s
}

func mustCreateProduct(t *testing.T, s *Store, p *domproduct.Product) *domproduct.Product {
	t.Helper()
	created, err := s.Products().Create(context.Background(), p)
	require.NoError(t, err)
	return created
}

func TestStore_NowIsStrictlyIncreasing(t *testing.T) {
	s := newTestStore(t)

	s.mu.Lock()
	a := s.now()
	b := s.now()
	s.mu.Unlock()

	require.True(t, b.After(a))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	require.Equal(t, []int{1, 2, 3, 4, 5}, paginate(items, 0, 0))
	require.Equal(t, []int{3, 4}, paginate(items, 2, 2))
	require.Equal(t, []int{5}, paginate(items, 10, 4))
	require.Equal(t, []int{}, paginate(items, 2, 9))
	require.Equal(t, []int{1}, paginate(items, 1, -3))
}

func TestProductRepository_ListFiltersSortsAndPaginates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateProduct(t, s, &domproduct.Product{ID: "1", Name: "Headphones", Category: "Electronics", Brand: "TechSound", Price: 89.99, Rating: 4.5, IsActive: true, Tags: []string{"wireless"}})
	mustCreateProduct(t, s, &domproduct.Product{ID: "2", Name: "Chair", Category: "Furniture", Brand: "ComfortDesk", Price: 199.99, Rating: 4.3, IsActive: true})
	mustCreateProduct(t, s, &domproduct.Product{ID: "3", Name: "Tracker", Category: "Electronics", Brand: "FitTech", Price: 79.99, Rating: 4.2, IsActive: true})
	mustCreateProduct(t, s, &domproduct.Product{ID: "4", Name: "Retired", Category: "Electronics", Price: 10, Rating: 5, IsActive: false})

	items, total, err := s.Products().List(ctx, domproduct.ListFilter{Category: "electronics"})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, "1", items[0].ID)
	require.Equal(t, "3", items[1].ID)

	items, total, err = s.Products().List(ctx, domproduct.ListFilter{Category: "all", Sort: domproduct.SortPriceAsc, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, items, 2)
	require.Equal(t, "3", items[0].ID)
	require.Equal(t, "1", items[1].ID)

	items, _, err = s.Products().List(ctx, domproduct.ListFilter{Search: "WIRELESS"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "1", items[0].ID)

	_, total, err = s.Products().List(ctx, domproduct.ListFilter{IncludeInactive: true})
	require.NoError(t, err)
	require.Equal(t, 4, total)
}

func TestProductRepository_ReturnsCopies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := mustCreateProduct(t, s, &domproduct.Product{Name: "Bottle", Price: 24.99, Tags: []string{"eco"}, IsActive: true})
	require.NotEmpty(t, created.ID)

	created.Tags[0] = "changed"
	created.Price = 1

	got, err := s.Products().GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"eco"}, got.Tags)
	require.Equal(t, 24.99, got.Price)
}

func TestProductRepository_SKUUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := mustCreateProduct(t, s, &domproduct.Product{Name: "A", SKU: "SKU-1"})
	second := mustCreateProduct(t, s, &domproduct.Product{Name: "B", SKU: "SKU-2"})

	_, err := s.Products().Create(ctx, &domproduct.Product{Name: "C", SKU: "sku-1"})
	require.ErrorIs(t, err, domproduct.ErrSKUExists)

	second.SKU = "SKU-1"
	_, err = s.Products().Update(ctx, second)
	require.ErrorIs(t, err, domproduct.ErrSKUExists)

	first.Name = "A2"
	_, err = s.Products().Update(ctx, first)
	require.NoError(t, err)
}

func TestProductRepository_DeleteCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := mustCreateProduct(t, s, &domproduct.Product{Name: "A", IsActive: true})
	_, err := s.Cart().AddOrUpdateItem(ctx, "u1", p.ID, 2)
	require.NoError(t, err)
	_, err = s.Favorites().Add(ctx, &domfavorite.Favorite{OwnerID: "u1", Kind: domfavorite.KindProduct, TargetID: p.ID})
	require.NoError(t, err)

	require.NoError(t, s.Products().Delete(ctx, p.ID))
	require.ErrorIs(t, s.Products().Delete(ctx, p.ID), domproduct.ErrProductNotFound)

	items, err := s.Cart().ListItems(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items)

	ok, err := s.Favorites().Exists(ctx, "u1", domfavorite.KindProduct, p.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEventRepository_ListRadiusAndUpcoming(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lat, lng := 37.7749, -122.4194
	farLat, farLng := 34.0522, -118.2437

	_, err := s.Events().Create(ctx, &domevent.Event{ID: "sf-late", Title: "Late", IsActive: true, Latitude: &lat, Longitude: &lng, StartDate: now.Add(48 * time.Hour), EndDate: now.Add(50 * time.Hour)})
	require.NoError(t, err)
	_, err = s.Events().Create(ctx, &domevent.Event{ID: "sf-early", Title: "Early", IsActive: true, Latitude: &lat, Longitude: &lng, StartDate: now.Add(24 * time.Hour), EndDate: now.Add(26 * time.Hour)})
	require.NoError(t, err)
	_, err = s.Events().Create(ctx, &domevent.Event{ID: "la", Title: "LA", IsActive: true, Latitude: &farLat, Longitude: &farLng, StartDate: now.Add(time.Hour), EndDate: now.Add(2 * time.Hour)})
	require.NoError(t, err)
	_, err = s.Events().Create(ctx, &domevent.Event{ID: "past", Title: "Past", IsActive: true, StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-47 * time.Hour)})
	require.NoError(t, err)

	items, total, err := s.Events().List(ctx, domevent.ListFilter{
		Near: &domevent.Radius{Center: domevent.GeoPoint{Latitude: lat, Longitude: lng}, Miles: 25},
	})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, "sf-early", items[0].ID)
	require.Equal(t, "sf-late", items[1].ID)

	items, total, err = s.Events().List(ctx, domevent.ListFilter{Upcoming: true, Now: now})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Equal(t, "la", items[0].ID)
}

func TestEventRepository_UpdateKeepsAttendeeCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e, err := s.Events().Create(ctx, &domevent.Event{Title: "Mixer", IsActive: true})
	require.NoError(t, err)
	_, err = s.Registrations().Create(ctx, &domregistration.Registration{UserID: "u1", EventID: e.ID})
	require.NoError(t, err)

	e.Title = "Mixer 2"
	e.CurrentAttendees = 0
	updated, err := s.Events().Update(ctx, e)
	require.NoError(t, err)
	require.Equal(t, "Mixer 2", updated.Title)
	require.EqualValues(t, 1, updated.CurrentAttendees)

	require.NoError(t, s.Events().Delete(ctx, e.ID))
	regs, err := s.Registrations().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, regs)
}

func TestCartRepository_AddMergesAndMergeOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	guest := domsession.GuestOwner("sid-1")

	_, err := s.Cart().AddOrUpdateItem(ctx, guest, "p1", 1)
	require.NoError(t, err)
	item, err := s.Cart().AddOrUpdateItem(ctx, guest, "p1", 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, item.Quantity)

	_, err = s.Cart().AddOrUpdateItem(ctx, guest, "p2", 1)
	require.NoError(t, err)
	_, err = s.Cart().AddOrUpdateItem(ctx, "user-1", "p1", 4)
	require.NoError(t, err)

	require.NoError(t, s.Cart().MergeOwner(ctx, guest, "user-1"))

	guestItems, err := s.Cart().ListItems(ctx, guest)
	require.NoError(t, err)
	require.Empty(t, guestItems)

	items, err := s.Cart().ListItems(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "p1", items[0].ProductID)
	require.EqualValues(t, 7, items[0].Quantity)
	require.Equal(t, "p2", items[1].ProductID)
}

func TestCartRepository_AddWithinStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := mustCreateProduct(t, s, &domproduct.Product{Name: "Mug", Price: 5, StockQuantity: 3, IsActive: true})
	hidden := mustCreateProduct(t, s, &domproduct.Product{Name: "Old", Price: 5, StockQuantity: 3})

	item, err := s.Cart().AddWithinStock(ctx, "u1", p.ID, 2)
	require.NoError(t, err)
	require.EqualValues(t, 2, item.Quantity)

	_, err = s.Cart().AddWithinStock(ctx, "u1", p.ID, 2)
	require.ErrorIs(t, err, domproduct.ErrOutOfStock)

	item, err = s.Cart().AddWithinStock(ctx, "u1", p.ID, 1)
	require.NoError(t, err)
	require.EqualValues(t, 3, item.Quantity)

	_, err = s.Cart().AddWithinStock(ctx, "u1", hidden.ID, 1)
	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
	_, err = s.Cart().AddWithinStock(ctx, "u1", "missing", 1)
	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
}

func TestCartRepository_SetRemoveClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Cart().SetQuantity(ctx, "u1", "p1", 3)
	require.ErrorIs(t, err, domcart.ErrItemNotFound)

	_, err = s.Cart().AddOrUpdateItem(ctx, "u1", "p1", 1)
	require.NoError(t, err)
	item, err := s.Cart().SetQuantity(ctx, "u1", "p1", 5)
	require.NoError(t, err)
	require.EqualValues(t, 5, item.Quantity)

	require.NoError(t, s.Cart().RemoveItem(ctx, "u1", "p1"))
	require.ErrorIs(t, s.Cart().RemoveItem(ctx, "u1", "p1"), domcart.ErrItemNotFound)

	_, err = s.Cart().AddOrUpdateItem(ctx, "u1", "p2", 1)
	require.NoError(t, err)
	require.NoError(t, s.Cart().Clear(ctx, "u1"))
	items, err := s.Cart().ListItems(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCartRepository_DeleteGuestItemsBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Cart().AddOrUpdateItem(ctx, domsession.GuestOwner("old"), "p1", 1)
	require.NoError(t, err)
	_, err = s.Cart().AddOrUpdateItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)

	n, err := s.Cart().DeleteGuestItemsBefore(ctx, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	items, err := s.Cart().ListItems(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestFavoriteRepository_AddRemoveMerge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	guest := domsession.GuestOwner("sid")

	_, err := s.Favorites().Add(ctx, &domfavorite.Favorite{OwnerID: guest, Kind: domfavorite.KindProduct, TargetID: "1"})
	require.NoError(t, err)
	_, err = s.Favorites().Add(ctx, &domfavorite.Favorite{OwnerID: guest, Kind: domfavorite.KindProduct, TargetID: "1"})
	require.ErrorIs(t, err, domfavorite.ErrAlreadyFavorite)
	_, err = s.Favorites().Add(ctx, &domfavorite.Favorite{OwnerID: guest, Kind: domfavorite.KindEvent, TargetID: "1"})
	require.NoError(t, err)
	_, err = s.Favorites().Add(ctx, &domfavorite.Favorite{OwnerID: "user-1", Kind: domfavorite.KindProduct, TargetID: "1"})
	require.NoError(t, err)

	require.NoError(t, s.Favorites().MergeOwner(ctx, guest, "user-1"))

	products, err := s.Favorites().ListByOwner(ctx, "user-1", domfavorite.KindProduct)
	require.NoError(t, err)
	require.Len(t, products, 1)
	events, err := s.Favorites().ListByOwner(ctx, "user-1", domfavorite.KindEvent)
	require.NoError(t, err)
	require.Len(t, events, 1)

	owners, err := s.Favorites().ListOwnersByTarget(ctx, domfavorite.KindProduct, "1")
	require.NoError(t, err)
	require.Equal(t, []string{"user-1"}, owners)

	require.NoError(t, s.Favorites().Remove(ctx, "user-1", domfavorite.KindEvent, "1"))
	require.ErrorIs(t, s.Favorites().Remove(ctx, "user-1", domfavorite.KindEvent, "1"), domfavorite.ErrFavoriteNotFound)
}

func TestUserRepository_UniqueUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.Users().Create(ctx, &domuser.User{Username: "alice", RoleCode: domuser.RoleCodeCustomer})
	require.NoError(t, err)
	_, err = s.Users().Create(ctx, &domuser.User{Username: "alice"})
	require.ErrorIs(t, err, domuser.ErrUsernameTaken)

	got, err := s.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = s.Users().GetByID(ctx, "missing")
	require.ErrorIs(t, err, domuser.ErrUserNotFound)
}

func TestRegistrationRepository_Capacity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	limit := int64(1)

	e, err := s.Events().Create(ctx, &domevent.Event{Title: "Workshop", IsActive: true, MaxAttendees: &limit})
	require.NoError(t, err)

	_, err = s.Registrations().Create(ctx, &domregistration.Registration{UserID: "u1", EventID: e.ID})
	require.NoError(t, err)
	_, err = s.Registrations().Create(ctx, &domregistration.Registration{UserID: "u1", EventID: e.ID})
	require.ErrorIs(t, err, domregistration.ErrAlreadyRegistered)
	_, err = s.Registrations().Create(ctx, &domregistration.Registration{UserID: "u2", EventID: e.ID})
	require.ErrorIs(t, err, domregistration.ErrEventFull)
	_, err = s.Registrations().Create(ctx, &domregistration.Registration{UserID: "u2", EventID: "missing"})
	require.ErrorIs(t, err, domevent.ErrEventNotFound)

	require.NoError(t, s.Registrations().Delete(ctx, "u1", e.ID))
	require.ErrorIs(t, s.Registrations().Delete(ctx, "u1", e.ID), domregistration.ErrRegistrationNotFound)

	got, err := s.Events().GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, got.CurrentAttendees)
}

func TestRegistrationRepository_ConcurrentSeatsNeverOversell(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	limit := int64(5)

	e, err := s.Events().Create(ctx, &domevent.Event{Title: "Seminar", IsActive: true, MaxAttendees: &limit})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Registrations().Create(ctx, &domregistration.Registration{UserID: string(rune('a' + i)), EventID: e.ID})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 5, succeeded)
	got, err := s.Events().GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.EqualValues(t, 5, got.CurrentAttendees)
}

func TestOrderRepository_CreateFromCart(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := mustCreateProduct(t, s, &domproduct.Product{Name: "A", Price: 10, StockQuantity: 5, IsActive: true})
	b := mustCreateProduct(t, s, &domproduct.Product{Name: "B", Price: 2.5, StockQuantity: 1, IsActive: true})

	_, err := s.Orders().CreateFromCart(ctx, domorder.CreateFromCartInput{
		UserID:  "u1",
		Payment: domorder.PaymentCOD,
		Items: []domcart.Item{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 2},
		},
	})
	require.ErrorIs(t, err, domproduct.ErrOutOfStock)

	got, err := s.Products().GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.EqualValues(t, 5, got.StockQuantity)

	o, err := s.Orders().CreateFromCart(ctx, domorder.CreateFromCartInput{
		UserID:  "u1",
		Payment: domorder.PaymentCard,
		Items: []domcart.Item{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, domorder.StatusPending, o.Status)
	require.InDelta(t, 22.5, o.TotalAmount, 1e-9)
	require.Len(t, o.Items, 2)
	require.Equal(t, "A", o.Items[0].Name)

	got, err = s.Products().GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, got.StockQuantity)

	updated, err := s.Orders().UpdateStatus(ctx, o.ID, domorder.StatusShipped)
	require.NoError(t, err)
	require.Equal(t, domorder.StatusShipped, updated.Status)

	_, err = s.Orders().GetByID(ctx, "missing")
	require.ErrorIs(t, err, domorder.ErrOrderNotFound)

	mine, err := s.Orders().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestNotificationRepository_MarkReadChecksOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Notifications().Create(ctx, &domnotification.Notification{OwnerID: "u1", Type: domnotification.TypeOrder, Title: "one"})
	require.NoError(t, err)
	_, err = s.Notifications().Create(ctx, &domnotification.Notification{OwnerID: "u1", Type: domnotification.TypeOrder, Title: "two"})
	require.NoError(t, err)

	list, err := s.Notifications().ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "two", list[0].Title)

	_, err = s.Notifications().MarkRead(ctx, "u2", first.ID)
	require.ErrorIs(t, err, domnotification.ErrNotificationNotFound)

	n, err := s.Notifications().MarkRead(ctx, "u1", first.ID)
	require.NoError(t, err)
	require.True(t, n.Read)
}
