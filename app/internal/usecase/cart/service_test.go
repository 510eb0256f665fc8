package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	domcart "example.com/localspark/app/internal/domain/cart"
	domproduct "example.com/localspark/app/internal/domain/product"
	"example.com/localspark/app/internal/infra/persistence/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewService(store.Cart(), store.Products()), store
}

func mustProduct(t *testing.T, store *memory.Store, name string, price float64, stock int64) *domproduct.Product {
	t.Helper()
	p, err := store.Products().Create(context.Background(), &domproduct.Product{
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
	})
	require.NoError(t, err)
	return p
}

func TestService_AddToCart_MergesQuantity(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	p := mustProduct(t, store, "Mug", 12, 10)

	_, err := svc.AddToCart(ctx, "user-1", p.ID, 2)
	require.NoError(t, err)
	item, err := svc.AddToCart(ctx, "user-1", p.ID, 3)
	require.NoError(t, err)

	require.Equal(t, int64(5), item.Quantity)

	cart, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, int64(5), cart.ItemCount)
	require.InDelta(t, 60.0, cart.Subtotal, 1e-9)
}

func TestService_AddToCart_Errors(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	p := mustProduct(t, store, "Mug", 12, 3)
	inactive, err := store.Products().Create(ctx, &domproduct.Product{Name: "Old", Price: 1, StockQuantity: 5})
	require.NoError(t, err)

	tests := []struct {
		name      string
		productID string
		quantity  int64
		wantErr   error
	}{
		{name: "Zero quantity", productID: p.ID, quantity: 0, wantErr: domcart.ErrInvalidQuantity},
		{name: "Negative quantity", productID: p.ID, quantity: -1, wantErr: domcart.ErrInvalidQuantity},
		{name: "Unknown product", productID: "missing", quantity: 1, wantErr: domproduct.ErrProductNotFound},
		{name: "Inactive product", productID: inactive.ID, quantity: 1, wantErr: domproduct.ErrProductNotFound},
		{name: "More than stock", productID: p.ID, quantity: 4, wantErr: domproduct.ErrOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddToCart(ctx, "user-1", tt.productID, tt.quantity)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_AddToCart_StockCountsExistingLine(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	p := mustProduct(t, store, "Mug", 12, 3)

	_, err := svc.AddToCart(ctx, "user-1", p.ID, 2)
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, "user-1", p.ID, 2)
	require.ErrorIs(t, err, domproduct.ErrOutOfStock)
}

func TestService_AddToCart_ConcurrentAddsNeverExceedStock(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	p := mustProduct(t, store, "Mug", 12, 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddToCart(ctx, "user-1", p.ID, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 5, succeeded)
	item, err := store.Cart().GetItem(ctx, "user-1", p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(5), item.Quantity)
}

func TestService_UpdateQuantity(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	p := mustProduct(t, store, "Mug", 12, 5)

	_, err := svc.UpdateQuantity(ctx, "user-1", p.ID, 2)
	require.ErrorIs(t, err, domcart.ErrItemNotFound)

	_, err = svc.AddToCart(ctx, "user-1", p.ID, 1)
	require.NoError(t, err)

	item, err := svc.UpdateQuantity(ctx, "user-1", p.ID, 4)
	require.NoError(t, err)
	require.Equal(t, int64(4), item.Quantity)

	_, err = svc.UpdateQuantity(ctx, "user-1", p.ID, 6)
	require.ErrorIs(t, err, domproduct.ErrOutOfStock)

	_, err = svc.UpdateQuantity(ctx, "user-1", p.ID, 0)
	require.ErrorIs(t, err, domcart.ErrInvalidQuantity)
}

func TestService_RemoveAndClear(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	a := mustProduct(t, store, "Mug", 12, 5)
	b := mustProduct(t, store, "Plate", 8, 5)

	_, err := svc.AddToCart(ctx, "user-1", a.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "user-1", b.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(ctx, "user-1", a.ID))
	require.ErrorIs(t, svc.RemoveItem(ctx, "user-1", a.ID), domcart.ErrItemNotFound)

	cart, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, b.ID, cart.Items[0].ProductID)

	require.NoError(t, svc.Clear(ctx, "user-1"))
	cart, err = svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Empty(t, cart.Items)
	require.Zero(t, cart.Subtotal)
}

func TestService_GetCart_SkipsInactiveProducts(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	p := mustProduct(t, store, "Mug", 12, 5)

	_, err := svc.AddToCart(ctx, "user-1", p.ID, 1)
	require.NoError(t, err)

	p.IsActive = false
	_, err = store.Products().Update(ctx, p)
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Empty(t, cart.Items)
	require.Equal(t, "user-1", cart.OwnerID)
}

func TestService_AdoptGuestCart(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	a := mustProduct(t, store, "Mug", 12, 10)
	b := mustProduct(t, store, "Plate", 8, 10)

	_, err := svc.AddToCart(ctx, "guest:s1", a.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "guest:s1", b.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "user-1", a.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.AdoptGuestCart(ctx, "guest:s1", "user-1"))
	require.NoError(t, svc.AdoptGuestCart(ctx, "", "user-1"))

	cart, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(4), cart.ItemCount)

	guest, err := svc.GetCart(ctx, "guest:s1")
	require.NoError(t, err)
	require.Empty(t, guest.Items)
}
