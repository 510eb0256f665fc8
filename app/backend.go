package main

import (
	"context"
	"fmt"

	domcart "example.com/localspark/app/internal/domain/cart"
	domevent "example.com/localspark/app/internal/domain/event"
	domfavorite "example.com/localspark/app/internal/domain/favorite"
	domnotification "example.com/localspark/app/internal/domain/notification"
	domorder "example.com/localspark/app/internal/domain/order"
	domproduct "example.com/localspark/app/internal/domain/product"
	domregistration "example.com/localspark/app/internal/domain/registration"
	domuser "example.com/localspark/app/internal/domain/user"
	"example.com/localspark/app/internal/config"
	"example.com/localspark/app/internal/infra/persistence/memory"
	"example.com/localspark/app/internal/infra/persistence/migrations"
	"example.com/localspark/app/internal/infra/persistence/sqlstore"
)

// backend is the set of repositories the services run on, whichever store
// provides them.
type backend struct {
	name          string
	products      domproduct.Repository
	events        domevent.Repository
	users         domuser.Repository
	cart          domcart.Repository
	favorites     domfavorite.Repository
	registrations domregistration.Repository
	orders        domorder.Repository
	notifications domnotification.Repository
	ping          func(ctx context.Context) error
	close         func() error
}

func (b *backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.Store.Driver == "memory" {
		s := memory.NewStore()
		return &backend{
			name:          "memory",
			products:      s.Products(),
			events:        s.Events(),
			users:         s.Users(),
			cart:          s.Cart(),
			favorites:     s.Favorites(),
			registrations: s.Registrations(),
			orders:        s.Orders(),
			notifications: s.Notifications(),
			ping:          s.Ping,
			close:         func() error { return nil },
		}, nil
	}

	dialect, err := sqlstore.ParseDialect(cfg.Store.Driver)
	if err != nil {
		return nil, err
	}
	s, err := sqlstore.Open(ctx, dialect, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", dialect, err)
	}
	return &backend{
		name:          string(dialect),
		products:      s.Products(),
		events:        s.Events(),
		users:         s.Users(),
		cart:          s.Cart(),
		favorites:     s.Favorites(),
		registrations: s.Registrations(),
		orders:        s.Orders(),
		notifications: s.Notifications(),
		ping:          s.Ping,
		close:         s.Close,
	}, nil
}

// openMigrator connects on a handle of its own; closing the migrator closes it.
func openMigrator(ctx context.Context, cfg *config.Config) (*migrations.Migrator, error) {
	dialect, err := sqlstore.ParseDialect(cfg.Store.Driver)
	if err != nil {
		return nil, fmt.Errorf("migrations need a sql store: %w", err)
	}
	s, err := sqlstore.Open(ctx, dialect, cfg.DSN())
	if err != nil {
		return nil, err
	}
	mg, err := migrations.New(s.DB().DB, string(dialect))
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return mg, nil
}
