package postgres

import (
	"context"

	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	"github.com/azkar-hub/azkar-hub/internal/domain/progress"

	"github.com/jackc/pgx/v5"
)

// UnitOfWork implements progress.UnitOfWork on top of Connection.WithTx.
// Every repository handed to fn shares the same pgx.Tx.
type UnitOfWork struct {
	conn *Connection
	opts TxOptions

	// catalog wraps the tx-bound catalog reader, e.g. with a cache.
	catalog func(azkar.Repository) azkar.Repository
}

// UnitOfWorkOption configures a UnitOfWork.
type UnitOfWorkOption func(*UnitOfWork)

// WithCatalogDecorator wraps the catalog repository exposed inside each
// transaction. Catalog rows are read-only for the service, so a cache in
// front of them does not break isolation.
func WithCatalogDecorator(fn func(azkar.Repository) azkar.Repository) UnitOfWorkOption {
	return func(u *UnitOfWork) { u.catalog = fn }
}

// WithTxOptions overrides the transaction options.
func WithTxOptions(opts TxOptions) UnitOfWorkOption {
	return func(u *UnitOfWork) { u.opts = opts }
}

// NewUnitOfWork creates a new UnitOfWork.
func NewUnitOfWork(conn *Connection, opts ...UnitOfWorkOption) *UnitOfWork {
	u := &UnitOfWork{conn: conn, opts: DefaultTxOptions()}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Do runs fn in one transaction.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos progress.Repos) error) error {
	return u.conn.WithTx(ctx, u.opts, func(tx pgx.Tx) error {
		return fn(ctx, u.repos(tx))
	})
}

func (u *UnitOfWork) repos(q Querier) progress.Repos {
	var catalog azkar.Repository = NewAzkarRepository(q)
	if u.catalog != nil {
		catalog = u.catalog(catalog)
	}
	return progress.Repos{
		Progress: NewProgressRepository(q),
		Daily:    NewDailyStatsRepository(q),
		Azkar:    catalog,
	}
}

var (
	_ progress.UnitOfWork      = (*UnitOfWork)(nil)
	_ progress.Repository      = (*ProgressRepository)(nil)
	_ progress.DailyRepository = (*DailyStatsRepository)(nil)
	_ azkar.Repository         = (*AzkarRepository)(nil)
	_ azkar.Writer             = (*AzkarRepository)(nil)
)
