package catalog

import (
	"context"
	"fmt"

	"github.com/etnz/importer"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres reads the catalog from the portfolio service database.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database at 'dsn'.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the catalog database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot reach the catalog database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

const activeAssets = `
	SELECT id, symbol, name, COALESCE(currency, ''), COALESCE(exchange, ''), COALESCE(isin, ''), COALESCE(asset_type::text, '')
	FROM assets
	WHERE is_active
	ORDER BY id`

// Assets returns the active assets.
func (p *Postgres) Assets(ctx context.Context) ([]importer.Asset, error) {
	rows, err := p.pool.Query(ctx, activeAssets)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	var assets []importer.Asset
	for rows.Next() {
		var a importer.Asset
		var id int64
		if err := rows.Scan(&id, &a.Symbol, &a.Name, &a.Currency, &a.Exchange, &a.ISIN, &a.Type); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.ID = importer.AssetID(id)
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// Close releases the connections.
func (p *Postgres) Close() { p.pool.Close() }
