package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contestScope/internal/model"
	"contestScope/internal/storage"
)

// Store provides Postgres persistence for component registrations.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutComponent inserts or updates a component registration.
func (s *Store) PutComponent(ctx context.Context, record model.ComponentRecord) (model.ComponentRecord, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO components (
			organizer, wallet, chain_id, kind, label, address, config_hash,
			tx_hash, deployed_at_block, deployed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		ON CONFLICT (chain_id, address)
		DO UPDATE SET
			organizer = EXCLUDED.organizer,
			wallet = EXCLUDED.wallet,
			kind = EXCLUDED.kind,
			label = EXCLUDED.label,
			config_hash = EXCLUDED.config_hash,
			tx_hash = EXCLUDED.tx_hash,
			deployed_at_block = EXCLUDED.deployed_at_block,
			deployed_at = EXCLUDED.deployed_at,
			updated_at = now()
		RETURNING id
	`,
		model.NormalizeAddress(record.Organizer),
		model.NormalizeAddress(record.Wallet),
		int64(record.ChainID),
		string(record.Kind),
		record.Label,
		model.NormalizeAddress(record.Address),
		record.ConfigHash,
		record.TxHash,
		int64(record.DeployedAtBlock),
		record.DeployedAt,
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return model.ComponentRecord{}, fmt.Errorf("upsert component: %w", err)
	}
	record.ID = uint64(id)
	record.Organizer = model.NormalizeAddress(record.Organizer)
	record.Address = model.NormalizeAddress(record.Address)
	return record, nil
}

// GetComponent looks a registration up by chain and address.
func (s *Store) GetComponent(ctx context.Context, chainID uint64, address string) (model.ComponentRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, organizer, wallet, chain_id, kind, label, address,
		       config_hash, tx_hash, deployed_at_block, deployed_at
		FROM components
		WHERE chain_id = $1 AND address = $2
	`, int64(chainID), model.NormalizeAddress(address))

	record, err := scanComponent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ComponentRecord{}, storage.ErrComponentNotFound
		}
		return model.ComponentRecord{}, fmt.Errorf("get component: %w", err)
	}
	return record, nil
}

// ListComponents returns every registration owned by an organizer.
func (s *Store) ListComponents(ctx context.Context, organizer string) ([]model.ComponentRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, organizer, wallet, chain_id, kind, label, address,
		       config_hash, tx_hash, deployed_at_block, deployed_at
		FROM components
		WHERE organizer = $1
		ORDER BY id
	`, model.NormalizeAddress(organizer))
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	out := make([]model.ComponentRecord, 0)
	for rows.Next() {
		record, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	return out, nil
}

func scanComponent(row pgx.Row) (model.ComponentRecord, error) {
	var (
		record          model.ComponentRecord
		id              int64
		chainID         int64
		kind            string
		deployedAtBlock int64
	)
	err := row.Scan(&id, &record.Organizer, &record.Wallet, &chainID, &kind,
		&record.Label, &record.Address, &record.ConfigHash, &record.TxHash,
		&deployedAtBlock, &record.DeployedAt)
	if err != nil {
		return model.ComponentRecord{}, err
	}
	record.ID = uint64(id)
	record.ChainID = uint64(chainID)
	record.Kind = model.ComponentKind(kind)
	record.DeployedAtBlock = uint64(deployedAtBlock)
	return record, nil
}
