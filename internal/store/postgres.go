// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scrapediff/scrapediff/internal/snapshot"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS listing_snapshots (
	entity_id   TEXT NOT NULL,
	source_file TEXT NOT NULL,
	captured_at TIMESTAMP NULL,
	blocked     BOOLEAN NOT NULL DEFAULT FALSE,
	record      JSONB NOT NULL,
	stored_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (entity_id, source_file)
)`

const upsertSQL = `INSERT INTO listing_snapshots (entity_id, source_file, captured_at, blocked, record)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (entity_id, source_file)
	DO UPDATE SET captured_at = EXCLUDED.captured_at, blocked = EXCLUDED.blocked,
		record = EXCLUDED.record, stored_at = now()`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres upserts records into listing_snapshots.
type Postgres struct {
	db    execer
	close func()
}

// NewPostgres connects to dsn and makes sure the table exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres store needs a dsn")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	cfg.MaxConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{db: pool, close: pool.Close}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create listing_snapshots: %w", err)
	}
	return nil
}

func (p *Postgres) Put(ctx context.Context, rec snapshot.Record) error {
	source, err := baseName(rec)
	if err != nil {
		return err
	}
	entity := rec.Metadata.EntityID
	if entity == "" {
		n, ok := snapshot.ParseName(rec.Metadata.SourceFile)
		if !ok {
			return fmt.Errorf("no entity id for %s", rec.Metadata.SourceFile)
		}
		entity = n.EntityID
	}

	doc, err := rec.Encode()
	if err != nil {
		return err
	}

	var captured any
	if t, err := time.Parse(snapshot.RecordLayout, rec.Metadata.Timestamp); err == nil {
		captured = t
	}

	tag, err := p.db.Exec(ctx, upsertSQL, entity, source, captured, rec.Metadata.Blocked, string(doc))
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", source, err)
	}
	log.Debugf("postgres upsert %s/%s: %s", entity, source, tag)
	return nil
}

func (p *Postgres) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
