package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/langchou/parkpass/internal/models"
)

// PostgresStore 基于 Postgres 的快照存储
// 快照作为 JSONB 整体存入 snapshots 表的单行
type PostgresStore struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgresStore 创建 Postgres 快照存储
func NewPostgresStore(ctx context.Context, databaseURL, key string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// 连接池配置
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// 测试连接
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{pool: pool, key: key}, nil
}

// Migrate 执行数据库迁移
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, migrationCreateSnapshots); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

// Load 加载快照
func (s *PostgresStore) Load(ctx context.Context) (*models.Snapshot, error) {
	var data []byte
	query := `SELECT data FROM snapshots WHERE key = $1`
	err := s.pool.QueryRow(ctx, query, s.key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	snapshot := &models.Snapshot{}
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, nil
}

// Save 全量覆盖保存快照
func (s *PostgresStore) Save(ctx context.Context, snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO snapshots (key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, s.key, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Close 关闭连接池
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// 数据库迁移 SQL
const migrationCreateSnapshots = `
CREATE TABLE IF NOT EXISTS snapshots (
    key VARCHAR(255) PRIMARY KEY,
    data JSONB NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`
