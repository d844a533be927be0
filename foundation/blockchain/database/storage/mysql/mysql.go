// Package mysql implements the ability to read and write the ledger state
// to a MySQL database.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("ledger state not found")

// schema holds the statements to create the tables used by the storage.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS blocks (
		block_index BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		hash        CHAR(64)        NOT NULL,
		data        LONGTEXT        NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS open_transactions (
		position INT UNSIGNED NOT NULL PRIMARY KEY,
		data     TEXT         NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS peer_nodes (
		host VARCHAR(255) NOT NULL PRIMARY KEY
	)`,
}

// Config is the required properties to use the database.
type Config struct {
	User         string
	Password     string
	Host         string
	Name         string
	Timeout      time.Duration
	MaxIdleConns int
	MaxOpenConns int
}

// MySQL represents the storage implementation for reading and storing the
// ledger state in MySQL. This implements the database.Storage interface.
type MySQL struct {
	db      *sql.DB
	timeout time.Duration
}

// Open knows how to open a database connection based on the configuration
// and makes sure the tables exist.
func Open(cfg Config) (*MySQL, error) {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Host
	mc.DBName = cfg.Name
	mc.ParseTime = true

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	m := MySQL{
		db:      db,
		timeout: timeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &m, nil
}

// Close closes the database connection pool.
func (m *MySQL) Close() error {
	return m.db.Close()
}

// Save replaces the stored ledger state inside a single transaction.
func (m *MySQL) Save(state database.LedgerState) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"blocks", "open_transactions", "peer_nodes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, block := range state.Chain {
		data, err := json.Marshal(block)
		if err != nil {
			return err
		}

		const q = `INSERT INTO blocks (block_index, hash, data) VALUES (?, ?, ?)`
		if _, err := tx.ExecContext(ctx, q, block.Index, block.Hash(), string(data)); err != nil {
			return fmt.Errorf("insert block %d: %w", block.Index, err)
		}
	}

	for i, trn := range state.Mempool {
		data, err := json.Marshal(trn)
		if err != nil {
			return err
		}

		const q = `INSERT INTO open_transactions (position, data) VALUES (?, ?)`
		if _, err := tx.ExecContext(ctx, q, i, string(data)); err != nil {
			return fmt.Errorf("insert open transaction %d: %w", i, err)
		}
	}

	for _, host := range state.Peers {
		const q = `INSERT INTO peer_nodes (host) VALUES (?)`
		if _, err := tx.ExecContext(ctx, q, host); err != nil {
			return fmt.Errorf("insert peer %s: %w", host, err)
		}
	}

	return tx.Commit()
}

// Load reads the ledger state back from the database.
func (m *MySQL) Load() (database.LedgerState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	var state database.LedgerState

	err := m.query(ctx, `SELECT data FROM blocks ORDER BY block_index`, func(rows *sql.Rows) error {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}

		var block database.Block
		if err := json.Unmarshal([]byte(data), &block); err != nil {
			return err
		}
		state.Chain = append(state.Chain, block)

		return nil
	})
	if err != nil {
		return database.LedgerState{}, fmt.Errorf("load blocks: %w", err)
	}

	if len(state.Chain) == 0 {
		return database.LedgerState{}, ErrNotFound
	}

	err = m.query(ctx, `SELECT data FROM open_transactions ORDER BY position`, func(rows *sql.Rows) error {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}

		var trn database.Tx
		if err := json.Unmarshal([]byte(data), &trn); err != nil {
			return err
		}
		state.Mempool = append(state.Mempool, trn)

		return nil
	})
	if err != nil {
		return database.LedgerState{}, fmt.Errorf("load open transactions: %w", err)
	}

	err = m.query(ctx, `SELECT host FROM peer_nodes ORDER BY host`, func(rows *sql.Rows) error {
		var host string
		if err := rows.Scan(&host); err != nil {
			return err
		}
		state.Peers = append(state.Peers, host)

		return nil
	})
	if err != nil {
		return database.LedgerState{}, fmt.Errorf("load peers: %w", err)
	}

	return state, nil
}

// query executes the query and calls the function for every row.
func (m *MySQL) query(ctx context.Context, q string, fn func(rows *sql.Rows) error) error {
	rows, err := m.db.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}
