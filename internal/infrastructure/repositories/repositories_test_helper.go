package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createLedgerTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE fund_ledger_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		cause_id TEXT,
		delivery_id TEXT,
		source_type TEXT NOT NULL,
		source_ref TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL,
		previous_status TEXT,
		held_reason TEXT,
		blocked_reason TEXT,
		request_notes TEXT,
		approved_by TEXT,
		approved_at DATETIME,
		release_target TEXT,
		released_at DATETIME,
		transfer_ref TEXT UNIQUE,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createDeliveryTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE prize_deliveries (
		id TEXT PRIMARY KEY,
		raffle_id TEXT NOT NULL,
		prize_id TEXT NOT NULL,
		winner_id TEXT NOT NULL,
		prize_owner_id TEXT NOT NULL,
		status TEXT NOT NULL,
		evidence_images TEXT DEFAULT '[]',
		winner_phone TEXT,
		winner_email TEXT,
		delivered_at DATETIME,
		is_donated BOOLEAN NOT NULL DEFAULT 0,
		cash_value TEXT,
		notes TEXT,
		verified_by TEXT,
		verified_at DATETIME,
		money_released BOOLEAN NOT NULL DEFAULT 0,
		released_amount TEXT,
		released_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createAuditTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE audit_entries (
		id TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		from_status TEXT NOT NULL,
		to_status TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		actor_type TEXT NOT NULL,
		reason TEXT,
		created_at DATETIME
	);`)
}

func createVerificationTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE verification_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		level TEXT NOT NULL,
		status TEXT NOT NULL,
		document_ref TEXT,
		selfie_ref TEXT,
		reviewed_by TEXT,
		reviewed_at DATETIME,
		expires_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createCauseTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE causes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 0,
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE,
		name TEXT,
		role TEXT,
		password_hash TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}
