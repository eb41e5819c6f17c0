package repositories

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fxvault.backend/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

// newSchemaDB opens a fresh database with every table the repositories touch.
// Money columns are NUMERIC so sqlite applies numeric affinity to bound decimals.
func newSchemaDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	createSchema(t, db)
	return db
}

// newLockingSchemaDB opens a file database whose transactions take the write lock on
// BEGIN, so two transactions touching the same rows run one after the other.
func newLockingSchemaDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "fxvault.db") + "?_txlock=immediate&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	createSchema(t, db)
	return db
}

func createSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	createUserTable(t, db)
	createMoneyTables(t, db)
	createInvestmentTables(t, db)
	createTradeTables(t, db)
	createPlatformTables(t, db)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		phone TEXT,
		country TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		balance NUMERIC NOT NULL DEFAULT 0,
		kyc_status TEXT NOT NULL DEFAULT 'none',
		is_banned BOOLEAN NOT NULL DEFAULT 0,
		referral_code TEXT NOT NULL UNIQUE,
		referred_by TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createMoneyTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		currency TEXT NOT NULL,
		network TEXT,
		address TEXT,
		min_amount NUMERIC NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE deposits (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		wallet_id TEXT,
		amount NUMERIC NOT NULL,
		currency TEXT NOT NULL,
		method TEXT NOT NULL,
		status TEXT NOT NULL,
		proof_url TEXT,
		provider_invoice_id TEXT,
		provider_payment_id TEXT UNIQUE,
		tx_hash TEXT,
		admin_note TEXT,
		reviewed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE withdrawals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		wallet_id TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		fee NUMERIC NOT NULL DEFAULT 0,
		net_amount NUMERIC NOT NULL,
		destination TEXT NOT NULL,
		status TEXT NOT NULL,
		tx_hash TEXT,
		admin_note TEXT,
		processed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createInvestmentTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE packages (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		daily_roi NUMERIC NOT NULL,
		duration_days INTEGER NOT NULL,
		min_amount NUMERIC NOT NULL,
		max_amount NUMERIC NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE investments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		package_id TEXT NOT NULL,
		package_name TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		daily_roi NUMERIC NOT NULL,
		duration_days INTEGER NOT NULL,
		profit NUMERIC NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		matures_at DATETIME NOT NULL,
		completed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createTradeTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE trade_rounds (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		payout_percent NUMERIC NOT NULL,
		outcome TEXT,
		admin_direction TEXT,
		status TEXT NOT NULL,
		starts_at DATETIME,
		ends_at DATETIME,
		created_by TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE trades (
		id TEXT PRIMARY KEY,
		round_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		direction TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		payout NUMERIC NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		settled_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPlatformTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE kyc_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		document_type TEXT NOT NULL,
		document_number TEXT NOT NULL,
		front_url TEXT NOT NULL,
		back_url TEXT,
		selfie_url TEXT,
		status TEXT NOT NULL,
		admin_note TEXT,
		reviewed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE commissions (
		id TEXT PRIMARY KEY,
		referrer_id TEXT NOT NULL,
		referred_user_id TEXT NOT NULL,
		deposit_id TEXT NOT NULL UNIQUE,
		amount NUMERIC NOT NULL,
		percent NUMERIC NOT NULL,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE platform_settings (
		id INTEGER PRIMARY KEY,
		site_name TEXT NOT NULL,
		support_email TEXT NOT NULL,
		min_deposit NUMERIC NOT NULL,
		min_withdrawal NUMERIC NOT NULL,
		withdrawal_fee_percent NUMERIC NOT NULL,
		min_trade NUMERIC NOT NULL,
		max_trade NUMERIC NOT NULL,
		referral_commission_percent NUMERIC NOT NULL,
		kyc_required_for_withdrawal BOOLEAN NOT NULL,
		maintenance_mode BOOLEAN NOT NULL,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE audit_logs (
		id TEXT PRIMARY KEY,
		actor_id TEXT NOT NULL,
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		details TEXT,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE contact_messages (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL,
		message TEXT NOT NULL,
		ip_address TEXT,
		created_at DATETIME
	);`)
}

func seedUser(t *testing.T, db *gorm.DB, email string, balance decimal.Decimal) *entities.User {
	t.Helper()
	u := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "hash",
		Role:         entities.UserRoleUser,
		Balance:      balance,
		KYCStatus:    entities.KYCNone,
		ReferralCode: strings.ToUpper(uuid.NewString()[:8]),
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func balanceOf(t *testing.T, db *gorm.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()
	u, err := NewUserRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return u.Balance
}
