package usecases_test

import (
	"context"
	"time"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/infrastructure/payment"
	"fxvault.backend/pkg/redis"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/volatiletech/null/v8"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	m.Called(ctx)
	return ctx
}

type uowMark int

const (
	inTx uowMark = iota
	withLock
)

// markingUoW tags the contexts it hands out so tests can tell which reads ran
// inside the transaction and under a row lock.
type markingUoW struct{}

func (markingUoW) Do(ctx context.Context, f func(context.Context) error) error {
	return f(context.WithValue(ctx, inTx, true))
}

func (markingUoW) WithLock(ctx context.Context) context.Context {
	return context.WithValue(ctx, withLock, true)
}

// lockedTxCtx matches a context that is inside the transaction and locked.
func lockedTxCtx() interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool {
		tx, _ := ctx.Value(inTx).(bool)
		locked, _ := ctx.Value(withLock).(bool)
		return tx && locked
	})
}

// newUoW returns a unit of work that runs fn inline and accepts any number of calls.
func newUoW() *MockUnitOfWork {
	uow := new(MockUnitOfWork)
	uow.On("Do", mock.Anything, mock.Anything).Maybe()
	uow.On("WithLock", mock.Anything).Maybe()
	return uow
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByReferralCode(ctx context.Context, code string) (*entities.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	return m.Called(ctx, id, banned).Error(0)
}

func (m *MockUserRepository) SetRole(ctx context.Context, id uuid.UUID, role entities.UserRole) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *MockUserRepository) SetKYCStatus(ctx context.Context, id uuid.UUID, status entities.KYCStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockUserRepository) Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return m.Called(ctx, id, amount).Error(0)
}

func (m *MockUserRepository) Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return m.Called(ctx, id, amount).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ListReferrals(ctx context.Context, referrerID uuid.UUID) ([]*entities.User, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) CountReferrals(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, referrerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SumBalances(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// Mock DepositRepository
type MockDepositRepository struct {
	mock.Mock
}

func (m *MockDepositRepository) Create(ctx context.Context, deposit *entities.Deposit) error {
	return m.Called(ctx, deposit).Error(0)
}

func (m *MockDepositRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Deposit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Deposit), args.Error(1)
}

func (m *MockDepositRepository) GetByProviderPaymentID(ctx context.Context, paymentID string) (*entities.Deposit, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Deposit), args.Error(1)
}

func (m *MockDepositRepository) Transition(ctx context.Context, id uuid.UUID, from []entities.DepositStatus, to entities.DepositStatus, note string) error {
	return m.Called(ctx, id, from, to, note).Error(0)
}

func (m *MockDepositRepository) AttachProviderPayment(ctx context.Context, id uuid.UUID, paymentID, txHash string) error {
	return m.Called(ctx, id, paymentID, txHash).Error(0)
}

func (m *MockDepositRepository) List(ctx context.Context, filter entities.DepositFilter) ([]*entities.Deposit, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Deposit), args.Get(1).(int64), args.Error(2)
}

func (m *MockDepositRepository) SumByUser(ctx context.Context, userID uuid.UUID, status entities.DepositStatus) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDepositRepository) CountAndSum(ctx context.Context, status entities.DepositStatus) (int64, decimal.Decimal, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Get(1).(decimal.Decimal), args.Error(2)
}

// Mock WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, withdrawal *entities.Withdrawal) error {
	return m.Called(ctx, withdrawal).Error(0)
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalRepository) Transition(ctx context.Context, id uuid.UUID, from []entities.WithdrawalStatus, to entities.WithdrawalStatus, txHash, note string) error {
	return m.Called(ctx, id, from, to, txHash, note).Error(0)
}

func (m *MockWithdrawalRepository) List(ctx context.Context, filter entities.WithdrawalFilter) ([]*entities.Withdrawal, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Withdrawal), args.Get(1).(int64), args.Error(2)
}

func (m *MockWithdrawalRepository) SumByUser(ctx context.Context, userID uuid.UUID, status entities.WithdrawalStatus) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockWithdrawalRepository) CountAndSum(ctx context.Context, status entities.WithdrawalStatus) (int64, decimal.Decimal, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Get(1).(decimal.Decimal), args.Error(2)
}

// Mock WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	return m.Called(ctx, wallet).Error(0)
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Update(ctx context.Context, wallet *entities.Wallet) error {
	return m.Called(ctx, wallet).Error(0)
}

func (m *MockWalletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWalletRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockWalletRepository) List(ctx context.Context, kind entities.WalletKind, activeOnly bool) ([]*entities.Wallet, error) {
	args := m.Called(ctx, kind, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wallet), args.Error(1)
}

// Mock PackageRepository
type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *entities.Package) error {
	return m.Called(ctx, pkg).Error(0)
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Package), args.Error(1)
}

func (m *MockPackageRepository) Update(ctx context.Context, pkg *entities.Package) error {
	return m.Called(ctx, pkg).Error(0)
}

func (m *MockPackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPackageRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockPackageRepository) List(ctx context.Context, activeOnly bool) ([]*entities.Package, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Package), args.Error(1)
}

// Mock InvestmentRepository
type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) Create(ctx context.Context, investment *entities.Investment) error {
	return m.Called(ctx, investment).Error(0)
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Investment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) ListByUser(ctx context.Context, userID uuid.UUID, status entities.InvestmentStatus) ([]*entities.Investment, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) ListMatured(ctx context.Context, now time.Time, limit int) ([]*entities.Investment, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) Complete(ctx context.Context, id uuid.UUID, profit decimal.Decimal, completedAt time.Time) error {
	return m.Called(ctx, id, profit, completedAt).Error(0)
}

func (m *MockInvestmentRepository) SumByUser(ctx context.Context, userID uuid.UUID, status entities.InvestmentStatus) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInvestmentRepository) SumProfitByUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInvestmentRepository) CountByStatus(ctx context.Context, status entities.InvestmentStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// Mock TradeRoundRepository
type MockTradeRoundRepository struct {
	mock.Mock
}

func (m *MockTradeRoundRepository) Create(ctx context.Context, round *entities.TradeRound) error {
	return m.Called(ctx, round).Error(0)
}

func (m *MockTradeRoundRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.TradeRound, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TradeRound), args.Error(1)
}

func (m *MockTradeRoundRepository) UpdateScheduled(ctx context.Context, round *entities.TradeRound) error {
	return m.Called(ctx, round).Error(0)
}

func (m *MockTradeRoundRepository) DeleteScheduled(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTradeRoundRepository) Activate(ctx context.Context, id uuid.UUID, startsAt, endsAt time.Time) error {
	return m.Called(ctx, id, startsAt, endsAt).Error(0)
}

func (m *MockTradeRoundRepository) Cancel(ctx context.Context, id uuid.UUID, from []entities.RoundStatus) error {
	return m.Called(ctx, id, from).Error(0)
}

func (m *MockTradeRoundRepository) Complete(ctx context.Context, id uuid.UUID, outcome, direction null.String) error {
	return m.Called(ctx, id, outcome, direction).Error(0)
}

func (m *MockTradeRoundRepository) List(ctx context.Context, statuses ...entities.RoundStatus) ([]*entities.TradeRound, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TradeRound), args.Error(1)
}

func (m *MockTradeRoundRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*entities.TradeRound, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TradeRound), args.Error(1)
}

func (m *MockTradeRoundRepository) CountByStatus(ctx context.Context, status entities.RoundStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// Mock TradeRepository
type MockTradeRepository struct {
	mock.Mock
}

func (m *MockTradeRepository) Create(ctx context.Context, trade *entities.Trade) error {
	return m.Called(ctx, trade).Error(0)
}

func (m *MockTradeRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Trade, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Trade), args.Error(1)
}

func (m *MockTradeRepository) ListPendingByRound(ctx context.Context, roundID uuid.UUID) ([]*entities.Trade, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Trade), args.Error(1)
}

func (m *MockTradeRepository) Settle(ctx context.Context, id uuid.UUID, status entities.TradeStatus, payout decimal.Decimal, settledAt time.Time) error {
	return m.Called(ctx, id, status, payout, settledAt).Error(0)
}

func (m *MockTradeRepository) SumProfitLossByUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// Mock KYCRepository
type MockKYCRepository struct {
	mock.Mock
}

func (m *MockKYCRepository) Create(ctx context.Context, record *entities.KYCRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockKYCRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.KYCRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.KYCRecord), args.Error(1)
}

func (m *MockKYCRepository) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*entities.KYCRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.KYCRecord), args.Error(1)
}

func (m *MockKYCRepository) List(ctx context.Context, status entities.KYCStatus, page, limit int) ([]*entities.KYCRecord, int64, error) {
	args := m.Called(ctx, status, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.KYCRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockKYCRepository) Review(ctx context.Context, id uuid.UUID, status entities.KYCStatus, note string) error {
	return m.Called(ctx, id, status, note).Error(0)
}

func (m *MockKYCRepository) CountByStatus(ctx context.Context, status entities.KYCStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// Mock CommissionRepository
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) Create(ctx context.Context, commission *entities.Commission) error {
	return m.Called(ctx, commission).Error(0)
}

func (m *MockCommissionRepository) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*entities.Commission, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Commission), args.Error(1)
}

func (m *MockCommissionRepository) SumByReferrer(ctx context.Context, referrerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, referrerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// Mock SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*entities.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *entities.Settings) error {
	return m.Called(ctx, settings).Error(0)
}

// Mock AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log *entities.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockAuditLogRepository) List(ctx context.Context, page, limit int) ([]*entities.AuditLog, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.AuditLog), args.Get(1).(int64), args.Error(2)
}

// newAuditRepo accepts every audit write.
func newAuditRepo() *MockAuditLogRepository {
	repo := new(MockAuditLogRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	return repo
}

// Mock ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, msg *entities.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockContactRepository) List(ctx context.Context, page, limit int) ([]*entities.ContactMessage, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.ContactMessage), args.Get(1).(int64), args.Error(2)
}

// staticSettings always returns the same settings
type staticSettings struct {
	settings *entities.Settings
	err      error
}

func (s *staticSettings) Get(context.Context) (*entities.Settings, error) {
	if s.err != nil {
		return nil, s.err
	}
	copied := *s.settings
	return &copied, nil
}

func defaultSettings() *staticSettings {
	return &staticSettings{settings: entities.DefaultSettings()}
}

// Mock PaymentProvider
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateInvoice(ctx context.Context, req *payment.InvoiceRequest) (*payment.Invoice, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Invoice), args.Error(1)
}

func (m *MockPaymentProvider) CreatePayment(ctx context.Context, req *payment.PaymentRequest) (*payment.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

// recordingPublisher keeps published events in memory
type recordingPublisher struct {
	events []*entities.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event *entities.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// Mock SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error {
	return m.Called(ctx, sessionID, data, expiration).Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redis.SessionData), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}
