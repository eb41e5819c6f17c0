package usecases_test

import (
	"context"
	"encoding/json"
	"testing"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/usecases"
	"fxvault.backend/pkg/crypto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestCanonicalJSON_SortsKeysAndKeepsNumbers(t *testing.T) {
	out, err := usecases.CanonicalJSON([]byte(`{"b":1.50,"a":{"z":"<x>","c":2},"payment_id":5077125051}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"c":2,"z":"<x>"},"b":1.50,"payment_id":5077125051}`, string(out))

	_, err = usecases.CanonicalJSON([]byte(`{not json`))
	assert.Error(t, err)
}

func TestDepositUsecase_VerifyIPNSignature(t *testing.T) {
	f := newDepositFixture()
	body := []byte(`{"payment_status":"finished","order_id":"abc","payment_id":1}`)
	canonical, err := usecases.CanonicalJSON(body)
	require.NoError(t, err)
	sig := crypto.HMACSHA512Hex("ipn-secret", canonical)

	assert.True(t, f.uc.VerifyIPNSignature(body, sig))
	assert.True(t, f.uc.VerifyIPNSignature(body, "ipn-secret"))
	assert.False(t, f.uc.VerifyIPNSignature(body, "wrong"))
	assert.False(t, f.uc.VerifyIPNSignature(body, ""))
	assert.False(t, f.uc.VerifyIPNSignature([]byte(`{`), sig))
}

func finishedIPN(orderID string) *entities.IPNPayload {
	return &entities.IPNPayload{
		PaymentID:     json.Number("5077125051"),
		PaymentStatus: entities.IPNStatusFinished,
		OrderID:       orderID,
		PriceAmount:   json.Number("100"),
		PriceCurrency: "usd",
		PayinHash:     "0xhash",
	}
}

func TestDepositUsecase_HandleIPN_CreditsPendingInvoiceDeposit(t *testing.T) {
	f := newDepositFixture()
	user := &entities.User{ID: uuid.New()}
	deposit := &entities.Deposit{ID: uuid.New(), UserID: user.ID, Amount: decimal.NewFromInt(100), Method: entities.DepositMethodInvoice, Status: entities.DepositStatusPending}
	p := finishedIPN(deposit.ID.String())

	f.deposits.On("GetByProviderPaymentID", mock.Anything, "5077125051").Return(nil, domainerrors.ErrNotFound).Once()
	f.deposits.On("GetByID", mock.Anything, deposit.ID).Return(deposit, nil).Once()
	f.deposits.On("AttachProviderPayment", mock.Anything, deposit.ID, "5077125051", "0xhash").Return(nil).Once()
	f.deposits.On("Transition", mock.Anything, deposit.ID, []entities.DepositStatus{entities.DepositStatusPending}, entities.DepositStatusApproved, mock.Anything).Return(nil).Once()
	f.users.On("Credit", mock.Anything, user.ID, deposit.Amount).Return(nil).Once()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

	outcome, err := f.uc.HandleIPN(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, entities.IPNOutcomeCredited, outcome)
	assert.Equal(t, []string{entities.EventDepositApproved}, f.publisher.types())
	f.deposits.AssertExpectations(t)
	f.users.AssertExpectations(t)
}

func TestDepositUsecase_HandleIPN_RedeliveryIsDuplicate(t *testing.T) {
	f := newDepositFixture()
	approved := &entities.Deposit{ID: uuid.New(), Status: entities.DepositStatusApproved, ProviderPaymentID: null.StringFrom("5077125051")}
	f.deposits.On("GetByProviderPaymentID", mock.Anything, "5077125051").Return(approved, nil).Twice()

	for i := 0; i < 2; i++ {
		outcome, err := f.uc.HandleIPN(context.Background(), finishedIPN(approved.ID.String()))
		require.NoError(t, err)
		assert.Equal(t, entities.IPNOutcomeDuplicate, outcome)
	}
	f.users.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	f.deposits.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.events)
}

func TestDepositUsecase_HandleIPN_InsertsDepositForUserOrder(t *testing.T) {
	f := newDepositFixture()
	user := &entities.User{ID: uuid.New()}
	p := finishedIPN(user.ID.String())

	f.deposits.On("GetByProviderPaymentID", mock.Anything, "5077125051").Return(nil, domainerrors.ErrNotFound).Once()
	f.deposits.On("GetByID", mock.Anything, user.ID).Return(nil, domainerrors.ErrNotFound).Once()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Twice()
	f.deposits.On("Create", mock.Anything, mock.MatchedBy(func(d *entities.Deposit) bool {
		return d.Method == entities.DepositMethodIPN &&
			d.Status == entities.DepositStatusApproved &&
			d.ProviderPaymentID.String == "5077125051" &&
			d.Amount.Equal(decimal.NewFromInt(100)) &&
			d.Currency == "USD"
	})).Return(nil).Once()
	f.users.On("Credit", mock.Anything, user.ID, mock.MatchedBy(func(a decimal.Decimal) bool { return a.Equal(decimal.NewFromInt(100)) })).Return(nil).Once()

	outcome, err := f.uc.HandleIPN(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, entities.IPNOutcomeCredited, outcome)
	f.deposits.AssertExpectations(t)
}

func TestDepositUsecase_HandleIPN_ConcurrentInsertIsDuplicate(t *testing.T) {
	f := newDepositFixture()
	user := &entities.User{ID: uuid.New()}

	f.deposits.On("GetByProviderPaymentID", mock.Anything, "5077125051").Return(nil, domainerrors.ErrNotFound).Once()
	f.deposits.On("GetByID", mock.Anything, user.ID).Return(nil, domainerrors.ErrNotFound).Once()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	f.deposits.On("Create", mock.Anything, mock.Anything).Return(domainerrors.ErrAlreadyExists).Once()

	outcome, err := f.uc.HandleIPN(context.Background(), finishedIPN(user.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, entities.IPNOutcomeDuplicate, outcome)
	f.users.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
}

func TestDepositUsecase_HandleIPN_UnknownOrderIgnored(t *testing.T) {
	f := newDepositFixture()
	orderID := uuid.New()
	f.deposits.On("GetByProviderPaymentID", mock.Anything, "5077125051").Return(nil, domainerrors.ErrNotFound).Once()
	f.deposits.On("GetByID", mock.Anything, orderID).Return(nil, domainerrors.ErrNotFound).Once()
	f.users.On("GetByID", mock.Anything, orderID).Return(nil, domainerrors.ErrNotFound).Once()

	outcome, err := f.uc.HandleIPN(context.Background(), finishedIPN(orderID.String()))
	require.NoError(t, err)
	assert.Equal(t, entities.IPNOutcomeIgnored, outcome)

	f2 := newDepositFixture()
	f2.deposits.On("GetByProviderPaymentID", mock.Anything, "5077125051").Return(nil, domainerrors.ErrNotFound).Once()
	outcome, err = f2.uc.HandleIPN(context.Background(), finishedIPN("not-a-uuid"))
	require.NoError(t, err)
	assert.Equal(t, entities.IPNOutcomeIgnored, outcome)
}

func TestDepositUsecase_HandleIPN_FailedRejectsPending(t *testing.T) {
	f := newDepositFixture()
	deposit := &entities.Deposit{ID: uuid.New(), Status: entities.DepositStatusPending}
	p := finishedIPN(deposit.ID.String())
	p.PaymentStatus = entities.IPNStatusExpired

	f.deposits.On("GetByProviderPaymentID", mock.Anything, "5077125051").Return(nil, domainerrors.ErrNotFound).Once()
	f.deposits.On("GetByID", mock.Anything, deposit.ID).Return(deposit, nil).Once()
	f.deposits.On("AttachProviderPayment", mock.Anything, deposit.ID, "5077125051", "0xhash").Return(nil).Once()
	f.deposits.On("Transition", mock.Anything, deposit.ID, []entities.DepositStatus{entities.DepositStatusPending}, entities.DepositStatusRejected, "payment expired").Return(nil).Once()

	outcome, err := f.uc.HandleIPN(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, entities.IPNOutcomeRejected, outcome)
	f.users.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	f.deposits.AssertExpectations(t)
}

func TestDepositUsecase_HandleIPN_FailureOfOtherPaymentLeavesDeposit(t *testing.T) {
	f := newDepositFixture()
	deposit := &entities.Deposit{ID: uuid.New(), Status: entities.DepositStatusPending, ProviderPaymentID: null.StringFrom("111")}
	p := finishedIPN(deposit.ID.String())
	p.PaymentStatus = entities.IPNStatusFailed

	f.deposits.On("GetByProviderPaymentID", mock.Anything, "5077125051").Return(nil, domainerrors.ErrNotFound).Once()
	f.deposits.On("GetByID", mock.Anything, deposit.ID).Return(deposit, nil).Once()

	outcome, err := f.uc.HandleIPN(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, entities.IPNOutcomeIgnored, outcome)
	f.deposits.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.deposits.AssertNotCalled(t, "AttachProviderPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDepositUsecase_HandleIPN_SecondPaymentOnRejectedInvoiceCredits(t *testing.T) {
	f := newDepositFixture()
	user := &entities.User{ID: uuid.New()}
	rejected := &entities.Deposit{
		ID:                uuid.New(),
		UserID:            user.ID,
		Amount:            decimal.NewFromInt(100),
		Method:            entities.DepositMethodInvoice,
		Status:            entities.DepositStatusRejected,
		ProviderPaymentID: null.StringFrom("111"),
	}

	f.deposits.On("GetByProviderPaymentID", mock.Anything, "5077125051").Return(nil, domainerrors.ErrNotFound).Once()
	f.deposits.On("GetByID", mock.Anything, rejected.ID).Return(rejected, nil).Once()
	f.deposits.On("Create", mock.Anything, mock.MatchedBy(func(d *entities.Deposit) bool {
		return d.ID != rejected.ID &&
			d.UserID == user.ID &&
			d.Method == entities.DepositMethodIPN &&
			d.Status == entities.DepositStatusApproved &&
			d.ProviderPaymentID.String == "5077125051"
	})).Return(nil).Once()
	f.users.On("Credit", mock.Anything, user.ID, decimalEq(100)).Return(nil).Once()
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

	outcome, err := f.uc.HandleIPN(context.Background(), finishedIPN(rejected.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, entities.IPNOutcomeCredited, outcome)
	assert.Equal(t, []string{entities.EventDepositApproved}, f.publisher.types())
	f.deposits.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.deposits.AssertExpectations(t)
	f.users.AssertExpectations(t)
}

func TestDepositUsecase_HandleIPN_WaitingIgnored(t *testing.T) {
	f := newDepositFixture()
	p := finishedIPN(uuid.NewString())
	p.PaymentStatus = entities.IPNStatusWaiting

	outcome, err := f.uc.HandleIPN(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, entities.IPNOutcomeIgnored, outcome)
	f.deposits.AssertNotCalled(t, "GetByProviderPaymentID", mock.Anything, mock.Anything)
}
