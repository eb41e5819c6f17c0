package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"fxvault.backend/internal/domain/entities"
	domainerrors "fxvault.backend/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type depositServiceStub struct {
	createFn  func(ctx context.Context, userID uuid.UUID, input *entities.CreateDepositInput) (*entities.Deposit, error)
	invoiceFn func(ctx context.Context, userID uuid.UUID, input *entities.CreateInvoiceInput) (*entities.InvoiceResponse, error)
	directFn  func(ctx context.Context, userID uuid.UUID, input *entities.DirectPaymentInput) (*entities.DirectPaymentResponse, error)
	listMine  func(ctx context.Context, userID uuid.UUID, status entities.DepositStatus, page, limit int) ([]*entities.Deposit, int64, error)
	listFn    func(ctx context.Context, filter entities.DepositFilter) ([]*entities.Deposit, int64, error)
	approveFn func(ctx context.Context, actorID, id uuid.UUID, note string) (*entities.Deposit, error)
	rejectFn  func(ctx context.Context, actorID, id uuid.UUID, note string) (*entities.Deposit, error)
}

func (s *depositServiceStub) CreateDeposit(ctx context.Context, userID uuid.UUID, input *entities.CreateDepositInput) (*entities.Deposit, error) {
	return s.createFn(ctx, userID, input)
}

func (s *depositServiceStub) CreateInvoice(ctx context.Context, userID uuid.UUID, input *entities.CreateInvoiceInput) (*entities.InvoiceResponse, error) {
	return s.invoiceFn(ctx, userID, input)
}

func (s *depositServiceStub) CreateDirectPayment(ctx context.Context, userID uuid.UUID, input *entities.DirectPaymentInput) (*entities.DirectPaymentResponse, error) {
	return s.directFn(ctx, userID, input)
}

func (s *depositServiceStub) ListByUser(ctx context.Context, userID uuid.UUID, status entities.DepositStatus, page, limit int) ([]*entities.Deposit, int64, error) {
	return s.listMine(ctx, userID, status, page, limit)
}

func (s *depositServiceStub) List(ctx context.Context, filter entities.DepositFilter) ([]*entities.Deposit, int64, error) {
	return s.listFn(ctx, filter)
}

func (s *depositServiceStub) Approve(ctx context.Context, actorID, id uuid.UUID, note string) (*entities.Deposit, error) {
	return s.approveFn(ctx, actorID, id, note)
}

func (s *depositServiceStub) Reject(ctx context.Context, actorID, id uuid.UUID, note string) (*entities.Deposit, error) {
	return s.rejectFn(ctx, actorID, id, note)
}

func TestDepositHandler_CreateDeposit(t *testing.T) {
	userID := uuid.New()
	walletID := uuid.New()
	stub := &depositServiceStub{
		createFn: func(_ context.Context, uid uuid.UUID, input *entities.CreateDepositInput) (*entities.Deposit, error) {
			require.Equal(t, userID, uid)
			require.Equal(t, walletID, input.WalletID)
			if input.Amount.LessThan(decimal.NewFromInt(10)) {
				return nil, fmt.Errorf("%w: minimum deposit is 10", domainerrors.ErrBelowMinimum)
			}
			return &entities.Deposit{ID: uuid.New(), UserID: uid, Amount: input.Amount, Status: entities.DepositStatusPending}, nil
		},
	}
	r := newTestRouter()
	r.POST("/deposits", asUser(userID, "user"), NewDepositHandler(stub).CreateDeposit)

	w := doRequest(r, http.MethodPost, "/deposits", fmt.Sprintf(`{"walletId":%q,"amount":"150.50"}`, walletID))
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, "pending", body["status"])
	require.Equal(t, "150.5", body["amount"])

	w = doRequest(r, http.MethodPost, "/deposits", fmt.Sprintf(`{"walletId":%q,"amount":5}`, walletID))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(r, http.MethodPost, "/deposits", `{"amount":50}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDepositHandler_InvoiceAndDirect(t *testing.T) {
	userID := uuid.New()
	stub := &depositServiceStub{
		invoiceFn: func(_ context.Context, _ uuid.UUID, input *entities.CreateInvoiceInput) (*entities.InvoiceResponse, error) {
			if input.PayCurrency == "fail" {
				return nil, fmt.Errorf("%w: provider returned 500", domainerrors.ErrProviderFailure)
			}
			return &entities.InvoiceResponse{InvoiceID: "55", InvoiceURL: "https://pay.example/55"}, nil
		},
		directFn: func(_ context.Context, _ uuid.UUID, input *entities.DirectPaymentInput) (*entities.DirectPaymentResponse, error) {
			return &entities.DirectPaymentResponse{PaymentID: "77", PayAddress: "bc1addr", PayCurrency: input.PayCurrency}, nil
		},
	}
	h := NewDepositHandler(stub)
	r := newTestRouter()
	r.Use(asUser(userID, "user"))
	r.POST("/deposits/invoice", h.CreateInvoice)
	r.POST("/payments/direct", h.CreateDirectPayment)

	w := doRequest(r, http.MethodPost, "/deposits/invoice", `{"amount":100}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "https://pay.example/55", decodeBody(t, w)["invoiceUrl"])

	w = doRequest(r, http.MethodPost, "/deposits/invoice", `{"amount":100,"payCurrency":"fail"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)

	w = doRequest(r, http.MethodPost, "/payments/direct", `{"amount":100,"payCurrency":"btc"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "bc1addr", decodeBody(t, w)["payAddress"])

	w = doRequest(r, http.MethodPost, "/payments/direct", `{"amount":100}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDepositHandler_Lists(t *testing.T) {
	userID := uuid.New()
	filterUser := uuid.New()
	stub := &depositServiceStub{
		listMine: func(_ context.Context, uid uuid.UUID, status entities.DepositStatus, page, limit int) ([]*entities.Deposit, int64, error) {
			require.Equal(t, userID, uid)
			require.Equal(t, entities.DepositStatusApproved, status)
			require.Equal(t, 2, page)
			require.Equal(t, 5, limit)
			return []*entities.Deposit{{ID: uuid.New()}}, 6, nil
		},
		listFn: func(_ context.Context, filter entities.DepositFilter) ([]*entities.Deposit, int64, error) {
			if filter.UserID == nil {
				return nil, 0, errors.New("boom")
			}
			require.Equal(t, filterUser, *filter.UserID)
			require.Equal(t, entities.DepositStatusPending, filter.Status)
			return []*entities.Deposit{}, 0, nil
		},
	}
	h := NewDepositHandler(stub)
	r := newTestRouter()
	r.GET("/deposits", asUser(userID, "user"), h.ListDeposits)
	r.GET("/admin/deposits", h.AdminListDeposits)

	w := doRequest(r, http.MethodGet, "/deposits?status=approved&page=2&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Len(t, body["items"], 1)
	require.EqualValues(t, 2, body["meta"].(map[string]interface{})["totalPages"])

	require.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/admin/deposits?status=pending&userId="+filterUser.String(), "").Code)
	require.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodGet, "/admin/deposits?userId=nope", "").Code)
	require.Equal(t, http.StatusInternalServerError, doRequest(r, http.MethodGet, "/admin/deposits", "").Code)
}

func TestDepositHandler_Review(t *testing.T) {
	adminID := uuid.New()
	depositID := uuid.New()
	var gotNote string
	stub := &depositServiceStub{
		approveFn: func(_ context.Context, actorID, id uuid.UUID, note string) (*entities.Deposit, error) {
			require.Equal(t, adminID, actorID)
			if id != depositID {
				return nil, domainerrors.ErrNotFound
			}
			return &entities.Deposit{ID: id, Status: entities.DepositStatusApproved}, nil
		},
		rejectFn: func(_ context.Context, _, id uuid.UUID, note string) (*entities.Deposit, error) {
			gotNote = note
			return nil, fmt.Errorf("%w: deposit is approved", domainerrors.ErrInvalidTransition)
		},
	}
	h := NewDepositHandler(stub)
	r := newTestRouter()
	r.Use(asUser(adminID, "admin"))
	r.POST("/admin/deposits/:id/approve", h.ApproveDeposit)
	r.POST("/admin/deposits/:id/reject", h.RejectDeposit)

	w := doRequest(r, http.MethodPost, "/admin/deposits/"+depositID.String()+"/approve", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "approved", decodeBody(t, w)["status"])

	require.Equal(t, http.StatusNotFound, doRequest(r, http.MethodPost, "/admin/deposits/"+uuid.NewString()+"/approve", "").Code)
	require.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPost, "/admin/deposits/x/approve", "").Code)

	w = doRequest(r, http.MethodPost, "/admin/deposits/"+depositID.String()+"/reject", `{"note":"blurry proof"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "blurry proof", gotNote)
}
