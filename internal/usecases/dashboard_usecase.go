package usecases

import (
	"context"

	"fxvault.backend/internal/domain/entities"
	"fxvault.backend/internal/domain/repositories"
	"fxvault.backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const dashboardRecentLimit = 5

// DashboardUsecase assembles the user dashboard and the admin overview
type DashboardUsecase struct {
	userRepo       repositories.UserRepository
	depositRepo    repositories.DepositRepository
	withdrawalRepo repositories.WithdrawalRepository
	investmentRepo repositories.InvestmentRepository
	roundRepo      repositories.TradeRoundRepository
	tradeRepo      repositories.TradeRepository
	kycRepo        repositories.KYCRepository
}

// NewDashboardUsecase creates a new dashboard usecase
func NewDashboardUsecase(
	userRepo repositories.UserRepository,
	depositRepo repositories.DepositRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	investmentRepo repositories.InvestmentRepository,
	roundRepo repositories.TradeRoundRepository,
	tradeRepo repositories.TradeRepository,
	kycRepo repositories.KYCRepository,
) *DashboardUsecase {
	return &DashboardUsecase{
		userRepo:       userRepo,
		depositRepo:    depositRepo,
		withdrawalRepo: withdrawalRepo,
		investmentRepo: investmentRepo,
		roundRepo:      roundRepo,
		tradeRepo:      tradeRepo,
		kycRepo:        kycRepo,
	}
}

// softRead wraps a read so its failure is logged and the group keeps going; the
// target keeps its zero value.
func softRead(ctx context.Context, name string, fn func() error) func() error {
	return func() error {
		if err := fn(); err != nil {
			logger.Warn(ctx, "Read model query failed", zap.String("query", name), zap.Error(err))
		}
		return nil
	}
}

// GetDashboard loads the profile, then every aggregate in parallel. Only the profile
// read is required.
func (u *DashboardUsecase) GetDashboard(ctx context.Context, userID uuid.UUID) (*entities.Dashboard, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &entities.Dashboard{
		User:                   user,
		TotalDeposits:          decimal.Zero,
		TotalWithdrawals:       decimal.Zero,
		ActiveInvestmentAmount: decimal.Zero,
		InvestmentProfit:       decimal.Zero,
		TradeProfitLoss:        decimal.Zero,
		RecentDeposits:         []*entities.Deposit{},
		RecentWithdrawals:      []*entities.Withdrawal{},
		RecentTrades:           []*entities.Trade{},
		ActiveInvestments:      []*entities.Investment{},
	}

	var g errgroup.Group
	g.Go(softRead(ctx, "total_deposits", func() error {
		v, err := u.depositRepo.SumByUser(ctx, userID, entities.DepositStatusApproved)
		if err == nil {
			d.TotalDeposits = v
		}
		return err
	}))
	g.Go(softRead(ctx, "total_withdrawals", func() error {
		v, err := u.withdrawalRepo.SumByUser(ctx, userID, entities.WithdrawalStatusPaid)
		if err == nil {
			d.TotalWithdrawals = v
		}
		return err
	}))
	g.Go(softRead(ctx, "active_investment_amount", func() error {
		v, err := u.investmentRepo.SumByUser(ctx, userID, entities.InvestmentStatusActive)
		if err == nil {
			d.ActiveInvestmentAmount = v
		}
		return err
	}))
	g.Go(softRead(ctx, "investment_profit", func() error {
		v, err := u.investmentRepo.SumProfitByUser(ctx, userID)
		if err == nil {
			d.InvestmentProfit = v
		}
		return err
	}))
	g.Go(softRead(ctx, "trade_profit_loss", func() error {
		v, err := u.tradeRepo.SumProfitLossByUser(ctx, userID)
		if err == nil {
			d.TradeProfitLoss = v
		}
		return err
	}))
	g.Go(softRead(ctx, "recent_deposits", func() error {
		v, _, err := u.depositRepo.List(ctx, entities.DepositFilter{UserID: &userID, Page: 1, Limit: dashboardRecentLimit})
		if err == nil && v != nil {
			d.RecentDeposits = v
		}
		return err
	}))
	g.Go(softRead(ctx, "recent_withdrawals", func() error {
		v, _, err := u.withdrawalRepo.List(ctx, entities.WithdrawalFilter{UserID: &userID, Page: 1, Limit: dashboardRecentLimit})
		if err == nil && v != nil {
			d.RecentWithdrawals = v
		}
		return err
	}))
	g.Go(softRead(ctx, "recent_trades", func() error {
		v, err := u.tradeRepo.ListByUser(ctx, userID, dashboardRecentLimit)
		if err == nil && v != nil {
			d.RecentTrades = v
		}
		return err
	}))
	g.Go(softRead(ctx, "active_investments", func() error {
		v, err := u.investmentRepo.ListByUser(ctx, userID, entities.InvestmentStatusActive)
		if err == nil && v != nil {
			d.ActiveInvestments = v
		}
		return err
	}))
	_ = g.Wait()

	return d, nil
}

// GetAdminOverview loads the back office counters in parallel. Failed counters stay zero.
func (u *DashboardUsecase) GetAdminOverview(ctx context.Context) (*entities.AdminOverview, error) {
	o := &entities.AdminOverview{
		PendingDepositSum:  decimal.Zero,
		PendingWithdrawSum: decimal.Zero,
		TotalBalances:      decimal.Zero,
	}

	var g errgroup.Group
	g.Go(softRead(ctx, "user_count", func() error {
		v, err := u.userRepo.Count(ctx)
		o.TotalUsers = v
		return err
	}))
	g.Go(softRead(ctx, "pending_deposits", func() error {
		n, sum, err := u.depositRepo.CountAndSum(ctx, entities.DepositStatusPending)
		if err == nil {
			o.PendingDeposits, o.PendingDepositSum = n, sum
		}
		return err
	}))
	g.Go(softRead(ctx, "pending_withdrawals", func() error {
		n, sum, err := u.withdrawalRepo.CountAndSum(ctx, entities.WithdrawalStatusPending)
		if err == nil {
			o.PendingWithdrawals, o.PendingWithdrawSum = n, sum
		}
		return err
	}))
	g.Go(softRead(ctx, "active_investments", func() error {
		v, err := u.investmentRepo.CountByStatus(ctx, entities.InvestmentStatusActive)
		o.ActiveInvestments = v
		return err
	}))
	g.Go(softRead(ctx, "active_rounds", func() error {
		v, err := u.roundRepo.CountByStatus(ctx, entities.RoundStatusActive)
		o.ActiveRounds = v
		return err
	}))
	g.Go(softRead(ctx, "total_balances", func() error {
		v, err := u.userRepo.SumBalances(ctx)
		if err == nil {
			o.TotalBalances = v
		}
		return err
	}))
	g.Go(softRead(ctx, "pending_kyc", func() error {
		v, err := u.kycRepo.CountByStatus(ctx, entities.KYCPending)
		o.PendingKYC = v
		return err
	}))
	_ = g.Wait()

	return o, nil
}
