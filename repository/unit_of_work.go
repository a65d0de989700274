package repository

import (
	"context"
	"fmt"

	"adsbot/database"
	"adsbot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                *database.DB
	tx                pgx.Tx
	ctx               context.Context
	accountRepo       interfaces.AccountRepository
	ledgerEventRepo   interfaces.LedgerEventRepository
	referralRepo      interfaces.ReferralRepository
	lotteryTicketRepo interfaces.LotteryTicketRepository
	lotteryDrawRepo   interfaces.LotteryDrawRepository
	withdrawalRepo    interfaces.WithdrawalRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

type unitOfWorkFactory struct {
	db *database.DB
}

func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{db: f.db}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.ledgerEventRepo = newLedgerEventRepositoryWithTx(tx)
	u.referralRepo = newReferralRepositoryWithTx(tx)
	u.lotteryTicketRepo = newLotteryTicketRepositoryWithTx(tx)
	u.lotteryDrawRepo = newLotteryDrawRepositoryWithTx(tx)
	u.withdrawalRepo = newWithdrawalRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil
	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// LedgerEventRepository returns the ledger event repository for this unit of work
func (u *unitOfWork) LedgerEventRepository() interfaces.LedgerEventRepository {
	if u.ledgerEventRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerEventRepo
}

// ReferralRepository returns the referral repository for this unit of work
func (u *unitOfWork) ReferralRepository() interfaces.ReferralRepository {
	if u.referralRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.referralRepo
}

// LotteryTicketRepository returns the lottery ticket repository for this unit of work
func (u *unitOfWork) LotteryTicketRepository() interfaces.LotteryTicketRepository {
	if u.lotteryTicketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.lotteryTicketRepo
}

// LotteryDrawRepository returns the lottery draw repository for this unit of work
func (u *unitOfWork) LotteryDrawRepository() interfaces.LotteryDrawRepository {
	if u.lotteryDrawRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.lotteryDrawRepo
}

// WithdrawalRepository returns the withdrawal repository for this unit of work
func (u *unitOfWork) WithdrawalRepository() interfaces.WithdrawalRepository {
	if u.withdrawalRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.withdrawalRepo
}
