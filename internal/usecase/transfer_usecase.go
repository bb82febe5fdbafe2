package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/memledger/internal/domain"
)

var errPanicRecovered = errors.New("panic recovered in transfer")

// TransferUseCase moves money between two accounts of the account store.
// It holds no state between calls.
type TransferUseCase struct {
	accountStore AccountStore
	locks        LockRegistry
	dispatcher   NotificationDispatcher
	idGen        IDGenerator
	metrics      MetricsRecorder
	logger       zerolog.Logger
	now          func() time.Time
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	accountStore AccountStore,
	locks LockRegistry,
	dispatcher NotificationDispatcher,
	idGen IDGenerator,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *TransferUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &TransferUseCase{
		accountStore: accountStore,
		locks:        locks,
		dispatcher:   dispatcher,
		idGen:        idGen,
		metrics:      metrics,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// TransferInput represents input for a transfer.
type TransferInput struct {
	SenderAccountID   string
	ReceiverAccountID string
	Amount            decimal.Decimal
}

// Transfer debits the sender and credits the receiver.
//
// A missing account yields an *domain.AccountNotFoundError and an uncovered
// amount yields domain.ErrInsufficientBalance. Any other failure once the
// account locks are held is logged and reported through a result with
// domain.TransferStatusFailed and a nil error.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.TransferResult, error) {
	start := time.Now()

	result, err := uc.transfer(ctx, input)
	uc.metrics.RecordTransfer(outcomeOf(result, err), time.Since(start), input.Amount)

	return result, err
}

func (uc *TransferUseCase) transfer(ctx context.Context, input TransferInput) (*domain.TransferResult, error) {
	request := domain.Transfer{
		SenderAccountID:   input.SenderAccountID,
		ReceiverAccountID: input.ReceiverAccountID,
		Amount:            input.Amount,
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	// 1. Resolve both parties
	sender, err := uc.resolve(ctx, input.SenderAccountID, domain.SideSender)
	if err != nil {
		return nil, err
	}

	if _, err := uc.resolve(ctx, input.ReceiverAccountID, domain.SideReceiver); err != nil {
		return nil, err
	}

	// 2. Lock-free pre-check; the authoritative one runs under the locks
	if !sender.CanCover(input.Amount) {
		uc.logger.Info().
			Str("sender_account_id", input.SenderAccountID).
			Str("amount", input.Amount.String()).
			Msg("transfer rejected: insufficient balance")
		return nil, domain.ErrInsufficientBalance
	}

	uc.logger.Debug().
		Str("sender_account_id", input.SenderAccountID).
		Str("balance", sender.Balance.String()).
		Msg("sufficient balance to transfer")

	result := &domain.TransferResult{
		ID:                uc.idGen.Generate(),
		SenderAccountID:   input.SenderAccountID,
		ReceiverAccountID: input.ReceiverAccountID,
		Amount:            input.Amount,
		CreatedAt:         uc.now(),
	}

	// 3-6. Lock, re-check, mutate, commit, release
	committedSender, committedReceiver, err := uc.execute(ctx, input)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			uc.logger.Info().
				Str("sender_account_id", input.SenderAccountID).
				Str("amount", input.Amount.String()).
				Msg("transfer rejected under lock: insufficient balance")
			return nil, err
		}

		uc.logger.Error().
			Err(err).
			Str("transfer_id", result.ID).
			Str("sender_account_id", input.SenderAccountID).
			Str("receiver_account_id", input.ReceiverAccountID).
			Str("amount", input.Amount.String()).
			Msg("transfer failed")

		result.Status = domain.TransferStatusFailed
		return result, nil
	}

	result.Status = domain.TransferStatusTransferred

	// 7. Post-commit notifications, never awaited
	uc.dispatcher.Dispatch(result.ID, *committedSender, *committedReceiver, input.Amount)

	return result, nil
}

func (uc *TransferUseCase) resolve(ctx context.Context, id string, side domain.Side) (*domain.Account, error) {
	account, err := uc.accountStore.Lookup(ctx, id)
	if errors.Is(err, domain.ErrAccountNotFound) || (err == nil && account == nil) {
		return nil, &domain.AccountNotFoundError{Side: side, AccountID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s account: %w", side, err)
	}

	return account, nil
}

// execute runs the locked section. Locks are taken in lexicographic id order
// so two transfers over the same pair can never wait on each other.
func (uc *TransferUseCase) execute(ctx context.Context, input TransferInput) (sender, receiver *domain.Account, err error) {
	first, second := lockOrder(input.SenderAccountID, input.ReceiverAccountID)
	firstLock := uc.locks.LockFor(first)
	secondLock := uc.locks.LockFor(second)

	firstLock.Lock()
	defer firstLock.Unlock()

	secondLock.Lock()
	defer secondLock.Unlock()

	defer func() {
		if r := recover(); r != nil {
			sender, receiver = nil, nil
			err = fmt.Errorf("%w: %v", errPanicRecovered, r)
		}
	}()

	sender, err = uc.accountStore.Lookup(ctx, input.SenderAccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("re-read sender account: %w", err)
	}

	receiver, err = uc.accountStore.Lookup(ctx, input.ReceiverAccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("re-read receiver account: %w", err)
	}

	if !sender.CanCover(input.Amount) {
		return nil, nil, domain.ErrInsufficientBalance
	}

	sender.Balance = sender.ApplyDebit(input.Amount)
	receiver.Balance = receiver.ApplyCredit(input.Amount)

	if err := uc.accountStore.Commit(ctx, sender, receiver); err != nil {
		return nil, nil, fmt.Errorf("commit balances: %w", err)
	}

	return sender, receiver, nil
}

func lockOrder(a, b string) (first, second string) {
	if a < b {
		return a, b
	}
	return b, a
}

func outcomeOf(result *domain.TransferResult, err error) string {
	switch {
	case err == nil && result != nil && result.Succeeded():
		return OutcomeTransferred
	case err == nil:
		return OutcomeFailed
	case errors.Is(err, domain.ErrInsufficientBalance):
		return OutcomeInsufficientBalance
	case errors.Is(err, domain.ErrAccountNotFound):
		return OutcomeAccountNotFound
	default:
		return OutcomeInvalid
	}
}
