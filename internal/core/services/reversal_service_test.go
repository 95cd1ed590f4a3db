package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/apperrors"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	portssvc "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/services"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReversalServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockTxnRepo     *MockTransactionRepository
	mockGoalRepo    *MockGoalRepository
	service         portssvc.ReversalSvc

	tx fakeTx
}

func (suite *ReversalServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockGoalRepo = new(MockGoalRepository)
	suite.tx = fakeTx{}

	suite.service = services.NewReversalService(
		suite.mockAccountRepo,
		suite.mockTxnRepo,
		suite.mockGoalRepo,
		nil,
	)
}

func (suite *ReversalServiceTestSuite) expectMovementTx(ctx context.Context) {
	suite.mockTxnRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockTxnRepo.On("Commit", ctx, suite.tx).Return(nil).Once()
}

func (suite *ReversalServiceTestSuite) expectMovementRollback(ctx context.Context) {
	suite.mockTxnRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockTxnRepo.On("Rollback", ctx, suite.tx).Return(nil).Once()
}

func depositEntry(accountID string, amount int64, deadline time.Time) *domain.Transaction {
	return &domain.Transaction{
		TransactionID:  uuid.NewString(),
		AccountID:      accountID,
		Kind:           domain.KindDeposit,
		Amount:         decimal.NewFromInt(amount),
		Fee:            decimal.Zero,
		IsInitiator:    true,
		Status:         domain.Completed,
		UndoDeadline:   &deadline,
		RunningBalance: decimal.NewFromInt(amount),
	}
}

// --- Undo ---

func (suite *ReversalServiceTestSuite) TestUndo_DepositSuccess() {
	ctx := context.Background()
	accountID := uuid.NewString()
	original := depositEntry(accountID, 200, time.Now().Add(10*time.Minute))
	account := domain.Account{AccountID: accountID, Balance: decimal.NewFromInt(300), IsActive: true}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()
	suite.expectMovementTx(ctx)
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, suite.tx, []string{accountID}).
		Return(map[string]domain.Account{accountID: account}, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalancesInTx", ctx, suite.tx, mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return changes[accountID].Equal(decimal.NewFromInt(-200))
	}), accountID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransactionsInTx", ctx, suite.tx, mock.MatchedBy(func(entries []domain.Transaction) bool {
		return len(entries) == 1 && entries[0].Kind == domain.KindReversal && !entries[0].IsInitiator
	})).Return(nil).Once()
	suite.mockTxnRepo.On("MarkTransactionReversedInTx", ctx, suite.tx, original.TransactionID, accountID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversal, err := suite.service.Undo(ctx, original.TransactionID, accountID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(domain.KindReversal, reversal.Kind)
	suite.Require().NotNil(reversal.OriginalTransactionID)
	suite.Equal(original.TransactionID, *reversal.OriginalTransactionID)
	suite.True(reversal.Amount.Equal(original.Amount))
	suite.True(reversal.RunningBalance.Equal(decimal.NewFromInt(100)))

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *ReversalServiceTestSuite) TestUndo_WindowExpired() {
	ctx := context.Background()
	accountID := uuid.NewString()
	original := depositEntry(accountID, 200, time.Now().Add(-time.Minute))

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()

	reversal, err := suite.service.Undo(ctx, original.TransactionID, accountID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, services.ErrUndoWindowExpired)

	suite.mockTxnRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *ReversalServiceTestSuite) TestUndo_RecipientSideRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	deadline := time.Now().Add(10 * time.Minute)
	original := &domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     accountID,
		Kind:          domain.KindTransfer,
		Amount:        decimal.NewFromInt(50),
		IsInitiator:   false,
		Status:        domain.Completed,
		UndoDeadline:  &deadline,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()

	reversal, err := suite.service.Undo(ctx, original.TransactionID, accountID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, services.ErrNotInitiator)
}

func (suite *ReversalServiceTestSuite) TestUndo_AlreadyReversed() {
	ctx := context.Background()
	accountID := uuid.NewString()
	original := depositEntry(accountID, 200, time.Now().Add(10*time.Minute))
	original.Status = domain.Reversed

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()

	reversal, err := suite.service.Undo(ctx, original.TransactionID, accountID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
}

func (suite *ReversalServiceTestSuite) TestUndo_GoalEntryNotUndoable() {
	ctx := context.Background()
	accountID := uuid.NewString()
	original := &domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     accountID,
		Kind:          domain.KindGoalDeposit,
		Amount:        decimal.NewFromInt(50),
		IsInitiator:   true,
		Status:        domain.Completed,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()

	reversal, err := suite.service.Undo(ctx, original.TransactionID, accountID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, services.ErrNotUndoable)
}

func (suite *ReversalServiceTestSuite) TestUndo_OtherAccountsEntryObscured() {
	ctx := context.Background()
	original := depositEntry(uuid.NewString(), 200, time.Now().Add(10*time.Minute))

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()

	reversal, err := suite.service.Undo(ctx, original.TransactionID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReversalServiceTestSuite) TestUndo_DepositSpentFunds() {
	ctx := context.Background()
	accountID := uuid.NewString()
	original := depositEntry(accountID, 200, time.Now().Add(10*time.Minute))
	// The account spent the deposited money already.
	account := domain.Account{AccountID: accountID, Balance: decimal.NewFromInt(50), IsActive: true}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()
	suite.expectMovementRollback(ctx)
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, suite.tx, []string{accountID}).
		Return(map[string]domain.Account{accountID: account}, nil).Once()

	reversal, err := suite.service.Undo(ctx, original.TransactionID, accountID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, services.ErrInsufficientFunds)

	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *ReversalServiceTestSuite) TestUndo_LosesStatusFlipRace() {
	ctx := context.Background()
	accountID := uuid.NewString()
	original := depositEntry(accountID, 200, time.Now().Add(10*time.Minute))
	account := domain.Account{AccountID: accountID, Balance: decimal.NewFromInt(300), IsActive: true}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()
	suite.expectMovementRollback(ctx)
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, suite.tx, []string{accountID}).
		Return(map[string]domain.Account{accountID: account}, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalancesInTx", ctx, suite.tx, mock.Anything, accountID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransactionsInTx", ctx, suite.tx, mock.AnythingOfType("[]domain.Transaction")).Return(nil).Once()
	// A concurrent reversal already flipped the original.
	conflict := fmt.Errorf("%w: entry %s has status REVERSED", apperrors.ErrConflict, original.TransactionID)
	suite.mockTxnRepo.On("MarkTransactionReversedInTx", ctx, suite.tx, original.TransactionID, accountID, mock.AnythingOfType("time.Time")).Return(conflict).Once()

	reversal, err := suite.service.Undo(ctx, original.TransactionID, accountID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, services.ErrAlreadyReversed)

	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- ForceReverse ---

func (suite *ReversalServiceTestSuite) TestForceReverse_TransferAfterWindow() {
	ctx := context.Background()
	adminID := uuid.NewString()
	senderID := uuid.NewString()
	recipientID := uuid.NewString()
	admin := &domain.Account{AccountID: adminID, IsAdmin: true}

	// Original transfer: 200 principal, 5 fee, window long expired.
	deadline := time.Now().Add(-2 * time.Hour)
	original := &domain.Transaction{
		TransactionID:             uuid.NewString(),
		AccountID:                 senderID,
		Kind:                      domain.KindTransfer,
		Amount:                    decimal.NewFromInt(200),
		Fee:                       decimal.NewFromInt(5),
		CounterpartyAccountNumber: "1000000002",
		CounterpartyName:          "Bongani",
		IsInitiator:               true,
		Status:                    domain.Completed,
		UndoDeadline:              &deadline,
	}

	sender := domain.Account{AccountID: senderID, AccountNumber: "1000000001", DisplayName: "Amahle", Balance: decimal.NewFromInt(795), IsActive: true}
	recipient := domain.Account{AccountID: recipientID, AccountNumber: "1000000002", DisplayName: "Bongani", Balance: decimal.NewFromInt(200), IsActive: true}

	suite.mockAccountRepo.On("FindAccountByID", ctx, adminID).Return(admin, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, "1000000002").Return(&recipient, nil).Once()

	suite.expectMovementTx(ctx)
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, suite.tx, []string{senderID, recipientID}).
		Return(map[string]domain.Account{senderID: sender, recipientID: recipient}, nil).Once()
	// Principal comes back from the recipient; the fee stays collected.
	suite.mockAccountRepo.On("UpdateAccountBalancesInTx", ctx, suite.tx, mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return changes[senderID].Equal(decimal.NewFromInt(200)) && changes[recipientID].Equal(decimal.NewFromInt(-200))
	}), adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransactionsInTx", ctx, suite.tx, mock.MatchedBy(func(entries []domain.Transaction) bool {
		if len(entries) != 2 {
			return false
		}
		senderSide, recipientSide := entries[0], entries[1]
		return senderSide.IsInitiator && senderSide.RunningBalance.Equal(decimal.NewFromInt(995)) &&
			!recipientSide.IsInitiator && recipientSide.RunningBalance.IsZero()
	})).Return(nil).Once()
	suite.mockTxnRepo.On("MarkTransactionReversedInTx", ctx, suite.tx, original.TransactionID, adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversal, err := suite.service.ForceReverse(ctx, original.TransactionID, adminID, "Fraud report 1142")

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(senderID, reversal.AccountID)
	suite.Equal("Fraud report 1142", reversal.Reference)
	suite.True(reversal.RunningBalance.Equal(decimal.NewFromInt(995)), "fee is not refunded on reversal")

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *ReversalServiceTestSuite) TestForceReverse_RecipientSideResolvesInitiator() {
	ctx := context.Background()
	adminID := uuid.NewString()
	senderID := uuid.NewString()
	recipientID := uuid.NewString()
	admin := &domain.Account{AccountID: adminID, IsAdmin: true}

	deadline := time.Now().Add(-time.Hour)
	senderEntryID := uuid.NewString()
	recipientEntryID := uuid.NewString()
	senderEntry := &domain.Transaction{
		TransactionID:             senderEntryID,
		AccountID:                 senderID,
		Kind:                      domain.KindTransfer,
		Amount:                    decimal.NewFromInt(200),
		Fee:                       decimal.NewFromInt(5),
		CounterpartyAccountNumber: "1000000002",
		CounterpartyName:          "Bongani",
		IsInitiator:               true,
		Status:                    domain.Completed,
		UndoDeadline:              &deadline,
		PairedTransactionID:       &recipientEntryID,
	}
	recipientEntry := &domain.Transaction{
		TransactionID:             recipientEntryID,
		AccountID:                 recipientID,
		Kind:                      domain.KindTransfer,
		Amount:                    decimal.NewFromInt(200),
		CounterpartyAccountNumber: "1000000001",
		CounterpartyName:          "Amahle",
		IsInitiator:               false,
		Status:                    domain.Completed,
		PairedTransactionID:       &senderEntryID,
	}

	sender := domain.Account{AccountID: senderID, AccountNumber: "1000000001", DisplayName: "Amahle", Balance: decimal.NewFromInt(795), IsActive: true}
	recipient := domain.Account{AccountID: recipientID, AccountNumber: "1000000002", DisplayName: "Bongani", Balance: decimal.NewFromInt(200), IsActive: true}

	suite.mockAccountRepo.On("FindAccountByID", ctx, adminID).Return(admin, nil).Once()
	// The admin names the recipient's entry; the service follows the link
	// to the initiating side and reverses from there.
	suite.mockTxnRepo.On("FindTransactionByID", ctx, recipientEntryID).Return(recipientEntry, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, senderEntryID).Return(senderEntry, nil).Once()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, "1000000002").Return(&recipient, nil).Once()

	suite.expectMovementTx(ctx)
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, suite.tx, []string{senderID, recipientID}).
		Return(map[string]domain.Account{senderID: sender, recipientID: recipient}, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountBalancesInTx", ctx, suite.tx, mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		return changes[senderID].Equal(decimal.NewFromInt(200)) && changes[recipientID].Equal(decimal.NewFromInt(-200))
	}), adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransactionsInTx", ctx, suite.tx, mock.MatchedBy(func(entries []domain.Transaction) bool {
		if len(entries) != 2 {
			return false
		}
		senderSide, recipientSide := entries[0], entries[1]
		return senderSide.OriginalTransactionID != nil && *senderSide.OriginalTransactionID == senderEntryID &&
			recipientSide.OriginalTransactionID != nil && *recipientSide.OriginalTransactionID == recipientEntryID &&
			senderSide.PairedTransactionID != nil && *senderSide.PairedTransactionID == recipientSide.TransactionID &&
			recipientSide.PairedTransactionID != nil && *recipientSide.PairedTransactionID == senderSide.TransactionID
	})).Return(nil).Once()
	// Both sides of the original transfer are flipped to REVERSED.
	suite.mockTxnRepo.On("MarkTransactionReversedInTx", ctx, suite.tx, senderEntryID, adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("MarkTransactionReversedInTx", ctx, suite.tx, recipientEntryID, adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversal, err := suite.service.ForceReverse(ctx, recipientEntryID, adminID, "dispute 2207")

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(senderID, reversal.AccountID, "reversal runs against the initiating side")
	suite.True(reversal.RunningBalance.Equal(decimal.NewFromInt(995)))

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *ReversalServiceTestSuite) TestForceReverse_NonAdmin() {
	ctx := context.Background()
	requesterID := uuid.NewString()
	requester := &domain.Account{AccountID: requesterID, IsAdmin: false}

	suite.mockAccountRepo.On("FindAccountByID", ctx, requesterID).Return(requester, nil).Once()

	reversal, err := suite.service.ForceReverse(ctx, uuid.NewString(), requesterID, "no reason")

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionByID", mock.Anything, mock.Anything)
}

func (suite *ReversalServiceTestSuite) TestForceReverse_CannotReverseAReversal() {
	ctx := context.Background()
	adminID := uuid.NewString()
	admin := &domain.Account{AccountID: adminID, IsAdmin: true}
	originalID := uuid.NewString()
	entry := &domain.Transaction{
		TransactionID:         uuid.NewString(),
		AccountID:             uuid.NewString(),
		Kind:                  domain.KindReversal,
		Amount:                decimal.NewFromInt(10),
		IsInitiator:           true,
		Status:                domain.Completed,
		OriginalTransactionID: &originalID,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, adminID).Return(admin, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, entry.TransactionID).Return(entry, nil).Once()

	reversal, err := suite.service.ForceReverse(ctx, entry.TransactionID, adminID, "mistake")

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReversalServiceTestSuite) TestForceReverse_RecipientSpentFunds() {
	ctx := context.Background()
	adminID := uuid.NewString()
	senderID := uuid.NewString()
	recipientID := uuid.NewString()
	admin := &domain.Account{AccountID: adminID, IsAdmin: true}

	deadline := time.Now().Add(-time.Hour)
	original := &domain.Transaction{
		TransactionID:             uuid.NewString(),
		AccountID:                 senderID,
		Kind:                      domain.KindTransfer,
		Amount:                    decimal.NewFromInt(200),
		Fee:                       decimal.NewFromInt(5),
		CounterpartyAccountNumber: "1000000002",
		IsInitiator:               true,
		Status:                    domain.Completed,
		UndoDeadline:              &deadline,
	}

	sender := domain.Account{AccountID: senderID, AccountNumber: "1000000001", Balance: decimal.NewFromInt(795), IsActive: true}
	recipient := domain.Account{AccountID: recipientID, AccountNumber: "1000000002", Balance: decimal.NewFromInt(20), IsActive: true}

	suite.mockAccountRepo.On("FindAccountByID", ctx, adminID).Return(admin, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, "1000000002").Return(&recipient, nil).Once()

	suite.expectMovementRollback(ctx)
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, suite.tx, []string{senderID, recipientID}).
		Return(map[string]domain.Account{senderID: sender, recipientID: recipient}, nil).Once()

	reversal, err := suite.service.ForceReverse(ctx, original.TransactionID, adminID, "dispute")

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, services.ErrInsufficientFunds)

	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---

func TestReversalService(t *testing.T) {
	suite.Run(t, new(ReversalServiceTestSuite))
}
