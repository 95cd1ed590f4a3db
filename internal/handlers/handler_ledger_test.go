package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gracemaluleke65-svg/nkuna-banking/internal/apperrors"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/domain"
	portssvc "github.com/gracemaluleke65-svg/nkuna-banking/internal/core/ports/services"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/core/services"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/dto"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/handlers"
	"github.com/gracemaluleke65-svg/nkuna-banking/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string, requestingAccountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, requestingAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) VerifyAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, requestingAccountID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, requestingAccountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) SetAccountActive(ctx context.Context, accountID string, active bool, requestingAccountID string) error {
	args := m.Called(ctx, accountID, active, requestingAccountID)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Deposit(ctx context.Context, accountID string, req dto.DepositRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, accountID string, req dto.TransferRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) PayUtility(ctx context.Context, accountID string, req dto.UtilityPaymentRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) GoalDeposit(ctx context.Context, accountID string, goalID string, req dto.GoalMovementRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, goalID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) GoalWithdraw(ctx context.Context, accountID string, goalID string, req dto.GoalMovementRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, goalID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) GetTransactionByID(ctx context.Context, transactionID string, requestingAccountID string) (*domain.Transaction, []domain.Transaction, error) {
	args := m.Called(ctx, transactionID, requestingAccountID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var reversals []domain.Transaction
	if args.Get(1) != nil {
		reversals = args.Get(1).([]domain.Transaction)
	}
	return args.Get(0).(*domain.Transaction), reversals, args.Error(2)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, accountID string, requestingAccountID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountID, requestingAccountID, params)
	var entries []domain.Transaction
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock ReversalService ---

type MockReversalService struct {
	mock.Mock
}

func (m *MockReversalService) Undo(ctx context.Context, transactionID string, requestingAccountID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, requestingAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockReversalService) ForceReverse(ctx context.Context, transactionID string, requestingAccountID string, reason string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, requestingAccountID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.ReversalSvc = (*MockReversalService)(nil)

// --- Mock GoalService ---

type MockGoalService struct {
	mock.Mock
}

func (m *MockGoalService) GetGoalByID(ctx context.Context, goalID string, requestingAccountID string) (*domain.Goal, error) {
	args := m.Called(ctx, goalID, requestingAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalService) ListGoals(ctx context.Context, accountID string, requestingAccountID string) ([]domain.Goal, error) {
	args := m.Called(ctx, accountID, requestingAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Goal), args.Error(1)
}

func (m *MockGoalService) CreateGoal(ctx context.Context, accountID string, req dto.CreateGoalRequest) (*domain.Goal, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

var _ portssvc.GoalSvcFacade = (*MockGoalService)(nil)

// --- Mock FeeService ---

type MockFeeService struct {
	mock.Mock
}

func (m *MockFeeService) ComputeFee(ctx context.Context, kind domain.TransactionKind, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, kind, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockFeeService) ListFeePolicies(ctx context.Context, requestingAccountID string) ([]domain.FeePolicy, error) {
	args := m.Called(ctx, requestingAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeePolicy), args.Error(1)
}

func (m *MockFeeService) CreateFeePolicy(ctx context.Context, req dto.CreateFeePolicyRequest, requestingAccountID string) (*domain.FeePolicy, error) {
	args := m.Called(ctx, req, requestingAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeePolicy), args.Error(1)
}

func (m *MockFeeService) UpdateFeePolicy(ctx context.Context, feePolicyID string, req dto.UpdateFeePolicyRequest, requestingAccountID string) (*domain.FeePolicy, error) {
	args := m.Called(ctx, feePolicyID, req, requestingAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeePolicy), args.Error(1)
}

var _ portssvc.FeeSvcFacade = (*MockFeeService)(nil)

// --- Mock ReportingService ---

type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetSystemStats(ctx context.Context, requestingAccountID string) (*domain.SystemStats, error) {
	args := m.Called(ctx, requestingAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemStats), args.Error(1)
}

var _ portssvc.ReportingSvc = (*MockReportingService)(nil)

// --- Test Suite ---

type LedgerHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockAccountService  *MockAccountService
	mockLedgerService   *MockLedgerService
	mockReversalService *MockReversalService
	mockGoalService     *MockGoalService
	mockFeeService      *MockFeeService
	mockReporting       *MockReportingService
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.mockAccountService = new(MockAccountService)
	suite.mockLedgerService = new(MockLedgerService)
	suite.mockReversalService = new(MockReversalService)
	suite.mockGoalService = new(MockGoalService)
	suite.mockFeeService = new(MockFeeService)
	suite.mockReporting = new(MockReportingService)

	container := &portssvc.ServiceContainer{
		Account:   suite.mockAccountService,
		Ledger:    suite.mockLedgerService,
		Reversal:  suite.mockReversalService,
		Goal:      suite.mockGoalService,
		Fee:       suite.mockFeeService,
		Reporting: suite.mockReporting,
	}

	handlers.RegisterRoutes(suite.router, &config.Config{}, container)
}

// doJSON performs a request with the gateway identity header set.
func (suite *LedgerHandlerTestSuite) doJSON(method, path, accountID string, body any) *httptest.ResponseRecorder {
	return doRequest(suite.T(), suite.router, method, path, accountID, body)
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestDeposit_Success() {
	accountID := uuid.NewString()
	deadline := time.Now().Add(15 * time.Minute).UTC()
	entry := &domain.Transaction{
		TransactionID:  uuid.NewString(),
		AccountID:      accountID,
		Kind:           domain.KindDeposit,
		Amount:         decimal.NewFromInt(500),
		Fee:            decimal.Zero,
		IsInitiator:    true,
		Status:         domain.Completed,
		UndoDeadline:   &deadline,
		RunningBalance: decimal.NewFromInt(500),
	}

	suite.mockLedgerService.On("Deposit", mock.Anything, accountID, mock.MatchedBy(func(req dto.DepositRequest) bool {
		return req.Amount.Equal(decimal.NewFromInt(500))
	})).Return(entry, nil).Once()

	rec := suite.doJSON(http.MethodPost, "/api/v1/transactions/deposit", accountID, gin.H{
		"amount":    "500",
		"reference": "Payday",
	})

	suite.Equal(http.StatusCreated, rec.Code)

	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal(entry.TransactionID, resp.TransactionID)
	suite.True(resp.Undoable, "fresh deposit is still inside the undo window")

	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestDeposit_MissingIdentityHeader() {
	rec := suite.doJSON(http.MethodPost, "/api/v1/transactions/deposit", "", gin.H{"amount": "500"})

	suite.Equal(http.StatusUnauthorized, rec.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "Deposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestTransfer_InsufficientFundsMapsTo422() {
	accountID := uuid.NewString()

	suite.mockLedgerService.On("Transfer", mock.Anything, accountID, mock.AnythingOfType("dto.TransferRequest")).
		Return(nil, services.ErrInsufficientFunds).Once()

	rec := suite.doJSON(http.MethodPost, "/api/v1/transactions/transfer", accountID, gin.H{
		"recipientAccountNumber": "1234567890",
		"amount":                 "200",
	})

	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (suite *LedgerHandlerTestSuite) TestTransfer_MalformedBodyRejected() {
	accountID := uuid.NewString()

	// Account numbers are exactly ten digits; binding rejects this before the service runs.
	rec := suite.doJSON(http.MethodPost, "/api/v1/transactions/transfer", accountID, gin.H{
		"recipientAccountNumber": "123",
		"amount":                 "200",
	})

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestUndo_WindowExpiredMapsTo409() {
	accountID := uuid.NewString()
	transactionID := uuid.NewString()

	suite.mockReversalService.On("Undo", mock.Anything, transactionID, accountID).
		Return(nil, services.ErrUndoWindowExpired).Once()

	rec := suite.doJSON(http.MethodPost, "/api/v1/transactions/"+transactionID+"/undo", accountID, nil)

	suite.Equal(http.StatusConflict, rec.Code)
}

func (suite *LedgerHandlerTestSuite) TestUndo_Success() {
	accountID := uuid.NewString()
	originalID := uuid.NewString()
	reversal := &domain.Transaction{
		TransactionID:         uuid.NewString(),
		AccountID:             accountID,
		Kind:                  domain.KindReversal,
		Amount:                decimal.NewFromInt(200),
		Status:                domain.Completed,
		OriginalTransactionID: &originalID,
		RunningBalance:        decimal.NewFromInt(100),
	}

	suite.mockReversalService.On("Undo", mock.Anything, originalID, accountID).Return(reversal, nil).Once()

	rec := suite.doJSON(http.MethodPost, "/api/v1/transactions/"+originalID+"/undo", accountID, nil)

	suite.Equal(http.StatusCreated, rec.Code)

	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.OriginalTransactionID)
	suite.Equal(originalID, *resp.OriginalTransactionID)

	suite.mockReversalService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_Success() {
	accountID := uuid.NewString()
	nextToken := "bmV4dC1wYWdl"
	entries := []domain.Transaction{
		{TransactionID: uuid.NewString(), AccountID: accountID, Kind: domain.KindDeposit, Amount: decimal.NewFromInt(100), RunningBalance: decimal.NewFromInt(100), Status: domain.Completed},
	}

	suite.mockLedgerService.On("ListTransactions", mock.Anything, accountID, accountID, mock.AnythingOfType("dto.ListTransactionsParams")).
		Return(entries, &nextToken, nil).Once()

	rec := suite.doJSON(http.MethodGet, "/api/v1/transactions", accountID, nil)

	suite.Equal(http.StatusOK, rec.Code)

	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(nextToken, *resp.NextToken)
}

func (suite *LedgerHandlerTestSuite) TestGetTransaction_NotFound() {
	accountID := uuid.NewString()
	transactionID := uuid.NewString()

	suite.mockLedgerService.On("GetTransactionByID", mock.Anything, transactionID, accountID).
		Return(nil, nil, apperrors.ErrNotFound).Once()

	rec := suite.doJSON(http.MethodGet, "/api/v1/transactions/"+transactionID, accountID, nil)

	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *LedgerHandlerTestSuite) TestGetTransaction_ReversedIncludesReversals() {
	accountID := uuid.NewString()
	originalID := uuid.NewString()
	entry := &domain.Transaction{
		TransactionID:  originalID,
		AccountID:      accountID,
		Kind:           domain.KindDeposit,
		Amount:         decimal.NewFromInt(100),
		RunningBalance: decimal.NewFromInt(100),
		Status:         domain.Reversed,
	}
	reversals := []domain.Transaction{{
		TransactionID:         uuid.NewString(),
		AccountID:             accountID,
		Kind:                  domain.KindReversal,
		Amount:                decimal.NewFromInt(100),
		RunningBalance:        decimal.Zero,
		Status:                domain.Completed,
		OriginalTransactionID: &originalID,
	}}

	suite.mockLedgerService.On("GetTransactionByID", mock.Anything, originalID, accountID).
		Return(entry, reversals, nil).Once()

	rec := suite.doJSON(http.MethodGet, "/api/v1/transactions/"+originalID, accountID, nil)

	suite.Equal(http.StatusOK, rec.Code)

	var resp dto.TransactionDetailResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal(originalID, resp.TransactionID)
	suite.Equal("REVERSED", resp.Status)
	suite.Require().Len(resp.Reversals, 1)
	suite.Require().NotNil(resp.Reversals[0].OriginalTransactionID)
	suite.Equal(originalID, *resp.Reversals[0].OriginalTransactionID)
}

func (suite *LedgerHandlerTestSuite) TestFeeQuote_Success() {
	accountID := uuid.NewString()

	suite.mockFeeService.On("ComputeFee", mock.Anything, domain.KindTransfer, mock.MatchedBy(func(amount decimal.Decimal) bool {
		return amount.Equal(decimal.NewFromInt(2000))
	})).Return(decimal.NewFromInt(20), nil).Once()

	rec := suite.doJSON(http.MethodGet, "/api/v1/transactions/fee-quote?kind=TRANSFER&amount=2000", accountID, nil)

	suite.Equal(http.StatusOK, rec.Code)

	var resp dto.FeeQuoteResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.True(resp.Fee.Equal(decimal.NewFromInt(20)))
	suite.True(resp.Total.Equal(decimal.NewFromInt(2020)))
}

func (suite *LedgerHandlerTestSuite) TestForceReverse_ForbiddenMapsTo403() {
	accountID := uuid.NewString()
	transactionID := uuid.NewString()

	suite.mockReversalService.On("ForceReverse", mock.Anything, transactionID, accountID, "chargeback").
		Return(nil, apperrors.ErrForbidden).Once()

	rec := suite.doJSON(http.MethodPost, "/api/v1/admin/transactions/"+transactionID+"/reverse", accountID, gin.H{
		"reason": "chargeback",
	})

	suite.Equal(http.StatusForbidden, rec.Code)
}

// --- Run Test Suite ---

func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
