package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/veloxpay/payment-service/internal/apperrors"
	"github.com/veloxpay/payment-service/internal/core/domain"
	portsrepo "github.com/veloxpay/payment-service/internal/core/ports/repositories"
	"github.com/veloxpay/payment-service/internal/core/services"
	"github.com/veloxpay/payment-service/internal/dto"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransactionStatus(ctx context.Context, reference string, status domain.TransactionStatus, failureReason string, completedAt *time.Time) error {
	args := m.Called(ctx, reference, status, failureReason, completedAt)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock LedgerClient ---
type MockLedgerClient struct {
	mock.Mock
}

func (m *MockLedgerClient) IsAccountActive(ctx context.Context, accountID int64) bool {
	args := m.Called(ctx, accountID)
	return args.Bool(0)
}

func (m *MockLedgerClient) CreditAccount(ctx context.Context, accountID int64, amount decimal.Decimal, currency, reference string) bool {
	args := m.Called(ctx, accountID, amount, currency, reference)
	return args.Bool(0)
}

func (m *MockLedgerClient) DebitAccount(ctx context.Context, accountID int64, amount decimal.Decimal, currency, reference string) bool {
	args := m.Called(ctx, accountID, amount, currency, reference)
	return args.Bool(0)
}

// --- Mock TransactionPublisher ---
type MockTransactionPublisher struct {
	mock.Mock
}

func (m *MockTransactionPublisher) PublishTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

// --- Mock AccountLockService ---
type MockAccountLockService struct {
	mock.Mock
}

func (m *MockAccountLockService) AcquireAccountLock(ctx context.Context, accountID int64) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountLockService) ReleaseAccountLock(ctx context.Context, accountID int64) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Test Suite ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockTransactionRepository
	mockLedger    *MockLedgerClient
	mockPublisher *MockTransactionPublisher
	mockLocks     *MockAccountLockService
	service       *services.TransactionService
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTransactionRepository)
	suite.mockLedger = new(MockLedgerClient)
	suite.mockPublisher = new(MockTransactionPublisher)
	suite.mockLocks = new(MockAccountLockService)
	suite.service = services.NewTransactionService(suite.mockRepo, suite.mockLedger, suite.mockPublisher, suite.mockLocks)
}

func depositRequest() dto.CreateDepositRequest {
	return dto.CreateDepositRequest{
		AccountID:   42,
		Amount:      decimal.RequireFromString("100.00"),
		Currency:    "USD",
		Description: "payday",
		UserID:      7,
	}
}

// --- Deposit ---

func (suite *TransactionServiceTestSuite) TestCreateDeposit_Success() {
	ctx := context.Background()
	req := depositRequest()

	suite.mockLedger.On("IsAccountActive", ctx, int64(42)).Return(true).Once()
	suite.mockLocks.On("AcquireAccountLock", ctx, int64(42)).Return(true, nil).Once()
	suite.mockRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Type == domain.Deposit &&
			t.Status == domain.Pending &&
			t.SourceAccountID == int64(42) &&
			t.DestinationAccountID == nil &&
			t.UserID == int64(7) &&
			t.Amount.Equal(req.Amount)
	})).Return(&domain.Transaction{
		ID:                   1,
		TransactionReference: "TXN-AB12CD34",
		Type:                 domain.Deposit,
		Amount:               req.Amount,
		Currency:             "USD",
		SourceAccountID:      42,
		Status:               domain.Pending,
		UserID:               7,
	}, nil).Once()
	suite.mockPublisher.On("PublishTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.TransactionReference == "TXN-AB12CD34"
	})).Return(nil).Once()
	suite.mockLocks.On("ReleaseAccountLock", ctx, int64(42)).Return(nil).Once()

	txn, err := suite.service.CreateDepositTransaction(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(domain.Pending, txn.Status)
	suite.Regexp(`^TXN-[A-Z0-9]{8}$`, txn.TransactionReference)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
	suite.mockLocks.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateDeposit_GeneratesUniqueReference() {
	ctx := context.Background()
	req := depositRequest()

	suite.mockLedger.On("IsAccountActive", ctx, int64(42)).Return(true)
	suite.mockLocks.On("AcquireAccountLock", ctx, int64(42)).Return(true, nil)
	suite.mockLocks.On("ReleaseAccountLock", ctx, int64(42)).Return(nil)

	var seen []string
	suite.mockRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Return(&domain.Transaction{TransactionReference: "TXN-AB12CD34", Status: domain.Pending}, nil).
		Run(func(args mock.Arguments) {
			txn := args.Get(1).(domain.Transaction)
			seen = append(seen, txn.TransactionReference)
		})
	suite.mockPublisher.On("PublishTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil)

	_, err := suite.service.CreateDepositTransaction(ctx, req)
	suite.Require().NoError(err)
	_, err = suite.service.CreateDepositTransaction(ctx, req)
	suite.Require().NoError(err)

	suite.Require().Len(seen, 2)
	suite.NotEqual(seen[0], seen[1])
	for _, ref := range seen {
		suite.Regexp(`^TXN-[A-Z0-9]{8}$`, ref)
	}
}

func (suite *TransactionServiceTestSuite) TestCreateDeposit_NonPositiveAmount() {
	ctx := context.Background()
	req := depositRequest()
	req.Amount = decimal.Zero

	txn, err := suite.service.CreateDepositTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
	suite.mockPublisher.AssertNotCalled(suite.T(), "PublishTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateDeposit_InactiveAccount() {
	ctx := context.Background()
	req := depositRequest()

	suite.mockLedger.On("IsAccountActive", ctx, int64(42)).Return(false).Once()

	txn, err := suite.service.CreateDepositTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
	suite.mockLocks.AssertNotCalled(suite.T(), "AcquireAccountLock", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateDeposit_LockConflict() {
	ctx := context.Background()
	req := depositRequest()

	suite.mockLedger.On("IsAccountActive", ctx, int64(42)).Return(true).Once()
	suite.mockLocks.On("AcquireAccountLock", ctx, int64(42)).Return(false, nil).Once()

	txn, err := suite.service.CreateDepositTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrConcurrentTransaction)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
	suite.mockLocks.AssertNotCalled(suite.T(), "ReleaseAccountLock", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateDeposit_SaveErrorReleasesLock() {
	ctx := context.Background()
	req := depositRequest()
	expectedErr := assert.AnError

	suite.mockLedger.On("IsAccountActive", ctx, int64(42)).Return(true).Once()
	suite.mockLocks.On("AcquireAccountLock", ctx, int64(42)).Return(true, nil).Once()
	suite.mockRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil, expectedErr).Once()
	suite.mockLocks.On("ReleaseAccountLock", ctx, int64(42)).Return(nil).Once()

	txn, err := suite.service.CreateDepositTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, expectedErr)
	suite.mockLocks.AssertExpectations(suite.T())
	suite.mockPublisher.AssertNotCalled(suite.T(), "PublishTransaction", mock.Anything, mock.Anything)
}

// --- Withdrawal ---

func (suite *TransactionServiceTestSuite) TestCreateWithdrawal_Success() {
	ctx := context.Background()
	req := dto.CreateWithdrawalRequest{
		AccountID: 42,
		Amount:    decimal.RequireFromString("25.50"),
		Currency:  "EUR",
		UserID:    7,
	}

	suite.mockLedger.On("IsAccountActive", ctx, int64(42)).Return(true).Once()
	suite.mockLocks.On("AcquireAccountLock", ctx, int64(42)).Return(true, nil).Once()
	suite.mockRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Type == domain.Withdrawal && t.Status == domain.Pending
	})).Return(&domain.Transaction{TransactionReference: "TXN-11111111", Type: domain.Withdrawal, Status: domain.Pending}, nil).Once()
	suite.mockPublisher.On("PublishTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockLocks.On("ReleaseAccountLock", ctx, int64(42)).Return(nil).Once()

	txn, err := suite.service.CreateWithdrawalTransaction(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.Withdrawal, txn.Type)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Transfer ---

func transferRequest() dto.CreateTransferRequest {
	return dto.CreateTransferRequest{
		SourceAccountID:      1,
		DestinationAccountID: 2,
		Amount:               decimal.RequireFromString("10.00"),
		Currency:             "USD",
		UserID:               7,
	}
}

func (suite *TransactionServiceTestSuite) TestCreateTransfer_Success() {
	ctx := context.Background()
	req := transferRequest()

	suite.mockLedger.On("IsAccountActive", ctx, int64(1)).Return(true).Once()
	suite.mockLedger.On("IsAccountActive", ctx, int64(2)).Return(true).Once()
	suite.mockLocks.On("AcquireAccountLock", ctx, int64(1)).Return(true, nil).Once()
	suite.mockLocks.On("AcquireAccountLock", ctx, int64(2)).Return(true, nil).Once()
	suite.mockRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Type == domain.Transfer &&
			t.DestinationAccountID != nil &&
			*t.DestinationAccountID == int64(2)
	})).Return(&domain.Transaction{TransactionReference: "TXN-22222222", Type: domain.Transfer, Status: domain.Pending}, nil).Once()
	suite.mockPublisher.On("PublishTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockLocks.On("ReleaseAccountLock", ctx, int64(1)).Return(nil).Once()
	suite.mockLocks.On("ReleaseAccountLock", ctx, int64(2)).Return(nil).Once()

	txn, err := suite.service.CreateTransferTransaction(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.Transfer, txn.Type)
	suite.mockLocks.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransfer_SameAccounts() {
	ctx := context.Background()
	req := transferRequest()
	req.DestinationAccountID = req.SourceAccountID

	txn, err := suite.service.CreateTransferTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedger.AssertNotCalled(suite.T(), "IsAccountActive", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransfer_InactiveSourceSkipsDestinationCheck() {
	ctx := context.Background()
	req := transferRequest()

	suite.mockLedger.On("IsAccountActive", ctx, int64(1)).Return(false).Once()

	txn, err := suite.service.CreateTransferTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedger.AssertNumberOfCalls(suite.T(), "IsAccountActive", 1)
}

func (suite *TransactionServiceTestSuite) TestCreateTransfer_DestinationLockConflictReleasesSource() {
	ctx := context.Background()
	req := transferRequest()

	suite.mockLedger.On("IsAccountActive", ctx, int64(1)).Return(true).Once()
	suite.mockLedger.On("IsAccountActive", ctx, int64(2)).Return(true).Once()
	suite.mockLocks.On("AcquireAccountLock", ctx, int64(1)).Return(true, nil).Once()
	suite.mockLocks.On("AcquireAccountLock", ctx, int64(2)).Return(false, nil).Once()
	suite.mockLocks.On("ReleaseAccountLock", ctx, int64(1)).Return(nil).Once()

	txn, err := suite.service.CreateTransferTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrConcurrentTransaction)
	suite.mockLocks.AssertExpectations(suite.T())
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

// --- Queries ---

func (suite *TransactionServiceTestSuite) TestGetTransactionByReference_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindTransactionByReference", ctx, "TXN-MISSING1").Return(nil, apperrors.ErrNotFound).Once()

	txn, err := suite.service.GetTransactionByReference(ctx, "TXN-MISSING1")

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
