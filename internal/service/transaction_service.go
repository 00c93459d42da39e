package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmhouse/wallet-api/internal/domain"
	"github.com/dmhouse/wallet-api/internal/eventbus"
	"github.com/dmhouse/wallet-api/pkg/logger"
	"github.com/google/uuid"
)

// minDepositAmount is the smallest recharge the wallet accepts.
const minDepositAmount = 100

type DepositRequest struct {
	Amount          int64  `json:"amount"`
	PaymentMethodID string `json:"payment_method_id"`
}

type ServicePaymentRequest struct {
	ServiceID       string `json:"service_id"`
	AccountNumber   string `json:"account_number"`
	Amount          int64  `json:"amount"`
	PaymentMethodID string `json:"payment_method_id"`
}

type TransferRequest struct {
	Destination string `json:"destination"`
	Amount      int64  `json:"amount"`
}

type TransactionService interface {
	Deposit(ctx context.Context, userID string, req DepositRequest) (*domain.Transaction, error)
	PayService(ctx context.Context, userID string, req ServicePaymentRequest) (*domain.Transaction, error)
	Transfer(ctx context.Context, userID string, req TransferRequest) (*domain.Transaction, error)
}

// transactionService is the single place transactions are created, and
// the place the signed-amount convention is enforced: requests carry
// positive amounts, deposits are stored positive, payments and
// transfers are stored negative.
type transactionService struct {
	repo   domain.Repository
	bus    eventbus.EventBus
	logger *logger.Logger
}

func NewTransactionService(repo domain.Repository, bus eventbus.EventBus, log *logger.Logger) TransactionService {
	return &transactionService{
		repo:   repo,
		bus:    bus,
		logger: log,
	}
}

func (s *transactionService) Deposit(ctx context.Context, userID string, req DepositRequest) (*domain.Transaction, error) {
	ctx = logger.WithUserID(ctx, userID)

	if req.Amount < minDepositAmount {
		return nil, fmt.Errorf("%w: deposit must be at least %d", domain.ErrInvalidAmount, minDepositAmount)
	}

	method, err := s.repo.GetPaymentMethod(ctx, userID, req.PaymentMethodID)
	if err != nil {
		s.logger.Debug(ctx, "Deposit rejected, card not found",
			"payment_method_id", req.PaymentMethodID,
		)
		return nil, err
	}

	number := method.CardNumber
	lastFour := number
	if len(number) >= 4 {
		lastFour = number[len(number)-4:]
	}

	tx, err := s.record(ctx, &domain.Transaction{
		UserID:          userID,
		Type:            domain.TransactionTypeDeposit,
		Amount:          req.Amount,
		Description:     fmt.Sprintf("Recarga con tarjeta terminada en %s", lastFour),
		Destination:     "Digital Money House",
		Status:          domain.TransactionStatusCompleted,
		PaymentMethodID: method.ID,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AdjustBalance(ctx, userID, req.Amount); err != nil {
		s.logger.Error(ctx, "Failed to credit balance",
			"transaction_id", tx.ID,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info(ctx, "Deposit recorded",
		"transaction_id", tx.ID,
		"operation_number", tx.OperationNumber,
		"amount", req.Amount,
	)

	s.notifyChange(ctx, userID, "deposit")

	return tx, nil
}

// PayService charges a catalog service. With no card the wallet balance
// funds the payment; when the balance cannot cover it a failed
// transaction is still recorded so it shows up in the activity list.
func (s *transactionService) PayService(ctx context.Context, userID string, req ServicePaymentRequest) (*domain.Transaction, error) {
	ctx = logger.WithUserID(ctx, userID)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", domain.ErrInvalidAmount)
	}

	svc, err := s.repo.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, domain.ErrServiceNotFound
	}

	tx := &domain.Transaction{
		UserID:      userID,
		Type:        domain.TransactionTypePayment,
		Amount:      -req.Amount,
		Description: fmt.Sprintf("Pago de servicio %s", svc.Name),
		Destination: svc.Description,
		Status:      domain.TransactionStatusCompleted,
		ServiceID:   svc.ID,
	}

	if req.PaymentMethodID != "" {
		method, err := s.repo.GetPaymentMethod(ctx, userID, req.PaymentMethodID)
		if err != nil {
			return nil, err
		}
		tx.PaymentMethodID = method.ID
	} else {
		if _, err := s.repo.AdjustBalance(ctx, userID, -req.Amount); err != nil {
			if errors.Is(err, domain.ErrInsufficientBalance) {
				tx.Status = domain.TransactionStatusFailed
				failed, recordErr := s.record(ctx, tx)
				if recordErr != nil {
					return nil, recordErr
				}
				s.logger.Info(ctx, "Service payment failed, insufficient balance",
					"transaction_id", failed.ID,
					"amount", req.Amount,
				)
				s.notifyChange(ctx, userID, "payment_failed")
				return failed, domain.ErrInsufficientBalance
			}
			return nil, err
		}
	}

	recorded, err := s.record(ctx, tx)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Service payment recorded",
		"transaction_id", recorded.ID,
		"operation_number", recorded.OperationNumber,
		"service", svc.Name,
		"amount", req.Amount,
	)

	s.notifyChange(ctx, userID, "payment")

	return recorded, nil
}

// Transfer moves wallet balance to an external CVU or alias.
func (s *transactionService) Transfer(ctx context.Context, userID string, req TransferRequest) (*domain.Transaction, error) {
	ctx = logger.WithUserID(ctx, userID)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: transfer amount must be positive", domain.ErrInvalidAmount)
	}
	if strings.TrimSpace(req.Destination) == "" {
		return nil, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}

	if _, err := s.repo.AdjustBalance(ctx, userID, -req.Amount); err != nil {
		return nil, err
	}

	tx, err := s.record(ctx, &domain.Transaction{
		UserID:      userID,
		Type:        domain.TransactionTypeTransfer,
		Amount:      -req.Amount,
		Description: fmt.Sprintf("Transferencia a %s", req.Destination),
		Destination: req.Destination,
		Status:      domain.TransactionStatusCompleted,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Transfer recorded",
		"transaction_id", tx.ID,
		"operation_number", tx.OperationNumber,
		"amount", req.Amount,
	)

	s.notifyChange(ctx, userID, "transfer")

	return tx, nil
}

func (s *transactionService) record(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	operationNumber, err := s.repo.NextOperationNumber(ctx)
	if err != nil {
		return nil, err
	}

	tx.ID = uuid.New().String()
	tx.OperationNumber = operationNumber
	tx.CreatedAt = time.Now()

	if err := s.repo.AddTransaction(ctx, tx); err != nil {
		s.logger.Error(ctx, "Failed to record transaction",
			"error", err,
		)
		return nil, err
	}

	return tx, nil
}

func (s *transactionService) notifyChange(ctx context.Context, userID, reason string) {
	event := eventbus.Event{
		ID:        uuid.New().String(),
		Type:      eventbus.EventTypeStateChanged,
		Payload:   eventbus.StateChangedEvent{UserID: userID, Reason: reason},
		Timestamp: time.Now(),
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn(ctx, "Failed to publish state change",
			"reason", reason,
			"error", err,
		)
	}
}
