package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmhouse/wallet-api/internal/card"
	"github.com/dmhouse/wallet-api/internal/domain"
	"github.com/dmhouse/wallet-api/internal/eventbus"
	"github.com/dmhouse/wallet-api/internal/validation"
	"github.com/dmhouse/wallet-api/pkg/logger"
	"github.com/google/uuid"
)

type AddCardRequest struct {
	Type       domain.CardType `json:"type"`
	CardNumber string          `json:"card_number"`
	CardHolder string          `json:"card_holder"`
	ExpiryDate string          `json:"expiry_date"`
	CVV        string          `json:"cvv"`
}

type PaymentMethodService interface {
	Add(ctx context.Context, userID string, req AddCardRequest) (*domain.PaymentMethod, error)
	List(ctx context.Context, userID string) ([]domain.PaymentMethod, error)
	Remove(ctx context.Context, userID, methodID string) error
	SetDefault(ctx context.Context, userID, methodID string) error
}

type paymentMethodService struct {
	repo   domain.Repository
	bus    eventbus.EventBus
	logger *logger.Logger
}

func NewPaymentMethodService(repo domain.Repository, bus eventbus.EventBus, log *logger.Logger) PaymentMethodService {
	return &paymentMethodService{
		repo:   repo,
		bus:    bus,
		logger: log,
	}
}

func (s *paymentMethodService) Add(ctx context.Context, userID string, req AddCardRequest) (*domain.PaymentMethod, error) {
	ctx = logger.WithUserID(ctx, userID)

	if err := validateCardRequest(req); err != nil {
		s.logger.Debug(ctx, "Card rejected by validation",
			"error", err,
		)
		return nil, err
	}

	number := strings.ReplaceAll(req.CardNumber, " ", "")
	brand := card.Classify(number)

	method := &domain.PaymentMethod{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       req.Type,
		CardNumber: number,
		CardHolder: req.CardHolder,
		ExpiryDate: req.ExpiryDate,
		CVV:        req.CVV,
		Brand:      string(brand),
		BrandLabel: card.DisplayName(brand),
		CreatedAt:  time.Now(),
	}

	if err := s.repo.AddPaymentMethod(ctx, method); err != nil {
		if errors.Is(err, domain.ErrCardLimitReached) {
			s.logger.Info(ctx, "Card limit reached")
		} else {
			s.logger.Error(ctx, "Failed to add card",
				"error", err,
			)
		}
		return nil, err
	}

	s.logger.Info(ctx, "Card added",
		"payment_method_id", method.ID,
		"brand", method.Brand,
		"is_default", method.IsDefault,
	)

	s.notifyChange(ctx, userID, "card_added")

	return method, nil
}

func (s *paymentMethodService) List(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	return s.repo.ListPaymentMethods(logger.WithUserID(ctx, userID), userID)
}

// Remove drops the card; removing an unknown id is a silent no-op.
// When the default card is removed no replacement is promoted, so the
// user has no default until they pick one.
func (s *paymentMethodService) Remove(ctx context.Context, userID, methodID string) error {
	ctx = logger.WithUserID(ctx, userID)

	err := s.repo.RemovePaymentMethod(ctx, userID, methodID)
	if errors.Is(err, domain.ErrPaymentMethodNotFound) {
		s.logger.Debug(ctx, "Remove ignored, card not found",
			"payment_method_id", methodID,
		)
		return nil
	}
	if err != nil {
		s.logger.Error(ctx, "Failed to remove card",
			"payment_method_id", methodID,
			"error", err,
		)
		return err
	}

	s.logger.Info(ctx, "Card removed",
		"payment_method_id", methodID,
	)

	s.notifyChange(ctx, userID, "card_removed")

	return nil
}

// SetDefault makes the card the single default; an unknown id is a
// silent no-op.
func (s *paymentMethodService) SetDefault(ctx context.Context, userID, methodID string) error {
	ctx = logger.WithUserID(ctx, userID)

	err := s.repo.SetDefaultPaymentMethod(ctx, userID, methodID)
	if errors.Is(err, domain.ErrPaymentMethodNotFound) {
		s.logger.Debug(ctx, "SetDefault ignored, card not found",
			"payment_method_id", methodID,
		)
		return nil
	}
	if err != nil {
		s.logger.Error(ctx, "Failed to set default card",
			"payment_method_id", methodID,
			"error", err,
		)
		return err
	}

	s.logger.Info(ctx, "Default card changed",
		"payment_method_id", methodID,
	)

	s.notifyChange(ctx, userID, "default_card_changed")

	return nil
}

func (s *paymentMethodService) notifyChange(ctx context.Context, userID, reason string) {
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

func validateCardRequest(req AddCardRequest) error {
	if req.Type != domain.CardTypeCredit && req.Type != domain.CardTypeDebit {
		return fmt.Errorf("%w: card type must be credit or debit", domain.ErrValidation)
	}
	if !validation.CardNumber(req.CardNumber) {
		return fmt.Errorf("%w: card number must be 16 digits", domain.ErrValidation)
	}
	if strings.TrimSpace(req.CardHolder) == "" {
		return fmt.Errorf("%w: card holder is required", domain.ErrValidation)
	}
	if !validation.Expiry(req.ExpiryDate) {
		return fmt.Errorf("%w: expiry must be MM/YY", domain.ErrValidation)
	}
	if !validation.CVV(req.CVV) {
		return fmt.Errorf("%w: cvv must be 3 or 4 digits", domain.ErrValidation)
	}
	return nil
}
