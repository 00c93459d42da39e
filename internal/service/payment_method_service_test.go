package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmhouse/wallet-api/internal/domain"
	"github.com/dmhouse/wallet-api/internal/eventbus"
	"github.com/dmhouse/wallet-api/internal/storage"
	"github.com/dmhouse/wallet-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentMethodService(t *testing.T) (PaymentMethodService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	log := logger.NewNop()
	bus := eventbus.New(log, nil)
	return NewPaymentMethodService(store, bus, log), store
}

func validCard() AddCardRequest {
	return AddCardRequest{
		Type:       domain.CardTypeCredit,
		CardNumber: "4111 1111 1111 1111",
		CardHolder: "DEMO USER",
		ExpiryDate: "12/30",
		CVV:        "123",
	}
}

func countDefaults(t *testing.T, svc PaymentMethodService, userID string) int {
	t.Helper()
	methods, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	defaults := 0
	for _, m := range methods {
		if m.IsDefault {
			defaults++
		}
	}
	return defaults
}

func TestPaymentMethodService_AddFirstCardBecomesDefault(t *testing.T) {
	svc, _ := newPaymentMethodService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, "u1", validCard())
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "4111111111111111", first.CardNumber)
	assert.Equal(t, "visa", first.Brand)
	assert.Equal(t, "Visa", first.BrandLabel)
	assert.NotEmpty(t, first.ID)

	req := validCard()
	req.CardNumber = "5555555555554444"
	second, err := svc.Add(ctx, "u1", req)
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assert.Equal(t, "mastercard", second.Brand)

	assert.Equal(t, 1, countDefaults(t, svc, "u1"))
}

func TestPaymentMethodService_SetDefaultFlipsExactlyTwoFlags(t *testing.T) {
	svc, _ := newPaymentMethodService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, "u1", validCard())
	require.NoError(t, err)
	second, err := svc.Add(ctx, "u1", validCard())
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(ctx, "u1", second.ID))

	methods, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, methods, 2)
	for _, m := range methods {
		switch m.ID {
		case first.ID:
			assert.False(t, m.IsDefault)
		case second.ID:
			assert.True(t, m.IsDefault)
		}
	}
}

func TestPaymentMethodService_DefaultInvariantUnderSequences(t *testing.T) {
	svc, _ := newPaymentMethodService(t)
	ctx := context.Background()

	var cardIDs []string
	for i := 0; i < 5; i++ {
		method, err := svc.Add(ctx, "u1", validCard())
		require.NoError(t, err)
		cardIDs = append(cardIDs, method.ID)
	}

	require.NoError(t, svc.SetDefault(ctx, "u1", cardIDs[3]))
	assert.Equal(t, 1, countDefaults(t, svc, "u1"))

	require.NoError(t, svc.Remove(ctx, "u1", cardIDs[0]))
	assert.Equal(t, 1, countDefaults(t, svc, "u1"))

	require.NoError(t, svc.SetDefault(ctx, "u1", cardIDs[1]))
	require.NoError(t, svc.SetDefault(ctx, "u1", cardIDs[4]))
	assert.Equal(t, 1, countDefaults(t, svc, "u1"))
}

func TestPaymentMethodService_RemovingDefaultLeavesNoDefault(t *testing.T) {
	svc, _ := newPaymentMethodService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, "u1", validCard())
	require.NoError(t, err)
	_, err = svc.Add(ctx, "u1", validCard())
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "u1", first.ID))

	assert.Equal(t, 0, countDefaults(t, svc, "u1"))
}

func TestPaymentMethodService_Limit(t *testing.T) {
	svc, _ := newPaymentMethodService(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := svc.Add(ctx, "u1", validCard())
		require.NoError(t, err, "card %d", i)
	}

	_, err := svc.Add(ctx, "u1", validCard())
	assert.ErrorIs(t, err, domain.ErrCardLimitReached)

	methods, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, methods, 10)
}

func TestPaymentMethodService_RemoveUnknownIsNoOp(t *testing.T) {
	svc, _ := newPaymentMethodService(t)

	assert.NoError(t, svc.Remove(context.Background(), "u1", "missing"))
}

func TestPaymentMethodService_SetDefaultUnknownIsNoOp(t *testing.T) {
	svc, _ := newPaymentMethodService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, "u1", validCard())
	require.NoError(t, err)

	assert.NoError(t, svc.SetDefault(ctx, "u1", "missing"))

	// The existing default is untouched.
	methods, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, first.ID, methods[0].ID)
	assert.True(t, methods[0].IsDefault)
}

func TestPaymentMethodService_Validation(t *testing.T) {
	svc, _ := newPaymentMethodService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*AddCardRequest)
	}{
		{"short number", func(r *AddCardRequest) { r.CardNumber = "411111111111111" }},
		{"non-digit number", func(r *AddCardRequest) { r.CardNumber = "4111x11111111111" }},
		{"bad cvv", func(r *AddCardRequest) { r.CVV = "12" }},
		{"bad expiry month", func(r *AddCardRequest) { r.ExpiryDate = "13/30" }},
		{"bad expiry format", func(r *AddCardRequest) { r.ExpiryDate = "12-30" }},
		{"missing holder", func(r *AddCardRequest) { r.CardHolder = "  " }},
		{"bad type", func(r *AddCardRequest) { r.Type = "prepaid" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCard()
			tc.mutate(&req)
			_, err := svc.Add(ctx, "u1", req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestPaymentMethodService_ListInsertionOrder(t *testing.T) {
	svc, _ := newPaymentMethodService(t)
	ctx := context.Background()

	numbers := []string{"4111111111111111", "5555555555554444", "6011111111111111"}
	for _, n := range numbers {
		req := validCard()
		req.CardNumber = n
		_, err := svc.Add(ctx, "u1", req)
		require.NoError(t, err)
	}

	methods, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, methods, 3)
	for i, n := range numbers {
		assert.Equal(t, n, methods[i].CardNumber, fmt.Sprintf("position %d", i))
	}
}
