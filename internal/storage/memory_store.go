package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/dmhouse/wallet-api/internal/domain"
)

const maxCardsPerUser = 10

// operationNumberSeed keeps generated operation numbers in the same
// range customers already have on their receipts.
const operationNumberSeed = 1234567

type MemoryStore struct {
	users          map[string]*domain.User
	emailIndex     map[string]string
	cards          map[string][]domain.PaymentMethod
	transactions   map[string][]domain.Transaction
	services       []domain.Service
	operationCount uint64
	mu             sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:          make(map[string]*domain.User),
		emailIndex:     make(map[string]string),
		cards:          make(map[string][]domain.PaymentMethod),
		transactions:   make(map[string][]domain.Transaction),
		services:       seedServices(),
		operationCount: operationNumberSeed,
	}
}

func seedServices() []domain.Service {
	return []domain.Service{
		{ID: "1", Name: "Edesur", Category: "Electricidad", Description: "Edesur S.A.", IsActive: true},
		{ID: "2", Name: "Metrogas", Category: "Gas", Description: "Metrogas S.A.", IsActive: true},
		{ID: "3", Name: "AySA", Category: "Agua", Description: "Agua y Saneamientos Argentinos", IsActive: true},
		{ID: "4", Name: "Netflix", Category: "Entretenimiento", Description: "Netflix Inc.", IsActive: true},
		{ID: "5", Name: "Spotify", Category: "Entretenimiento", Description: "Spotify AB", IsActive: true},
		{ID: "6", Name: "Movistar", Category: "Telefonía", Description: "Movistar Argentina", IsActive: true},
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := s.emailIndex[email]; taken {
		return domain.ErrEmailTaken
	}

	copied := *user
	s.users[user.ID] = &copied
	s.emailIndex[email] = user.ID

	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[userID]
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, exists := s.emailIndex[strings.ToLower(email)]
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	copied := *s.users[userID]
	return &copied, nil
}

func (s *MemoryStore) UpdateAlias(ctx context.Context, userID, alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return domain.ErrUserNotFound
	}

	user.Alias = alias

	return nil
}

// AdjustBalance applies delta atomically and rejects any adjustment
// that would leave the balance negative.
func (s *MemoryStore) AdjustBalance(ctx context.Context, userID string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return 0, domain.ErrUserNotFound
	}

	if user.Balance+delta < 0 {
		return user.Balance, domain.ErrInsufficientBalance
	}

	user.Balance += delta

	return user.Balance, nil
}

// AddPaymentMethod appends the card in insertion order. The first card
// a user stores becomes the default; every later card starts
// non-default regardless of what the caller set.
func (s *MemoryStore) AddPaymentMethod(ctx context.Context, method *domain.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.cards[method.UserID]
	if len(existing) >= maxCardsPerUser {
		return domain.ErrCardLimitReached
	}

	method.IsDefault = len(existing) == 0
	s.cards[method.UserID] = append(existing, *method)

	return nil
}

func (s *MemoryStore) GetPaymentMethod(ctx context.Context, userID, methodID string) (*domain.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, method := range s.cards[userID] {
		if method.ID == methodID {
			copied := method
			return &copied, nil
		}
	}

	return nil, domain.ErrPaymentMethodNotFound
}

func (s *MemoryStore) ListPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	methods := s.cards[userID]
	out := make([]domain.PaymentMethod, len(methods))
	copy(out, methods)

	return out, nil
}

// RemovePaymentMethod drops the card. Removing the default card leaves
// the remaining cards with no default; promotion of a replacement is a
// caller decision.
func (s *MemoryStore) RemovePaymentMethod(ctx context.Context, userID, methodID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	methods := s.cards[userID]
	for i, method := range methods {
		if method.ID == methodID {
			s.cards[userID] = append(methods[:i:i], methods[i+1:]...)
			return nil
		}
	}

	return domain.ErrPaymentMethodNotFound
}

// SetDefaultPaymentMethod flips the default flag to the matching card
// and clears it everywhere else in one critical section, so no reader
// ever observes two defaults.
func (s *MemoryStore) SetDefaultPaymentMethod(ctx context.Context, userID, methodID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	methods := s.cards[userID]
	found := false
	for i := range methods {
		if methods[i].ID == methodID {
			found = true
			break
		}
	}
	if !found {
		return domain.ErrPaymentMethodNotFound
	}

	for i := range methods {
		methods[i].IsDefault = methods[i].ID == methodID
	}

	return nil
}

// AddTransaction prepends so a user's history stays newest-first; the
// filter pipeline relies on this order and never re-sorts.
func (s *MemoryStore) AddTransaction(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.transactions[tx.UserID]
	updated := make([]domain.Transaction, 0, len(existing)+1)
	updated = append(updated, *tx)
	updated = append(updated, existing...)
	s.transactions[tx.UserID] = updated

	return nil
}

func (s *MemoryStore) GetTransaction(ctx context.Context, userID, txID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.transactions[userID] {
		if tx.ID == txID {
			copied := tx
			return &copied, nil
		}
	}

	return nil, domain.ErrTransactionNotFound
}

func (s *MemoryStore) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transactions := s.transactions[userID]
	out := make([]domain.Transaction, len(transactions))
	copy(out, transactions)

	return out, nil
}

func (s *MemoryStore) NextOperationNumber(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.operationCount++

	return fmt.Sprintf("OP%09d", s.operationCount), nil
}

func (s *MemoryStore) ListServices(ctx context.Context) ([]domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Service, 0, len(s.services))
	for _, svc := range s.services {
		if svc.IsActive {
			out = append(out, svc)
		}
	}

	return out, nil
}

func (s *MemoryStore) GetService(ctx context.Context, serviceID string) (*domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, svc := range s.services {
		if svc.ID == serviceID {
			copied := svc
			return &copied, nil
		}
	}

	return nil, domain.ErrServiceNotFound
}

// The public JSON shapes of User and PaymentMethod hide the password
// hash and CVV. The snapshot is internal state, not an API response, so
// it carries both through wrapper types.
type snapshotUser struct {
	domain.User
	PasswordHash string `json:"password_hash"`
}

type snapshotCard struct {
	domain.PaymentMethod
	CVV string `json:"cvv"`
}

// walletSnapshot is the persisted shape of the store. The service
// catalog is seeded code, not state, and stays out of it.
type walletSnapshot struct {
	Users          map[string]snapshotUser         `json:"users"`
	Cards          map[string][]snapshotCard       `json:"cards"`
	Transactions   map[string][]domain.Transaction `json:"transactions"`
	OperationCount uint64                          `json:"operation_count"`
}

func (s *MemoryStore) Snapshot(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := walletSnapshot{
		Users:          make(map[string]snapshotUser, len(s.users)),
		Cards:          make(map[string][]snapshotCard, len(s.cards)),
		Transactions:   s.transactions,
		OperationCount: s.operationCount,
	}
	for id, user := range s.users {
		snap.Users[id] = snapshotUser{User: *user, PasswordHash: user.PasswordHash}
	}
	for userID, methods := range s.cards {
		wrapped := make([]snapshotCard, len(methods))
		for i, method := range methods {
			wrapped[i] = snapshotCard{PaymentMethod: method, CVV: method.CVV}
		}
		snap.Cards[userID] = wrapped
	}

	return json.Marshal(snap)
}

// Restore replaces the store's state with a previously taken snapshot,
// exactly as serialized: insertion order, default flags, and the
// operation counter all come back verbatim.
func (s *MemoryStore) Restore(ctx context.Context, data []byte) error {
	var snap walletSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]*domain.User, len(snap.Users))
	s.emailIndex = make(map[string]string, len(snap.Users))
	for id, su := range snap.Users {
		user := su.User
		user.PasswordHash = su.PasswordHash
		s.users[id] = &user
		s.emailIndex[strings.ToLower(user.Email)] = id
	}

	s.cards = make(map[string][]domain.PaymentMethod, len(snap.Cards))
	for userID, wrapped := range snap.Cards {
		methods := make([]domain.PaymentMethod, len(wrapped))
		for i, sc := range wrapped {
			method := sc.PaymentMethod
			method.CVV = sc.CVV
			methods[i] = method
		}
		s.cards[userID] = methods
	}

	s.transactions = snap.Transactions
	if s.transactions == nil {
		s.transactions = make(map[string][]domain.Transaction)
	}

	if snap.OperationCount > operationNumberSeed {
		s.operationCount = snap.OperationCount
	} else {
		s.operationCount = operationNumberSeed
	}

	return nil
}
