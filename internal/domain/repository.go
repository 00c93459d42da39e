package domain

import "context"

type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateAlias(ctx context.Context, userID, alias string) error
	AdjustBalance(ctx context.Context, userID string, delta int64) (int64, error)

	// Payment methods
	AddPaymentMethod(ctx context.Context, method *PaymentMethod) error
	GetPaymentMethod(ctx context.Context, userID, methodID string) (*PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, userID string) ([]PaymentMethod, error)
	RemovePaymentMethod(ctx context.Context, userID, methodID string) error
	SetDefaultPaymentMethod(ctx context.Context, userID, methodID string) error

	// Transactions
	AddTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, userID, txID string) (*Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]Transaction, error)
	NextOperationNumber(ctx context.Context) (string, error)

	// Service catalog
	ListServices(ctx context.Context) ([]Service, error)
	GetService(ctx context.Context, serviceID string) (*Service, error)

	// Snapshot boundary
	Snapshot(ctx context.Context) ([]byte, error)
	Restore(ctx context.Context, data []byte) error
}
