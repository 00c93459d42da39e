package domain

import "time"

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypePayment  TransactionType = "payment"
	TransactionTypeTransfer TransactionType = "transfer"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is immutable once recorded. Amounts are whole pesos:
// deposits are stored positive, payments and transfers negative. The
// sign is applied by the recording service, never by callers.
type Transaction struct {
	ID              string            `json:"id"`
	OperationNumber string            `json:"operation_number"`
	UserID          string            `json:"user_id"`
	Type            TransactionType   `json:"type"`
	Amount          int64             `json:"amount"`
	Description     string            `json:"description"`
	Destination     string            `json:"destination,omitempty"`
	Status          TransactionStatus `json:"status"`
	PaymentMethodID string            `json:"payment_method_id,omitempty"`
	ServiceID       string            `json:"service_id,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type CardType string

const (
	CardTypeCredit CardType = "credit"
	CardTypeDebit  CardType = "debit"
)

// PaymentMethod is a stored card. At most one card per user carries
// IsDefault; the first card added becomes the default automatically.
type PaymentMethod struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Type       CardType  `json:"type"`
	CardNumber string    `json:"card_number"`
	CardHolder string    `json:"card_holder"`
	ExpiryDate string    `json:"expiry_date"`
	CVV        string    `json:"-"`
	Brand      string    `json:"brand"`
	BrandLabel string    `json:"brand_label"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	DNI          string    `json:"dni"`
	CVU          string    `json:"cvu"`
	Alias        string    `json:"alias"`
	Balance      int64     `json:"balance"`
	CreatedAt    time.Time `json:"created_at"`
}

// Service is a payable utility or subscription from the seeded catalog.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

type TypeFilter string

const (
	TypeFilterAll     TypeFilter = "all"
	TypeFilterDeposit TypeFilter = "deposit"
	TypeFilterPayment TypeFilter = "payment"
)

type DateFilter string

const (
	DateFilterAll         DateFilter = "all"
	DateFilterToday       DateFilter = "today"
	DateFilterYesterday   DateFilter = "yesterday"
	DateFilterWeek        DateFilter = "week"
	DateFilterFifteenDays DateFilter = "fifteen_days"
	DateFilterMonth       DateFilter = "month"
	DateFilterThreeMonths DateFilter = "three_months"
)

type AmountFilter string

const (
	AmountFilterAll       AmountFilter = "all"
	AmountFilterUpTo1K    AmountFilter = "0-1000"
	AmountFilter1KTo5K    AmountFilter = "1000-5000"
	AmountFilter5KTo20K   AmountFilter = "5000-20000"
	AmountFilter20KTo100K AmountFilter = "20000-100000"
	AmountFilterOver100K  AmountFilter = "100000+"
)

// FilterState is the full set of activity filters selected by the user.
// The state returned by DefaultFilterState passes everything through.
type FilterState struct {
	Type   TypeFilter   `json:"type"`
	Date   DateFilter   `json:"date"`
	Amount AmountFilter `json:"amount"`
	Search string       `json:"search"`
}

func DefaultFilterState() FilterState {
	return FilterState{
		Type:   TypeFilterAll,
		Date:   DateFilterAll,
		Amount: AmountFilterAll,
	}
}
