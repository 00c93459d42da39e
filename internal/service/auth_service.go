package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/dmhouse/wallet-api/internal/domain"
	"github.com/dmhouse/wallet-api/internal/eventbus"
	"github.com/dmhouse/wallet-api/internal/validation"
	"github.com/dmhouse/wallet-api/pkg/logger"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	DNI             string `json:"dni"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	ValidateToken(token string) (string, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateAlias(ctx context.Context, userID, alias string) (*domain.User, error)
}

type authService struct {
	repo      domain.Repository
	bus       eventbus.EventBus
	logger    *logger.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(repo domain.Repository, bus eventbus.EventBus, log *logger.Logger, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		repo:      repo,
		bus:       bus,
		logger:    log,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	if !validation.Email(req.Email) {
		return nil, "", fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	if req.Password != req.ConfirmPassword {
		return nil, "", domain.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error(ctx, "Failed to hash password",
			"error", err,
		)
		return nil, "", err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		DNI:          req.DNI,
		CVU:          generateCVU(),
		Alias:        generateAlias(),
		Balance:      0,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			s.logger.Info(ctx, "Registration rejected, email taken")
		} else {
			s.logger.Error(ctx, "Failed to create user",
				"error", err,
			)
		}
		return nil, "", err
	}

	ctx = logger.WithUserID(ctx, user.ID)
	s.logger.Info(ctx, "User registered",
		"cvu", user.CVU,
	)

	s.notifyChange(ctx, user.ID, "user_registered")

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info(logger.WithUserID(ctx, user.ID), "Login rejected, wrong password")
		return nil, "", domain.ErrInvalidCredentials
	}

	ctx = logger.WithUserID(ctx, user.ID)
	s.logger.Info(ctx, "User logged in")

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *authService) generateToken(userID string) (string, error) {
	claims := &tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken returns the user id carried by a valid token.
func (s *authService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", domain.ErrInvalidToken
	}

	return claims.UserID, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetUser(logger.WithUserID(ctx, userID), userID)
}

func (s *authService) UpdateAlias(ctx context.Context, userID, alias string) (*domain.User, error) {
	ctx = logger.WithUserID(ctx, userID)

	alias = strings.TrimSpace(alias)
	if alias == "" {
		return nil, fmt.Errorf("%w: alias is required", domain.ErrValidation)
	}

	if err := s.repo.UpdateAlias(ctx, userID, alias); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Alias updated",
		"alias", alias,
	)

	s.notifyChange(ctx, userID, "alias_updated")

	return s.repo.GetUser(ctx, userID)
}

func (s *authService) notifyChange(ctx context.Context, userID, reason string) {
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

// generateCVU builds the 22-digit account number shown in the profile.
func generateCVU() string {
	var b strings.Builder
	b.Grow(22)
	for i := 0; i < 22; i++ {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}

var aliasWords = []string{
	"AGUA", "AIRE", "AMOR", "AZUL", "CASA", "CIELO", "FUEGO", "LUNA", "MAR", "PAZ",
	"ROCA", "SOL", "VIDA", "VIENTO", "ARBOL", "FLOR", "NUBE", "HIERBA", "ESTRELLA", "MONTANA",
	"RIO", "LAGO", "ARENA", "CAMPO", "TIERRA", "PIEDRA", "HOJA", "RAMA", "RAIZ", "FRUTO",
}

func generateAlias() string {
	return aliasWords[rand.Intn(len(aliasWords))] + "." +
		aliasWords[rand.Intn(len(aliasWords))] + "." +
		aliasWords[rand.Intn(len(aliasWords))]
}
