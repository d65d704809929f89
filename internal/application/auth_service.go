package application

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ghozali/disaster-incident-api/internal/domain/entity"
	"github.com/ghozali/disaster-incident-api/internal/domain/repository"
	"github.com/ghozali/disaster-incident-api/pkg/helpers"
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService registers accounts, verifies credentials and issues tokens.
type AuthService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Logger: logger}
}

// Register creates an account and issues a token for it.
// Fails with ErrEmailTaken when the email is already registered.
func (s *AuthService) Register(name, email, password string) (*entity.User, string, error) {
	existing, err := s.Repo.GetByEmail(email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &entity.User{Name: name, Email: email, Password: hash}
	if err := s.Repo.Create(u); err != nil {
		return nil, "", err
	}

	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies email/password and issues a token. Both an unknown email and
// a wrong password fail with the same ErrInvalidCredentials, so the response
// never reveals which check failed. Store faults pass through unchanged.
func (s *AuthService) Login(email, password string) (*entity.User, string, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, "", err
	}
	return u, token, nil
}

// CurrentUser resolves the account id embedded in a validated token.
func (s *AuthService) CurrentUser(id int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
