package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
	repo "github.com/oksasatya/pawpatrol/internal/domain/repository"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

const minPasswordLen = 6

type AuthService struct {
	Users    repo.UserRepository
	Shelters repo.ShelterRepository
	JWT      *helpers.JWTManager
	Logger   *logrus.Logger
	// Compare verifies a password against a stored hash.
	Compare func(hash, plain string) bool
}

func NewAuthService(users repo.UserRepository, shelters repo.ShelterRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Shelters: shelters, JWT: jwt, Logger: logger, Compare: helpers.CompareHashAndPassword}
}

func (s *AuthService) compare(hash, plain string) bool {
	if s.Compare == nil {
		return helpers.CompareHashAndPassword(hash, plain)
	}
	return s.Compare(hash, plain)
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Name      string
	Password  string
	Type      entity.Role
	ShelterID string
}

// Register creates an account. A shelter-type account must name an existing shelter.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Password == "" {
		return nil, invalid("name and password are required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, invalid("password must be at least %d characters", minPasswordLen)
	}
	role := in.Type
	if role == "" {
		role = entity.RoleCivilian
	}
	if !role.Valid() {
		return nil, invalid("unknown user type %q", role)
	}

	u := &entity.User{Name: name, Role: role}
	if role == entity.RoleShelter {
		if in.ShelterID == "" {
			return nil, invalid("shelterId is required for shelter accounts")
		}
		if _, err := s.Shelters.GetByID(ctx, in.ShelterID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, notFound("shelter")
			}
			return nil, err
		}
		sid := in.ShelterID
		u.ShelterID = &sid
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u.Password = hash

	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrNameTaken
		}
		helpers.LogError(s.Logger, "create user failed", err, logrus.Fields{"name": name})
		return nil, err
	}
	return s.IssueToken(u)
}

// Login verifies the name/password pair and issues a token.
func (s *AuthService) Login(ctx context.Context, name, password string) (*AuthResult, error) {
	u, err := s.Users.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// unknown names cost one hash check too, so timing does not reveal accounts
			s.compare(helpers.DummyPasswordHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.compare(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.IssueToken(u)
}

// IssueToken signs a token carrying the user's current role and shelter.
func (s *AuthService) IssueToken(u *entity.User) (*AuthResult, error) {
	tok, exp, err := s.JWT.Generate(tokenPayload(u))
	if err != nil {
		helpers.LogError(s.Logger, "generate token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, err
	}
	return &AuthResult{User: u, Token: tok, ExpiresAt: exp}, nil
}
