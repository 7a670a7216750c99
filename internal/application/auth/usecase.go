package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/nutrition-program-api/internal/application/dto"
	"github.com/jhoicas/nutrition-program-api/internal/domain"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
	"github.com/jhoicas/nutrition-program-api/internal/domain/repository"
	"github.com/jhoicas/nutrition-program-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación y administración de usuarios.
type AuthUseCase struct {
	txRunner UsersTxRunner
	userRepo repository.UserRepository
	cache    IdentityCache // nil = sin caché
	jwtCfg   JWTConfig
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(txRunner UsersTxRunner, userRepo repository.UserRepository, cache IdentityCache, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{txRunner: txRunner, userRepo: userRepo, cache: cache, jwtCfg: jwtCfg, log: log}
}

// CreateUser crea un usuario (solo admin): hashea password con bcrypt y persiste.
// Para role=vo inserta también su fila vo_details en la misma transacción.
func (uc *AuthUseCase) CreateUser(ctx context.Context, caller entity.Identity, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !caller.Is(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: email y password (mínimo 8 caracteres) son requeridos", domain.ErrInvalidInput)
	}
	if !entity.IsValidRole(in.Role) {
		return nil, fmt.Errorf("%w: role debe ser admin, deo o vo", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunUsers(ctx, func(userRepo repository.UserRepository) error {
		existing, err := userRepo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		if user.Role != entity.RoleVO {
			return nil
		}
		return userRepo.CreateVODetails(ctx, &entity.VODetails{
			UserID:      user.ID,
			Designation: strings.TrimSpace(in.Designation),
			Office:      strings.TrimSpace(in.Office),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrInactiveUser
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// SetActive activa o desactiva un usuario (solo admin) e invalida su identidad cacheada.
func (uc *AuthUseCase) SetActive(ctx context.Context, caller entity.Identity, userID string, active bool) (*dto.UserResponse, error) {
	if !caller.Is(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.userRepo.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, userID); err != nil {
			uc.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo invalidar la identidad cacheada")
		}
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, caller entity.Identity) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
