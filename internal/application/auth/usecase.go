package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/pkg/jwt"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

var errInvalidCredentials = &domain.Error{Kind: domain.KindUnauthorized, Message: "Usuário ou senha inválidos"}

// AuthUseCase casos de uso de autenticación: login y usuario inicial.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	jwtCfg    JWTConfig
	log       zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, auditRepo repository.AuditRepository, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, auditRepo: auditRepo, jwtCfg: jwtCfg, log: log}
}

// Login verifica login/password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByLogin(ctx, in.Login)
	if err != nil {
		return nil, domain.Internal("Erro interno ao autenticar.", err)
	}
	if user == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errInvalidCredentials
		}
		return nil, domain.Internal("Erro interno ao autenticar.", err)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Login, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, domain.Internal("Erro interno ao autenticar.", err)
	}
	return &dto.LoginResponse{ID: user.ID, Login: user.Login, Token: token}, nil
}

// EnsureInitialUser crea el usuario admin cuando la tabla de usuarios está vacía.
// Devuelve true si lo creó.
func (uc *AuthUseCase) EnsureInitialUser(ctx context.Context, password string) (bool, error) {
	n, err := uc.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	user, err := uc.userRepo.Create(ctx, &entity.User{
		Login:        entity.InitialAdminLogin,
		Name:         "Administrador",
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}
	entry := entity.NewAuditEntry(entity.AuditTableUser, entity.ActorSystem, entity.OperationInsert,
		"Criação do usuário inicial "+user.Login)
	if _, err := uc.auditRepo.Record(ctx, entry); err != nil {
		uc.log.Warn().Err(err).Msg("registrar auditoría de usuario inicial")
	}
	uc.log.Info().Str("login", user.Login).Msg("usuario inicial creado")
	return true, nil
}
