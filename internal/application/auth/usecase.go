package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
	"github.com/jhoicas/sigra-api/pkg/jwt"
	"github.com/jhoicas/sigra-api/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenType        = "bearer"
	maxPasswordBytes = 72
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TxRunner ejecuta fn dentro de una transacción con el repo de trabajadores atado a ella.
type TxRunner interface {
	RunWorkers(ctx context.Context, fn func(workerRepo repository.WorkerRepository) error) error
}

// AuthUseCase casos de uso de identidad: login, cambio de contraseña y resolución de tokens.
type AuthUseCase struct {
	workerRepo repository.WorkerRepository
	txRunner   TxRunner
	jwtCfg     JWTConfig
	metrics    *metrics.Metrics
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(workerRepo repository.WorkerRepository, txRunner TxRunner, jwtCfg JWTConfig, m *metrics.Metrics) *AuthUseCase {
	if m == nil {
		m = metrics.Nop()
	}
	return &AuthUseCase{workerRepo: workerRepo, txRunner: txRunner, jwtCfg: jwtCfg, metrics: m}
}

// Authenticate verifica RUT/contraseña. Si el trabajador debe cambiar su contraseña
// devuelve dto.FirstLoginMarker en lugar de un token utilizable.
func (uc *AuthUseCase) Authenticate(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	w, err := uc.workerRepo.GetByRUT(ctx, in.RUT)
	if err != nil {
		return nil, fmt.Errorf("login: obtener trabajador: %w", err)
	}
	if w == nil || !passwordMatches(w, in.Password) {
		uc.metrics.LoginResult("invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}
	if !w.IsActive() {
		uc.metrics.LoginResult("inactive")
		return nil, domain.ErrAccountInactive
	}
	if w.MustChangePassword {
		uc.metrics.LoginResult("first_login")
		return &dto.LoginResponse{
			AccessToken:           dto.FirstLoginMarker,
			TokenType:             tokenType,
			RequirePasswordChange: true,
		}, nil
	}
	token, err := uc.issue(w)
	if err != nil {
		return nil, err
	}
	uc.metrics.LoginResult("ok")
	return &dto.LoginResponse{AccessToken: token, TokenType: tokenType}, nil
}

// ChangePassword admite dos caminos: un token válido identifica al trabajador, o bien
// (sin token válido) el RUT del cuerpo corresponde a un trabajador en primer inicio.
// En ambos casos se exige la contraseña actual. Devuelve un token nuevo.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, bearerToken string, in dto.ChangePasswordRequest) (*dto.TokenResponse, error) {
	if in.Password == in.NewPassword {
		return nil, fmt.Errorf("%w: la nueva contraseña debe ser distinta de la actual", domain.ErrInvalidInput)
	}
	// validator cuenta runas; bcrypt limita en bytes.
	if len(in.NewPassword) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: la nueva contraseña no puede superar %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("cambiar contraseña: hash: %w", err)
	}

	rut, fromToken := uc.rutFromToken(bearerToken)
	if !fromToken {
		if in.RUT <= 0 {
			return nil, domain.ErrUnauthorized
		}
		rut = in.RUT
	}

	var updated *entity.Worker
	err = uc.txRunner.RunWorkers(ctx, func(workerRepo repository.WorkerRepository) error {
		w, err := workerRepo.GetByRUTForUpdate(ctx, rut)
		if err != nil {
			return fmt.Errorf("cambiar contraseña: obtener trabajador: %w", err)
		}
		if w == nil {
			return domain.ErrUnauthorized
		}
		if !fromToken && !w.MustChangePassword {
			return domain.ErrUnauthorized
		}
		if !passwordMatches(w, in.Password) {
			return domain.ErrInvalidCredentials
		}
		if !w.IsActive() {
			return domain.ErrAccountInactive
		}
		if err := workerRepo.UpdateCredentials(ctx, w.RUT, string(newHash), false); err != nil {
			return err
		}
		w.PasswordHash = string(newHash)
		w.MustChangePassword = false
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := uc.issue(updated)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: tokenType}, nil
}

// ResolveToken valida firma y expiración y carga el trabajador del token.
// Un trabajador inexistente es un token inválido; uno inactivo, ErrAccountInactive.
func (uc *AuthUseCase) ResolveToken(ctx context.Context, token string) (*entity.Worker, error) {
	rut, _, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	w, err := uc.workerRepo.GetByRUT(ctx, rut)
	if err != nil {
		return nil, fmt.Errorf("resolver token: %w", err)
	}
	if w == nil {
		return nil, domain.ErrInvalidToken
	}
	if !w.IsActive() {
		return nil, domain.ErrAccountInactive
	}
	return w, nil
}

// rutFromToken devuelve el RUT del token si es válido. El marcador de primer inicio nunca lo es.
func (uc *AuthUseCase) rutFromToken(token string) (int64, bool) {
	if token == "" || token == dto.FirstLoginMarker {
		return 0, false
	}
	rut, _, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return 0, false
	}
	return rut, true
}

func (uc *AuthUseCase) issue(w *entity.Worker) (string, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, w.RUT, int(w.RoleID), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return "", fmt.Errorf("emitir token: %w", err)
	}
	return token, nil
}

func passwordMatches(w *entity.Worker, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(w.PasswordHash), []byte(password)) == nil
}
