package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	appjwt "github.com/jhoicas/tienda-api/pkg/jwt"
)

// UseCase registro y login. Los registros públicos siempre crean clientes;
// el personal (admin/vendedor) se gestiona desde el panel de administración.
type UseCase struct {
	userRepo   repository.UserRepository
	jwtSecret  string
	jwtIssuer  string
	expMinutes int
	log        zerolog.Logger
}

func NewUseCase(userRepo repository.UserRepository, jwtSecret, jwtIssuer string, expMinutes int, log zerolog.Logger) *UseCase {
	return &UseCase{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		jwtIssuer:  jwtIssuer,
		expMinutes: expMinutes,
		log:        log,
	}
}

// Register crea una cuenta de cliente con la contraseña hasheada (bcrypt).
func (uc *UseCase) Register(ctx context.Context, req dto.RegisterRequest) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") || len(req.Password) < 8 || req.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         entity.RoleCliente,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	uc.log.Info().Str("user_id", user.ID).Str("email", email).Msg("usuario registrado")
	return user, nil
}

// Login valida credenciales y emite el JWT con el rol como claim. Credencial
// inválida y cuenta inexistente responden igual para no filtrar existencia.
func (uc *UseCase) Login(ctx context.Context, req dto.LoginRequest) (string, *entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return "", nil, domain.ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}

	token, err := appjwt.Generate(uc.jwtSecret, user.ID, user.Role, uc.jwtIssuer, uc.expMinutes)
	if err != nil {
		return "", nil, err
	}

	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("login exitoso")
	return token, user, nil
}
