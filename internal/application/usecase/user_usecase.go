package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// UserUseCase administración de personal y cuentas (solo admin): listar,
// cambiar rol, estado o sucursal asignada.
type UserUseCase struct {
	userRepo   repository.UserRepository
	branchRepo repository.BranchRepository
	log        zerolog.Logger
}

func NewUserUseCase(userRepo repository.UserRepository, branchRepo repository.BranchRepository, log zerolog.Logger) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, branchRepo: branchRepo, log: log}
}

// List lista usuarios; role vacío lista todos.
func (uc *UserUseCase) List(ctx context.Context, role string, limit, offset int) ([]*entity.User, error) {
	if role != "" && !validRole(role) {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.userRepo.List(role, limit, offset)
}

// Get devuelve un usuario por id.
func (uc *UserUseCase) Get(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// UpdateStaff cambia rol, estado o sucursal. Un admin no puede degradarse a
// sí mismo (evita dejar el sistema sin administradores por accidente).
func (uc *UserUseCase) UpdateStaff(ctx context.Context, targetID, actorID string, req dto.UpdateStaffRequest) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if req.Role != nil {
		if !validRole(*req.Role) {
			return nil, domain.ErrInvalidInput
		}
		if targetID == actorID && user.Role == entity.RoleAdmin && *req.Role != entity.RoleAdmin {
			return nil, domain.ErrForbidden
		}
		user.Role = *req.Role
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			return nil, domain.ErrInvalidInput
		}
		user.Status = *req.Status
	}
	if req.BranchID != nil {
		if *req.BranchID == "" {
			user.BranchID = nil
		} else {
			branch, err := uc.branchRepo.GetByID(*req.BranchID)
			if err != nil {
				return nil, err
			}
			if branch == nil {
				return nil, domain.ErrNotFound
			}
			user.BranchID = req.BranchID
		}
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", targetID).Str("role", user.Role).Str("status", user.Status).Msg("usuario actualizado")
	return user, nil
}

func validRole(role string) bool {
	switch role {
	case entity.RoleAdmin, entity.RoleVendedor, entity.RoleCliente:
		return true
	}
	return false
}

func validStatus(status string) bool {
	switch status {
	case "active", "inactive", "suspended":
		return true
	}
	return false
}
