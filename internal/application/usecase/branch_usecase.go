package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// BranchUseCase administra sucursales (panel de administración).
type BranchUseCase struct {
	branchRepo repository.BranchRepository
	log        zerolog.Logger
}

func NewBranchUseCase(branchRepo repository.BranchRepository, log zerolog.Logger) *BranchUseCase {
	return &BranchUseCase{branchRepo: branchRepo, log: log}
}

func (uc *BranchUseCase) Create(ctx context.Context, req dto.CreateBranchRequest) (*entity.Branch, error) {
	if req.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Address:   req.Address,
		Phone:     req.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.branchRepo.Create(branch); err != nil {
		return nil, err
	}
	uc.log.Info().Str("branch_id", branch.ID).Str("name", branch.Name).Msg("sucursal creada")
	return branch, nil
}

func (uc *BranchUseCase) Get(ctx context.Context, id string) (*entity.Branch, error) {
	branch, err := uc.branchRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	return branch, nil
}

func (uc *BranchUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Branch, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.branchRepo.List(limit, offset)
}

func (uc *BranchUseCase) Update(ctx context.Context, id string, req dto.UpdateBranchRequest) (*entity.Branch, error) {
	branch, err := uc.branchRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.Phone != nil {
		branch.Phone = *req.Phone
	}
	if req.Active != nil {
		branch.Active = *req.Active
	}
	branch.UpdatedAt = time.Now()
	if err := uc.branchRepo.Update(branch); err != nil {
		return nil, err
	}
	return branch, nil
}

func (uc *BranchUseCase) Delete(ctx context.Context, id string) error {
	return uc.branchRepo.Delete(id)
}
