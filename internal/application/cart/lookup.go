package cart

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// repoLookup adapta el puerto ProductRepository al contrato ProductLookup.
type repoLookup struct {
	repo repository.ProductRepository
}

// NewRepositoryLookup resuelve snapshots de producto contra el catálogo persistido.
func NewRepositoryLookup(repo repository.ProductRepository) ProductLookup {
	return &repoLookup{repo: repo}
}

func (l *repoLookup) FetchByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	return l.repo.ListByIDs(ids)
}
