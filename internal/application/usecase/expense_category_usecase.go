package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

// ExpenseCategoryUseCase CRUD de categorías de desembolso.
type ExpenseCategoryUseCase struct {
	repo repository.ExpenseCategoryRepository
}

// NewExpenseCategoryUseCase construye el caso de uso.
func NewExpenseCategoryUseCase(repo repository.ExpenseCategoryRepository) *ExpenseCategoryUseCase {
	return &ExpenseCategoryUseCase{repo: repo}
}

func (uc *ExpenseCategoryUseCase) Create(ctx context.Context, in dto.ExpenseCategoryRequest) (*dto.ExpenseCategoryResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError([]string{"El nombre de la categoría es obligatorio"})
	}
	c := &entity.ExpenseCategory{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Color:       in.Color,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := dto.NewExpenseCategoryResponse(c)
	return &out, nil
}

func (uc *ExpenseCategoryUseCase) List(ctx context.Context, activeOnly bool) ([]dto.ExpenseCategoryResponse, error) {
	list, err := uc.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseCategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewExpenseCategoryResponse(c))
	}
	return out, nil
}

func (uc *ExpenseCategoryUseCase) Update(ctx context.Context, id string, in dto.ExpenseCategoryRequest) (*dto.ExpenseCategoryResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError([]string{"El nombre de la categoría es obligatorio"})
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	c.Color = in.Color
	if in.Active != nil {
		c.Active = *in.Active
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	out := dto.NewExpenseCategoryResponse(c)
	return &out, nil
}

// Delete falla con domain.ErrConflict si la categoría tiene desembolsos.
func (uc *ExpenseCategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
