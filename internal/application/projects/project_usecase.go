// Package projects casos de uso de seguimiento de proyectos y de su libro financiero
// (plan de pagos, pagos recibidos y desembolsos).
package projects

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/application/state"
	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/finance"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
	"github.com/jhoicas/rentability-pro/internal/domain/tracking"
)

// ProjectUseCase consulta y ciclo de vida de proyectos. No hay alta directa: los proyectos
// nacen al aprobar una cotización.
type ProjectUseCase struct {
	projects      repository.ProjectRepository
	plans         repository.PaymentPlanRepository
	payments      repository.PaymentRepository
	disbursements repository.DisbursementRepository
	store         *state.Store
	log           zerolog.Logger
	now           func() time.Time
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(
	projects repository.ProjectRepository,
	plans repository.PaymentPlanRepository,
	payments repository.PaymentRepository,
	disbursements repository.DisbursementRepository,
	store *state.Store,
	log zerolog.Logger,
) *ProjectUseCase {
	return &ProjectUseCase{
		projects:      projects,
		plans:         plans,
		payments:      payments,
		disbursements: disbursements,
		store:         store,
		log:           log,
		now:           time.Now,
	}
}

func (uc *ProjectUseCase) load(ctx context.Context, id string) (*entity.Project, error) {
	p, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// rollup recalcula el resumen financiero desde el conjunto completo de movimientos del proyecto.
func (uc *ProjectUseCase) rollup(ctx context.Context, projectID string) (finance.Summary, error) {
	plans, err := uc.plans.ListByProject(ctx, projectID)
	if err != nil {
		return finance.Summary{}, err
	}
	payments, err := uc.payments.ListByProject(ctx, projectID)
	if err != nil {
		return finance.Summary{}, err
	}
	disbursements, err := uc.disbursements.List(ctx, repository.DisbursementFilter{ProjectID: projectID})
	if err != nil {
		return finance.Summary{}, err
	}
	return finance.Rollup(derefAll(plans), derefAll(payments), derefAll(disbursements), uc.now()), nil
}

func derefAll[T any](list []*T) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		out = append(out, *v)
	}
	return out
}

// List proyectos filtrados por estado y cliente.
func (uc *ProjectUseCase) List(ctx context.Context, status, clientID string) ([]dto.ProjectResponse, error) {
	list, err := uc.projects.List(ctx, repository.ProjectFilter{Status: entity.ProjectStatus(status), ClientID: clientID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.NewProjectResponse(p))
	}
	return out, nil
}

// Get proyecto con su resumen financiero recalculado.
func (uc *ProjectUseCase) Get(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s, err := uc.rollup(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewProjectResponse(p)
	out.Summary = dto.NewProjectSummary(s, uc.now())
	return &out, nil
}

// Summary solo el resumen financiero.
func (uc *ProjectUseCase) Summary(ctx context.Context, id string) (*dto.ProjectSummary, error) {
	if _, err := uc.load(ctx, id); err != nil {
		return nil, err
	}
	s, err := uc.rollup(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewProjectSummary(s, uc.now()), nil
}

func (uc *ProjectUseCase) save(ctx context.Context, p *entity.Project) (*dto.ProjectResponse, error) {
	p.UpdatedAt = uc.now()
	if err := uc.projects.Update(ctx, p); err != nil {
		uc.log.Error().Err(err).Str("proyecto_id", p.ID).Msg("actualizar proyecto")
		return nil, err
	}
	uc.store.Dispatch(state.ProjectSaved{Project: *p})
	out := dto.NewProjectResponse(p)
	return &out, nil
}

// Update campos editables: nombre, descripción, fechas y notas.
func (uc *ProjectUseCase) Update(ctx context.Context, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	name := strings.TrimSpace(in.Name)
	var v domain.Validation
	v.Check(name != "", "El nombre del proyecto es obligatorio")
	start, err := dto.ParseDate(in.StartDate)
	v.Check(err == nil, "fecha_inicio debe tener formato YYYY-MM-DD")
	end, err := dto.ParseDate(in.EstimatedEndDate)
	v.Check(err == nil, "fecha_fin_estimada debe tener formato YYYY-MM-DD")
	if err := v.Err(); err != nil {
		return nil, err
	}

	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.Description = strings.TrimSpace(in.Description)
	p.Notes = strings.TrimSpace(in.Notes)
	if !start.IsZero() {
		p.StartDate = start
	}
	if end.IsZero() {
		p.EstimatedEndDate = nil
	} else {
		p.EstimatedEndDate = &end
	}
	if p.EstimatedEndDate != nil && p.EstimatedEndDate.Before(p.StartDate) {
		return nil, domain.NewValidationError([]string{"La fecha fin estimada no puede ser anterior a la fecha de inicio"})
	}
	return uc.save(ctx, p)
}

// SetProgress guarda el avance limitado a 0..100. Llegar a 100 no completa el proyecto.
func (uc *ProjectUseCase) SetProgress(ctx context.Context, id string, progress int) (*dto.ProjectResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsClosed() {
		return nil, domain.ErrInvalidTransition
	}
	p.Progress = tracking.ClampProgress(progress)
	return uc.save(ctx, p)
}

func (uc *ProjectUseCase) lifecycle(ctx context.Context, id string, apply func(*entity.Project) error) (*dto.ProjectResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	from := p.Status
	if err := apply(p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("proyecto_id", id).Str("de", string(from)).Str("a", string(p.Status)).Msg("proyecto cambió de estado")
	return uc.save(ctx, p)
}

// Pause activo → pausado.
func (uc *ProjectUseCase) Pause(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	return uc.lifecycle(ctx, id, tracking.Pause)
}

// Resume pausado → activo.
func (uc *ProjectUseCase) Resume(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	return uc.lifecycle(ctx, id, tracking.Resume)
}

// Cancel activo|pausado → cancelado.
func (uc *ProjectUseCase) Cancel(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	return uc.lifecycle(ctx, id, tracking.Cancel)
}

// Complete congela costo real (gastado) y rentabilidad real (recibido − gastado).
func (uc *ProjectUseCase) Complete(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	s, err := uc.rollup(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.lifecycle(ctx, id, func(p *entity.Project) error {
		return tracking.Complete(p, s.TotalSpent, s.ActualProfit, uc.now())
	})
}
