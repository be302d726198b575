package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/finance"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
)

// LedgerUseCase plan de pagos, pagos recibidos y desembolsos.
type LedgerUseCase struct {
	tx            repository.TxRunner
	projects      repository.ProjectRepository
	plans         repository.PaymentPlanRepository
	payments      repository.PaymentRepository
	disbursements repository.DisbursementRepository
	log           zerolog.Logger
	now           func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	tx repository.TxRunner,
	projects repository.ProjectRepository,
	plans repository.PaymentPlanRepository,
	payments repository.PaymentRepository,
	disbursements repository.DisbursementRepository,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		tx:            tx,
		projects:      projects,
		plans:         plans,
		payments:      payments,
		disbursements: disbursements,
		log:           log,
		now:           time.Now,
	}
}

func (uc *LedgerUseCase) project(ctx context.Context, id string) (*entity.Project, error) {
	p, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ── Plan de pagos ─────────────────────────────────────────────────────────────

// ListPlans plan del proyecto con estado efectivo y suma de porcentajes.
func (uc *LedgerUseCase) ListPlans(ctx context.Context, projectID string) (*dto.PaymentPlanListResponse, error) {
	if _, err := uc.project(ctx, projectID); err != nil {
		return nil, err
	}
	list, err := uc.plans.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := dto.NewPaymentPlanList(derefAll(list), uc.now())
	return &out, nil
}

func planFromRequest(i int, in dto.PaymentPlanItemRequest, v *domain.Validation) entity.PaymentPlan {
	p := entity.PaymentPlan{
		Number:      in.Number,
		Amount:      in.Amount,
		Type:        finance.NormalizeType(in.Type),
		Percent:     in.Percent,
		Status:      entity.InstallmentStatus(strings.TrimSpace(in.Status)),
		Description: strings.TrimSpace(in.Description),
	}
	if p.Number == 0 {
		p.Number = i + 1
	}
	if p.Status == "" {
		p.Status = entity.InstallmentPending
	}
	due, err := dto.ParseDate(in.DueDate)
	if err != nil {
		v.Add(fmt.Sprintf("Cuota %d: fecha_vencimiento debe tener formato YYYY-MM-DD", i+1))
	}
	p.DueDate = due
	return p
}

// SavePlan reemplaza el plan completo del proyecto. Si los porcentajes no suman 100 y no
// se confirmó, devuelve la advertencia sin guardar.
func (uc *LedgerUseCase) SavePlan(ctx context.Context, projectID string, in dto.SavePlanRequest) (*dto.PaymentPlanListResponse, error) {
	if _, err := uc.project(ctx, projectID); err != nil {
		return nil, err
	}
	var v domain.Validation
	plans := make([]entity.PaymentPlan, 0, len(in.Items))
	for i, it := range in.Items {
		plans = append(plans, planFromRequest(i, it, &v))
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return uc.storePlan(ctx, projectID, plans, in.Confirm)
}

func (uc *LedgerUseCase) storePlan(ctx context.Context, projectID string, plans []entity.PaymentPlan, confirm bool) (*dto.PaymentPlanListResponse, error) {
	if err := finance.ValidatePlan(plans); err != nil {
		return nil, err
	}
	if w := finance.CheckPercentages(plans); w != nil && len(plans) > 0 && !confirm {
		return nil, w
	}
	finance.SortPlans(plans)

	now := uc.now()
	batch := make([]*entity.PaymentPlan, 0, len(plans))
	for i := range plans {
		plans[i].ID = uuid.New().String()
		plans[i].ProjectID = projectID
		plans[i].CreatedAt = now
		plans[i].UpdatedAt = now
		batch = append(batch, &plans[i])
	}
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		return r.Plans.ReplaceForProject(ctx, projectID, batch)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("proyecto_id", projectID).Msg("guardar plan de pagos")
		return nil, err
	}
	uc.log.Info().Str("proyecto_id", projectID).Int("cuotas", len(plans)).Msg("plan de pagos guardado")
	out := dto.NewPaymentPlanList(plans, now)
	return &out, nil
}

// ApplyTemplate genera el plan desde una plantilla usando el valor total y las fechas del
// proyecto. Con Save=false solo devuelve la vista previa.
func (uc *LedgerUseCase) ApplyTemplate(ctx context.Context, projectID string, in dto.PlanTemplateRequest) (*dto.PaymentPlanListResponse, error) {
	p, err := uc.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	plans, err := finance.FromTemplate(in.Template, p.TotalValue, p.StartDate, p.EstimatedEndDate, now)
	if err != nil {
		return nil, err
	}
	if !in.Save {
		for i := range plans {
			plans[i].ProjectID = projectID
		}
		out := dto.NewPaymentPlanList(plans, now)
		return &out, nil
	}
	return uc.storePlan(ctx, projectID, plans, true)
}

// UpdatePlan edita una cuota individual.
func (uc *LedgerUseCase) UpdatePlan(ctx context.Context, id string, in dto.PaymentPlanItemRequest) (*dto.PaymentPlanResponse, error) {
	current, err := uc.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	var v domain.Validation
	p := planFromRequest(0, in, &v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if in.Number == 0 {
		p.Number = current.Number
	}
	if in.Status == "" {
		p.Status = current.Status
	}
	if err := finance.ValidatePlan([]entity.PaymentPlan{p}); err != nil {
		return nil, err
	}
	p.ID = current.ID
	p.ProjectID = current.ProjectID
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = uc.now()
	if err := uc.plans.Update(ctx, &p); err != nil {
		return nil, err
	}
	out := dto.NewPaymentPlanResponse(&p, uc.now())
	return &out, nil
}

// DeletePlan elimina una cuota; los pagos asociados quedan sin cuota.
func (uc *LedgerUseCase) DeletePlan(ctx context.Context, id string) error {
	return uc.plans.Delete(ctx, id)
}

// ── Pagos ─────────────────────────────────────────────────────────────────────

// ListPayments pagos del proyecto, más recientes primero.
func (uc *LedgerUseCase) ListPayments(ctx context.Context, projectID string) ([]dto.PaymentResponse, error) {
	if _, err := uc.project(ctx, projectID); err != nil {
		return nil, err
	}
	list, err := uc.payments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.NewPaymentResponse(p))
	}
	return out, nil
}

// reconcile recalcula el estado almacenado de la cuota a partir de lo pagado contra ella.
func reconcile(ctx context.Context, r repository.TxRepos, planID string, at time.Time) error {
	if planID == "" {
		return nil
	}
	plan, err := r.Plans.GetByID(ctx, planID)
	if err != nil || plan == nil {
		return err
	}
	paid, err := r.Payments.SumByPlan(ctx, planID)
	if err != nil {
		return err
	}
	status := finance.InstallmentStatusFor(plan.Amount, paid)
	if status == plan.Status {
		return nil
	}
	return r.Plans.UpdateStatus(ctx, planID, status, at)
}

// RegisterPayment registra un pago y actualiza el estado de la cuota asociada.
func (uc *LedgerUseCase) RegisterPayment(ctx context.Context, userID string, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	now := uc.now()
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return nil, domain.NewValidationError([]string{"fecha debe tener formato YYYY-MM-DD"})
	}
	if date.IsZero() {
		date = entity.DateOnly(now)
	}
	p := &entity.Payment{
		ID:            uuid.New().String(),
		ProjectID:     strings.TrimSpace(in.ProjectID),
		PaymentPlanID: strings.TrimSpace(in.PaymentPlanID),
		Date:          date,
		Amount:        in.Amount,
		Method:        strings.ToLower(strings.TrimSpace(in.Method)),
		Reference:     strings.TrimSpace(in.Reference),
		Notes:         in.Notes,
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	if err := finance.ValidatePayment(p); err != nil {
		return nil, err
	}
	if _, err := uc.project(ctx, p.ProjectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError([]string{"El proyecto no existe"})
		}
		return nil, err
	}
	if p.PaymentPlanID != "" {
		plan, err := uc.plans.GetByID(ctx, p.PaymentPlanID)
		if err != nil {
			return nil, err
		}
		if plan == nil || plan.ProjectID != p.ProjectID {
			return nil, domain.NewValidationError([]string{"La cuota no pertenece al proyecto"})
		}
	}

	err = uc.tx.Run(ctx, func(r repository.TxRepos) error {
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		return reconcile(ctx, r, p.PaymentPlanID, now)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("proyecto_id", p.ProjectID).Msg("registrar pago")
		return nil, err
	}
	uc.log.Info().Str("proyecto_id", p.ProjectID).Str("monto", p.Amount.String()).Msg("pago registrado")
	out := dto.NewPaymentResponse(p)
	return &out, nil
}

// DeletePayment elimina un pago (corrección) y recalcula la cuota que cubría.
func (uc *LedgerUseCase) DeletePayment(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(r repository.TxRepos) error {
		p, err := r.Payments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := r.Payments.Delete(ctx, id); err != nil {
			return err
		}
		return reconcile(ctx, r, p.PaymentPlanID, uc.now())
	})
}

// ── Desembolsos ───────────────────────────────────────────────────────────────

// ListDisbursements desembolsos filtrados.
func (uc *LedgerUseCase) ListDisbursements(ctx context.Context, f repository.DisbursementFilter) ([]dto.DisbursementResponse, error) {
	list, err := uc.disbursements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DisbursementResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.NewDisbursementResponse(d))
	}
	return out, nil
}

func (uc *LedgerUseCase) fillDisbursement(d *entity.Disbursement, in dto.DisbursementRequest) error {
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return domain.NewValidationError([]string{"fecha debe tener formato YYYY-MM-DD"})
	}
	if date.IsZero() {
		date = entity.DateOnly(uc.now())
	}
	d.ProjectID = strings.TrimSpace(in.ProjectID)
	d.CategoryID = strings.TrimSpace(in.CategoryID)
	d.Date = date
	d.Description = strings.TrimSpace(in.Description)
	d.Amount = in.Amount
	d.Vendor = strings.TrimSpace(in.Vendor)
	d.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	d.Method = strings.ToLower(strings.TrimSpace(in.Method))
	d.Notes = in.Notes
	return nil
}

// CreateDisbursement registra un gasto. Sin estado explícito queda pendiente.
func (uc *LedgerUseCase) CreateDisbursement(ctx context.Context, userID string, in dto.DisbursementRequest) (*dto.DisbursementResponse, error) {
	now := uc.now()
	d := &entity.Disbursement{
		ID:        uuid.New().String(),
		Status:    entity.DisbursementStatus(in.Status),
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if d.Status == "" {
		d.Status = entity.DisbursementPending
	}
	if err := uc.fillDisbursement(d, in); err != nil {
		return nil, err
	}
	if err := finance.ValidateDisbursement(d); err != nil {
		return nil, err
	}
	if err := uc.disbursements.Create(ctx, d); err != nil {
		return nil, err
	}
	out := dto.NewDisbursementResponse(d)
	return &out, nil
}

// UpdateDisbursement edita los datos del gasto. El estado solo cambia con ChangeDisbursementStatus.
func (uc *LedgerUseCase) UpdateDisbursement(ctx context.Context, id string, in dto.DisbursementRequest) (*dto.DisbursementResponse, error) {
	d, err := uc.disbursements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.fillDisbursement(d, in); err != nil {
		return nil, err
	}
	if err := finance.ValidateDisbursement(d); err != nil {
		return nil, err
	}
	d.UpdatedAt = uc.now()
	if err := uc.disbursements.Update(ctx, d); err != nil {
		return nil, err
	}
	out := dto.NewDisbursementResponse(d)
	return &out, nil
}

// ChangeDisbursementStatus avanza el estado: pendiente → aprobado → pagado (o pendiente → pagado).
func (uc *LedgerUseCase) ChangeDisbursementStatus(ctx context.Context, id, status string) (*dto.DisbursementResponse, error) {
	d, err := uc.disbursements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	from := d.Status
	if err := finance.AdvanceDisbursement(d, entity.DisbursementStatus(status)); err != nil {
		return nil, err
	}
	d.UpdatedAt = uc.now()
	if err := uc.disbursements.Update(ctx, d); err != nil {
		return nil, err
	}
	uc.log.Info().Str("desembolso_id", id).Str("de", string(from)).Str("a", status).Msg("desembolso cambió de estado")
	out := dto.NewDisbursementResponse(d)
	return &out, nil
}

// DeleteDisbursement elimina un desembolso.
func (uc *LedgerUseCase) DeleteDisbursement(ctx context.Context, id string) error {
	return uc.disbursements.Delete(ctx, id)
}
