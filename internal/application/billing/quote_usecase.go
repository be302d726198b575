// Package billing casos de uso de cotizaciones: edición, ciclo de vida, aprobación y documento PDF.
package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentability-pro/internal/application/dto"
	"github.com/jhoicas/rentability-pro/internal/application/state"
	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/pricing"
	"github.com/jhoicas/rentability-pro/internal/domain/quoting"
	"github.com/jhoicas/rentability-pro/internal/domain/repository"
	"github.com/jhoicas/rentability-pro/internal/domain/tracking"
)

// CodeApprovalConfirmation código de la advertencia devuelta al aprobar sin confirmar.
const CodeApprovalConfirmation = "CONFIRMATION_REQUIRED"

// QuoteUseCase cotizaciones y su máquina de estados.
type QuoteUseCase struct {
	tx       repository.TxRunner
	quotes   repository.QuoteRepository
	services repository.ServiceRepository
	store    *state.Store
	log      zerolog.Logger
	now      func() time.Time
}

// NewQuoteUseCase construye el caso de uso.
func NewQuoteUseCase(
	tx repository.TxRunner,
	quotes repository.QuoteRepository,
	services repository.ServiceRepository,
	store *state.Store,
	log zerolog.Logger,
) *QuoteUseCase {
	return &QuoteUseCase{tx: tx, quotes: quotes, services: services, store: store, log: log, now: time.Now}
}

// build arma la cotización desde el request aplicando los valores por defecto de la configuración.
func (uc *QuoteUseCase) build(q *entity.Quote, in dto.QuoteRequest, defaults entity.QuoteDefaults) error {
	var v domain.Validation
	issue, err := dto.ParseDate(in.IssueDate)
	v.Check(err == nil, "fecha_emision debe tener formato YYYY-MM-DD")
	validUntil, err := dto.ParseDate(in.ValidUntil)
	v.Check(err == nil, "fecha_validez debe tener formato YYYY-MM-DD")
	if err := v.Err(); err != nil {
		return err
	}
	if issue.IsZero() {
		issue = entity.DateOnly(uc.now())
	}
	if validUntil.IsZero() {
		days := defaults.ValidityDays
		if days <= 0 {
			days = 30
		}
		validUntil = issue.AddDate(0, 0, days)
	}

	q.ClientID = strings.TrimSpace(in.ClientID)
	q.Title = strings.TrimSpace(in.Title)
	q.IssueDate = issue
	q.ValidUntil = validUntil
	q.EstimatedDays = in.EstimatedDays
	q.DiscountPercent = in.DiscountPercent
	q.VATPercent = defaults.VATPercent
	if in.VATPercent != nil {
		q.VATPercent = *in.VATPercent
	}
	q.Notes = in.Notes
	q.Terms = in.Terms
	if strings.TrimSpace(q.Terms) == "" {
		q.Terms = defaults.Terms
	}
	q.Items = make([]entity.QuoteItem, 0, len(in.Items))
	for _, it := range in.Items {
		q.Items = append(q.Items, entity.QuoteItem{
			ID:              uuid.New().String(),
			QuoteID:         q.ID,
			ServiceID:       strings.TrimSpace(it.ServiceID),
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
		})
	}
	if err := quoting.Validate(q); err != nil {
		return err
	}
	quoting.Apply(q)
	return nil
}

func distinctServices(items []entity.QuoteItem) []string {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it.ServiceID] {
			seen[it.ServiceID] = true
			ids = append(ids, it.ServiceID)
		}
	}
	return ids
}

// addedServices servicios distintos de items que no estaban en before.
func addedServices(before []string, items []entity.QuoteItem) []string {
	had := make(map[string]bool, len(before))
	for _, id := range before {
		had[id] = true
	}
	var added []string
	for _, id := range distinctServices(items) {
		if !had[id] {
			added = append(added, id)
		}
	}
	return added
}

// response resuelve nombres de cliente y servicios desde el store.
func (uc *QuoteUseCase) response(q *entity.Quote) dto.QuoteResponse {
	st := uc.store.Snapshot()
	names := make(map[string]string, len(q.Items))
	for _, it := range q.Items {
		if s, ok := st.Services[it.ServiceID]; ok {
			names[it.ServiceID] = s.Name
		}
	}
	clientName := ""
	if c, ok := st.Clients[q.ClientID]; ok {
		clientName = c.Name
	}
	return dto.NewQuoteResponse(q, uc.now(), clientName, names)
}

// refreshServices vuelve a leer los servicios cuyos contadores cambiaron y los despacha al store.
func (uc *QuoteUseCase) refreshServices(ctx context.Context, ids []string) {
	byID, err := uc.services.GetByIDs(ctx, ids)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudieron refrescar los contadores de servicios")
		return
	}
	for _, s := range byID {
		uc.store.Dispatch(state.ServiceSaved{Service: *s})
	}
}

// Create crea la cotización en borrador con su consecutivo y suma veces_cotizado a cada servicio distinto.
func (uc *QuoteUseCase) Create(ctx context.Context, userID string, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	defaults := uc.store.Snapshot().Settings.QuoteDefaults
	now := uc.now()
	q := &entity.Quote{
		ID:        uuid.New().String(),
		Status:    entity.QuoteStatusDraft,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.build(q, in, defaults); err != nil {
		return nil, err
	}

	serviceIDs := distinctServices(q.Items)
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		seq, err := r.Quotes.NextSequence(ctx)
		if err != nil {
			return err
		}
		q.Sequence = seq
		q.Number = defaults.FormatNumber(seq)
		if err := r.Quotes.Create(ctx, q); err != nil {
			return err
		}
		return r.Services.IncrementQuoted(ctx, serviceIDs)
	})
	if err != nil {
		uc.log.Error().Err(err).Msg("crear cotización")
		return nil, err
	}
	uc.store.Dispatch(state.QuoteSaved{Quote: *q})
	uc.refreshServices(ctx, serviceIDs)

	out := uc.response(q)
	return &out, nil
}

func (uc *QuoteUseCase) load(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := uc.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return q, nil
}

// GetByID cotización con ítems.
func (uc *QuoteUseCase) GetByID(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	q, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := uc.response(q)
	return &out, nil
}

// List cabeceras. status admite "vencida", que se resuelve sobre las enviadas.
func (uc *QuoteUseCase) List(ctx context.Context, status, clientID string, page dto.PageRequest) ([]dto.QuoteResponse, error) {
	page.DefaultPage()
	f := repository.QuoteFilter{Status: entity.QuoteStatus(status), ClientID: clientID, Limit: page.Limit, Offset: page.Offset}
	wantExpired := f.Status == entity.QuoteStatusExpired
	if wantExpired {
		f.Status = entity.QuoteStatusSent
		f.Limit, f.Offset = 0, 0
	}
	list, err := uc.quotes.List(ctx, f)
	if err != nil {
		return nil, err
	}
	today := uc.now()
	out := make([]dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		if f.Status == entity.QuoteStatusSent && (q.EffectiveStatus(today) == entity.QuoteStatusExpired) != wantExpired {
			continue
		}
		out = append(out, uc.response(q))
	}
	if wantExpired {
		if page.Offset >= len(out) {
			return []dto.QuoteResponse{}, nil
		}
		out = out[page.Offset:]
		if len(out) > page.Limit {
			out = out[:page.Limit]
		}
	}
	return out, nil
}

// Update reescribe una cotización en borrador.
func (uc *QuoteUseCase) Update(ctx context.Context, id string, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	q, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := quoting.EnsureEditable(q); err != nil {
		return nil, err
	}
	before := distinctServices(q.Items)
	if err := uc.build(q, in, uc.store.Snapshot().Settings.QuoteDefaults); err != nil {
		return nil, err
	}
	added := addedServices(before, q.Items)
	q.UpdatedAt = uc.now()
	err = uc.tx.Run(ctx, func(r repository.TxRepos) error {
		if err := r.Quotes.Update(ctx, q); err != nil {
			return err
		}
		return r.Services.IncrementQuoted(ctx, added)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("cotizacion_id", id).Msg("actualizar cotización")
		return nil, err
	}
	uc.store.Dispatch(state.QuoteSaved{Quote: *q})
	if len(added) > 0 {
		uc.refreshServices(ctx, added)
	}
	out := uc.response(q)
	return &out, nil
}

// Delete elimina una cotización en borrador.
func (uc *QuoteUseCase) Delete(ctx context.Context, id string) error {
	q, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if err := quoting.EnsureEditable(q); err != nil {
		return err
	}
	if err := uc.quotes.Delete(ctx, id); err != nil {
		return err
	}
	uc.store.Dispatch(state.QuoteDeleted{ID: id})
	return nil
}

// transition aplica un cambio de estado simple (sin efectos laterales) y lo persiste.
func (uc *QuoteUseCase) transition(ctx context.Context, id string, apply func(*entity.Quote) error) (*dto.QuoteResponse, error) {
	q, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	from := q.Status
	if err := apply(q); err != nil {
		return nil, err
	}
	q.UpdatedAt = uc.now()
	if err := uc.quotes.UpdateStatus(ctx, q); err != nil {
		uc.log.Error().Err(err).Str("cotizacion_id", id).Msg("cambiar estado de cotización")
		return nil, err
	}
	uc.log.Info().Str("numero", q.Number).Str("de", string(from)).Str("a", string(q.Status)).Msg("cotización cambió de estado")
	uc.store.Dispatch(state.QuoteSaved{Quote: *q})
	out := uc.response(q)
	return &out, nil
}

// Send borrador → enviada.
func (uc *QuoteUseCase) Send(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	return uc.transition(ctx, id, quoting.Send)
}

// BackToDraft enviada → borrador.
func (uc *QuoteUseCase) BackToDraft(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	return uc.transition(ctx, id, quoting.BackToDraft)
}

// Reject enviada → rechazada con motivo obligatorio.
func (uc *QuoteUseCase) Reject(ctx context.Context, id, reason string) (*dto.QuoteResponse, error) {
	return uc.transition(ctx, id, func(q *entity.Quote) error {
		return quoting.Reject(q, reason, uc.now())
	})
}

// Approve enviada → aprobada. En una sola transacción: bloquea la cotización, crea el proyecto,
// enlaza proyecto_id y suma veces_vendido. Sin confirm devuelve una advertencia confirmable.
func (uc *QuoteUseCase) Approve(ctx context.Context, id string, confirm bool) (*dto.ApproveQuoteResponse, error) {
	if !confirm {
		q, err := uc.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if !quoting.CanTransition(q.Status, entity.QuoteStatusApproved) {
			return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, q.Status, entity.QuoteStatusApproved)
		}
		return nil, &domain.WarningError{
			Code:    CodeApprovalConfirmation,
			Message: fmt.Sprintf("¿Aprobar la cotización %s por %s? Se creará un proyecto.", q.Number, q.Total.StringFixed(0)),
		}
	}

	overhead := uc.store.Snapshot().Settings.Overhead
	now := uc.now()
	var (
		quote   *entity.Quote
		project *entity.Project
		ids     []string
	)
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		q, err := r.Quotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.ErrNotFound
		}
		if err := quoting.Approve(q, now); err != nil {
			return err
		}

		ids = distinctServices(q.Items)
		services, err := r.Services.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		unitCosts := make(map[string]decimal.Decimal, len(services))
		for sid, s := range services {
			unitCosts[sid] = pricing.Calculate(s.BaseCost, s.FixedOverhead, decimal.Zero, overhead).CostWithOverhead
		}

		p := tracking.FromQuote(q, unitCosts, now)
		p.ID = uuid.New().String()
		p.CreatedAt, p.UpdatedAt = now, now
		if err := r.Projects.Create(ctx, p); err != nil {
			return err
		}

		q.ProjectID = p.ID
		q.UpdatedAt = now
		if err := r.Quotes.UpdateStatus(ctx, q); err != nil {
			return err
		}
		if err := r.Services.IncrementSold(ctx, ids); err != nil {
			return err
		}
		quote, project = q, p
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("cotizacion_id", id).Msg("aprobar cotización")
		return nil, err
	}

	uc.log.Info().
		Str("numero", quote.Number).
		Str("proyecto_id", project.ID).
		Str("valor_total", project.TotalValue.String()).
		Str("costo_estimado", project.EstimatedCost.String()).
		Msg("cotización aprobada; proyecto creado")
	uc.store.Dispatch(state.QuoteSaved{Quote: *quote})
	uc.store.Dispatch(state.ProjectSaved{Project: *project})
	uc.refreshServices(ctx, ids)

	return &dto.ApproveQuoteResponse{
		Quote:   uc.response(quote),
		Project: dto.NewProjectResponse(project),
	}, nil
}
