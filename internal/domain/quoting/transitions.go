package quoting

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/rentability-pro/internal/domain"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
)

var transitions = map[entity.QuoteStatus][]entity.QuoteStatus{
	entity.QuoteStatusDraft: {entity.QuoteStatusSent},
	entity.QuoteStatusSent:  {entity.QuoteStatusDraft, entity.QuoteStatusApproved, entity.QuoteStatusRejected},
}

// CanTransition indica si from→to está permitido. Aprobada y rechazada son terminales.
func CanTransition(from, to entity.QuoteStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func guard(q *entity.Quote, to entity.QuoteStatus) error {
	if !CanTransition(q.Status, to) {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, q.Status, to)
	}
	return nil
}

// EnsureEditable solo los borradores se editan o eliminan.
func EnsureEditable(q *entity.Quote) error {
	if q.Status != entity.QuoteStatusDraft {
		return fmt.Errorf("%w: solo se pueden modificar cotizaciones en borrador (estado actual: %s)", domain.ErrInvalidTransition, q.Status)
	}
	return nil
}

// Send borrador → enviada.
func Send(q *entity.Quote) error {
	if err := guard(q, entity.QuoteStatusSent); err != nil {
		return err
	}
	q.Status = entity.QuoteStatusSent
	return nil
}

// BackToDraft enviada → borrador.
func BackToDraft(q *entity.Quote) error {
	if err := guard(q, entity.QuoteStatusDraft); err != nil {
		return err
	}
	q.Status = entity.QuoteStatusDraft
	return nil
}

// Approve enviada → aprobada. El proyecto lo crea el caso de uso en la misma transacción.
func Approve(q *entity.Quote, now time.Time) error {
	if err := guard(q, entity.QuoteStatusApproved); err != nil {
		return err
	}
	q.Status = entity.QuoteStatusApproved
	q.ApprovedAt = &now
	return nil
}

// Reject enviada → rechazada. El motivo es obligatorio.
func Reject(q *entity.Quote, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.NewValidationError([]string{"Debe indicar el motivo del rechazo"})
	}
	if err := guard(q, entity.QuoteStatusRejected); err != nil {
		return err
	}
	q.Status = entity.QuoteStatusRejected
	q.RejectedAt = &now
	q.RejectionReason = reason
	return nil
}
