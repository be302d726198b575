package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/rentability-pro/internal/application/analytics"
)

// DigestSource origen del resumen; en producción es analytics.ReportUseCase.
type DigestSource interface {
	DailyDigest(ctx context.Context) (*analytics.Digest, error)
}

// DigestJob procesa TaskDailyDigest: consulta pendientes y los deja en el log. No escribe estado.
type DigestJob struct {
	source DigestSource
	log    zerolog.Logger
}

// NewDigestJob construye el handler.
func NewDigestJob(source DigestSource, log zerolog.Logger) *DigestJob {
	return &DigestJob{source: source, log: log}
}

// Handle implementa asynq.HandlerFunc.
func (j *DigestJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.source == nil {
		return errors.New("resumen diario: handler no configurado")
	}
	var payload DigestPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("resumen diario: payload inválido: %v: %w", err, asynq.SkipRetry)
		}
	}

	d, err := j.source.DailyDigest(ctx)
	if err != nil {
		j.log.Error().Err(err).Str("trigger", payload.Trigger).Msg("resumen diario")
		return err
	}

	ev := j.log.Info()
	if d.OverdueCount > 0 || d.ExpiredQuotes > 0 {
		ev = j.log.Warn()
	}
	ev.Str("trigger", payload.Trigger).
		Str("fecha", d.Date.Format("2006-01-02")).
		Int("cuotas_vencidas", d.OverdueCount).
		Str("monto_vencido", d.OverdueAmount.StringFixed(2)).
		Int("cotizaciones_vencidas", d.ExpiredQuotes).
		Int("cotizaciones_enviadas", d.SentQuotes).
		Str("por_cobrar", d.Receivable.StringFixed(2)).
		Msg("resumen diario")
	return nil
}
