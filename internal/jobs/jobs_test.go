package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentability-pro/internal/application/analytics"
)

type fakeDigest struct {
	digest *analytics.Digest
	err    error
	calls  int
}

func (f *fakeDigest) DailyDigest(context.Context) (*analytics.Digest, error) {
	f.calls++
	return f.digest, f.err
}

func TestNewDailyDigestTask(t *testing.T) {
	task, err := NewDailyDigestTask("")
	require.NoError(t, err)
	assert.Equal(t, TaskDailyDigest, task.Type())
	assert.JSONEq(t, `{"trigger":"cron"}`, string(task.Payload()))
}

func TestDigestJob_Handle(t *testing.T) {
	var buf bytes.Buffer
	src := &fakeDigest{digest: &analytics.Digest{
		Date:          time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		OverdueCount:  2,
		OverdueAmount: decimal.NewFromInt(450000),
		ExpiredQuotes: 1,
		SentQuotes:    3,
		Receivable:    decimal.NewFromInt(1200000),
	}}
	job := NewDigestJob(src, zerolog.New(&buf))

	task, err := NewDailyDigestTask("manual")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	assert.Equal(t, 1, src.calls)
	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"trigger":"manual"`)
	assert.Contains(t, out, `"fecha":"2026-03-10"`)
	assert.Contains(t, out, `"cuotas_vencidas":2`)
	assert.Contains(t, out, `"monto_vencido":"450000.00"`)
	assert.Contains(t, out, `"por_cobrar":"1200000.00"`)
}

func TestDigestJob_SinPendientesEsInfo(t *testing.T) {
	var buf bytes.Buffer
	src := &fakeDigest{digest: &analytics.Digest{Date: time.Now()}}
	job := NewDigestJob(src, zerolog.New(&buf))

	require.NoError(t, job.Handle(context.Background(), asynq.NewTask(TaskDailyDigest, nil)))
	assert.Contains(t, buf.String(), `"level":"info"`)
}

func TestDigestJob_Errores(t *testing.T) {
	job := NewDigestJob(&fakeDigest{err: errors.New("db caída")}, zerolog.Nop())
	task, _ := NewDailyDigestTask("cron")
	assert.EqualError(t, job.Handle(context.Background(), task), "db caída")

	err := job.Handle(context.Background(), asynq.NewTask(TaskDailyDigest, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	var nilJob *DigestJob
	assert.Error(t, nilJob.Handle(context.Background(), task))
}

func TestClient_EnqueueDailyDigest(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })

	info, err := c.EnqueueDailyDigest(context.Background(), "manual")
	require.NoError(t, err)
	assert.Equal(t, QueueReports, info.Queue)
	assert.Equal(t, TaskDailyDigest, info.Type)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	n, err := rdb.LLen(context.Background(), "asynq:{reportes}:pending").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestNewWorker(t *testing.T) {
	task, err := NewDailyDigestTask("cron")
	require.NoError(t, err)
	opts := asynq.RedisClientOpt{Addr: "localhost:0"}
	job := NewDigestJob(&fakeDigest{}, zerolog.Nop())

	w, err := NewWorker(WorkerConfig{
		RedisOpts: opts,
		Timezone:  "America/Bogota",
		Logger:    zerolog.Nop(),
		Handlers:  []TaskHandler{{Type: TaskDailyDigest, Handler: job.Handle}},
		Cron:      []CronRegistration{{Spec: "0 7 * * *", Task: task}},
	})
	require.NoError(t, err)
	assert.NotNil(t, w.scheduler)

	_, err = NewWorker(WorkerConfig{RedisOpts: opts, Timezone: "Marte/Olympus"})
	assert.Error(t, err)

	_, err = NewWorker(WorkerConfig{RedisOpts: opts, Cron: []CronRegistration{{Spec: "no es cron", Task: task}}})
	assert.Error(t, err)
}

func TestWorker_RunNil(t *testing.T) {
	var w *Worker
	assert.Error(t, w.Run(context.Background()))
}
