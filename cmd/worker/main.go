package main

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/rentability-pro/internal/application/analytics"
	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/infrastructure/storage"
	"github.com/jhoicas/rentability-pro/internal/jobs"
	"github.com/jhoicas/rentability-pro/pkg/config"
	"github.com/jhoicas/rentability-pro/pkg/logger"
)

func main() {
	runNow := flag.Bool("ahora", false, "encolar un resumen diario al arrancar")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{App: "worker", Env: cfg.App.Env, Level: cfg.App.LogLevel})
	wlog := log.Component("worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer repos.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer func() {
		if err := rdb.Close(); err != nil {
			wlog.Warn().Err(err).Msg("cerrar redis")
		}
	}()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("ping redis")
	}

	company := func() entity.CompanyProfile {
		s, err := repos.Settings.Load(ctx)
		if err != nil || s == nil {
			return entity.CompanyProfile{}
		}
		return s.Company
	}
	reportUC := analytics.NewReportUseCase(repos.Reports, repos.Payments, repos.Disbursements, company, nil, nil)
	digestJob := jobs.NewDigestJob(reportUC, log.Component("resumen-diario"))

	digestTask, err := jobs.NewDailyDigestTask("cron")
	if err != nil {
		log.Fatal().Err(err).Msg("construir tarea de resumen")
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisOpts,
		Concurrency: cfg.Worker.Concurrency,
		Timezone:    cfg.Worker.Timezone,
		Logger:      wlog,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDailyDigest, Handler: digestJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Worker.DigestCron, Task: digestTask},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("iniciar worker")
	}

	if *runNow {
		client := jobs.NewClient(redisOpts)
		if _, err := client.EnqueueDailyDigest(ctx, "manual"); err != nil {
			wlog.Error().Err(err).Msg("encolar resumen inmediato")
		}
		_ = client.Close()
	}

	wlog.Info().
		Str("cron", cfg.Worker.DigestCron).
		Str("tz", cfg.Worker.Timezone).
		Str("storage", repos.Kind).
		Msg("programando resumen diario")

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker")
	}
}
