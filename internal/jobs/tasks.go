// Package jobs tareas en segundo plano sobre asynq (Redis).
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueReports cola de las tareas de reportes.
	QueueReports = "reportes"
	// TaskDailyDigest resumen diario de cartera y cotizaciones.
	TaskDailyDigest = "reportes:resumen-diario"
)

// DigestPayload datos de la tarea. Trigger indica quién la encoló (cron o manual).
type DigestPayload struct {
	Trigger string `json:"trigger"`
}

// NewDailyDigestTask construye la tarea del resumen diario.
func NewDailyDigestTask(trigger string) (*asynq.Task, error) {
	if trigger == "" {
		trigger = "cron"
	}
	data, err := json.Marshal(DigestPayload{Trigger: trigger})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDailyDigest, data, asynq.Queue(QueueReports), asynq.MaxRetry(3)), nil
}

// Client encola tareas.
type Client struct {
	client *asynq.Client
}

// NewClient construye el cliente de asynq.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueDailyDigest encola un resumen diario inmediato.
func (c *Client) EnqueueDailyDigest(ctx context.Context, trigger string) (*asynq.TaskInfo, error) {
	task, err := NewDailyDigestTask(trigger)
	if err != nil {
		return nil, err
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("jobs: encolar %s: %w", TaskDailyDigest, err)
	}
	return info, nil
}

// Close libera la conexión.
func (c *Client) Close() error {
	return c.client.Close()
}
