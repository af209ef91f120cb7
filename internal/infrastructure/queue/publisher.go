package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"cashonrails-backend/internal/config"
	"cashonrails-backend/internal/domains/payment/model"
	"cashonrails-backend/internal/shared"
)

// RedisClientOpt maps the redis config onto asynq's connection options
func RedisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// TaskEnqueuer is the part of *asynq.Client the publisher needs
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PaymentEventPublisher hands payment-complete events to the worker through asynq
type PaymentEventPublisher struct {
	client TaskEnqueuer
}

func NewPaymentEventPublisher(client TaskEnqueuer) *PaymentEventPublisher {
	return &PaymentEventPublisher{client: client}
}

func (p *PaymentEventPublisher) PublishPaymentComplete(ctx context.Context, event model.PaymentCompleteEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal payment complete event: %w", err)
	}

	task := asynq.NewTask(shared.TypePaymentComplete, payload)

	_, err = p.client.EnqueueContext(
		ctx,
		task,
		asynq.Queue(shared.QueuePayment),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue payment complete task: %w", err)
	}

	return nil
}
