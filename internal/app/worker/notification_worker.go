package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"quickfeedback/internal/domain/model"
	"quickfeedback/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// NotificationEvent is the queue payload produced when a form that opted
// into notifications receives a response.
type NotificationEvent struct {
	FormID      string `json:"form_id"`
	FormTitle   string `json:"form_title"`
	NotifyEmail string `json:"notify_email"`
	ResponseID  string `json:"response_id"`
	SubmittedAt string `json:"submitted_at"`
}

// queueClient is the slice of redis.Client the notification pipeline uses.
type queueClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// Publisher pushes notification events onto the redis queue. It satisfies
// the response service's Notifier interface.
type Publisher struct {
	rdb queueClient
}

func NewPublisher(rdb queueClient) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) ResponseReceived(ctx context.Context, form *model.Form, response *model.Response) error {
	event := NotificationEvent{
		FormID:      form.ID,
		FormTitle:   form.Title,
		NotifyEmail: form.Settings.NotifyEmail,
		ResponseID:  response.ID,
		SubmittedAt: response.SubmittedAt.Format(time.RFC3339),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding notification event: %w", err)
	}
	if err := p.rdb.LPush(ctx, config.AppConfig.NotificationQueueName, payload).Err(); err != nil {
		return fmt.Errorf("queueing notification event: %w", err)
	}
	return nil
}

// Sender delivers one notification. The default sender only logs; wiring an
// SMTP sender is a deployment concern, not this service's.
type Sender interface {
	Send(ctx context.Context, event NotificationEvent) error
}

type LogSender struct{}

func (LogSender) Send(_ context.Context, event NotificationEvent) error {
	log.Printf("NOTIFY %s: new response %s on form %q (%s)",
		event.NotifyEmail, event.ResponseID, event.FormTitle, event.FormID)
	return nil
}

type NotificationWorker struct {
	rdb    queueClient
	sender Sender
}

func NewNotificationWorker(rdb queueClient, sender Sender) *NotificationWorker {
	if sender == nil {
		sender = LogSender{}
	}
	return &NotificationWorker{rdb: rdb, sender: sender}
}

// Start consumes the notification queue until the context is canceled.
func (w *NotificationWorker) Start(ctx context.Context) {
	log.Println("Notification worker started, listening to queue:", config.AppConfig.NotificationQueueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Notification worker stopping...")
			return
		default:
			// Blocking pop from the redis queue
			item, err := w.rdb.BRPop(ctx, 0*time.Second, config.AppConfig.NotificationQueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					log.Printf("Worker BRPop exiting or timed out: %v", err)
					time.Sleep(1 * time.Second)
					continue
				}
				log.Printf("ERROR: Failed to BRPop from Redis queue '%s': %v", config.AppConfig.NotificationQueueName, err)
				time.Sleep(5 * time.Second)
				continue
			}

			// item is an array: [queueName, value]
			if len(item) < 2 || item[1] == "" {
				log.Println("WARN: BRPop returned empty payload.")
				continue
			}
			w.deliver(ctx, item[1])
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, payload string) {
	var event NotificationEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Printf("ERROR: dropping malformed notification payload: %v", err)
		return
	}
	if event.NotifyEmail == "" {
		log.Printf("WARN: notification for form %s has no address, skipping", event.FormID)
		return
	}
	if err := w.sender.Send(ctx, event); err != nil {
		// Push back for a later retry rather than losing the event.
		log.Printf("ERROR: delivery for form %s failed, re-queueing: %v", event.FormID, err)
		if err := w.rdb.RPush(ctx, config.AppConfig.NotificationQueueName, payload).Err(); err != nil {
			log.Printf("ERROR: failed to re-queue notification: %v", err)
		}
		time.Sleep(1 * time.Second)
	}
}
