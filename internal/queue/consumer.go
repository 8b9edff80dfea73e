package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartTakedownConsumer connects to RabbitMQ, declares the durable
// mission.completed queue, and consumes events into
// logs/takedown.log, one human-readable line per takedown. It runs a
// reconnect loop with capped backoff and keeps the server operating
// through broker outages; bad messages are rejected without requeue so
// they cannot loop forever. Cancelling ctx closes the connection and
// returns.
func StartTakedownConsumer(ctx context.Context) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			log.Printf("takedown-consumer: stopped: %v", ctx.Err())
			return
		}
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("takedown-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleepCtx(ctx, backoff) {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		// Closing the connection on cancel ends the delivery range in
		// consumeLoop, which is the only way to unblock it.
		watchDone := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				_ = conn.Close()
			case <-watchDone:
			}
		}()

		err = consumeLoop(conn)
		close(watchDone)
		_ = conn.Close()

		if ctx.Err() != nil {
			log.Printf("takedown-consumer: stopped: %v", ctx.Err())
			return
		}
		log.Printf("takedown-consumer: consume loop ended: %v; reconnecting", err)
		if !sleepCtx(ctx, 2*time.Second) {
			return
		}
	}
}

// sleepCtx waits for d or until ctx is cancelled; false means
// cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("takedown-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(takedownQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(takedownQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := logTakedown(d.Body); err != nil {
			log.Printf("takedown-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func logTakedown(body []byte) error {
	var ev MissionCompletedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "takedown.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	by := "user"
	if ev.Auto {
		by = "monitor"
	}
	line := fmt.Sprintf("[%s] Takedown | mission_id=%d | title=%q | target=%s | category=%s | site_status=%d | assignee=%s(%d) | closed_by=%s\n",
		ev.CompletedAt, ev.MissionID, ev.Title, ev.TargetURL, ev.Category, ev.SiteStatus, ev.AssignedUsername, ev.AssignedTo, by)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
