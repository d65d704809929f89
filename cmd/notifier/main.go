package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ghozali/disaster-incident-api/config"
	"github.com/ghozali/disaster-incident-api/internal/application"
	"github.com/ghozali/disaster-incident-api/pkg/helpers"
)

// notifier consumes incident events from the queue and logs alerts.
// Severe incidents are logged at warning level so downstream log-based
// alerting can pick them up.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notifier", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQEventQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEventQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var ev application.IncidentEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}

			fields := logrus.Fields{
				"kind":     ev.Kind,
				"action":   ev.Action,
				"id":       ev.ID,
				"province": ev.Province,
				"district": ev.District,
				"level":    ev.Level,
				"status":   ev.Status,
				"actor_id": ev.ActorID,
			}
			if ev.Level == "Berat" && ev.Action != "deleted" {
				logger.WithFields(fields).Warn("severe incident reported")
			} else {
				logger.WithFields(fields).Info("incident event")
			}
			_ = msg.Ack(false)
		}
		close(done)
	}()

	logger.Infof("notifier listening on queue=%s", cfg.RabbitMQEventQueue)
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
