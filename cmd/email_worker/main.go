package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-profile-service/config"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
	"github.com/oksasatya/user-profile-service/pkg/mailer"
)

const consumerTag = "email-worker"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
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

	// Prefetch for fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQEmailQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	worker := &mailer.Worker{
		Sender:  mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		AppName: cfg.AppName,
		Logger:  logger,
		Timeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			entry := logger.WithFields(logrus.Fields{"message_id": msg.MessageId, "queue": cfg.RabbitMQEmailQueue})
			err := worker.Handle(ctx, msg.Body)
			switch {
			case err == nil:
				_ = msg.Ack(false)
			case errors.Is(err, mailer.ErrBadJob):
				entry.WithError(err).Warn("dropping undeliverable email job")
				_ = msg.Nack(false, false)
			default:
				entry.WithError(err).Error("send failed, requeueing")
				_ = msg.Nack(false, true)
			}
		}
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-ctx.Done()
	logger.Info("shutting down...")
	_ = ch.Cancel(consumerTag, false)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
