package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/config"
	"github.com/oksasatya/pawpatrol/internal/notify"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
	"github.com/oksasatya/pawpatrol/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notify", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; notify worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQReportsQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch between workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQReportsQueue); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQReportsQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	n := notify.NewNotifier(
		mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		cfg.NotifyRecipientList(),
		cfg.AppName,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := n.Handle(c, msg.Body)
			cancel()
			switch {
			case err == nil:
				_ = msg.Ack(false)
			case errors.Is(err, notify.ErrMalformed):
				helpers.LogWarn(logger, "dropping report event", err, logrus.Fields{"message_id": msg.MessageId})
				_ = msg.Nack(false, false)
			default:
				helpers.LogError(logger, "notification failed; requeueing", err, nil)
				_ = msg.Nack(false, true)
			}
		}
	}()

	logger.Infof("notify worker listening on queue=%s", cfg.RabbitMQReportsQueue)
	<-ctx.Done()
	logger.Info("shutting down")
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}
