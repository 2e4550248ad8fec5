// Package main runs the background worker that sends shift confirmation emails.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"campregistration/config"
	"campregistration/internal/adapters/email"
	"campregistration/internal/adapters/queue"
	"campregistration/internal/services"
	"campregistration/internal/worker"
)

func main() {
	logger := config.NewLogger("worker")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}
	if cfg.Redis.Addr == "" {
		logger.Error("REDIS_ADDR is required for the worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("redis", "addr", cfg.Redis.Addr, "err", err)
		os.Exit(1)
	}

	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		logger.Error("email templates", "err", err)
		os.Exit(1)
	}
	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.AWSRegion,
			AccessKeyID:        cfg.Mail.AWSAccessKeyID,
			SecretAccessKey:    cfg.Mail.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Mail.InsecureSkipVerify,
		},
	}, logger)
	emailService := services.NewEmailService(mailer, renderer, logger)

	q := queue.NewQueue(rdb, logger)
	confirmations := worker.NewConfirmationWorker(q, emailService, logger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		confirmations.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down worker")
	cancel()
	<-done
	logger.Info("worker stopped")
}
