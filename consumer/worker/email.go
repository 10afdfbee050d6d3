package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-document-service/config"
	"github.com/tnqbao/gau-document-service/infra"
	"github.com/tnqbao/gau-document-service/infra/produce"
)

// EmailConsumer drains the email queue and delivers through SMTP.
type EmailConsumer struct {
	channel *amqp.Channel
	infra   *infra.Infra
	cfg     *config.EnvConfig
}

func NewEmailConsumer(channel *amqp.Channel, infra *infra.Infra, cfg *config.EnvConfig) *EmailConsumer {
	return &EmailConsumer{
		channel: channel,
		infra:   infra,
		cfg:     cfg,
	}
}

func (c *EmailConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.EmailQueue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register email consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Email Consumer] Started listening on queue: %s", produce.EmailQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Email Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Email Consumer] Channel closed")
					return
				}
				c.handleEmail(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *EmailConsumer) handleEmail(ctx context.Context, msg amqp.Delivery) {
	var payload produce.EmailMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Email Consumer] Failed to unmarshal message")
		_ = msg.Nack(false, false)
		return
	}

	if payload.Recipient == "" {
		c.infra.Logger.WarningWithContextf(ctx, "[Email Consumer] Message without recipient, dropping")
		_ = msg.Nack(false, false)
		return
	}

	if err := c.send(payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Email Consumer] Failed to send %s email to %s", payload.Type, payload.Recipient)
		// Requeue once; the broker drops it on the second failure.
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Email Consumer] Sent %s email to %s", payload.Type, payload.Recipient)
	_ = msg.Ack(false)
}

func (c *EmailConsumer) send(payload produce.EmailMessage) error {
	addr := c.cfg.SMTP.Host + ":" + c.cfg.SMTP.Port

	body := payload.Content
	if payload.ActionUrl != "" {
		body += "\r\n\r\n" + payload.ActionUrl
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n",
		c.cfg.SMTP.From, payload.Recipient, payload.Subject, body,
	)

	auth := smtp.PlainAuth("", c.cfg.SMTP.Username, c.cfg.SMTP.Password, c.cfg.SMTP.Host)
	return smtp.SendMail(addr, auth, c.cfg.SMTP.From, []string{payload.Recipient}, []byte(msg))
}
