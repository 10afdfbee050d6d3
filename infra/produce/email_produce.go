package produce

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EmailExchange = "email_exchange"
	EmailQueue    = "email.send"

	EmailNotificationKey = "email.notification"
	EmailWarningKey      = "email.warning"
)

type EmailMessage struct {
	Type          string `json:"type"`
	Recipient     string `json:"recipient"`
	RecipientName string `json:"recipientName,omitempty"`
	Subject       string `json:"subject"`
	Content       string `json:"content"`
	ActionUrl     string `json:"actionUrl,omitempty"`
}

type EmailService struct {
	channel *amqp.Channel
}

func InitEmailService(channel *amqp.Channel) *EmailService {
	err := channel.ExchangeDeclare(
		EmailExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Email exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		EmailQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Email queue: " + err.Error())
	}

	err = channel.QueueBind(
		EmailQueue,
		"email.#",
		EmailExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Email queue: " + err.Error())
	}

	return &EmailService{
		channel: channel,
	}
}

func (s *EmailService) SendEmailNotification(ctx context.Context, email, recipientName, subject, content, actionUrl string) error {
	message := EmailMessage{
		Type:          "notification",
		Recipient:     email,
		RecipientName: recipientName,
		Subject:       subject,
		Content:       content,
		ActionUrl:     actionUrl,
	}

	return s.publishEmail(ctx, EmailNotificationKey, message)
}

func (s *EmailService) SendEmailWarning(ctx context.Context, email, recipientName, subject, content, actionUrl string) error {
	message := EmailMessage{
		Type:          "warning",
		Recipient:     email,
		RecipientName: recipientName,
		Subject:       subject,
		Content:       content,
		ActionUrl:     actionUrl,
	}

	return s.publishEmail(ctx, EmailWarningKey, message)
}

func (s *EmailService) publishEmail(ctx context.Context, routingKey string, message EmailMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	err = s.channel.PublishWithContext(
		ctx,
		EmailExchange, // exchange
		routingKey,    // routing key
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish email message: %w", err)
	}

	return nil
}
