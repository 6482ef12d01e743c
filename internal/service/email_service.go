package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService отправляет транзакционные письма
type EmailService interface {
	SendPasswordReset(ctx context.Context, toEmail, resetURL string) error
}

// NoopEmailService используется, когда отправка писем отключена (локальная разработка)
type NoopEmailService struct{}

func (s *NoopEmailService) SendPasswordReset(ctx context.Context, toEmail, resetURL string) error {
	log.Printf("[EmailService] noop send password reset to=%s url=%s", toEmail, resetURL)
	return nil
}

// ResendEmailService отправляет письма через REST API Resend
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendPasswordReset(ctx context.Context, toEmail, resetURL string) error {
	if toEmail == "" || resetURL == "" {
		return fmt.Errorf("toEmail and resetURL are required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Password Reset Request",
		Text:    fmt.Sprintf("You requested a password reset. Please use the following link to reset your password: %s. The link expires in 10 minutes.", resetURL),
		Html:    fmt.Sprintf("<p>You requested a password reset.</p><p><a href='%s'>Reset Password</a></p><p>The link expires in 10 minutes.</p>", resetURL),
	}

	options := &resend.SendEmailOptions{}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
