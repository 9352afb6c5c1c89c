package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/prologin/gcc-api/internal/config"
	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/repository"
)

var (
	ErrAlreadySubscribed    = repository.ErrAlreadySubscribed
	ErrSubscriberNotFound   = repository.ErrSubscriberNotFound
	ErrVerificationNotFound = repository.ErrVerificationNotFound

	ErrWrongUnsubscribeToken = errors.New("wrong token")
)

type NewsletterRepository interface {
	CreateSubscriber(ctx context.Context, email string) (domain.Subscriber, error)
	FindSubscriberByEmail(ctx context.Context, email string) (domain.Subscriber, error)
	DeleteSubscriber(ctx context.Context, id uint) error
	CreateVerification(ctx context.Context, email, token string) (domain.SubscriberVerification, error)
	FindVerification(ctx context.Context, email, token string) (domain.SubscriberVerification, error)
	DeleteVerifications(ctx context.Context, email string) error
}

type NewsletterService struct {
	conf   *config.NewsletterConfig
	repo   NewsletterRepository
	mailer Mailer
}

func NewNewsletterService(conf *config.NewsletterConfig, repo NewsletterRepository, mailer Mailer) *NewsletterService {
	return &NewsletterService{
		conf:   conf,
		repo:   repo,
		mailer: mailer,
	}
}

// Subscribe starts the double-opt-in flow: a verification token is stored
// and emailed. Addresses that are already confirmed subscribers are
// reported as such.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) error {
	if _, err := s.repo.FindSubscriberByEmail(ctx, email); err == nil {
		return ErrAlreadySubscribed
	} else if !errors.Is(err, repository.ErrSubscriberNotFound) {
		return fmt.Errorf("s.repo.FindSubscriberByEmail -> %w", err)
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	token := hex.EncodeToString(buf)

	if _, err := s.repo.CreateVerification(ctx, email, token); err != nil {
		return fmt.Errorf("s.repo.CreateVerification -> %w", err)
	}

	verifyURL := fmt.Sprintf("%s/api/v1/newsletter/subscriptions/verify/%s/%s", s.conf.BaseURL, email, token)
	s.sendAsync(email, "[Girls Can Code!] Confirm your subscription",
		"Please confirm your newsletter subscription by visiting:\n\n"+verifyURL+"\n")

	return nil
}

// ConfirmSubscription promotes a pending verification to a confirmed
// subscriber and sends the welcome email carrying the unsubscribe link.
func (s *NewsletterService) ConfirmSubscription(ctx context.Context, email, token string) (domain.Subscriber, error) {
	if _, err := s.repo.FindVerification(ctx, email, token); err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			return domain.Subscriber{}, ErrVerificationNotFound
		}

		return domain.Subscriber{}, fmt.Errorf("s.repo.FindVerification -> %w", err)
	}

	sub, err := s.repo.CreateSubscriber(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadySubscribed) {
			return domain.Subscriber{}, ErrAlreadySubscribed
		}

		return domain.Subscriber{}, fmt.Errorf("s.repo.CreateSubscriber -> %w", err)
	}

	if err := s.repo.DeleteVerifications(ctx, email); err != nil {
		return domain.Subscriber{}, fmt.Errorf("s.repo.DeleteVerifications -> %w", err)
	}

	unsubscribeURL := fmt.Sprintf("%s/api/v1/newsletter/subscriptions/unsubscribe/%s/%s",
		s.conf.BaseURL, sub.Email, sub.UnsubscribeToken(s.conf.Secret))
	s.sendAsync(email, "[Girls Can Code!] Subscription confirmed",
		"Welcome! You are now subscribed to the Girls Can Code! newsletter.\n\n"+
			"To unsubscribe, visit:\n"+unsubscribeURL+"\n")

	return sub, nil
}

// Unsubscribe removes a subscriber when the presented token matches the one
// derived from the subscription.
func (s *NewsletterService) Unsubscribe(ctx context.Context, email, token string) error {
	sub, err := s.repo.FindSubscriberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriberNotFound) {
			return ErrSubscriberNotFound
		}

		return fmt.Errorf("s.repo.FindSubscriberByEmail -> %w", err)
	}

	if sub.UnsubscribeToken(s.conf.Secret) != token {
		return ErrWrongUnsubscribeToken
	}

	if err := s.repo.DeleteSubscriber(ctx, sub.ID); err != nil {
		return fmt.Errorf("s.repo.DeleteSubscriber -> %w", err)
	}

	return nil
}

func (s *NewsletterService) sendAsync(to, subject, body string) {
	go func() {
		if err := s.mailer.Send(to, subject, body); err != nil {
			logMailFailure(to, err)
		}
	}()
}
