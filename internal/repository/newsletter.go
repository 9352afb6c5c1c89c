package repository

import (
	"context"

	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/repository/dao"
)

var (
	ErrAlreadySubscribed    = dao.ErrAlreadySubscribed
	ErrSubscriberNotFound   = dao.ErrSubscriberNotFound
	ErrVerificationNotFound = dao.ErrVerificationNotFound
)

type NewsletterDAO interface {
	InsertSubscriber(ctx context.Context, sub dao.Subscriber) (dao.Subscriber, error)
	FindSubscriberByEmail(ctx context.Context, email string) (dao.Subscriber, error)
	DeleteSubscriber(ctx context.Context, id uint) error
	InsertVerification(ctx context.Context, v dao.SubscriberVerification) (dao.SubscriberVerification, error)
	FindVerification(ctx context.Context, email, token string) (dao.SubscriberVerification, error)
	DeleteVerifications(ctx context.Context, email string) error
}

type NewsletterRepository struct {
	dao NewsletterDAO
}

func NewNewsletterRepository(dao NewsletterDAO) *NewsletterRepository {
	return &NewsletterRepository{
		dao: dao,
	}
}

func subscriberDaoToDomain(s dao.Subscriber) domain.Subscriber {
	return domain.Subscriber{
		ID:           s.ID,
		Email:        s.Email,
		SubscribedAt: s.CreatedAt,
	}
}

func (r *NewsletterRepository) CreateSubscriber(ctx context.Context, email string) (domain.Subscriber, error) {
	sub, err := r.dao.InsertSubscriber(ctx, dao.Subscriber{Email: email})
	if err != nil {
		return domain.Subscriber{}, err
	}

	return subscriberDaoToDomain(sub), nil
}

func (r *NewsletterRepository) FindSubscriberByEmail(ctx context.Context, email string) (domain.Subscriber, error) {
	sub, err := r.dao.FindSubscriberByEmail(ctx, email)
	if err != nil {
		return domain.Subscriber{}, err
	}

	return subscriberDaoToDomain(sub), nil
}

func (r *NewsletterRepository) DeleteSubscriber(ctx context.Context, id uint) error {
	return r.dao.DeleteSubscriber(ctx, id)
}

func (r *NewsletterRepository) CreateVerification(ctx context.Context, email, token string) (domain.SubscriberVerification, error) {
	v, err := r.dao.InsertVerification(ctx, dao.SubscriberVerification{
		Email: email,
		Token: token,
	})
	if err != nil {
		return domain.SubscriberVerification{}, err
	}

	return domain.SubscriberVerification{ID: v.ID, Email: v.Email, Token: v.Token}, nil
}

func (r *NewsletterRepository) FindVerification(ctx context.Context, email, token string) (domain.SubscriberVerification, error) {
	v, err := r.dao.FindVerification(ctx, email, token)
	if err != nil {
		return domain.SubscriberVerification{}, err
	}

	return domain.SubscriberVerification{ID: v.ID, Email: v.Email, Token: v.Token}, nil
}

func (r *NewsletterRepository) DeleteVerifications(ctx context.Context, email string) error {
	return r.dao.DeleteVerifications(ctx, email)
}
