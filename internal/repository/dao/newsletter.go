package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrAlreadySubscribed    = errors.New("already subscribed")
	ErrSubscriberNotFound   = errors.New("unregistered address")
	ErrVerificationNotFound = errors.New("verification not found")
)

type Subscriber struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"unique;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type SubscriberVerification struct {
	ID    uint   `gorm:"primaryKey"`
	Email string `gorm:"not null"`
	Token string `gorm:"size:255;index;not null"`
}

type NewsletterDAO struct {
	db *gorm.DB
}

func NewNewsletterDAO(db *gorm.DB) *NewsletterDAO {
	return &NewsletterDAO{
		db: db,
	}
}

func (d *NewsletterDAO) InsertSubscriber(ctx context.Context, sub Subscriber) (Subscriber, error) {
	result := d.db.WithContext(ctx).Create(&sub)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Subscriber{}, ErrAlreadySubscribed
		}

		return Subscriber{}, result.Error
	}

	return sub, nil
}

func (d *NewsletterDAO) FindSubscriberByEmail(ctx context.Context, email string) (Subscriber, error) {
	var sub Subscriber

	result := d.db.WithContext(ctx).Where("email = ?", email).First(&sub)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Subscriber{}, ErrSubscriberNotFound
		}

		return Subscriber{}, result.Error
	}

	return sub, nil
}

func (d *NewsletterDAO) DeleteSubscriber(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&Subscriber{}, id).Error
}

func (d *NewsletterDAO) InsertVerification(ctx context.Context, v SubscriberVerification) (SubscriberVerification, error) {
	if result := d.db.WithContext(ctx).Create(&v); result.Error != nil {
		return SubscriberVerification{}, result.Error
	}

	return v, nil
}

func (d *NewsletterDAO) FindVerification(ctx context.Context, email, token string) (SubscriberVerification, error) {
	var v SubscriberVerification

	result := d.db.WithContext(ctx).
		Where("email = ? AND token = ?", email, token).
		First(&v)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return SubscriberVerification{}, ErrVerificationNotFound
		}

		return SubscriberVerification{}, result.Error
	}

	return v, nil
}

func (d *NewsletterDAO) DeleteVerifications(ctx context.Context, email string) error {
	return d.db.WithContext(ctx).
		Where("email = ?", email).
		Delete(&SubscriberVerification{}).Error
}
