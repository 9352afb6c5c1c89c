package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEditionNotFound = errors.New("edition not found")
	ErrEventNotFound   = errors.New("event not found")
)

type Edition struct {
	ID           uint `gorm:"primaryKey"`
	Year         int  `gorm:"unique;not null"`
	SignupFormID uint
	SignupForm   Form
}

type Event struct {
	ID        uint    `gorm:"primaryKey"`
	EditionID uint    `gorm:"not null;index"`
	Edition   Edition `gorm:"foreignKey:EditionID"`

	Center string `gorm:"not null"`
	IsLong bool   `gorm:"default:true"`

	EventStart  time.Time `gorm:"not null"`
	EventEnd    time.Time `gorm:"not null"`
	SignupStart time.Time `gorm:"not null"`
	SignupEnd   time.Time `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type EditionDAO struct {
	db *gorm.DB
}

func NewEditionDAO(db *gorm.DB) *EditionDAO {
	return &EditionDAO{
		db: db,
	}
}

func (d *EditionDAO) FindByYear(ctx context.Context, year int) (Edition, error) {
	var edition Edition

	result := d.db.WithContext(ctx).
		Preload("SignupForm").
		Preload("SignupForm.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.question_order")
		}).
		Where("year = ?", year).
		First(&edition)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Edition{}, ErrEditionNotFound
		}

		return Edition{}, result.Error
	}

	return edition, nil
}

func (d *EditionDAO) FindByID(ctx context.Context, id uint) (Edition, error) {
	var edition Edition

	result := d.db.WithContext(ctx).
		Preload("SignupForm").
		Preload("SignupForm.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.question_order")
		}).
		First(&edition, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Edition{}, ErrEditionNotFound
		}

		return Edition{}, result.Error
	}

	return edition, nil
}

func (d *EditionDAO) FindEventByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).Preload("Edition").First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EditionDAO) ListEventsByEdition(ctx context.Context, editionID uint) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("edition_id = ?", editionID).
		Order("event_start").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EditionDAO) ListAllEvents(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Preload("Edition").
		Order("event_start").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}
