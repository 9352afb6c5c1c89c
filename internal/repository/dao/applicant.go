package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrApplicantNotFound   = errors.New("applicant does not exist")
	ErrWishNotFound        = errors.New("wish does not exist")
	ErrLabelNotFound       = errors.New("label does not exist")
	ErrLabelAlreadyApplied = errors.New("label already applied")
	ErrLabelNotApplied     = errors.New("label not applied")
	ErrDuplicateWishEvent  = errors.New("wish already exists for this event")
)

type Applicant struct {
	ID uint `gorm:"primaryKey"`

	UserID    uint    `gorm:"not null;uniqueIndex:uni_applicants_user_edition"`
	EditionID uint    `gorm:"not null;uniqueIndex:uni_applicants_user_edition"`
	User      User    `gorm:"foreignKey:UserID"`
	Edition   Edition `gorm:"foreignKey:EditionID"`

	Wishes  []Wish   `gorm:"foreignKey:ApplicantID"`
	Labels  []Label  `gorm:"many2many:applicant_labels;"`
	Answers []Answer `gorm:"foreignKey:ApplicantID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Wish struct {
	ID uint `gorm:"primaryKey"`

	ApplicantID uint      `gorm:"not null;uniqueIndex:uni_wishes_applicant_event"`
	EventID     uint      `gorm:"not null;uniqueIndex:uni_wishes_applicant_event"`
	Applicant   Applicant `gorm:"foreignKey:ApplicantID"`
	Event       Event     `gorm:"foreignKey:EventID"`

	// The lower the order, the more preferred the event.
	Order  int    `gorm:"column:wish_order;not null;default:1"`
	Status string `gorm:"not null;default:incomplete;index"`
}

type Label struct {
	ID      uint   `gorm:"primaryKey"`
	Display string `gorm:"size:32;not null"`
}

// StatusCount is one row of a per-event wish status breakdown.
type StatusCount struct {
	Status string
	Count  int64
}

type ApplicantDAO struct {
	db *gorm.DB
}

func NewApplicantDAO(db *gorm.DB) *ApplicantDAO {
	return &ApplicantDAO{
		db: db,
	}
}

func (d *ApplicantDAO) preloaded(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).
		Preload("User").
		Preload("Labels").
		Preload("Wishes", func(db *gorm.DB) *gorm.DB {
			return db.Order("wishes.wish_order")
		}).
		Preload("Wishes.Event")
}

// GetOrCreate returns the applicant for (user, edition), creating the row on
// first access. The unique index serializes concurrent first accesses: on a
// conflict the existing row is fetched.
func (d *ApplicantDAO) GetOrCreate(ctx context.Context, userID, editionID uint) (Applicant, error) {
	applicant := Applicant{UserID: userID, EditionID: editionID}

	result := d.db.WithContext(ctx).Create(&applicant)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if !errors.As(result.Error, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
			return Applicant{}, result.Error
		}
	}

	var found Applicant
	result = d.preloaded(ctx).
		Where("user_id = ? AND edition_id = ?", userID, editionID).
		First(&found)
	if result.Error != nil {
		return Applicant{}, result.Error
	}

	return found, nil
}

func (d *ApplicantDAO) FindByID(ctx context.Context, id uint) (Applicant, error) {
	var applicant Applicant

	result := d.preloaded(ctx).First(&applicant, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Applicant{}, ErrApplicantNotFound
		}

		return Applicant{}, result.Error
	}

	return applicant, nil
}

func (d *ApplicantDAO) FindByUserAndEdition(ctx context.Context, userID, editionID uint) (Applicant, error) {
	var applicant Applicant

	result := d.preloaded(ctx).
		Where("user_id = ? AND edition_id = ?", userID, editionID).
		First(&applicant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Applicant{}, ErrApplicantNotFound
		}

		return Applicant{}, result.Error
	}

	return applicant, nil
}

// ListByEvent returns every applicant holding a wish on the event, with the
// associations the review page needs.
func (d *ApplicantDAO) ListByEvent(ctx context.Context, eventID uint) ([]Applicant, error) {
	var applicants []Applicant

	result := d.preloaded(ctx).
		Preload("Answers").
		Preload("Answers.Question").
		Joins("JOIN wishes ON wishes.applicant_id = applicants.id").
		Where("wishes.event_id = ?", eventID).
		Group("applicants.id").
		Find(&applicants)
	if result.Error != nil {
		return nil, result.Error
	}

	return applicants, nil
}

// ListByEventAndStatus returns applicants whose wish on the event carries
// the given status.
func (d *ApplicantDAO) ListByEventAndStatus(ctx context.Context, eventID uint, status string) ([]Applicant, error) {
	var applicants []Applicant

	result := d.preloaded(ctx).
		Joins("JOIN wishes ON wishes.applicant_id = applicants.id").
		Where("wishes.event_id = ? AND wishes.status = ?", eventID, status).
		Group("applicants.id").
		Find(&applicants)
	if result.Error != nil {
		return nil, result.Error
	}

	return applicants, nil
}

// ReplaceWishes swaps the applicant's wish set atomically. Callers enforce
// the locking rule before writing.
func (d *ApplicantDAO) ReplaceWishes(ctx context.Context, applicantID uint, wishes []Wish) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("applicant_id = ?", applicantID).Delete(&Wish{}).Error; err != nil {
			return err
		}

		for i := range wishes {
			wishes[i].ApplicantID = applicantID
			if err := tx.Create(&wishes[i]).Error; err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation &&
					strings.Contains(pgErr.Message, "uni_wishes_applicant_event") {
					return ErrDuplicateWishEvent
				}

				return err
			}
		}

		return nil
	})
}

// MarkIncompleteWishesPending is the applicant-side validation transition.
// A single UPDATE keeps it atomic per applicant.
func (d *ApplicantDAO) MarkIncompleteWishesPending(ctx context.Context, applicantID uint) error {
	return d.db.WithContext(ctx).
		Model(&Wish{}).
		Where("applicant_id = ? AND status = ?", applicantID, "incomplete").
		Update("status", "pending").Error
}

func (d *ApplicantDAO) FindWishByID(ctx context.Context, id uint) (Wish, error) {
	var wish Wish

	result := d.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Applicant.User").
		Preload("Event").
		First(&wish, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Wish{}, ErrWishNotFound
		}

		return Wish{}, result.Error
	}

	return wish, nil
}

func (d *ApplicantDAO) UpdateWishStatus(ctx context.Context, wishID uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Wish{}).
		Where("id = ?", wishID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWishNotFound
	}

	return nil
}

// AcceptAllSelected moves every selected wish on the event to accepted and
// returns how many rows changed.
func (d *ApplicantDAO) AcceptAllSelected(ctx context.Context, eventID uint) (int64, error) {
	result := d.db.WithContext(ctx).
		Model(&Wish{}).
		Where("event_id = ? AND status = ?", eventID, "selected").
		Update("status", "accepted")
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// WishStatusCounts breaks down the event's wishes by status for the review
// index.
func (d *ApplicantDAO) WishStatusCounts(ctx context.Context, eventID uint) ([]StatusCount, error) {
	var counts []StatusCount

	result := d.db.WithContext(ctx).
		Model(&Wish{}).
		Select("status, count(*) as count").
		Where("event_id = ?", eventID).
		Group("status").
		Find(&counts)
	if result.Error != nil {
		return nil, result.Error
	}

	return counts, nil
}

func (d *ApplicantDAO) FindLabelByID(ctx context.Context, id uint) (Label, error) {
	var label Label

	result := d.db.WithContext(ctx).First(&label, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Label{}, ErrLabelNotFound
		}

		return Label{}, result.Error
	}

	return label, nil
}

func (d *ApplicantDAO) ListLabels(ctx context.Context) ([]Label, error) {
	var labels []Label

	if result := d.db.WithContext(ctx).Order("id").Find(&labels); result.Error != nil {
		return nil, result.Error
	}

	return labels, nil
}

func (d *ApplicantDAO) labelApplied(ctx context.Context, applicantID, labelID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Table("applicant_labels").
		Where("applicant_id = ? AND label_id = ?", applicantID, labelID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *ApplicantDAO) AddLabel(ctx context.Context, applicantID, labelID uint) error {
	applied, err := d.labelApplied(ctx, applicantID, labelID)
	if err != nil {
		return err
	}
	if applied {
		return ErrLabelAlreadyApplied
	}

	return d.db.WithContext(ctx).
		Exec("INSERT INTO applicant_labels (applicant_id, label_id) VALUES (?, ?)", applicantID, labelID).
		Error
}

func (d *ApplicantDAO) RemoveLabel(ctx context.Context, applicantID, labelID uint) error {
	applied, err := d.labelApplied(ctx, applicantID, labelID)
	if err != nil {
		return err
	}
	if !applied {
		return ErrLabelNotApplied
	}

	return d.db.WithContext(ctx).
		Exec("DELETE FROM applicant_labels WHERE applicant_id = ? AND label_id = ?", applicantID, labelID).
		Error
}
