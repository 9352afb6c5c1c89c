package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrQuestionNotFound = errors.New("question does not exist")

type Form struct {
	ID        uint       `gorm:"primaryKey"`
	Name      string     `gorm:"size:64;not null"`
	Questions []Question `gorm:"foreignKey:FormID"`
}

type Question struct {
	ID     uint `gorm:"primaryKey"`
	FormID uint `gorm:"not null;index"`

	Text    string `gorm:"not null"`
	Comment string
	Type    string `gorm:"not null"`
	Order   int    `gorm:"column:question_order;not null;default:0"`

	AlwaysRequired  bool `gorm:"default:false"`
	FinallyRequired bool `gorm:"default:true"`
}

type Answer struct {
	ID uint `gorm:"primaryKey"`

	ApplicantID uint     `gorm:"not null;uniqueIndex:uni_answers_applicant_question"`
	QuestionID  uint     `gorm:"not null;uniqueIndex:uni_answers_applicant_question"`
	Question    Question `gorm:"foreignKey:QuestionID"`

	Response string
}

type FormDAO struct {
	db *gorm.DB
}

func NewFormDAO(db *gorm.DB) *FormDAO {
	return &FormDAO{
		db: db,
	}
}

func (d *FormDAO) ListQuestionsByForm(ctx context.Context, formID uint) ([]Question, error) {
	var questions []Question

	result := d.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("question_order").
		Find(&questions)
	if result.Error != nil {
		return nil, result.Error
	}

	return questions, nil
}

func (d *FormDAO) FindQuestionByID(ctx context.Context, id uint) (Question, error) {
	var question Question

	result := d.db.WithContext(ctx).First(&question, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Question{}, ErrQuestionNotFound
		}

		return Question{}, result.Error
	}

	return question, nil
}

// ListAnswersByApplicant returns the applicant's answers ordered the way the
// signup form orders its questions.
func (d *FormDAO) ListAnswersByApplicant(ctx context.Context, applicantID uint) ([]Answer, error) {
	var answers []Answer

	result := d.db.WithContext(ctx).
		Preload("Question").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("answers.applicant_id = ?", applicantID).
		Order("questions.question_order").
		Find(&answers)
	if result.Error != nil {
		return nil, result.Error
	}

	return answers, nil
}

// UpsertAnswer writes the applicant's response to one question, overwriting
// a previous response if present.
func (d *FormDAO) UpsertAnswer(ctx context.Context, answer Answer) (Answer, error) {
	var existing Answer

	result := d.db.WithContext(ctx).
		Where("applicant_id = ? AND question_id = ?", answer.ApplicantID, answer.QuestionID).
		First(&existing)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Answer{}, result.Error
		}

		if err := d.db.WithContext(ctx).Create(&answer).Error; err != nil {
			return Answer{}, err
		}

		return answer, nil
	}

	existing.Response = answer.Response
	if err := d.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return Answer{}, err
	}

	return existing, nil
}
