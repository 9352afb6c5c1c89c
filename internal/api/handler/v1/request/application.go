package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/prologin/gcc-api/internal/domain"
)

type WishChoiceRequest struct {
	EventID uint `json:"event_id"`
	Order   int  `json:"order"`
}

func (r WishChoiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EventID, validation.Required),
		validation.Field(&r.Order, validation.Required, validation.Min(1), validation.Max(domain.MaxWishes)),
	)
}

type SubmitWishesRequest struct {
	Wishes []WishChoiceRequest `json:"wishes"`
}

func (r SubmitWishesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Wishes, validation.Required, validation.Length(1, domain.MaxWishes)),
	)
}

type AnswerRequest struct {
	QuestionID uint   `json:"question_id"`
	Response   string `json:"response"`
}

func (r AnswerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.QuestionID, validation.Required),
	)
}

type SaveAnswersRequest struct {
	Answers []AnswerRequest `json:"answers"`
}

func (r SaveAnswersRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Answers, validation.Required),
	)
}
