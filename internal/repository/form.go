package repository

import (
	"context"

	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/repository/dao"
)

var ErrQuestionNotFound = dao.ErrQuestionNotFound

type FormDAO interface {
	ListQuestionsByForm(ctx context.Context, formID uint) ([]dao.Question, error)
	FindQuestionByID(ctx context.Context, id uint) (dao.Question, error)
	ListAnswersByApplicant(ctx context.Context, applicantID uint) ([]dao.Answer, error)
	UpsertAnswer(ctx context.Context, answer dao.Answer) (dao.Answer, error)
}

type FormRepository struct {
	dao FormDAO
}

func NewFormRepository(dao FormDAO) *FormRepository {
	return &FormRepository{
		dao: dao,
	}
}

func questionDaoToDomain(q dao.Question) domain.Question {
	return domain.Question{
		ID:              q.ID,
		Text:            q.Text,
		Comment:         q.Comment,
		Type:            domain.AnswerType(q.Type),
		Order:           q.Order,
		AlwaysRequired:  q.AlwaysRequired,
		FinallyRequired: q.FinallyRequired,
	}
}

func answerDaoToDomain(a dao.Answer) domain.Answer {
	return domain.Answer{
		ID:          a.ID,
		ApplicantID: a.ApplicantID,
		QuestionID:  a.QuestionID,
		Question:    questionDaoToDomain(a.Question),
		Response:    a.Response,
	}
}

func (r *FormRepository) ListQuestionsByForm(ctx context.Context, formID uint) ([]domain.Question, error) {
	questions, err := r.dao.ListQuestionsByForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Question, len(questions))
	for i, q := range questions {
		result[i] = questionDaoToDomain(q)
	}

	return result, nil
}

func (r *FormRepository) FindQuestionByID(ctx context.Context, id uint) (domain.Question, error) {
	question, err := r.dao.FindQuestionByID(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}

	return questionDaoToDomain(question), nil
}

func (r *FormRepository) ListAnswersByApplicant(ctx context.Context, applicantID uint) ([]domain.Answer, error) {
	answers, err := r.dao.ListAnswersByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Answer, len(answers))
	for i, a := range answers {
		result[i] = answerDaoToDomain(a)
	}

	return result, nil
}

func (r *FormRepository) UpsertAnswer(ctx context.Context, answer domain.Answer) (domain.Answer, error) {
	saved, err := r.dao.UpsertAnswer(ctx, dao.Answer{
		ApplicantID: answer.ApplicantID,
		QuestionID:  answer.QuestionID,
		Response:    answer.Response,
	})
	if err != nil {
		return domain.Answer{}, err
	}

	return answerDaoToDomain(saved), nil
}
