package repository

import (
	"context"

	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/repository/dao"
)

var (
	ErrEditionNotFound = dao.ErrEditionNotFound
	ErrEventNotFound   = dao.ErrEventNotFound
)

type EditionDAO interface {
	FindByYear(ctx context.Context, year int) (dao.Edition, error)
	FindByID(ctx context.Context, id uint) (dao.Edition, error)
	FindEventByID(ctx context.Context, id uint) (dao.Event, error)
	ListEventsByEdition(ctx context.Context, editionID uint) ([]dao.Event, error)
	ListAllEvents(ctx context.Context) ([]dao.Event, error)
}

type EditionRepository struct {
	dao EditionDAO
}

func NewEditionRepository(dao EditionDAO) *EditionRepository {
	return &EditionRepository{
		dao: dao,
	}
}

func editionDaoToDomain(e dao.Edition) domain.Edition {
	return domain.Edition{
		ID:           e.ID,
		Year:         e.Year,
		SignupFormID: e.SignupFormID,
	}
}

func eventDaoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		EditionID:   e.EditionID,
		Center:      e.Center,
		IsLong:      e.IsLong,
		EventStart:  e.EventStart,
		EventEnd:    e.EventEnd,
		SignupStart: e.SignupStart,
		SignupEnd:   e.SignupEnd,
	}
}

func eventsDaoToDomain(events []dao.Event) []domain.Event {
	result := make([]domain.Event, len(events))
	for i, e := range events {
		result[i] = eventDaoToDomain(e)
	}

	return result
}

func (r *EditionRepository) FindByYear(ctx context.Context, year int) (domain.Edition, error) {
	edition, err := r.dao.FindByYear(ctx, year)
	if err != nil {
		return domain.Edition{}, err
	}

	return editionDaoToDomain(edition), nil
}

func formDaoToDomain(f dao.Form) domain.Form {
	form := domain.Form{
		ID:   f.ID,
		Name: f.Name,
	}
	for _, q := range f.Questions {
		form.Questions = append(form.Questions, questionDaoToDomain(q))
	}

	return form
}

// FindFormByYear returns the edition's signup form with its ordered
// questions.
func (r *EditionRepository) FindFormByYear(ctx context.Context, year int) (domain.Form, error) {
	edition, err := r.dao.FindByYear(ctx, year)
	if err != nil {
		return domain.Form{}, err
	}

	return formDaoToDomain(edition.SignupForm), nil
}

// FindFormByEdition is FindFormByYear for callers holding an edition id,
// e.g. the review CSV export starting from an event.
func (r *EditionRepository) FindFormByEdition(ctx context.Context, editionID uint) (domain.Form, error) {
	edition, err := r.dao.FindByID(ctx, editionID)
	if err != nil {
		return domain.Form{}, err
	}

	return formDaoToDomain(edition.SignupForm), nil
}

func (r *EditionRepository) FindEventByID(ctx context.Context, id uint) (domain.Event, error) {
	event, err := r.dao.FindEventByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	return eventDaoToDomain(event), nil
}

func (r *EditionRepository) ListEventsByEdition(ctx context.Context, editionID uint) ([]domain.Event, error) {
	events, err := r.dao.ListEventsByEdition(ctx, editionID)
	if err != nil {
		return nil, err
	}

	return eventsDaoToDomain(events), nil
}

func (r *EditionRepository) ListAllEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := r.dao.ListAllEvents(ctx)
	if err != nil {
		return nil, err
	}

	return eventsDaoToDomain(events), nil
}
