package repository

import (
	"context"

	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/repository/dao"
)

var (
	ErrApplicantNotFound   = dao.ErrApplicantNotFound
	ErrWishNotFound        = dao.ErrWishNotFound
	ErrLabelNotFound       = dao.ErrLabelNotFound
	ErrLabelAlreadyApplied = dao.ErrLabelAlreadyApplied
	ErrLabelNotApplied     = dao.ErrLabelNotApplied
	ErrDuplicateWishEvent  = dao.ErrDuplicateWishEvent
)

type ApplicantDAO interface {
	GetOrCreate(ctx context.Context, userID, editionID uint) (dao.Applicant, error)
	FindByID(ctx context.Context, id uint) (dao.Applicant, error)
	FindByUserAndEdition(ctx context.Context, userID, editionID uint) (dao.Applicant, error)
	ListByEvent(ctx context.Context, eventID uint) ([]dao.Applicant, error)
	ListByEventAndStatus(ctx context.Context, eventID uint, status string) ([]dao.Applicant, error)
	ReplaceWishes(ctx context.Context, applicantID uint, wishes []dao.Wish) error
	MarkIncompleteWishesPending(ctx context.Context, applicantID uint) error
	FindWishByID(ctx context.Context, id uint) (dao.Wish, error)
	UpdateWishStatus(ctx context.Context, wishID uint, status string) error
	AcceptAllSelected(ctx context.Context, eventID uint) (int64, error)
	WishStatusCounts(ctx context.Context, eventID uint) ([]dao.StatusCount, error)
	FindLabelByID(ctx context.Context, id uint) (dao.Label, error)
	ListLabels(ctx context.Context) ([]dao.Label, error)
	AddLabel(ctx context.Context, applicantID, labelID uint) error
	RemoveLabel(ctx context.Context, applicantID, labelID uint) error
}

type ApplicantRepository struct {
	dao ApplicantDAO
}

func NewApplicantRepository(dao ApplicantDAO) *ApplicantRepository {
	return &ApplicantRepository{
		dao: dao,
	}
}

func wishDaoToDomain(w dao.Wish) domain.Wish {
	return domain.Wish{
		ID:          w.ID,
		ApplicantID: w.ApplicantID,
		EventID:     w.EventID,
		Event:       eventDaoToDomain(w.Event),
		Order:       w.Order,
		Status:      domain.Status(w.Status),
	}
}

func labelDaoToDomain(l dao.Label) domain.Label {
	return domain.Label{
		ID:      l.ID,
		Display: l.Display,
	}
}

func (r *ApplicantRepository) daoToDomain(a dao.Applicant) domain.Applicant {
	applicant := domain.Applicant{
		ID:        a.ID,
		UserID:    a.UserID,
		EditionID: a.EditionID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	applicant.User = domain.User{
		ID:        a.User.ID,
		Email:     a.User.Email,
		Username:  a.User.Username,
		FirstName: a.User.FirstName,
		LastName:  a.User.LastName,
		Role:      a.User.Role,
		Birthdate: a.User.Birthdate,
	}

	for _, w := range a.Wishes {
		applicant.Wishes = append(applicant.Wishes, wishDaoToDomain(w))
	}
	for _, l := range a.Labels {
		applicant.Labels = append(applicant.Labels, labelDaoToDomain(l))
	}
	for _, ans := range a.Answers {
		applicant.Answers = append(applicant.Answers, answerDaoToDomain(ans))
	}

	return applicant
}

func (r *ApplicantRepository) daosToDomain(applicants []dao.Applicant) []domain.Applicant {
	result := make([]domain.Applicant, len(applicants))
	for i, a := range applicants {
		result[i] = r.daoToDomain(a)
	}

	return result
}

func (r *ApplicantRepository) GetOrCreate(ctx context.Context, userID, editionID uint) (domain.Applicant, error) {
	applicant, err := r.dao.GetOrCreate(ctx, userID, editionID)
	if err != nil {
		return domain.Applicant{}, err
	}

	return r.daoToDomain(applicant), nil
}

func (r *ApplicantRepository) FindByID(ctx context.Context, id uint) (domain.Applicant, error) {
	applicant, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Applicant{}, err
	}

	return r.daoToDomain(applicant), nil
}

func (r *ApplicantRepository) FindByUserAndEdition(ctx context.Context, userID, editionID uint) (domain.Applicant, error) {
	applicant, err := r.dao.FindByUserAndEdition(ctx, userID, editionID)
	if err != nil {
		return domain.Applicant{}, err
	}

	return r.daoToDomain(applicant), nil
}

func (r *ApplicantRepository) ListByEvent(ctx context.Context, eventID uint) ([]domain.Applicant, error) {
	applicants, err := r.dao.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return r.daosToDomain(applicants), nil
}

func (r *ApplicantRepository) ListByEventAndStatus(ctx context.Context, eventID uint, status domain.Status) ([]domain.Applicant, error) {
	applicants, err := r.dao.ListByEventAndStatus(ctx, eventID, string(status))
	if err != nil {
		return nil, err
	}

	return r.daosToDomain(applicants), nil
}

func (r *ApplicantRepository) ReplaceWishes(ctx context.Context, applicantID uint, wishes []domain.Wish) error {
	daoWishes := make([]dao.Wish, len(wishes))
	for i, w := range wishes {
		daoWishes[i] = dao.Wish{
			EventID: w.EventID,
			Order:   w.Order,
			Status:  string(w.Status),
		}
	}

	return r.dao.ReplaceWishes(ctx, applicantID, daoWishes)
}

func (r *ApplicantRepository) MarkIncompleteWishesPending(ctx context.Context, applicantID uint) error {
	return r.dao.MarkIncompleteWishesPending(ctx, applicantID)
}

func (r *ApplicantRepository) FindWishByID(ctx context.Context, id uint) (domain.Wish, error) {
	wish, err := r.dao.FindWishByID(ctx, id)
	if err != nil {
		return domain.Wish{}, err
	}

	result := wishDaoToDomain(wish)
	owner := r.daoToDomain(wish.Applicant)
	result.Applicant = &owner

	return result, nil
}

func (r *ApplicantRepository) UpdateWishStatus(ctx context.Context, wishID uint, status domain.Status) error {
	return r.dao.UpdateWishStatus(ctx, wishID, string(status))
}

func (r *ApplicantRepository) AcceptAllSelected(ctx context.Context, eventID uint) (int64, error) {
	return r.dao.AcceptAllSelected(ctx, eventID)
}

func (r *ApplicantRepository) WishStatusCounts(ctx context.Context, eventID uint) (map[domain.Status]int64, error) {
	counts, err := r.dao.WishStatusCounts(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result := make(map[domain.Status]int64, len(counts))
	for _, c := range counts {
		result[domain.Status(c.Status)] = c.Count
	}

	return result, nil
}

func (r *ApplicantRepository) FindLabelByID(ctx context.Context, id uint) (domain.Label, error) {
	label, err := r.dao.FindLabelByID(ctx, id)
	if err != nil {
		return domain.Label{}, err
	}

	return labelDaoToDomain(label), nil
}

func (r *ApplicantRepository) ListLabels(ctx context.Context) ([]domain.Label, error) {
	labels, err := r.dao.ListLabels(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Label, len(labels))
	for i, l := range labels {
		result[i] = labelDaoToDomain(l)
	}

	return result, nil
}

func (r *ApplicantRepository) AddLabel(ctx context.Context, applicantID, labelID uint) error {
	return r.dao.AddLabel(ctx, applicantID, labelID)
}

func (r *ApplicantRepository) RemoveLabel(ctx context.Context, applicantID, labelID uint) error {
	return r.dao.RemoveLabel(ctx, applicantID, labelID)
}
