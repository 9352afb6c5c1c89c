package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/repository"
)

type labelKey struct {
	applicantID uint
	labelID     uint
}

type fakeReviewRepo struct {
	applicants map[uint]*domain.Applicant
	labels     map[uint]domain.Label
	applied    map[labelKey]bool

	byEvent         map[uint][]uint // eventID -> applicant IDs
	acceptAllEvents []uint
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		applicants: make(map[uint]*domain.Applicant),
		labels:     make(map[uint]domain.Label),
		applied:    make(map[labelKey]bool),
		byEvent:    make(map[uint][]uint),
	}
}

func (f *fakeReviewRepo) FindByID(_ context.Context, id uint) (domain.Applicant, error) {
	a, ok := f.applicants[id]
	if !ok {
		return domain.Applicant{}, repository.ErrApplicantNotFound
	}

	return *a, nil
}

func (f *fakeReviewRepo) ListByEvent(_ context.Context, eventID uint) ([]domain.Applicant, error) {
	var result []domain.Applicant
	for _, id := range f.byEvent[eventID] {
		result = append(result, *f.applicants[id])
	}

	return result, nil
}

func (f *fakeReviewRepo) ListByEventAndStatus(_ context.Context, eventID uint, status domain.Status) ([]domain.Applicant, error) {
	var result []domain.Applicant
	for _, id := range f.byEvent[eventID] {
		a := f.applicants[id]
		for _, w := range a.Wishes {
			if w.EventID == eventID && w.Status == status {
				result = append(result, *a)
				break
			}
		}
	}

	return result, nil
}

func (f *fakeReviewRepo) FindWishByID(_ context.Context, id uint) (domain.Wish, error) {
	for _, a := range f.applicants {
		for _, w := range a.Wishes {
			if w.ID == id {
				return w, nil
			}
		}
	}

	return domain.Wish{}, repository.ErrWishNotFound
}

func (f *fakeReviewRepo) UpdateWishStatus(_ context.Context, wishID uint, status domain.Status) error {
	for _, a := range f.applicants {
		for i, w := range a.Wishes {
			if w.ID == wishID {
				a.Wishes[i].Status = status
				return nil
			}
		}
	}

	return repository.ErrWishNotFound
}

func (f *fakeReviewRepo) AcceptAllSelected(_ context.Context, eventID uint) (int64, error) {
	f.acceptAllEvents = append(f.acceptAllEvents, eventID)

	var updated int64
	for _, a := range f.applicants {
		for i, w := range a.Wishes {
			if w.EventID == eventID && w.Status == domain.StatusSelected {
				a.Wishes[i].Status = domain.StatusAccepted
				updated++
			}
		}
	}

	return updated, nil
}

func (f *fakeReviewRepo) WishStatusCounts(_ context.Context, eventID uint) (map[domain.Status]int64, error) {
	counts := make(map[domain.Status]int64)
	for _, a := range f.applicants {
		for _, w := range a.Wishes {
			if w.EventID == eventID {
				counts[w.Status]++
			}
		}
	}

	return counts, nil
}

func (f *fakeReviewRepo) FindLabelByID(_ context.Context, id uint) (domain.Label, error) {
	label, ok := f.labels[id]
	if !ok {
		return domain.Label{}, repository.ErrLabelNotFound
	}

	return label, nil
}

func (f *fakeReviewRepo) ListLabels(_ context.Context) ([]domain.Label, error) {
	var labels []domain.Label
	for _, l := range f.labels {
		labels = append(labels, l)
	}

	return labels, nil
}

func (f *fakeReviewRepo) AddLabel(_ context.Context, applicantID, labelID uint) error {
	key := labelKey{applicantID, labelID}
	if f.applied[key] {
		return repository.ErrLabelAlreadyApplied
	}
	f.applied[key] = true

	return nil
}

func (f *fakeReviewRepo) RemoveLabel(_ context.Context, applicantID, labelID uint) error {
	key := labelKey{applicantID, labelID}
	if !f.applied[key] {
		return repository.ErrLabelNotApplied
	}
	delete(f.applied, key)

	return nil
}

type fakeReviewEditionRepo struct {
	events map[uint]domain.Event
	form   domain.Form
}

func (f *fakeReviewEditionRepo) FindEventByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func (f *fakeReviewEditionRepo) FindFormByEdition(_ context.Context, editionID uint) (domain.Form, error) {
	return f.form, nil
}

func (f *fakeReviewEditionRepo) ListAllEvents(_ context.Context) ([]domain.Event, error) {
	var events []domain.Event
	for _, e := range f.events {
		events = append(events, e)
	}

	return events, nil
}

func TestReviewService_UpdateWishStatus(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.applicants[1] = &domain.Applicant{
		ID: 1,
		Wishes: []domain.Wish{
			{ID: 10, ApplicantID: 1, EventID: 20, Status: domain.StatusPending},
			{ID: 11, ApplicantID: 1, EventID: 21, Status: domain.StatusRejected},
		},
	}
	svc := NewReviewService(repo, &fakeReviewEditionRepo{}, newFakeMailer())

	t.Run("direct assignment re-aggregates the applicant", func(t *testing.T) {
		update, err := svc.UpdateWishStatus(context.Background(), 10, domain.StatusSelected)

		require.NoError(t, err)
		assert.Equal(t, uint(10), update.WishID)
		assert.Equal(t, domain.StatusSelected, update.WishStatus)
		assert.Equal(t, uint(1), update.ApplicantID)
		assert.Equal(t, domain.StatusSelected, update.ApplicantStatus)
	})

	t.Run("assigning the current status fails", func(t *testing.T) {
		_, err := svc.UpdateWishStatus(context.Background(), 10, domain.StatusSelected)

		assert.ErrorIs(t, err, ErrWishAlreadyInStatus)
	})

	t.Run("staff can move a wish out of rejected", func(t *testing.T) {
		update, err := svc.UpdateWishStatus(context.Background(), 11, domain.StatusPending)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, update.WishStatus)
	})

	t.Run("unknown wish", func(t *testing.T) {
		_, err := svc.UpdateWishStatus(context.Background(), 99, domain.StatusPending)

		assert.ErrorIs(t, err, ErrWishNotFound)
	})
}

func TestReviewService_Labels(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.applicants[1] = &domain.Applicant{ID: 1}
	repo.labels[5] = domain.Label{ID: 5, Display: "shortlist"}
	svc := NewReviewService(repo, &fakeReviewEditionRepo{}, newFakeMailer())

	ctx := context.Background()

	require.NoError(t, svc.AddLabel(ctx, 1, 5))
	assert.ErrorIs(t, svc.AddLabel(ctx, 1, 5), ErrLabelAlreadyApplied)

	require.NoError(t, svc.RemoveLabel(ctx, 1, 5))
	assert.ErrorIs(t, svc.RemoveLabel(ctx, 1, 5), ErrLabelNotApplied)

	assert.ErrorIs(t, svc.AddLabel(ctx, 99, 5), ErrApplicantNotFound)
	assert.ErrorIs(t, svc.AddLabel(ctx, 1, 99), ErrLabelNotFound)
}

func TestReviewService_AcceptAll(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.applicants[1] = &domain.Applicant{
		ID: 1,
		Wishes: []domain.Wish{
			{ID: 10, EventID: 20, Status: domain.StatusSelected},
			{ID: 11, EventID: 21, Status: domain.StatusSelected},
		},
	}
	repo.applicants[2] = &domain.Applicant{
		ID:     2,
		Wishes: []domain.Wish{{ID: 12, EventID: 20, Status: domain.StatusPending}},
	}
	repo.byEvent[20] = []uint{1, 2}
	editionRepo := &fakeReviewEditionRepo{events: map[uint]domain.Event{20: {ID: 20, EditionID: 3}}}
	svc := NewReviewService(repo, editionRepo, newFakeMailer())

	accepted, err := svc.AcceptAll(context.Background(), 20)

	require.NoError(t, err)
	assert.Equal(t, int64(1), accepted)

	// Only the selected wish of this event moved.
	assert.Equal(t, domain.StatusAccepted, repo.applicants[1].Wishes[0].Status)
	assert.Equal(t, domain.StatusSelected, repo.applicants[1].Wishes[1].Status)
	assert.Equal(t, domain.StatusPending, repo.applicants[2].Wishes[0].Status)

	_, err = svc.AcceptAll(context.Background(), 99)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestReviewService_SendAcceptanceEmails(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.applicants[1] = &domain.Applicant{
		ID:     1,
		User:   domain.User{Email: "alice@example.com", FirstName: "Alice"},
		Wishes: []domain.Wish{{ID: 10, EventID: 20, Status: domain.StatusAccepted}},
	}
	repo.applicants[2] = &domain.Applicant{
		ID:     2,
		User:   domain.User{Email: "zoe@example.com", FirstName: "Zoe"},
		Wishes: []domain.Wish{{ID: 11, EventID: 20, Status: domain.StatusPending}},
	}
	repo.byEvent[20] = []uint{1, 2}
	editionRepo := &fakeReviewEditionRepo{events: map[uint]domain.Event{20: {ID: 20, Center: "Lyon"}}}
	mailer := newFakeMailer()
	svc := NewReviewService(repo, editionRepo, mailer)

	sent, err := svc.SendAcceptanceEmails(context.Background(), 20)

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, "alice@example.com", mailer.waitForMail(t))
}

func TestReviewService_ExportCSV(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.applicants[1] = &domain.Applicant{
		ID:     1,
		User:   domain.User{Username: "alice", FirstName: "Alice", LastName: "Martin", Email: "alice@example.com"},
		Wishes: []domain.Wish{{ID: 10, EventID: 20, Status: domain.StatusSelected}},
		Labels: []domain.Label{{ID: 5, Display: "shortlist"}},
		Answers: []domain.Answer{
			{QuestionID: 100, Response: "I love coding"},
		},
	}
	repo.byEvent[20] = []uint{1}
	editionRepo := &fakeReviewEditionRepo{
		events: map[uint]domain.Event{20: {ID: 20, EditionID: 3}},
		form: domain.Form{Questions: []domain.Question{
			{ID: 100, Text: "Motivation"},
			{ID: 101, Text: "Laptop needed?"},
		}},
	}
	svc := NewReviewService(repo, editionRepo, newFakeMailer())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), 20, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"Username", "First name", "Last name", "Email", "Status", "Labels", "Motivation", "Laptop needed?"}, records[0])
	assert.Equal(t, []string{"alice", "Alice", "Martin", "alice@example.com", "selected", "shortlist", "I love coding", "(empty)"}, records[1])
}

func TestReviewService_ListEvents(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.applicants[1] = &domain.Applicant{
		ID: 1,
		Wishes: []domain.Wish{
			{ID: 10, EventID: 20, Status: domain.StatusPending},
			{ID: 11, EventID: 20, Status: domain.StatusPending},
		},
	}
	editionRepo := &fakeReviewEditionRepo{events: map[uint]domain.Event{20: {ID: 20, Center: "Paris"}}}
	svc := NewReviewService(repo, editionRepo, newFakeMailer())

	reviews, err := svc.ListEvents(context.Background())

	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Paris", reviews[0].Event.Center)
	assert.Equal(t, int64(2), reviews[0].Wishes[domain.StatusPending])
}
