package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/repository"
)

type fakeApplicantRepo struct {
	mu sync.Mutex

	applicant domain.Applicant
	wish      domain.Wish

	replacedWishes  []domain.Wish
	markedPending   bool
	updatedWishID   uint
	updatedStatus   domain.Status
	updateCallCount int
}

func (f *fakeApplicantRepo) GetOrCreate(_ context.Context, userID, editionID uint) (domain.Applicant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.applicant.UserID = userID
	f.applicant.EditionID = editionID

	return f.applicant, nil
}

func (f *fakeApplicantRepo) FindByUserAndEdition(_ context.Context, userID, editionID uint) (domain.Applicant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.applicant.ID == 0 {
		return domain.Applicant{}, repository.ErrApplicantNotFound
	}

	return f.applicant, nil
}

func (f *fakeApplicantRepo) ReplaceWishes(_ context.Context, applicantID uint, wishes []domain.Wish) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.replacedWishes = wishes
	f.applicant.Wishes = wishes

	return nil
}

func (f *fakeApplicantRepo) MarkIncompleteWishesPending(_ context.Context, applicantID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.markedPending = true
	for i, w := range f.applicant.Wishes {
		if w.Status == domain.StatusIncomplete {
			f.applicant.Wishes[i].Status = domain.StatusPending
		}
	}

	return nil
}

func (f *fakeApplicantRepo) FindWishByID(_ context.Context, id uint) (domain.Wish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.wish.ID != id {
		return domain.Wish{}, repository.ErrWishNotFound
	}

	return f.wish, nil
}

func (f *fakeApplicantRepo) UpdateWishStatus(_ context.Context, wishID uint, status domain.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updatedWishID = wishID
	f.updatedStatus = status
	f.updateCallCount++

	return nil
}

type fakeEditionRepo struct {
	edition domain.Edition
	form    domain.Form
	events  map[uint]domain.Event
}

func (f *fakeEditionRepo) FindByYear(_ context.Context, year int) (domain.Edition, error) {
	if f.edition.Year != year {
		return domain.Edition{}, repository.ErrEditionNotFound
	}

	return f.edition, nil
}

func (f *fakeEditionRepo) FindFormByYear(_ context.Context, year int) (domain.Form, error) {
	if f.edition.Year != year {
		return domain.Form{}, repository.ErrEditionNotFound
	}

	return f.form, nil
}

func (f *fakeEditionRepo) FindEventByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func (f *fakeEditionRepo) ListEventsByEdition(_ context.Context, editionID uint) ([]domain.Event, error) {
	var events []domain.Event
	for _, e := range f.events {
		if e.EditionID == editionID {
			events = append(events, e)
		}
	}

	return events, nil
}

type fakeFormRepo struct {
	answers []domain.Answer
	upserts []domain.Answer
}

func (f *fakeFormRepo) ListAnswersByApplicant(_ context.Context, applicantID uint) ([]domain.Answer, error) {
	return f.answers, nil
}

func (f *fakeFormRepo) FindQuestionByID(_ context.Context, id uint) (domain.Question, error) {
	return domain.Question{ID: id}, nil
}

func (f *fakeFormRepo) UpsertAnswer(_ context.Context, answer domain.Answer) (domain.Answer, error) {
	f.upserts = append(f.upserts, answer)

	return answer, nil
}

type fakeMailer struct {
	sent chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 8)}
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.sent <- to

	return nil
}

func (f *fakeMailer) waitForMail(t *testing.T) string {
	t.Helper()

	select {
	case to := <-f.sent:
		return to
	case <-time.After(time.Second):
		t.Fatal("expected an email to be sent")
		return ""
	}
}

func openEvent(id, editionID uint) domain.Event {
	now := time.Now()

	return domain.Event{
		ID:          id,
		EditionID:   editionID,
		Center:      "Lyon",
		SignupStart: now.AddDate(0, -1, 0),
		SignupEnd:   now.AddDate(0, 1, 0),
		EventStart:  now.AddDate(0, 2, 0),
		EventEnd:    now.AddDate(0, 3, 0),
	}
}

func completeProfileUser() domain.User {
	birthdate := time.Date(2009, 4, 2, 0, 0, 0, 0, time.UTC)

	return domain.User{
		ID:        7,
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Martin",
		Birthdate: &birthdate,
	}
}

func TestApplicationService_Validate_Incomplete(t *testing.T) {
	repo := &fakeApplicantRepo{
		applicant: domain.Applicant{
			ID:     1,
			UserID: 7,
			User:   domain.User{ID: 7, Email: "alice@example.com"}, // no name, no birthdate
			Wishes: []domain.Wish{{ID: 10, Status: domain.StatusIncomplete}},
		},
	}
	editionRepo := &fakeEditionRepo{edition: domain.Edition{ID: 3, Year: 2026}}
	mailer := newFakeMailer()

	svc := NewApplicationService(repo, editionRepo, &fakeFormRepo{}, mailer)

	_, err := svc.Validate(context.Background(), 7, 2026)

	require.ErrorIs(t, err, ErrIncompleteApplication)
	assert.False(t, repo.markedPending, "an incomplete application must not change any wish")
	assert.Empty(t, mailer.sent)
}

func TestApplicationService_Validate_Complete(t *testing.T) {
	repo := &fakeApplicantRepo{
		applicant: domain.Applicant{
			ID:     1,
			UserID: 7,
			User:   completeProfileUser(),
			Wishes: []domain.Wish{
				{ID: 10, Status: domain.StatusIncomplete},
				{ID: 11, Status: domain.StatusRejected},
			},
		},
	}
	editionRepo := &fakeEditionRepo{
		edition: domain.Edition{ID: 3, Year: 2026},
		form: domain.Form{Questions: []domain.Question{
			{ID: 100, Text: "Motivation", FinallyRequired: true},
		}},
	}
	formRepo := &fakeFormRepo{
		answers: []domain.Answer{{QuestionID: 100, Response: "I love coding"}},
	}
	mailer := newFakeMailer()

	svc := NewApplicationService(repo, editionRepo, formRepo, mailer)

	applicant, err := svc.Validate(context.Background(), 7, 2026)

	require.NoError(t, err)
	assert.True(t, repo.markedPending)

	// Only the incomplete wish moved to pending, the rejected one is untouched.
	assert.Equal(t, domain.StatusPending, applicant.Wishes[0].Status)
	assert.Equal(t, domain.StatusRejected, applicant.Wishes[1].Status)

	assert.Equal(t, "alice@example.com", mailer.waitForMail(t))
}

func TestApplicationService_Validate_MissingFinallyRequiredAnswer(t *testing.T) {
	repo := &fakeApplicantRepo{
		applicant: domain.Applicant{
			ID:     1,
			UserID: 7,
			User:   completeProfileUser(),
			Wishes: []domain.Wish{{ID: 10, Status: domain.StatusIncomplete}},
		},
	}
	editionRepo := &fakeEditionRepo{
		edition: domain.Edition{ID: 3, Year: 2026},
		form: domain.Form{Questions: []domain.Question{
			{ID: 100, Text: "Motivation", FinallyRequired: true},
		}},
	}

	svc := NewApplicationService(repo, editionRepo, &fakeFormRepo{}, newFakeMailer())

	_, err := svc.Validate(context.Background(), 7, 2026)

	require.ErrorIs(t, err, ErrIncompleteApplication)
	assert.False(t, repo.markedPending)
}

func TestApplicationService_SubmitWishes(t *testing.T) {
	repo := &fakeApplicantRepo{
		applicant: domain.Applicant{
			ID:     1,
			UserID: 7,
			Wishes: []domain.Wish{{ID: 10, EventID: 20, Status: domain.StatusRejected}},
		},
	}
	editionRepo := &fakeEditionRepo{
		edition: domain.Edition{ID: 3, Year: 2026},
		events: map[uint]domain.Event{
			20: openEvent(20, 3),
			21: openEvent(21, 3),
		},
	}

	svc := NewApplicationService(repo, editionRepo, &fakeFormRepo{}, newFakeMailer())

	applicant, err := svc.SubmitWishes(context.Background(), 7, 2026, []WishChoice{
		{EventID: 21, Order: 1},
		{EventID: 20, Order: 2},
	})

	require.NoError(t, err)
	require.Len(t, repo.replacedWishes, 2)

	// Resubmission resets every wish to incomplete, rejected ones included.
	for _, w := range repo.replacedWishes {
		assert.Equal(t, domain.StatusIncomplete, w.Status)
	}

	assert.Equal(t, domain.StatusIncomplete, applicant.Status())
	assert.False(t, applicant.IsLocked())
}

func TestApplicationService_SubmitWishes_Locked(t *testing.T) {
	repo := &fakeApplicantRepo{
		applicant: domain.Applicant{
			ID:     1,
			UserID: 7,
			Wishes: []domain.Wish{{ID: 10, EventID: 20, Status: domain.StatusPending}},
		},
	}
	editionRepo := &fakeEditionRepo{
		edition: domain.Edition{ID: 3, Year: 2026},
		events:  map[uint]domain.Event{20: openEvent(20, 3)},
	}

	svc := NewApplicationService(repo, editionRepo, &fakeFormRepo{}, newFakeMailer())

	_, err := svc.SubmitWishes(context.Background(), 7, 2026, []WishChoice{{EventID: 20, Order: 1}})

	require.ErrorIs(t, err, ErrApplicationLocked)
	assert.Nil(t, repo.replacedWishes)
}

func TestApplicationService_SubmitWishes_Invalid(t *testing.T) {
	editionRepo := &fakeEditionRepo{
		edition: domain.Edition{ID: 3, Year: 2026},
		events:  map[uint]domain.Event{20: openEvent(20, 3)},
	}

	t.Run("too many wishes", func(t *testing.T) {
		svc := NewApplicationService(&fakeApplicantRepo{applicant: domain.Applicant{ID: 1}}, editionRepo, &fakeFormRepo{}, newFakeMailer())

		_, err := svc.SubmitWishes(context.Background(), 7, 2026, []WishChoice{
			{EventID: 1, Order: 1}, {EventID: 2, Order: 2}, {EventID: 3, Order: 3}, {EventID: 4, Order: 1},
		})

		assert.ErrorIs(t, err, ErrTooManyWishes)
	})

	t.Run("duplicate event", func(t *testing.T) {
		svc := NewApplicationService(&fakeApplicantRepo{applicant: domain.Applicant{ID: 1}}, editionRepo, &fakeFormRepo{}, newFakeMailer())

		_, err := svc.SubmitWishes(context.Background(), 7, 2026, []WishChoice{
			{EventID: 20, Order: 1}, {EventID: 20, Order: 2},
		})

		assert.ErrorIs(t, err, ErrDuplicateWishEvent)
	})

	t.Run("signup closed", func(t *testing.T) {
		closed := openEvent(22, 3)
		closed.SignupEnd = time.Now().AddDate(0, 0, -1)

		closedRepo := &fakeEditionRepo{
			edition: domain.Edition{ID: 3, Year: 2026},
			events:  map[uint]domain.Event{22: closed},
		}
		svc := NewApplicationService(&fakeApplicantRepo{applicant: domain.Applicant{ID: 1}}, closedRepo, &fakeFormRepo{}, newFakeMailer())

		_, err := svc.SubmitWishes(context.Background(), 7, 2026, []WishChoice{{EventID: 22, Order: 1}})

		assert.ErrorIs(t, err, ErrEventSignupClosed)
	})

	t.Run("event from another edition", func(t *testing.T) {
		foreignRepo := &fakeEditionRepo{
			edition: domain.Edition{ID: 3, Year: 2026},
			events:  map[uint]domain.Event{30: openEvent(30, 99)},
		}
		svc := NewApplicationService(&fakeApplicantRepo{applicant: domain.Applicant{ID: 1}}, foreignRepo, &fakeFormRepo{}, newFakeMailer())

		_, err := svc.SubmitWishes(context.Background(), 7, 2026, []WishChoice{{EventID: 30, Order: 1}})

		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestApplicationService_ConfirmVenue(t *testing.T) {
	owner := &domain.Applicant{ID: 1, UserID: 7}

	t.Run("accepted wish becomes confirmed", func(t *testing.T) {
		repo := &fakeApplicantRepo{
			wish: domain.Wish{ID: 10, ApplicantID: 1, Status: domain.StatusAccepted, Applicant: owner},
		}
		svc := NewApplicationService(repo, &fakeEditionRepo{}, &fakeFormRepo{}, newFakeMailer())

		wish, err := svc.ConfirmVenue(context.Background(), 7, 10)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, wish.Status)
		assert.Equal(t, uint(10), repo.updatedWishID)
		assert.Equal(t, domain.StatusConfirmed, repo.updatedStatus)
	})

	t.Run("non-accepted wish is a silent no-op", func(t *testing.T) {
		repo := &fakeApplicantRepo{
			wish: domain.Wish{ID: 10, ApplicantID: 1, Status: domain.StatusPending, Applicant: owner},
		}
		svc := NewApplicationService(repo, &fakeEditionRepo{}, &fakeFormRepo{}, newFakeMailer())

		wish, err := svc.ConfirmVenue(context.Background(), 7, 10)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, wish.Status)
		assert.Zero(t, repo.updateCallCount)
	})

	t.Run("someone else's wish", func(t *testing.T) {
		repo := &fakeApplicantRepo{
			wish: domain.Wish{ID: 10, ApplicantID: 1, Status: domain.StatusAccepted, Applicant: owner},
		}
		svc := NewApplicationService(repo, &fakeEditionRepo{}, &fakeFormRepo{}, newFakeMailer())

		_, err := svc.ConfirmVenue(context.Background(), 8, 10)

		assert.ErrorIs(t, err, ErrNotWishOwner)
	})

	t.Run("unknown wish", func(t *testing.T) {
		svc := NewApplicationService(&fakeApplicantRepo{}, &fakeEditionRepo{}, &fakeFormRepo{}, newFakeMailer())

		_, err := svc.ConfirmVenue(context.Background(), 7, 99)

		assert.ErrorIs(t, err, ErrWishNotFound)
	})
}

func TestApplicationService_SaveAnswers(t *testing.T) {
	editionRepo := &fakeEditionRepo{
		edition: domain.Edition{ID: 3, Year: 2026},
		form:    domain.Form{Questions: []domain.Question{{ID: 100}}},
	}

	t.Run("locked application", func(t *testing.T) {
		repo := &fakeApplicantRepo{
			applicant: domain.Applicant{
				ID:     1,
				Wishes: []domain.Wish{{Status: domain.StatusSelected}},
			},
		}
		svc := NewApplicationService(repo, editionRepo, &fakeFormRepo{}, newFakeMailer())

		err := svc.SaveAnswers(context.Background(), 7, 2026, map[uint]string{100: "yes"})

		assert.ErrorIs(t, err, ErrApplicationLocked)
	})

	t.Run("unknown question", func(t *testing.T) {
		repo := &fakeApplicantRepo{applicant: domain.Applicant{ID: 1}}
		svc := NewApplicationService(repo, editionRepo, &fakeFormRepo{}, newFakeMailer())

		err := svc.SaveAnswers(context.Background(), 7, 2026, map[uint]string{999: "yes"})

		assert.ErrorIs(t, err, ErrQuestionNotFound)
	})

	t.Run("valid answers are upserted", func(t *testing.T) {
		repo := &fakeApplicantRepo{applicant: domain.Applicant{ID: 1}}
		formRepo := &fakeFormRepo{}
		svc := NewApplicationService(repo, editionRepo, formRepo, newFakeMailer())

		err := svc.SaveAnswers(context.Background(), 7, 2026, map[uint]string{100: "yes"})

		require.NoError(t, err)
		require.Len(t, formRepo.upserts, 1)
		assert.Equal(t, uint(100), formRepo.upserts[0].QuestionID)
		assert.Equal(t, "yes", formRepo.upserts[0].Response)
	})
}
