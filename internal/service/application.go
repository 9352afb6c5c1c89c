package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/repository"
)

var (
	ErrApplicantNotFound  = repository.ErrApplicantNotFound
	ErrEditionNotFound    = repository.ErrEditionNotFound
	ErrEventNotFound      = repository.ErrEventNotFound
	ErrWishNotFound       = repository.ErrWishNotFound
	ErrQuestionNotFound   = repository.ErrQuestionNotFound
	ErrDuplicateWishEvent = repository.ErrDuplicateWishEvent

	ErrApplicationLocked     = errors.New("application has already been validated")
	ErrIncompleteApplication = errors.New("application is incomplete")
	ErrTooManyWishes         = fmt.Errorf("at most %d wishes are allowed", domain.MaxWishes)
	ErrEventSignupClosed     = errors.New("event is not open for signup")
	ErrNotWishOwner          = errors.New("wish belongs to another applicant")
)

type ApplicantRepository interface {
	GetOrCreate(ctx context.Context, userID, editionID uint) (domain.Applicant, error)
	FindByUserAndEdition(ctx context.Context, userID, editionID uint) (domain.Applicant, error)
	ReplaceWishes(ctx context.Context, applicantID uint, wishes []domain.Wish) error
	MarkIncompleteWishesPending(ctx context.Context, applicantID uint) error
	FindWishByID(ctx context.Context, id uint) (domain.Wish, error)
	UpdateWishStatus(ctx context.Context, wishID uint, status domain.Status) error
}

type EditionRepository interface {
	FindByYear(ctx context.Context, year int) (domain.Edition, error)
	FindFormByYear(ctx context.Context, year int) (domain.Form, error)
	FindEventByID(ctx context.Context, id uint) (domain.Event, error)
	ListEventsByEdition(ctx context.Context, editionID uint) ([]domain.Event, error)
}

type FormRepository interface {
	ListAnswersByApplicant(ctx context.Context, applicantID uint) ([]domain.Answer, error)
	FindQuestionByID(ctx context.Context, id uint) (domain.Question, error)
	UpsertAnswer(ctx context.Context, answer domain.Answer) (domain.Answer, error)
}

// Mailer delivers a single plain-text email. Failures are logged, never
// retried.
type Mailer interface {
	Send(to, subject, body string) error
}

// WishChoice is one ranked event pick from the wishes form.
type WishChoice struct {
	EventID uint
	Order   int
}

type ApplicationService struct {
	repo        ApplicantRepository
	editionRepo EditionRepository
	formRepo    FormRepository
	mailer      Mailer
}

func NewApplicationService(repo ApplicantRepository, editionRepo EditionRepository, formRepo FormRepository, mailer Mailer) *ApplicationService {
	return &ApplicationService{
		repo:        repo,
		editionRepo: editionRepo,
		formRepo:    formRepo,
		mailer:      mailer,
	}
}

// GetApplication returns the user's applicant record for the edition,
// creating it on first access.
func (s *ApplicationService) GetApplication(ctx context.Context, userID uint, year int) (domain.Applicant, error) {
	edition, err := s.editionRepo.FindByYear(ctx, year)
	if err != nil {
		if errors.Is(err, repository.ErrEditionNotFound) {
			return domain.Applicant{}, ErrEditionNotFound
		}

		return domain.Applicant{}, fmt.Errorf("s.editionRepo.FindByYear -> %w", err)
	}

	applicant, err := s.repo.GetOrCreate(ctx, userID, edition.ID)
	if err != nil {
		return domain.Applicant{}, fmt.Errorf("s.repo.GetOrCreate -> %w", err)
	}

	return applicant, nil
}

// ListOpenEvents returns the edition's events currently open for signup.
func (s *ApplicationService) ListOpenEvents(ctx context.Context, year int) ([]domain.Event, error) {
	edition, err := s.editionRepo.FindByYear(ctx, year)
	if err != nil {
		if errors.Is(err, repository.ErrEditionNotFound) {
			return nil, ErrEditionNotFound
		}

		return nil, fmt.Errorf("s.editionRepo.FindByYear -> %w", err)
	}

	events, err := s.editionRepo.ListEventsByEdition(ctx, edition.ID)
	if err != nil {
		return nil, fmt.Errorf("s.editionRepo.ListEventsByEdition -> %w", err)
	}

	now := time.Now()
	open := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.IsOpenForSignup(now) {
			open = append(open, e)
		}
	}

	return open, nil
}

// SubmitWishes replaces the applicant's ranked event choices. The
// application must not be locked, every chosen event must belong to the
// edition and be open for signup, and events must be distinct. Submitted
// wishes start over as incomplete, including previously rejected ones.
func (s *ApplicationService) SubmitWishes(ctx context.Context, userID uint, year int, choices []WishChoice) (domain.Applicant, error) {
	if len(choices) > domain.MaxWishes {
		return domain.Applicant{}, ErrTooManyWishes
	}

	applicant, err := s.GetApplication(ctx, userID, year)
	if err != nil {
		return domain.Applicant{}, err
	}

	if applicant.IsLocked() {
		return domain.Applicant{}, ErrApplicationLocked
	}

	now := time.Now()
	seen := make(map[uint]bool, len(choices))
	wishes := make([]domain.Wish, 0, len(choices))

	for _, choice := range choices {
		if seen[choice.EventID] {
			return domain.Applicant{}, ErrDuplicateWishEvent
		}
		seen[choice.EventID] = true

		event, err := s.editionRepo.FindEventByID(ctx, choice.EventID)
		if err != nil {
			if errors.Is(err, repository.ErrEventNotFound) {
				return domain.Applicant{}, ErrEventNotFound
			}

			return domain.Applicant{}, fmt.Errorf("s.editionRepo.FindEventByID -> %w", err)
		}

		if event.EditionID != applicant.EditionID {
			return domain.Applicant{}, ErrEventNotFound
		}
		if !event.IsOpenForSignup(now) {
			return domain.Applicant{}, ErrEventSignupClosed
		}

		wishes = append(wishes, domain.Wish{
			EventID: choice.EventID,
			Order:   choice.Order,
			Status:  domain.StatusIncomplete,
		})
	}

	if err := s.repo.ReplaceWishes(ctx, applicant.ID, wishes); err != nil {
		return domain.Applicant{}, fmt.Errorf("s.repo.ReplaceWishes -> %w", err)
	}

	refreshed, err := s.repo.FindByUserAndEdition(ctx, userID, applicant.EditionID)
	if err != nil {
		return domain.Applicant{}, fmt.Errorf("s.repo.FindByUserAndEdition -> %w", err)
	}

	return refreshed, nil
}

// HasCompleteApplication is the completeness oracle: the profile must be
// filled in and every finally-required question of the edition's signup form
// must carry a valid answer.
func (s *ApplicationService) HasCompleteApplication(ctx context.Context, applicant domain.Applicant, year int) (bool, error) {
	if !applicant.User.HasCompleteProfile() {
		return false, nil
	}

	form, err := s.editionRepo.FindFormByYear(ctx, year)
	if err != nil {
		return false, fmt.Errorf("s.editionRepo.FindFormByYear -> %w", err)
	}

	answers, err := s.formRepo.ListAnswersByApplicant(ctx, applicant.ID)
	if err != nil {
		return false, fmt.Errorf("s.formRepo.ListAnswersByApplicant -> %w", err)
	}

	byQuestion := make(map[uint]domain.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	for _, q := range form.Questions {
		answer, ok := byQuestion[q.ID]
		if !ok {
			if q.FinallyRequired {
				return false, nil
			}

			continue
		}

		answer.Question = q
		if !answer.IsValid() {
			return false, nil
		}
	}

	return true, nil
}

// Validate runs the applicant-side validation transition: when the
// completeness oracle passes, every incomplete wish moves to pending in a
// single write and a confirmation email goes out. On an incomplete
// application nothing changes and ErrIncompleteApplication is returned.
func (s *ApplicationService) Validate(ctx context.Context, userID uint, year int) (domain.Applicant, error) {
	edition, err := s.editionRepo.FindByYear(ctx, year)
	if err != nil {
		if errors.Is(err, repository.ErrEditionNotFound) {
			return domain.Applicant{}, ErrEditionNotFound
		}

		return domain.Applicant{}, fmt.Errorf("s.editionRepo.FindByYear -> %w", err)
	}

	applicant, err := s.repo.FindByUserAndEdition(ctx, userID, edition.ID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicantNotFound) {
			return domain.Applicant{}, ErrApplicantNotFound
		}

		return domain.Applicant{}, fmt.Errorf("s.repo.FindByUserAndEdition -> %w", err)
	}

	complete, err := s.HasCompleteApplication(ctx, applicant, year)
	if err != nil {
		return domain.Applicant{}, fmt.Errorf("s.HasCompleteApplication -> %w", err)
	}
	if !complete {
		return domain.Applicant{}, ErrIncompleteApplication
	}

	if err := s.repo.MarkIncompleteWishesPending(ctx, applicant.ID); err != nil {
		return domain.Applicant{}, fmt.Errorf("s.repo.MarkIncompleteWishesPending -> %w", err)
	}

	s.sendAsync(
		applicant.User.Email,
		fmt.Sprintf("[Girls Can Code!][%d] Application confirmation", year),
		fmt.Sprintf(
			"Hi %s,\n\nYour application for the %d edition has been validated. "+
				"The team will review it and get back to you soon.\n",
			applicant.User.FirstName, year,
		),
	)

	refreshed, err := s.repo.FindByUserAndEdition(ctx, userID, edition.ID)
	if err != nil {
		return domain.Applicant{}, fmt.Errorf("s.repo.FindByUserAndEdition -> %w", err)
	}

	return refreshed, nil
}

// ConfirmVenue is the applicant-side confirmation transition: an accepted
// wish becomes confirmed. Any other current status is left untouched without
// an error.
func (s *ApplicationService) ConfirmVenue(ctx context.Context, userID, wishID uint) (domain.Wish, error) {
	wish, err := s.repo.FindWishByID(ctx, wishID)
	if err != nil {
		if errors.Is(err, repository.ErrWishNotFound) {
			return domain.Wish{}, ErrWishNotFound
		}

		return domain.Wish{}, fmt.Errorf("s.repo.FindWishByID -> %w", err)
	}

	if wish.Applicant == nil || wish.Applicant.UserID != userID {
		return domain.Wish{}, ErrNotWishOwner
	}

	if wish.Status != domain.StatusAccepted {
		return wish, nil
	}

	if err := s.repo.UpdateWishStatus(ctx, wishID, domain.StatusConfirmed); err != nil {
		return domain.Wish{}, fmt.Errorf("s.repo.UpdateWishStatus -> %w", err)
	}

	wish.Status = domain.StatusConfirmed

	return wish, nil
}

// ListAnswers returns the applicant's answers in form order.
func (s *ApplicationService) ListAnswers(ctx context.Context, userID uint, year int) ([]domain.Answer, error) {
	applicant, err := s.GetApplication(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	answers, err := s.formRepo.ListAnswersByApplicant(ctx, applicant.ID)
	if err != nil {
		return nil, fmt.Errorf("s.formRepo.ListAnswersByApplicant -> %w", err)
	}

	return answers, nil
}

// SaveAnswers upserts the applicant's responses. Locked applications cannot
// be edited; every question must belong to the edition's signup form.
func (s *ApplicationService) SaveAnswers(ctx context.Context, userID uint, year int, responses map[uint]string) error {
	applicant, err := s.GetApplication(ctx, userID, year)
	if err != nil {
		return err
	}

	if applicant.IsLocked() {
		return ErrApplicationLocked
	}

	form, err := s.editionRepo.FindFormByYear(ctx, year)
	if err != nil {
		return fmt.Errorf("s.editionRepo.FindFormByYear -> %w", err)
	}

	formQuestions := make(map[uint]bool, len(form.Questions))
	for _, q := range form.Questions {
		formQuestions[q.ID] = true
	}

	for questionID, response := range responses {
		if !formQuestions[questionID] {
			return ErrQuestionNotFound
		}

		if _, err := s.formRepo.UpsertAnswer(ctx, domain.Answer{
			ApplicantID: applicant.ID,
			QuestionID:  questionID,
			Response:    response,
		}); err != nil {
			return fmt.Errorf("s.formRepo.UpsertAnswer -> %w", err)
		}
	}

	return nil
}

func (s *ApplicationService) sendAsync(to, subject, body string) {
	go func() {
		if err := s.mailer.Send(to, subject, body); err != nil {
			logMailFailure(to, err)
		}
	}()
}

func logMailFailure(to string, err error) {
	zap.L().Warn("failed to send email", zap.String("to", to), zap.Error(err))
}
