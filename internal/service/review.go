package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/repository"
)

var (
	ErrLabelNotFound       = repository.ErrLabelNotFound
	ErrLabelAlreadyApplied = repository.ErrLabelAlreadyApplied
	ErrLabelNotApplied     = repository.ErrLabelNotApplied

	ErrWishAlreadyInStatus = errors.New("wish already in this status")
)

type ReviewApplicantRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Applicant, error)
	ListByEvent(ctx context.Context, eventID uint) ([]domain.Applicant, error)
	ListByEventAndStatus(ctx context.Context, eventID uint, status domain.Status) ([]domain.Applicant, error)
	FindWishByID(ctx context.Context, id uint) (domain.Wish, error)
	UpdateWishStatus(ctx context.Context, wishID uint, status domain.Status) error
	AcceptAllSelected(ctx context.Context, eventID uint) (int64, error)
	WishStatusCounts(ctx context.Context, eventID uint) (map[domain.Status]int64, error)
	FindLabelByID(ctx context.Context, id uint) (domain.Label, error)
	ListLabels(ctx context.Context) ([]domain.Label, error)
	AddLabel(ctx context.Context, applicantID, labelID uint) error
	RemoveLabel(ctx context.Context, applicantID, labelID uint) error
}

type ReviewEditionRepository interface {
	FindEventByID(ctx context.Context, id uint) (domain.Event, error)
	FindFormByEdition(ctx context.Context, editionID uint) (domain.Form, error)
	ListAllEvents(ctx context.Context) ([]domain.Event, error)
}

// EventReview is one row of the review index: an event plus its wish count
// per status.
type EventReview struct {
	Event  domain.Event            `json:"event"`
	Wishes map[domain.Status]int64 `json:"wishes"`
}

// WishUpdate reports the result of a staff status assignment, including the
// re-aggregated applicant status the review UI displays.
type WishUpdate struct {
	WishID          uint          `json:"wish_id"`
	WishStatus      domain.Status `json:"wish_status"`
	ApplicantID     uint          `json:"applicant_id"`
	ApplicantStatus domain.Status `json:"applicant_status"`
}

type ReviewService struct {
	repo        ReviewApplicantRepository
	editionRepo ReviewEditionRepository
	mailer      Mailer
}

func NewReviewService(repo ReviewApplicantRepository, editionRepo ReviewEditionRepository, mailer Mailer) *ReviewService {
	return &ReviewService{
		repo:        repo,
		editionRepo: editionRepo,
		mailer:      mailer,
	}
}

// ListEvents builds the review index.
func (s *ReviewService) ListEvents(ctx context.Context) ([]EventReview, error) {
	events, err := s.editionRepo.ListAllEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.editionRepo.ListAllEvents -> %w", err)
	}

	reviews := make([]EventReview, len(events))
	for i, event := range events {
		counts, err := s.repo.WishStatusCounts(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.WishStatusCounts -> %w", err)
		}

		reviews[i] = EventReview{Event: event, Wishes: counts}
	}

	return reviews, nil
}

// ListApplicants returns every applicant wishing for the event, with user,
// wishes, labels and answers loaded for the review page.
func (s *ReviewService) ListApplicants(ctx context.Context, eventID uint) ([]domain.Applicant, error) {
	if _, err := s.editionRepo.FindEventByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}

		return nil, fmt.Errorf("s.editionRepo.FindEventByID -> %w", err)
	}

	applicants, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	return applicants, nil
}

func (s *ReviewService) ListLabels(ctx context.Context) ([]domain.Label, error) {
	labels, err := s.repo.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListLabels -> %w", err)
	}

	return labels, nil
}

// AddLabel attaches a review label to an applicant. Labels form a set:
// attaching an already-applied label fails with ErrLabelAlreadyApplied.
func (s *ReviewService) AddLabel(ctx context.Context, applicantID, labelID uint) error {
	if _, err := s.repo.FindByID(ctx, applicantID); err != nil {
		if errors.Is(err, repository.ErrApplicantNotFound) {
			return ErrApplicantNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if _, err := s.repo.FindLabelByID(ctx, labelID); err != nil {
		if errors.Is(err, repository.ErrLabelNotFound) {
			return ErrLabelNotFound
		}

		return fmt.Errorf("s.repo.FindLabelByID -> %w", err)
	}

	if err := s.repo.AddLabel(ctx, applicantID, labelID); err != nil {
		if errors.Is(err, repository.ErrLabelAlreadyApplied) {
			return ErrLabelAlreadyApplied
		}

		return fmt.Errorf("s.repo.AddLabel -> %w", err)
	}

	return nil
}

// RemoveLabel detaches a review label; removing an absent label fails with
// ErrLabelNotApplied.
func (s *ReviewService) RemoveLabel(ctx context.Context, applicantID, labelID uint) error {
	if _, err := s.repo.FindByID(ctx, applicantID); err != nil {
		if errors.Is(err, repository.ErrApplicantNotFound) {
			return ErrApplicantNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if _, err := s.repo.FindLabelByID(ctx, labelID); err != nil {
		if errors.Is(err, repository.ErrLabelNotFound) {
			return ErrLabelNotFound
		}

		return fmt.Errorf("s.repo.FindLabelByID -> %w", err)
	}

	if err := s.repo.RemoveLabel(ctx, applicantID, labelID); err != nil {
		if errors.Is(err, repository.ErrLabelNotApplied) {
			return ErrLabelNotApplied
		}

		return fmt.Errorf("s.repo.RemoveLabel -> %w", err)
	}

	return nil
}

// UpdateWishStatus is the staff-side transition: a direct assignment of any
// status value. Requesting the wish's current status is reported as
// ErrWishAlreadyInStatus. The returned update carries the re-aggregated
// applicant status.
func (s *ReviewService) UpdateWishStatus(ctx context.Context, wishID uint, status domain.Status) (WishUpdate, error) {
	wish, err := s.repo.FindWishByID(ctx, wishID)
	if err != nil {
		if errors.Is(err, repository.ErrWishNotFound) {
			return WishUpdate{}, ErrWishNotFound
		}

		return WishUpdate{}, fmt.Errorf("s.repo.FindWishByID -> %w", err)
	}

	if wish.Status == status {
		return WishUpdate{}, ErrWishAlreadyInStatus
	}

	if err := s.repo.UpdateWishStatus(ctx, wishID, status); err != nil {
		return WishUpdate{}, fmt.Errorf("s.repo.UpdateWishStatus -> %w", err)
	}

	applicant, err := s.repo.FindByID(ctx, wish.ApplicantID)
	if err != nil {
		return WishUpdate{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return WishUpdate{
		WishID:          wishID,
		WishStatus:      status,
		ApplicantID:     applicant.ID,
		ApplicantStatus: applicant.Status(),
	}, nil
}

// AcceptAll moves every selected wish of the event to accepted and returns
// the number of wishes changed.
func (s *ReviewService) AcceptAll(ctx context.Context, eventID uint) (int64, error) {
	if _, err := s.editionRepo.FindEventByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return 0, ErrEventNotFound
		}

		return 0, fmt.Errorf("s.editionRepo.FindEventByID -> %w", err)
	}

	updated, err := s.repo.AcceptAllSelected(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.AcceptAllSelected -> %w", err)
	}

	return updated, nil
}

// SendAcceptanceEmails notifies every accepted-but-unconfirmed applicant of
// the event. Sending is fire-and-forget per recipient.
func (s *ReviewService) SendAcceptanceEmails(ctx context.Context, eventID uint) (int, error) {
	event, err := s.editionRepo.FindEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return 0, ErrEventNotFound
		}

		return 0, fmt.Errorf("s.editionRepo.FindEventByID -> %w", err)
	}

	applicants, err := s.repo.ListByEventAndStatus(ctx, eventID, domain.StatusAccepted)
	if err != nil {
		return 0, fmt.Errorf("s.repo.ListByEventAndStatus -> %w", err)
	}

	for _, applicant := range applicants {
		to := applicant.User.Email
		body := fmt.Sprintf(
			"Hi %s,\n\nYou have been accepted at %s (%s to %s). "+
				"Please confirm your participation from your application summary.\n",
			applicant.User.FirstName,
			event.Center,
			event.EventStart.Format("2006-01-02"),
			event.EventEnd.Format("2006-01-02"),
		)

		go func() {
			if err := s.mailer.Send(to, "[Girls Can Code!] You have been accepted", body); err != nil {
				logMailFailure(to, err)
			}
		}()
	}

	return len(applicants), nil
}

// ExportCSV streams the event's applicants as CSV: identity columns, the
// review labels, then one column per signup-form question.
func (s *ReviewService) ExportCSV(ctx context.Context, eventID uint, w io.Writer) error {
	event, err := s.editionRepo.FindEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}

		return fmt.Errorf("s.editionRepo.FindEventByID -> %w", err)
	}

	form, err := s.editionRepo.FindFormByEdition(ctx, event.EditionID)
	if err != nil {
		return fmt.Errorf("s.editionRepo.FindFormByEdition -> %w", err)
	}

	applicants, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	writer := csv.NewWriter(w)

	header := []string{"Username", "First name", "Last name", "Email", "Status", "Labels"}
	for _, q := range form.Questions {
		header = append(header, q.Text)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, applicant := range applicants {
		labels := make([]string, len(applicant.Labels))
		for i, l := range applicant.Labels {
			labels[i] = l.Display
		}

		answers := make(map[uint]string, len(applicant.Answers))
		for _, a := range applicant.Answers {
			answers[a.QuestionID] = a.Response
		}

		row := []string{
			applicant.User.Username,
			applicant.User.FirstName,
			applicant.User.LastName,
			applicant.User.Email,
			string(applicant.Status()),
			strings.Join(labels, ", "),
		}
		for _, q := range form.Questions {
			response, ok := answers[q.ID]
			if !ok {
				response = "(empty)"
			}
			row = append(row, response)
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}
