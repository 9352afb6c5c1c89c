package response

import (
	"github.com/prologin/gcc-api/internal/domain"
)

// ApplicationResponse flattens the aggregated status and the locking
// flag next to the applicant so clients never recompute them.
type ApplicationResponse struct {
	domain.Applicant

	Status domain.Status `json:"status"`
	Locked bool          `json:"locked"`
}

func NewApplicationResponse(applicant domain.Applicant) ApplicationResponse {
	return ApplicationResponse{
		Applicant: applicant,
		Status:    applicant.Status(),
		Locked:    applicant.IsLocked(),
	}
}
