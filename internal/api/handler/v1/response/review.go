package response

import (
	"github.com/prologin/gcc-api/internal/domain"
)

type OK struct {
	Status string `json:"status"`
}

func NewOK() OK {
	return OK{Status: "ok"}
}

type WishStatusResponse struct {
	Status          string        `json:"status"`
	WishID          uint          `json:"wish_id"`
	WishStatus      domain.Status `json:"wish_status"`
	ApplicantID     uint          `json:"applicant"`
	ApplicantStatus domain.Status `json:"applicant_status"`
}

type AcceptAllResponse struct {
	Status   string `json:"status"`
	Accepted int64  `json:"accepted"`
}
