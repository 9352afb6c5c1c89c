package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type UpdateWishStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateWishStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
	)
}
