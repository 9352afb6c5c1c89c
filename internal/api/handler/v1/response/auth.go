package response

import (
	"github.com/prologin/gcc-api/internal/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func NewLoginResponse(token string, user domain.User) LoginResponse {
	return LoginResponse{
		Token: token,
		User:  user,
	}
}
