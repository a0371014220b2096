package delivery

import (
	"github.com/google/uuid"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
)

type SignUpDTO struct {
	Name     string `json:"name" validate:"required,min=5,max=50"`
	Email    string `json:"email" validate:"required,email,min=5,max=255"`
	Password string `json:"password" validate:"required,min=8,max=255"`
}

type SignInDTO struct {
	Email    string `json:"email" validate:"required,email,min=5,max=255"`
	Password string `json:"password" validate:"required,min=8,max=255"`
}

type UserResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"isAdmin,omitempty"`
}

func NewUserResponseDTO(user models.User) UserResponse {
	return UserResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}
}

func NewUserListResponseDTO(users []models.User) []UserResponse {
	res := make([]UserResponse, 0, len(users))
	for _, user := range users {
		res = append(res, NewUserResponseDTO(user))
	}
	return res
}
