package models

import "github.com/m04kA/SMC-SlotBoard/internal/domain"

// AddUserRequest заведение пользователя: номер для отображения и код доступа
type AddUserRequest struct {
	UserID   int64  `json:"userId"`
	Password string `json:"password"`
}

// UserResponse заведенный пользователь
type UserResponse struct {
	UserID   int64  `json:"userId"`
	Password string `json:"password"`
}

// FromDomainUser конвертирует domain модель в DTO
func FromDomainUser(u *domain.User) *UserResponse {
	return &UserResponse{UserID: u.Number, Password: u.Username}
}
