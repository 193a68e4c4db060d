package add_user

import "github.com/m04kA/SMC-SlotBoard/internal/service/users/models"

// AddUserRequest HTTP request model
type AddUserRequest struct {
	UserID   int64  `json:"userId" validate:"required,gt=0"`
	Password string `json:"password" validate:"required,max=255"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AddUserRequest) ToServiceRequest() *models.AddUserRequest {
	return &models.AddUserRequest{UserID: r.UserID, Password: r.Password}
}
