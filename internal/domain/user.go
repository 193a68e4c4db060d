package domain

import "fmt"

// User участник доски: имя (или код доступа) и стабильный номер для отображения
type User struct {
	Number   int64
	Username string
}

// UserProvisioning политика заведения пользователей
type UserProvisioning string

const (
	// ProvisioningAuto пользователь создается при первой попытке бронирования, номер = max+1
	ProvisioningAuto UserProvisioning = "auto"
	// ProvisioningFixed только заранее заведенные пользователи, имя работает как код доступа
	ProvisioningFixed UserProvisioning = "fixed"
)

// ParseUserProvisioning валидирует значение из конфига
func ParseUserProvisioning(s string) (UserProvisioning, error) {
	switch UserProvisioning(s) {
	case ProvisioningAuto, ProvisioningFixed:
		return UserProvisioning(s), nil
	default:
		return "", fmt.Errorf("unknown user provisioning policy %q (expected auto or fixed)", s)
	}
}

// NextUserNumber номер для нового пользователя: max(existing)+1 или 1
func NextUserNumber(users []*User) int64 {
	var max int64
	for _, u := range users {
		if u.Number > max {
			max = u.Number
		}
	}
	return max + 1
}
