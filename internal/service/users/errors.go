package users

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("users: invalid input data")

	// ErrUserAlreadyExists возвращается, когда номер или код уже заняты
	ErrUserAlreadyExists = errors.New("users: user already exists")

	// ErrProvisioningDisabled ручное заведение пользователей доступно только при политике fixed
	ErrProvisioningDisabled = errors.New("users: manual user management is disabled")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("users: internal error")
)
