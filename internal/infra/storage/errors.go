package storage

import "errors"

// Ошибки, общие для всех бэкендов хранилища (postgres, file)
// Бэкенды оборачивают их через fmt.Errorf("%w: ..."), вызывающий код сверяет через errors.Is
var (
	// ErrBookingNotFound бронь на слот отсутствует
	ErrBookingNotFound = errors.New("storage: booking not found")

	// ErrSlotTaken слот уже занят (нарушение уникальности slot_key)
	ErrSlotTaken = errors.New("storage: slot already taken")

	// ErrUserNotFound пользователь не найден
	ErrUserNotFound = errors.New("storage: user not found")

	// ErrUserAlreadyExists пользователь с таким номером или именем уже есть
	ErrUserAlreadyExists = errors.New("storage: user already exists")
)
