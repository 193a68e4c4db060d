package create_booking

import "github.com/m04kA/SMC-SlotBoard/internal/domain"

// Request модель запроса на создание бронирования
type Request struct {
	Date     string // YYYY-MM-DD или DD/MM/YYYY
	TimeSlot string // метка окна, например "08:00-13:00"
	Username string // имя пользователя (в режиме fixed - код доступа)
	Replace  bool   // снять брони пользователя в пределах окна перебронирования
}

// Response результат бронирования
//
// При NeedsReplace бронь не создана: Existing содержит конфликтующую бронь,
// клиент может повторить запрос с Replace=true
type Response struct {
	Booking      *domain.Booking
	Replaced     []*domain.Booking
	NeedsReplace bool
	Existing     *domain.Booking
}
