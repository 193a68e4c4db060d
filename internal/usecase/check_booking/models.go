package check_booking

import "github.com/m04kA/SMC-SlotBoard/internal/domain"

// Request модель запроса проверки слота
type Request struct {
	Date     string
	TimeSlot string
	Username string
}

// Response слот свободен; Candidate - бронь, которая была бы создана
type Response struct {
	Candidate *domain.Booking
}
