package config

import (
	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	"github.com/m04kA/SMC-SlotBoard/internal/service/config/models"
)

// Service отдает клиенту правила доски, чтобы он не держал окна и горизонт у себя
type Service struct {
	rules        domain.Rules
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(rules domain.Rules, logger Logger) *Service {
	return &Service{
		rules:        rules,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Get возвращает правила доски и текущее окно бронирования
func (s *Service) Get() *models.BoardConfigResponse {
	window := s.rules.Window(s.timeProvider.Now())

	timezone := "Local"
	if s.rules.Location != nil {
		timezone = s.rules.Location.String()
	}

	s.logger.Info("Get: window %s..%s, provisioning=%s",
		window.Start.Format(domain.DateFormat), window.End.Format(domain.DateFormat), s.rules.Provisioning)

	return &models.BoardConfigResponse{
		TimeSlots:           s.rules.TimeSlots.Labels(),
		BookingWindowDays:   s.rules.BookingWindowDays,
		RebookingWindowDays: s.rules.RebookingWindowDays,
		UserProvisioning:    string(s.rules.Provisioning),
		Timezone:            timezone,
		Today:               window.Start.Format(domain.DateFormat),
		WindowEnd:           window.End.Format(domain.DateFormat),
	}
}
