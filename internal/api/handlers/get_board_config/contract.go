package get_board_config

import "github.com/m04kA/SMC-SlotBoard/internal/service/config/models"

type ConfigService interface {
	Get() *models.BoardConfigResponse
}
