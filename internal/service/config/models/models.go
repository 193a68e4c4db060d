package models

// BoardConfigResponse правила доски для клиента
type BoardConfigResponse struct {
	TimeSlots           []string `json:"timeSlots"`
	BookingWindowDays   int      `json:"bookingWindowDays"`
	RebookingWindowDays int      `json:"rebookingWindowDays"`
	UserProvisioning    string   `json:"userProvisioning"`
	Timezone            string   `json:"timezone"`
	Today               string   `json:"today"`
	WindowEnd           string   `json:"windowEnd"`
}
