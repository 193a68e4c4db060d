package reset_bookings

// ResetResponse HTTP response model
type ResetResponse struct {
	Success bool `json:"success"`
}
