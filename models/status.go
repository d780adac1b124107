package models

// StatusUpdate is the body of the status transition endpoints
type StatusUpdate struct {
	Status string `json:"status" binding:"required"`
}
