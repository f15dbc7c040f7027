package remove_line

// RemoveLineResponse HTTP response model
type RemoveLineResponse struct {
	Success bool    `json:"success"`
	Message *string `json:"message,omitempty"`
}
