package commands

type SuccessResponse struct {
	Success bool `json:"success"`
}
