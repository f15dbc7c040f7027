package identityservice

// Access права пользователя из IdentityService
type Access struct {
	IsAdmin     bool    `json:"isAdmin"`
	FacilityIDs []int64 `json:"facilityIds"`
}

// ErrorResponse модель ошибки от IdentityService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
