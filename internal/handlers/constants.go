package handlers

const (
	maxRequestBody = 64 << 10

	ErrInvalidJSON         = "Invalid JSON body"
	ErrReportNotFound      = "Report not found or link expired"
	ErrInternalServerError = "Internal server error"
)
