package response

const (
	// MessageSuccess is the message returned on every successful response.
	MessageSuccess = "Success"

	// DefaultErrorMessage is returned for 500s instead of the internal error text.
	DefaultErrorMessage = "Internal Server Error"

	// InternalServerErrorCode is the envelope error code for 500s.
	InternalServerErrorCode = 500
)
