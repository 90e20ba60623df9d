package errno

// Errno defines the error code logic for the HTTP surface.
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrDatabase         = Errno{Code: 10003, Message: "Database error"}
)

// Business Errors (20000+)
var (
	ErrTransferNotFound    = Errno{Code: 20101, Message: "Transfer not found"}
	ErrInvalidAddress      = Errno{Code: 20102, Message: "Invalid recipient address"}
	ErrInvalidAmount       = Errno{Code: 20103, Message: "Invalid transfer amount"}
	ErrInsufficientBalance = Errno{Code: 20104, Message: "Insufficient balance for transfer plus max fee"}
	ErrNodeUnavailable     = Errno{Code: 20201, Message: "Upstream RPC node unavailable"}
)
