package errors

import (
	"errors"
	"net/http"
)

type Error string

func (e Error) Error() string {
	return string(e)
}

func (e Error) Map() map[string]any {
	return map[string]any{"message": e.Error()}
}

// Request errors.
const (
	ErrBadRequest           Error = "Invalid request."
	ErrInvalidID            Error = "Invalid ID."
	ErrUnauthorized         Error = "Access denied. No token provided."
	ErrInvalidToken         Error = "Invalid token."
	ErrForbidden            Error = "Access denied."
	ErrUserAlreadyExists    Error = "User already registered."
	ErrWrongLoginOrPassword Error = "Invalid email or password."
)

// Rental lifecycle errors.
const (
	ErrInvalidUser    Error = "Invalid user."
	ErrInvalidCar     Error = "Invalid car."
	ErrAlreadyRented  Error = "Car is already in rental."
	ErrOutOfStock     Error = "Car not in stock."
	ErrNoActiveRental Error = "Rental does not exist or return already processed."
)

// Catalog errors.
const (
	ErrInvalidBrand Error = "Invalid brand."
	ErrInvalidType  Error = "Invalid type."
)

// Not found errors.
const (
	ErrUserNotFound   Error = "User with given ID does not exist."
	ErrCarNotFound    Error = "Car with given ID does not exist."
	ErrBrandNotFound  Error = "Brand with given ID does not exist."
	ErrTypeNotFound   Error = "Type with given ID does not exist."
	ErrRentalNotFound Error = "Rental with given ID does not exist."
)

// Server faults. Their text never leaves the service.
const (
	ErrDb                Error = "database error"
	ErrGetHashedPassword Error = "failed to hash password"
	ErrGroupedWrite      Error = "grouped write failed"
	ErrIssueToken        Error = "failed to issue token"
)

const internalMessage = "Something failed."

var statuses = map[Error]int{
	ErrBadRequest:           http.StatusBadRequest,
	ErrInvalidID:            http.StatusBadRequest,
	ErrUnauthorized:         http.StatusUnauthorized,
	ErrInvalidToken:         http.StatusUnauthorized,
	ErrForbidden:            http.StatusForbidden,
	ErrUserAlreadyExists:    http.StatusBadRequest,
	ErrWrongLoginOrPassword: http.StatusBadRequest,

	ErrInvalidUser:    http.StatusBadRequest,
	ErrInvalidCar:     http.StatusBadRequest,
	ErrAlreadyRented:  http.StatusBadRequest,
	ErrOutOfStock:     http.StatusBadRequest,
	ErrNoActiveRental: http.StatusBadRequest,

	ErrInvalidBrand: http.StatusBadRequest,
	ErrInvalidType:  http.StatusBadRequest,

	ErrUserNotFound:   http.StatusNotFound,
	ErrCarNotFound:    http.StatusNotFound,
	ErrBrandNotFound:  http.StatusNotFound,
	ErrTypeNotFound:   http.StatusNotFound,
	ErrRentalNotFound: http.StatusNotFound,
}

// Resolve finds the first known error in the chain of err and returns the
// HTTP status and the message to show the client. Unknown errors and server
// faults resolve to 500 with a generic message.
func Resolve(err error) (int, string) {
	var known Error
	if errors.As(err, &known) {
		if status, ok := statuses[known]; ok {
			return status, known.Error()
		}
	}

	return http.StatusInternalServerError, internalMessage
}
