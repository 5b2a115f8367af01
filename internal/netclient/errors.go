package netclient

import "fmt"

// ErrorKind enumerates the ways a request can fail.
type ErrorKind int

const (
	InvalidURL ErrorKind = iota + 1
	InvalidResponse
	StatusCode
	NoData
	DecodingError
	NoNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidURL:
		return "invalid url"
	case InvalidResponse:
		return "invalid response"
	case StatusCode:
		return "status code"
	case NoData:
		return "no data"
	case DecodingError:
		return "decoding error"
	case NoNetwork:
		return "no network"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NetworkError is the closed set of client failures. It is a comparable
// value: two errors are equal when kind and code match.
type NetworkError struct {
	Kind ErrorKind
	Code int // HTTP status, only set for StatusCode
}

func (e NetworkError) Error() string {
	if e.Kind == StatusCode {
		return fmt.Sprintf("unexpected status code %d", e.Code)
	}
	return e.Kind.String()
}

var (
	ErrInvalidURL      = NetworkError{Kind: InvalidURL}
	ErrInvalidResponse = NetworkError{Kind: InvalidResponse}
	ErrNoData          = NetworkError{Kind: NoData}
	ErrDecoding        = NetworkError{Kind: DecodingError}
	ErrNoNetwork       = NetworkError{Kind: NoNetwork}
)

// StatusError returns the error for a non-2xx response.
func StatusError(code int) NetworkError {
	return NetworkError{Kind: StatusCode, Code: code}
}
