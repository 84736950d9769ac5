package device

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates a non-2xx response from the controller
	ErrTypeHTTP
	// ErrTypeParse indicates a response body that could not be decoded
	ErrTypeParse
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the controller refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a hostname that could not be resolved
	ErrTypeDNS
)

// NetworkErrorSubtype refines ErrTypeNetwork
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError is an error talking to the controller.
type DeviceError struct {
	Type           ErrorType
	Message        string
	StatusCode     int    // HTTP status code, when Type is ErrTypeHTTP
	Body           string // response body, when Type is ErrTypeHTTP
	Err            error
	NetworkSubtype NetworkErrorSubtype
	Retryable      bool
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError maps a transport error to a DeviceError.
func ClassifyNetworkError(err error) *DeviceError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &DeviceError{Type: ErrTypeTimeout, Message: "Request timed out", Err: err, Retryable: true}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DeviceError{
			Type:      ErrTypeDNS,
			Message:   fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:       err,
			Retryable: false,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &DeviceError{Type: ErrTypeConnectionRefused, Message: "Controller refused connection", Err: err, Retryable: true}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return &DeviceError{Type: ErrTypeNetwork, Message: "Host unreachable", Err: err,
				NetworkSubtype: NetworkErrorHostUnreachable, Retryable: true}
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &DeviceError{Type: ErrTypeNetwork, Message: "Network unreachable", Err: err,
				NetworkSubtype: NetworkErrorNetworkUnreachable, Retryable: true}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err)
	}

	return &DeviceError{Type: ErrTypeNetwork, Message: "Network error occurred", Err: err, Retryable: true}
}

// NewNetworkError classifies err and replaces the message.
func NewNetworkError(message string, err error) *DeviceError {
	classified := ClassifyNetworkError(err)
	if classified == nil {
		return &DeviceError{Type: ErrTypeNetwork, Message: message, Retryable: true}
	}
	classified.Message = message
	return classified
}

// NewHTTPError creates an HTTP-level error. Server errors are retryable.
func NewHTTPError(statusCode int, body string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		StatusCode: statusCode,
		Body:       body,
		Retryable:  statusCode >= 500,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *DeviceError {
	return &DeviceError{Type: ErrTypeParse, Message: message, Err: err}
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return false
	}
	switch devErr.Type {
	case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS:
		return true
	}
	return false
}

// IsHTTPError reports whether err is a non-2xx response.
func IsHTTPError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Type == ErrTypeHTTP
}

// IsRetryable reports whether a request that failed with err may be retried.
func IsRetryable(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Retryable
	}
	return false
}

// StatusText returns the "<status> <error>" pair used on the panel's status
// line when an update fails.
func StatusText(err error) (status string, reason string) {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return "error", err.Error()
	}
	if devErr.Type == ErrTypeHTTP {
		reason = strings.TrimSpace(devErr.Body)
		if reason == "" {
			reason = devErr.Message
		}
		return fmt.Sprintf("%d", devErr.StatusCode), reason
	}
	if devErr.Type == ErrTypeParse {
		return "parsererror", devErr.Message
	}
	return "error", ShortMessage(err)
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return "Controller not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Controller refused connection"
	case ErrTypeDNS:
		return "Cannot resolve controller hostname"
	case ErrTypeNetwork:
		switch devErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Controller unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable - check WiFi connection"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		return fmt.Sprintf("Controller error (HTTP %d)", devErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse controller response"
	default:
		return devErr.Message
	}
}

// TroubleshootingHint returns advice for the CLI to print below an error.
func TroubleshootingHint(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch devErr.Type {
	case ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeNetwork:
		return strings.Join([]string{
			"The controller could not be reached.",
			"Troubleshooting:",
			"  • Check that the controller is powered on",
			"  • In AP mode, join the controller's WiFi (default LightControlAP, 192.168.10.1)",
			"  • Otherwise make sure you are on the same network",
			"  • Use 'lightctl scan' to find its address",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the controller hostname.",
			"Troubleshooting:",
			"  • Use the IP address instead of the hostname",
			"  • Use 'lightctl scan' to find its address",
		}, "\n")

	case ErrTypeHTTP:
		if devErr.StatusCode == 404 {
			return "The controller does not know this field. Check 'lightctl show' for the available fields."
		}
		return fmt.Sprintf("The controller returned HTTP %d. Try rebooting it.", devErr.StatusCode)

	case ErrTypeParse:
		return "The controller's response was not understood. Check the firmware serves /all as a JSON array."

	default:
		return "An error occurred. Please check the error message for details."
	}
}
