package config

import "fmt"

// ErrorKind classifies configuration loading failures
type ErrorKind string

const (
	// KindNotFound means the configuration file does not exist
	KindNotFound ErrorKind = "NotFound"

	// KindPermissionDenied means the file exists but cannot be read
	KindPermissionDenied ErrorKind = "PermissionDenied"

	// KindMalformed means the file is not valid JSON or has wrong types
	KindMalformed ErrorKind = "Malformed"

	// KindInvalid means the file parsed but holds unusable values
	KindInvalid ErrorKind = "Invalid"
)

// LoadError is returned by Load for every failure
type LoadError struct {
	Path string
	Kind ErrorKind
	Err  error
}

// Error returns the message written into the report
func (e *LoadError) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("Config file %s not found.", e.Path)
	case KindPermissionDenied:
		return fmt.Sprintf("Permission denied when trying to read %s.", e.Path)
	case KindMalformed:
		return fmt.Sprintf("Invalid JSON in config file %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("Invalid configuration in %s: %v", e.Path, e.Err)
	}
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Err
}
