package pipeline

import "fmt"

// ConfigErrorKind identifies the specific configuration failure.
type ConfigErrorKind string

const (
	ConfigNotFound       ConfigErrorKind = "not_found"
	ConfigIOError        ConfigErrorKind = "io_error"
	ConfigParseError     ConfigErrorKind = "parse_error"
	ConfigMissingKeys    ConfigErrorKind = "missing_keys"
	ConfigInvalidSeed    ConfigErrorKind = "invalid_seed_type"
	ConfigInvalidWindow  ConfigErrorKind = "invalid_window"
	ConfigInvalidVersion ConfigErrorKind = "invalid_version"
)

// DataErrorKind identifies the specific dataset failure.
type DataErrorKind string

const (
	DataNotFound      DataErrorKind = "not_found"
	DataUnreadable    DataErrorKind = "unreadable"
	DataEmpty         DataErrorKind = "empty"
	DataNoHeader      DataErrorKind = "no_header"
	DataMissingColumn DataErrorKind = "missing_column"
	DataInvalidValue  DataErrorKind = "invalid_value"
	DataNoRows        DataErrorKind = "no_rows"
)

// ConfigError is a validation or parse failure in the run configuration.
// Messages name the problem without leaking absolute paths.
type ConfigError struct {
	Kind    ConfigErrorKind
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// DataError is a validation or parse failure in the input dataset.
type DataError struct {
	Kind    DataErrorKind
	Message string
}

func (e *DataError) Error() string {
	return e.Message
}

func configErrorf(kind ConfigErrorKind, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func dataErrorf(kind DataErrorKind, format string, args ...interface{}) *DataError {
	return &DataError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
