package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/herd-ag/herdstore/internal/catalog"
	"github.com/herd-ag/herdstore/internal/mapping"
	"github.com/herd-ag/herdstore/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (duplicate key, record not found, storage error)
	ExitCommandError = 2 // Command error (bad flags, unreadable input, invalid config)
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeConfig       = "E002" // Invalid configuration or flags
	ErrCodeInput        = "E003" // Unreadable or invalid record input
	ErrCodeCatalog      = "E004" // Catalog failed to compile
	ErrCodeUnknownType  = "E101" // Record type not registered
	ErrCodeUnknownField = "E102" // Filter or record names an unknown field
	ErrCodeMapping      = "E103" // Row does not fit the mapping
	ErrCodeDuplicate    = "E104" // Primary key already stored
	ErrCodeNotFound     = "E105" // No record with the given id
	ErrCodeStorage      = "E201" // Database error
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrorCode classifies err into one of the ErrCode constants.
func ErrorCode(err error) string {
	var (
		unknownType  *store.UnknownTypeError
		unknownField *mapping.UnknownFieldError
		mappingErr   *mapping.MappingError
		duplicate    *store.DuplicateKeyError
		storageErr   *store.StorageError
		compileErr   *catalog.CompileError
	)
	switch {
	case errors.As(err, &unknownType):
		return ErrCodeUnknownType
	case errors.As(err, &unknownField):
		return ErrCodeUnknownField
	case errors.As(err, &mappingErr):
		return ErrCodeMapping
	case errors.As(err, &duplicate):
		return ErrCodeDuplicate
	case errors.As(err, &compileErr):
		return ErrCodeCatalog
	case errors.As(err, &storageErr):
		return ErrCodeStorage
	}
	return ErrCodeGeneric
}

// inputCode classifies an error in caller-supplied record input: typed
// errors keep their code, anything else is ErrCodeInput.
func inputCode(err error) string {
	if code := ErrorCode(err); code != ErrCodeGeneric {
		return code
	}
	return ErrCodeInput
}

// exitCodeFor returns the exit code for an error code. Caller mistakes
// are command errors, everything else is an operation failure.
func exitCodeFor(code string) int {
	switch code {
	case ErrCodeConfig, ErrCodeInput, ErrCodeCatalog, ErrCodeUnknownType, ErrCodeUnknownField:
		return ExitCommandError
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E101", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err under code and returns the ExitError the command should
// return. An empty code is derived from err.
func (f *OutputFormatter) Fail(code string, err error) error {
	if code == "" {
		code = ErrorCode(err)
	}
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exitCodeFor(code), code, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
