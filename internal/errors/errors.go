package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Code identifies a failure class in the closed error taxonomy shared with
// the JSON contract. Consumers match on codes, not messages.
type Code string

const (
	CodeManifestNotFound   Code = "MANIFEST_NOT_FOUND"
	CodeMissingVersion     Code = "MISSING_VERSION"
	CodeInvalidVersionType Code = "INVALID_VERSION_TYPE"
	CodeUnsupportedVersion Code = "UNSUPPORTED_VERSION"
	CodeMissingApps        Code = "MISSING_APPS"
	CodeInvalidAppsType    Code = "INVALID_APPS_TYPE"
	CodeInvalidAppEntry    Code = "INVALID_APP_ENTRY"
	CodeManifestInvalid    Code = "MANIFEST_INVALID"
	CodeDriverUnavailable  Code = "DRIVER_UNAVAILABLE"
	CodeInstallFailed      Code = "INSTALL_FAILED"
	CodeSchemaIncompatible Code = "SCHEMA_INCOMPATIBLE"
	CodeParseError         Code = "PARSE_ERROR"
	CodeInternalError      Code = "INTERNAL_ERROR"
)

// catalog is the set of recognized codes. Lookup of anything outside this
// set resolves to CodeInternalError rather than failing.
var catalog = map[Code]struct{}{
	CodeManifestNotFound:   {},
	CodeMissingVersion:     {},
	CodeInvalidVersionType: {},
	CodeUnsupportedVersion: {},
	CodeMissingApps:        {},
	CodeInvalidAppsType:    {},
	CodeInvalidAppEntry:    {},
	CodeManifestInvalid:    {},
	CodeDriverUnavailable:  {},
	CodeInstallFailed:      {},
	CodeSchemaIncompatible: {},
	CodeParseError:         {},
	CodeInternalError:      {},
}

// Resolve maps an arbitrary code string onto the closed taxonomy.
// Unrecognized codes always resolve to INTERNAL_ERROR.
func Resolve(code string) Code {
	c := Code(code)
	if _, ok := catalog[c]; ok {
		return c
	}
	return CodeInternalError
}

// RigError is a classified error carrying the contract fields surfaced in
// the JSON envelope's error object.
type RigError struct {
	Code        Code
	Message     string
	Detail      string
	Remediation string
	DocsKey     string
	Cause       error
}

func (e *RigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	if e.Remediation != "" {
		fmt.Fprintf(&b, "\n  remediation: %s", e.Remediation)
	}
	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *RigError) Unwrap() error {
	return e.Cause
}

// New creates a classified error. The code is resolved against the
// taxonomy so a RigError never carries an unrecognized code.
func New(code Code, message string) *RigError {
	return &RigError{
		Code:    Resolve(string(code)),
		Message: message,
	}
}

// Wrap creates a classified error wrapping an underlying cause
func Wrap(code Code, message string, cause error) *RigError {
	e := New(code, message)
	e.Cause = cause
	return e
}

// WithDetail attaches machine-oriented detail to the error
func (e *RigError) WithDetail(detail string) *RigError {
	e.Detail = detail
	return e
}

// WithRemediation attaches a user-facing remediation hint
func (e *RigError) WithRemediation(remediation string) *RigError {
	e.Remediation = remediation
	return e
}

// WithDocsKey attaches a documentation lookup key
func (e *RigError) WithDocsKey(key string) *RigError {
	e.DocsKey = key
	return e
}

// Common constructors for frequently produced errors

// NewManifestNotFoundError reports a missing manifest file
func NewManifestNotFoundError(path string) *RigError {
	return New(CodeManifestNotFound, fmt.Sprintf("manifest not found: %s", path)).
		WithRemediation("Check the --manifest path, or run 'rigup capture' to create one").
		WithDocsKey("manifest-files")
}

// NewDriverUnavailableError reports that no package driver qualifies for
// the current platform
func NewDriverUnavailableError(platform string) *RigError {
	return New(CodeDriverUnavailable, fmt.Sprintf("no package driver available for platform: %s", platform)).
		WithRemediation("Install the platform package manager (winget, brew, or apt) and re-run").
		WithDocsKey("drivers")
}

// NewUnsupportedVersionError reports a manifest version outside the
// supported range
func NewUnsupportedVersionError(got int) *RigError {
	return New(CodeUnsupportedVersion, fmt.Sprintf("unsupported manifest version: %d", got)).
		WithDetail("this build supports manifest version 1").
		WithRemediation("Re-capture the manifest with a matching rigup version").
		WithDocsKey("manifest-versioning")
}

// NewSchemaIncompatibleError reports a requested contract schema version
// outside the supported range
func NewSchemaIncompatibleError(requested, min, max string) *RigError {
	return New(CodeSchemaIncompatible, fmt.Sprintf("schema version %s is not supported", requested)).
		WithDetail(fmt.Sprintf("supported range: %s to %s", min, max)).
		WithRemediation("Run 'rigup capabilities' and negotiate a supported schema version").
		WithDocsKey("json-contract")
}

// NewParseError reports an unreadable or malformed document
func NewParseError(path string, cause error) *RigError {
	return Wrap(CodeParseError, fmt.Sprintf("failed to parse %s", path), cause).
		WithRemediation("Verify the file is valid and was produced by rigup")
}

// AsRigError extracts the classified error from an error chain
func AsRigError(err error) (*RigError, bool) {
	var re *RigError
	if stderrors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// CodeOf extracts the taxonomy code from any error. Unclassified errors
// report INTERNAL_ERROR.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var re *RigError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return CodeInternalError
}
