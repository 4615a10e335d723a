// Package envelope implements the versioned JSON contract wrapped around
// every command's output.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rigup-dev/rigup/internal/errors"
	"github.com/rigup-dev/rigup/internal/plan"
	"github.com/rigup-dev/rigup/internal/version"
)

// SchemaVersion is the contract version this build emits. Min and Max
// bound the inclusive range this build can operate under.
const (
	SchemaVersion    = "1.0"
	MinSchemaVersion = "1.0"
	MaxSchemaVersion = "1.0"
)

// TimestampLayout is the envelope's UTC timestamp form
// (yyyy-MM-ddTHH:mm:ssZ).
const TimestampLayout = "2006-01-02T15:04:05Z"

// Error is the contract error object. Optional fields are omitted
// entirely when absent, never emitted as null.
type Error struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Detail      string `json:"detail,omitempty"`
	Remediation string `json:"remediation,omitempty"`
	DocsKey     string `json:"docsKey,omitempty"`
}

// NewError builds a contract error. The code passes through the taxonomy,
// so unrecognized codes come out as INTERNAL_ERROR.
func NewError(code, message string) *Error {
	return &Error{Code: string(errors.Resolve(code)), Message: message}
}

// FromError converts any Go error into the contract error object.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	if rig, ok := errors.AsRigError(err); ok {
		return &Error{
			Code:        string(rig.Code),
			Message:     rig.Message,
			Detail:      rig.Detail,
			Remediation: rig.Remediation,
			DocsKey:     rig.DocsKey,
		}
	}
	return &Error{Code: string(errors.CodeInternalError), Message: err.Error()}
}

// Envelope wraps one command's output. Its serialized field order is part
// of the contract and enforced by MarshalJSON rather than left to struct
// layout.
type Envelope struct {
	SchemaVersion string
	CLIVersion    string
	Command       string
	RunID         string
	TimestampUTC  string
	Success       bool
	Data          any
	Error         *Error
}

// New wraps successful command output. An empty runID generates a fresh
// one in the canonical format.
func New(command string, data any, runID string) Envelope {
	return NewAt(command, data, runID, time.Now())
}

// NewFailure wraps a top-level command failure.
func NewFailure(command string, err error, runID string) Envelope {
	e := NewAt(command, nil, runID, time.Now())
	e.Success = false
	e.Error = FromError(err)
	return e
}

// NewAt is New with an explicit creation time.
func NewAt(command string, data any, runID string, now time.Time) Envelope {
	if runID == "" {
		runID = plan.NewRunID(now)
	}
	return Envelope{
		SchemaVersion: SchemaVersion,
		CLIVersion:    version.Version,
		Command:       command,
		RunID:         runID,
		TimestampUTC:  now.UTC().Format(TimestampLayout),
		Success:       true,
		Data:          data,
	}
}

// envelope field order is fixed: schemaVersion, cliVersion, command,
// runId, timestampUtc, success, data, error.
var fieldOrder = []string{"schemaVersion", "cliVersion", "command", "runId", "timestampUtc", "success", "data", "error"}

// MarshalJSON emits the envelope's fields in the contract order.
func (e Envelope) MarshalJSON() ([]byte, error) {
	values := map[string]any{
		"schemaVersion": e.SchemaVersion,
		"cliVersion":    e.CLIVersion,
		"command":       e.Command,
		"runId":         e.RunID,
		"timestampUtc":  e.TimestampUTC,
		"success":       e.Success,
		"data":          e.Data,
		"error":         e.Error,
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range fieldOrder {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(values[field])
		if err != nil {
			return nil, fmt.Errorf("marshal envelope field %s: %w", field, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an envelope back, leaving Data as raw JSON for the
// caller to decode against the command's payload type.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var doc struct {
		SchemaVersion string          `json:"schemaVersion"`
		CLIVersion    string          `json:"cliVersion"`
		Command       string          `json:"command"`
		RunID         string          `json:"runId"`
		TimestampUTC  string          `json:"timestampUtc"`
		Success       bool            `json:"success"`
		Data          json.RawMessage `json:"data"`
		Error         *Error          `json:"error"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	e.SchemaVersion = doc.SchemaVersion
	e.CLIVersion = doc.CLIVersion
	e.Command = doc.Command
	e.RunID = doc.RunID
	e.TimestampUTC = doc.TimestampUTC
	e.Success = doc.Success
	if doc.Data != nil {
		e.Data = doc.Data
	}
	e.Error = doc.Error
	return nil
}

// CheckSchemaVersion fails fast when asked to operate under a schema
// version outside this build's supported range. Versions compare
// numerically by major then minor, so "1.10" sorts after "1.2".
func CheckSchemaVersion(requested string) error {
	if requested == "" {
		return nil
	}
	req, err := parseSchemaVersion(requested)
	if err != nil {
		return errors.NewSchemaIncompatibleError(requested, MinSchemaVersion, MaxSchemaVersion)
	}
	min, _ := parseSchemaVersion(MinSchemaVersion)
	max, _ := parseSchemaVersion(MaxSchemaVersion)
	if req.compare(min) < 0 || req.compare(max) > 0 {
		return errors.NewSchemaIncompatibleError(requested, MinSchemaVersion, MaxSchemaVersion)
	}
	return nil
}

type schemaVersion struct {
	major, minor int
}

func parseSchemaVersion(s string) (schemaVersion, error) {
	parts := strings.SplitN(s, ".", 2)
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return schemaVersion{}, fmt.Errorf("invalid schema version %q", s)
	}
	v := schemaVersion{major: major}
	if len(parts) == 2 {
		if v.minor, err = strconv.Atoi(parts[1]); err != nil {
			return schemaVersion{}, fmt.Errorf("invalid schema version %q", s)
		}
	}
	return v, nil
}

func (v schemaVersion) compare(o schemaVersion) int {
	if v.major != o.major {
		return v.major - o.major
	}
	return v.minor - o.minor
}
