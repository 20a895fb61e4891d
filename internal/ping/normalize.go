// Package ping validates and normalizes incoming heartbeat payloads.
package ping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PratikDhanave/heartbeat-collector/internal/models"
)

// MaxVersionLen bounds onefs_version and tool_version (varchar(64)).
const MaxVersionLen = 64

// maxEpochSeconds is 9999-12-31T23:59:59Z.
const maxEpochSeconds = 253402300799

// Quoted numbers must be plain decimal digits; strconv alone would also take
// signs, digit separators and hex.
var (
	epochDigits   = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	decimalDigits = regexp.MustCompile(`^[0-9]+$`)
)

// ErrEmptyPing is returned when none of the known fields is present.
var ErrEmptyPing = errors.New("ping carries no known fields")

// FieldError reports a single field that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Normalize maps a raw request onto a typed row. Absent or null fields
// stay nil. now becomes DBInsertTime.
func Normalize(req models.PingRequest, now time.Time) (models.DiagnosticPing, error) {
	out := models.DiagnosticPing{DBInsertTime: now.UTC()}
	seen := false

	var err error
	if present(req.ClientStartTime) {
		seen = true
		if out.ClientStartTime, err = parseTimestamp("client_start_time", req.ClientStartTime); err != nil {
			return models.DiagnosticPing{}, err
		}
	}
	if present(req.LogsetGatherTime) {
		seen = true
		if out.LogsetGatherTime, err = parseTimestamp("logset_gather_time", req.LogsetGatherTime); err != nil {
			return models.DiagnosticPing{}, err
		}
	}
	if present(req.OneFSVersion) {
		seen = true
		if out.OneFSVersion, err = parseVersion("onefs_version", req.OneFSVersion); err != nil {
			return models.DiagnosticPing{}, err
		}
	}
	if present(req.ESRSEnabled) {
		seen = true
		if out.ESRSEnabled, err = parseBool("esrs_enabled", req.ESRSEnabled); err != nil {
			return models.DiagnosticPing{}, err
		}
	}
	if present(req.ToolVersion) {
		seen = true
		if out.ToolVersion, err = parseVersion("tool_version", req.ToolVersion); err != nil {
			return models.DiagnosticPing{}, err
		}
	}
	if present(req.SRNumber) {
		seen = true
		if out.SRNumber, err = parseSRNumber("sr_number", req.SRNumber); err != nil {
			return models.DiagnosticPing{}, err
		}
	}

	if !seen {
		return models.DiagnosticPing{}, ErrEmptyPing
	}
	return out, nil
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// scalar unpacks a JSON string or number into its text form.
// isString reports whether the value was quoted.
func scalar(field string, raw json.RawMessage) (text string, isString bool, err error) {
	raw = bytes.TrimSpace(raw)
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false, &FieldError{Field: field, Reason: "invalid string"}
		}
		return s, true, nil
	case '{', '[':
		return "", false, &FieldError{Field: field, Reason: "must be a scalar value"}
	default:
		return string(raw), false, nil
	}
}

// parseTimestamp accepts Unix epoch seconds (number or numeric string, with
// an optional fractional part) or an RFC 3339 string.
func parseTimestamp(field string, raw json.RawMessage) (*time.Time, error) {
	text, isString, err := scalar(field, raw)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)

	if isString && !epochDigits.MatchString(text) {
		if t, terr := time.Parse(time.RFC3339Nano, text); terr == nil {
			t = t.UTC()
			return &t, nil
		}
		return nil, &FieldError{Field: field, Reason: "must be epoch seconds or RFC3339"}
	}

	secs, perr := strconv.ParseFloat(text, 64)
	if perr != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return nil, &FieldError{Field: field, Reason: "must be epoch seconds or RFC3339"}
	}
	if secs < 0 || secs > maxEpochSeconds {
		return nil, &FieldError{Field: field, Reason: "epoch seconds out of range"}
	}

	whole, frac := math.Modf(secs)
	t := time.Unix(int64(whole), int64(math.Round(frac*1e6))*int64(time.Microsecond)).UTC()
	return &t, nil
}

func parseVersion(field string, raw json.RawMessage) (*string, error) {
	text, isString, err := scalar(field, raw)
	if err != nil {
		return nil, err
	}
	if !isString && (text == "true" || text == "false") {
		return nil, &FieldError{Field: field, Reason: "must be a string"}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(text) > MaxVersionLen {
		return nil, &FieldError{Field: field, Reason: fmt.Sprintf("longer than %d characters", MaxVersionLen)}
	}
	return &text, nil
}

func parseBool(field string, raw json.RawMessage) (*bool, error) {
	text, _, err := scalar(field, raw)
	if err != nil {
		return nil, err
	}

	var b bool
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true", "t", "1", "yes", "y", "on":
		b = true
	case "false", "f", "0", "no", "n", "off":
		b = false
	default:
		return nil, &FieldError{Field: field, Reason: "must be a boolean"}
	}
	return &b, nil
}

func parseSRNumber(field string, raw json.RawMessage) (*int64, error) {
	text, isString, err := scalar(field, raw)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if isString && !decimalDigits.MatchString(text) {
		return nil, &FieldError{Field: field, Reason: "must be a string of decimal digits"}
	}

	n, perr := strconv.ParseInt(text, 10, 64)
	if perr != nil {
		if errors.Is(perr, strconv.ErrRange) {
			return nil, &FieldError{Field: field, Reason: "out of range"}
		}
		return nil, &FieldError{Field: field, Reason: "must be an integer"}
	}
	if n < 0 {
		return nil, &FieldError{Field: field, Reason: "must be non-negative"}
	}
	return &n, nil
}
