package builder

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"
)

const (
	isoDate     = "2006-01-02"
	isoDateTime = "2006-01-02T15:04:05.999999999"
	displayDate = "02.01.2006"
)

// scalarText reads a text or numeric answer. Strings are unquoted, numbers are
// kept exactly as written in the source.
func scalarText(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("expected string or number, got %s", raw)
}

func parseDate(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("expected date string, got %s", raw)
	}
	return time.Parse(isoDate, s)
}

func formatDate(t time.Time) string {
	return t.Format(displayDate)
}

type period struct {
	From json.RawMessage `json:"fom"`
	To   json.RawMessage `json:"tom"`
}

// periodText formats a period as "from - to". An open period keeps the separator.
func periodText(raw json.RawMessage) (string, error) {
	var p period
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", fmt.Errorf("expected period object: %w", err)
	}
	from, err := parseDate(p.From)
	if err != nil {
		return "", fmt.Errorf("period start: %w", err)
	}
	to := ""
	if len(p.To) > 0 && string(p.To) != "null" {
		t, err := parseDate(p.To)
		if err != nil {
			return "", fmt.Errorf("period end: %w", err)
		}
		to = formatDate(t)
	}
	return formatDate(from) + " - " + to, nil
}

type attachment struct {
	UploadedAt string `json:"lastOppTidsstempel"`
	URN        string `json:"urn"`
}

// attachmentSummary describes an uploaded document for the log.
func attachmentSummary(raw json.RawMessage) (string, error) {
	var a attachment
	if err := json.Unmarshal(raw, &a); err != nil {
		return "", fmt.Errorf("expected attachment object: %w", err)
	}
	if a.URN == "" {
		return "", fmt.Errorf("attachment has no urn")
	}
	uploaded, err := time.Parse(isoDateTime, a.UploadedAt)
	if err != nil {
		if uploaded, err = time.Parse(time.RFC3339Nano, a.UploadedAt); err != nil {
			return "", fmt.Errorf("attachment upload time: %w", err)
		}
	}
	filename := path.Base(strings.TrimSuffix(a.URN, "/"))
	return fmt.Sprintf("Du har lastet opp %s den %s", filename, formatDate(uploaded)), nil
}
