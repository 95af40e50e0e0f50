// Package device abstracts one physical biometric terminal. The
// engine only depends on the Client interface; the wire protocol
// behind it is an implementation detail of each client.
package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendance-engine/internal/models"
)

// Config identifies one terminal and how to reach it.
type Config struct {
	Host        string
	Port        int
	Timeout     time.Duration
	InboundPort int // optional, for terminals that push events
}

// Addr returns the host:port identity used in logs.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RawPunch is one punch event as the terminal reports it. Firmware
// versions disagree on which field carries the user identity, so the
// payload is kept as a loose attribute map and normalized by
// EmployeeCode.
type RawPunch struct {
	Attributes map[string]string `json:"attributes"`
	Timestamp  string            `json:"timestamp"`
}

// RawUser is one entry of the terminal's user directory.
type RawUser struct {
	Attributes map[string]string `json:"attributes"`
	Name       string            `json:"name"`
}

// Client is the capability interface over one terminal. Connection
// and fetch failures are expected operational events; every method
// reports them as errors rather than terminating the caller.
type Client interface {
	Connect() error

	// FetchLogs returns punches recorded since the cursor (all
	// history when since is nil). progress, when non-nil, is invoked
	// with (done, total) as records arrive.
	FetchLogs(ctx context.Context, since *time.Time, progress func(done, total int)) ([]RawPunch, error)

	// FetchUsers returns the terminal's user directory.
	FetchUsers(ctx context.Context) ([]RawUser, error)

	// Subscribe returns a channel of real-time punch events. The
	// channel is closed when ctx is cancelled or the connection is
	// lost. Not every terminal supports this; unsupported clients
	// return an error.
	Subscribe(ctx context.Context) (<-chan RawPunch, error)

	Disconnect() error
}

// ErrNoEmployeeCode reports a raw punch that carries none of the
// known identity fields. Such records are dropped, not persisted.
var ErrNoEmployeeCode = errors.New("raw punch has no recognizable employee identifier")

// candidateIDFields is the fixed priority order in which identity
// fields are tried during normalization. Firmware variants use
// different names for the same value; the first present, non-empty
// one wins.
var candidateIDFields = []string{"user_id", "enroll_number", "pin", "uid"}

// timestampLayouts accepted from terminals, tried in order. Layouts
// without a zone are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// EmployeeCode extracts the employee code from a raw punch, trying
// the candidate identity fields in priority order.
func EmployeeCode(raw RawPunch) (string, error) {
	for _, field := range candidateIDFields {
		if v, ok := raw.Attributes[field]; ok && v != "" {
			return v, nil
		}
	}
	return "", ErrNoEmployeeCode
}

// ParseTimestamp parses a terminal timestamp into a UTC instant.
func ParseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable punch timestamp %q", raw)
}

// Normalize converts a raw terminal punch into a canonical record.
// Returns ErrNoEmployeeCode for records missing every identity field.
func Normalize(raw RawPunch) (models.PunchRecord, error) {
	code, err := EmployeeCode(raw)
	if err != nil {
		return models.PunchRecord{}, err
	}

	punchTime, err := ParseTimestamp(raw.Timestamp)
	if err != nil {
		return models.PunchRecord{}, err
	}

	payload := fmt.Sprintf("%v @ %s", raw.Attributes, raw.Timestamp)
	return models.PunchRecord{
		EmployeeCode: code,
		PunchTime:    punchTime,
		RawPayload:   payload,
	}, nil
}
