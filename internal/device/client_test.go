package device

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeCodePriority(t *testing.T) {
	tests := []struct {
		name       string
		attributes map[string]string
		want       string
		wantErr    bool
	}{
		{
			name:       "user_id wins over everything",
			attributes: map[string]string{"user_id": "7", "enroll_number": "8", "pin": "9", "uid": "10"},
			want:       "7",
		},
		{
			name:       "enroll_number wins when user_id absent",
			attributes: map[string]string{"enroll_number": "8", "pin": "9", "uid": "10"},
			want:       "8",
		},
		{
			name:       "pin wins when higher-priority fields absent",
			attributes: map[string]string{"pin": "9", "uid": "10"},
			want:       "9",
		},
		{
			name:       "uid is the last resort",
			attributes: map[string]string{"uid": "10"},
			want:       "10",
		},
		{
			name:       "empty value is skipped, not taken",
			attributes: map[string]string{"user_id": "", "pin": "9"},
			want:       "9",
		},
		{
			name:       "no identity field at all",
			attributes: map[string]string{"verify_mode": "fingerprint"},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EmployeeCode(RawPunch{Attributes: tt.attributes, Timestamp: "2025-08-23T01:00:00Z"})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoEmployeeCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "RFC3339",
			raw:  "2025-08-23T01:00:00Z",
			want: time.Date(2025, 8, 23, 1, 0, 0, 0, time.UTC),
		},
		{
			name: "space-separated terminal format is UTC",
			raw:  "2025-08-23 09:00:00",
			want: time.Date(2025, 8, 23, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "T-separated without zone is UTC",
			raw:  "2025-08-23T09:00:00",
			want: time.Date(2025, 8, 23, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			raw:     "23/08/2025",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("produces a canonical record", func(t *testing.T) {
		rec, err := Normalize(RawPunch{
			Attributes: map[string]string{"uid": "7"},
			Timestamp:  "2025-08-23T01:00:00Z",
		})
		require.NoError(t, err)
		assert.Equal(t, "7", rec.EmployeeCode)
		assert.Equal(t, time.Date(2025, 8, 23, 1, 0, 0, 0, time.UTC), rec.PunchTime.UTC())
		assert.NotEmpty(t, rec.RawPayload)
	})

	t.Run("rejects a punch without identity", func(t *testing.T) {
		_, err := Normalize(RawPunch{
			Attributes: map[string]string{},
			Timestamp:  "2025-08-23T01:00:00Z",
		})
		assert.ErrorIs(t, err, ErrNoEmployeeCode)
	})
}

// newBridge starts a fake terminal REST bridge and returns a client
// pointed at it.
func newBridge(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return NewHTTPClient(Config{Host: u.Hostname(), Port: port, Timeout: 2 * time.Second}), srv
}

func TestHTTPClientFetchLogs(t *testing.T) {
	var gotSince string
	client, _ := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/api/status"):
			w.WriteHeader(http.StatusOK)
		case strings.HasSuffix(r.URL.Path, "/api/logs"):
			gotSince = r.URL.Query().Get("since")
			json.NewEncoder(w).Encode(map[string]any{
				"items": []RawPunch{
					{Attributes: map[string]string{"uid": "7"}, Timestamp: "2025-08-23T01:00:00Z"},
					{Attributes: map[string]string{"uid": "7"}, Timestamp: "2025-08-23T09:00:00Z"},
				},
				"total": 2,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	require.NoError(t, client.Connect())
	defer client.Disconnect()

	since := time.Date(2025, 8, 22, 0, 0, 0, 0, time.UTC)
	var progressCalls int
	items, err := client.FetchLogs(context.Background(), &since, func(done, total int) {
		progressCalls++
	})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, progressCalls)
	assert.Equal(t, "2025-08-22T00:00:00Z", gotSince)
}

func TestHTTPClientFailures(t *testing.T) {
	t.Run("connect failure is an error, not a panic", func(t *testing.T) {
		client := NewHTTPClient(Config{Host: "127.0.0.1", Port: 1, Timeout: 200 * time.Millisecond})
		assert.Error(t, client.Connect())
	})

	t.Run("non-200 from the bridge is an error", func(t *testing.T) {
		client, _ := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.FetchLogs(context.Background(), nil, nil)
		assert.Error(t, err)
	})

	t.Run("subscribe requires an inbound port", func(t *testing.T) {
		client := NewHTTPClient(Config{Host: "127.0.0.1", Port: 4370, Timeout: time.Second})
		_, err := client.Subscribe(context.Background())
		assert.Error(t, err)
	})
}
