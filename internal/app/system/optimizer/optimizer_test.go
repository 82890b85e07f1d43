package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

// TestMain ensures the stream goroutines never outlive a solve.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func streamServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solve" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, l := range lines {
			fmt.Fprintln(w, l)
			w.(http.Flusher).Flush()
		}
	}))
	t.Cleanup(func() {
		srv.CloseClientConnections()
		srv.Close()
	})
	return srv
}

func newClient(srv *httptest.Server, timeout time.Duration) *Client {
	return New(srv.URL+"/", timeout, srv.Client(), zap.NewNop())
}

func TestSolve_StreamsCandidatesInOrder(t *testing.T) {
	srv := streamServer(t,
		`{"type":"candidate","objective":10,"elapsedMs":5,"assignments":[{"id":"a1","rowId":"slot-a__mon","dateISO":"2026-01-05","clinicianId":"c1"}]}`,
		``,
		`{"type":"candidate","objective":7,"elapsedMs":9,"assignments":[]}`,
		`{"type":"done","status":"success","objective":7,"elapsedMs":12,"notes":["optimal"],"assignments":[{"id":"a1","rowId":"slot-a__mon","dateISO":"2026-01-05","clinicianId":"c2"}]}`,
	)

	var got []Progress
	res, err := newClient(srv, time.Second).Solve(context.Background(), Request{StartISO: "2026-01-05", EndISO: "2026-01-11"}, func(p Progress) {
		got = append(got, p)
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Sequence)
	assert.Equal(t, 2, got[1].Sequence)
	assert.Equal(t, 10.0, *got[0].Objective)
	assert.Equal(t, "c1", got[0].Assignments[0].ClinicianID)
	assert.NotEmpty(t, got[0].RunID)
	assert.Equal(t, got[0].RunID, res.RunID)

	assert.Equal(t, models.RunStatusSuccess, res.Status)
	assert.Equal(t, []string{"optimal"}, res.Notes)
	assert.Equal(t, "c2", res.Assignments[0].ClinicianID)
}

func TestSolve_KeepsGivenRunID(t *testing.T) {
	srv := streamServer(t, `{"type":"done","status":"aborted"}`)

	res, err := newClient(srv, 0).Solve(context.Background(), Request{RunID: "run-1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, models.RunStatusAborted, res.Status)
}

func TestSolve_UnknownTerminalStatusIsError(t *testing.T) {
	srv := streamServer(t, `{"type":"done","status":"weird","error":"boom"}`)

	res, err := newClient(srv, 0).Solve(context.Background(), Request{}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusError, res.Status)
	assert.Equal(t, "boom", res.Error)
}

func TestSolve_IncompleteStream(t *testing.T) {
	srv := streamServer(t, `{"type":"candidate","assignments":[]}`)

	_, err := newClient(srv, time.Second).Solve(context.Background(), Request{}, nil)
	assert.ErrorIs(t, err, ErrIncompleteStream)
}

func TestSolve_MalformedEvent(t *testing.T) {
	srv := streamServer(t, `{"type":`)

	_, err := newClient(srv, time.Second).Solve(context.Background(), Request{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode event")
}

func TestSolve_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "solver unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newClient(srv, time.Second).Solve(context.Background(), Request{}, nil)

	var oe *Error
	require.True(t, errors.As(err, &oe), "want *Error, got %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, oe.StatusCode)
	assert.Equal(t, "solver unavailable", oe.Body)
}

func TestSolve_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		fmt.Fprintln(w, `{"type":"candidate","assignments":[]}`)
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	calls := 0
	_, err := newClient(srv, 100*time.Millisecond).Solve(context.Background(), Request{}, func(Progress) { calls++ })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
}

func TestSolve_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := newClient(srv, 0).Solve(ctx, Request{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAbort(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	require.NoError(t, newClient(srv, 0).Abort(context.Background(), "run-1"))
	assert.Equal(t, "/solve/run-1/abort", path)
}
