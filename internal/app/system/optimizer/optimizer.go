// Package optimizer is the client of the external schedule optimizer.
//
// A solve is a single POST whose response streams newline-delimited JSON
// events: zero or more candidate events followed by one terminal event. The
// client decodes the stream on one goroutine and hands candidates to the
// caller's progress callback on another, in arrival order, so a slow
// callback never stalls the HTTP read.
package optimizer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Event types of the response stream.
const (
	EventCandidate = "candidate"
	EventDone      = "done"
)

// ErrIncompleteStream is returned when the response ends without a
// terminal event.
var ErrIncompleteStream = errors.New("optimizer: stream ended without a terminal event")

// Error is a non-2xx answer from the optimizer, reported verbatim.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("optimizer: status %d: %s", e.StatusCode, e.Body)
}

// Request is one solve. RunID is generated when empty.
type Request struct {
	RunID            string                `json:"runId"`
	StartISO         string                `json:"startISO"`
	EndISO           string                `json:"endISO"`
	State            models.AppState       `json:"state"`
	Rows             []models.ScheduleRow  `json:"rows"`
	Settings         models.SolverSettings `json:"solverSettings"`
	Rules            []models.SolverRule   `json:"solverRules"`
	TimeLimitSeconds float64               `json:"timeLimitSeconds"`
}

// Progress is one streamed candidate.
type Progress struct {
	RunID       string              `json:"runId"`
	Sequence    int                 `json:"sequence"`
	Assignments []models.Assignment `json:"assignments"`
	Objective   *float64            `json:"objective,omitempty"`
	ElapsedMS   int64               `json:"elapsedMs"`
}

// Result is the terminal event of a solve. Status is one of the
// models.RunStatus values; an "error" status is a result, not a Go error.
type Result struct {
	RunID       string              `json:"runId"`
	Status      string              `json:"status"`
	Assignments []models.Assignment `json:"assignments"`
	Objective   *float64            `json:"objective,omitempty"`
	ElapsedMS   int64               `json:"elapsedMs"`
	Notes       []string            `json:"notes,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// event is one line of the response stream.
type event struct {
	Type        string              `json:"type"`
	Status      string              `json:"status"`
	Assignments []models.Assignment `json:"assignments"`
	Objective   *float64            `json:"objective"`
	ElapsedMS   int64               `json:"elapsedMs"`
	Notes       []string            `json:"notes"`
	Error       string              `json:"error"`
}

// Client talks to one optimizer endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *zap.Logger
}

// New returns a client for baseURL. timeout bounds a whole solve,
// including the stream; zero means no bound beyond the caller's context.
func New(baseURL string, timeout time.Duration, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: timeout,
		log:     logger,
	}
}

// Solve runs req and blocks until the optimizer sends its terminal event,
// ctx is done, or the client timeout elapses. onProgress, if non-nil, is
// called once per candidate in arrival order.
func (c *Client) Solve(ctx context.Context, req Request, onProgress func(Progress)) (Result, error) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("optimizer: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/solve", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("optimizer: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, c.wrapErr(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return Result{}, &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	candidates := make(chan Progress)
	var final *Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(candidates)
		res, err := decodeStream(gctx, resp.Body, req.RunID, candidates)
		if err != nil {
			return err
		}
		final = res
		return nil
	})
	g.Go(func() error {
		for p := range candidates {
			if onProgress != nil {
				onProgress(p)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Result{}, c.wrapErr(ctx, err)
	}
	if final == nil {
		return Result{}, ErrIncompleteStream
	}

	c.log.Info("optimizer run finished",
		zap.String("run_id", req.RunID),
		zap.String("status", final.Status),
		zap.Duration("elapsed", time.Since(start)))
	return *final, nil
}

// decodeStream reads events until the terminal one. Candidates are sent on
// out; a nil result with a nil error means the stream ended early.
func decodeStream(ctx context.Context, r io.Reader, runID string, out chan<- Progress) (*Result, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 16<<20)

	seq := 0
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev event
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, fmt.Errorf("optimizer: decode event: %w", err)
		}

		switch ev.Type {
		case EventCandidate:
			seq++
			p := Progress{
				RunID:       runID,
				Sequence:    seq,
				Assignments: ev.Assignments,
				Objective:   ev.Objective,
				ElapsedMS:   ev.ElapsedMS,
			}
			select {
			case out <- p:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		case EventDone:
			return &Result{
				RunID:       runID,
				Status:      terminalStatus(ev.Status),
				Assignments: ev.Assignments,
				Objective:   ev.Objective,
				ElapsedMS:   ev.ElapsedMS,
				Notes:       ev.Notes,
				Error:       ev.Error,
			}, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

func terminalStatus(s string) string {
	switch s {
	case models.RunStatusSuccess, models.RunStatusAborted, models.RunStatusError:
		return s
	default:
		return models.RunStatusError
	}
}

// wrapErr prefers the context error when the context ended the request, so
// callers can match context.DeadlineExceeded and context.Canceled.
func (c *Client) wrapErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("optimizer: %w", err)
}

// Abort asks the optimizer to stop runID early. The running Solve then
// receives an "aborted" terminal event.
func (c *Client) Abort(ctx context.Context, runID string) error {
	endpoint := c.baseURL + "/solve/" + url.PathEscape(runID) + "/abort"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("optimizer: build abort request: %w", err)
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return c.wrapErr(ctx, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return nil
}
