package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const maxErrorBodyLen = 256

// TokenProvider supplies the bearer token for authorized calls.
type TokenProvider interface {
	CurrentToken() string
}

// Client talks to the coaching backend. Every call is a JSON POST to
// <base url><endpoint>.
type Client struct {
	baseURL    string
	endpoints  config.Endpoints
	httpClient *http.Client
	tokens     TokenProvider
}

func NewTracedHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func NewClient(baseURL string, endpoints config.Endpoints, httpClient *http.Client, tokens TokenProvider) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		endpoints:  endpoints,
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// SetTokenProvider is used when the provider itself needs the client to be built first.
func (c *Client) SetTokenProvider(tokens TokenProvider) {
	c.tokens = tokens
}

func (c *Client) Login(ctx context.Context, email, password string) (_ *LoginResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "apiClient.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	resp := &LoginResponse{}
	if err := c.post(ctx, c.endpoints.Login, loginRequest{Email: email, Password: password}, false, nil, resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "invalid credentials"
		}
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	}
	return resp, nil
}

func (c *Client) LoadProfile(ctx context.Context) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "apiClient.loadProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	resp := &profileResponse{}
	if err := c.post(ctx, c.endpoints.Profile, struct{}{}, true, nil, resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.User == nil {
		return nil, fmt.Errorf("%w: %s", ErrRejected, resp.Message)
	}
	return resp.User, nil
}

// FetchProgram loads a full workout program. A success:false answer without
// an item is reported as not found.
func (c *Client) FetchProgram(ctx context.Context, programID string) (_ *workout.Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "apiClient.fetchProgram")
	span.SetAttributes(attribute.String("program.id", programID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	resp := &programResponse{}
	if err := c.post(ctx, c.endpoints.WorkoutDetails, idRequest{ID: programID}, true, nil, resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", workout.ErrProgramNotFound, err)
		}
		return nil, err
	}
	if !resp.Success || resp.Item == nil {
		log.Debugf("api client: program [%s] not returned: %s", programID, resp.Message)
		return nil, fmt.Errorf("%w: %w: program %s", workout.ErrProgramNotFound, ErrNotFound, programID)
	}
	return resp.Item, nil
}

func (c *Client) FetchProgramList(ctx context.Context, page, pageSize int) (_ *Page[workout.ProgramSummary], err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "apiClient.fetchProgramList")
	span.SetAttributes(attribute.Int("page", page), attribute.Int("page.size", pageSize))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	resp := &Page[workout.ProgramSummary]{}
	if err := c.post(ctx, c.endpoints.WorkoutList, pageRequest{Page: page, Limit: pageSize}, true, nil, resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, ErrRejected
	}
	if resp.Page == 0 {
		resp.Page = page
	}
	return resp, nil
}

func (c *Client) SubmitProgress(ctx context.Context, req ProgressRequest) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "apiClient.submitProgress")
	span.SetAttributes(
		attribute.String("program.id", req.ProgramID),
		attribute.StringSlice("exercise.ids", req.ExerciseIDs),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var headers map[string]string
	if req.IdempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": req.IdempotencyKey}
	}

	resp := &ackResponse{}
	if err := c.post(ctx, c.endpoints.WorkoutExerciseProgress, req, true, headers, resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s", ErrRejected, resp.Message)
	}
	return nil
}

// FetchCalendar returns the scheduled sessions keyed by YYYY-MM-DD. The
// backend may include days of the adjacent months.
func (c *Client) FetchCalendar(ctx context.Context, year, month int) (_ map[string][]CalendarEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "apiClient.fetchCalendar")
	span.SetAttributes(attribute.Int("year", year), attribute.Int("month", month))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	body := calendarRequest{Year: strconv.Itoa(year), Month: strconv.Itoa(month)}
	resp := &calendarResponse{}
	if err := c.post(ctx, c.endpoints.WorkoutCalendar, body, true, nil, resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Dates == nil {
		return nil, fmt.Errorf("%w: %s", ErrRejected, resp.Message)
	}
	return resp.Dates, nil
}

func (c *Client) FetchNutritionList(ctx context.Context, page, pageSize int) (_ *Page[NutritionItem], err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "apiClient.fetchNutritionList")
	span.SetAttributes(attribute.Int("page", page), attribute.Int("page.size", pageSize))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	resp := &Page[NutritionItem]{}
	if err := c.post(ctx, c.endpoints.NutritionList, pageRequest{Page: page, Limit: pageSize}, true, nil, resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, ErrRejected
	}
	if resp.Page == 0 {
		resp.Page = page
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any, authorized bool, headers map[string]string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", endpoint, err)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("new %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if authorized {
		token := ""
		if c.tokens != nil {
			token = c.tokens.CurrentToken()
		}
		if token == "" {
			return fmt.Errorf("%w: no session token for %s", ErrUnauthorized, endpoint)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	log.Debugf("api client: calling %s", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response bytes: %w", endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, endpoint)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg := string(respBytes)
		if len(msg) > maxErrorBodyLen {
			msg = msg[:maxErrorBodyLen]
		}
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: msg}
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("unmarshal %s response bytes: %w", endpoint, err)
	}
	return nil
}
