// Package revolutapi fetches raw transactions from the Revolut retail web API.
//
// The API returns at most one page of the most recent transactions before a
// "to" cursor. History is therefore walked month by month, using the last second
// of each month as the cursor.
package revolutapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fjacquet/revol-ver/internal/dateutils"
	"fjacquet/revol-ver/internal/fileutils"
	"fjacquet/revol-ver/internal/harparser"
	"fjacquet/revol-ver/internal/logging"
	"fjacquet/revol-ver/internal/models"
	"fjacquet/revol-ver/internal/parsererror"

	"golang.org/x/net/context/ctxhttp"
	"golang.org/x/time/rate"
)

// Defaults for Options
const (
	DefaultBaseURL           = "https://app.revolut.com"
	DefaultPageSize          = 500
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 2.0
	// MaxPageSize is the server side cap on count.
	MaxPageSize = 500

	transactionsPath = "/api/retail/user/current/transactions/last"
)

// Browser identity sent with every request. The endpoint is meant for the web
// client and rejects requests that do not look like it.
const (
	headerAccept         = "application/json, text/plain, */*"
	headerAcceptLanguage = "en-US,en;q=0.9"
	headerBrowserApp     = "WEB_CLIENT"
	headerClientVersion  = "100.0"
	headerUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36 Edg/126.0.0.0"
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	PageSize          int
	Timeout           time.Duration
	RequestsPerSecond float64
	Location          *time.Location
}

// Client calls the transactions endpoint. Requests are issued one at a time.
type Client struct {
	baseURL    string
	pageSize   int
	location   *time.Location
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logging.Logger
}

// NewClient creates a Client, filling unset options with defaults.
func NewClient(opts Options, logger logging.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.PageSize <= 0 || opts.PageSize > MaxPageSize {
		opts.PageSize = DefaultPageSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		pageSize:   opts.PageSize,
		location:   opts.Location,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// FetchPage requests one page of transactions at or before the cutoff to
// (epoch milliseconds). A zero cutoff requests the most recent page.
// Any response other than a list of records is returned as a *parsererror.FetchError.
func (c *Client) FetchPage(ctx context.Context, creds harparser.Credentials, to int64) ([]models.RawTransaction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := c.newRequest(creds, to)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetching transactions",
		logging.F(logging.FieldURL, req.URL.Path),
		logging.F(logging.FieldCutoff, to))

	resp, err := ctxhttp.Do(ctx, c.httpClient, req)
	if err != nil {
		return nil, &parsererror.FetchError{Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.WithError(closeErr).Warn("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &parsererror.FetchError{StatusCode: resp.StatusCode, Err: err}
	}

	records, err := decodePage(resp.StatusCode, body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Fetched transactions",
		logging.F(logging.FieldStatus, resp.StatusCode),
		logging.F(logging.FieldCount, len(records)))
	return records, nil
}

// FetchMonth fetches the page ending at the period's month-end cutoff.
func (c *Client) FetchMonth(ctx context.Context, creds harparser.Credentials, period models.Period) ([]models.RawTransaction, error) {
	c.logger.Info("Fetching monthly transactions", logging.F(logging.FieldPeriod, period.Label()))
	return c.FetchPage(ctx, creds, period.Cutoff)
}

// FetchAll walks every month bucket of the lookback window, oldest first, and
// concatenates the pages. The first failure aborts the walk and nothing is returned.
func (c *Client) FetchAll(ctx context.Context, creds harparser.Credentials, now time.Time, lookbackYears int) ([]models.RawTransaction, error) {
	cutoffs := dateutils.LookbackCutoffs(now, lookbackYears, c.location)
	c.logger.Info("Fetching all transactions", logging.F("buckets", len(cutoffs)))

	var all []models.RawTransaction
	for _, cutoff := range cutoffs {
		page, err := c.FetchPage(ctx, creds, cutoff)
		if err != nil {
			return nil, fmt.Errorf("bucket %s: %w",
				dateutils.FromEpochMillis(cutoff, c.location).Format("2006-01"), err)
		}
		all = append(all, page...)
	}
	return all, nil
}

func (c *Client) newRequest(creds harparser.Credentials, to int64) (*http.Request, error) {
	endpoint, err := url.Parse(c.baseURL + transactionsPath)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}

	query := url.Values{}
	query.Set("count", strconv.Itoa(c.pageSize))
	query.Set("internalPocketId", creds.PocketID)
	if to != 0 {
		query.Set("to", strconv.FormatInt(to, 10))
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequest(http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	referer := c.baseURL + "/transactions?accountId=" + url.QueryEscape(creds.PocketID)
	req.Header.Set("accept", headerAccept)
	req.Header.Set("accept-language", headerAcceptLanguage)
	req.Header.Set("cookie", creds.Cookie)
	req.Header.Set("referer", referer)
	req.Header.Set("user-agent", headerUserAgent)
	req.Header.Set("x-browser-application", headerBrowserApp)
	req.Header.Set("x-client-version", headerClientVersion)
	req.Header.Set("x-device-id", creds.DeviceID)
	return req, nil
}

// decodePage turns a response body into records. A JSON object is the API's
// error envelope.
func decodePage(status int, body []byte) ([]models.RawTransaction, error) {
	var payload any
	if err := fileutils.DecodeJSON(body, &payload); err != nil {
		return nil, &parsererror.FetchError{StatusCode: status, Body: string(body), Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	list, ok := payload.([]any)
	if !ok {
		return nil, &parsererror.FetchError{StatusCode: status, Body: string(body)}
	}
	if status < 200 || status > 299 {
		return nil, &parsererror.FetchError{StatusCode: status, Body: string(body)}
	}

	records := make([]models.RawTransaction, 0, len(list))
	for i, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, &parsererror.FetchError{
				StatusCode: status,
				Body:       string(body),
				Err:        fmt.Errorf("element %d is %T, not an object", i, item),
			}
		}
		records = append(records, record)
	}
	return records, nil
}
