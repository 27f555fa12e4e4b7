package airtable

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/config"
	"github.com/aitopia-kr/aitopia/internal/catalog"
)

const (
	defaultEndpoint = "https://api.airtable.com/v0"
	defaultTable    = "AI_Services"
	maxPages        = 100
)

// ErrNotConfigured is returned by New when the API key or base id is blank.
var ErrNotConfigured = errors.New("airtable credentials are not configured")

// StatusError is a non-2xx answer from the Airtable API.
type StatusError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("airtable: status %d %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("airtable: status %d %s", e.StatusCode, e.Type)
}

type listResponse struct {
	Records []struct {
		ID          string                 `json:"id"`
		CreatedTime string                 `json:"createdTime"`
		Fields      map[string]interface{} `json:"fields"`
	} `json:"records"`
	Offset string `json:"offset"`
}

type errorResponse struct {
	Error jsoniter.RawMessage `json:"error"`
}

// Client lists the rows of one Airtable table. It implements catalog.Source.
type Client struct {
	apiKey   string
	baseID   string
	table    string
	endpoint string
	timeout  time.Duration
}

var _ catalog.Source = (*Client)(nil)

func New(cfg config.AirtableConfig) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	c := &Client{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		baseID:   strings.TrimSpace(cfg.BaseID),
		table:    cfg.Table,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		timeout:  time.Duration(cfg.Timeout) * time.Second,
	}
	if c.table == "" {
		c.table = defaultTable
	}
	if c.endpoint == "" {
		c.endpoint = defaultEndpoint
	}
	return c, nil
}

// Fetch lists every record of the table, following pagination offsets.
// Rows are requested sorted by order asc, isNew desc.
func (c *Client) Fetch(ctx context.Context) ([]catalog.Row, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var rows []catalog.Row
	offset := ""
	for page := 0; page < maxPages; page++ {
		resp, err := c.listPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		for _, r := range resp.Records {
			rows = append(rows, catalog.Row{ID: r.ID, Fields: r.Fields})
		}
		if resp.Offset == "" {
			zap.L().Debug("airtable records fetched",
				zap.String("table", c.table),
				zap.Int("records", len(rows)),
				zap.Int("pages", page+1))
			return rows, nil
		}
		offset = resp.Offset
	}
	return nil, errors.Errorf("airtable: more than %d pages in table %s", maxPages, c.table)
}

func (c *Client) listPage(ctx context.Context, offset string) (*listResponse, error) {
	query := url.Values{}
	query.Set("sort[0][field]", "order")
	query.Set("sort[0][direction]", "asc")
	query.Set("sort[1][field]", "isNew")
	query.Set("sort[1][direction]", "desc")
	if offset != "" {
		query.Set("offset", offset)
	}
	reqURL := fmt.Sprintf("%s/%s/%s?%s", c.endpoint, url.PathEscape(c.baseID), url.PathEscape(c.table), query.Encode())

	var (
		body string
		code int
	)
	err := gout.GET(reqURL).
		WithContext(ctx).
		SetHeader(gout.H{
			"Authorization": "Bearer " + c.apiKey,
			"Accept":        "application/json",
		}).
		BindBody(&body).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "airtable request")
	}

	if code < 200 || code > 299 {
		return nil, parseStatusError(code, body)
	}

	var resp listResponse
	if err := jsoniter.UnmarshalFromString(body, &resp); err != nil {
		return nil, errors.Wrap(err, "decode airtable response")
	}
	return &resp, nil
}

// parseStatusError understands both {"error":"NOT_FOUND"} and
// {"error":{"type":"...","message":"..."}} bodies.
func parseStatusError(code int, body string) error {
	se := &StatusError{StatusCode: code}
	var er errorResponse
	if err := jsoniter.UnmarshalFromString(body, &er); err != nil || len(er.Error) == 0 {
		return se
	}
	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := jsoniter.Unmarshal(er.Error, &detail); err == nil {
		se.Type, se.Message = detail.Type, detail.Message
		return se
	}
	var plain string
	if err := jsoniter.Unmarshal(er.Error, &plain); err == nil {
		se.Type = plain
	}
	return se
}
