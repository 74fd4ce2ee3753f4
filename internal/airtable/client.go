// Client for the upstream tabular data API.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rawen554/geofeed/internal/config"
	"github.com/rawen554/geofeed/internal/models"
	"go.uber.org/zap"
)

const pageSize = 100

type Client struct {
	httpClient *http.Client
	logger     *zap.SugaredLogger
	apiBase    string
	token      string
	baseID     string
	table      string
	view       string
}

func NewClient(config *config.ServerConfig, logger *zap.SugaredLogger) *Client {
	return &Client{
		httpClient: http.DefaultClient,
		logger:     logger,
		apiBase:    config.AirtableAPIBase,
		token:      config.AirtableToken,
		baseID:     config.AirtableBase,
		table:      config.AirtableTable,
		view:       config.AirtableView,
	}
}

type recordsPage struct {
	Offset  string          `json:"offset"`
	Records []models.Record `json:"records"`
}

// ListRecords fetches the whole table, page by page. The loop terminates
// exactly when a page comes back without a continuation token; there is no
// page count cap. A failed page fails the whole listing, no partial results.
func (c *Client) ListRecords(ctx context.Context) ([]models.Record, error) {
	records := make([]models.Record, 0)
	offset := ""

	for {
		page, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		records = append(records, page.Records...)

		if page.Offset == "" {
			return records, nil
		}
		offset = page.Offset
	}
}

func (c *Client) fetchPage(ctx context.Context, offset string) (*recordsPage, error) {
	query := url.Values{}
	query.Set("pageSize", strconv.Itoa(pageSize))
	if c.view != "" {
		query.Set("view", c.view)
	}
	if offset != "" {
		query.Set("offset", offset)
	}

	tableURL, err := url.JoinPath(c.apiBase, c.baseID, c.table)
	if err != nil {
		return nil, fmt.Errorf("error building table URL: %w", err)
	}

	var page recordsPage
	if err := c.getJSON(ctx, tableURL+"?"+query.Encode(), &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// GetRecord fetches a single record by its ID.
func (c *Client) GetRecord(ctx context.Context, id string) (*models.Record, error) {
	recordURL, err := url.JoinPath(c.apiBase, c.baseID, c.table, id)
	if err != nil {
		return nil, fmt.Errorf("error building record URL: %w", err)
	}

	var record models.Record
	if err := c.getJSON(ctx, recordURL, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("error creating upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling upstream API: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			c.logger.Errorf("error closing upstream response body: %v", err)
		}
	}()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream API status %d for %s", res.StatusCode, req.URL.Path)
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("error decoding upstream response: %w", err)
	}

	return nil
}
