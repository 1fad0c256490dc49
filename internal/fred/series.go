package fred

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetSeries fetches metadata for one series.
func (c *Client) GetSeries(ctx context.Context, seriesID string) (*APISeries, error) {
	query := url.Values{}
	query.Set("series_id", seriesID)

	var resp SeriesResponse
	if err := c.get(ctx, "/series", query, &resp); err != nil {
		return nil, fmt.Errorf("get series %s: %w", seriesID, err)
	}
	if len(resp.Seriess) == 0 {
		return nil, fmt.Errorf("get series %s: empty response", seriesID)
	}

	return &resp.Seriess[0], nil
}

// GetObservations fetches one page of observations for a series.
func (c *Client) GetObservations(ctx context.Context, seriesID string, opts ObservationsOptions) (*ObservationsResponse, error) {
	query := url.Values{}
	query.Set("series_id", seriesID)
	if opts.Start != "" {
		query.Set("observation_start", opts.Start)
	}
	if opts.End != "" {
		query.Set("observation_end", opts.End)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.SortOrder != "" {
		query.Set("sort_order", opts.SortOrder)
	}

	var resp ObservationsResponse
	if err := c.get(ctx, "/series/observations", query, &resp); err != nil {
		return nil, fmt.Errorf("get observations %s offset %d: %w", seriesID, opts.Offset, err)
	}

	return &resp, nil
}
