package dto

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/iho/ledgerrange/internal/domain"
)

// QueryDateLayout is the format of date query parameters, as sent by
// <input type="date">.
const QueryDateLayout = domain.DateLayout

// RangeRequest carries the optional range bounds of a filter request.
type RangeRequest struct {
	Desde string
	Hasta string
}

// RangeRequestFromQuery reads desde/hasta from a query string.
func RangeRequestFromQuery(q url.Values) RangeRequest {
	return RangeRequest{
		Desde: strings.TrimSpace(q.Get("desde")),
		Hasta: strings.TrimSpace(q.Get("hasta")),
	}
}

// Dates parses the bounds. An empty bound is returned as nil so the use case
// can default it to the ledger's own bound.
func (r RangeRequest) Dates() (from, to *time.Time, err error) {
	from, err = parseQueryDate("desde", r.Desde)
	if err != nil {
		return nil, nil, err
	}
	to, err = parseQueryDate("hasta", r.Hasta)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// Query renders the request back as a query string.
func (r RangeRequest) Query() string {
	q := url.Values{}
	if r.Desde != "" {
		q.Set("desde", r.Desde)
	}
	if r.Hasta != "" {
		q.Set("hasta", r.Hasta)
	}
	return q.Encode()
}

func parseQueryDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(QueryDateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q, expected YYYY-MM-DD", domain.ErrInvalidDate, name, value)
	}
	d = domain.DateOf(d)
	return &d, nil
}
