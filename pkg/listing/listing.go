// Package listing serves offset/limit pages of signatures with HAL-style
// navigation links.
package listing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ErrInvalidWindow is returned for a window with a negative offset or a
// non-positive limit
var ErrInvalidWindow = errors.New("listing: invalid window")

// Window selects a page
type Window struct {
	Offset int
	Limit  int
}

// Valid reports whether offset >= 0 and limit > 0
func (w Window) Valid() bool {
	return w.Offset >= 0 && w.Limit > 0
}

// ParseWindow reads a window from query parameter values. Missing or
// malformed values fall back to the defaults; a negative offset becomes 0,
// a non-positive limit becomes defaultLimit and a limit above maxLimit is
// clamped.
func ParseWindow(offsetStr, limitStr string, defaultLimit, maxLimit int) Window {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}

	w := Window{Offset: 0, Limit: defaultLimit}
	if n, err := strconv.Atoi(strings.TrimSpace(offsetStr)); err == nil && n > 0 {
		w.Offset = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limitStr)); err == nil && n > 0 {
		w.Limit = min(n, maxLimit)
	}
	return w
}

// Link is a HAL link object
type Link struct {
	Href string `json:"href"`
}

// Links are the navigation links of a page
type Links struct {
	Self Link  `json:"self"`
	Prev *Link `json:"prev,omitempty"`
	Next *Link `json:"next,omitempty"`
}

// PageResult is one page of signatures
type PageResult struct {
	Items  []model.Signature `json:"items"`
	Total  int64             `json:"total"`
	Offset int               `json:"offset"`
	Limit  int               `json:"limit"`
	Links  Links             `json:"_links"`
}

// Lister builds pages from a SignaturesStore
type Lister struct {
	signatures store.SignaturesStore
	base       *url.URL
}

// NewLister creates a Lister whose links point at baseURL + "/admin/"
func NewLister(signatures store.SignaturesStore, baseURL string) (*Lister, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/admin/")
	if err != nil {
		return nil, fmt.Errorf("listing: invalid base url %q: %w", baseURL, err)
	}
	return &Lister{signatures: signatures, base: base}, nil
}

// List fetches the page selected by w together with the total count.
//
// prev is present iff offset > 0 and steps back one full page, clamped at 0.
// next is present iff records remain after this page.
func (l *Lister) List(ctx context.Context, w Window) (*PageResult, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: offset=%d limit=%d", ErrInvalidWindow, w.Offset, w.Limit)
	}

	var (
		total int64
		items []model.Signature
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = l.signatures.Count(gctx)
		if err != nil {
			return fmt.Errorf("listing: count signatures: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = l.signatures.List(gctx, w.Offset, w.Limit)
		if err != nil {
			return fmt.Errorf("listing: list signatures: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Signature{}
	}

	page := &PageResult{
		Items:  items,
		Total:  total,
		Offset: w.Offset,
		Limit:  w.Limit,
		Links: Links{
			Self: l.link(w.Offset, w.Limit),
		},
	}
	if w.Offset > 0 {
		prev := l.link(max(w.Offset-w.Limit, 0), w.Limit)
		page.Links.Prev = &prev
	}
	if int64(w.Offset+len(items)) < total {
		next := l.link(w.Offset+w.Limit, w.Limit)
		page.Links.Next = &next
	}
	return page, nil
}

func (l *Lister) link(offset, limit int) Link {
	u := *l.base
	u.RawQuery = fmt.Sprintf("offset=%d&limit=%d", offset, limit)
	return Link{Href: u.String()}
}
