// Package finder provides HTTP clients for the per-brand equivalent finders
package finder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"filterdetect/internal/core/rulepack"
	perr "filterdetect/internal/platform/errors"
	"filterdetect/internal/platform/logger"
	dom "filterdetect/internal/services/detect/domain"
)

const (
	defaultUA      = "filterdetect-finder"
	maxBody        = 1 << 20
	defaultTimeout = 30 * time.Second
)

// Options configures a Client
type Options struct {
	Brand     string
	BaseURL   string
	UserAgent string

	// Transport level ceiling; the resolver bounds each call tighter
	Timeout time.Duration
}

// Client calls one brand's finder: GET {base}/{code}
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// payload is the finder wire shape. The code field is named after the brand
type payload struct {
	Found                 bool              `json:"found"`
	DonaldsonCode         *string           `json:"donaldson_code"`
	FramCode              *string           `json:"fram_code"`
	Code                  *string           `json:"code"`
	CrossReferences       []string          `json:"cross_references"`
	OEMCodes              []string          `json:"oem_codes"`
	EngineApplications    []string          `json:"engine_applications"`
	EquipmentApplications []string          `json:"equipment_applications"`
	Specs                 map[string]string `json:"specs"`
	Description           string            `json:"description"`
}

var _ dom.FinderPort = (*Client)(nil)

// NewClient returns a Client with defaults applied
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  logger.Named("finder").With().Str("brand", o.Brand).Logger(),
		now:  time.Now,
	}
}

// Brand is the brand this client answers for
func (c *Client) Brand() string { return c.opts.Brand }

// GetBrandData asks the finder for code. 404 is a clean not-found; transport
// failures are Unavailable and other statuses or bad bodies are Upstream
func (c *Client) GetBrandData(ctx context.Context, code string) (*dom.BrandData, error) {
	u := c.opts.BaseURL + "/" + url.PathEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "finder new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "finder %s request failed", c.opts.Brand)
	}
	defer func() { _ = drainAndClose(resp.Body) }()

	c.log.Debug().
		Str("code", code).
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Msg("finder http response")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &dom.BrandData{Found: false}, nil
	case resp.StatusCode >= 500:
		return nil, perr.Newf(perr.ErrorCodeUnavailable, "finder %s status %d", c.opts.Brand, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, perr.Newf(perr.ErrorCodeUpstream, "finder %s unexpected status %d", c.opts.Brand, resp.StatusCode)
	}

	var p payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&p); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "finder %s malformed body", c.opts.Brand)
	}
	return p.toBrandData(c.opts.Brand), nil
}

func (p payload) toBrandData(brand string) *dom.BrandData {
	code := p.Code
	switch strings.ToUpper(brand) {
	case rulepack.BrandDonaldson:
		code = firstSet(p.DonaldsonCode, code)
	case rulepack.BrandFram:
		code = firstSet(p.FramCode, code)
	}
	bd := &dom.BrandData{
		Found: p.Found,
		Enrichment: dom.Enrichment{
			CrossReferences:       p.CrossReferences,
			OEMCodes:              p.OEMCodes,
			EngineApplications:    p.EngineApplications,
			EquipmentApplications: p.EquipmentApplications,
			Specs:                 p.Specs,
			Description:           strings.TrimSpace(p.Description),
		},
	}
	if code != nil {
		bd.Code = strings.TrimSpace(*code)
	}
	return bd
}

func firstSet(a, b *string) *string {
	if a != nil && strings.TrimSpace(*a) != "" {
		return a
	}
	return b
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, maxBody))
	return rc.Close()
}
