package tourapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/petplaces-service/internal/entity"
	"github.com/user/petplaces-service/internal/repository"
	"github.com/user/petplaces-service/pkg/metrics"
)

const (
	pathAreaList      = "/areaBasedList1"
	pathKeywordSearch = "/searchKeyword1"

	resultCodeOK = "0000"
)

// Config carries the upstream endpoint settings.
type Config struct {
	// Base URLs per endpoint family, secure scheme.
	GeneralBaseURL string
	PetBaseURL     string
	ServiceKey     string
	MobileOS       string
	MobileApp      string
	Timeout        time.Duration
}

// ClientImpl implements repository.TourAPIRepository against the XML-only
// upstream tourism API.
type ClientImpl struct {
	cfg        Config
	httpClient *http.Client
	decoder    Decoder
}

// NewClient creates a new upstream client. It holds no state beyond the
// HTTP client; no caching happens at this layer.
func NewClient(cfg Config, decoder Decoder) *ClientImpl {
	return &ClientImpl{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		decoder:    decoder,
	}
}

// AreaList fetches the paged area-based listing.
func (c *ClientImpl) AreaList(ctx context.Context, q repository.TourAPIQuery) ([]entity.PlaceRecord, error) {
	params := c.baseParams(q)
	params.Set("areaCode", q.Region)
	params.Set("listYN", "Y")
	return c.fetch(ctx, q.Family, pathAreaList, params, entity.SourceAreaList)
}

// KeywordSearch fetches the area-scoped free-text search.
func (c *ClientImpl) KeywordSearch(ctx context.Context, q repository.TourAPIQuery) ([]entity.PlaceRecord, error) {
	params := c.baseParams(q)
	params.Set("areaCode", q.Region)
	params.Set("keyword", q.Keyword)
	return c.fetch(ctx, q.Family, pathKeywordSearch, params, entity.SourceKeyword)
}

func (c *ClientImpl) baseParams(q repository.TourAPIQuery) url.Values {
	params := url.Values{}
	params.Set("serviceKey", c.cfg.ServiceKey)
	params.Set("MobileOS", c.cfg.MobileOS)
	params.Set("MobileApp", c.cfg.MobileApp)
	params.Set("numOfRows", q.Rows)
	params.Set("pageNo", q.PageNo)
	return params
}

func (c *ClientImpl) baseURL(family string) string {
	if family == repository.FamilyPet {
		return c.cfg.PetBaseURL
	}
	return c.cfg.GeneralBaseURL
}

func (c *ClientImpl) fetch(ctx context.Context, family, path string, params url.Values, source string) ([]entity.PlaceRecord, error) {
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL(family), path, params.Encode())

	body, err := c.get(ctx, fullURL)
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues(family, path, "transport_error").Inc()
		return nil, err
	}

	decoded, err := c.decoder.Decode(body)
	if err != nil {
		outcome := "decode_error"
		if errors.Is(err, repository.ErrUpstreamService) {
			outcome = "service_error"
		}
		metrics.UpstreamCallsTotal.WithLabelValues(family, path, outcome).Inc()
		return nil, err
	}

	if decoded.ResultCode != "" && decoded.ResultCode != resultCodeOK {
		metrics.UpstreamCallsTotal.WithLabelValues(family, path, "service_error").Inc()
		return nil, fmt.Errorf("%w: result %s: %s", repository.ErrUpstreamService, decoded.ResultCode, decoded.ResultMsg)
	}

	metrics.UpstreamCallsTotal.WithLabelValues(family, path, "success").Inc()

	records := make([]entity.PlaceRecord, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		records = append(records, recordFromItem(item, source))
	}
	return records, nil
}

// get performs the HTTP call. On a transport-level failure of the secure
// endpoint it immediately retries once against the insecure variant of the
// same URL; this is a documented upstream quirk, not a retry policy.
func (c *ClientImpl) get(ctx context.Context, fullURL string) ([]byte, error) {
	body, err := c.doRequest(ctx, fullURL)
	if err == nil {
		return body, nil
	}

	if strings.HasPrefix(fullURL, "https://") {
		downgraded := "http://" + strings.TrimPrefix(fullURL, "https://")
		slog.Warn("Secure endpoint failed, retrying over HTTP", "error", err)
		if body, retryErr := c.doRequest(ctx, downgraded); retryErr == nil {
			return body, nil
		}
	}

	return nil, fmt.Errorf("%w: %v", repository.ErrTransport, err)
}

func (c *ClientImpl) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}

	slog.Debug("Calling tourism API", "url", redactServiceKey(fullURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// redactServiceKey hides the API credential in log output.
func redactServiceKey(fullURL string) string {
	u, err := url.Parse(fullURL)
	if err != nil {
		return fullURL
	}
	q := u.Query()
	if q.Has("serviceKey") {
		q.Set("serviceKey", "***REDACTED***")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// recordFromItem maps a decoded flat item onto a PlaceRecord, preserving
// unrecognized tags in Extra.
func recordFromItem(item Item, source string) entity.PlaceRecord {
	rec := entity.PlaceRecord{Source: source}
	extra := map[string]string{}
	for k, v := range item {
		switch k {
		case "contentid":
			rec.ContentID = v
		case "contenttypeid":
			rec.ContentTypeID = v
		case "title":
			rec.Title = v
		case "addr1":
			rec.Addr1 = v
		case "addr2":
			rec.Addr2 = v
		case "mapx":
			rec.MapX = v
		case "mapy":
			rec.MapY = v
		case "tel":
			rec.Tel = v
		case "cat1":
			rec.Cat1 = v
		case "cat2":
			rec.Cat2 = v
		case "cat3":
			rec.Cat3 = v
		case "firstimage":
			rec.FirstImage = v
		case "firstimage2":
			rec.FirstImage2 = v
		case "areacode":
			rec.AreaCode = v
		case "createdtime":
			rec.CreatedTime = v
		case "modifiedtime":
			rec.ModifiedTime = v
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		rec.Extra = extra
	}
	return rec
}
