package logic

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rawen554/geofeed/internal/cache"
	"github.com/rawen554/geofeed/internal/config"
	"github.com/rawen554/geofeed/internal/models"
	"github.com/rawen554/geofeed/internal/normalize"
	"go.uber.org/zap"
)

const maxImageSlots = 6

// Image field kinds; the value doubles as the route segment of the proxy URL
// and as the cache key prefix.
const (
	KindPhoto = "img"
	KindImage = "image"
)

var ErrNotFound = errors.New("not found")

// Field name fallbacks per logical field. The upstream schema is not cased
// uniformly, so these are explicit finite lists rather than a generic
// case-insensitive match.
var (
	geometryFields = []string{"Polygon", "polygon", "GeoJSON", "geojson"}
	nameFields     = []string{"Name", "name", "Network Name"}
	leaderFields   = []string{"Leaders", "leaders", "Network Leaders"}
	photoFields    = []string{"Photos", "photos", "Photo"}
	imageFields    = []string{"Images", "images", "Image"}
	emailFields    = []string{"Contact Email", "Contact email", "contact email", "Email"}
	statusFields   = []string{"Status", "status"}
	countyFields   = []string{"County", "county"}
	tagFields      = []string{"Tags", "tags"}
	churchFields   = []string{"Number of Churches", "number of churches", "Churches"}
)

type Source interface {
	ListRecords(ctx context.Context) ([]models.Record, error)
	GetRecord(ctx context.Context, id string) (*models.Record, error)
}

type URLCache interface {
	Get(key string) (string, bool)
	Put(key string, url string)
}

type CoreLogic struct {
	config *config.ServerConfig
	source Source
	cache  URLCache
	logger *zap.SugaredLogger
}

func NewCoreLogic(
	config *config.ServerConfig,
	source Source,
	cache URLCache,
	logger *zap.SugaredLogger,
) *CoreLogic {
	return &CoreLogic{
		config: config,
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// BuildCollection fetches every upstream record and assembles the
// FeatureCollection. Records without parseable geometry are dropped, that is
// the documented policy, not an error. An upstream failure fails the whole
// collection; there are no partial results.
func (cl *CoreLogic) BuildCollection(ctx context.Context) (*models.FeatureCollection, error) {
	records, err := cl.source.ListRecords(ctx)
	if err != nil {
		err = fmt.Errorf("error listing upstream records: %w", err)
		cl.logger.Error(err)
		return nil, err
	}

	features := make([]models.Feature, 0, len(records))
	for i := range records {
		if feature, ok := cl.buildFeature(&records[i]); ok {
			features = append(features, feature)
		}
	}

	return models.NewFeatureCollection(features), nil
}

func (cl *CoreLogic) buildFeature(record *models.Record) (models.Feature, bool) {
	geometry := normalize.Geometry(fieldValue(record.Fields, geometryFields))
	if geometry == nil {
		return models.Feature{}, false
	}

	props := map[string]any{
		"id":   record.ID,
		"name": displayName(record.Fields),
	}
	props["leaders"] = normalize.JoinNames(fieldValue(record.Fields, leaderFields))

	cl.fillImageSlots(props, record, KindPhoto, photoFields, "photo")
	cl.fillImageSlots(props, record, KindImage, imageFields, "image")

	props["contact_email"] = normalize.JoinText(fieldValue(record.Fields, emailFields))
	props["status"] = normalize.JoinText(fieldValue(record.Fields, statusFields))
	props["county"] = normalize.JoinText(fieldValue(record.Fields, countyFields))
	props["tags"] = normalize.JoinNames(fieldValue(record.Fields, tagFields))

	if churches, ok := fieldValue(record.Fields, churchFields).(float64); ok {
		props["number_of_churches"] = churches
	} else {
		props["number_of_churches"] = normalize.JoinText(fieldValue(record.Fields, churchFields))
	}

	return models.Feature{
		Type:       "Feature",
		Geometry:   geometry,
		Properties: props,
	}, true
}

// fillImageSlots writes the fixed-width photoN/imageN properties plus their
// count. An attachment array gets proxy URLs, deferring resolution to the
// redirect endpoint so expiring signed URLs never land in cached responses;
// every other shape is flattened to direct URLs.
func (cl *CoreLogic) fillImageSlots(
	props map[string]any,
	record *models.Record,
	kind string,
	fields []string,
	prefix string,
) {
	raw := fieldValue(record.Fields, fields)

	var urls []string
	if items, ok := attachmentArray(raw); ok {
		count := len(items)
		if count > maxImageSlots {
			count = maxImageSlots
		}
		for i := 0; i < count; i++ {
			proxyURL, err := url.JoinPath(cl.config.BaseURL, kind, record.ID, strconv.Itoa(i))
			if err != nil {
				cl.logger.Errorf("error building proxy URL for record %s: %v", record.ID, err)
				continue
			}
			urls = append(urls, proxyURL)
		}
	} else {
		urls = normalize.CollectURLs(raw)
		if len(urls) > maxImageSlots {
			urls = urls[:maxImageSlots]
		}
	}

	for i := 0; i < maxImageSlots; i++ {
		slot := ""
		if i < len(urls) {
			slot = urls[i]
		}
		props[prefix+strconv.Itoa(i+1)] = slot
	}
	props[prefix+"_count"] = len(urls)
}

// ResolveImage returns the redirect target for one attachment slot, from the
// cache when a fresh entry exists, otherwise by re-fetching the record.
func (cl *CoreLogic) ResolveImage(ctx context.Context, kind string, recordID string, index int) (string, error) {
	if index < 0 {
		return "", ErrNotFound
	}

	key := cache.Key(kind, recordID, index)
	if target, ok := cl.cache.Get(key); ok {
		return target, nil
	}

	record, err := cl.source.GetRecord(ctx, recordID)
	if err != nil {
		err = fmt.Errorf("error fetching record %s: %w", recordID, err)
		cl.logger.Error(err)
		return "", err
	}

	fields := photoFields
	if kind == KindImage {
		fields = imageFields
	}

	items, ok := fieldValue(record.Fields, fields).([]any)
	if !ok || index >= len(items) {
		return "", ErrNotFound
	}

	target := normalize.AttachmentURL(items[index])
	if target == "" {
		return "", ErrNotFound
	}
	target = normalize.URL(target)

	cl.cache.Put(key, target)

	return target, nil
}

// fieldValue returns the first present field from the fallback list.
func fieldValue(fields map[string]any, names []string) any {
	for _, name := range names {
		if v, ok := fields[name]; ok && v != nil {
			return v
		}
	}

	return nil
}

func displayName(fields map[string]any) string {
	if name, ok := fieldValue(fields, nameFields).(string); ok {
		return name
	}

	return ""
}

// attachmentArray reports whether the raw field is an array led by an
// attachment-like object, the shape that selects proxy URL mode.
func attachmentArray(raw any) ([]any, bool) {
	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return nil, false
	}

	first, ok := items[0].(map[string]any)
	if !ok {
		return nil, false
	}
	if _, ok := first["url"]; ok {
		return items, true
	}
	if _, ok := first["thumbnails"]; ok {
		return items, true
	}

	return nil, false
}
