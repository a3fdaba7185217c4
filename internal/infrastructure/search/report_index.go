package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/pawpatrol/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// reportMapping indexes the report location as a geo_point so radius
// queries can run without touching Postgres.
const reportMapping = `{
  "mappings": {
    "properties": {
      "id":             {"type": "keyword"},
      "location":       {"type": "geo_point"},
      "status":         {"type": "keyword"},
      "count":          {"type": "integer"},
      "aggressiveness": {"type": "integer"},
      "reporterId":     {"type": "keyword"},
      "createdOn":      {"type": "date"}
    }
  }
}`

// ReportIndex keeps a geo index of dog reports in Elasticsearch.
type ReportIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewReportIndex(es *elasticsearch.Client, index string) *ReportIndex {
	return &ReportIndex{ES: es, IndexName: index}
}

type geoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type reportDoc struct {
	ID             string   `json:"id"`
	Location       geoPoint `json:"location"`
	Status         string   `json:"status"`
	Count          int      `json:"count"`
	Aggressiveness int      `json:"aggressiveness"`
	ReporterID     string   `json:"reporterId,omitempty"`
	CreatedOn      string   `json:"createdOn"`
}

func toDoc(r *entity.Report) reportDoc {
	return reportDoc{
		ID:             r.ID,
		Location:       geoPoint{Lat: r.Location.Y, Lon: r.Location.X},
		Status:         string(r.Status),
		Count:          r.Count,
		Aggressiveness: r.Aggressiveness,
		ReporterID:     r.Reporter(),
		CreatedOn:      r.CreatedOn.UTC().Format(time.RFC3339Nano),
	}
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("es %s: %s: %s", op, res.Status(), strings.TrimSpace(string(body)))
}

// EnsureIndex creates the index with its geo mapping when it does not exist.
func (x *ReportIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{x.IndexName}}.Do(c, x.ES)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{Index: x.IndexName, Body: strings.NewReader(reportMapping)}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("create index", res)
	}
	return nil
}

// Index upserts the report document.
func (x *ReportIndex) Index(ctx context.Context, r *entity.Report) error {
	b, err := json.Marshal(toDoc(r))
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: r.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

// Remove deletes the report document; a missing document is not an error.
func (x *ReportIndex) Remove(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.DeleteRequest{Index: x.IndexName, DocumentID: id}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete", res)
	}
	return nil
}

// Nearby returns the ids of reports within radiusMeters of center, nearest first.
func (x *ReportIndex) Nearby(ctx context.Context, center entity.Point, radiusMeters float64, size int) ([]string, error) {
	origin := geoPoint{Lat: center.Y, Lon: center.X}
	query := map[string]any{
		"size":    size,
		"_source": []string{"id"},
		"query": map[string]any{
			"bool": map[string]any{
				"filter": map[string]any{
					"geo_distance": map[string]any{
						"distance": strconv.FormatFloat(radiusMeters, 'f', -1, 64) + "m",
						"location": origin,
					},
				},
			},
		},
		"sort": []any{
			map[string]any{
				"_geo_distance": map[string]any{
					"location": origin,
					"order":    "asc",
					"unit":     "m",
				},
			},
		},
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.IndexName), x.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, responseError("search", res)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
