package jurisprudence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"

	"github.com/hugh/ritum/internal/database/models"
)

const indexUID = "ritum_jurisprudence"

var errIndexUnhealthy = errors.New("meilisearch unhealthy")

// indexedDocument is the shape stored in Meilisearch. Dates are kept as unix
// seconds so range filters work.
type indexedDocument struct {
	ID              uint   `json:"id"`
	Court           string `json:"court"`
	CaseNumber      string `json:"case_number"`
	PublicationDate string `json:"publication_date"`
	PublicationTS   int64  `json:"publication_ts"`
	Summary         string `json:"summary"`
	FullText        string `json:"full_text"`
}

func toIndexed(d models.JurisprudenceDocument) indexedDocument {
	return indexedDocument{
		ID:              d.ID,
		Court:           d.Court,
		CaseNumber:      d.CaseNumber,
		PublicationDate: d.PublicationDate.UTC().Format(time.RFC3339),
		PublicationTS:   d.PublicationDate.Unix(),
		Summary:         d.Summary,
		FullText:        d.FullText,
	}
}

func (d indexedDocument) model() models.JurisprudenceDocument {
	published, err := time.Parse(time.RFC3339, d.PublicationDate)
	if err != nil {
		published = time.Unix(d.PublicationTS, 0).UTC()
	}
	return models.JurisprudenceDocument{
		ID:              d.ID,
		Court:           d.Court,
		CaseNumber:      d.CaseNumber,
		PublicationDate: published,
		Summary:         d.Summary,
		FullText:        d.FullText,
	}
}

// MeiliIndex mirrors the jurisprudence table into Meilisearch.
type MeiliIndex struct {
	client  meili.ServiceManager
	logger  *slog.Logger
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeiliIndex connects and configures the index. An unreachable server is
// not an error: the index reports unhealthy and is re-probed periodically.
func NewMeiliIndex(url, apiKey string, logger *slog.Logger) *MeiliIndex {
	m := &MeiliIndex{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		logger: logger,
		done:   make(chan struct{}),
	}

	if _, err := m.client.Health(); err != nil {
		logger.Warn("meilisearch unavailable", "url", url, "error", err)
	} else {
		m.healthy.Store(true)
		m.configure()
	}

	go m.healthLoop()
	return m
}

func (m *MeiliIndex) configure() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        indexUID,
		PrimaryKey: "id",
	}); err != nil {
		m.logger.Debug("create index (may already exist)", "index", indexUID, "error", err)
	}

	index := m.client.Index(indexUID)

	filterable := []interface{}{"court", "publication_ts"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		m.logger.Warn("update filterable attributes", "index", indexUID, "error", err)
	}

	searchable := []string{"case_number", "summary", "full_text"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		m.logger.Warn("update searchable attributes", "index", indexUID, "error", err)
	}
}

func (m *MeiliIndex) healthLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			was := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !was {
				m.logger.Info("meilisearch recovered, reconfiguring index")
				m.configure()
			}
		}
	}
}

func (m *MeiliIndex) Close() {
	close(m.done)
}

func (m *MeiliIndex) Healthy() bool {
	return m.healthy.Load()
}

// Index adds or replaces documents.
func (m *MeiliIndex) Index(docs []models.JurisprudenceDocument) error {
	if len(docs) == 0 {
		return nil
	}
	records := make([]indexedDocument, len(docs))
	for i, d := range docs {
		records[i] = toIndexed(d)
	}
	_, err := m.client.Index(indexUID).AddDocuments(records, nil)
	return err
}

func (m *MeiliIndex) Search(_ context.Context, q Query) ([]models.JurisprudenceDocument, error) {
	if !m.healthy.Load() {
		return nil, errIndexUnhealthy
	}
	q.Normalize()

	req := &meili.SearchRequest{
		Limit:  int64(q.Limit),
		Offset: int64(q.Skip),
	}
	if filters := meiliFilters(q); len(filters) > 0 {
		req.Filter = filters
	}

	resp, err := m.client.Index(indexUID).Search(q.Text, req)
	if err != nil {
		m.healthy.Store(false)
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	docs := make([]models.JurisprudenceDocument, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			return nil, fmt.Errorf("encoding hit: %w", err)
		}
		var rec indexedDocument
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decoding hit: %w", err)
		}
		docs = append(docs, rec.model())
	}
	return docs, nil
}

// meiliFilters renders the court and date filters; each entry is ANDed.
func meiliFilters(q Query) []string {
	var filters []string
	if len(q.Courts) > 0 {
		quoted := make([]string, len(q.Courts))
		for i, c := range q.Courts {
			quoted[i] = strconv.Quote(c)
		}
		filters = append(filters, fmt.Sprintf("court IN [%s]", strings.Join(quoted, ", ")))
	}
	if q.StartDate != nil {
		filters = append(filters, fmt.Sprintf("publication_ts >= %d", q.StartDate.Unix()))
	}
	if end := q.endExclusive(); end != nil {
		filters = append(filters, fmt.Sprintf("publication_ts < %d", end.Unix()))
	}
	return filters
}
