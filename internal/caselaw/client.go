// Package caselaw queries the CNJ DataJud public API, an Elasticsearch
// endpoint indexing court process metadata.
package caselaw

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hugh/ritum/pkg/config"
)

const (
	resultSize     = 20
	requestTimeout = 30 * time.Second
)

var searchFields = []string{"assuntos.nome^3", "classe.nome^2", "movimentos.nome", "orgaoJulgador.nome"}

var ErrNotConfigured = errors.New("DataJud API key is not configured")

// UpstreamError carries a non-2xx DataJud response.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("datajud returned %d: %s", e.StatusCode, e.Detail)
}

// Result is one normalized hit. Missing upstream fields stay null.
type Result struct {
	Score           *float64 `json:"score"`
	Processo        *string  `json:"processo"`
	Tribunal        *string  `json:"tribunal"`
	DataAjuizamento *string  `json:"data_ajuizamento"`
	Classe          *string  `json:"classe"`
	Assuntos        []string `json:"assuntos"`
	OrgaoJulgador   *string  `json:"orgao_julgador"`
}

type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

type Client struct {
	apiKey  string
	url     string
	http    *http.Client
	limiter *rate.Limiter
}

var _ Searcher = (*Client)(nil)

func NewClient(cfg config.CaseLawConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		url:     cfg.URL,
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type esQuery struct {
	Size  int `json:"size"`
	Query struct {
		MultiMatch struct {
			Query     string   `json:"query"`
			Fields    []string `json:"fields"`
			Fuzziness string   `json:"fuzziness"`
		} `json:"multi_match"`
	} `json:"query"`
}

type named struct {
	Nome *string `json:"nome"`
}

type esResponse struct {
	Hits struct {
		Hits []struct {
			Score  *float64 `json:"_score"`
			Source struct {
				NumeroProcesso  *string `json:"numeroProcesso"`
				Tribunal        *string `json:"tribunal"`
				DataAjuizamento *string `json:"dataAjuizamento"`
				Classe          *named  `json:"classe"`
				Assuntos        []named `json:"assuntos"`
				OrgaoJulgador   *named  `json:"orgaoJulgador"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var q esQuery
	q.Size = resultSize
	q.Query.MultiMatch.Query = query
	q.Query.MultiMatch.Fields = searchFields
	q.Query.MultiMatch.Fuzziness = "AUTO"

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "APIKey "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling datajud: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("reading datajud response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(raw))}
	}

	var parsed esResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decoding datajud response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		src := hit.Source
		r := Result{
			Score:           hit.Score,
			Processo:        src.NumeroProcesso,
			Tribunal:        src.Tribunal,
			DataAjuizamento: src.DataAjuizamento,
			Assuntos:        []string{},
		}
		if src.Classe != nil {
			r.Classe = src.Classe.Nome
		}
		if src.OrgaoJulgador != nil {
			r.OrgaoJulgador = src.OrgaoJulgador.Nome
		}
		for _, a := range src.Assuntos {
			if a.Nome != nil {
				r.Assuntos = append(r.Assuntos, *a.Nome)
			}
		}
		results = append(results, r)
	}

	return results, nil
}
