package search

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const opTimeout = 3 * time.Second

// NewClient creates an Elasticsearch client with sane defaults and optional basic auth.
func NewClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

// ProfileDocument is the searchable projection of an account.
type ProfileDocument struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	City      string `json:"city,omitempty"`
	MediaURL  string `json:"mediaUrl,omitempty"`
}

// ProfileIndex keeps one document per account. A nil client turns every call into a no-op.
type ProfileIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewProfileIndex(es *elasticsearch.Client, index string) *ProfileIndex {
	return &ProfileIndex{es: es, index: index}
}

func (p *ProfileIndex) enabled() bool {
	return p != nil && p.es != nil && p.index != ""
}

// Index upserts doc under its account id.
func (p *ProfileIndex) Index(ctx context.Context, doc ProfileDocument) error {
	if !p.enabled() {
		return nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: p.index, DocumentID: doc.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	res, err := req.Do(c, p.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Delete removes the document for id; a missing document is not an error.
func (p *ProfileIndex) Delete(ctx context.Context, id string) error {
	if !p.enabled() {
		return nil
	}
	req := esapi.DeleteRequest{Index: p.index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	res, err := req.Do(c, p.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search performs a multi_match search over username and names.
func (p *ProfileIndex) Search(ctx context.Context, q string, size int) ([]ProfileDocument, error) {
	if !p.enabled() {
		return []ProfileDocument{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "firstName", "lastName", "city"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := p.es.Search(p.es.Search.WithContext(c), p.es.Search.WithIndex(p.index), p.es.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source ProfileDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]ProfileDocument, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
