package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/storecraft/commerce/internal/domain"
)

// StoreDirectory resolves store references for store-scoped customers and
// customer-store links. Stores belong to the catalog service, so identity
// only ever reads them.
type StoreDirectory interface {
	FindStore(ctx context.Context, id string) (*domain.Store, error)
}

// CatalogDirectory is a StoreDirectory backed by the catalog service's HTTP
// API.
type CatalogDirectory struct {
	baseURL string
	client  *http.Client
}

func NewCatalogDirectory(baseURL string, client *http.Client) *CatalogDirectory {
	return &CatalogDirectory{baseURL: baseURL, client: client}
}

func (d *CatalogDirectory) FindStore(ctx context.Context, id string) (*domain.Store, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/stores/"+id, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch store %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog service returned status %d for store %s", resp.StatusCode, id)
	}

	var store domain.Store
	if err := json.NewDecoder(resp.Body).Decode(&store); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", id, err)
	}
	return &store, nil
}
