package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/storecraft/commerce/internal/domain"
)

// Directory resolves the aggregates an order references. Stores and products
// live in the catalog service, users in the identity service; the order
// service only ever reads them.
type Directory interface {
	FindStore(ctx context.Context, id string) (*domain.Store, error)
	FindProduct(ctx context.Context, id string) (*domain.Product, error)
	FindUser(ctx context.Context, id string) (*domain.User, error)
}

// HTTPDirectory is a Directory backed by the catalog and identity HTTP APIs.
type HTTPDirectory struct {
	catalogURL  string
	identityURL string
	client      *http.Client
}

func NewHTTPDirectory(catalogURL, identityURL string, client *http.Client) *HTTPDirectory {
	return &HTTPDirectory{
		catalogURL:  catalogURL,
		identityURL: identityURL,
		client:      client,
	}
}

func (d *HTTPDirectory) FindStore(ctx context.Context, id string) (*domain.Store, error) {
	var store domain.Store
	if err := d.get(ctx, d.catalogURL+"/stores/"+id, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (d *HTTPDirectory) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := d.get(ctx, d.catalogURL+"/products/"+id, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (d *HTTPDirectory) FindUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := d.get(ctx, d.identityURL+"/users/"+id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *HTTPDirectory) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned status %d for %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
