package clients

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// CatalogClient addresses collections on the catalog/sales API by path,
// e.g. "/products" or "/offers".
type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

func (cc *CatalogClient) Base() *Client { return cc.c }

func (cc *CatalogClient) List(ctx context.Context, collection, rawQuery string, headers http.Header) (*Response, error) {
	return cc.c.Fetch(ctx, http.MethodGet, collection, rawQuery, nil, headers)
}

func (cc *CatalogClient) Get(ctx context.Context, collection, id, rawQuery string, headers http.Header) (*Response, error) {
	return cc.c.Fetch(ctx, http.MethodGet, collection+"/"+url.PathEscape(id), rawQuery, nil, headers)
}

func (cc *CatalogClient) Create(ctx context.Context, collection, rawQuery string, body io.Reader, headers http.Header) (*Response, error) {
	return cc.c.Fetch(ctx, http.MethodPost, collection, rawQuery, body, headers)
}

func (cc *CatalogClient) Update(ctx context.Context, method, collection, id, rawQuery string, body io.Reader, headers http.Header) (*Response, error) {
	return cc.c.Fetch(ctx, method, collection+"/"+url.PathEscape(id), rawQuery, body, headers)
}

func (cc *CatalogClient) Delete(ctx context.Context, collection, id, rawQuery string, headers http.Header) (*Response, error) {
	return cc.c.Fetch(ctx, http.MethodDelete, collection+"/"+url.PathEscape(id), rawQuery, nil, headers)
}

// Sub posts to a sub-resource of one entity, e.g. /offers/{id}/items.
func (cc *CatalogClient) Sub(ctx context.Context, collection, id, sub, rawQuery string, body io.Reader, headers http.Header) (*Response, error) {
	return cc.c.Fetch(ctx, http.MethodPost, collection+"/"+url.PathEscape(id)+"/"+sub, rawQuery, body, headers)
}
