package connect

import "context"

// ProductRepository reads the product catalogue.
type ProductRepository struct {
	c *Client
}

// NewProductRepository returns a ProductRepository bound to c.
func NewProductRepository(c *Client) *ProductRepository {
	return &ProductRepository{c: c}
}

// All lists products matching opts.
func (r *ProductRepository) All(ctx context.Context, opts ProductOptions) (*Page[Product], error) {
	return listPage[Product](ctx, r.c, ResourceProduct, "products.all", routeProducts, opts)
}

// GetSeo lists SEO metadata for products matching opts.
func (r *ProductRepository) GetSeo(ctx context.Context, opts SeoOptions) (*Page[Seo], error) {
	return listPage[Seo](ctx, r.c, ResourceProduct, "products.seo", routeProductSeo, opts)
}
