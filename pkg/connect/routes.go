package connect

import (
	"fmt"
	"net/url"
)

// Routes relative to Config.EndpointURL.
const (
	routeStatus    = "/status"
	routeDownloads = "/downloads"

	routeDesigns          = "/designs"
	routeDesignEditorUser = "/designs/create-user"

	routeOrders = "/orders"

	routeProductExports = "/product-feeds/export"
	routeProductImports = "/product-feeds/import"

	routeProducts   = "/products"
	routeProductSeo = "/products/seo"

	routeCarriers  = "/carriers"
	routeCountries = "/countries"
	routeLocales   = "/locales"
	routeStates    = "/states"
	routeTimezones = "/timezones"
)

// member returns "<collection>/<id>[/<action>]".
func member(collection string, id int, action ...string) string {
	p := fmt.Sprintf("%s/%d", collection, id)
	for _, a := range action {
		p += "/" + a
	}
	return p
}

func downloadPath(identifier string) string {
	return routeDownloads + "/" + url.PathEscape(identifier)
}
