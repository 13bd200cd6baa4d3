package mockserver

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

func (s *Server) listProducts(c echo.Context) error {
	sku := c.QueryParam("sku")
	from := strings.ToUpper(c.QueryParam("shipping_from"))
	search := strings.ToLower(c.QueryParam("search"))
	category, _ := strconv.Atoi(c.QueryParam("category_id"))

	var matched []connect.Product
	for _, p := range s.products {
		switch {
		case sku != "" && p.SKU != sku:
			continue
		case from != "" && p.ShippingFrom != from:
			continue
		case category > 0 && p.CategoryID != category:
			continue
		case search != "" && !strings.Contains(strings.ToLower(p.Title), search):
			continue
		}
		matched = append(matched, p)
	}
	return writePage(c, matched, resourceEnvelope)
}

func (s *Server) listSeo(c echo.Context) error {
	sku := c.QueryParam("sku")

	var matched []connect.Seo
	for _, seo := range s.seo {
		if sku == "" || seo.SKU == sku {
			matched = append(matched, seo)
		}
	}
	return writePage(c, matched, resourceEnvelope)
}

func (s *Server) listCarriers(c echo.Context) error {
	return writePage(c, s.carriers, flatEnvelope)
}

func (s *Server) listCountries(c echo.Context) error {
	return writePage(c, s.countries, flatEnvelope)
}

func (s *Server) listLocales(c echo.Context) error {
	return writePage(c, s.locales, flatEnvelope)
}

func (s *Server) listStates(c echo.Context) error {
	country := strings.ToUpper(c.QueryParam("country_code"))

	var matched []connect.State
	for _, st := range s.states {
		if country == "" || st.CountryCode == country {
			matched = append(matched, st)
		}
	}
	return writePage(c, matched, flatEnvelope)
}

func (s *Server) listTimezones(c echo.Context) error {
	return writePage(c, s.timezones, flatEnvelope)
}
