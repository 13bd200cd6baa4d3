package mockserver

import (
	"fmt"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

// previewPDF is a minimal single-page PDF.
var previewPDF = []byte("%PDF-1.4\n" +
	"1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj\n" +
	"2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj\n" +
	"3 0 obj<</Type/Page/Parent 2 0 R/MediaBox[0 0 595 842]>>endobj\n" +
	"trailer<</Root 1 0 R>>\n%%EOF\n")

// seed fills the read-only catalogue and lookup lists.
func seed(s *Server) {
	origins := []string{"DE", "DE", "NL", "DE", "AT", "DE", "DE", "PL", "DE", "DE", "NL", "DE"}
	for i, from := range origins {
		sku := fmt.Sprintf("MP-F1%04d-C%07d", i+1, i+1)
		s.products = append(s.products, connect.Product{
			ID:           i + 1,
			SKU:          sku,
			Title:        fmt.Sprintf("Promo product %d", i+1),
			Type:         connect.ProductTypePhysical,
			CategoryID:   1 + i%3,
			ShippingFrom: from,
			Currency:     "EUR",
		})
		s.seo = append(s.seo, connect.Seo{
			SKU:             sku,
			Lang:            "DE",
			MetaTitle:       fmt.Sprintf("Promo product %d", i+1),
			MetaDescription: "Printed on demand.",
		})
	}

	s.carriers = []connect.Carrier{
		{ID: 1, Name: "DHL", Code: "dhl"},
		{ID: 2, Name: "DPD", Code: "dpd"},
		{ID: 3, Name: "GLS", Code: "gls"},
		{ID: 4, Name: "UPS", Code: "ups"},
		{ID: 5, Name: "Deutsche Post", Code: "deutsche_post"},
		{ID: 6, Name: "PostNL", Code: "postnl"},
		{ID: 7, Name: "FedEx", Code: "fedex"},
	}
	s.countries = []connect.Country{
		{ID: 1, Code: "AT", Name: "Austria"},
		{ID: 2, Code: "BE", Name: "Belgium"},
		{ID: 3, Code: "CH", Name: "Switzerland"},
		{ID: 4, Code: "DE", Name: "Germany"},
		{ID: 5, Code: "FR", Name: "France"},
		{ID: 6, Code: "NL", Name: "Netherlands"},
		{ID: 7, Code: "PL", Name: "Poland"},
	}
	s.locales = []connect.Locale{
		{ID: 1, Code: "de_DE", Name: "German (Germany)"},
		{ID: 2, Code: "en_GB", Name: "English (United Kingdom)"},
		{ID: 3, Code: "en_US", Name: "English (United States)"},
		{ID: 4, Code: "fr_FR", Name: "French (France)"},
		{ID: 5, Code: "nl_NL", Name: "Dutch (Netherlands)"},
		{ID: 6, Code: "pl_PL", Name: "Polish (Poland)"},
	}
	s.states = []connect.State{
		{ID: 1, Code: "BW", Name: "Baden-Württemberg", CountryCode: "DE"},
		{ID: 2, Code: "BY", Name: "Bayern", CountryCode: "DE"},
		{ID: 3, Code: "BE", Name: "Berlin", CountryCode: "DE"},
		{ID: 4, Code: "HH", Name: "Hamburg", CountryCode: "DE"},
		{ID: 5, Code: "NW", Name: "Nordrhein-Westfalen", CountryCode: "DE"},
		{ID: 6, Code: "SN", Name: "Sachsen", CountryCode: "DE"},
		{ID: 7, Code: "W", Name: "Wien", CountryCode: "AT"},
		{ID: 8, Code: "T", Name: "Tirol", CountryCode: "AT"},
	}
	s.timezones = []connect.Timezone{
		{ID: 1, Name: "Europe/Amsterdam", Offset: "+01:00"},
		{ID: 2, Name: "Europe/Berlin", Offset: "+01:00"},
		{ID: 3, Name: "Europe/London", Offset: "+00:00"},
		{ID: 4, Name: "Europe/Vienna", Offset: "+01:00"},
		{ID: 5, Name: "Europe/Warsaw", Offset: "+01:00"},
		{ID: 6, Name: "UTC", Offset: "+00:00"},
	}
}
