package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/connect-client/pkg/connect"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

// render writes v in the selected output format. table is only called for
// the table format.
func (c *cli) render(cmd *cobra.Command, v any, table func(tw *tabWriter)) error {
	w := cmd.OutOrStdout()
	switch c.output() {
	case outputJSON:
		return writeJSON(w, v)
	case outputDump:
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(w, v)
		return nil
	default:
		tw := newTabWriter(w)
		table(tw)
		return tw.finish()
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func pageFooter(tw *tabWriter, m connect.Meta) {
	if m.LastPage == 0 {
		return
	}
	tw.writef("\nPage %d of %d (%d total)\n", m.CurrentPage, m.LastPage, m.Total)
}

func resultFooter(tw *tabWriter, pages int, stoppedAt string, total int) {
	tw.writef("\n%d pages fetched, stopped at %s (%d total)\n", pages, stoppedAt, total)
}

func printDesignDetail(tw *tabWriter, d *connect.Design) {
	tw.writef("ID:\t%d\n", d.ID)
	tw.writef("SKU:\t%s\n", d.SKU)
	tw.writef("Intent:\t%s\n", d.Intent)
	tw.writef("Status:\t%s\n", d.Status)
	tw.writef("Editor User:\t%s\n", d.EditorUserHash)
	tw.writef("Editor URL:\t%s\n", dash(d.EditorStartURL))
	tw.writef("Return URL:\t%s\n", d.ReturnURL)
	tw.writef("Cancel URL:\t%s\n", d.CancelURL)
	tw.writef("Created:\t%s\n", dash(d.CreatedAt))
}

func printOrdersTable(tw *tabWriter, orders []connect.Order) {
	tw.writef("ID\tREFERENCE\tSTATUS\tITEMS\tRECIPIENT\tCREATED\n")
	for i := range orders {
		o := &orders[i]
		tw.writef("%d\t%s\t%s\t%d\t%s\t%s\n",
			o.ID,
			truncate(o.Reference, 30),
			o.Status,
			len(o.Items),
			recipientName(o.Recipient),
			dash(o.CreatedAt),
		)
	}
}

func printOrderDetail(tw *tabWriter, o *connect.Order) {
	tw.writef("ID:\t%d\n", o.ID)
	tw.writef("Reference:\t%s\n", o.Reference)
	tw.writef("Status:\t%s\n", o.Status)
	tw.writef("Recipient:\t%s\n", recipientName(o.Recipient))
	if o.Recipient != nil {
		tw.writef("Address:\t%s, %s %s, %s\n", o.Recipient.Street, o.Recipient.Zip, o.Recipient.City, o.Recipient.CountryCode)
	}
	tw.writef("Fake Preflight:\t%v\n", o.FakePreflight)
	tw.writef("Fake Shipment:\t%v\n", o.FakeShipment)
	tw.writef("Created:\t%s\n", dash(o.CreatedAt))
	if len(o.Items) == 0 {
		return
	}
	tw.writef("\nITEM\tSKU\tQTY\tREFERENCE\tRELATION\n")
	for i := range o.Items {
		it := &o.Items[i]
		relation := "-"
		if it.Relation != nil {
			relation = strconv.Itoa(it.Relation.OrderItemID)
		}
		tw.writef("%d\t%s\t%d\t%s\t%s\n", it.ID, it.SKU, it.Quantity, dash(it.Reference), relation)
	}
}

func printOrderItem(tw *tabWriter, it *connect.OrderItem) {
	tw.writef("ID:\t%d\n", it.ID)
	tw.writef("Order:\t%d\n", it.OrderID)
	tw.writef("SKU:\t%s\n", it.SKU)
	tw.writef("Quantity:\t%d\n", it.Quantity)
}

func printExportsTable(tw *tabWriter, exports []connect.ProductExport) {
	tw.writef("ID\tTEMPLATE\tFORMAT\tSTATUS\tDOWNLOAD\tCREATED\n")
	for i := range exports {
		e := &exports[i]
		tw.writef("%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			templateRef(e.TemplateID, e.TemplateKey),
			e.Format,
			e.Status,
			dash(truncate(e.DownloadURL, 50)),
			dash(e.CreatedAt),
		)
	}
}

func printExportDetail(tw *tabWriter, e *connect.ProductExport) {
	tw.writef("ID:\t%d\n", e.ID)
	tw.writef("Template:\t%s\n", templateRef(e.TemplateID, e.TemplateKey))
	tw.writef("Format:\t%s\n", e.Format)
	tw.writef("Status:\t%s\n", e.Status)
	tw.writef("Download:\t%s\n", dash(e.DownloadURL))
	tw.writef("Created:\t%s\n", dash(e.CreatedAt))
	tw.writef("Updated:\t%s\n", dash(e.UpdatedAt))
}

func printImportsTable(tw *tabWriter, imports []connect.ProductImport) {
	tw.writef("ID\tTEMPLATE\tSTATUS\tDRY RUN\tINPUT\tCREATED\n")
	for i := range imports {
		im := &imports[i]
		input := "-"
		if im.Input != nil {
			input = truncate(im.Input.URL, 40)
		}
		tw.writef("%d\t%s\t%s\t%v\t%s\t%s\n",
			im.ID,
			templateRef(im.TemplateID, im.TemplateKey),
			im.Status,
			im.DryRun,
			input,
			dash(im.CreatedAt),
		)
	}
}

func printImportDetail(tw *tabWriter, im *connect.ProductImport) {
	tw.writef("ID:\t%d\n", im.ID)
	tw.writef("Template:\t%s\n", templateRef(im.TemplateID, im.TemplateKey))
	tw.writef("Status:\t%s\n", im.Status)
	tw.writef("Dry Run:\t%v\n", im.DryRun)
	if im.Input != nil {
		tw.writef("Input:\t%s (%s)\n", im.Input.URL, im.Input.Format)
	}
	if im.DateExecute != nil && !im.DateExecute.IsZero() {
		tw.writef("Execute At:\t%s\n", im.DateExecute.Format(connect.QueryLayout))
	}
	tw.writef("Created:\t%s\n", dash(im.CreatedAt))
	tw.writef("Updated:\t%s\n", dash(im.UpdatedAt))
}

func printProductsTable(tw *tabWriter, products []connect.Product) {
	tw.writef("ID\tSKU\tTITLE\tTYPE\tCATEGORY\tSHIPS FROM\n")
	for i := range products {
		p := &products[i]
		tw.writef("%d\t%s\t%s\t%s\t%d\t%s\n",
			p.ID,
			p.SKU,
			truncate(p.Title, 40),
			p.Type,
			p.CategoryID,
			dash(p.ShippingFrom),
		)
	}
}

func printSeoTable(tw *tabWriter, seo []connect.Seo) {
	tw.writef("SKU\tLANG\tTITLE\tDESCRIPTION\n")
	for i := range seo {
		tw.writef("%s\t%s\t%s\t%s\n",
			seo[i].SKU,
			dash(seo[i].Lang),
			truncate(seo[i].MetaTitle, 40),
			truncate(seo[i].MetaDescription, 50),
		)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func templateRef(id *int, key string) string {
	if id != nil {
		return strconv.Itoa(*id)
	}
	return dash(key)
}

func recipientName(a *connect.Address) string {
	if a == nil {
		return "-"
	}
	name := a.Firstname
	if a.Lastname != "" {
		if name != "" {
			name += " "
		}
		name += a.Lastname
	}
	if name == "" {
		name = a.Company
	}
	return dash(name)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
