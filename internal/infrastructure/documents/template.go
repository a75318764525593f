package documents

import (
	"bytes"
	"cargo_quotes/internal/domain/entities"
	"html/template"
	"time"
)

var quotationTemplate = template.Must(template.New("quotation").Funcs(template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.UTC().Format("2006-01-02")
	},
	"address": func(a entities.Address) string {
		out := a.Line1
		for _, part := range []string{a.Line2, a.City, a.State, a.PostalCode, a.Country} {
			if part == "" {
				continue
			}
			if out != "" {
				out += ", "
			}
			out += part
		}
		return out
	},
}).Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.QuotationNumber}}</title>
<style>
body { font-family: sans-serif; font-size: 12px; margin: 32px; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
th, td { border-bottom: 1px solid #ddd; padding: 6px; text-align: left; }
td.num, th.num { text-align: right; }
.totals td { border: none; }
</style>
</head>
<body>
<h1>Quotation {{.QuotationNumber}}</h1>
<p>Revision {{.RevisionNumber}} &middot; valid until {{date .ValidUntil}}</p>
<p><strong>From:</strong> {{address .Origin}}<br>
<strong>To:</strong> {{address .Destination}}<br>
<strong>Cargo:</strong> {{.CargoType}} ({{.ServiceType}}, {{.HandoverMethod}})</p>
<table>
<thead><tr><th>Description</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Amount</th></tr></thead>
<tbody>
{{- range .Items}}
<tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice.StringFixed 2}}</td><td class="num">{{.Amount.StringFixed 2}}</td></tr>
{{- end}}
</tbody>
</table>
<table class="totals">
<tr><td class="num">Subtotal</td><td class="num">{{.Subtotal.StringFixed 2}} {{.Currency}}</td></tr>
<tr><td class="num">Tax ({{.TaxRate.String}}%)</td><td class="num">{{.Tax.StringFixed 2}} {{.Currency}}</td></tr>
<tr><td class="num">Discount</td><td class="num">-{{.Discount.StringFixed 2}} {{.Currency}}</td></tr>
<tr><td class="num"><strong>Total</strong></td><td class="num"><strong>{{.TotalAmount.StringFixed 2}} {{.Currency}}</strong></td></tr>
</table>
</body>
</html>
`))

// RenderQuotationHTML renders the printable quotation page.
func RenderQuotationHTML(q entities.Quotation) ([]byte, error) {
	var buf bytes.Buffer
	if err := quotationTemplate.Execute(&buf, q); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
