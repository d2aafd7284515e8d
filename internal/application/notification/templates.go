package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/pkg/config"
)

var moneyPrinter = message.NewPrinter(language.MustParse("en-CA"))

// Money formats an amount as dollars with two decimals and thousands separators ("$1,234.50").
func Money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return moneyPrinter.Sprintf("$%v", number.Decimal(f, number.Scale(2)))
}

// ShortID is the order reference shown to customers.
func ShortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

var funcs = template.FuncMap{
	"money":   Money,
	"shortID": ShortID,
	"lines":   func(s string) []string { return strings.Split(s, "\n") },
}

const layout = `{{define "header"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<div style="background-color: #16a34a; color: white; padding: 20px; text-align: center;"><h1 style="margin: 0;">{{.Farm.Name}}</h1></div>
<div style="background-color: #f9fafb; padding: 30px;">{{end}}
{{define "pickup"}}<div style="margin-top: 30px; padding: 20px; background-color: #ecfdf5; border-radius: 8px; color: #065f46;">
<h3 style="margin: 0 0 10px 0;">Farm Pickup Information</h3>
<p style="margin: 5px 0;">Location: {{.Farm.Address}}</p>
<p style="margin: 5px 0;">Hours: {{.Farm.Hours}}</p>
<p style="margin: 5px 0;">Contact: {{.Farm.Phone}}</p></div>{{end}}
{{define "footer"}}</div></div>{{end}}
{{define "items"}}<ul>{{range .Order.Items}}<li>{{.ProductName}} x{{.Quantity}} - {{money .Subtotal}}</li>{{end}}</ul>
<p><strong>Total: {{money .Order.Total}}</strong></p>{{end}}`

var templates = template.Must(template.New("mail").Funcs(funcs).Parse(layout + `
{{define "order_confirmation"}}{{template "header" .}}
<h2 style="color: #16a34a;">Hello {{.Order.CustomerName}}!</h2>
<p>Your farm pickup order is confirmed and we're already preparing your fresh produce.</p>
<h3>Order #{{shortID .Order.ID}}</h3>
{{template "items" .}}
{{template "pickup" .}}
<p style="color: #6b7280; font-size: 14px;">We'll send you another notification when your order is ready for pickup.</p>
{{template "footer" .}}{{end}}

{{define "admin_order"}}{{template "header" .}}
<h2 style="color: #16a34a;">New Farm Pickup Order</h2>
<p><strong>Order ID:</strong> {{.Order.ID}}</p>
<p><strong>Customer:</strong> {{.Order.CustomerName}}</p>
<p><strong>Email:</strong> {{.Order.CustomerEmail}}</p>
<p><strong>Phone:</strong> {{if .Order.CustomerPhone}}{{.Order.CustomerPhone}}{{else}}Not provided{{end}}</p>
{{if .Order.PickupNotes}}<p><strong>Notes:</strong> {{.Order.PickupNotes}}</p>{{end}}
{{template "items" .}}
<p>Please prepare this order for pickup and update its status in the admin panel.</p>
{{template "footer" .}}{{end}}

{{define "order_ready"}}{{template "header" .}}
<h2 style="color: #16a34a;">Hello {{.Order.CustomerName}}!</h2>
<p>Your order #{{shortID .Order.ID}} is ready for pickup.</p>
{{template "items" .}}
{{template "pickup" .}}
{{template "footer" .}}{{end}}

{{define "welcome"}}{{template "header" .}}
<h2 style="color: #16a34a;">Hello {{if .Name}}{{.Name}}{{else}}Valued Customer{{end}}!</h2>
<p>We're thrilled to have you join our farm community: fresh, locally grown produce with easy farm pickup.</p>
<p style="text-align: center;"><a href="{{.ShopURL}}" style="background-color: #16a34a; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px;">Start Shopping</a></p>
{{template "pickup" .}}
{{template "footer" .}}{{end}}

{{define "broadcast"}}{{template "header" .}}
<h2 style="color: #16a34a;">Hello {{if .Name}}{{.Name}}{{else}}Valued Customer{{end}}!</h2>
<div style="background-color: white; padding: 20px; border-radius: 8px; border-left: 4px solid #16a34a;">{{range $i, $l := lines .Message}}{{if $i}}<br>{{end}}{{$l}}{{end}}</div>
{{template "pickup" .}}
<p style="color: #6b7280; font-size: 14px;">Thank you for supporting local farming!</p>
{{template "footer" .}}{{end}}
`))

type mailData struct {
	Farm    config.FarmConfig
	Order   *entity.Order
	Name    string
	Message string
	ShopURL string
}

func render(name string, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}

func orderPlacedSMS(farm config.FarmConfig, o *entity.Order) string {
	return fmt.Sprintf("%s: Your pickup order #%s for %s is confirmed! We'll text you when it's ready. Farm pickup: %s, %s. Call %s",
		farm.Name, ShortID(o.ID), Money(o.Total), farm.Address, farm.Hours, farm.Phone)
}

func orderReadySMS(farm config.FarmConfig, o *entity.Order) string {
	return fmt.Sprintf("%s: Your order #%s is ready for pickup at %s (%s).",
		farm.Name, ShortID(o.ID), farm.Address, farm.Hours)
}

func broadcastSMS(farm config.FarmConfig, msg string) string {
	return fmt.Sprintf("%s: %s\n\nFarm Pickup: %s\nHours: %s\nCall: %s",
		farm.Name, msg, farm.Address, farm.Hours, farm.Phone)
}
