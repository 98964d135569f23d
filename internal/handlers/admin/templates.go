package admin

import (
	"encoding/json"
	"html/template"
)

var funcs = template.FuncMap{
	"json": func(v interface{}) string {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return ""
		}
		return string(b)
	},
	"money": func(v float64) string {
		return formatMoney(v)
	},
}

// Templates renvoie les pages HTML de l'admin, à passer à gin.Engine.SetHTMLTemplate
func Templates() *template.Template {
	return template.Must(template.New("admin").Funcs(funcs).Parse(pages))
}

const pages = `
{{define "head"}}<!doctype html><html><head><meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1"><title>{{.}}</title><link rel="stylesheet" href="/styles.css"></head><body><header><h1>{{.}}</h1></header><main class="admin">{{end}}
{{define "foot"}}</main></body></html>{{end}}

{{define "login.html"}}{{template "head" "Admin login"}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/admin/login">
<input type="hidden" name="_csrf" value="{{.CSRF}}">
<label>User <input name="user" autocomplete="username"></label><br>
<label>Password <input name="pass" type="password" autocomplete="current-password"></label><br>
<button type="submit">Login</button>
</form>
{{template "foot"}}{{end}}

{{define "dashboard.html"}}{{template "head" "Admin Dashboard"}}
<nav><a href="/admin/audit">Audit Log</a> · <a href="/admin/logout">Logout</a></nav>
<table><thead><tr><th>Store</th><th>Preferred by</th><th></th></tr></thead><tbody>
{{range .Stores}}<tr><td><a href="/admin/stores/{{.Store.ID}}">{{.Store.Name}}</a></td><td>{{.Preferred}}</td><td><a href="/admin/stores/{{.Store.ID}}/branding">Branding</a></td></tr>{{end}}
</tbody></table>
{{template "foot"}}{{end}}

{{define "store.html"}}{{template "head" (printf "Admin - %s" .Store.Name)}}
<section><h2>Cart</h2><pre>{{json .Cart}}</pre>
<form method="post" action="/admin/stores/{{.Store.ID}}/cart/delete"><input type="hidden" name="_csrf" value="{{.CSRF}}"><button type="submit">Clear Cart</button></form></section>
<section><h2>Orders</h2><table><thead><tr><th>Order</th><th>Created</th><th>Total</th><th>Action</th></tr></thead><tbody>
{{range .Orders}}<tr><td>{{.ID}}</td><td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td><td>{{money .Total}}</td><td><form method="post" action="/admin/stores/{{$.Store.ID}}/orders/{{.ID}}/delete"><input type="hidden" name="_csrf" value="{{$.CSRF}}"><button type="submit">Delete</button></form></td></tr>{{end}}
</tbody></table></section>
<section><h2>Promo / Ribbon</h2><form method="post" action="/admin/stores/{{.Store.ID}}/promo"><input type="hidden" name="_csrf" value="{{.CSRF}}">
<label><input type="checkbox" name="enabled" {{if .Promo.Enabled}}checked{{end}}> Enabled</label><br>
<label>Text <input name="text" value="{{.Promo.Text}}"></label><br>
<label>Starts At <input name="startsAt" type="datetime-local" value="{{if .Promo.StartsAt}}{{.Promo.StartsAt}}{{end}}"></label><br>
<label>Ends At <input name="endsAt" type="datetime-local" value="{{if .Promo.EndsAt}}{{.Promo.EndsAt}}{{end}}"></label><br>
<button type="submit">Save Promo</button></form></section>
<section><h2>Product images</h2><form method="post" action="/admin/stores/{{.Store.ID}}/upload" enctype="multipart/form-data"><input type="hidden" name="_csrf" value="{{.CSRF}}">
<label>Product <select name="productId">{{range .Products}}<option value="{{.ID}}">{{.Name}} ({{.ID}})</option>{{end}}</select></label><br>
<label>Image URL <input name="imageUrl" placeholder="/images/your-image.svg or https://..."></label><br>
<label>Or upload file <input type="file" name="imageFile" accept="image/svg+xml,image/png,image/jpeg,image/gif"></label><br>
<button type="submit">Set Image</button></form></section>
{{if .Images}}<section><h3>Existing images</h3><ul>
{{range .Images}}<li>{{.ProductID}}: <a href="{{.Ref}}">{{.Ref}}</a> <form method="post" action="/admin/stores/{{$.Store.ID}}/images/{{.ProductID}}/delete" style="display:inline"><input type="hidden" name="_csrf" value="{{$.CSRF}}"><button type="submit">Remove</button></form></li>{{end}}
</ul></section>{{end}}
<p><a href="/admin/stores/{{.Store.ID}}/branding">Branding</a> · <a href="/admin">Back</a></p>
{{template "foot"}}{{end}}

{{define "branding.html"}}{{template "head" (printf "Branding - %s" .Store.Name)}}
{{if .OK}}<p class="ok">Branding saved.</p>{{end}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/admin/stores/{{.Store.ID}}/branding" enctype="multipart/form-data"><input type="hidden" name="_csrf" value="{{.CSRF}}">
<label>Brand color <input name="brandColor" value="{{.Store.BrandColor}}" pattern="#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})"></label><br>
<label>Text color <input name="textColor" value="{{.Store.TextColor}}"></label><br>
<label>Logo URL <input name="logo" value="{{.Store.Logo}}"></label><br>
<label>Or upload logo <input type="file" name="logoFile" accept="image/svg+xml,image/png,image/jpeg,image/gif"></label><br>
<button type="submit">Save Branding</button></form>
<p><a href="/admin/stores/{{.Store.ID}}">Back</a></p>
{{template "foot"}}{{end}}

{{define "audit.html"}}{{template "head" "Audit Log"}}
{{if not .Entries}}<p>Audit log empty</p>{{end}}
<table><thead><tr><th>When</th><th>User</th><th>Action</th><th>Store</th><th>Detail</th></tr></thead><tbody>
{{range .Entries}}<tr><td>{{.TS.Format "2006-01-02 15:04:05"}}</td><td>{{.User}}</td><td>{{.Action}}</td><td>{{.Store}}</td><td><pre>{{json .Details}}</pre></td></tr>{{end}}
</tbody></table>
<p><a href="/admin">Back</a></p>
{{template "foot"}}{{end}}

{{define "error.html"}}{{template "head" "Admin"}}<p class="error">{{.Error}}</p><p><a href="/admin">Back</a></p>{{template "foot"}}{{end}}
`
