package handlers

import (
	"html/template"

	"github.com/spf13/cast"

	"github.com/tmaenge-dot/mystore-admin/internal/models"
	"github.com/tmaenge-dot/mystore-admin/internal/pricing"
)

var storefrontFuncs = template.FuncMap{
	// dict "Title" x "Store" y : paramètres nommés pour un sous-template
	"dict": func(kv ...interface{}) map[string]interface{} {
		m := make(map[string]interface{}, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[cast.ToString(kv[i])] = kv[i+1]
		}
		return m
	},
	"bwp":   pricing.FormatBWP,
	"tiers": pricing.SortedTiers,
	"brand": func(s models.Store) string {
		if s.BrandColor == "" {
			return "#222"
		}
		return s.BrandColor
	},
}

// StorefrontTemplates ajoute les pages de la vitrine au jeu de templates t,
// partagé avec l'admin car gin n'en accepte qu'un par moteur
func StorefrontTemplates(t *template.Template) *template.Template {
	return template.Must(t.New("storefront").Funcs(storefrontFuncs).Parse(storefrontPages))
}

const storefrontPages = `
{{define "shop_head"}}<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1"><title>{{.Title}}</title>
<style>:root{--brand-color:{{brand .Store}}}</style><link rel="stylesheet" href="/styles.css"></head><body>{{end}}
{{define "shop_foot"}}</body></html>{{end}}

{{define "home.html"}}<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1"><title>MyStore</title><link rel="stylesheet" href="/styles.css"></head><body>
<header><h1>MyStore</h1><p>Open a store below or use the API at <code>/api/stores</code>.</p></header>
<main><ul class="stores">
{{range .Stores}}<li><a href="/stores/{{.ID}}" style="color:{{brand .}}">{{.Name}}</a> <small>{{.Description}}</small></li>
{{end}}</ul></main></body></html>{{end}}

{{define "storefront.html"}}{{template "shop_head" (dict "Title" .Store.Name "Store" .Store)}}
<header class="store-header"><div class="hero"><div class="hero-inner">
{{if .Store.Logo}}<img class="logo" src="{{.Store.Logo}}" alt="{{.Store.Name}} logo">{{end}}
<div><h1>{{.Store.Name}}</h1><p class="tag">{{.Store.Description}}</p><p><a class="brand-btn" href="#products">Shop now</a></p></div>
</div></div>
{{if .PromoOn}}<div class="promo-ribbon">{{.Promo.Text}}</div>{{end}}
</header>
<main><section id="products" class="grid">
{{range .Products}}<div class="card" data-id="{{.ID}}">
<div class="thumb">{{if .Image}}<img src="{{.Image}}" alt="{{.Name}}">{{end}}</div>
<div class="meta"><div class="name">{{.Name}}</div><div class="desc">{{.Description}}</div><div class="price">{{bwp .Price}}</div>
{{with tiers .}}<div class="bulk">{{range .}}<div class="tier">Buy {{.MinQty}}+ @ {{bwp .Price}}</div>{{end}}</div>{{end}}
</div></div>
{{else}}<p>No products yet.</p>
{{end}}</section></main>
<div class="cartbar"><a class="brand-link" href="/stores/{{.Store.ID}}/cart">View cart</a></div>
{{template "shop_foot"}}{{end}}

{{define "cart.html"}}{{template "shop_head" (dict "Title" (printf "%s - Cart" .Store.Name) "Store" .Store)}}
<header><h1>{{.Store.Name}} - Cart</h1></header>
<main>{{if .Lines}}<ul class="cart-list">
{{range .Lines}}<li>{{.Name}} x{{.Qty}} - {{bwp .LineTotal}} <small>({{bwp .Price}}/ea)</small></li>
{{end}}</ul>
<p><strong>Total: {{bwp .Total}}</strong></p>{{else}}<p>Cart is empty</p>{{end}}
<p><a href="/stores/{{.Store.ID}}">Back to store</a></p></main>
{{template "shop_foot"}}{{end}}

{{define "order.html"}}{{template "shop_head" (dict "Title" (printf "Order %s - %s" .Order.ID .Store.Name) "Store" .Store)}}
<header><h1>Thanks - Order {{.Order.ID}}</h1></header>
<main><p>Your order was placed on {{.Order.CreatedAt.Format "2006-01-02 15:04"}}.</p>
<h3>Items</h3><ul>
{{range .Order.Items}}<li>{{.Name}} - {{.Qty}} × {{bwp .Price}} = {{bwp .LineTotal}}</li>
{{end}}</ul>
<h3>Total: {{bwp .Order.Total}}</h3>
{{if .Order.Paid}}<p class="ok">Paid</p>{{end}}
<p><a href="/stores/{{.Store.ID}}">Back to store</a></p></main>
{{template "shop_foot"}}{{end}}

{{define "shop_error.html"}}<!doctype html><html lang="en"><head><meta charset="utf-8"><title>MyStore</title></head><body><h1>{{.Error}}</h1><p><a href="/">Home</a></p></body></html>{{end}}
`
