package handler

import (
	"html/template"
	"time"

	"github.com/dukerupert/vitrine/internal/domain"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"year": func() int {
			return time.Now().Year()
		},
		"formatMoney": FormatMoney,
		"optionField": func(name string) string {
			return "option[" + name + "]"
		},
		// Product descriptions are authored in the commerce backend's admin.
		"trustedHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}
}

// FormatMoney renders an amount with two decimals followed by its currency
// code. Nil renders as the empty string.
func FormatMoney(m *domain.Money) string {
	if m == nil {
		return ""
	}
	return m.Amount.StringFixed(2) + " " + m.CurrencyCode
}
