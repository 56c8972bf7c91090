package storefront

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dukerupert/vitrine/internal/handler"
)

// ParseSelections collects option choices from query parameters named
// option[Name], the radio input names of the product form. The first value
// wins when a parameter repeats.
func ParseSelections(query url.Values) map[string]string {
	selections := make(map[string]string)
	for key, values := range query {
		name, ok := strings.CutPrefix(key, "option[")
		if !ok {
			continue
		}
		name, ok = strings.CutSuffix(name, "]")
		if !ok || name == "" || len(values) == 0 {
			continue
		}
		selections[name] = values[0]
	}
	return selections
}

// wantsHTML reports whether the response should be a rendered page.
// JSON is the default for headless clients.
func wantsHTML(r *http.Request, renderer *handler.Renderer) bool {
	if renderer == nil || handler.AcceptsJSON(r) {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
