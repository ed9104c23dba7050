package analyzer

import (
	"regexp"
	"strings"

	"apilens/internal/model"
)

const controllerToken = "[controller]"

var routeTokenRe = regexp.MustCompile(`\{([^}]+)\}`)

// ComposeRoute combines the controller base route and a method route
// template into one normalized route:
//   - the [controller] placeholder is substituted once with the controller
//     short name (Controller suffix stripped, lower-cased)
//   - a method template starting with "/" or "~/" replaces the base entirely
//   - otherwise the templates are joined with exactly one separator
//   - {token:constraint} segments are reduced to {token}
//   - the result always carries a leading slash
func ComposeRoute(ctrl *model.ControllerDescriptor, methodTemplate string) string {
	base := strings.TrimSpace(ctrl.BaseRoute)
	base = strings.ReplaceAll(base, controllerToken, ctrl.ShortName())

	method := strings.TrimSpace(methodTemplate)

	var route string
	switch {
	case strings.HasPrefix(method, "~/"):
		route = method[1:]
	case strings.HasPrefix(method, "/"):
		route = method
	case method == "":
		route = base
	case base == "":
		route = method
	default:
		route = strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(method, "/")
	}

	route = stripConstraints(route)

	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}

// stripConstraints reduces every {token:constraint=default} to {token}
func stripConstraints(route string) string {
	return routeTokenRe.ReplaceAllStringFunc(route, func(seg string) string {
		inner := seg[1 : len(seg)-1]
		if cut := strings.IndexAny(inner, ":=?"); cut >= 0 {
			inner = inner[:cut]
		}
		inner = strings.TrimSpace(inner)
		return "{" + inner + "}"
	})
}

// RouteTokens returns the {token} names of a normalized route, in order.
// These are the required path-binding names for the parameter classifier.
func RouteTokens(route string) []string {
	var tokens []string
	for _, m := range routeTokenRe.FindAllStringSubmatch(route, -1) {
		tokens = append(tokens, m[1])
	}
	return tokens
}
