package schema

import (
	"regexp"
	"strings"

	"tachikoma_config/util/yaml"

	"github.com/hashicorp/go-multierror"
)

// Route represents the way an intent is handled
type Route struct {
	// Pattern represents optional regular expression matching user queries of the intent
	Pattern string `yaml:"pattern" json:"pattern,omitempty"`

	// ConfidenceThreshold represents minimal classification confidence to take this route, from 0 to 1
	ConfidenceThreshold float64 `yaml:"confidence_threshold" json:"confidence_threshold,omitempty" jsonschema:"minimum=0,maximum=1"`

	// Skill represents name of the skill which handles the intent
	Skill string `yaml:"skill" json:"skill" jsonschema:"required"`

	Strategy    string `yaml:"strategy" json:"strategy,omitempty"`
	InvokeVia   string `yaml:"invoke_via" json:"invoke_via,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// IntentRoutes represents intent routes document
type IntentRoutes struct {
	// Routes represents intent name to route mapping
	Routes map[string]Route `yaml:"routes" json:"routes" jsonschema:"required"`

	// IntentKeywords represents intent name to keyword list mapping. Keywords are written comma separated.
	IntentKeywords map[string][]string `yaml:"intent_keywords" json:"intent_keywords,omitempty"`
}

// RouteValidator returns validator of a single route mapping
func RouteValidator() Validator[Route] {
	return ValidatorFunc[Route](func(node *yaml.Node) (Route, error) {
		return validateRoute(node, "")
	})
}

// RoutesValidator returns validator of intent routes documents.
//
// Document must have "routes" section, "intent_keywords" is optional, other top level keys are ignored.
func RoutesValidator() Validator[IntentRoutes] {
	return ValidatorFunc[IntentRoutes](validateRoutes)
}

func validateRoute(node *yaml.Node, path string) (Route, error) {
	if node == nil || node.Kind != yaml.MappingKind {
		return Route{}, ValidationError{Path: path, Reason: "route must be a mapping"}
	}

	route, err := decode[Route](node, true)
	if err != nil {
		return Route{}, ValidationError{Path: path, Reason: decodeReason(err)}
	}

	var errs *multierror.Error
	if strings.TrimSpace(route.Skill) == "" {
		errs = multierror.Append(errs, ValidationError{Path: joinPath(path, "skill"), Reason: "is required"})
	}
	if route.ConfidenceThreshold < 0 || route.ConfidenceThreshold > 1 {
		errs = multierror.Append(errs, ValidationError{
			Path:   joinPath(path, "confidence_threshold"),
			Reason: "must be between 0 and 1",
		})
	}
	if _, err := regexp.Compile(route.Pattern); err != nil {
		errs = multierror.Append(errs, ValidationError{
			Path:   joinPath(path, "pattern"),
			Reason: "is not a valid regular expression",
		})
	}

	if err := errs.ErrorOrNil(); err != nil {
		return Route{}, err
	}
	return route, nil
}

func validateRoutes(node *yaml.Node) (IntentRoutes, error) {
	if node == nil || node.Kind != yaml.MappingKind {
		return IntentRoutes{}, ValidationError{Reason: "document must be a mapping"}
	}

	var errs *multierror.Error
	out := IntentRoutes{Routes: map[string]Route{}, IntentKeywords: map[string][]string{}}

	routes, ok := node.Get("routes")
	switch {
	case !ok:
		errs = multierror.Append(errs, ValidationError{Path: "routes", Reason: "is required"})
	case routes.Kind != yaml.MappingKind:
		errs = multierror.Append(errs, ValidationError{Path: "routes", Reason: "must be a mapping"})
	default:
		for _, name := range routes.Keys {
			route, err := validateRoute(routes.Fields[name], joinPath("routes", name))
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			out.Routes[name] = route
		}
	}

	if keywords, ok := node.Get("intent_keywords"); ok {
		if keywords.Kind != yaml.MappingKind {
			errs = multierror.Append(errs, ValidationError{Path: "intent_keywords", Reason: "must be a mapping"})
		} else if decoded, err := decode[map[string][]string](keywords, true); err != nil {
			errs = multierror.Append(errs, ValidationError{Path: "intent_keywords", Reason: decodeReason(err)})
		} else {
			out.IntentKeywords = decoded
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return IntentRoutes{}, err
	}
	return out, nil
}

// DefaultRoutes returns intent routes used if no routes file is available
func DefaultRoutes() IntentRoutes {
	return IntentRoutes{
		Routes: map[string]Route{
			"debug": {
				ConfidenceThreshold: 0.7,
				Skill:               "code-agent",
				Strategy:            "systematic",
				InvokeVia:           "skill",
				Description:         "Find and fix bugs",
			},
			"research": {
				ConfidenceThreshold: 0.6,
				Skill:               "research-agent",
				Strategy:            "explore",
				InvokeVia:           "subagent",
				Description:         "Investigate a topic or a codebase",
			},
			"review": {
				ConfidenceThreshold: 0.7,
				Skill:               "review-agent",
				Strategy:            "checklist",
				InvokeVia:           "skill",
				Description:         "Review code changes",
			},
		},
		IntentKeywords: map[string][]string{
			"debug":    {"bug", "error", "fix", "crash"},
			"research": {"research", "investigate", "explain"},
			"review":   {"review", "audit"},
		},
	}
}
