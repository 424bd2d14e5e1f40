package sites

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config describes how one site behaves during negotiation. Zero values mean
// the corresponding barrier state is skipped.
type Config struct {
	// Type is a short descriptive tag for logs and reports.
	Type string `json:"type"`

	// RequiresAccount enables the account-gate step.
	RequiresAccount bool `json:"requires_account,omitempty"`
	// EmailField is the identifier of the signup email input, when known.
	EmailField string `json:"email_field,omitempty"`

	// ApplyButtonRequired forces the apply-gate step even when a form seems
	// reachable directly.
	ApplyButtonRequired bool `json:"apply_button_required,omitempty"`

	// HasCookies marks sites known to present a consent banner.
	HasCookies bool `json:"has_cookies,omitempty"`
	// CookieButtonText is the exact consent button wording, when known.
	CookieButtonText string `json:"cookie_button_text,omitempty"`

	// SpecificFields maps question fragments to fixed answers for this site.
	SpecificFields map[string]string `json:"specific_fields,omitempty"`

	// LegitimateRedirects lists domains this site may legitimately hand the
	// browser off to.
	LegitimateRedirects []string `json:"legitimate_redirects,omitempty"`
}

// builtin carries configurations for employers the tool has been run against.
// Keys are domain fragments matched against the candidate URL host.
var builtin = map[string]Config{
	"greenhouse.io": {
		Type: "greenhouse",
	},
	"lever.co": {
		Type: "lever",
	},
	"citadel.com": {
		Type:                "career_site",
		RequiresAccount:     true,
		ApplyButtonRequired: true,
		EmailField:          "email",
		HasCookies:          true,
		CookieButtonText:    "Accept All Cookies",
		LegitimateRedirects: []string{"careers.citadel.com", "jobs.citadel.com"},
	},
	"revolut.com": {
		Type:             "career_portal",
		HasCookies:       true,
		CookieButtonText: "Accept All Cookies",
		SpecificFields: map[string]string{
			"pronouns":           "He/him",
			"previous employee":  "No",
			"transcript consent": "Yes, I consent",
		},
		LegitimateRedirects: []string{"app.revolut.com", "jobs.revolut.com", "careers.revolut.com"},
	},
	"helsing.ai": {
		Type:                "direct_form",
		LegitimateRedirects: []string{"jobs.helsing.ai", "careers.helsing.ai"},
	},
	"davincitrading.com": {
		Type:                "career_site",
		RequiresAccount:     true,
		ApplyButtonRequired: true,
		EmailField:          "email",
		HasCookies:          true,
		LegitimateRedirects: []string{"careers.davincitrading.com", "jobs.davincitrading.com"},
	},
	"squarepoint-capital.com": {
		Type:                "career_site",
		RequiresAccount:     true,
		ApplyButtonRequired: true,
		HasCookies:          true,
		CookieButtonText:    "I agree to all cookie use",
	},
	"temasek.com.sg": {
		Type:                "career_site",
		RequiresAccount:     true,
		ApplyButtonRequired: true,
		EmailField:          "email",
		HasCookies:          true,
		CookieButtonText:    "Accept",
	},
}

// defaultConfig is used for sites with no matching record. Every optional
// barrier is attempted best-effort.
var defaultConfig = Config{Type: "unknown"}

// Registry resolves per-site configurations, combining built-in records with
// any overrides loaded from a config file.
type Registry struct {
	overrides map[string]Config
}

// NewRegistry returns a registry with only the built-in records.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewRegistryFromFile loads an override file, validates it against the
// embedded schema, and layers it over the built-in records.
func NewRegistryFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config file %s: %w", path, err)
	}

	if err := validateConfigJSON(data); err != nil {
		return nil, err
	}

	var overrides map[string]Config
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse site config JSON: %w", err)
	}
	return &Registry{overrides: overrides}, nil
}

// Lookup returns the configuration for a candidate URL. Override records win
// over built-ins; unmatched URLs get the default configuration.
func (r *Registry) Lookup(rawURL string) Config {
	host := hostOf(rawURL)
	if host == "" {
		return defaultConfig
	}

	for fragment, cfg := range r.overrides {
		if strings.Contains(host, strings.ToLower(fragment)) {
			return cfg
		}
	}
	for fragment, cfg := range builtin {
		if strings.Contains(host, strings.ToLower(fragment)) {
			return cfg
		}
	}
	return defaultConfig
}

// RedirectAllowed reports whether a cross-domain redirect from the requested
// domain to the resolved domain is a known legitimate hand-off.
func (r *Registry) RedirectAllowed(fromDomain, toDomain string) bool {
	from := strings.ToLower(fromDomain)
	to := strings.ToLower(toDomain)
	if from == to {
		return true
	}

	cfg := r.Lookup("https://" + from)
	for _, allowed := range cfg.LegitimateRedirects {
		if strings.Contains(to, strings.ToLower(allowed)) {
			return true
		}
	}

	// Subdomain moves within the same registrable domain are always fine:
	// example.com -> careers.example.com.
	if strings.HasSuffix(to, "."+from) || strings.HasSuffix(from, "."+to) {
		return true
	}
	return false
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(parsed.Host)
}
