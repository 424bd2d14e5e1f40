// Package sites holds per-site behavior configuration: which barriers apply,
// which locator vocabularies to prefer, and which cross-domain redirects are
// legitimate. Heterogeneous site behavior is expressed as configuration
// records rather than per-site code paths.
package sites

import (
	"net/url"
	"strings"
)

// Platform represents a known applicant-tracking-system platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the ATS platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	if strings.Contains(host, "greenhouse.io") {
		return PlatformGreenhouse
	}
	if strings.Contains(host, "lever.co") {
		return PlatformLever
	}
	if strings.Contains(host, "workday.com") ||
		strings.Contains(host, "myworkdayjobs.com") {
		return PlatformWorkday
	}
	return PlatformUnknown
}

// TitleSelectors returns job-title locators for a platform, most specific
// first. Generic fallbacks are always appended.
func TitleSelectors(platform Platform) []string {
	var specific []string
	switch platform {
	case PlatformGreenhouse:
		specific = []string{".app-title", ".job__title h1"}
	case PlatformLever:
		specific = []string{".posting-headline h2"}
	case PlatformWorkday:
		specific = []string{"[data-automation-id='jobPostingHeader']"}
	}
	return append(specific,
		"h1",
		".job-title",
		"#job-title",
		"[data-qa*='title']",
		".title",
		"h2",
	)
}

// DescriptionSelectors returns job-description locators for a platform, most
// specific first.
func DescriptionSelectors(platform Platform) []string {
	var specific []string
	switch platform {
	case PlatformGreenhouse:
		specific = []string{".job__description.body", ".job__description", "#content"}
	case PlatformLever:
		specific = []string{".posting-description", ".section-wrapper.page-full-width"}
	case PlatformWorkday:
		specific = []string{"[data-automation-id='jobDescription']", ".gwt-HTML"}
	}
	return append(specific,
		".job-description",
		"#job-description",
		"[data-qa*='description']",
		".description",
		".job-detail",
		".job-content",
		".content",
		"main",
	)
}
