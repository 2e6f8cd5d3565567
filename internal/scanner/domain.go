package scanner

import (
	"net"
	"strings"
)

// secondLevelLabels are labels that indicate a second-level registration
// scheme (example.co.uk style), in which case the base domain spans the
// last three labels instead of two.
var secondLevelLabels = map[string]bool{
	"co":  true,
	"com": true,
	"gov": true,
	"org": true,
	"net": true,
	"ac":  true,
	"edu": true,
}

// DomainInfo is the scoping context for subdomain validation. The zero
// value means "no scoping possible" (IP literal, empty host): subdomain
// findings are then rejected outright — fail closed.
type DomainInfo struct {
	// Hostname is the full host of the page under scan.
	Hostname string

	// BaseDomain is the registrable root derived from Hostname.
	BaseDomain string
}

// ComputeDomainInfo derives the scoping context from a hostname.
// Hostnames with at most two labels are their own base domain; longer
// ones keep the last two labels, or three when the second-to-last label
// is a known second-level indicator (handling example.co.uk).
func ComputeDomainInfo(hostname string) DomainInfo {
	hostname = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(hostname), "."))
	if hostname == "" || net.ParseIP(hostname) != nil {
		return DomainInfo{}
	}

	labels := strings.Split(hostname, ".")
	if len(labels) <= 2 {
		return DomainInfo{Hostname: hostname, BaseDomain: hostname}
	}

	keep := 2
	if secondLevelLabels[labels[len(labels)-2]] {
		keep = 3
	}
	base := strings.Join(labels[len(labels)-keep:], ".")

	return DomainInfo{Hostname: hostname, BaseDomain: base}
}

// Valid reports whether scoping information is available.
func (d DomainInfo) Valid() bool {
	return d.Hostname != "" && d.BaseDomain != ""
}

// InScope reports whether value is the current hostname, the base
// domain, or a subdomain of either. Without scoping information every
// value is out of scope.
func (d DomainInfo) InScope(value string) bool {
	if !d.Valid() {
		return false
	}

	value = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(value), "."))
	if value == "" {
		return false
	}

	if value == d.Hostname || value == d.BaseDomain {
		return true
	}
	return strings.HasSuffix(value, "."+d.BaseDomain)
}
