package scanner

import "testing"

// TestComputeDomainInfo tests base-domain derivation.
func TestComputeDomainInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hostname string
		want     DomainInfo
	}{
		{name: "two labels", hostname: "example.com", want: DomainInfo{Hostname: "example.com", BaseDomain: "example.com"}},
		{name: "single label", hostname: "localhost", want: DomainInfo{Hostname: "localhost", BaseDomain: "localhost"}},
		{name: "three labels", hostname: "app.example.com", want: DomainInfo{Hostname: "app.example.com", BaseDomain: "example.com"}},
		{name: "deep subdomain", hostname: "a.b.c.example.com", want: DomainInfo{Hostname: "a.b.c.example.com", BaseDomain: "example.com"}},
		{name: "second level domain", hostname: "www.example.co.uk", want: DomainInfo{Hostname: "www.example.co.uk", BaseDomain: "example.co.uk"}},
		{name: "ac second level", hostname: "dept.uni.ac.jp", want: DomainInfo{Hostname: "dept.uni.ac.jp", BaseDomain: "uni.ac.jp"}},
		{name: "uppercase normalized", hostname: "APP.Example.COM", want: DomainInfo{Hostname: "app.example.com", BaseDomain: "example.com"}},
		{name: "ipv4 literal", hostname: "192.168.1.10", want: DomainInfo{}},
		{name: "ipv6 literal", hostname: "::1", want: DomainInfo{}},
		{name: "empty", hostname: "", want: DomainInfo{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ComputeDomainInfo(tt.hostname); got != tt.want {
				t.Errorf("ComputeDomainInfo(%q) = %+v, want %+v", tt.hostname, got, tt.want)
			}
		})
	}
}

// TestDomainInfoInScope tests subdomain scoping decisions.
func TestDomainInfoInScope(t *testing.T) {
	t.Parallel()

	info := ComputeDomainInfo("app.example.com")

	accepts := []string{"app.example.com", "example.com", "api.example.com", "deep.api.example.com", "API.Example.com"}
	for _, v := range accepts {
		if !info.InScope(v) {
			t.Errorf("InScope(%q) = false, want true", v)
		}
	}

	rejects := []string{"api.other.com", "notexample.com", "example.com.evil.io", "", "com"}
	for _, v := range rejects {
		if info.InScope(v) {
			t.Errorf("InScope(%q) = true, want false", v)
		}
	}

	t.Run("no scoping fails closed", func(t *testing.T) {
		t.Parallel()
		none := ComputeDomainInfo("127.0.0.1")
		if none.InScope("api.example.com") {
			t.Error("IP-scoped scan accepted a subdomain finding")
		}
		if none.Valid() {
			t.Error("Valid() = true for IP literal")
		}
	})
}
