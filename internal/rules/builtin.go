package rules

import "github.com/jsrecon/jsrecon/internal/model"

// builtinRules holds the fixed pattern tables for categories that do not
// depend on user configuration. Secret rules live in defaultSecretRules
// because users can extend and exclude them.
var builtinRules = map[model.Category][]Descriptor{
	model.CategorySubdomains: {
		{
			ID:     "hostname",
			Source: `\b(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}\b`,
			Flags:  "i",
		},
	},
	model.CategoryEndpoints: {
		{
			ID:     "quoted_path",
			Source: `["'` + "`" + `](/(?:[a-zA-Z0-9_.~:/?#\[\]@!$&()*+,;=-]|%[0-9a-fA-F]{2})*)["'` + "`" + `]`,
			Group:  1,
		},
		{
			ID:     "api_path",
			Source: `["'` + "`" + `]((?:\.\.?)?/api/[a-zA-Z0-9_./-]+)`,
			Group:  1,
		},
	},
	model.CategorySourceMaps: {
		{
			ID:     "source_mapping_url",
			Source: `//[#@]\s*sourceMappingURL=([^\s'"*]+)`,
			Group:  1,
		},
		{
			ID:     "map_reference",
			Source: `["']([a-zA-Z0-9_./-]+\.(?:js|css)\.map)["']`,
			Group:  1,
		},
	},
	model.CategoryJSLibraries: {
		{
			ID:     "library_script",
			Source: `([a-zA-Z][a-zA-Z0-9._-]*?)(?:[.-]([0-9]+(?:\.[0-9]+)+))?(?:\.min)?\.js\b`,
			Flags:  "i",
			Group:  0,
		},
	},
	model.CategoryDOMXSSSinks: {
		{ID: "sink_innerhtml", Source: `[\w\])]\.innerHTML\s*[+]?=`},
		{ID: "sink_outerhtml", Source: `[\w\])]\.outerHTML\s*[+]?=`},
		{ID: "sink_document_write", Source: `document\.write(?:ln)?\s*\(`},
		{ID: "sink_insert_adjacent_html", Source: `\.insertAdjacentHTML\s*\(`},
		{ID: "sink_eval", Source: `\beval\s*\(`},
		{ID: "sink_function_constructor", Source: `new\s+Function\s*\(`},
		{ID: "sink_settimeout_string", Source: `set(?:Timeout|Interval)\s*\(\s*["']`},
		{ID: "sink_location_assign", Source: `(?:location\.href|location\.assign\s*\(|location\.replace\s*\()`},
		{ID: "sink_srcdoc", Source: `\.srcdoc\s*=`},
	},
	model.CategoryNPMPackages: {
		{
			ID:     "require_call",
			Source: `require\(\s*["'](@?[a-z0-9][a-z0-9._-]*(?:/[a-z0-9][a-z0-9._-]*)?)["']\s*\)`,
			Group:  1,
		},
		{
			ID:     "import_from",
			Source: `(?:import|export)[^;'"\n]*?from\s+["'](@?[a-z0-9][a-z0-9._-]*(?:/[a-z0-9][a-z0-9._-]*)?)["']`,
			Group:  1,
		},
	},
}

// defaultSecretRules is the built-in catalog for the "Potential Secrets"
// category. Entropy thresholds are per-rule: format-anchored keys (AWS,
// Google) are specific enough on their own, while the generic assignment
// rule needs entropy gating to keep false positives down.
var defaultSecretRules = []Descriptor{
	{
		ID:      "aws_access_key",
		Source:  `\b((?:AKIA|ASIA)[0-9A-Z]{16})\b`,
		Group:   1,
		Entropy: 3.0,
	},
	{
		ID:     "google_api_key",
		Source: `\b(AIza[0-9A-Za-z_-]{35})\b`,
		Group:  1,
	},
	{
		ID:     "github_token",
		Source: `\b(gh[pousr]_[A-Za-z0-9]{36,})\b`,
		Group:  1,
	},
	{
		ID:     "slack_token",
		Source: `\b(xox[baprs]-[0-9A-Za-z-]{10,})\b`,
		Group:  1,
	},
	{
		ID:      "stripe_secret_key",
		Source:  `\b(sk_live_[0-9a-zA-Z]{24,})\b`,
		Group:   1,
		Entropy: 3.0,
	},
	{
		ID:     "jwt",
		Source: `\b(eyJ[A-Za-z0-9_-]{8,}\.[A-Za-z0-9_-]{8,}\.[A-Za-z0-9_-]{4,})\b`,
		Group:  1,
	},
	{
		ID:     "private_key_block",
		Source: `-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY(?: BLOCK)?-----`,
	},
	{
		ID:      "generic_assignment",
		Source:  `(?:api[_-]?key|secret|token|password|passwd|auth)["']?\s*[:=]\s*["']([A-Za-z0-9+/_=-]{16,})["']`,
		Flags:   "i",
		Group:   1,
		Entropy: 3.5,
	},
	{
		ID:      "url_credentials",
		Source:  `[a-z][a-z0-9+.-]*://[^/\s:@'"]+:([^/\s:@'"]+)@`,
		Flags:   "i",
		Group:   1,
		Entropy: 2.5,
	},
}

// DefaultSecretRules returns a copy of the built-in secret descriptors.
func DefaultSecretRules() []Descriptor {
	out := make([]Descriptor, len(defaultSecretRules))
	copy(out, defaultSecretRules)
	return out
}
