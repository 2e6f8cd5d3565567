package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/jsrecon/jsrecon/internal/cache"
	"github.com/jsrecon/jsrecon/internal/fetch"
	"github.com/jsrecon/jsrecon/internal/gather"
	"github.com/jsrecon/jsrecon/internal/model"
	"github.com/jsrecon/jsrecon/internal/scanner"
)

// GatherStep collects the target's content sources. Script-body
// caching across targets lives inside the gatherer itself.
type GatherStep struct {
	// Gatherer fetches the page and its scripts.
	Gatherer *gather.Gatherer
}

// Name implements Step.
func (s *GatherStep) Name() string { return "gather" }

// Do implements Step.
func (s *GatherStep) Do(ctx context.Context, result *model.ScanResult) error {
	sources, err := s.Gatherer.Gather(ctx, result.Target)
	if err != nil {
		return err
	}
	result.Sources = sources
	return nil
}

// ScanStep runs the engine over the gathered sources.
type ScanStep struct {
	// NewEngine builds an engine scoped to one target's hostname. The
	// engine carries per-target domain info, so it cannot be shared
	// across targets.
	NewEngine func(hostname string) *scanner.Engine
}

// Name implements Step.
func (s *ScanStep) Name() string { return "scan" }

// Do implements Step.
func (s *ScanStep) Do(ctx context.Context, result *model.ScanResult) error {
	u, err := url.Parse(result.Target)
	if err != nil {
		return fmt.Errorf("parse target URL: %w", err)
	}

	engine := s.NewEngine(u.Hostname())
	scanned, err := engine.Scan(ctx, result.Target, result.Sources)
	if err != nil {
		return err
	}
	result.Results = scanned.Results
	result.ContentMap = scanned.ContentMap
	return nil
}

// NPMRegistryURL is the public registry probed for package existence.
const NPMRegistryURL = "https://registry.npmjs.org"

// NPMProbeStep checks each NPM Package finding against the public
// registry. Packages that resolve with 404 are flagged as missing, a
// dependency-confusion signal.
type NPMProbeStep struct {
	// Fetcher performs the probes under the usual throttling.
	Fetcher *fetch.Fetcher

	// RegistryURL overrides the registry base, for tests.
	RegistryURL string
}

// Name implements Step.
func (s *NPMProbeStep) Name() string { return "npm-probe" }

// Do implements Step.
func (s *NPMProbeStep) Do(ctx context.Context, result *model.ScanResult) error {
	findings := result.Results[model.CategoryNPMPackages]
	if len(findings) == 0 {
		return nil
	}

	base := s.RegistryURL
	if base == "" {
		base = NPMRegistryURL
	}

	names := make([]string, 0, len(findings))
	for name := range findings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Scoped package names keep their slash percent-encoded in
		// registry URLs.
		probe := base + "/" + url.PathEscape(name)
		if s.Fetcher.Status(ctx, probe) == 404 {
			result.MissingPackages = append(result.MissingPackages, name)
		}
	}
	return nil
}

// SaveStep persists the result to the history store.
type SaveStep struct {
	// Store is the SQLite history store.
	Store *cache.Store
}

// Name implements Step.
func (s *SaveStep) Name() string { return "save" }

// Do implements Step.
func (s *SaveStep) Do(ctx context.Context, result *model.ScanResult) error {
	return s.Store.SaveScanResult(ctx, result)
}
