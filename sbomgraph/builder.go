// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package sbomgraph

import (
	"log/slog"

	"github.com/l3montree-dev/sunshine/dtos"
	"github.com/l3montree-dev/sunshine/normalize"
	"github.com/l3montree-dev/sunshine/shared"
)

type options struct {
	logger    *slog.Logger
	diags     *shared.Diagnostics
	cacheSize int
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDiagnostics sets the sink all diagnostics of the build are recorded in.
func WithDiagnostics(diags *shared.Diagnostics) Option {
	return func(o *options) {
		o.diags = diags
	}
}

func WithReferenceCacheSize(size int) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

func buildOptions(opts []Option) options {
	o := options{cacheSize: normalize.DefaultReferenceCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.diags == nil {
		o.diags = shared.NewDiagnostics(o.logger)
	}
	return o
}

// Graph is the result of building a document.
type Graph struct {
	Registry    *Registry
	Resolver    *normalize.Resolver
	Diagnostics *shared.Diagnostics
}

type declared struct {
	ref    string
	record dtos.ComponentRecord
}

type builder struct {
	reg      *Registry
	resolver *normalize.Resolver
	diags    *shared.Diagnostics
	logger   *slog.Logger
	declared []declared
}

// Build constructs the dependency graph of a document. It never fails,
// unresolvable references end up as placeholder components.
func Build(doc dtos.Document, opts ...Option) *Graph {
	o := buildOptions(opts)
	b := &builder{
		reg: NewRegistry(),
		resolver: normalize.NewResolver(normalize.ResolverOptions{
			CacheSize:   o.cacheSize,
			Logger:      o.logger,
			Diagnostics: o.diags,
		}),
		diags:  o.diags,
		logger: o.logger,
	}

	metadataUsed := b.resolver.CollectKnownReferences(doc)
	if main := doc.MetadataComponent(); metadataUsed && main != nil {
		b.register(*main)
	}
	b.registerAll(doc.RootRecords())

	for _, d := range b.declared {
		for _, dep := range d.record.Dependencies {
			if dep.Ref == "" {
				continue
			}
			b.reg.Link(d.ref, b.endpoint(dep.Ref))
		}
		for _, v := range d.record.Vulnerabilities {
			c, _ := b.reg.Get(d.ref)
			c.AddVulnerability(normalize.NormalizeVulnerability(v, b.diags))
		}
	}

	for _, dep := range doc.Dependencies {
		if dep.Ref == "" {
			continue
		}
		from := b.endpoint(dep.Ref)
		for _, to := range dep.DependsOn {
			b.reg.Link(from, b.endpoint(to))
		}
	}

	for _, rec := range doc.Vulnerabilities {
		v := normalize.NormalizeVulnerability(rec, b.diags)
		for _, ref := range rec.AffectedRefs() {
			c, created := b.reg.ensure(ref)
			if created {
				b.diags.Add(shared.DiagnosticPlaceholder, ref, "vulnerability %s affects undeclared component %s, created a placeholder", rec.ID, ref)
			}
			c.AddVulnerability(v)
		}
	}

	b.logger.Debug("built dependency graph", "components", b.reg.Len(), "diagnostics", b.diags.Len())
	return &Graph{Registry: b.reg, Resolver: b.resolver, Diagnostics: b.diags}
}

func (b *builder) registerAll(records []dtos.ComponentRecord) {
	for _, rec := range records {
		b.register(rec)
		b.registerAll(rec.Components)
		b.registerAll(rec.Services)
	}
}

func (b *builder) register(rec dtos.ComponentRecord) {
	ref, synthetic := b.resolver.ResolveIdentity(rec)

	c := newComponent(ref)
	c.Name = rec.Name
	if rec.Version != "" {
		c.Version = rec.Version
	}
	if rec.Type != "" {
		c.Type = string(rec.Type)
	}
	c.Group = rec.Group
	c.PackageURL = rec.PackageURL
	c.Description = rec.Description
	c.Licenses = rec.LicenseNames()
	c.SyntheticRef = synthetic

	b.reg.add(c)
	b.declared = append(b.declared, declared{ref: ref, record: rec})
}

// endpoint maps a reference used in a dependency edge to a registered
// component, falling back to the resolver and finally to a placeholder.
func (b *builder) endpoint(raw string) string {
	if b.reg.Has(raw) {
		return raw
	}
	ref := raw
	if resolved, ok := b.resolver.ResolveReference(raw); ok {
		ref = resolved
		if ref != raw {
			b.diags.Add(shared.DiagnosticFallbackReference, raw, "reference %s is not declared, resolved to %s", raw, ref)
		}
	}
	if _, created := b.reg.ensure(ref); created {
		b.diags.Add(shared.DiagnosticPlaceholder, ref, "reference %s is not declared, created a placeholder", ref)
	}
	return ref
}
