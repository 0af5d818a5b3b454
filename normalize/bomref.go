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

package normalize

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/l3montree-dev/sunshine/dtos"
	"github.com/l3montree-dev/sunshine/shared"
)

// Unknown is used for every name, version or type that was not declared.
const Unknown = "-"

const DefaultReferenceCacheSize = 1024

var (
	refDelimiters     = []string{"/", ":"}
	versionSeparators = []string{"@", "::", ":"}
)

type knownRef struct {
	ref     string
	name    string
	version string
}

func (k knownRef) isPlaceholder() bool {
	return k.name == Unknown || k.version == Unknown
}

type resolution struct {
	ref string
	ok  bool
}

type identity struct {
	ref       string
	synthetic bool
}

type ResolverOptions struct {
	// CacheSize bounds the number of memoised reference lookups.
	CacheSize   int
	Logger      *slog.Logger
	Diagnostics *shared.Diagnostics
}

// Resolver maps missing or non-canonical references to the identities known
// in a single document. A resolver must not be shared between documents.
type Resolver struct {
	order []string
	known map[string]*knownRef

	identities map[string]identity
	guesses    *lru.Cache[string, resolution]

	logger *slog.Logger
	diags  *shared.Diagnostics
}

func NewResolver(opts ResolverOptions) *Resolver {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultReferenceCacheSize
	}
	// only fails for a non positive size
	guesses, _ := lru.New[string, resolution](size)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		known:      make(map[string]*knownRef),
		identities: make(map[string]identity),
		guesses:    guesses,
		logger:     logger,
		diags:      opts.Diagnostics,
	}
}

// Register adds a reference to the table of known references. For an already
// known reference only fields that are still unknown are filled in.
func (r *Resolver) Register(ref, name, version string) {
	if ref == "" {
		return
	}
	if name == "" {
		name = Unknown
	}
	if version == "" {
		version = Unknown
	}

	k, ok := r.known[ref]
	if !ok {
		r.known[ref] = &knownRef{ref: ref, name: name, version: version}
		r.order = append(r.order, ref)
		r.guesses.Purge()
		return
	}

	changed := false
	if k.name == Unknown && name != Unknown {
		k.name = name
		changed = true
	}
	if k.version == Unknown && version != Unknown {
		k.version = version
		changed = true
	}
	if changed {
		r.guesses.Purge()
	}
}

// Known reports whether ref is in the table, regardless of its data.
func (r *Resolver) Known(ref string) bool {
	_, ok := r.known[ref]
	return ok
}

// KnownReferences returns the known references in registration order.
func (r *Resolver) KnownReferences() []string {
	res := make([]string, len(r.order))
	copy(res, r.order)
	return res
}

// CollectKnownReferences registers every reference a document mentions: the
// bom-refs of all components and services (recursively), inline and top level
// dependency refs and the metadata component if anything else refers to it.
// The result reports whether the metadata component was registered.
func (r *Resolver) CollectKnownReferences(doc dtos.Document) bool {
	var walk func(records []dtos.ComponentRecord)
	walk = func(records []dtos.ComponentRecord) {
		for _, c := range records {
			r.Register(c.BOMRef, c.Name, c.Version)
			for _, d := range c.Dependencies {
				r.Register(d.Ref, "", "")
			}
			walk(c.Components)
			walk(c.Services)
		}
	}
	walk(doc.RootRecords())

	for _, d := range doc.Dependencies {
		r.Register(d.Ref, "", "")
		for _, dep := range d.DependsOn {
			r.Register(dep, "", "")
		}
	}

	if main := doc.MetadataComponent(); main != nil && main.BOMRef != "" {
		if r.Used(main.BOMRef) {
			r.Register(main.BOMRef, main.Name, main.Version)
			return true
		}
	}
	return false
}

// Used reports whether a reference is known or resolves against the table
// through any fallback tier.
func (r *Resolver) Used(ref string) bool {
	if r.Known(ref) {
		return true
	}
	_, ok := r.ResolveReference(ref)
	return ok
}

func suffixPatterns(name, version string) []string {
	res := make([]string, 0, len(refDelimiters)*len(versionSeparators)*2)
	for _, sep := range versionSeparators {
		test := name + sep + version
		for _, d := range refDelimiters {
			res = append(res, d+test, d+test+":")
		}
	}
	return res
}

func containsPatterns(name, version string) []string {
	res := make([]string, 0, len(refDelimiters)*len(versionSeparators))
	for _, sep := range versionSeparators {
		test := name + sep + version
		for _, d := range refDelimiters {
			res = append(res, d+test+":")
		}
	}
	return res
}

func nameOnlyPatterns(name string) []string {
	return []string{"/" + name + "@", "/" + name + ":", ":" + name + ":", ":" + name + "@"}
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func identityCacheKey(name, version string) string {
	if version == "" {
		version = Unknown
	}
	return fmt.Sprintf("%s - %s", name, version)
}

// ResolveIdentity returns the identity of a declared component record. A
// declared bom-ref is returned unchanged. Otherwise the known references are
// searched for a name and version match. If nothing matches, a synthetic
// identity derived from the record content is returned and synthetic is true.
func (r *Resolver) ResolveIdentity(record dtos.ComponentRecord) (ref string, synthetic bool) {
	if record.BOMRef != "" {
		return record.BOMRef, false
	}

	key := identityCacheKey(record.Name, record.Version)
	if cached, ok := r.identities[key]; ok {
		return cached.ref, cached.synthetic
	}

	version := record.Version
	if version == "" {
		version = Unknown
	}

	suffixes := suffixPatterns(record.Name, version)
	for _, candidate := range r.order {
		if hasAnySuffix(candidate, suffixes) {
			r.logger.Debug("matched component without bom-ref", "name", record.Name, "version", version, "ref", candidate)
			r.diags.Add(shared.DiagnosticFallbackReference, key, "component %q without bom-ref matched %s", key, candidate)
			r.identities[key] = identity{ref: candidate}
			return candidate, false
		}
	}

	contains := containsPatterns(record.Name, version)
	var match string
	matches := 0
	for _, candidate := range r.order {
		if containsAny(candidate, contains) {
			matches++
			match = candidate
		}
	}
	if matches == 1 {
		r.logger.Debug("matched component without bom-ref", "name", record.Name, "version", version, "ref", match)
		r.diags.Add(shared.DiagnosticFallbackReference, key, "component %q without bom-ref matched %s", key, match)
		r.identities[key] = identity{ref: match}
		return match, false
	}

	ref = SyntheticIdentity(record)
	r.diags.Add(shared.DiagnosticUnresolvedIdentity, key, "component %q has no bom-ref and matched no known reference, using %s", key, ref)
	r.identities[key] = identity{ref: ref, synthetic: true}
	return ref, true
}

// SyntheticIdentity derives a stable identity from the content of a record.
func SyntheticIdentity(record dtos.ComponentRecord) string {
	canonical := CanonicalJSON(DeepSort(record))
	return uuid.NewSHA1(uuid.NameSpaceOID, canonical).String()
}

// ResolveReference maps a reference used in a dependency edge to a known
// identity. ok is false if no tier produced an unambiguous match.
func (r *Resolver) ResolveReference(raw string) (string, bool) {
	if cached, ok := r.guesses.Get(raw); ok {
		return cached.ref, cached.ok
	}
	ref, ok := r.resolveReference(raw)
	r.guesses.Add(raw, resolution{ref: ref, ok: ok})
	if ok && ref != raw {
		r.logger.Debug("resolved reference", "raw", raw, "ref", ref)
	}
	return ref, ok
}

func (r *Resolver) resolveReference(raw string) (string, bool) {
	// exact match with real data
	if k, ok := r.known[raw]; ok && !k.isPlaceholder() {
		return raw, true
	}

	candidates := referenceCandidates(raw)

	// suffix match with the known name and version
	for _, ref := range r.order {
		k := r.known[ref]
		patterns := suffixPatterns(k.name, k.version)
		if slices.ContainsFunc(candidates, func(c string) bool { return hasAnySuffix(c, patterns) }) {
			return ref, true
		}
	}

	// contains match with version, must be unambiguous
	if ref, ok := r.unique(func(k *knownRef) bool {
		patterns := containsPatterns(k.name, k.version)
		return slices.ContainsFunc(candidates, func(c string) bool { return containsAny(c, patterns) })
	}); ok {
		return ref, true
	}

	// contains match by name only, must be unambiguous
	return r.unique(func(k *knownRef) bool {
		patterns := nameOnlyPatterns(k.name)
		return slices.ContainsFunc(candidates, func(c string) bool { return containsAny(c, patterns) })
	})
}

// referenceCandidates returns the raw reference and, if it differs, its
// percent-decoded form, so pkg:npm/%40angular/core also matches @angular/core.
func referenceCandidates(raw string) []string {
	unescaped, err := url.PathUnescape(raw)
	if err != nil || unescaped == raw {
		return []string{raw}
	}
	return []string{raw, unescaped}
}

// unique returns the single known reference satisfying match.
func (r *Resolver) unique(match func(k *knownRef) bool) (string, bool) {
	var result string
	matches := 0
	for _, ref := range r.order {
		if match(r.known[ref]) {
			matches++
			result = ref
		}
	}
	if matches == 1 {
		return result, true
	}
	return "", false
}
