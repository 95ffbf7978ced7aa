package domain

import (
	"strings"

	"github.com/samber/lo"
	"go.trai.ch/zerr"
)

// Policy configures how conflicting dependency versions are reconciled.
type Policy struct {
	// Scopes are package-name prefixes of internally controlled packages.
	// A scoped package whose versions cannot both be coerced fails the merge
	// instead of silently keeping the current version.
	Scopes []string
}

// IsScoped reports whether the package name carries one of the policy's scope prefixes.
func (p Policy) IsScoped(name string) bool {
	return lo.ContainsBy(p.Scopes, func(scope string) bool {
		return scope != "" && strings.HasPrefix(name, scope)
	})
}

// Reason explains a reconciliation decision.
type Reason string

const (
	// ReasonAdded means the package only existed in the incoming section.
	ReasonAdded Reason = "added"
	// ReasonIncomingNewer means the incoming version was strictly greater.
	ReasonIncomingNewer Reason = "incoming-newer"
	// ReasonCurrentNewer means the current version was greater or equal.
	ReasonCurrentNewer Reason = "current-newer-or-equal"
	// ReasonNotComparable means the versions could not be compared and current was kept.
	ReasonNotComparable Reason = "not-comparable"
	// ReasonScopedUnresolved means a scoped package had versions that could not be compared.
	ReasonScopedUnresolved Reason = "scoped-unresolved"
	// ReasonSectionAdopted means current had no such section and incoming's was taken verbatim.
	ReasonSectionAdopted Reason = "section-adopted"
)

// Decision records how one package, or a whole section, was resolved.
type Decision struct {
	Section  string
	Package  string
	Ancestor string
	Current  string
	Incoming string
	Chosen   string
	Reason   Reason

	// Scoped marks packages matching one of the policy's scope prefixes.
	Scoped bool
}

// Changed reports whether the decision altered the current document.
func (d Decision) Changed() bool {
	return d.Reason == ReasonAdded || d.Reason == ReasonIncomingNewer || d.Reason == ReasonSectionAdopted
}

// MergeReport lists the decisions taken while merging a manifest.
type MergeReport struct {
	Decisions []Decision
}

// Conflicts returns the decisions where both sides had different versions.
func (r *MergeReport) Conflicts() []Decision {
	return lo.Filter(r.Decisions, func(d Decision, _ int) bool {
		switch d.Reason {
		case ReasonIncomingNewer, ReasonCurrentNewer, ReasonNotComparable, ReasonScopedUnresolved:
			return true
		default:
			return false
		}
	})
}

// Unresolved returns the scoped packages whose versions could not be compared.
func (r *MergeReport) Unresolved() []Decision {
	return lo.Filter(r.Decisions, func(d Decision, _ int) bool {
		return d.Reason == ReasonScopedUnresolved
	})
}

// MergeManifests combines three manifest snapshots. The result starts as a copy
// of current; each dependency section present in incoming is either adopted (when
// current lacks it) or reconciled package by package. Scoped packages left
// unresolved fail the merge with ErrScopedVersionConflict.
func MergeManifests(ancestor, current, incoming *Manifest, policy Policy) (*Manifest, *MergeReport, error) {
	merged := current.Clone()
	report := &MergeReport{}

	for _, name := range Sections {
		theirs, ok, err := incoming.Section(name)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}

		ours, ok, err := current.Section(name)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			raw, _ := incoming.Raw(name)
			merged.SetRaw(name, raw)
			report.Decisions = append(report.Decisions, Decision{Section: name, Reason: ReasonSectionAdopted})
			continue
		}

		base, ok, err := ancestor.Section(name)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			base = NewDependencies()
		}

		result, decisions := ReconcileSection(name, base, ours, theirs, policy)
		if err := merged.SetSection(name, result); err != nil {
			return nil, nil, err
		}
		report.Decisions = append(report.Decisions, decisions...)
	}

	if unresolved := report.Unresolved(); len(unresolved) > 0 {
		packages := lo.Map(unresolved, func(d Decision, _ int) string {
			return d.Section + "." + d.Package + " (" + d.Current + " vs " + d.Incoming + ")"
		})
		return nil, nil, zerr.With(ErrScopedVersionConflict, "packages", strings.Join(packages, ", "))
	}

	return merged, report, nil
}

// ReconcileSection merges incoming's packages into a copy of current's.
// Packages missing from incoming are kept; the ancestor is only recorded in the decisions.
// A package whose current specifier is empty counts as missing.
func ReconcileSection(section string, ancestor, current, incoming *Dependencies, policy Policy) (*Dependencies, []Decision) {
	result := current.Clone()
	var decisions []Decision

	for name, theirs := range incoming.All() {
		base, _ := ancestor.Get(name)
		ours, ok := result.Get(name)
		if !ok || (ours == "" && theirs != "") {
			result.Set(name, theirs)
			decisions = append(decisions, Decision{
				Section:  section,
				Package:  name,
				Ancestor: base,
				Incoming: theirs,
				Chosen:   theirs,
				Reason:   ReasonAdded,
				Scoped:   policy.IsScoped(name),
			})
			continue
		}

		if ours == theirs {
			continue
		}

		scoped := policy.IsScoped(name)
		chosen, reason := resolveVersion(ours, theirs, scoped)
		if chosen != ours {
			result.Set(name, chosen)
		}
		decisions = append(decisions, Decision{
			Section:  section,
			Package:  name,
			Ancestor: base,
			Current:  ours,
			Incoming: theirs,
			Chosen:   chosen,
			Reason:   reason,
			Scoped:   scoped,
		})
	}

	return result, decisions
}

// resolveVersion picks between two different specifiers of the same package.
// Comparable pairs keep the strictly greater version and ties keep current.
// Pairs that cannot be compared keep current, or stay unresolved when scoped.
func resolveVersion(current, incoming string, scoped bool) (string, Reason) {
	ours, oursOK := CoerceVersion(current)
	theirs, theirsOK := CoerceVersion(incoming)
	if !oursOK || !theirsOK {
		if scoped {
			return current, ReasonScopedUnresolved
		}
		return current, ReasonNotComparable
	}

	if theirs.GreaterThan(ours) {
		return incoming, ReasonIncomingNewer
	}
	return current, ReasonCurrentNewer
}
