package handlegraph

import (
	"fmt"
	"regexp"
	"strconv"
)

// Sense classifies the biological role of a path.
//
// Paths come in three senses:
//
//   - SenseGeneric: a generic named path. Has only a locus name, which is
//     the whole stored name.
//
//   - SenseReference: part of a reference assembly. Has a locus name, and
//     optionally a sample name and a haplotype number.
//
//   - SenseHaplotype: a haplotype from a particular individual. Has a locus
//     name, a haplotype number, a phase block identifier, and optionally a
//     sample name.
//
// Paths of all senses can represent subpaths, with bounds.
type Sense int

const (
	SenseGeneric Sense = iota
	SenseReference
	SenseHaplotype
)

// String returns the lowercase name of the sense.
func (s Sense) String() string {
	switch s {
	case SenseGeneric:
		return "generic"
	case SenseReference:
		return "reference"
	case SenseHaplotype:
		return "haplotype"
	default:
		return fmt.Sprintf("sense(%d)", int(s))
	}
}

// ParseSense converts a sense name produced by Sense.String back to a Sense.
func ParseSense(name string) (Sense, error) {
	switch name {
	case "generic":
		return SenseGeneric, nil
	case "reference":
		return SenseReference, nil
	case "haplotype":
		return SenseHaplotype, nil
	default:
		return SenseGeneric, fmt.Errorf("unknown path sense %q", name)
	}
}

// No-value placeholders for the optional metadata fields.
const (
	NoSampleName        = ""
	NoLocusName         = ""
	NoHaplotype   int64 = -1
	NoPhaseBlock  int64 = -1
	NoEndPosition int64 = -1
)

// Subrange is the 0-based inclusive start and exclusive end of the region of
// a conceptually longer path that is actually stored. End may be
// NoEndPosition when only the start is known.
type Subrange struct {
	Start int64
	End   int64
}

// NoSubrange marks a path that represents its full conceptual extent.
var NoSubrange = Subrange{Start: -1, End: NoEndPosition}

// PathMetadata is the decoded form of a path name. It is derived on demand
// from the stored name string and never stored separately; absent fields
// hold the corresponding no-value placeholder.
type PathMetadata struct {
	Sense      Sense
	Sample     string
	Locus      string
	Haplotype  int64
	PhaseBlock int64
	Subrange   Subrange
}

// Path name components are separated by '#', and a trailing subrange is set
// off with brackets and a dash.
const (
	Separator           = '#'
	RangeStartSeparator = '['
	RangeEndSeparator   = '-'
	RangeTerminator     = ']'
)

// Format examples:
//
//	GRCh38#chrM           (a reference)
//	CHM13#chr12           (another reference)
//	CHM13#chr12[300-400]  (part of a reference)
//	NA19239#1#chr1        (a diploid reference)
//	NA19239#1#chr1#0      (a haplotype)
//	1[100]                (an open-ended subrange of path "1")
//
// Extraneous brackets in name components are not supported in the
// structured format; names that use them fall back to the generic sense.
//
// The pattern is one separator-free name component, up to three more
// optional components led by separators, the last of which must be a
// number, and an optional bracket-bounded range with a number and an
// optional dash-led end number.
var pathNameFormat = regexp.MustCompile(`\A([^[#]*)(?:#([^[#]*))?(?:#([^[#]*))?(?:#(\d+))?(?:\[(\d+)(?:-(\d+))?\])?\z`)

// Submatch indices into pathNameFormat. The second component is the locus
// when nothing structured follows it, and the haplotype number when a third
// component is present.
const (
	assemblyOrNameMatch        = 1
	locusMatchWithoutHaplotype = 2
	haplotypeMatch             = 2
	locusMatchWithHaplotype    = 3
	phaseBlockMatch            = 4
	rangeStartMatch            = 5
	rangeEndMatch              = 6
)

// ParsePathName decodes a path name into its metadata fields.
//
// Any string is accepted: a name that does not conform to the structured
// grammar at all classifies as SenseGeneric with the whole name as the
// locus. A structured name with a numeric final component is a
// SenseHaplotype path; otherwise it is a SenseReference path.
//
// Every single-field accessor is a projection of this one parse, so the
// accessors can never disagree with each other.
func ParsePathName(name string) PathMetadata {
	meta := PathMetadata{
		Sense:      SenseGeneric,
		Sample:     NoSampleName,
		Locus:      name,
		Haplotype:  NoHaplotype,
		PhaseBlock: NoPhaseBlock,
		Subrange:   NoSubrange,
	}

	// Submatch indices distinguish a group that matched empty text from a
	// group that did not participate in the match.
	idx := pathNameFormat.FindStringSubmatchIndex(name)
	if idx == nil {
		// Not parseable as a structured name at all.
		return meta
	}

	matched := func(group int) bool {
		return idx[2*group] >= 0
	}
	text := func(group int) string {
		return name[idx[2*group]:idx[2*group+1]]
	}

	switch {
	case matched(locusMatchWithHaplotype):
		// There is a haplotype number between the sample and the locus.
		meta.Sample = text(assemblyOrNameMatch)
		meta.Haplotype = mustParseField("haplotype", text(haplotypeMatch))
		meta.Locus = text(locusMatchWithHaplotype)
	case matched(locusMatchWithoutHaplotype):
		// There is a locus after the sample but no haplotype.
		meta.Sample = text(assemblyOrNameMatch)
		meta.Locus = text(locusMatchWithoutHaplotype)
	default:
		// There is nothing but the locus and maybe a range.
		meta.Locus = text(assemblyOrNameMatch)
	}

	if matched(phaseBlockMatch) {
		// A phase block makes it a haplotype.
		meta.Sense = SenseHaplotype
		meta.PhaseBlock = mustParseField("phase block", text(phaseBlockMatch))
	} else {
		meta.Sense = SenseReference
	}

	if matched(rangeStartMatch) {
		meta.Subrange.Start = mustParseField("range start", text(rangeStartMatch))
		if matched(rangeEndMatch) {
			meta.Subrange.End = mustParseField("range end", text(rangeEndMatch))
		}
	}

	return meta
}

// mustParseField parses a numeral out of a name component. Failure means a
// non-numeric haplotype component or a numeral that overflows int64; both
// are data errors, not format errors, and propagate as panics.
func mustParseField(field, numeral string) int64 {
	value, err := strconv.ParseInt(numeral, 10, 64)
	if err != nil {
		panic(fmt.Sprintf("path name %s %q out of range", field, numeral))
	}
	return value
}

// CreatePathName encodes metadata fields into the canonical path name.
//
// The sense is an input, never inferred: combinations of fields that
// contradict the requested sense are rejected rather than silently
// reinterpreted. A locus is required for every sense. Neither end >= start
// nor start >= 0 is enforced for subranges; callers own those invariants.
func CreatePathName(meta PathMetadata) (string, error) {
	var name []byte

	if meta.Sample != NoSampleName {
		if meta.Sense == SenseGeneric {
			return "", fmt.Errorf("generic path cannot have a sample name %q", meta.Sample)
		}
		name = append(name, meta.Sample...)
		name = append(name, Separator)
	}

	if meta.Locus == NoLocusName {
		return "", fmt.Errorf("path of sense %s must have a locus name", meta.Sense)
	}
	name = append(name, meta.Locus...)

	if meta.Haplotype != NoHaplotype {
		if meta.Sense == SenseGeneric {
			return "", fmt.Errorf("generic path cannot have a haplotype number %d", meta.Haplotype)
		}
		name = append(name, Separator)
		name = strconv.AppendInt(name, meta.Haplotype, 10)
	} else if meta.Sense == SenseHaplotype {
		return "", fmt.Errorf("haplotype path must have a haplotype number")
	}

	if meta.PhaseBlock != NoPhaseBlock {
		if meta.Sense != SenseHaplotype {
			return "", fmt.Errorf("path of sense %s cannot have a phase block %d", meta.Sense, meta.PhaseBlock)
		}
		name = append(name, Separator)
		name = strconv.AppendInt(name, meta.PhaseBlock, 10)
	} else if meta.Sense == SenseHaplotype {
		return "", fmt.Errorf("haplotype path must have a phase block")
	}

	if meta.Subrange != NoSubrange {
		name = append(name, RangeStartSeparator)
		name = strconv.AppendInt(name, meta.Subrange.Start, 10)
		if meta.Subrange.End != NoEndPosition {
			name = append(name, RangeEndSeparator)
			name = strconv.AppendInt(name, meta.Subrange.End, 10)
		}
		name = append(name, RangeTerminator)
	}

	return string(name), nil
}

// PathNamer is the one primitive all metadata derivation needs: a lookup
// from path handle to the stored name string.
type PathNamer interface {
	GetPathName(p PathHandle) string
}

// MetadataSource is an optional capability for graphs that store
// pre-computed metadata instead of deriving it from the name. The metadata
// accessors consult it before falling back to name parsing.
type MetadataSource interface {
	PathMetadata(p PathHandle) PathMetadata
}

// GetMetadata returns all metadata fields of a path at once.
func GetMetadata(g PathNamer, p PathHandle) PathMetadata {
	if src, ok := g.(MetadataSource); ok {
		return src.PathMetadata(p)
	}
	return ParsePathName(g.GetPathName(p))
}

// GetSense returns what the path is meant to be representing.
func GetSense(g PathNamer, p PathHandle) Sense {
	return GetMetadata(g, p).Sense
}

// GetSampleName returns the sample or assembly name of the path, or
// NoSampleName if it does not have one.
func GetSampleName(g PathNamer, p PathHandle) string {
	return GetMetadata(g, p).Sample
}

// GetLocusName returns the contig or gene name of the path.
func GetLocusName(g PathNamer, p PathHandle) string {
	return GetMetadata(g, p).Locus
}

// GetHaplotype returns the haplotype number of the path, or NoHaplotype if
// it does not have one.
func GetHaplotype(g PathNamer, p PathHandle) int64 {
	return GetMetadata(g, p).Haplotype
}

// GetPhaseBlock returns the phase block of the path, or NoPhaseBlock if it
// does not have one.
func GetPhaseBlock(g PathNamer, p PathHandle) int64 {
	return GetMetadata(g, p).PhaseBlock
}

// GetSubrange returns the stored bounds of the path, or NoSubrange if the
// entirety of the path is represented.
func GetSubrange(g PathNamer, p PathHandle) Subrange {
	return GetMetadata(g, p).Subrange
}

// PathFilter selects paths by metadata. A nil or empty slice places no
// constraint on that dimension.
type PathFilter struct {
	Senses  []Sense
	Samples []string
	Loci    []string
}

// Match reports whether the metadata satisfies every constrained dimension.
func (f PathFilter) Match(meta PathMetadata) bool {
	if len(f.Senses) > 0 && !containsValue(f.Senses, meta.Sense) {
		return false
	}
	if len(f.Samples) > 0 && !containsValue(f.Samples, meta.Sample) {
		return false
	}
	if len(f.Loci) > 0 && !containsValue(f.Loci, meta.Locus) {
		return false
	}
	return true
}

func containsValue[T comparable](values []T, want T) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// ForEachPathMatching visits every path whose sense, sample, and locus all
// satisfy the filter, in the graph's path enumeration order. Returns false
// if the visitor stopped iteration early.
func ForEachPathMatching(g PathHandleGraph, filter PathFilter, visit Visitor[PathHandle]) bool {
	return g.ForEachPathHandle(func(p PathHandle) bool {
		if filter.Match(GetMetadata(g, p)) {
			return visit(p)
		}
		return true
	})
}

// ForEachPathOfSense visits every path with the given sense. Returns false
// if the visitor stopped iteration early.
func ForEachPathOfSense(g PathHandleGraph, sense Sense, visit Visitor[PathHandle]) bool {
	return ForEachPathMatching(g, PathFilter{Senses: []Sense{sense}}, visit)
}

// ForEachStepOfSense visits every step on the handle's node that belongs to
// a path of the given sense, in the graph's step enumeration order. Returns
// false if the visitor stopped iteration early.
func ForEachStepOfSense(g PathHandleGraph, visited Handle, sense Sense, visit Visitor[StepHandle]) bool {
	return g.ForEachStepOnHandle(visited, func(s StepHandle) bool {
		if GetSense(g, g.GetPathHandleOfStep(s)) == sense {
			return visit(s)
		}
		return true
	})
}
