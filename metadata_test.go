package handlegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected PathMetadata
	}{
		{
			name:  "reference with sample and locus",
			input: "GRCh38#chrM",
			expected: PathMetadata{
				Sense:      SenseReference,
				Sample:     "GRCh38",
				Locus:      "chrM",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
		},
		{
			name:  "reference with closed subrange",
			input: "CHM13#chr12[300-400]",
			expected: PathMetadata{
				Sense:      SenseReference,
				Sample:     "CHM13",
				Locus:      "chr12",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   Subrange{Start: 300, End: 400},
			},
		},
		{
			name:  "diploid reference with haplotype",
			input: "NA19239#1#chr1",
			expected: PathMetadata{
				Sense:      SenseReference,
				Sample:     "NA19239",
				Locus:      "chr1",
				Haplotype:  1,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
		},
		{
			name:  "haplotype with phase block",
			input: "NA19239#1#chr1#0",
			expected: PathMetadata{
				Sense:      SenseHaplotype,
				Sample:     "NA19239",
				Locus:      "chr1",
				Haplotype:  1,
				PhaseBlock: 0,
				Subrange:   NoSubrange,
			},
		},
		{
			name:  "bare component with open subrange",
			input: "1[100]",
			expected: PathMetadata{
				Sense:      SenseReference,
				Sample:     NoSampleName,
				Locus:      "1",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   Subrange{Start: 100, End: NoEndPosition},
			},
		},
		{
			name:  "bare locus",
			input: "chr1",
			expected: PathMetadata{
				Sense:      SenseReference,
				Sample:     NoSampleName,
				Locus:      "chr1",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
		},
		{
			name:  "empty sample component",
			input: "#chr2",
			expected: PathMetadata{
				Sense:      SenseReference,
				Sample:     "",
				Locus:      "chr2",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
		},
		{
			name:  "haplotype with subrange",
			input: "HG002#2#chr3#5[1000-2000]",
			expected: PathMetadata{
				Sense:      SenseHaplotype,
				Sample:     "HG002",
				Locus:      "chr3",
				Haplotype:  2,
				PhaseBlock: 5,
				Subrange:   Subrange{Start: 1000, End: 2000},
			},
		},
		{
			name:  "stray bracket falls back to generic",
			input: "weird[name",
			expected: PathMetadata{
				Sense:      SenseGeneric,
				Sample:     NoSampleName,
				Locus:      "weird[name",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
		},
		{
			name:  "unterminated range falls back to generic",
			input: "chr1[100",
			expected: PathMetadata{
				Sense:      SenseGeneric,
				Sample:     NoSampleName,
				Locus:      "chr1[100",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ParsePathName(tt.input))
		})
	}
}

func TestParsePathNameIsPure(t *testing.T) {
	t.Parallel()

	name := "NA19239#1#chr1#0"
	first := ParsePathName(name)
	second := ParsePathName(name)
	assert.Equal(t, first, second)
}

func TestParsePathNameNonNumericHaplotype(t *testing.T) {
	t.Parallel()

	// Three text components force the middle one into the haplotype slot.
	assert.Panics(t, func() {
		ParsePathName("GRCh38#chrM#extra#0")
	})
}

func TestAccessorsAgreeWithFullParse(t *testing.T) {
	t.Parallel()

	g := &namedPaths{names: map[PathHandle]string{
		1: "HG002#2#chr3#5[1000-2000]",
	}}

	meta := GetMetadata(g, 1)
	assert.Equal(t, meta.Sense, GetSense(g, 1))
	assert.Equal(t, meta.Sample, GetSampleName(g, 1))
	assert.Equal(t, meta.Locus, GetLocusName(g, 1))
	assert.Equal(t, meta.Haplotype, GetHaplotype(g, 1))
	assert.Equal(t, meta.PhaseBlock, GetPhaseBlock(g, 1))
	assert.Equal(t, meta.Subrange, GetSubrange(g, 1))
}

// namedPaths is a minimal PathNamer backed by a map.
type namedPaths struct {
	names map[PathHandle]string
}

func (n *namedPaths) GetPathName(p PathHandle) string { return n.names[p] }

// storedMetadata serves pre-computed metadata instead of parsing names.
type storedMetadata struct {
	namedPaths
	meta map[PathHandle]PathMetadata
}

func (s *storedMetadata) PathMetadata(p PathHandle) PathMetadata { return s.meta[p] }

func TestGetMetadataPrefersStoredMetadata(t *testing.T) {
	t.Parallel()

	want := PathMetadata{
		Sense:      SenseGeneric,
		Locus:      "decoy",
		Haplotype:  NoHaplotype,
		PhaseBlock: NoPhaseBlock,
		Subrange:   NoSubrange,
	}
	g := &storedMetadata{
		namedPaths: namedPaths{names: map[PathHandle]string{7: "GRCh38#chrM"}},
		meta:       map[PathHandle]PathMetadata{7: want},
	}

	// The override wins over what the name would parse to.
	assert.Equal(t, want, GetMetadata(g, 7))
	assert.Equal(t, SenseGeneric, GetSense(g, 7))
}

func TestCreatePathName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		meta     PathMetadata
		expected string
	}{
		{
			name: "generic locus only",
			meta: PathMetadata{
				Sense:      SenseGeneric,
				Locus:      "decoy",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
			expected: "decoy",
		},
		{
			name: "reference with sample",
			meta: PathMetadata{
				Sense:      SenseReference,
				Sample:     "GRCh38",
				Locus:      "chrM",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
			expected: "GRCh38#chrM",
		},
		{
			name: "reference with haplotype",
			meta: PathMetadata{
				Sense:      SenseReference,
				Sample:     "NA19239",
				Locus:      "chr1",
				Haplotype:  1,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
			expected: "NA19239#1#chr1",
		},
		{
			name: "haplotype with phase block",
			meta: PathMetadata{
				Sense:      SenseHaplotype,
				Sample:     "NA19239",
				Locus:      "chr1",
				Haplotype:  1,
				PhaseBlock: 0,
				Subrange:   NoSubrange,
			},
			expected: "NA19239#1#chr1#0",
		},
		{
			name: "closed subrange",
			meta: PathMetadata{
				Sense:      SenseReference,
				Sample:     "CHM13",
				Locus:      "chr12",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   Subrange{Start: 300, End: 400},
			},
			expected: "CHM13#chr12[300-400]",
		},
		{
			name: "open subrange",
			meta: PathMetadata{
				Sense:      SenseReference,
				Locus:      "1",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   Subrange{Start: 100, End: NoEndPosition},
			},
			expected: "1[100]",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			name, err := CreatePathName(tt.meta)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestCreatePathNameValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		meta PathMetadata
	}{
		{
			name: "generic with sample",
			meta: PathMetadata{
				Sense:      SenseGeneric,
				Sample:     "GRCh38",
				Locus:      "chrM",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
		},
		{
			name: "generic with haplotype",
			meta: PathMetadata{
				Sense:      SenseGeneric,
				Locus:      "chrM",
				Haplotype:  1,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
		},
		{
			name: "missing locus",
			meta: PathMetadata{
				Sense:      SenseReference,
				Sample:     "GRCh38",
				Haplotype:  NoHaplotype,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
		},
		{
			name: "haplotype without haplotype number",
			meta: PathMetadata{
				Sense:      SenseHaplotype,
				Sample:     "NA19239",
				Locus:      "chr1",
				Haplotype:  NoHaplotype,
				PhaseBlock: 0,
				Subrange:   NoSubrange,
			},
		},
		{
			name: "haplotype without phase block",
			meta: PathMetadata{
				Sense:      SenseHaplotype,
				Sample:     "NA19239",
				Locus:      "chr1",
				Haplotype:  1,
				PhaseBlock: NoPhaseBlock,
				Subrange:   NoSubrange,
			},
		},
		{
			name: "reference with phase block",
			meta: PathMetadata{
				Sense:      SenseReference,
				Sample:     "NA19239",
				Locus:      "chr1",
				Haplotype:  1,
				PhaseBlock: 0,
				Subrange:   NoSubrange,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := CreatePathName(tt.meta)
			assert.Error(t, err)
		})
	}
}

func TestPathNameRoundTrip(t *testing.T) {
	t.Parallel()

	// Every valid reference or haplotype tuple survives build-then-parse
	// unchanged. Generic tuples build the bare locus, which the grammar
	// reclassifies as a reference, so they are excluded.
	tuples := []PathMetadata{
		{Sense: SenseReference, Sample: "GRCh38", Locus: "chrM",
			Haplotype: NoHaplotype, PhaseBlock: NoPhaseBlock, Subrange: NoSubrange},
		{Sense: SenseReference, Sample: "NA19239", Locus: "chr1",
			Haplotype: 1, PhaseBlock: NoPhaseBlock, Subrange: NoSubrange},
		{Sense: SenseHaplotype, Sample: "HG002", Locus: "chr3",
			Haplotype: 2, PhaseBlock: 5, Subrange: Subrange{Start: 1000, End: 2000}},
		{Sense: SenseHaplotype, Sample: "HG002", Locus: "chr3",
			Haplotype: 0, PhaseBlock: 0, Subrange: NoSubrange},
		{Sense: SenseReference, Sample: "CHM13", Locus: "chr12",
			Haplotype: NoHaplotype, PhaseBlock: NoPhaseBlock,
			Subrange: Subrange{Start: 300, End: 400}},
		{Sense: SenseReference, Sample: NoSampleName, Locus: "1",
			Haplotype: NoHaplotype, PhaseBlock: NoPhaseBlock,
			Subrange: Subrange{Start: 100, End: NoEndPosition}},
	}

	for _, tuple := range tuples {
		name, err := CreatePathName(tuple)
		require.NoError(t, err)
		assert.Equal(t, tuple, ParsePathName(name), "round-tripping %q", name)
	}
}

func TestSenseString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "generic", SenseGeneric.String())
	assert.Equal(t, "reference", SenseReference.String())
	assert.Equal(t, "haplotype", SenseHaplotype.String())
}

func TestParseSense(t *testing.T) {
	t.Parallel()

	for _, sense := range []Sense{SenseGeneric, SenseReference, SenseHaplotype} {
		parsed, err := ParseSense(sense.String())
		require.NoError(t, err)
		assert.Equal(t, sense, parsed)
	}

	_, err := ParseSense("diploid")
	assert.Error(t, err)
}

func TestPathFilterMatch(t *testing.T) {
	t.Parallel()

	meta := ParsePathName("GRCh38#chrM")

	tests := []struct {
		name     string
		filter   PathFilter
		expected bool
	}{
		{"empty filter matches everything", PathFilter{}, true},
		{"matching sense", PathFilter{Senses: []Sense{SenseReference}}, true},
		{"wrong sense", PathFilter{Senses: []Sense{SenseHaplotype}}, false},
		{"matching sample", PathFilter{Samples: []string{"GRCh38", "CHM13"}}, true},
		{"wrong sample", PathFilter{Samples: []string{"CHM13"}}, false},
		{"matching locus", PathFilter{Loci: []string{"chrM"}}, true},
		{"wrong locus", PathFilter{Loci: []string{"chr1"}}, false},
		{
			"all dimensions must match",
			PathFilter{
				Senses:  []Sense{SenseReference},
				Samples: []string{"GRCh38"},
				Loci:    []string{"chr1"},
			},
			false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.filter.Match(meta))
		})
	}
}
