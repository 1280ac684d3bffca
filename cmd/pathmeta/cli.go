package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/genomegraphs/handlegraph"
)

// Version is set at build time via ldflags.
var Version = "dev"

// metadataRecord is the JSON form of a parsed name. Absent optional fields
// are omitted rather than emitted as sentinels.
type metadataRecord struct {
	Name       string `json:"name"`
	Sense      string `json:"sense"`
	Sample     string `json:"sample,omitempty"`
	Locus      string `json:"locus"`
	Haplotype  *int64 `json:"haplotype,omitempty"`
	PhaseBlock *int64 `json:"phase_block,omitempty"`
	RangeStart *int64 `json:"range_start,omitempty"`
	RangeEnd   *int64 `json:"range_end,omitempty"`
}

func newMetadataRecord(name string, meta handlegraph.PathMetadata) metadataRecord {
	rec := metadataRecord{
		Name:   name,
		Sense:  meta.Sense.String(),
		Sample: meta.Sample,
		Locus:  meta.Locus,
	}
	if meta.Haplotype != handlegraph.NoHaplotype {
		rec.Haplotype = &meta.Haplotype
	}
	if meta.PhaseBlock != handlegraph.NoPhaseBlock {
		rec.PhaseBlock = &meta.PhaseBlock
	}
	if meta.Subrange != handlegraph.NoSubrange {
		rec.RangeStart = &meta.Subrange.Start
		if meta.Subrange.End != handlegraph.NoEndPosition {
			rec.RangeEnd = &meta.Subrange.End
		}
	}
	return rec
}

// ParseCmd decodes path names into their metadata fields.
type ParseCmd struct {
	Names []string `arg:"" help:"Path names to parse, or - to read one name per line from stdin"`
	JSON  bool     `help:"Emit one JSON object per name"`
}

// Run executes the parse command.
func (c *ParseCmd) Run() error {
	return c.run(os.Stdin, os.Stdout)
}

func (c *ParseCmd) run(in io.Reader, out io.Writer) error {
	names, err := expandNames(c.Names, in)
	if err != nil {
		return err
	}

	for i, name := range names {
		meta := handlegraph.ParsePathName(name)

		if c.JSON {
			line, err := json.Marshal(newMetadataRecord(name, meta))
			if err != nil {
				return fmt.Errorf("encoding %q: %w", name, err)
			}
			fmt.Fprintln(out, string(line))
			continue
		}

		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, name)
		fmt.Fprintf(out, "  sense:       %s\n", meta.Sense)
		if meta.Sample != handlegraph.NoSampleName {
			fmt.Fprintf(out, "  sample:      %s\n", meta.Sample)
		}
		fmt.Fprintf(out, "  locus:       %s\n", meta.Locus)
		if meta.Haplotype != handlegraph.NoHaplotype {
			fmt.Fprintf(out, "  haplotype:   %d\n", meta.Haplotype)
		}
		if meta.PhaseBlock != handlegraph.NoPhaseBlock {
			fmt.Fprintf(out, "  phase block: %d\n", meta.PhaseBlock)
		}
		if meta.Subrange != handlegraph.NoSubrange {
			if meta.Subrange.End != handlegraph.NoEndPosition {
				fmt.Fprintf(out, "  range:       %d-%d\n", meta.Subrange.Start, meta.Subrange.End)
			} else {
				fmt.Fprintf(out, "  range:       %d-\n", meta.Subrange.Start)
			}
		}
	}

	return nil
}

// expandNames substitutes a lone "-" argument with one name per input line.
func expandNames(args []string, in io.Reader) ([]string, error) {
	var names []string
	for _, arg := range args {
		if arg != "-" {
			names = append(names, arg)
			continue
		}
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				names = append(names, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading names from stdin: %w", err)
		}
	}
	return names, nil
}

// CreateCmd builds a canonical path name from metadata fields.
type CreateCmd struct {
	Sense      string `default:"generic" enum:"generic,reference,haplotype" help:"Path sense"`
	Sample     string `help:"Sample or assembly name"`
	Locus      string `required:"" help:"Contig, scaffold, or gene name"`
	Haplotype  int64  `default:"-1" help:"Haplotype number"`
	PhaseBlock int64  `name:"phase-block" default:"-1" help:"Phase block identifier"`
	Range      string `help:"Subrange as START or START-END"`
}

// Run executes the create command.
func (c *CreateCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *CreateCmd) run(out io.Writer) error {
	sense, err := handlegraph.ParseSense(c.Sense)
	if err != nil {
		return err
	}

	subrange, err := parseRange(c.Range)
	if err != nil {
		return err
	}

	name, err := handlegraph.CreatePathName(handlegraph.PathMetadata{
		Sense:      sense,
		Sample:     c.Sample,
		Locus:      c.Locus,
		Haplotype:  c.Haplotype,
		PhaseBlock: c.PhaseBlock,
		Subrange:   subrange,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, name)
	return nil
}

// parseRange reads a subrange flag value: empty, "START", or "START-END".
func parseRange(value string) (handlegraph.Subrange, error) {
	if value == "" {
		return handlegraph.NoSubrange, nil
	}

	startText, endText, hasEnd := strings.Cut(value, "-")
	start, err := strconv.ParseInt(startText, 10, 64)
	if err != nil {
		return handlegraph.NoSubrange, fmt.Errorf("invalid range start %q", startText)
	}

	subrange := handlegraph.Subrange{Start: start, End: handlegraph.NoEndPosition}
	if hasEnd {
		end, err := strconv.ParseInt(endText, 10, 64)
		if err != nil {
			return handlegraph.NoSubrange, fmt.Errorf("invalid range end %q", endText)
		}
		subrange.End = end
	}
	return subrange, nil
}

// checkCase is one entry of a check manifest: a name and the fields its
// parse is expected to produce. Nil fields are not checked.
type checkCase struct {
	Name       string  `yaml:"name"`
	Sense      *string `yaml:"sense"`
	Sample     *string `yaml:"sample"`
	Locus      *string `yaml:"locus"`
	Haplotype  *int64  `yaml:"haplotype"`
	PhaseBlock *int64  `yaml:"phase_block"`
	Range      *string `yaml:"range"`
	Canonical  bool    `yaml:"canonical"`
}

type checkManifest struct {
	Cases []checkCase `yaml:"cases"`
}

// CheckCmd batch-validates a YAML manifest of expected metadata.
type CheckCmd struct {
	File string `arg:"" type:"existingfile" help:"YAML manifest of names and expected fields"`
}

// Run executes the check command.
func (c *CheckCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *CheckCmd) run(out io.Writer) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	var manifest checkManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}
	if len(manifest.Cases) == 0 {
		return fmt.Errorf("manifest %s has no cases", c.File)
	}

	failed := 0
	for _, tc := range manifest.Cases {
		problems := checkOne(tc)
		if len(problems) == 0 {
			fmt.Fprintf(out, "%s %s\n", color.GreenString("PASS"), tc.Name)
			continue
		}
		failed++
		fmt.Fprintf(out, "%s %s\n", color.RedString("FAIL"), tc.Name)
		for _, problem := range problems {
			fmt.Fprintf(out, "     %s\n", problem)
		}
	}

	total := len(manifest.Cases)
	if failed > 0 {
		fmt.Fprintf(out, "\n%s\n", color.RedString("%d/%d checks passed", total-failed, total))
		return fmt.Errorf("%d of %d checks failed", failed, total)
	}
	fmt.Fprintf(out, "\n%s\n", color.GreenString("%d/%d checks passed", total, total))
	return nil
}

// checkOne parses a case's name and returns a description of every expected
// field that disagrees with the parse.
func checkOne(tc checkCase) []string {
	meta := handlegraph.ParsePathName(tc.Name)

	var problems []string
	mismatch := func(field string, want, got any) {
		problems = append(problems, fmt.Sprintf("%s: want %v, got %v", field, want, got))
	}

	if tc.Sense != nil && meta.Sense.String() != *tc.Sense {
		mismatch("sense", *tc.Sense, meta.Sense)
	}
	if tc.Sample != nil && meta.Sample != *tc.Sample {
		mismatch("sample", *tc.Sample, meta.Sample)
	}
	if tc.Locus != nil && meta.Locus != *tc.Locus {
		mismatch("locus", *tc.Locus, meta.Locus)
	}
	if tc.Haplotype != nil && meta.Haplotype != *tc.Haplotype {
		mismatch("haplotype", *tc.Haplotype, meta.Haplotype)
	}
	if tc.PhaseBlock != nil && meta.PhaseBlock != *tc.PhaseBlock {
		mismatch("phase_block", *tc.PhaseBlock, meta.PhaseBlock)
	}
	if tc.Range != nil {
		want, err := parseRange(*tc.Range)
		if err != nil {
			problems = append(problems, err.Error())
		} else if meta.Subrange != want {
			mismatch("range", want, meta.Subrange)
		}
	}
	if tc.Canonical {
		encoded, err := handlegraph.CreatePathName(meta)
		if err != nil {
			problems = append(problems, fmt.Sprintf("re-encoding: %v", err))
		} else if encoded != tc.Name {
			mismatch("canonical form", tc.Name, encoded)
		}
	}

	return problems
}

// CLI is the top-level command structure.
type CLI struct {
	Version kong.VersionFlag `help:"Show version information"`

	// Commands
	Parse  ParseCmd  `cmd:"" help:"Decode path names into metadata fields"`
	Create CreateCmd `cmd:"" help:"Build a canonical path name from fields"`
	Check  CheckCmd  `cmd:"" help:"Batch-validate a YAML manifest of expected metadata"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	parser, err := kong.New(c,
		kong.Name("pathmeta"),
		kong.Description("Structured path name parsing and validation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return kongCtx.Run()
}
