package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/dashgram/pkg/runner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

const sarifToolName = "dashgram"

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes one problem kind.
type SARIFRule struct {
	ID               string               `json:"id"`
	Name             string               `json:"name,omitempty"`
	ShortDescription SARIFMultiformatText `json:"shortDescription"`
	DefaultConfig    *SARIFRuleConfig     `json:"defaultConfiguration,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single problem.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
	CharOffset  int `json:"charOffset"`
	CharLength  int `json:"charLength"`
}

// sarifRules lists every problem kind the parser can record.
var sarifRules = []struct {
	kind        syntax.ProblemKind
	name        string
	description string
}{
	{syntax.ProblemUnexpected, "UnexpectedInput", "Input that fits no grammar rule was skipped."},
	{syntax.ProblemUnterminated, "UnterminatedConstruct", "A quote, expansion or here-document runs to end of input."},
	{syntax.ProblemMissing, "MissingToken", "A required token was absent and has been assumed."},
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		out:  opts.Writer,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.out)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	version := r.opts.ToolVersion
	if version == "" {
		version = "dev"
	}

	rules := make([]SARIFRule, 0, len(sarifRules))
	for _, rule := range sarifRules {
		rules = append(rules, SARIFRule{
			ID:               string(rule.kind),
			Name:             rule.name,
			ShortDescription: SARIFMultiformatText{Text: rule.description},
			DefaultConfig:    &SARIFRuleConfig{Level: kindToSARIFLevel(rule.kind)},
		})
	}

	output := &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []SARIFRun{{
			Tool: SARIFTool{
				Driver: SARIFDriver{
					Name:           sarifToolName,
					Version:        version,
					InformationURI: "https://github.com/yaklabco/dashgram",
					Rules:          rules,
				},
			},
			Results: make([]SARIFResult, 0),
		}},
	}

	if result == nil {
		return output
	}

	for _, file := range result.Files {
		if len(file.Findings) == 0 {
			continue
		}

		uri := displayPath(r.opts.WorkingDir, file.Path)
		host := syntax.NewTree(file.Path, file.Content, nil)

		for _, f := range file.Findings {
			endLine, endCol := host.LineAt(f.EndOffset)
			if endLine == 0 {
				endLine, endCol = f.Line, f.Column
			}

			output.Runs[0].Results = append(output.Runs[0].Results, SARIFResult{
				RuleID:  string(f.Kind),
				Level:   kindToSARIFLevel(f.Kind),
				Message: SARIFMessage{Text: f.Message},
				Locations: []SARIFLocation{{
					PhysicalLocation: SARIFPhysicalLocation{
						ArtifactLocation: SARIFArtifactLocation{URI: uri},
						Region: SARIFRegion{
							StartLine:   f.Line,
							StartColumn: f.Column,
							EndLine:     endLine,
							EndColumn:   endCol,
							CharOffset:  f.StartOffset,
							CharLength:  f.EndOffset - f.StartOffset,
						},
					},
				}},
			})
		}
	}

	return output
}

// kindToSARIFLevel converts a problem kind to a SARIF level. Assumed tokens
// leave a usable tree behind, so they are reported as warnings.
func kindToSARIFLevel(kind syntax.ProblemKind) string {
	switch kind {
	case syntax.ProblemUnexpected, syntax.ProblemUnterminated:
		return "error"
	case syntax.ProblemMissing:
		return "warning"
	default:
		return "note"
	}
}
