package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"stylint/internal/diag"
	"stylint/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID                   string         `json:"id"`
	ShortDescription     sarifMessage   `json:"shortDescription"`
	DefaultConfiguration *sarifRuleConf `json:"defaultConfiguration,omitempty"`
}

type sarifRuleConf struct {
	Level string `json:"level"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        *int            `json:"ruleIndex,omitempty"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations,omitempty"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	ID               *int                  `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

func sarifLevel(s diag.Severity) string {
	if s == diag.SevError {
		return "error"
	}
	return "warning"
}

func sarifLoc(fs *source.FileSet, span source.Span) (sarifLocation, bool) {
	file, sp, ok := makeSpanMode(fs, span, PathModeRelative)
	if !ok {
		return sarifLocation{}, false
	}
	return sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifact{URI: filepath.ToSlash(file)},
			Region: sarifRegion{
				StartLine:   sp.StartLine,
				StartColumn: sp.StartCol,
				EndLine:     sp.EndLine,
				EndColumn:   sp.EndCol,
			},
		},
	}, true
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0): один run, правила
// из meta.Rules, заметки как relatedLocations.
func Sarif(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, meta SarifRunMeta) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           meta.ToolName,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
		}},
		Results: make([]sarifResult, 0, len(diags)),
	}
	ruleIndex := make(map[string]int, len(meta.Rules))
	for i, r := range meta.Rules {
		rule := sarifRule{ID: r.ID, ShortDescription: sarifMessage{Text: r.Description}}
		if r.Severity != "" {
			rule.DefaultConfiguration = &sarifRuleConf{Level: r.Severity}
		}
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, rule)
		ruleIndex[r.ID] = i
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}

	for i := range diags {
		d := &diags[i]
		res := sarifResult{
			RuleID:  d.Rule,
			Level:   sarifLevel(d.Severity),
			Message: sarifMessage{Text: d.Message},
		}
		if idx, ok := ruleIndex[d.Rule]; ok {
			res.RuleIndex = &idx
		}
		if loc, ok := sarifLoc(fs, d.Primary); ok {
			res.Locations = []sarifLocation{loc}
		}
		for j, n := range d.Notes {
			loc, ok := sarifLoc(fs, n.Span)
			if !ok {
				continue
			}
			id := j
			loc.ID = &id
			loc.Message = &sarifMessage{Text: n.Msg}
			res.RelatedLocations = append(res.RelatedLocations, loc)
		}
		run.Results = append(run.Results, res)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}
