package types

import (
	"fmt"
	"time"
)

// Category is the closed set of discovery kinds
type Category string

const (
	CategoryTool           Category = "tool"
	CategoryIntegration    Category = "integration"
	CategoryInfrastructure Category = "infrastructure"
	CategorySkill          Category = "skill"
	CategoryWorkflow       Category = "workflow"
)

// ParseCategory validates a raw category string against the closed set
func ParseCategory(raw string) (Category, error) {
	switch c := Category(raw); c {
	case CategoryTool, CategoryIntegration, CategoryInfrastructure, CategorySkill, CategoryWorkflow:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// SecurityVerdict records the state of the downstream security review
type SecurityVerdict string

const (
	SecurityBenign     SecurityVerdict = "benign"
	SecurityMalicious  SecurityVerdict = "malicious"
	SecurityUnverified SecurityVerdict = "unverified"
	SecurityPending    SecurityVerdict = "pending"
)

// Scores holds the five per-axis judge scores, each in [0,1]
type Scores struct {
	Utility         float64 `json:"utility"`
	Downloadability float64 `json:"downloadability"`
	Specificity     float64 `json:"specificity"`
	Signal          float64 `json:"signal"`
	Novelty         float64 `json:"novelty"`
}

// Axes returns the scores in a fixed order paired with their names
func (s Scores) Axes() []Axis {
	return []Axis{
		{"utility", s.Utility},
		{"downloadability", s.Downloadability},
		{"specificity", s.Specificity},
		{"signal", s.Signal},
		{"novelty", s.Novelty},
	}
}

// Axis is a single named score
type Axis struct {
	Name  string
	Value float64
}

// JudgeVerdict is the validated per-item output of the quality judge
type JudgeVerdict struct {
	Actionable  bool     `json:"actionable"`
	Confidence  float64  `json:"confidence"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	OneLiner    string   `json:"one_liner"`
	ValueProp   string   `json:"value_prop"`
	InstallHint string   `json:"install_hint"`
	SkipReason  string   `json:"skip_reason,omitempty"`
	Scores      Scores   `json:"scores"`
}

// QualityScore is the per-axis breakdown attached to a Discovery. Total is the axis sum, in [0,5].
type QualityScore struct {
	Scores
	Total float64 `json:"total"`
}

// NewQualityScore builds a breakdown from judge scores
func NewQualityScore(s Scores) *QualityScore {
	total := 0.0
	for _, a := range s.Axes() {
		total += a.Value
	}
	if total > 5 {
		total = 5
	}
	if total < 0 {
		total = 0
	}
	return &QualityScore{Scores: s, Total: total}
}

// SourceRef describes where a Discovery came from
type SourceRef struct {
	URL    string     `json:"url"`
	Type   string     `json:"type"`
	Author string     `json:"author,omitempty"`
	Date   *time.Time `json:"date,omitempty"`
}

// SignalRef summarises community engagement
type SignalRef struct {
	Engagement int  `json:"engagement"`
	Comments   int  `json:"comments"`
	Trending   bool `json:"trending"`
}

// Discovery is the canonical curated record handed to publication
type Discovery struct {
	ID           string          `json:"id"`
	Category     Category        `json:"category"`
	Title        string          `json:"title"`
	OneLiner     string          `json:"oneLiner"`
	Description  string          `json:"description"`
	Rationale    string          `json:"rationale"`
	Impact       string          `json:"impact"`
	InstallSteps []string        `json:"installSteps"`
	InstallTime  string          `json:"installTime"`
	Source       SourceRef       `json:"source"`
	Signal       SignalRef       `json:"signal"`
	QualityScore *QualityScore   `json:"qualityScore,omitempty"`
	Security     SecurityVerdict `json:"securityVerdict"`
}

// ScoreTotal returns the quality total, or 0 when the discovery was never scored
func (d Discovery) ScoreTotal() float64 {
	if d.QualityScore == nil {
		return 0
	}
	return d.QualityScore.Total
}
