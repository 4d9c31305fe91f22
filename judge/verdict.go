package judge

import (
	"encoding/json"
	"fmt"
	"strings"

	"toolscout/llm"
	"toolscout/types"
)

// rawVerdict mirrors the model's reply before validation. Pointers detect missing fields.
type rawVerdict struct {
	Index       *int     `json:"index"`
	Actionable  *bool    `json:"actionable"`
	Confidence  *float64 `json:"confidence"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	OneLiner    string   `json:"one_liner"`
	ValueProp   string   `json:"value_prop"`
	InstallHint string   `json:"install_hint"`
	SkipReason  string   `json:"skip_reason"`
	Scores      *struct {
		Utility         *float64 `json:"utility"`
		Downloadability *float64 `json:"downloadability"`
		Specificity     *float64 `json:"specificity"`
		Signal          *float64 `json:"signal"`
		Novelty         *float64 `json:"novelty"`
	} `json:"scores"`
}

// parseVerdicts decodes a batch reply into n slots. Slots without a valid verdict stay nil.
func parseVerdicts(raw string, n int) ([]*types.JudgeVerdict, error) {
	out := make([]*types.JudgeVerdict, n)
	body := llm.ExtractJSON(raw)
	if body == "" {
		return out, fmt.Errorf("no JSON in judge reply")
	}

	var list []json.RawMessage
	if strings.HasPrefix(body, "[") {
		if err := json.Unmarshal([]byte(body), &list); err != nil {
			return out, fmt.Errorf("decode verdict list: %w", err)
		}
	} else {
		var wrapped struct {
			Verdicts []json.RawMessage `json:"verdicts"`
		}
		if err := json.Unmarshal([]byte(body), &wrapped); err != nil {
			return out, fmt.Errorf("decode verdict object: %w", err)
		}
		list = wrapped.Verdicts
	}

	for pos, item := range list {
		var rv rawVerdict
		if err := json.Unmarshal(item, &rv); err != nil {
			continue
		}
		idx := pos
		if rv.Index != nil {
			idx = *rv.Index
		}
		if idx < 0 || idx >= n || out[idx] != nil {
			continue
		}
		if v, ok := rv.validate(); ok {
			out[idx] = v
		}
	}
	return out, nil
}

// validate enforces the verdict schema: required fields present, scores in [0,1],
// category from the closed set when the item is actionable
func (rv rawVerdict) validate() (*types.JudgeVerdict, bool) {
	if rv.Actionable == nil || rv.Confidence == nil || rv.Scores == nil {
		return nil, false
	}
	if !unit(*rv.Confidence) {
		return nil, false
	}
	s := rv.Scores
	for _, p := range []*float64{s.Utility, s.Downloadability, s.Specificity, s.Signal, s.Novelty} {
		if p == nil || !unit(*p) {
			return nil, false
		}
	}

	category, err := types.ParseCategory(strings.ToLower(strings.TrimSpace(rv.Category)))
	if err != nil {
		if *rv.Actionable {
			return nil, false
		}
		category = types.CategoryTool
	}

	v := &types.JudgeVerdict{
		Actionable:  *rv.Actionable,
		Confidence:  *rv.Confidence,
		Category:    category,
		Title:       strings.TrimSpace(rv.Title),
		OneLiner:    strings.TrimSpace(rv.OneLiner),
		ValueProp:   strings.TrimSpace(rv.ValueProp),
		InstallHint: strings.TrimSpace(rv.InstallHint),
		Scores: types.Scores{
			Utility:         *s.Utility,
			Downloadability: *s.Downloadability,
			Specificity:     *s.Specificity,
			Signal:          *s.Signal,
			Novelty:         *s.Novelty,
		},
	}
	if !v.Actionable {
		v.SkipReason = strings.TrimSpace(rv.SkipReason)
	}
	return v, true
}

func unit(f float64) bool { return f >= 0 && f <= 1 }
