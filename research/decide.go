package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"toolscout/fetch"
	"toolscout/llm"
	"toolscout/types"
)

// Decision statuses
const (
	StatusDone   = "done"
	StatusFollow = "follow"
)

// Hop is one fetched page in the research trail
type Hop struct {
	URL  string
	Text string
}

// Decision is the model's answer after a hop
type Decision struct {
	Status string              `json:"status"`
	URL    string              `json:"url,omitempty"`
	Reason string              `json:"reason,omitempty"`
	Brief  types.ResearchBrief `json:"brief"`
}

const decideSystem = `You research developer tools for a curated newsletter. You are given the pages visited so far and the links visible on the latest page.
Decide whether you know enough to write a brief or should open exactly one more link.
Reply with a single JSON object and nothing else, in one of two shapes:
{"status":"done","brief":{"summary":"what it is and who it is for","install":"exact install or setup commands","docs_url":"best documentation URL","caveats":"limits, pricing, maturity"}}
{"status":"follow","url":"<one URL copied from the link list>","reason":"what you expect to find there"}
Prefer links to installation docs, READMEs, quickstarts and pricing pages. Leave brief fields empty rather than guessing.`

const finalNote = "No more links can be opened. Reply with status \"done\" and the best brief you can write from the pages above."

// Decide asks the model what to do next. It has no side effects beyond the model call:
// the same hops, links and replies always produce the same decision.
// Any error or unparseable reply is a done decision with an empty brief.
func Decide(ctx context.Context, model llm.Client, hops []Hop, links []fetch.Link) Decision {
	if model == nil {
		return Decision{Status: StatusDone}
	}
	raw, err := model.Complete(ctx, decideSystem, buildPrompt(hops, links))
	if err != nil {
		return Decision{Status: StatusDone}
	}
	return parseDecision(raw)
}

func buildPrompt(hops []Hop, links []fetch.Link) string {
	var b strings.Builder
	for i, h := range hops {
		fmt.Fprintf(&b, "## Page %d: %s\n%s\n\n", i+1, h.URL, h.Text)
	}
	if len(links) == 0 {
		b.WriteString(finalNote)
		return b.String()
	}
	b.WriteString("## Links on the latest page\n")
	for _, l := range links {
		if l.Label != "" {
			fmt.Fprintf(&b, "- %s (%s)\n", l.URL, l.Label)
		} else {
			fmt.Fprintf(&b, "- %s\n", l.URL)
		}
	}
	return b.String()
}

func parseDecision(raw string) Decision {
	body := llm.ExtractJSON(raw)
	if body == "" {
		return Decision{Status: StatusDone}
	}
	var d Decision
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		return Decision{Status: StatusDone}
	}
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
	switch d.Status {
	case StatusFollow:
		d.URL = strings.TrimSpace(d.URL)
		d.Brief = types.ResearchBrief{}
	case StatusDone:
		d.Brief = trimBrief(d.Brief)
	default:
		return Decision{Status: StatusDone}
	}
	return d
}

func trimBrief(b types.ResearchBrief) types.ResearchBrief {
	return types.ResearchBrief{
		Summary: strings.TrimSpace(b.Summary),
		Install: strings.TrimSpace(b.Install),
		DocsURL: strings.TrimSpace(b.DocsURL),
		Caveats: strings.TrimSpace(b.Caveats),
	}
}

// FormatBrief renders a brief as labelled lines, skipping empty fields
func FormatBrief(b types.ResearchBrief) string {
	var lines []string
	add := func(label, v string) {
		if v != "" {
			lines = append(lines, label+": "+v)
		}
	}
	add("Summary", b.Summary)
	add("Install", b.Install)
	add("Docs", b.DocsURL)
	add("Caveats", b.Caveats)
	return strings.Join(lines, "\n")
}
