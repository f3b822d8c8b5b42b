package merge

import (
	"os"
	"strings"

	config "llm-ensemble/internal/config"
	runner "llm-ensemble/internal/runner"
)

// DefaultInstruction is the built-in merge instruction. It ends mid-sentence
// on purpose: the composer appends the original prompt directly after it.
const DefaultInstruction = `You are given:
1) The user's original prompt.
2) Multiple candidate answers generated by different models and/or runs.

Task:
- Produce a single best final answer to the user's original prompt.
- Combine the strongest parts of the candidates, fix mistakes, resolve contradictions.
- If something is uncertain, say so plainly.
- Do NOT mention the candidates, tools, or your merging process.
- Output ONLY the final answer.

USER PROMPT:
<<<
`

// Candidate is one (label, text) pair in canonical order. Failed tasks keep
// their sentinel text; the merge step sees them intentionally.
type Candidate struct {
	Label string
	Text  string
}

// Request holds everything the composer needs to build one merge prompt.
type Request struct {
	Instruction string
	Prompt      string
	Candidates  []Candidate
}

// ResolveInstruction applies the resolution order: explicit file, then
// explicit text, then the built-in default. Supplying both is rejected
// earlier by config validation; a missing file is a configuration error
// because it is detectable before any task runs.
func ResolveInstruction(text, file string) (string, error) {
	if file = strings.TrimSpace(file); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", config.Errorf("merge prompt file not readable: %v", err)
		}
		return string(data), nil
	}
	if text != "" {
		return text, nil
	}
	return DefaultInstruction, nil
}

// NewRequest builds a Request from dispatch results, which arrive already in
// canonical order.
func NewRequest(instruction, prompt string, results []runner.Result) Request {
	req := Request{Instruction: instruction, Prompt: prompt}
	for _, res := range results {
		req.Candidates = append(req.Candidates, Candidate{
			Label: res.Task.BaseName(),
			Text:  res.Text,
		})
	}
	return req
}

// Compose assembles the merge prompt. The output is a pure function of the
// request: candidate order is the canonical order and nothing is truncated.
func (r Request) Compose() string {
	var b strings.Builder
	b.WriteString(r.Instruction)
	b.WriteString(r.Prompt)
	b.WriteString("\n>>>\n\nCANDIDATE ANSWERS:\n")

	for _, c := range r.Candidates {
		b.WriteString("\n--- ")
		b.WriteString(c.Label)
		b.WriteString(" ---\n<<<\n")
		b.WriteString(c.Text)
		b.WriteString("\n>>>\n")
	}

	b.WriteString("\n\nFINAL ANSWER (output only this):\n")
	return b.String()
}
