package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"bmgrades.app/tracker/common/llm"
)

const systemPrompt = "You read Swiss Berufsmaturität school documents and answer with a single JSON object. No preamble, no markdown."

// salAnswer and bulletinAnswer describe the expected answers. They only feed
// the schema embedded in the prompt; parsing stays lenient.
type salAnswer struct {
	Semester string    `json:"semester" jsonschema:"enum=current"`
	Controls []Control `json:"controls"`
}

type bulletinAnswer struct {
	Semester int                `json:"semester" jsonschema:"minimum=1"`
	Grades   map[string]float64 `json:"grades"`
}

const bulletinInstructions = `Analyze this report card (bulletin). Extract ONLY the subjects and their grades, and the semester number printed on it.

Answer with JSON matching this schema:
%s

Possible subjects: %s.

If you don't find information, answer {"error": "<description>"}.`

const salInstructions = `Analyze this SAL screenshot (list of assessments). Extract ALL assessments with their subject, date, name and grade. Use "current" as the semester.

Answer with JSON matching this schema:
%s

Rules:
- IGNORE every line whose subject starts with a number (e.g. "129-INP", "202-MAT").
- Deduce the subject from the assessment name and/or the start of the subject label.
- Write dates as YYYY-MM-DD if possible, otherwise DD.MM.YYYY.
- Use ONLY these canonical subject names: %s.

Mappings (answer with the canonical name):
- DEU/Deutsch -> Deutsch
- ENG/Englisch -> Englisch
- FRA/Französisch -> Französisch
- MS/MG/Mathematik -> Mathematik
- NWCH/NWPH -> Naturwissenschaften
- FRW/Finanz -> Finanz- und Rechnungswesen
- WR/Wirtschaft -> Wirtschaft und Recht
- GE/Geschichte -> Geschichte und Politik
- IDAF/Interdisziplinär -> Interdisziplinäres Arbeiten in den Fächern

If you don't find information, answer {"error": "<description>"}.`

// Prompt builds the user prompt for mode. subjects lists the canonical names
// the model may use.
func Prompt(mode Mode, subjects []string) (string, error) {
	var (
		schema       any
		instructions string
	)
	switch mode {
	case ModeSAL:
		schema, instructions = llm.GenerateSchema[salAnswer](), salInstructions
	case ModeBulletin:
		schema, instructions = llm.GenerateSchema[bulletinAnswer](), bulletinInstructions
	default:
		return "", fmt.Errorf("unknown scan mode %q", mode)
	}

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s schema: %w", mode, err)
	}
	return fmt.Sprintf(instructions, b, strings.Join(subjects, ", ")), nil
}
