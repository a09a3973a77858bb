package nl2sql

import "strings"

const systemPromptTemplate = `You translate natural language questions into PostgreSQL queries.

Database schema:
%SCHEMA%

Rules:
- Generate only SELECT statements. Never modify data or schema.
- Reference only tables and columns present in the schema above.
- If the user did not specify a limit, add LIMIT 200 or less.
- Respond with a single JSON object of the form {"sql": "...", "notes": "..."} and nothing else. No markdown.`

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildMessages produces the fixed two-message prompt: a system instruction
// embedding the schema snapshot and the generation rules, and the user's
// question verbatim. The rules are advisory; the sanitizer is the actual
// enforcement point.
func BuildMessages(schemaText, question string) []Message {
	return []Message{
		{Role: "system", Content: strings.Replace(systemPromptTemplate, "%SCHEMA%", schemaText, 1)},
		{Role: "user", Content: question},
	}
}
