// Package prompt builds the instruction payloads sent to the inference
// engine. Builders are pure: no I/O, no state, same input same output.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mealscribe/backend/internal/schema"
)

// Message is one chat message in an engine prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResolvedAnswer pairs a user's answer with the question text it targeted,
// resolved against the current recipe's questions list. Question is nil
// when the index no longer points at a live question.
type ResolvedAnswer struct {
	Index    int     `json:"index"`
	Question *string `json:"question"`
	Answer   string  `json:"answer"`
}

// Normalize builds the first-pass prompt: raw notes in, structured recipe
// out. The notes are passed verbatim as their own message so any source
// spans the engine returns remain valid offsets into that exact text.
func Normalize(notes string, system schema.MeasurementSystem) []Message {
	instructions := strings.Join([]string{
		"You are an assistant that converts messy recipe notes into a complete, structured recipe JSON.",
		"",
		fmt.Sprintf("Measurement system to output: %s.", system),
		"",
		"Hard rules:",
		"- Output MUST be a single JSON object that matches the provided schema exactly (no markdown, no commentary).",
		"- Do NOT invent critical details. If the notes do not contain (or strongly imply) a value, add a question instead.",
		"- Critical details include: primary cooking method, oven/stovetop temperature, cook time, key quantities, and servings.",
		"",
		"Inference policy:",
		"- You MAY infer obvious standard steps (e.g., 'preheat oven' when baking temperature is given) and mark inferred=true.",
		"- You MUST ask questions when the missing info materially affects outcome or safety (time/temp/major quantities).",
		"",
		"Questions:",
		"- Put clarification questions in recipe.questions[] as short, direct questions.",
		"- If multiple missing items exist, ask the smallest set of questions needed to proceed.",
		"",
		"Source spans:",
		"- If you can confidently tie an ingredient or step to a substring of the notes, include sourceSpans with {start,end} character indices into sourceText.",
		"- If not confident, leave sourceSpans empty. Do not guess spans.",
		"",
		"Quality checklist (before you answer):",
		"- Ingredients list is concrete and usable.",
		"- Steps are ordered, imperative, and not redundant.",
		"- Times/temps are consistent with the chosen measurement system (F for US, C for METRIC).",
		"- If anything essential is unknown, it appears as a question instead of a made-up value.",
	}, "\n")

	return []Message{
		{Role: "system", Content: instructions},
		{Role: "user", Content: "Recipe notes (raw):\n" + notes},
	}
}

// Update builds the reconciliation prompt: the current recipe plus the
// resolved answers, with rules that confine the engine to those answers.
func Update(recipe *schema.Recipe, answers []ResolvedAnswer) ([]Message, error) {
	instructions := strings.Join([]string{
		"You are an assistant that updates an existing structured recipe JSON.",
		"A previous step produced recipe JSON and a list of clarification questions in recipe.questions[].",
		"The user answered some of those questions. Update the recipe using ONLY those answers.",
		"",
		"Hard rules:",
		"- Output MUST be a single JSON object matching the schema exactly. No markdown, no extra text.",
		"- Preserve fields that are not affected by the answers.",
		"- Do not invent critical details. If an answer is ambiguous or insufficient, keep or add a question instead.",
		"- Remove questions that are fully answered from recipe.questions[]. Keep unanswered ones.",
		"",
		"Inference policy:",
		"- If an answer explicitly confirms something, set inferred=false for any fields/steps/ingredients that were previously inferred.",
		"- Only change sourceSpans if you are confident; otherwise keep existing sourceSpans as-is.",
	}, "\n")

	recipeJSON, err := json.Marshal(recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recipe: %w", err)
	}
	answersJSON, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}

	user := strings.Join([]string{
		"Current recipe JSON:\n" + string(recipeJSON),
		"User answers (index refers to recipe.questions[] in the current recipe):\n" + string(answersJSON),
		"Return the updated recipe JSON only.",
	}, "\n\n")

	return []Message{
		{Role: "system", Content: instructions},
		{Role: "user", Content: user},
	}, nil
}
