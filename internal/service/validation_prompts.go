package service

import "fmt"

// Prompt definitions for hybrid remote validation.

// ValidationPromptTemplate asks a remote model to review a local
// model's answer. The reviewer sees the original question and the
// candidate answer, never any tenant context beyond them.
const ValidationPromptTemplate = `You are reviewing an answer produced by a smaller local model.

## Original question

%s

## Candidate answer

%s

## Your task

1. Rate the answer from 1 to 10 for correctness and completeness.
2. List any factual errors or important omissions.
3. If the answer is wrong or incomplete, give a corrected answer.

Start your reply with "Rating: N/10" on its own line.`

// BuildValidationPrompt constructs the validation prompt with truncated
// previews. prompt: max 3000 chars, answer: max 6000 chars.
func BuildValidationPrompt(prompt, answer string) string {
	promptPreview := prompt
	if len(promptPreview) > 3000 {
		promptPreview = promptPreview[:3000] + "..."
	}
	answerPreview := answer
	if len(answerPreview) > 6000 {
		answerPreview = answerPreview[:6000] + "..."
	}
	return fmt.Sprintf(ValidationPromptTemplate, promptPreview, answerPreview)
}
