package openai

import (
	"fmt"
	"log"
	"strings"

	"workforce-backend/internal/llm"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const systemPromptStrict = "You are a workforce issue detection engine. Respond with JSON only. No markdown. Never omit keys. Output must match the schema exactly."

// BuildPrompt creates the chat messages for a pattern detection request.
func BuildPrompt(promptVersion string, digest string) []Message {
	template := resolvePromptTemplate(promptVersion)
	return []Message{
		{Role: "system", Content: systemPromptStrict},
		{Role: "developer", Content: template},
		{Role: "user", Content: buildUserPrompt(digest)},
	}
}

func resolvePromptTemplate(promptVersion string) string {
	version := strings.TrimSpace(promptVersion)
	template, ok := llm.PromptTemplate(version)
	if !ok && version != "" {
		log.Printf("unknown prompt version %q, defaulting to detect_v1", version)
	}
	return template
}

func buildUserPrompt(digest string) string {
	return fmt.Sprintf("Operational snapshot digest:\n%s\n\nReturn the issues JSON object now.", digest)
}
