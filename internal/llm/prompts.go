package llm

import _ "embed"

//go:embed prompts/detect_v1.txt
var promptDetectV1 string

// PromptTemplate returns the prompt template text and whether the version was recognized.
func PromptTemplate(version string) (string, bool) {
	switch version {
	case "detect_v1":
		return promptDetectV1, true
	default:
		return promptDetectV1, false
	}
}
