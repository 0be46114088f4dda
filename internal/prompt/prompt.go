// Package prompt builds the query text for each command and detects
// source languages from file names.
package prompt

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind labels which command produced a prompt. Stored with archived
// runs so history can tell a review apart from a plain question.
type Kind string

const (
	KindAsk      Kind = "ask"
	KindReview   Kind = "review"
	KindDiagnose Kind = "diagnose"
	KindPing     Kind = "ping"
)

// Ping is the connectivity-check prompt sent by "quorum ping".
const Ping = "Hello, please respond with the exact phrase 'Connection successful'."

// Review wraps source code in a code-review request.
func Review(code, language string) string {
	return fmt.Sprintf(`Review the following %[1]s code thoroughly:

`+"```%[1]s\n%[2]s\n```"+`

Cover these angles:
1. Code quality and style
2. Performance
3. Security
4. Maintainability
5. Potential bugs

Give concrete improvement suggestions and recommend best practices.`, language, strings.TrimRight(code, "\n"))
}

// Diagnose wraps an error message, optionally with the code that
// produced it, in a root-cause analysis request.
func Diagnose(errMessage, code, language string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following error:\n\nError message:\n")
	sb.WriteString(errMessage)
	if code != "" {
		fmt.Fprintf(&sb, "\n\nRelated code:\n```%s\n%s\n```", language, strings.TrimRight(code, "\n"))
	}
	sb.WriteString(`

Provide:
1. Root cause analysis
2. A concrete fix
3. How to prevent it
4. Related best practices`)
	return sb.String()
}

var extLanguages = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".java":  "java",
	".cpp":   "cpp",
	".c":     "c",
	".cs":    "csharp",
	".php":   "php",
	".rb":    "ruby",
	".go":    "go",
	".rs":    "rust",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".sh":    "bash",
	".sql":   "sql",
	".html":  "html",
	".css":   "css",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".xml":   "xml",
	".md":    "markdown",
}

// DetectLanguage guesses a language name from a file extension,
// falling back to "text".
func DetectLanguage(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if lang, ok := extLanguages[ext]; ok {
		return lang
	}
	return "text"
}
