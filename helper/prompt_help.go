package helper

import (
	"fmt"
	"strings"

	"review_pal/log"
	"review_pal/model"
)

// The JSON contract shared by the line and file prompts. Keeping it in one
// place guarantees both modes mandate the exact same output shape.
const jsonReviewInstructions = `- Provide your feedback strictly in the following JSON format:
  {"reviews": [{"lineNumber": <line_number>, "reviewComment": "<review comment>"}]}
- The lineNumber is the line number in the new version of the file, exactly as labeled in the changes below.
- Provide comments ONLY for necessary improvements; if the code is optimal, return an empty "reviews" array.
- Do NOT write positive comments or praise.
- Write each comment in GitHub Markdown format.
- IMPORTANT: Do NOT suggest adding comments to the code.`

// CreateLinePrompt builds the instruction for reviewing a single added line.
func CreateLinePrompt(unit model.ChangeUnit, pr *model.PullRequestContext) string {
	log.Debugf("Begin to create line prompt for PR #%d, %s:%d", pr.PullNumber, unit.FilePath, unit.LineNumber)
	change := fmt.Sprintf("%d: %s", unit.LineNumber, unit.Content)
	return createJSONPrompt(unit.FilePath, change, pr)
}

// CreateFilePrompt builds the instruction for reviewing all added lines of a
// single file at once.
func CreateFilePrompt(file model.FileChangeSet, pr *model.PullRequestContext) string {
	log.Debugf("Begin to create file prompt for PR #%d, %s (%d lines)", pr.PullNumber, file.FilePath, len(file.Units))
	var changes []string
	for _, unit := range file.Units {
		changes = append(changes, fmt.Sprintf("%d: %s", unit.LineNumber, unit.Content))
	}
	return createJSONPrompt(file.FilePath, strings.Join(changes, "\n"), pr)
}

func createJSONPrompt(filePath, changes string, pr *model.PullRequestContext) string {
	return fmt.Sprintf(`Your task is to review pull requests. Instructions:
%s
- Focus your comments on code quality, bugs, logic errors, security, performance, and best practices.
- Assess whether the changes align with the pull request's title and description.

Reviewing file: %s

Pull request title: %s

Pull request description:
---
%s
---

Changes (new-file line number: content):
`+"```diff\n%s\n```"+`
`, jsonReviewInstructions, filePath, pr.Title, pr.Description, changes)
}

// CreatePullRequestPrompt builds the instruction for a whole-PR free-text
// report covering every changed file at once. The mandated output is a fixed
// section-headed report, not JSON.
func CreatePullRequestPrompt(files []model.FileChangeSet, pr *model.PullRequestContext) string {
	log.Debugf("Begin to create pull-request prompt for PR #%d (%d files)", pr.PullNumber, len(files))

	var diffLines []string
	for _, file := range files {
		diffLines = append(diffLines, fmt.Sprintf("diff --git a/%s b/%s", file.FilePath, file.FilePath))
		for _, unit := range file.Units {
			diffLines = append(diffLines, "+ "+unit.Content)
		}
	}

	return fmt.Sprintf(`You are an automated code review assistant. Your review output **must** follow the structure below **exactly**:

[AI Review]

**1. Overview**
(Briefly summarize this pull request and its main changes)

**2. Analysis**

2.1 Runtime errors
(Possible runtime failures: nil dereferences, index out of range, unhandled errors, etc.)

2.2 Performance
(Inefficient loops, redundant work, wasted resources, unoptimized database calls, etc.)

2.3 Code style and readability
(Readability, naming, dead code, formatting, function/type decomposition, etc.)

2.4 Security checklist
- Broken access control
- Cryptographic failures
- Injection
- Insecure design
- Security misconfiguration
- Vulnerable and outdated components
- Identification and authentication failures
- Software and data integrity failures
- Security logging and monitoring failures
- Server-side request forgery (SSRF)
- Unvalidated input handling
- Improper handling of sensitive data
- Sensitive information exposure (e.g. hardcoded credentials)
- Other security risks

(For the items above, list any findings or improvements; if there are none, state "Result: no vulnerabilities found")

**3. Conclusion**
(Final summary and overall opinion)

##IMPORTANT##:
- NEVER wrap the whole output in a code block (`+"```"+`) or JSON; output the text structure above as-is.
- Do NOT write positive comments or praise; only write where there is something to improve.
- If there is nothing at all to improve, write "Not found" in each section of part 2 and close part 3 without further suggestions.
- When commenting in part 2, show code suggestions like this (example):

Before:
`+"```go\nexisting code block\n```"+`

After:
`+"```go\nimproved code block\n```"+`

Pull request title: %s

Pull request description:
---
%s
---

Below is the full diff of the changed code in this pull request:
(diff start)
%s
(diff end)

Write your analysis following the structure above.
`, pr.Title, pr.Description, strings.Join(diffLines, "\n"))
}
