package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/careerprep/backend/internal/domain/category"
	"github.com/careerprep/backend/internal/domain/questionbank"
)

// OllamaGrader rates answers by calling an OpenAI-compatible LLM endpoint
// (Ollama, LM Studio, vLLM, etc.).
type OllamaGrader struct {
	url    string       // e.g. "http://localhost:1234"
	model  string       // e.g. "qwen3-8b"
	client *http.Client // reused across calls
}

// Compile-time check: *OllamaGrader satisfies the Grader interface.
var _ Grader = (*OllamaGrader)(nil)

// GradeError is returned when grading fails so the caller can distinguish
// between "LLM returned a bad grade" and "LLM was unreachable."
type GradeError struct {
	Reason  string
	Wrapped error
}

func (e *GradeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("grading failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("grading failed: %s", e.Reason)
}

func (e *GradeError) Unwrap() error {
	return e.Wrapped
}

// NewOllamaGrader creates a grader that calls the given LLM endpoint.
func NewOllamaGrader(url, model string, timeout time.Duration) *OllamaGrader {
	return &OllamaGrader{
		url:   strings.TrimRight(url, "/"),
		model: model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

const maxRetries = 2

// GradeAnswer asks the model to rate the answer from 0 to 100.
// It retries once on parse failure (small models sometimes need a second try).
func (g *OllamaGrader) GradeAnswer(ctx context.Context, question questionbank.Question, answer string) (GradeResult, error) {
	prompt := buildPrompt(question, answer)

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		raw, err := g.callLLM(ctx, prompt)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		jsonStr := extractJSON(raw)
		if jsonStr == "" {
			lastErr = &GradeError{Reason: "no JSON object found in LLM response"}
			continue
		}

		var result GradeResult
		if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
			lastErr = &GradeError{Reason: "invalid JSON from LLM", Wrapped: err}
			continue
		}

		result.Score = Clamp(result.Score)
		return result, nil
	}

	return GradeResult{}, &GradeError{
		Reason:  fmt.Sprintf("failed after %d attempts", maxRetries),
		Wrapped: lastErr,
	}
}

// ============================================================================
// LLM communication
// ============================================================================

type llmRequest struct {
	Model       string       `json:"model"`
	Messages    []llmMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
}

type llmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llmResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// callLLM sends a single request to the LLM and returns the raw text response.
func (g *OllamaGrader) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := llmRequest{
		Model: g.model,
		Messages: []llmMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM returned status %d", resp.StatusCode)
	}

	var llmResp llmResponse
	if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
		return "", fmt.Errorf("failed to decode LLM response: %w", err)
	}

	if len(llmResp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	content := llmResp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("LLM returned empty content")
	}

	return content, nil
}

// extractJSON finds the outermost JSON object in a string.
// It handles nested braces and skips braces inside quoted strings.
func extractJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// ============================================================================
// Prompts: short and directive, tuned for small (4-8B) models.
// ============================================================================

func rubricFor(c category.Category) string {
	switch c {
	case category.SoftSkills:
		return `RUBRIC:
- Does the answer describe a concrete situation, the candidate's task, the actions taken and the result?
- Does the candidate take ownership and reflect on what they learned?
- Vague or hypothetical answers score lower than specific past examples.`
	case category.Technical:
		return `RUBRIC:
- Is the answer technically accurate?
- Does it explain decisions and trade-offs rather than only naming tools?
- Does it show depth appropriate to the question's difficulty?`
	default:
		return `RUBRIC:
- Is the answer clear, relevant and well structured?
- Does it connect the candidate's experience to the role?
- Is it concise without being evasive?`
	}
}

func buildPrompt(q questionbank.Question, answer string) string {
	return fmt.Sprintf(`/no_think
You are an interview coach rating a candidate's answer to a %s interview question (difficulty: %s).

%s

QUESTION:
%s

CANDIDATE'S ANSWER:
%s

Respond with ONLY this JSON, no explanation, no markdown:
{"score": <integer 0-100>, "strengths": ["...", ...], "improvements": ["...", ...]}`,
		q.Category, q.Difficulty, rubricFor(q.Category), q.Text, strings.TrimSpace(answer))
}
