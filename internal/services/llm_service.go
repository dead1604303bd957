package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"

	"github.com/justsurfingit/brightpath/internal/dtos"
	"github.com/justsurfingit/brightpath/internal/errors"
	"github.com/justsurfingit/brightpath/internal/logger"
	"github.com/justsurfingit/brightpath/internal/models"
)

// maxEmailBody caps how much of an email is sent to the model.
const maxEmailBody = 8000

type LLMService struct {
	Client    llms.Model
	ModelName string
	Now       func() time.Time
	logger    *zap.SugaredLogger
}

// NewLLMService connects to Gemini with apiKey.
func NewLLMService(ctx context.Context, apiKey, model string, l *zap.SugaredLogger) (*LLMService, error) {
	if apiKey == "" {
		return nil, errors.WithHint(errors.New("llm.api_key is empty"), "set GEMINI_API_KEY or BRIGHTPATH_LLM_API_KEY")
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Gemini client")
	}
	return NewLLMServiceWithModel(llm, model, l), nil
}

// NewLLMServiceWithModel wraps an existing model.
func NewLLMServiceWithModel(model llms.Model, name string, l *zap.SugaredLogger) *LLMService {
	return &LLMService{Client: model, ModelName: name, Now: time.Now, logger: logger.OrNop(l)}
}

const coverLetterPrompt = `
You are an expert career coach writing a cover letter.

### INSTRUCTIONS:
1. Write a formal, one-page cover letter for the position below.
2. Start with the sender block (name, address, email, phone), then "[Date]", then the recipient block.
3. Keep it under 350 words. Do not invent degrees, employers or numbers.
4. Output plain text only. No markdown.

### POSITION:
Position: %s
Company: %s
Recipient: %s

### CANDIDATE:
Name: %s %s
Address: %s
Email: %s
Phone: %s
`

func (s *LLMService) GenerateCoverLetter(ctx context.Context, req dtos.CoverLetterRequest) (*dtos.GenerationResponse, error) {
	recipient := req.Recipient
	if recipient == "" {
		recipient = "Hiring Manager"
	}
	prompt := fmt.Sprintf(coverLetterPrompt,
		req.Position, req.Company, recipient,
		req.FirstName, req.LastName, req.Address, req.Email, req.Phone)

	text, usage, err := s.generate(ctx, prompt, llms.WithTemperature(0.7))
	if err != nil {
		return nil, err
	}
	return s.response("Cover letter generated", text, usage), nil
}

const professionalizePrompt = `
Rewrite the following text so it reads as professional, concise writing suitable for a resume or cover letter.
Keep the meaning and the first person. Do not add facts. Return only the rewritten text.

### CONTEXT:
%s

### TEXT:
%s
`

func (s *LLMService) Professionalize(ctx context.Context, req dtos.ProfessionalizeRequest) (*dtos.GenerationResponse, error) {
	prompt := fmt.Sprintf(professionalizePrompt, req.Context, req.OriginalText)
	text, usage, err := s.generate(ctx, prompt, llms.WithTemperature(0.3))
	if err != nil {
		return nil, err
	}
	return s.response("Text professionalized", text, usage), nil
}

// StatusVerdict is the model's reading of a recruiting email.
type StatusVerdict struct {
	Status  models.Status // empty when the email does not change the status
	Summary string
}

const emailStatusPrompt = `
You track job applications. Decide whether this email from %s changes the status of the application.

### STATUSES:
- "interview": the candidate is invited to an interview, assessment or call.
- "rejected": the company declines the application.
- "accepted": the company makes an offer.
- "NO_CHANGE": anything else (acknowledgements, newsletters, reminders).

### OUTPUT:
Valid JSON only, no markdown: {"status": "<one of the statuses>", "summary": "<one sentence>"}

### SUBJECT:
%s

### BODY:
%s
`

// AnalyzeEmailStatus asks the model which status an email implies.
func (s *LLMService) AnalyzeEmailStatus(ctx context.Context, company, subject, body string) (StatusVerdict, error) {
	if len(body) > maxEmailBody {
		body = body[:maxEmailBody]
	}
	text, _, err := s.generate(ctx, fmt.Sprintf(emailStatusPrompt, company, subject, body), llms.WithTemperature(0))
	if err != nil {
		return StatusVerdict{}, err
	}

	var raw struct {
		Status  string `json:"status"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return StatusVerdict{}, errors.Wrapf(err, "unreadable verdict %q", text)
	}

	verdict := StatusVerdict{Summary: raw.Summary}
	if st := models.Status(strings.ToLower(strings.TrimSpace(raw.Status))); st.Valid() {
		verdict.Status = st
	}
	return verdict, nil
}

const identifyPositionPrompt = `
A candidate applied to several positions at the same company. Which one is this email about?

### POSITIONS:
%s
### OUTPUT:
Only the number of the matching position, or -1 if the email does not say.

### SUBJECT:
%s

### BODY:
%s
`

// IdentifyPosition returns the index of the position the email is about, or -1.
func (s *LLMService) IdentifyPosition(ctx context.Context, positions []string, subject, body string) (int, error) {
	if len(body) > maxEmailBody {
		body = body[:maxEmailBody]
	}
	var list strings.Builder
	for i, p := range positions {
		fmt.Fprintf(&list, "%d. %s\n", i, p)
	}

	text, _, err := s.generate(ctx, fmt.Sprintf(identifyPositionPrompt, list.String(), subject, body), llms.WithTemperature(0))
	if err != nil {
		return -1, err
	}
	var idx int
	if _, err := fmt.Sscan(strings.TrimSpace(stripFences(text)), &idx); err != nil {
		return -1, errors.Wrapf(err, "unreadable position index %q", text)
	}
	if idx < 0 || idx >= len(positions) {
		return -1, nil
	}
	return idx, nil
}

func (s *LLMService) generate(ctx context.Context, prompt string, opts ...llms.CallOption) (string, *dtos.Usage, error) {
	resp, err := s.Client.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, opts...)
	if err != nil {
		return "", nil, errors.Wrap(err, "model call failed")
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil, errors.New("empty response from model")
	}
	choice := resp.Choices[0]
	usage := usageFrom(choice.GenerationInfo)
	if usage != nil {
		s.logger.Debugw("Model usage", "model", s.ModelName, "total_tokens", usage.TotalTokens)
	}
	return strings.TrimSpace(choice.Content), usage, nil
}

func (s *LLMService) response(message, content string, usage *dtos.Usage) *dtos.GenerationResponse {
	return &dtos.GenerationResponse{
		Message:     message,
		Content:     content,
		Model:       s.ModelName,
		GeneratedAt: s.Now().UTC(),
		Usage:       usage,
	}
}

// usageFrom reads token counts from provider metadata, if reported.
func usageFrom(info map[string]any) *dtos.Usage {
	prompt, okP := intFrom(info, "input_tokens", "PromptTokens")
	completion, okC := intFrom(info, "output_tokens", "CompletionTokens")
	total, okT := intFrom(info, "total_tokens", "TotalTokens")
	if !okP && !okC && !okT {
		return nil
	}
	if !okT {
		total = prompt + completion
	}
	return &dtos.Usage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: total}
}

func intFrom(info map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		switch v := info[k].(type) {
		case int:
			return v, true
		case int32:
			return int(v), true
		case int64:
			return int(v), true
		case float64:
			return int(v), true
		}
	}
	return 0, false
}

// stripFences removes a markdown code fence around model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
