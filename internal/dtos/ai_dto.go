package dtos

import "time"

type CoverLetterRequest struct {
	Position  string `json:"position" binding:"required"`
	Company   string `json:"company" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Recipient string `json:"recipient"`
}

type ProfessionalizeRequest struct {
	OriginalText string `json:"originalText" binding:"required"`
	Context      string `json:"context"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type GenerationResponse struct {
	Message     string    `json:"message"`
	Content     string    `json:"content"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`
	Usage       *Usage    `json:"usage,omitempty"`
}
