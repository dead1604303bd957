package aiclient

import (
	"fmt"
	"strings"
	"time"
)

const mockModel = "gemini-2.0-flash (mock)"

var coverLetterTemplate = `%[1]s %[2]s
%[3]s
%[4]s
%[5]s

[Date]

%[6]s%[7]s

Subject: Application for the %[8]s position

Dear Hiring Manager,

I am writing to submit my application for the %[8]s position at %[7]s, a company whose reputation for excellence and innovation is well established.

I am currently looking for a challenging role, and my solid experience in web development and modern technologies would allow me to bring real value to your team.

I am particularly drawn to the culture of innovation at %[7]s and to the technical challenges this role represents. I am confident that my full-stack skills, adaptability and passion for new technologies would help you meet them.

I would welcome the opportunity to discuss my motivation and background with you in an interview.

Yours sincerely,

%[1]s %[2]s`

func mockCoverLetter(req CoverLetterRequest, now time.Time) *Response {
	recipient := ""
	if req.Recipient != "" {
		recipient = req.Recipient + "\n"
	}
	return &Response{
		Message: "Cover letter generated (mock mode)",
		Content: fmt.Sprintf(coverLetterTemplate,
			req.FirstName, req.LastName, req.Address, req.Email, req.Phone,
			recipient, req.Company, req.Position),
		Model:       mockModel,
		GeneratedAt: now.UTC(),
		Usage:       &Usage{PromptTokens: 245, CompletionTokens: 312, TotalTokens: 557},
	}
}

// informal wording and its professional replacement, longest phrases first.
var professionalWording = strings.NewReplacer(
	"had the chance to", "had the opportunity to",
	"a bunch of", "several",
	"lots of", "numerous",
	"a lot of", "a wide range of",
	"worked in", "worked within",
	"messed around with", "experimented with",
	"hacked on", "worked on",
	"helped out", "contributed",
	"stuff", "work",
	"pretty good", "proficient",
	"kind of", "somewhat",
)

func mockProfessionalize(req ProfessionalizeRequest, now time.Time) *Response {
	return &Response{
		Message:     "Text professionalized (mock mode)",
		Content:     professionalWording.Replace(req.OriginalText),
		Model:       mockModel,
		GeneratedAt: now.UTC(),
		Usage:       &Usage{PromptTokens: 45, CompletionTokens: 28, TotalTokens: 73},
	}
}
