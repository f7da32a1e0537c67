package genai

// Request/response types for the generateContent endpoint. Only the fields
// the pipeline reads are modeled; the provider adds more.

type Blob struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data"` // base64
}

type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type GenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// GenerateContentResponse tolerates the two shapes the provider has been seen
// returning: the documented candidates list and a flat parts array.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates,omitempty"`
	Parts      []Part      `json:"parts,omitempty"`
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func ImagePart(mimeType, b64 string) Part {
	return Part{InlineData: &Blob{MimeType: mimeType, Data: b64}}
}
