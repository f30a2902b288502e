package models

// SystemPrompt represents the system-level instructions for the chat
type SystemPrompt struct {
	custom string
	core   string
}

const corePrompt = `You are CodaiPro AI, an expert coding assistant. Help users with code generation, debugging, explanations, and best practices. Format your responses using proper markdown with headings (##), bold (**text**), code blocks with language tags, and lists. Make responses well-structured and easy to read. Be concise but thorough.`

// NewSystemPrompt creates a new SystemPrompt with core instructions
func NewSystemPrompt() *SystemPrompt {
	return &SystemPrompt{
		core: corePrompt,
	}
}

// SetCustom sets custom instructions appended after the core prompt.
// Custom text supplements the core instructions rather than replacing
// them, so a client-supplied system message cannot strip the guardrails.
func (sp *SystemPrompt) SetCustom(custom string) {
	sp.custom = custom
}

// String returns the formatted system prompt
func (sp *SystemPrompt) String() string {
	if sp.custom == "" {
		return sp.core
	}
	return sp.core + "\n\n" + sp.custom
}

func DefaultSystemPrompt() *SystemPrompt {
	return NewSystemPrompt()
}
