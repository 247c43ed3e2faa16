package llm

import "strings"

const (
	ProviderOpenAI = "OpenAI"
	ProviderGemini = "Gemini"
	ProviderClaude = "Claude"
	ProviderOllama = "Ollama"
)

// Model is a selectable chat model.
type Model struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

var catalog = []Model{
	{"gpt-4o", "GPT-4o", ProviderOpenAI},
	{"gpt-4o-mini", "GPT-4o Mini", ProviderOpenAI},
	{"gpt-4-turbo", "GPT-4 Turbo", ProviderOpenAI},
	{"gpt-4", "GPT-4", ProviderOpenAI},
	{"gpt-3.5-turbo", "GPT-3.5 Turbo", ProviderOpenAI},

	{"gemini-pro", "Gemini Pro", ProviderGemini},
	{"gemini-pro-vision", "Gemini Pro Vision", ProviderGemini},

	{"claude-3-opus-20240229", "Claude 3 Opus", ProviderClaude},
	{"claude-3-sonnet-20240229", "Claude 3 Sonnet", ProviderClaude},
	{"claude-3-haiku-20240307", "Claude 3 Haiku", ProviderClaude},

	{"phi4:14b", "Phi-4 14B", ProviderOllama},
	{"phi3:14b", "Phi-3 14B", ProviderOllama},
	{"bigllama/mistralv01-7b:latest", "BigLlama Mistral v0.1 7B", ProviderOllama},
	{"magistral:latest", "Magistral", ProviderOllama},
	{"gemma3:27b", "Gemma 3 27B", ProviderOllama},
	{"llama3.2:latest", "Llama 3.2", ProviderOllama},
	{"llama3.1:latest", "Llama 3.1", ProviderOllama},
	{"mistral:instruct", "Mistral Instruct", ProviderOllama},
	{"gemma3:latest", "Gemma 3", ProviderOllama},
	{"gemma3:4b", "Gemma 3 4B", ProviderOllama},
	{"qwen3:latest", "Qwen 3", ProviderOllama},
	{"codegemma:7b", "CodeGemma 7B", ProviderOllama},
	{"mixtral:latest", "Mixtral", ProviderOllama},
	{"mixtral:8x7b", "Mixtral 8x7B", ProviderOllama},
	{"qwen3:8b", "Qwen 3 8B", ProviderOllama},
	{"deepseek-r1:latest", "DeepSeek R1", ProviderOllama},
	{"mistral:latest", "Mistral", ProviderOllama},
	{"llama3.3:latest", "Llama 3.3", ProviderOllama},
	{"llama3.3:70b", "Llama 3.3 70B", ProviderOllama},
	{"openchat:latest", "OpenChat", ProviderOllama},
	{"mistral:7b", "Mistral 7B", ProviderOllama},
	{"llama4:latest", "Llama 4", ProviderOllama},
	{"llama4:scout", "Llama 4 Scout", ProviderOllama},
}

// DefaultModel is preselected in the UI.
const DefaultModel = "gpt-4"

// Models returns the catalog in display order.
func Models() []Model {
	return append([]Model(nil), catalog...)
}

// Lookup finds a model by id.
func Lookup(id string) (Model, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// NormalizeProvider maps any casing of a provider name to its canonical form.
func NormalizeProvider(name string) string {
	for _, p := range []string{ProviderOpenAI, ProviderGemini, ProviderClaude, ProviderOllama} {
		if strings.EqualFold(p, name) {
			return p
		}
	}
	return name
}
