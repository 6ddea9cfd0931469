package openai

import (
	"github.com/mikey/moodiary/internal/core"
)

// Preset describes an OpenAI-compatible chat-completion service
type Preset struct {
	Name           string
	BaseURL        string
	DefaultModel   string
	StatusMessages map[int]string
	Models         []core.LLMModelInfo
}

var zhEn = []string{"zh", "en"}

// Presets are the chat-completion services known to the application, keyed by provider name
var Presets = map[string]Preset{
	"siliconflow": {
		Name:         "siliconflow",
		BaseURL:      "https://api.siliconflow.cn/v1",
		DefaultModel: "Qwen/Qwen2.5-7B-Instruct",
		StatusMessages: map[int]string{
			400: "请求参数错误",
			401: "API Key 无效",
			403: "账户余额不足或无权访问该模型",
			404: "模型不存在",
			429: "请求过于频繁，请稍后再试",
			503: "服务繁忙，请稍后再试",
			504: "服务响应超时",
		},
		Models: []core.LLMModelInfo{
			{Name: "Qwen/Qwen2.5-7B-Instruct", DisplayName: "Qwen2.5 7B", ContextLength: 32768, SupportedLanguages: zhEn, Available: true},
			{Name: "deepseek-ai/DeepSeek-V3", DisplayName: "DeepSeek V3", ContextLength: 65536, SupportedLanguages: zhEn, Available: true},
			{Name: "THUDM/glm-4-9b-chat", DisplayName: "GLM-4 9B", ContextLength: 131072, SupportedLanguages: zhEn, Available: true},
		},
	},
	"deepseek": {
		Name:         "deepseek",
		BaseURL:      "https://api.deepseek.com/v1",
		DefaultModel: "deepseek-chat",
		StatusMessages: map[int]string{
			400: "请求体格式错误",
			401: "API Key 错误，认证失败",
			402: "账号余额不足",
			422: "请求体参数错误",
			429: "请求速率（TPM 或 RPM）达到上限",
			500: "服务器内部故障",
			503: "服务器负载过高",
		},
		Models: []core.LLMModelInfo{
			{Name: "deepseek-chat", DisplayName: "DeepSeek Chat", ContextLength: 65536, SupportedLanguages: zhEn, Available: true},
			{Name: "deepseek-reasoner", DisplayName: "DeepSeek Reasoner", ContextLength: 65536, SupportedLanguages: zhEn, Available: true},
		},
	},
	"openai": {
		Name:         "openai",
		BaseURL:      "https://api.openai.com/v1",
		DefaultModel: "gpt-4o-mini",
		StatusMessages: map[int]string{
			401: "Invalid authentication or API key",
			403: "Country, region, or territory not supported",
			429: "Rate limit reached or quota exceeded",
			500: "Server error while processing the request",
			503: "Engine is currently overloaded",
		},
		Models: []core.LLMModelInfo{
			{Name: "gpt-4o-mini", DisplayName: "GPT-4o mini", ContextLength: 128000, SupportedLanguages: zhEn, Available: true},
			{Name: "gpt-4o", DisplayName: "GPT-4o", ContextLength: 128000, SupportedLanguages: zhEn, Available: true},
		},
	},
}
