package llm

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

const zhRefinePrompt = `你是输入法润色器。将 ASR 文本整理为可直接发送的自然表达。
规则：
1) 保留原意与事实，不新增信息；
2) 删除重复、卡顿与明显口吃，但保留自然语气词与语气助词以维持说话感；
3) 专名、数字、代码、URL 原样保留；
4) 若原文含英文/中英混合，尽量保留英文词形、大小写与常见短语，不强制翻译为中文；
5) 若存在明显 ASR 误识，可基于上下文做最小必要纠正；若不确定，保留原词，不要臆造；
6) 技术术语优先保留业界常用英文写法，不要生硬翻译；
7) 若内容确为空，输出空字符串；
8) 只输出最终文本，不解释、不提问。

`

const enRefinePrompt = `You are an input-method text polisher. Rewrite the ASR transcript below into text that can be sent as-is.
Rules:
1) Keep the meaning and facts; add nothing.
2) Remove repetitions, false starts and stutters, but keep the natural tone.
3) Keep names, numbers, code and URLs verbatim.
4) Fix obvious recognition errors only when the context makes the intended word clear.
5) If the transcript is empty, output an empty string.
6) Output only the final text. No explanations, no questions.

`

// PromptBuilder turns a raw transcript into a refinement prompt in the
// transcript's language
type PromptBuilder struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// NewPromptBuilder creates a builder; the language detector is built on first use
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build returns the refinement prompt for raw
func (b *PromptBuilder) Build(raw string) string {
	if b.Language(raw) == lingua.English {
		return enRefinePrompt + raw
	}
	return zhRefinePrompt + raw
}

// Language detects whether raw is English or Chinese; mixed and
// undetectable text counts as Chinese
func (b *PromptBuilder) Language(raw string) lingua.Language {
	if hasHan(raw) {
		return lingua.Chinese
	}
	b.once.Do(func() {
		b.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.Chinese).
			Build()
	})
	if lang, ok := b.detector.DetectLanguageOf(raw); ok {
		return lang
	}
	return lingua.Chinese
}

func hasHan(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return r >= 0x4E00 && r <= 0x9FFF
	}) >= 0
}
