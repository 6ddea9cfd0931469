package prompt

import (
	"fmt"
	"strings"

	"github.com/mikey/moodiary/internal/core"
)

const singleTemplate = `你是一个专业的情绪分析助手。请分析下面这篇日记的情绪倾向。

分析要求：
1. moodType：情绪类型，只能是 "positive"、"negative"、"neutral" 三者之一
2. emotionScore：情绪强度，0 到 100 之间的整数，0 表示没有情绪，100 表示情绪极其强烈
3. extractedTags：从内容中提炼的关键词标签，字符串数组，最多 %d 个
4. reasoning：简要的分析理由，不超过 %d 个字
5. confidence：置信度，0.0 到 1.0 之间的数字

日记内容：
%s

请只返回 JSON，不要包含任何其他文字，格式如下：
` + "```json" + `
{"moodType": "positive", "emotionScore": 75, "extractedTags": ["标签1", "标签2"], "reasoning": "分析理由", "confidence": 0.85}
` + "```"

const batchTemplate = `你是一个专业的情绪分析助手。请分别分析下面 %d 篇日记的情绪倾向。

对每一篇日记：
1. index：日记编号，与下方编号一致，从 1 开始
2. moodType：情绪类型，只能是 "positive"、"negative"、"neutral" 三者之一
3. emotionScore：情绪强度，0 到 100 之间的整数
4. extractedTags：关键词标签，字符串数组，最多 %d 个
5. reasoning：简要的分析理由，不超过 %d 个字
6. confidence：置信度，0.0 到 1.0 之间的数字

%s
请只返回一个包含 %d 个元素的 JSON 数组，按编号顺序排列，不要包含任何其他文字，格式如下：
` + "```json" + `
[{"index": 1, "moodType": "positive", "emotionScore": 75, "extractedTags": ["标签"], "reasoning": "分析理由", "confidence": 0.85}]
` + "```"

// BuildSingle returns the prompt for analyzing one entry
func BuildSingle(content string) string {
	return fmt.Sprintf(singleTemplate, core.MaxSingleTags, core.MaxSingleReasoning, content)
}

// BuildBatch returns the prompt for analyzing several entries in one call.
// Entries are numbered from 1 in input order.
func BuildBatch(contents []string) string {
	var sb strings.Builder
	for i, content := range contents {
		fmt.Fprintf(&sb, "【日记 %d】\n%s\n\n", i+1, content)
	}
	return fmt.Sprintf(batchTemplate, len(contents), core.MaxBatchTags, core.MaxBatchReasoning, sb.String(), len(contents))
}
