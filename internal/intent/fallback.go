package intent

import (
	"regexp"
	"strings"
)

// Запасной извлекатель намерения на случай недоступности модели.
// Точность сознательно принесена в жертву доступности: из неоднозначного
// текста никогда не выводится разрушительное действие — безопасные исходы
// только create и unclear. Результат — текст в той же грамматике, что и
// ответ модели, поэтому дальше он идет через общий Parse/Classify.

var (
	fallbackCreateRe = regexp.MustCompile(`(?i)\b(?:add|create|new)\b.*?\btasks?\b(?:\s+(?:called|named|for|to))?[:\s]*(.+)`)
	fallbackCutRe    = regexp.MustCompile(`(?i)\s+with\s+.*$`)
)

// Fallback строит структурированный ответ по эвристикам из исходного текста
// запроса. Вызывается только когда модель вернула ошибку или пустой текст.
func Fallback(prompt string) string {
	if m := fallbackCreateRe.FindStringSubmatch(prompt); m != nil {
		name := fallbackCutRe.ReplaceAllString(m[1], "")
		name = strings.Trim(strings.TrimSpace(name), `"'.`)
		if name != "" {
			return "**Task Name:** " + name + "\n**Action:** Create"
		}
	}
	return "**Action:** unclear\n**Notes:** Could not process request. Please try rephrasing."
}
