package oracle

import (
	"context"
	"errors"
)

// Generator — внешний текстовый оракул. Формат ответа не гарантируется:
// грамматика разбора обязана переживать частичный или испорченный вывод.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Disabled — заглушка при отсутствии ключа API; каждый вызов уходит
// в запасной извлекатель намерения.
type Disabled struct{}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", errors.New("oracle is not configured")
}
