package lexer

import (
	"rid/internal/diag"
	"rid/internal/source"
)

// maxTokenLength caps a single token; longer input is almost certainly not source.
const maxTokenLength = 1 << 16

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter == nil {
		return
	}
	diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
}
