package domain

type ResultKind int

const (
	ResultJSON  ResultKind = iota // тело ответа разобрано как JSON
	ResultText                    // тело не JSON, отдаём как есть
	ResultLines                   // человекочитаемый список
)

func (k ResultKind) String() string {
	switch k {
	case ResultJSON:
		return "json"
	case ResultText:
		return "text"
	case ResultLines:
		return "lines"
	default:
		return "unknown"
	}
}

// Result is what an operation hands back to the CLI.
type Result struct {
	Kind   ResultKind
	Status int // HTTP status, 0 for locally built results
	JSON   any
	Text   string
	Lines  []string
}

func JSONResult(v any) *Result { return &Result{Kind: ResultJSON, JSON: v} }

func TextResult(s string) *Result { return &Result{Kind: ResultText, Text: s} }

func LinesResult(lines []string) *Result { return &Result{Kind: ResultLines, Lines: lines} }
