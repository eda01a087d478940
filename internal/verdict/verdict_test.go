package verdict

import (
	"errors"
	"testing"

	"rexfuzz/internal/engine"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		res  engine.Result
		err  error
		want Verdict
	}{
		{
			name: "match",
			res:  engine.Result{Matched: true, Start: 0, End: 3},
			want: Success,
		},
		{
			name: "zero width match is still success",
			res:  engine.Result{Matched: true, Start: 0, End: 0},
			want: Success,
		},
		{
			name: "explicit no match",
			res:  engine.Result{},
			want: Mismatch,
		},
		{
			name: "bad pattern",
			err:  engine.Errf(engine.CodeBadPattern, "compile", nil),
			want: RecoverableError,
		},
		{
			name: "retry limit",
			err:  engine.Errf(engine.CodeRetryLimit, "search", nil),
			want: RecoverableError,
		},
		{
			name: "uncoded error",
			err:  errors.New("io trouble"),
			want: RecoverableError,
		},
		{
			name: "stack bug",
			err:  engine.Errf(engine.CodeStackBug, "search", nil),
			want: FatalEngineBug,
		},
		{
			name: "undefined opcode",
			err:  engine.Errf(engine.CodeUndefinedOpcode, "search", nil),
			want: FatalEngineBug,
		},
		{
			name: "unexpected opcode",
			err:  engine.Errf(engine.CodeUnexpectedOpcode, "search", nil),
			want: FatalEngineBug,
		},
		{
			name: "parser bug",
			err:  engine.Errf(engine.CodeParserBug, "compile", nil),
			want: FatalEngineBug,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.res, tt.err); got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}
