package plankit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with underlying error",
			err:  NewSolverError("Planner.solve", errors.New("exit status 30")),
			want: "plankit: Planner.solve (solver): exit status 30",
		},
		{
			name: "without underlying error",
			err:  &Error{Op: "Planner.Plan", Kind: KindInternal},
			want: "plankit: Planner.Plan: internal",
		},
		{
			name: "with context",
			err: NewNoPlanError("Planner.solve", errors.New("exit code 12")).
				WithContext(map[string]any{"horizon": 6}),
			want: "plankit: Planner.solve (no_plan): exit code 12 [context: map[horizon:6]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	underlying := fmt.Errorf("%w: agent cell out of bounds", ErrSnapshotInvalid)
	err := NewValidationError("Planner.Plan", underlying)

	assert.ErrorIs(t, err, ErrSnapshotInvalid)
	assert.Equal(t, underlying, errors.Unwrap(err))
}

func TestErrorIsMatchesByKind(t *testing.T) {
	err := NewParseError("Planner.translate", errors.New("line 3: unmatched"))

	assert.ErrorIs(t, err, &Error{Kind: KindParse})
	assert.ErrorIs(t, err, &Error{Kind: KindParse, Op: "Planner.translate"})
	assert.NotErrorIs(t, err, &Error{Kind: KindParse, Op: "Planner.solve"})
	assert.NotErrorIs(t, err, &Error{Kind: KindSolver})
}

func TestErrorWithContextClones(t *testing.T) {
	base := NewEncodingError("Planner.writeArtifacts", errors.New("short write"))
	enriched := base.WithContext(map[string]any{"file": "domain.pddl"})

	require.NotSame(t, base, enriched)
	assert.Nil(t, base.Context)
	assert.Equal(t, "domain.pddl", enriched.Context["file"])
	assert.ErrorIs(t, enriched, &Error{Kind: KindEncoding})
}

func TestErrorConstructorKinds(t *testing.T) {
	underlying := errors.New("boom")
	tests := []struct {
		err  *Error
		kind string
	}{
		{NewValidationError("op", underlying), KindValidation},
		{NewEncodingError("op", underlying), KindEncoding},
		{NewSolverError("op", underlying), KindSolver},
		{NewNoPlanError("op", underlying), KindNoPlan},
		{NewParseError("op", underlying), KindParse},
		{NewInternalError("op", underlying), KindInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind, tt.err.Kind)
		assert.ErrorIs(t, tt.err, underlying)
	}
}
