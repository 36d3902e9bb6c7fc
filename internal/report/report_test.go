package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aristath/grouprep/internal/evaluation"
	"github.com/aristath/grouprep/internal/experiment"
	"github.com/aristath/grouprep/internal/optimization"
	"github.com/aristath/grouprep/internal/paramsets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func sampleResult() *experiment.Result {
	zero := 0.0
	theta := 1.25
	return &experiment.Result{
		RunID: "0b7e2f8e-8d55-4b8f-9d0c-1b6f0f3f1a11",
		Seed:  42,
		Training: &optimization.Result{
			Loss:       -0.75,
			X:          make([]float64, 12),
			StatusName: "FunctionEvaluationLimit",
		},
		Sets: []experiment.SetResult{
			{
				Kind:     experiment.SetRecorded,
				Params:   paramsets.Analytic(0),
				Identity: evaluation.IdentityResult{Score: 1},
				Faithful: evaluation.FaithfulnessResult{AB: 0.5, C2: 0.25},
			},
			{
				Kind:     experiment.SetAnalytic,
				Theta:    &theta,
				Params:   paramsets.Analytic(theta),
				Identity: evaluation.IdentityResult{Score: 0.5},
				Faithful: evaluation.FaithfulnessResult{AB: 0.125, C2: 0.375},
			},
			{
				Kind:     experiment.SetAnalytic,
				Theta:    &zero,
				Params:   paramsets.Analytic(0),
				Identity: evaluation.IdentityResult{Score: 1},
				Faithful: evaluation.FaithfulnessResult{AB: 0.5, C2: 0.5},
			},
		},
		Matrices: experiment.Matrices(paramsets.Analytic(0)),
		Elapsed:  1500 * time.Millisecond,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" msgpack ", FormatMsgpack, false},
		{"", FormatText, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatText)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleResult()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 14)

	assert.Equal(t, "-0.75", lines[0])
	assert.Equal(t, separator, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "recorded parameters: ["))
	assert.Equal(t, identityLine+" 1", lines[3])
	assert.Equal(t, faithfulLine+" (0.5, 0.25)", lines[4])
	assert.Equal(t, separator, lines[5])
	assert.True(t, strings.HasPrefix(lines[6], "analytic parameters: ["))
	assert.Equal(t, separator, lines[9])
	assert.Equal(t, "theta=0", lines[10])
	assert.Equal(t, "U(a)!=1", lines[13])
	assert.Equal(t, "[[-1  0  0  0]", lines[14])
	assert.Equal(t, " [ 0  1  0  0]", lines[15])
	assert.Equal(t, "--- 1.5 seconds ---", lines[len(lines)-1])

	out := buf.String()
	assert.Contains(t, out, "U(ab)=U(ba)!=1\n")
	assert.Contains(t, out, "U(c^4)=1\n")
	assert.NotContains(t, out, "claim does not hold")
}

func TestWrite_TextMatricesOnly(t *testing.T) {
	res := &experiment.Result{
		Matrices:    experiment.Matrices(paramsets.Analytic(2)),
		MatrixTheta: 2,
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatText)
	require.NoError(t, err)
	require.NoError(t, w.Write(res))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, separator, lines[0])
	assert.Equal(t, "theta=2", lines[1])
	assert.Equal(t, "U(a)!=1", lines[2])
}

func TestFormatMatrix(t *testing.T) {
	got := formatMatrix([][]int{{1, 0}, {0, -10}})
	assert.Equal(t, "[[  1   0]\n [  0 -10]]", got)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatJSON)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "0b7e2f8e-8d55-4b8f-9d0c-1b6f0f3f1a11", decoded["run_id"])
	assert.Equal(t, float64(42), decoded["seed"])
	assert.Len(t, decoded["sets"], 3)
	assert.Len(t, decoded["matrices"], 9)

	training := decoded["training"].(map[string]any)
	assert.Equal(t, "FunctionEvaluationLimit", training["status"])
}

func TestWrite_Msgpack(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatMsgpack)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleResult()))

	var decoded experiment.Result
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "0b7e2f8e-8d55-4b8f-9d0c-1b6f0f3f1a11", decoded.RunID)
	assert.Equal(t, uint64(42), decoded.Seed)
	require.Len(t, decoded.Sets, 3)
	assert.Equal(t, 0.25, decoded.Sets[0].Faithful.C2)
	require.NotNil(t, decoded.Sets[1].Theta)
	assert.Equal(t, 1.25, *decoded.Sets[1].Theta)
	assert.Equal(t, 1500*time.Millisecond, decoded.Elapsed)
}

func TestWrite_Nil(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, FormatText)
	require.NoError(t, err)
	assert.Error(t, w.Write(nil))
}
