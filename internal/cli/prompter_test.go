package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full yes uppercase", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty means no", input: "\n", want: false},
		{name: "end of input means no", input: "", want: false},
		{name: "retries on garbage", input: "maybe\ny\n", want: true},
		{name: "garbage then end of input", input: "maybe", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewCLIPrompter(strings.NewReader(tt.input), &out, false)

			got, err := p.Confirm(context.Background(), "Weights do not add up.")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Weights do not add up.")
		})
	}
}

func TestPrompter_ConfirmRetryMessage(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader("what\nn\n"), &out, false)

	_, err := p.Confirm(context.Background(), "Save anyway?")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Please answer y or n.")
}

func TestPrompter_AssumeYes(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader(""), &out, true)

	got, err := p.Confirm(context.Background(), "Save anyway?")

	require.NoError(t, err)
	assert.True(t, got)
	assert.Contains(t, out.String(), "Save anyway?")
}

func TestPrompter_ConfirmCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()
	p := NewCLIPrompter(pr, io.Discard, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Confirm(ctx, "?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrompter_Ask(t *testing.T) {
	p := NewCLIPrompter(strings.NewReader("  Research  \n"), io.Discard, false)

	got, err := p.Ask(context.Background(), "New name")
	require.NoError(t, err)
	assert.Equal(t, "Research", got)

	_, err = p.Ask(context.Background(), "Again")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
