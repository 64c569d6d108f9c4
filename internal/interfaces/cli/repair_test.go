package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/repair"
	"github.com/jhoicas/Taller-api/internal/interfaces/cli"
)

func entrega() repair.ConfirmationRequest {
	return repair.ConfirmationRequest{
		RepairID:     "r1",
		ProductLabel: "Reparación: Samsung A52",
		Amount:       decimal.NewFromInt(250),
	}
}

func TestPromptConfirmer_Respuestas(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"sí con acento", "sí\n", true},
		{"s mayúscula", "S\n", true},
		{"no explícito", "n\n", false},
		{"enter es no", "\n", false},
		{"fin de entrada es no", "", false},
		{"respuesta inválida y luego sí", "quizá\ns\n", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			p := cli.NewPromptConfirmer(strings.NewReader(tc.input), &out)
			ok, err := p.Confirm(context.Background(), entrega())
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestPromptConfirmer_MuestraMonto(t *testing.T) {
	var out bytes.Buffer
	p := cli.NewPromptConfirmer(strings.NewReader("n\n"), &out)
	_, err := p.Confirm(context.Background(), entrega())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Reparación: Samsung A52")
	assert.Contains(t, out.String(), "250.00")
}

func TestPromptConfirmer_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := cli.NewPromptConfirmer(strings.NewReader("s\n"), &bytes.Buffer{})
	ok, err := p.Confirm(ctx, entrega())
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRootCmd_Subcomandos(t *testing.T) {
	root := cli.RootCmd()
	for _, path := range [][]string{
		{"migrate", "up"}, {"migrate", "status"}, {"user", "promote"},
		{"repair", "status"}, {"inventory", "scan"}, {"sale", "receipt"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
