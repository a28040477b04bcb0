package plan

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-txflow/internal/engine"
)

const samplePlan = `
[[task]]
name = "token"
kind = "deploy"
data = "0x60806040"
wait_receipt = true

[[task]]
name = "fund"
kind = "transfer"
to = "0x2000000000000000000000000000000000000002"
value = "1000"
nonce = 3

[[task]]
name = "mint"
to = "@token"
from = "@fund"
data = "0x40c10f19"
gas = 90000
predicate = true
`

var sender = common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")

func TestParseAndBuild(t *testing.T) {
	p, err := Parse([]byte(samplePlan))
	require.Nil(t, err)
	require.Len(t, p.Tasks, 3)
	require.Equal(t, KindCall, p.Tasks[2].Kind)

	results := engine.NewResults()
	tasks, err := p.Build(sender, results)
	require.Nil(t, err)
	require.Len(t, tasks, 3)

	token := tasks[0]
	require.Equal(t, engine.KindDeploy, token.Kind)
	require.True(t, token.WaitReceipt)
	to, err := token.To.Resolve()
	require.Nil(t, err)
	require.Nil(t, to)
	known, err := token.Known.Resolve()
	require.Nil(t, err)
	require.Nil(t, known)
	data, err := token.Data.Resolve()
	require.Nil(t, err)
	require.Equal(t, []byte{0x60, 0x80, 0x60, 0x40}, data)

	fund := tasks[1]
	require.EqualValues(t, 3, *fund.Nonce)
	amount, err := fund.Amount.Resolve()
	require.Nil(t, err)
	require.EqualValues(t, 1000, amount.Int64())
	from, err := fund.From.Resolve()
	require.Nil(t, err)
	require.Equal(t, sender, from)

	mint := tasks[2]
	require.True(t, mint.Predicate)
	require.EqualValues(t, 90000, mint.GasLimit)
	require.True(t, mint.To.IsDeferred())
	require.True(t, mint.From.IsDeferred())

	// references fail until the referenced task completed
	_, err = mint.To.Resolve()
	require.NotNil(t, err)
	_, err = mint.From.Resolve()
	require.NotNil(t, err)
}

func TestReferencesResolveAgainstRun(t *testing.T) {
	p, err := Parse([]byte(samplePlan))
	require.Nil(t, err)

	results := engine.NewResults()
	tasks, err := p.Build(sender, results)
	require.Nil(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	e := engine.New(nil, engine.DefaultConfig(), logger)
	// a test-run deploy never touches the backend
	ledger, err := e.RunSequence(context.Background(), tasks[:1], true, false, engine.WithResults(results))
	require.Nil(t, err)
	require.Equal(t, 1, ledger.Completed)

	to, err := tasks[2].To.Resolve()
	require.Nil(t, err)
	require.Equal(t, common.Address{}, *to)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"empty": ``,
		"duplicate": `
[[task]]
name = "a"
to = "0x2000000000000000000000000000000000000002"
[[task]]
name = "a"
to = "0x2000000000000000000000000000000000000002"
`,
		"forward reference": `
[[task]]
name = "a"
to = "@b"
[[task]]
name = "b"
kind = "deploy"
`,
		"deploy with to": `
[[task]]
name = "a"
kind = "deploy"
to = "0x2000000000000000000000000000000000000002"
`,
		"call without to": `
[[task]]
name = "a"
`,
		"bad kind": `
[[task]]
name = "a"
kind = "burn"
to = "0x2000000000000000000000000000000000000002"
`,
		"bad value": `
[[task]]
name = "a"
kind = "transfer"
to = "0x2000000000000000000000000000000000000002"
value = "-1"
`,
		"bad data": `
[[task]]
name = "a"
to = "0x2000000000000000000000000000000000000002"
data = "zz"
`,
		"bad address": `
[[task]]
name = "a"
to = "0x1234"
`,
		"unknown field": `
[[task]]
name = "a"
to = "0x2000000000000000000000000000000000000002"
color = "red"
`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			require.NotNil(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.toml")
	require.Nil(t, os.WriteFile(path, []byte(samplePlan), 0644))
	p, err := Load(path)
	require.Nil(t, err)
	require.Len(t, p.Tasks, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NotNil(t, err)
}
