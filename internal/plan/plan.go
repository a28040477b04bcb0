package plan

import (
	"bytes"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/axiomesh/axiom-txflow/internal/engine"
)

const (
	KindCall     = "call"
	KindTransfer = "transfer"
	KindDeploy   = "deploy"

	refPrefix = "@"
)

// Plan is an ordered task list read from a toml file. Address fields may
// hold "@<task>" to reference the address produced by an earlier task.
type Plan struct {
	Tasks []TaskSpec `toml:"task"`
}

type TaskSpec struct {
	Name        string  `toml:"name"`
	Kind        string  `toml:"kind"`
	From        string  `toml:"from"`
	To          string  `toml:"to"`
	Data        string  `toml:"data"`
	Value       string  `toml:"value"`
	Nonce       *uint64 `toml:"nonce"`
	Gas         uint64  `toml:"gas"`
	Predicate   bool    `toml:"predicate"`
	WaitReceipt bool    `toml:"wait_receipt"`
	Known       string  `toml:"known"`
}

func Load(path string) (*Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read plan %s", path)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Plan, error) {
	p := &Plan{}
	decoder := toml.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(p); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, errors.Errorf("decode plan failed:\n%s", decodeErr.String())
		}
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, errors.Errorf("decode plan failed:\n%s", strictErr.String())
		}
		return nil, errors.Wrap(err, "decode plan failed")
	}
	for i := range p.Tasks {
		if p.Tasks[i].Kind == "" {
			p.Tasks[i].Kind = KindCall
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func isRef(s string) bool {
	return strings.HasPrefix(s, refPrefix)
}

func refName(s string) string {
	return strings.TrimPrefix(s, refPrefix)
}

func (p *Plan) Validate() error {
	if len(p.Tasks) == 0 {
		return errors.New("plan has no task")
	}
	seen := make(map[string]bool, len(p.Tasks))
	for i, t := range p.Tasks {
		if t.Name == "" {
			return errors.Errorf("task %d has no name", i)
		}
		if seen[t.Name] {
			return errors.Errorf("duplicate task name %s", t.Name)
		}
		if !lo.Contains([]string{KindCall, KindTransfer, KindDeploy}, t.Kind) {
			return errors.Errorf("task %s: unknown kind %q", t.Name, t.Kind)
		}

		checkAddr := func(field, v string) error {
			if v == "" {
				return nil
			}
			if isRef(v) {
				if !seen[refName(v)] {
					return errors.Errorf("task %s: %s references %s which is not an earlier task", t.Name, field, v)
				}
				return nil
			}
			if !common.IsHexAddress(v) {
				return errors.Errorf("task %s: invalid %s address %q", t.Name, field, v)
			}
			return nil
		}
		if err := checkAddr("from", t.From); err != nil {
			return err
		}
		if err := checkAddr("to", t.To); err != nil {
			return err
		}
		if err := checkAddr("known", t.Known); err != nil {
			return err
		}

		if t.Kind == KindDeploy {
			if t.To != "" {
				return errors.Errorf("task %s: deploy must not set to", t.Name)
			}
			if t.Predicate {
				return errors.Errorf("task %s: deploy does not support predicate", t.Name)
			}
		} else {
			if t.To == "" {
				return errors.Errorf("task %s: %s needs to", t.Name, t.Kind)
			}
			if t.Known != "" {
				return errors.Errorf("task %s: known is only valid for deploy", t.Name)
			}
		}
		if t.Kind == KindTransfer && t.Data != "" {
			return errors.Errorf("task %s: transfer must not carry data", t.Name)
		}
		if t.Data != "" {
			if _, err := hexutil.Decode(t.Data); err != nil {
				return errors.Wrapf(err, "task %s: invalid data", t.Name)
			}
		}
		if t.Value != "" {
			v, ok := new(big.Int).SetString(t.Value, 10)
			if !ok || v.Sign() < 0 {
				return errors.Errorf("task %s: invalid value %q", t.Name, t.Value)
			}
		}
		seen[t.Name] = true
	}
	return nil
}

// Build turns the plan into engine tasks. References are resolved against
// results when the referencing task is about to run.
func (p *Plan) Build(sender common.Address, results *engine.Results) ([]*engine.Task, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	tasks := make([]*engine.Task, 0, len(p.Tasks))
	for _, spec := range p.Tasks {
		task := &engine.Task{
			Name:        spec.Name,
			Kind:        engine.KindCall,
			From:        senderValue(spec.From, sender, results),
			To:          addressValue(spec.To, results),
			Nonce:       spec.Nonce,
			GasLimit:    spec.Gas,
			Predicate:   spec.Predicate,
			WaitReceipt: spec.WaitReceipt,
		}
		if spec.Kind == KindDeploy {
			task.Kind = engine.KindDeploy
			task.Known = addressValue(spec.Known, results)
		}
		if spec.Data != "" {
			task.Data = engine.Literal([]byte(hexutil.MustDecode(spec.Data)))
		}
		if spec.Value != "" {
			v, _ := new(big.Int).SetString(spec.Value, 10)
			task.Amount = engine.Literal(v)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// senderValue resolves "@task" to the sender of that task.
func senderValue(v string, sender common.Address, results *engine.Results) engine.Value[common.Address] {
	switch {
	case v == "":
		return engine.Literal(sender)
	case isRef(v):
		name := refName(v)
		return engine.Deferred(func() (common.Address, error) {
			res, ok := results.Get(name)
			if !ok {
				return common.Address{}, errors.Errorf("task %s has not completed", name)
			}
			return res.Operation.From, nil
		})
	default:
		return engine.Literal(common.HexToAddress(v))
	}
}

// addressValue resolves "@task" to the address produced by that task.
func addressValue(v string, results *engine.Results) engine.Value[*common.Address] {
	switch {
	case v == "":
		return engine.Literal[*common.Address](nil)
	case isRef(v):
		name := refName(v)
		return engine.Deferred(func() (*common.Address, error) {
			addr, err := results.Address(name)
			if err != nil {
				return nil, err
			}
			return &addr, nil
		})
	default:
		return engine.Literal(lo.ToPtr(common.HexToAddress(v)))
	}
}
