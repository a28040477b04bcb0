package repo

import (
	"encoding/json"
	"math/big"
	"os"
	"path"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

type Duration time.Duration

func (d *Duration) MarshalText() (text []byte, err error) {
	return []byte(time.Duration(*d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	x, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(x)
	return nil
}

func StringToTimeDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(
		f reflect.Type,
		t reflect.Type,
		data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(Duration(5)) {
			return data, nil
		}

		d, err := time.ParseDuration(data.(string))
		if err != nil {
			return nil, err
		}
		return Duration(d), nil
	}
}

func (d *Duration) ToDuration() time.Duration {
	return time.Duration(*d)
}

func (d *Duration) String() string {
	return time.Duration(*d).String()
}

// Wei is a big integer amount that round-trips through toml as a decimal string.
type Wei string

func (w Wei) ToBigInt() *big.Int {
	v, ok := new(big.Int).SetString(string(w), 10)
	if !ok {
		return big.NewInt(0)
	}
	return v
}

func (w Wei) Validate() error {
	v, ok := new(big.Int).SetString(string(w), 10)
	if !ok {
		return errors.Errorf("invalid amount %q", string(w))
	}
	if v.Sign() < 0 {
		return errors.Errorf("negative amount %q", string(w))
	}
	return nil
}

type Config struct {
	RPC        RPC        `mapstructure:"rpc" toml:"rpc"`
	Sender     Sender     `mapstructure:"sender" toml:"sender"`
	Gas        Gas        `mapstructure:"gas" toml:"gas"`
	Simulation Simulation `mapstructure:"simulation" toml:"simulation"`
	Confirm    Confirm    `mapstructure:"confirm" toml:"confirm"`
	Monitor    Monitor    `mapstructure:"monitor" toml:"monitor"`
	Log        Log        `mapstructure:"log" toml:"log"`
}

type RPC struct {
	URL         string   `mapstructure:"url" toml:"url"`
	DialTimeout Duration `mapstructure:"dial_timeout" toml:"dial_timeout"`
}

type Sender struct {
	// Address is used for node-managed accounts (eth_sendTransaction).
	Address string `mapstructure:"address" toml:"address"`

	// PrivateKey enables local signing, it takes precedence over Keystore.
	PrivateKey string `mapstructure:"private_key" toml:"private_key"`
	Keystore   string `mapstructure:"keystore" toml:"keystore"`
}

type Gas struct {
	// Price is fixed once at process start.
	Price Wei `mapstructure:"price" toml:"price"`

	Limit       uint64 `mapstructure:"limit" toml:"limit"`
	Floor       uint64 `mapstructure:"floor" toml:"floor"`
	DeployLimit uint64 `mapstructure:"deploy_limit" toml:"deploy_limit"`

	// MinimalTransfer is charged when estimating against an address without code.
	MinimalTransfer uint64 `mapstructure:"minimal_transfer" toml:"minimal_transfer"`
}

type Simulation struct {
	Attempts uint     `mapstructure:"attempts" toml:"attempts"`
	Interval Duration `mapstructure:"interval" toml:"interval"`
}

type Confirm struct {
	ReceiptInterval   Duration `mapstructure:"receipt_interval" toml:"receipt_interval"`
	InclusionInterval Duration `mapstructure:"inclusion_interval" toml:"inclusion_interval"`
	SoftDeadline      Duration `mapstructure:"soft_deadline" toml:"soft_deadline"`
	DeadlineExtension Duration `mapstructure:"deadline_extension" toml:"deadline_extension"`
}

type Monitor struct {
	Enable bool  `mapstructure:"enable" toml:"enable"`
	Port   int64 `mapstructure:"port" toml:"port"`
}

type Log struct {
	Level            string    `mapstructure:"level" toml:"level"`
	ReportCaller     bool      `mapstructure:"report_caller" toml:"report_caller"`
	EnableColor      bool      `mapstructure:"enable_color" toml:"enable_color"`
	DisableTimestamp bool      `mapstructure:"disable_timestamp" toml:"disable_timestamp"`
	Module           LogModule `mapstructure:"module" toml:"module"`
}

type LogModule struct {
	Engine  string `mapstructure:"engine" toml:"engine"`
	Backend string `mapstructure:"backend" toml:"backend"`
	Console string `mapstructure:"console" toml:"console"`
}

func (c *Config) Bytes() ([]byte, error) {
	ret, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}

	return ret, nil
}

func (c *Config) Validate() error {
	if c.RPC.URL == "" {
		return errors.New("rpc.url is empty")
	}
	if err := c.Gas.Price.Validate(); err != nil {
		return errors.Wrap(err, "gas.price")
	}
	if c.Gas.Floor > c.Gas.Limit {
		return errors.Errorf("gas.floor %d is greater than gas.limit %d", c.Gas.Floor, c.Gas.Limit)
	}
	if c.Simulation.Attempts == 0 {
		return errors.New("simulation.attempts must be positive")
	}
	if c.Confirm.ReceiptInterval <= 0 || c.Confirm.InclusionInterval <= 0 {
		return errors.New("confirm intervals must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		RPC: RPC{
			URL:         "http://127.0.0.1:8881",
			DialTimeout: Duration(10 * time.Second),
		},
		Sender: Sender{},
		Gas: Gas{
			Price:           "5000000000000",
			Limit:           6000000,
			Floor:           21000,
			DeployLimit:     8000000,
			MinimalTransfer: 21000,
		},
		Simulation: Simulation{
			Attempts: 100,
			Interval: Duration(500 * time.Millisecond),
		},
		Confirm: Confirm{
			ReceiptInterval:   Duration(1 * time.Second),
			InclusionInterval: Duration(500 * time.Millisecond),
			SoftDeadline:      Duration(120 * time.Second),
			DeadlineExtension: Duration(60 * time.Second),
		},
		Monitor: Monitor{
			Enable: false,
			Port:   40021,
		},
		Log: Log{
			Level:            "info",
			ReportCaller:     false,
			EnableColor:      true,
			DisableTimestamp: false,
			Module: LogModule{
				Engine:  "info",
				Backend: "info",
				Console: "info",
			},
		},
	}
}

func LoadConfig(repoRoot string) (*Config, error) {
	cfg, err := func() (*Config, error) {
		cfg := DefaultConfig()
		cfgPath := path.Join(repoRoot, CfgFileName)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			err := os.MkdirAll(repoRoot, 0755)
			if err != nil {
				return nil, errors.Wrap(err, "failed to build default config")
			}

			if err := writeConfigWithEnv(cfgPath, cfg); err != nil {
				return nil, errors.Wrap(err, "failed to build default config")
			}
		} else {
			if err := readConfigFromFile(cfgPath, cfg); err != nil {
				return nil, err
			}
		}

		return cfg, nil
	}()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}
