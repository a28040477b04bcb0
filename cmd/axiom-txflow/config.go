package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/axiomesh/axiom-txflow/cmd/axiom-txflow/common"
	"github.com/axiomesh/axiom-txflow/pkg/repo"
)

var configCMD = &cli.Command{
	Name:  "config",
	Usage: "The config manage commands",
	Subcommands: []*cli.Command{
		{
			Name:   "generate",
			Usage:  "Generate default config",
			Action: generate,
		},
		{
			Name:   "show",
			Usage:  "Show the complete config processed by the environment variable",
			Action: show,
		},
		{
			Name:   "check",
			Usage:  "Check if the config file is valid",
			Action: check,
		},
	},
}

func generate(ctx *cli.Context) error {
	p, err := common.GetRootPath(ctx)
	if err != nil {
		return err
	}
	if common.Exist(filepath.Join(p, repo.CfgFileName)) {
		fmt.Println("axiom-txflow repo already exists")
		return nil
	}

	if !common.Exist(p) {
		err = os.MkdirAll(p, 0755)
		if err != nil {
			return err
		}
	}

	r := repo.Default(p)
	if err := r.Flush(); err != nil {
		return err
	}
	fmt.Printf("config successfully generated in %s\n", p)
	return nil
}

func show(ctx *cli.Context) error {
	p, err := common.GetRootPath(ctx)
	if err != nil {
		return err
	}
	if !common.Exist(filepath.Join(p, repo.CfgFileName)) {
		fmt.Println("axiom-txflow repo not exist")
		return nil
	}

	r, err := repo.Load(p)
	if err != nil {
		return err
	}
	str, err := repo.MarshalConfig(r.Config)
	if err != nil {
		return err
	}
	fmt.Println(str)
	return nil
}

func check(ctx *cli.Context) error {
	p, err := common.GetRootPath(ctx)
	if err != nil {
		return err
	}
	if !common.Exist(filepath.Join(p, repo.CfgFileName)) {
		fmt.Println("axiom-txflow repo not exist")
		return nil
	}

	r, err := repo.Load(p)
	if err != nil {
		return fmt.Errorf("config file format error, please check: %w", err)
	}
	if err := r.Config.Validate(); err != nil {
		return fmt.Errorf("config file invalid, please check: %w", err)
	}
	fmt.Println("config is valid")
	return nil
}
