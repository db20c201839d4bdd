package main

import (
	"fmt"
	"os"

	"github.com/oarkflow/cli"
	"github.com/oarkflow/cli/console"
	"github.com/oarkflow/cli/contracts"
	"github.com/oarkflow/log"

	"github.com/oarkflow/jatti/config"
)

func main() {
	cfg, err := config.Load(os.Getenv("JATTI_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := &log.Logger{
		Level:  log.ParseLevel(cfg.LogLevel),
		Writer: &log.IOWriter{Writer: os.Stderr},
	}

	cli.SetName("Jatti Language")
	cli.SetVersion("v0.4.0")
	app := cli.New()
	client := app.Instance.Client()
	client.Register([]contracts.Command{
		console.NewListCommand(client),
		&RunCommand{Config: cfg, extend: contracts.Extend{Flags: []contracts.Flag{
			{Name: "vars", Usage: "JSON object file whose keys seed program variables"},
		}}},
		&BuildCommand{Config: cfg},
		&FormatCommand{},
		&ServeCommand{Config: cfg, Logger: logger},
		&WorkerCommand{Config: cfg},
		&TestCommand{Config: cfg, Logger: logger, extend: contracts.Extend{Flags: []contracts.Flag{
			{Name: "build", Usage: "transpile each fixture and run it with python3"},
			{Name: "python", Usage: "python interpreter used by --build"},
		}}},
	})
	client.Run(os.Args, true)
}
