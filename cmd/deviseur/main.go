package main

import (
	"errors"
	"fmt"
	"github.com/jessevdk/go-flags"
	"github.com/lionel-solria/deviseur/internal/domain/config"
	domainerr "github.com/lionel-solria/deviseur/internal/domain/errors"
	"log"
	"os"
)

type globalOptions struct {
	Config   string `short:"c" long:"config" env:"DEVISEUR_CONFIG" default:"deviseur.yaml" description:"YAML configuration file (ignored when missing)"`
	Input    string `short:"i" long:"input" env:"DEVISEUR_INPUT" description:"Catalogue CSV, overrides build.input"`
	Output   string `short:"o" long:"output" env:"DEVISEUR_OUTPUT" description:"Pages directory, overrides build.output_dir"`
	Markdown bool   `long:"markdown" description:"Render descriptions as Markdown"`
}

type options struct {
	globalOptions

	Build buildCommand `command:"build" description:"Generate product pages, index.html and the stylesheet (default)"`
	Serve serveCommand `command:"serve" description:"Preview the catalogue and rebuild on change"`
	List  listCommand  `command:"list" description:"List the products of the last build"`
}

// Execute runs when no command is given: a plain build, like the original
// one-shot generator.
func (o *options) Execute(args []string) error {
	return o.Build.Execute(args)
}

// loadConfig reads the config file, applies command line overrides and
// validates the result.
func (o *globalOptions) loadConfig() (config.Config, error) {
	cfg, err := config.LoadOrDefault(o.Config)
	if err != nil && !errors.Is(err, domainerr.ErrInvalid) {
		return cfg, fmt.Errorf("load config(%s): %w", o.Config, err)
	}
	if o.Input != "" {
		cfg.Build.Input = o.Input
	}
	if o.Output != "" {
		cfg.Build.OutputDir = o.Output
	}
	if o.Markdown {
		cfg.Render.MarkdownDescription = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	log.SetFlags(log.LstdFlags)

	var opts options
	opts.Build.global = &opts.globalOptions
	opts.Serve.global = &opts.globalOptions
	opts.List.global = &opts.globalOptions

	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.SubcommandsOptional = true

	if _, err := parser.Parse(); err != nil {
		os.Exit(report(err))
	}
}

// report prints err for a human and picks the exit code: 0 for --help,
// 2 for usage and configuration errors, 1 for everything else.
func report(err error) int {
	var fe *flags.Error
	if errors.As(err, &fe) {
		if fe.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, fe.Message)
			return 0
		}
		fmt.Fprintln(os.Stderr, fe.Message)
		return 2
	}
	if errors.Is(err, domainerr.ErrInvalid) {
		fmt.Fprintln(os.Stderr, err.Error())
		return 2
	}
	if errors.Is(err, domainerr.ErrEmptyInput) {
		fmt.Fprintln(os.Stderr, "Le fichier CSV est vide.")
		return 1
	}
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	return 1
}
