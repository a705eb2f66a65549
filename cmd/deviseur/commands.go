package main

import (
	"context"
	"fmt"
	"github.com/lionel-solria/deviseur/internal/build"
	"github.com/lionel-solria/deviseur/internal/domain/catalogue"
	"github.com/lionel-solria/deviseur/internal/index"
	"github.com/lionel-solria/deviseur/internal/serve"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
)

type buildCommand struct {
	global *globalOptions
}

func (c *buildCommand) Execute(args []string) error {
	cfg, err := c.global.loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("[build] reading %s", cfg.Build.Input)
	b := &build.Builder{Cfg: cfg}
	res, err := b.Run(ctx)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		log.Printf("[warn] %s", w)
	}
	log.Printf("[build] %d products -> %s (%d written, %d unchanged)",
		res.Products, cfg.Build.OutputDir, res.Written, res.Unchanged)
	return nil
}

type serveCommand struct {
	global *globalOptions

	Addr string `long:"addr" env:"DEVISEUR_ADDR" default:":8080" description:"Listen address"`
}

func (c *serveCommand) Execute(args []string) error {
	cfg, err := c.global.loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath := c.global.Config
	if _, err := os.Stat(configPath); err != nil {
		configPath = ""
	}

	// 每次重建都重读配置文件并重新应用命令行覆盖
	s, err := serve.New(cfg, configPath, c.global.loadConfig)
	if err != nil {
		return fmt.Errorf("serve init: %w", err)
	}
	defer s.Close()

	return s.ListenAndServe(ctx, c.Addr)
}

type listCommand struct {
	global *globalOptions

	Category   string `long:"category" description:"Only list products of this category"`
	Categories bool   `long:"categories" description:"List categories with their product count instead"`
}

func (c *listCommand) Execute(args []string) error {
	cfg, err := c.global.loadConfig()
	if err != nil {
		return err
	}

	st, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("open index(%s), run build first: %w", cfg.Build.IndexPath, err)
	}
	defer st.Close()

	n, err := st.Count()
	if err != nil {
		return err
	}
	hash, _ := st.SourceHash()
	if len(hash) > 12 {
		hash = hash[:12]
	}
	fmt.Fprintf(os.Stderr, "%d products indexed (source sha256 %s)\n", n, hash)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if c.Categories {
		stats, err := st.Categories()
		if err != nil {
			return err
		}
		for _, s := range stats {
			fmt.Fprintf(tw, "%s\t%d\n", s.Name, s.Count)
		}
		return nil
	}

	var products []catalogue.Product
	if c.Category != "" {
		products, err = st.ListByCategory(c.Category)
	} else {
		products, err = st.List()
	}
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Filename, p.DisplayName(), p.Category())
	}
	return nil
}
