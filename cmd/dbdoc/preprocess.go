package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/redbco/redb-dbdoc/internal/docgen"
	"github.com/redbco/redb-dbdoc/internal/options"
	"github.com/redbco/redb-dbdoc/internal/preprocess"
)

func newPreprocessCmd(a *app) *cobra.Command {
	var (
		outDir string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "preprocess [files...]",
		Short: "Replace documentation tags in Markdown files",
		Long: "Replace <pgsqldoc>, <pgsql>, <oracle>, <sqlserver>, <mysql> and <dbdoc dbms=\"...\"> tags with " +
			"generated documentation. Files are rewritten in place unless --out is given. " +
			"--watch needs --out so the sources keep their tags.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && outDir == "" {
				return errors.New("--watch requires --out: rewriting sources in place removes the tags to regenerate")
			}

			pw, err := a.password(cmd)
			if err != nil {
				return err
			}
			if pw != nil {
				a.config.Defaults = options.Merge(a.config.Defaults, options.Options{Password: pw})
			}

			p := preprocess.NewProcessor(docgen.New(nil, a.config, a.log), a.log.Named("preprocess"))
			dest := func(src string) string {
				if outDir == "" {
					return src
				}
				return filepath.Join(outDir, filepath.Base(src))
			}

			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return p.Watch(ctx, args, dest, preprocess.DefaultDebounce)
			}
			return processAll(cmd.Context(), p, args, dest)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Write results to this directory instead of in place")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and reprocess files when they change")

	return cmd
}

func processAll(ctx context.Context, p *preprocess.Processor, files []string, dest func(string) string) error {
	for _, src := range files {
		if err := p.ProcessFile(ctx, src, dest(src)); err != nil {
			return err
		}
	}
	return nil
}
