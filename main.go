package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sansecio/wavegrep/ast"
	"github.com/sansecio/wavegrep/parser"
	"github.com/sansecio/wavegrep/search"
	"github.com/sansecio/wavegrep/server"
	"github.com/sansecio/wavegrep/wave"
)

func main() {
	root := &cobra.Command{
		Use:           "wavegrep",
		Short:         "Search waveform files with signal conditions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(),
		newFindCommand(),
		newSignalsCommand(),
		newInfoCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve waveform tools over JSON-RPC on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = server.LoadConfig(configPath); err != nil {
					return err
				}
			}
			// stdout carries the protocol, so logs go to stderr
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))
			srv, err := server.New(cfg, log)
			if err != nil {
				return err
			}
			return srv.Serve(cmd.Context(), os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	return cmd
}

func newFindCommand() *cobra.Command {
	var (
		start uint64
		end   uint64
		limit int
	)

	cmd := &cobra.Command{
		Use:   "find <file.vcd> <condition>",
		Short: "Find time indices where a condition holds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, err := wave.ReadVCDFile(args[0])
			if err != nil {
				return err
			}
			p, err := parser.New()
			if err != nil {
				return err
			}
			expr, err := p.Parse(args[1])
			if err != nil {
				return err
			}
			paths := ast.SignalPaths(expr)
			for _, path := range paths {
				if trace.FindVar(path) == nil {
					return fmt.Errorf("signal not found: %s", path)
				}
			}

			s, e := trace.TimeIndexRange()
			if cmd.Flags().Changed("start") {
				s = start
			}
			if cmd.Flags().Changed("end") {
				e = end
			}

			indices, err := search.FindEvents(expr, trace, s, e, limit)
			if err != nil {
				return err
			}
			for _, idx := range indices {
				values := make([]string, 0, len(paths))
				for _, path := range paths {
					v, err := trace.ValueAt(path, idx)
					if err != nil {
						continue
					}
					values = append(values, fmt.Sprintf("%s = %s", path, wave.FormatValue(v)))
				}
				fmt.Printf("%d\t%s\t%s\n",
					idx, wave.FormatTime(trace.TimeTable[idx], trace.Timescale), strings.Join(values, ", "))
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&start, "start", 0, "first time index to scan")
	cmd.Flags().Uint64Var(&end, "end", 0, "last time index to scan")
	cmd.Flags().IntVar(&limit, "limit", search.Unlimited, "maximum number of matches")
	return cmd
}

func newSignalsCommand() *cobra.Command {
	var opts wave.ListOptions

	cmd := &cobra.Command{
		Use:   "signals <file.vcd>",
		Short: "List signal paths in a waveform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, err := wave.ReadVCDFile(args[0])
			if err != nil {
				return err
			}
			paths, err := trace.ListSignals(opts)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Println(p)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&opts.Patterns, "pattern", nil, "case-insensitive substring filter (repeatable)")
	cmd.Flags().StringVar(&opts.Regex, "regex", "", "regular expression filter")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "restrict to signals under this scope path")
	cmd.Flags().BoolVar(&opts.Recursive, "recursive", true, "include signals in nested scopes")
	cmd.Flags().IntVar(&opts.Limit, "limit", search.Unlimited, "maximum number of results")
	return cmd
}

func newInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file.vcd> <signal-path>",
		Short: "Show a signal's type and width",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			trace, err := wave.ReadVCDFile(args[0])
			if err != nil {
				return err
			}
			v, err := trace.SignalInfo(args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Signal: %s\nType: %s\nWidth: %d bits\n", v.Path, v.Type, v.Width)
			return nil
		},
	}
	return cmd
}
