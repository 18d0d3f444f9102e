package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/heathj/srctree/parser"
	"github.com/heathj/srctree/parser/dom"
	"github.com/heathj/srctree/parser/query"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by the subcommands once flags are resolved.
type app struct {
	out io.Writer
	cfg *cliConfig
	log *logrus.Logger
}

func (a *app) parseFile(path string) (*parser.Output, []byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading input")
	}
	out, err := parser.ParseString(string(src), a.cfg.parserOptions(a.log)...)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parsing %s", path)
	}
	a.log.WithFields(logrus.Fields{
		"file":   path,
		"bytes":  len(src),
		"errors": len(out.Errors),
	}).Debug("parsed")
	return out, src, nil
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	a := &app{out: stdout}
	var configFile, logLevel string
	var tabStop uint
	var cmdRoot = &cobra.Command{
		Use:           "srctree",
		Short:         "Inspect HTML documents without losing their source text",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				if _, err := logrus.ParseLevel(logLevel); err != nil {
					return err
				}
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("tab-stop") {
				cfg.TabStop = tabStop
			}
			a.cfg = cfg
			a.log = cfg.logger()
			return nil
		},
	}
	cmdRoot.SetOut(stdout)
	cmdRoot.PersistentFlags().StringVarP(&configFile, "config", "c", "", "load configuration from a YAML file")
	cmdRoot.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmdRoot.PersistentFlags().UintVar(&tabStop, "tab-stop", parser.DefaultTabStop, "tab width used for column numbers")

	cmdRoot.AddCommand(cmdTitle(a))
	cmdRoot.AddCommand(cmdDump(a))
	cmdRoot.AddCommand(cmdSerialize(a))
	cmdRoot.AddCommand(cmdRanges(a))
	cmdRoot.AddCommand(cmdSelect(a))
	cmdRoot.AddCommand(cmdErrors(a))
	return cmdRoot
}

func cmdTitle(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "title <file>",
		Short: "print the document title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _, err := a.parseFile(args[0])
			if err != nil {
				return err
			}
			title, err := query.Title(out.Document)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, title)
			return err
		},
	}
}

func cmdDump(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "print an outline of the element tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _, err := a.parseFile(args[0])
			if err != nil {
				return err
			}
			return out.Document.DumpTree(a.out)
		},
	}
}

func cmdSerialize(a *app) *cobra.Command {
	check := false
	var cmd = &cobra.Command{
		Use:   "serialize <file>",
		Short: "print the document rebuilt from the tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, src, err := a.parseFile(args[0])
			if err != nil {
				return err
			}
			s := out.Document.String()
			if !check {
				_, err = io.WriteString(a.out, s)
				return err
			}
			if s == string(src) {
				return nil
			}
			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(string(src)),
				B:        difflib.SplitLines(s),
				FromFile: args[0],
				ToFile:   "serialized",
				Context:  2,
			})
			if err != nil {
				return err
			}
			if _, err := io.WriteString(a.out, diff); err != nil {
				return err
			}
			return errors.Errorf("%s: serialization differs from source", args[0])
		},
	}
	cmd.Flags().BoolVar(&check, "check", check, "compare the serialization with the source")
	return cmd
}

func formatRange(r dom.Range, ok bool) string {
	if !ok {
		return "-"
	}
	return r.String()
}

func cmdRanges(a *app) *cobra.Command {
	var expr string
	var cmd = &cobra.Command{
		Use:   "ranges <file>",
		Short: "print the source ranges of elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _, err := a.parseFile(args[0])
			if err != nil {
				return err
			}
			var nodes []*dom.Node
			if expr != "" {
				if nodes, err = query.Select(out.Document, expr); err != nil {
					return err
				}
			} else {
				out.Document.Walk(func(n *dom.Node) bool {
					nodes = append(nodes, n)
					return true
				})
			}
			for _, n := range nodes {
				if n.NodeType != dom.ElementNode {
					continue
				}
				offset, ok := n.OffsetRange()
				content, cok := n.ContentRange()
				if _, err := fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n",
					n.LocalName(), n.Element.StartPos, formatRange(offset, ok), formatRange(content, cok)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&expr, "xpath", "", "only elements matched by this XPath expression")
	return cmd
}

func cmdSelect(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select <file> <xpath>",
		Short: "evaluate an XPath expression and print the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _, err := a.parseFile(args[0])
			if err != nil {
				return err
			}
			v, err := query.Evaluate(out.Document, args[1])
			if err != nil {
				return err
			}
			nodes, ok := v.([]*dom.Node)
			if !ok {
				_, err = fmt.Fprintln(a.out, v)
				return err
			}
			for _, n := range nodes {
				if _, err := fmt.Fprintln(a.out, n.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func cmdErrors(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "errors <file>",
		Short: "list the parse errors of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _, err := a.parseFile(args[0])
			if err != nil {
				return err
			}
			for _, e := range out.Errors {
				if _, err := fmt.Fprintf(a.out, "%s:%s\n", args[0], e); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
