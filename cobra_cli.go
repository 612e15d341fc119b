package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"
)

// Version is overridden at link time with -ldflags "-X main.Version=...".
var Version = "dev"

const rootLongDesc = `
apiref generates a Markdown API reference for a compiled library. It reads the
library's type metadata from a YAML manifest and, when present, the
documentation-comment XML file next to it (same base name, .xml extension).

One page is written per top-level type, under one directory per namespace
segment. Cross-references in the documentation become relative links between
pages; references that cannot be resolved are rendered as [Not found!].

Settings may also come from a .apiref.yaml file in the working directory or
from APIREF_* environment variables (APIREF_OUTPUT, APIREF_LOG_LEVEL, ...).
`

// manifestExts are the file extensions offered when completing the manifest
// argument.
var manifestExts = []string{"yaml", "yml"}

func newRootCmd(stdout io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout, stderr: os.Stderr}
	cmd := &cobra.Command{
		Use:           "apiref [flags] <manifest>",
		Short:         "Render a library API reference as Markdown",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return manifestExts, cobra.ShellCompDirectiveFilterFileExt
		},
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.StringP(keyOutput, "o", "", "output directory (default: working directory)")
	flags.Bool(keyAll, false, "document every type and member, not only the public API")
	flags.String(keyRoot, "", "directory name prefixed to cross-reference links (default: output directory name)")
	flags.Bool(keyTOC, true, "write a README.md table of contents")
	flags.String(keyLogLevel, "info", "log level (debug, info, warn, error)")
	flags.String(keyLogFormat, "console", "log format (console, json)")
	flags.String(keyConfig, "", "config file (default: ./.apiref.yaml)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Usage()
		}
		opts, err := loadOptions(cmd.Flags())
		if err != nil {
			return err
		}
		app.opts = opts
		return app.execute(cmd.Context(), args[0])
	}

	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

type completionFunc func(root *cobra.Command, w io.Writer) error

var completionShells = map[string]completionFunc{
	"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	shells := make([]string, 0, len(completionShells))
	for name := range completionShells {
		shells = append(shells, name)
	}
	sort.Strings(shells)

	cmd := &cobra.Command{
		Use:   "completion [" + strings.Join(shells, "|") + "]",
		Short: "Generate shell completion scripts",
		Long: strings.TrimSpace(`
Print a completion script for apiref. Manifest arguments complete to
.yaml and .yml files.

  apiref completion bash > /usr/local/etc/bash_completion.d/apiref
  apiref completion zsh > "${fpath[1]}/_apiref"
  apiref completion fish | source
  apiref completion powershell | Out-String | Invoke-Expression
`),
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             shells,
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		gen, ok := completionShells[args[0]]
		if !ok {
			return fmt.Errorf("unsupported shell %q", args[0])
		}
		return gen(root, cmd.OutOrStdout())
	}
	return cmd
}

// CLI reference formats accepted by gen-docs.
const (
	docsMarkdown = "markdown"
	docsMan      = "man"
	docsYAML     = "yaml"
)

var errDocsFormat = errors.New("unsupported docs format")

func newDocsCmd(root *cobra.Command) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "gen-docs <directory>",
		Short: "Generate reference docs for the CLI",
		Long: strings.TrimSpace(`
Write one file per command into the directory: Markdown by default, man
pages with --format man, or YAML with --format yaml.

  apiref gen-docs ./docs/cli
  apiref gen-docs --format man ./man/man1
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&format, "format", docsMarkdown, "output format (markdown, man, yaml)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return fmt.Errorf("target directory is required")
		}
		var gen func() error
		switch format {
		case docsMarkdown, "md":
			gen = func() error { return cobradoc.GenMarkdownTree(root, target) }
		case docsMan:
			header := &cobradoc.GenManHeader{Title: "APIREF", Section: "1", Source: "apiref " + Version}
			gen = func() error { return cobradoc.GenManTree(root, header, target) }
		case docsYAML:
			gen = func() error { return cobradoc.GenYamlTree(root, target) }
		default:
			return fmt.Errorf("%w %q", errDocsFormat, format)
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		return gen()
	}
	return cmd
}
