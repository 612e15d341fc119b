package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agentflare-ai/go-apiref/internal/docsource"
	"github.com/agentflare-ai/go-apiref/internal/metadata"
	"github.com/agentflare-ai/go-apiref/internal/nstree"
	"github.com/agentflare-ai/go-apiref/internal/resolve"
	"github.com/agentflare-ai/go-apiref/internal/signature"
)

const tocFileName = "README.md"

var errNoTypes = errors.New("no types to document")

type cliApp struct {
	stdout io.Writer
	stderr io.Writer
	opts   options
}

// page is one output file: a top-level type with its nested types
// embedded.
type page struct {
	node     *nstree.Node
	relPath  string // Slash-separated, relative to the output directory
	summary  string
	markdown []byte
}

func run(argv []string, stdout io.Writer) error {
	return runContext(context.Background(), argv, stdout)
}

// runContext executes the command line. Cancelling ctx stops page rendering
// before anything is written.
func runContext(ctx context.Context, argv []string, stdout io.Writer) error {
	cmd := newRootCmd(stdout)
	args := normalizeLegacyArgs(argv)
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func (app *cliApp) execute(ctx context.Context, manifestPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := app.opts
	log := newLogger(app.stderr, opts.logLevel, opts.logFormat)

	lib, err := metadata.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	docPath := docsource.PathFor(manifestPath)
	docs, found, err := docsource.Load(docPath)
	if err != nil {
		return err
	}
	if !found {
		log.Warn().Str("path", docPath).Msg("documentation file not found, pages will carry declarations only")
	} else {
		log.Debug().Str("path", docPath).Int("entries", docs.Len()).Msg("documentation loaded")
	}

	tree, dups, err := nstree.Build(lib, !opts.all, log)
	if err != nil {
		return err
	}
	if len(dups) > 0 {
		log.Warn().Int("count", len(dups)).Msg("duplicate member keys")
	}

	pages := collectPages(tree)
	if len(pages) == 0 {
		return fmt.Errorf("%s: %w", manifestPath, errNoTypes)
	}
	renderer := newPageRenderer(docs, resolve.Resolver{Tree: tree, Root: opts.root}, log)
	if err := renderPages(ctx, renderer, pages); err != nil {
		return err
	}
	if err := writePages(opts.output, pages); err != nil {
		return err
	}
	if opts.toc {
		toc := buildTOC(lib.Name, opts.root, pages)
		if err := writeOutput(filepath.Join(opts.output, tocFileName), app.stdout, toc); err != nil {
			return err
		}
	}
	log.Info().Str("library", lib.Name).Int("pages", len(pages)).Str("output", opts.output).Msg("reference generated")
	return nil
}

// collectPages lists the top-level types of the tree in insertion order.
// Nested types are not pages of their own.
func collectPages(tree *nstree.Tree) []*page {
	var pages []*page
	tree.Walk(func(n *nstree.Node) bool {
		switch n.Kind() {
		case nstree.NamespaceNode:
			return true
		case nstree.TypeNode:
			rel := strings.ReplaceAll(n.FullName(), ".", "/") + resolve.PageExt
			pages = append(pages, &page{node: n, relPath: rel})
		}
		return false
	})
	return pages
}

// renderPages renders every page concurrently into memory. The first error
// cancels the remaining work.
func renderPages(ctx context.Context, r *pageRenderer, pages []*page) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, p := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			md, err := r.renderPage(p.node)
			if err != nil {
				return err
			}
			p.markdown = md
			p.summary = r.summaryLine(p.node)
			return nil
		})
	}
	return g.Wait()
}

func writePages(outDir string, pages []*page) error {
	if outDir == "" {
		return errors.New("missing output directory")
	}
	for _, p := range pages {
		if err := writeOutput(filepath.Join(outDir, filepath.FromSlash(p.relPath)), nil, p.markdown); err != nil {
			return err
		}
	}
	return nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

var legacyLongFlagSet = map[string]struct{}{
	keyAll:       {},
	keyOutput:    {},
	keyRoot:      {},
	keyTOC:       {},
	keyLogLevel:  {},
	keyLogFormat: {},
	keyConfig:    {},
}

// normalizeLegacyArgs rewrites single-dash long flags (-all, -output=x) to
// their double-dash form.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	modified := false
	converted := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			converted = append(converted, args[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") || len(arg) <= 2 {
			converted = append(converted, arg)
			continue
		}
		name, value, hasValue := strings.Cut(arg[1:], "=")
		if _, ok := legacyLongFlagSet[name]; ok {
			if hasValue {
				converted = append(converted, "--"+name+"="+value)
			} else {
				converted = append(converted, "--"+name)
			}
			modified = true
			continue
		}
		converted = append(converted, arg)
	}
	if !modified {
		return args
	}
	return converted
}

type tocEntry struct {
	title   string
	link    string
	summary string
}

// buildTOC lists the pages grouped by namespace, in tree order. Links use
// the same root as cross-references inside pages.
func buildTOC(library, root string, pages []*page) []byte {
	var (
		order  []string
		groups = make(map[string][]tocEntry)
	)
	for _, p := range pages {
		ns := "(global)"
		if parent := p.node.Parent(); parent != nil && parent.FullName() != "" {
			ns = parent.FullName()
		}
		if _, ok := groups[ns]; !ok {
			order = append(order, ns)
		}
		t := p.node.Type()
		groups[ns] = append(groups[ns], tocEntry{
			title:   resolve.EscapeMarkdown(signature.FormatType(t.SelfRef(), t)),
			link:    resolve.PagePath(root, p.node),
			summary: p.summary,
		})
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", library)
	buf.WriteString("## Namespaces\n")
	for _, ns := range order {
		fmt.Fprintf(&buf, "\n### %s\n\n", ns)
		for _, entry := range groups[ns] {
			if entry.summary != "" {
				fmt.Fprintf(&buf, "- [%s](%s) — %s\n", entry.title, entry.link, entry.summary)
			} else {
				fmt.Fprintf(&buf, "- [%s](%s)\n", entry.title, entry.link)
			}
		}
	}
	return buf.Bytes()
}
