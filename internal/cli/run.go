package cli

import (
	"fmt"
	"io"
	"log/slog"

	"mapsynth/internal/analyze"
	"mapsynth/internal/diagnostic"
	"mapsynth/internal/emit"
	"mapsynth/internal/gen"
	"mapsynth/internal/mapping"
	"mapsynth/internal/plan"
)

// Run executes the pipeline described by cfg. Diagnostics are printed to out
// and logs go to logOut.
//
// Files are written even when the plan has errors; failing pairs become
// placeholder routines. Any error diagnostic still makes Run return an
// ExitError with code 1.
func Run(cfg *Config, out, logOut io.Writer) error {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logOut)

	graph, err := loadGraph(cfg.Packages, logger)
	if err != nil {
		return err
	}

	mf, err := mapping.LoadFile(cfg.MappingPath)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	var diags diagnostic.Diagnostics

	diags.Merge(*mapping.DeclareTypes(mf, graph))

	requests, reqDiags := mapping.BuildRequests(mf, graph)
	diags.Merge(*reqDiags)

	rc := plan.DefaultConfig()
	rc.IgnoreMissing = mf.Defaults.IgnoreMissing
	rc.DeepCopy = mf.Defaults.DeepCopy
	rc.StrictTargets = cfg.Strict

	p := plan.NewResolver(graph, requests, rc, plan.WithLogger(logger)).Resolve()
	diags.Merge(p.Diagnostics)

	printDiagnostics(out, &diags)

	if !cfg.Check {
		if err := write(cfg, graph, p, logger); err != nil {
			return err
		}
	}

	if n := len(diags.Errors()); n > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%s: %d error(s)", cfg.MappingPath, n)}
	}

	return nil
}

func loadGraph(patterns []string, logger *slog.Logger) (*analyze.TypeGraph, error) {
	if len(patterns) == 0 {
		return analyze.NewTypeGraph(), nil
	}

	graph, err := analyze.NewAnalyzer().LoadPackages(patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	logger.Debug("packages loaded", "patterns", patterns, "types", len(graph.Types))

	return graph, nil
}

func write(cfg *Config, graph *analyze.TypeGraph, p *plan.Plan, logger *slog.Logger) error {
	prog := emit.Synthesize(p)

	g := gen.NewGenerator(graph, gen.GeneratorConfig{
		PackageName:      cfg.PackageName,
		PackagePath:      cfg.PackagePath,
		OutputDir:        cfg.OutputDir,
		RegistryImport:   cfg.RegistryPath,
		GenerateComments: true,
	})

	files, err := g.Generate(prog)
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}

	if err := gen.WriteFiles(files, cfg.OutputDir); err != nil {
		return err
	}

	logger.Info("files written", "dir", cfg.OutputDir, "files", len(files), "routines", len(prog.Routines))

	return nil
}

// printDiagnostics writes one line per diagnostic, errors first.
func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics) {
	for _, sev := range []diagnostic.DiagnosticSeverity{
		diagnostic.DiagnosticError, diagnostic.DiagnosticWarning, diagnostic.DiagnosticInfo,
	} {
		for _, d := range diags.Entries {
			if d.Severity == sev {
				fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
			}
		}
	}
}
