package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"
	"unicode"

	"mapsynth/internal/analyze"
	"mapsynth/internal/emit"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// PackagePath is the import path of the generated package. Types of that
	// package are referenced unqualified.
	PackagePath string
	// OutputDir is where files are written, and where unformatted sources
	// are dropped when formatting fails.
	OutputDir string
	// RegistryImport is the import path of the runtime registry package.
	RegistryImport string
	// GenerateComments adds a doc comment to every generated function.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "mappers",
		OutputDir:        "./mappers",
		RegistryImport:   "mapsynth/registry",
		GenerateComments: true,
	}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	Filename string
	Content  []byte
}

// RegisterFile is the name of the file holding the Register function.
const RegisterFile = "register.go"

// Generator renders programs as Go source.
type Generator struct {
	graph  *analyze.TypeGraph
	config GeneratorConfig
}

// NewGenerator creates a new code generator.
// The graph is used to name imported packages and may be nil.
func NewGenerator(graph *analyze.TypeGraph, config GeneratorConfig) *Generator {
	if config.RegistryImport == "" {
		config.RegistryImport = DefaultGeneratorConfig().RegistryImport
	}

	return &Generator{graph: graph, config: config}
}

type fileData struct {
	PackageName string
	Imports     []importSpec
	Funcs       []funcData
}

type funcData struct {
	Doc     string
	Name    string
	Params  string
	Results string
	Lines   []string
}

// Generate renders one file per routine plus the register file when the
// program has public signatures. Files come out in routine order.
func (g *Generator) Generate(prog *emit.Program) ([]GeneratedFile, error) {
	files := make([]GeneratedFile, 0, len(prog.Routines)+1)

	for _, r := range prog.Routines {
		file, err := g.generateRoutine(prog, r)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", r.Name, err)
		}

		files = append(files, file)
	}

	if len(prog.Signatures) > 0 {
		file, err := g.generateRegister(prog)
		if err != nil {
			return nil, fmt.Errorf("generating register: %w", err)
		}

		files = append(files, file)
	}

	return files, nil
}

func (g *Generator) generateRoutine(prog *emit.Program, r *emit.Routine) (GeneratedFile, error) {
	w := &routineWriter{scope: newScope(g.graph, g.config), prog: prog, r: r}
	w.render()

	fn := funcData{
		Name:    r.Name,
		Params:  "in " + w.inType(),
		Results: "(" + w.outType() + ", error)",
		Lines:   w.lines,
	}

	if g.config.GenerateComments {
		fn.Doc = fmt.Sprintf("%s converts %s to %s.", r.Name, analyze.TypeString(r.Source), analyze.TypeString(r.Target))
		if p, ok := r.Body.(*emit.Placeholder); ok {
			fn.Doc += "\n// It always fails: " + p.Reason
		}
	}

	return g.render(fileName(r.Name), w.scope, []funcData{fn})
}

func (g *Generator) generateRegister(prog *emit.Program) (GeneratedFile, error) {
	s := newScope(g.graph, g.config)
	reg := s.use(g.config.RegistryImport)

	var lines []string

	add := func(in, out string, body ...string) {
		lines = append(lines, fmt.Sprintf("b.Add(%s.TagFor[%s](), %s.TagFor[%s](), func(_ *%s.Dispatcher, src any) (any, error) {",
			reg, in, reg, out, reg))
		lines = append(lines, body...)
		lines = append(lines, "})")
	}

	for _, sig := range prog.Signatures {
		w := &routineWriter{scope: s, prog: prog, r: prog.Routine(sig.Key)}
		in, out := w.inType(), w.outType()

		add(in, out, fmt.Sprintf("return %s(src.(%s))", sig.Name, in))

		if byPointer(w.r) {
			add(strings.TrimPrefix(in, "*"), strings.TrimPrefix(out, "*"),
				fmt.Sprintf("in := src.(%s)", strings.TrimPrefix(in, "*")),
				fmt.Sprintf("out, err := %s(&in)", sig.Name),
				"if err != nil {",
				"return nil, err",
				"}",
				"return *out, nil",
			)
		}
	}

	fn := funcData{
		Name:   "Register",
		Params: "b *" + reg + ".Builder",
		Lines:  lines,
	}

	if g.config.GenerateComments {
		fn.Doc = "Register adds the public conversions to b. Object conversions are\n// registered for both values and pointers."
	}

	return g.render(RegisterFile, s, []funcData{fn})
}

func (g *Generator) render(filename string, s *scope, funcs []funcData) (GeneratedFile, error) {
	data := fileData{
		PackageName: g.config.PackageName,
		Imports:     s.sortedImports(),
		Funcs:       funcs,
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return GeneratedFile{}, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Best-effort: keep the unformatted code next to the output for debugging.
		_ = writeDebugUnformatted(g.config.OutputDir, filename, buf.Bytes())

		return GeneratedFile{}, fmt.Errorf("formatting %s: %w", filename, err)
	}

	return GeneratedFile{Filename: filename, Content: formatted}, nil
}

// fileName turns a routine name into a snake_case file name,
// e.g. "MapStoreOrderToWarehouseOrder" -> "map_store_order_to_warehouse_order.go".
func fileName(name string) string {
	var b strings.Builder

	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				b.WriteByte('_')
			}

			r = unicode.ToLower(r)
		}

		b.WriteRune(r)
	}

	return b.String() + ".go"
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by mapsynth. DO NOT EDIT.

package {{.PackageName}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{if .Named}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{end}}
{{- range .Funcs}}
{{if .Doc}}
// {{.Doc}}
{{- end}}
func {{.Name}}({{.Params}}) {{.Results}} {
{{- range .Lines}}
	{{.}}
{{- end}}
}
{{end}}`))
