package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mirage-lang/mirage/image"
	"github.com/mirage-lang/mirage/manifest"
	"github.com/mirage-lang/mirage/parser"
)

var (
	buildInput  string
	buildOutput string
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Assemble a manifest and its main file into a .mirage image",
		RunE:  runBuild,
	}
	cmd.Flags().StringVarP(&buildInput, "input", "i", "", "manifest file (default: ./manifest.json)")
	cmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output image path (default: <package>.mirage)")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	diag := newDiagnostics(flagNoColor)
	log := newLogger()

	manifestPath := buildInput
	if manifestPath == "" {
		manifestPath = "./manifest.json"
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		diag.Error("%s", err)
		return err
	}
	log.Info("loaded manifest", "package", m.Package, "main_file", m.MainFile)

	source, err := os.ReadFile(m.MainFile) // #nosec G304 -- manifest-declared source path
	if err != nil {
		diag.Error("reading the specified main file `%s`: %s", m.MainFile, err)
		return err
	}

	lexer := parser.NewLexer(string(source), m.MainFile)
	tokens := lexer.TokenizeAll()
	if lexer.Errors().HasErrors() {
		diag.Error("%s", lexer.Errors())
		return lexer.Errors()
	}
	if warnings := lexer.Errors().PrintWarnings(); warnings != "" {
		diag.Warning("%s", warnings)
	}

	p := parser.NewParser(tokens)
	instructions, err := p.Parse()
	if err != nil {
		diag.Error("parsing: %s", err)
		return err
	}

	output := buildOutput
	if output == "" {
		output = fmt.Sprintf("%s.mirage", m.Package)
	}

	meta := image.Metadata{
		Package:           m.Package,
		Timestamp:         time.Now(),
		Debug:             false,
		Instructions:      instructions,
		Description:       derefOr(m.Description, ""),
		License:           m.License,
		HasLicense:        m.License != "",
		TotalInstructions: len(instructions),
		CompiledVersion:   image.CompiledVersion,
	}
	if m.Version != nil {
		meta.Version, meta.HasVersion = *m.Version, true
	}
	if m.Author != nil {
		meta.Author, meta.HasAuthor = *m.Author, true
	}

	if err := os.WriteFile(output, image.Encode(meta), 0644); err != nil {
		diag.Error("creating output file `%s`: %s", output, err)
		return err
	}

	log.Info("built image", "output", output, "instructions", len(instructions))
	return nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
