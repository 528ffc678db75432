package main

import (
	"fmt"
	"go/ast"
	"go/token"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-peyrard/godeco/config"
	"github.com/a-peyrard/godeco/slices"
	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"
)

const decoratorAnnotationTag = "@decorator"

type (
	// Settings is the decogen configuration, loaded from DECOGEN_* env vars.
	Settings struct {
		DryRun   bool   `mapstructure:"dry_run"`
		LogLevel string `mapstructure:"log_level"`
	}

	DecoratorDefinition struct {
		Named       string
		Kind        string
		Description string

		FnName     string
		ImportPath string

		Priority int
	}

	CatalogDefinition struct {
		PackageName string
		StructName  string
	}
)

func (s *Settings) ApplyDefault() {
	if s.LogLevel == "" {
		s.LogLevel = "debug"
	}
}

func (d DecoratorDefinition) String() string {
	return fmt.Sprintf(
		`🎨 Decorator: %s
Description: %s
Import Path: %s
Named: %s
Kind: %s
Priority: %d`,
		d.FnName,
		d.Description,
		d.ImportPath,
		d.Named,
		d.Kind,
		d.Priority,
	)
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached root
		}
		dir = parent
	}
	return "."
}

func findCommentedCatalog(file *ast.File, logger *zerolog.Logger) *CatalogDefinition {
	var definition *CatalogDefinition
	ast.Inspect(file, func(n ast.Node) bool {
		genDecl, ok := n.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			return true
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}
			for _, field := range structType.Fields.List {
				if len(field.Names) != 0 { // only embedded fields
					continue
				}
				sel, ok := field.Type.(*ast.SelectorExpr)
				if !ok {
					continue
				}
				if ident, ok := sel.X.(*ast.Ident); ok &&
					ident.Name == "godeco" && sel.Sel.Name == "EmptyCatalog" {

					logger.Debug().Str("struct", typeSpec.Name.Name).Msg("=> Found catalog")
					definition = &CatalogDefinition{
						PackageName: file.Name.Name,
						StructName:  typeSpec.Name.Name,
					}
				}
			}
		}
		return true
	})
	return definition
}

func main() {
	settings, err := config.Load[Settings](config.WithEnvPrefix("DECOGEN"))
	if err != nil {
		log.Fatalf("Failed to load decogen settings: %v\n", err)
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		With().
		Timestamp().
		Logger()

	startScan := time.Now()

	// capture the target file/package, where the generator is invoked
	targetFile := os.Getenv("GOFILE")
	targetPackage := os.Getenv("GOPACKAGE")
	currentDir, _ := os.Getwd()
	targetFilePath := filepath.Join(currentDir, targetFile)

	// switch to the root of the module as we want to scan the whole module
	moduleRoot := findModuleRoot()
	if err = os.Chdir(moduleRoot); err != nil {
		log.Fatalf("Failed to change directory to module root: %v\n", err)
	}

	// analyze all the packages in the module, looking for:
	// - functions annotated with @decorator
	// - a struct embedding godeco.EmptyCatalog in the file triggering the generation
	var (
		decoratorDefinitions []DecoratorDefinition
		catalogDefinition    *CatalogDefinition
	)

	cfg := &packages.Config{
		Mode: packages.NeedFiles | packages.NeedSyntax,
	}
	pkgs, _ := packages.Load(cfg, "./...")

	for _, pkg := range pkgs {
		logger := logger.With().Str("package", pkg.ID).Logger()
		logger.Debug().Msg("Scanning package")
		for _, file := range pkg.Syntax {
			filePath := pkg.Fset.Position(file.Pos()).Filename
			importPath := pkg.ID

			// only look for the catalog struct in the file triggering the generation
			if filePath == targetFilePath {
				catalogDefinition = findCommentedCatalog(file, &logger)
			}

			ast.Inspect(file, func(n ast.Node) bool {
				fn, ok := n.(*ast.FuncDecl)
				if !ok {
					return true
				}
				if fn.Doc == nil || !strings.Contains(fn.Doc.Text(), decoratorAnnotationTag) {
					return true
				}
				logger := logger.With().Str("decorator", fn.Name.Name).Logger()

				logger.Debug().Msg("=> Found decorator")
				annotation := parseDecoratorAnnotation(&logger, fn.Doc.Text())

				named, found := annotation.Named()
				if !found {
					named = strings.ToLower(fn.Name.Name[:1]) + fn.Name.Name[1:]
				}
				kind, _ := annotation.Kind()
				priority, _ := annotation.Priority()

				decoratorDefinitions = append(decoratorDefinitions, DecoratorDefinition{
					FnName:      fn.Name.Name,
					Description: annotation.description,
					ImportPath:  importPath,
					Named:       named,
					Kind:        kind,
					Priority:    priority,
				})
				return true
			})
		}
	}

	stopScan := time.Now()

	if catalogDefinition == nil {
		logger.Error().Msgf(
			"No catalog struct found in the target package: %s, make sure you have a struct like this:\ntype Catalog struct {\n    godeco.EmptyCatalog\n}",
			targetPackage,
		)
		os.Exit(1)
	}

	logger.Info().Msgf("👨‍🔧 Catalog found: %+v", catalogDefinition)
	logger.Info().Msgf("🎯 %d decorators found in the module", len(decoratorDefinitions))
	definitionsLogs := slices.Map(decoratorDefinitions, DecoratorDefinition.String)
	logger.Debug().Msgf("Decorators:\n%s", strings.Join(definitionsLogs, "\n----\n"))
	logger.Info().Msgf("🕵️ Scanning completed in %s", stopScan.Sub(startScan))

	outputPath := filepath.Join(
		filepath.Dir(targetFilePath),
		strings.TrimSuffix(filepath.Base(targetFilePath), ".go")+"_gen.go",
	)
	if settings.DryRun {
		outputPath = filepath.Join(os.TempDir(), filepath.Base(outputPath))
	}

	if err = generateCode(outputPath, catalogDefinition, decoratorDefinitions); err != nil {
		logger.Error().Err(err).Msgf("Failed to generate code in %s", outputPath)
		os.Exit(1)
	}
	logger.Info().Msgf("✅ Code generated successfully in %s", outputPath)
}
