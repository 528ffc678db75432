package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/a-peyrard/godeco/fn"
	"github.com/a-peyrard/godeco/heap"
	"github.com/a-peyrard/godeco/set"
)

const generatedHeader = "// Code generated by decogen. DO NOT EDIT.\n\n"

func compareDefinitions(d1, d2 DecoratorDefinition) fn.ComparisonResult {
	if d1.Priority != d2.Priority {
		if d1.Priority < d2.Priority {
			return fn.Less
		}
		return fn.Greater
	}
	return fn.ComparisonResult(strings.Compare(d2.Named, d1.Named))
}

// generateCode writes the catalog wiring for every discovered decorator,
// highest priority first.
func generateCode(
	outputPath string,
	catalog *CatalogDefinition,
	definitions []DecoratorDefinition,
) error {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString(fmt.Sprintf("package %s\n\n", catalog.PackageName))

	aliases := buildAliases(definitions)

	b.WriteString("import (\n")
	b.WriteString("\tgodeco \"github.com/a-peyrard/godeco\"\n")
	for _, imp := range sortedImports(aliases) {
		b.WriteString(fmt.Sprintf("\t%s %q\n", aliases[imp], imp))
	}
	b.WriteString(")\n\n")

	b.WriteString(fmt.Sprintf("// BuildCatalog registers every decorator of the module on a new catalog.\nfunc (c *%s) BuildCatalog() (*godeco.Catalog, error) {\n", catalog.StructName))
	b.WriteString("\tcatalog := godeco.NewCatalog()\n\n")

	queue := heap.New(fn.ReverseComparator(compareDefinitions))
	for _, definition := range definitions {
		queue.Push(definition)
	}
	for queue.IsNotEmpty() {
		definition := queue.Pop()
		if definition.Description != "" {
			for _, line := range strings.Split(definition.Description, "\n") {
				b.WriteString(fmt.Sprintf("\t// %s\n", line))
			}
		}
		b.WriteString(fmt.Sprintf("\t// kind=%s priority=%d\n", definition.Kind, definition.Priority))
		b.WriteString(fmt.Sprintf(
			"\tif err := register(catalog, %q, %s.%s); err != nil {\n\t\treturn nil, err\n\t}\n",
			definition.Named, aliases[definition.ImportPath], definition.FnName,
		))
	}

	b.WriteString("\n\treturn catalog, nil\n}\n\n")
	b.WriteString(`func register(catalog *godeco.Catalog, id string, decorator any) error {
	ref, err := godeco.AsDecorator(id, decorator)
	if err != nil {
		return err
	}
	return catalog.Add(ref)
}
`)

	return os.WriteFile(outputPath, []byte(b.String()), 0o644)
}

func buildAliases(definitions []DecoratorDefinition) map[string]string {
	var (
		aliases = make(map[string]string)
		taken   = set.NewWithValues("godeco")
	)
	for _, definition := range definitions {
		if _, exists := aliases[definition.ImportPath]; exists {
			continue
		}
		alias := findSuitableAlias(definition.ImportPath, taken)
		taken.Add(alias)
		aliases[definition.ImportPath] = alias
	}
	return aliases
}

func sortedImports(aliases map[string]string) []string {
	imports := make([]string, 0, len(aliases))
	for imp := range aliases {
		imports = append(imports, imp)
	}
	sort.Strings(imports)
	return imports
}

// findSuitableAlias derives an import alias from the last path token,
// prepending initials of the previous tokens on collision, then a counter
// once the tokens are exhausted.
func findSuitableAlias(pkg string, taken set.Set[string]) string {
	tokens := strings.Split(pkg, "/")

	base := sanitizeAlias(tokens[len(tokens)-1])
	candidate := base

	for i := len(tokens) - 2; taken.Contains(candidate) && i >= 0; i-- {
		initial := sanitizeAlias(tokens[i])
		if initial == "" {
			continue
		}
		candidate = initial[:1] + candidate
	}
	for i := 2; taken.Contains(candidate); i++ {
		candidate = base + strconv.Itoa(i)
	}

	return candidate
}

func sanitizeAlias(token string) string {
	var b strings.Builder
	for _, r := range token {
		if r == '-' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
