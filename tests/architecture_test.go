package architecture_test

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
)

const projectImportPath = "github.com/rafaelleal24/sales"

var (
	corePackages = []string{
		"internal/core/domain",
		"internal/core/dto",
		"internal/core/logger",
		"internal/core/serviceerrors",
	}

	// allowedImports maps a package to the project packages it may import.
	// The longest matching key wins. cmd/* is the composition root and may
	// import anything; every other package must have an entry.
	allowedImports = map[string][]string{
		"docs": {},

		"internal/core/domain":        {"internal/core/domain"},
		"internal/core/dto":           {"internal/core/domain"},
		"internal/core/logger":        {},
		"internal/core/serviceerrors": {},
		"internal/core/port":          {"internal/core/domain", "internal/core/port"},
		"internal/core/service":       core("internal/core/port"),

		"internal/adapters/config": {},
		// inbound adapters reach the core through services, never through ports
		"internal/adapters/cli":  core(),
		"internal/adapters/http": core("internal/core/service", "internal/adapters/config", "internal/adapters/http"),
		// outbound adapters implement ports
		"internal/adapters/mongo":    core("internal/core/port", "internal/adapters/config", "internal/adapters/mongo", "internal/adapters/outbox"),
		"internal/adapters/outbox":   core("internal/core/port", "internal/adapters/config", "internal/adapters/outbox"),
		"internal/adapters/rabbitmq": core("internal/core/port", "internal/adapters/config"),
		// the limiter satisfies the interface owned by the rate limit middleware
		"internal/adapters/redis": core("internal/core/port", "internal/adapters/config", "internal/adapters/http/middleware"),
	}
)

// core returns the shared core packages plus extra, in a fresh slice.
func core(extra ...string) []string {
	return append(append([]string{}, corePackages...), extra...)
}

func TestArchitecturalRules(t *testing.T) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		t.Fatal("Failed to find project root:", err)
	}

	err = filepath.Walk(projectRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// the go tool ignores _ and . directories, so do we
		if info.IsDir() && path != projectRoot &&
			(strings.HasPrefix(info.Name(), "_") || strings.HasPrefix(info.Name(), ".")) {
			return filepath.SkipDir
		}

		if !strings.HasSuffix(path, ".go") ||
			strings.HasSuffix(path, "_test.go") {
			return nil
		}

		fset := token.NewFileSet()
		node, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			fmt.Printf("Failed to parse %s: %v\n", path, err)
			return nil
		}

		relPath, err := filepath.Rel(projectRoot, path)
		if err != nil {
			fmt.Printf("Failed to get relative path for %s: %v\n", path, err)
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if _, ok := ruleFor(relPath); !ok && !strings.HasPrefix(relPath, "cmd/") {
			t.Errorf("ARCHITECTURE: %s belongs to no layer, add it to allowedImports", relPath)
			return nil
		}

		for _, imp := range node.Imports {
			importPath := strings.Trim(imp.Path.Value, "\"")

			if isViolation(relPath, importPath) {
				position := fset.Position(imp.Pos())
				fmt.Printf("  VIOLATION FOUND: %s imports %s at %v\n", relPath, importPath, position)
				t.Errorf("ARCHITECTURE VIOLATION at %v: %s imports %s", position, relPath, importPath)
			}
		}

		return nil
	})

	if err != nil {
		t.Fatal("Failed to walk through project files:", err)
	}
}

func TestIsViolation(t *testing.T) {
	tests := []struct {
		file   string
		imp    string
		broken bool
	}{
		{"internal/core/domain/order.go", "internal/core/dto", true},
		{"internal/core/dto/order.go", "internal/core/domain", false},
		{"internal/core/port/order.go", "internal/core/service", true},
		{"internal/core/service/order.go", "internal/core/port", false},
		{"internal/core/service/order.go", "internal/adapters/mongo", true},
		{"internal/core/service/order.go", "internal/adapters/config", true},
		{"internal/adapters/cli/seed.go", "internal/core/serviceerrors", false},
		{"internal/adapters/cli/seed.go", "internal/core/port", true},
		{"internal/adapters/cli/seed.go", "internal/core/service", true},
		{"internal/adapters/cli/seed.go", "internal/adapters/mongo/repository", true},
		{"internal/adapters/http/controllers/order.go", "internal/core/service", false},
		{"internal/adapters/http/controllers/order.go", "internal/core/port", true},
		{"internal/adapters/http/controllers/order.go", "internal/adapters/redis", true},
		{"internal/adapters/http/controllers/order.go", "docs", true},
		{"internal/adapters/redis/ratelimit.go", "internal/adapters/http/middleware", false},
		{"internal/adapters/redis/ratelimit.go", "internal/adapters/http/controllers", true},
		{"internal/adapters/mongo/repository/order.go", "internal/adapters/outbox", false},
		{"internal/adapters/rabbitmq/rabbitmq.go", "internal/adapters/outbox", true},
		{"docs/docs.go", "internal/core/domain", true},
		{"cmd/http/main.go", "docs", false},
		{"internal/adapters/http/router.go", "internal/adapters/httpx", true},
		{"internal/core/service/order.go", "github.com/other/project/internal/adapters/mongo", false},
	}

	for _, tt := range tests {
		imp := tt.imp
		if !strings.Contains(imp, ".") {
			imp = projectImportPath + "/" + imp
		}
		if got := isViolation(tt.file, imp); got != tt.broken {
			t.Fatalf("isViolation(%s, %s) = %v, want %v", tt.file, tt.imp, got, tt.broken)
		}
	}
}

// ruleFor returns the allowed imports of the longest package prefix containing filePath.
func ruleFor(filePath string) ([]string, bool) {
	dir := path.Dir(filePath)
	best := ""
	for pkg := range allowedImports {
		if within(dir, pkg) && len(pkg) > len(best) {
			best = pkg
		}
	}
	if best == "" {
		return nil, false
	}
	return allowedImports[best], true
}

func within(pkg, prefix string) bool {
	return pkg == prefix || strings.HasPrefix(pkg, prefix+"/")
}

func isViolation(filePath, importPath string) bool {
	if importPath != projectImportPath && !strings.HasPrefix(importPath, projectImportPath+"/") {
		return false
	}
	internalImportPath := strings.TrimPrefix(strings.TrimPrefix(importPath, projectImportPath), "/")

	if strings.HasPrefix(filePath, "cmd/") {
		return false
	}

	allowed, ok := ruleFor(filePath)
	if !ok {
		return true
	}
	for _, prefix := range allowed {
		if within(internalImportPath, prefix) {
			return false
		}
	}
	return true
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	currentDir, _ := os.Getwd()
	return currentDir, nil
}
