package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"handla-cli/internal/cli"
)

// quickAddName returns the product name of a `+Name` token.
func quickAddName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "+") {
		return "", false
	}
	name := strings.TrimSpace(strings.TrimPrefix(s, "+"))
	return name, name != ""
}

func rewriteQuickAddArgs(argv []string) []string {
	// Convenience: `handla +Kaffe` works like `handla items add Kaffe`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `handla --dir ... +Kaffe`), so we look for the
	// first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":    true,
		"--engine": true,
		"--format": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(i int) []string {
		name, _ := quickAddName(argv[i])
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "items", "add", name)
		out = append(out, argv[i+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) {
				if _, ok := quickAddName(argv[i+1]); ok {
					return rewrite(i + 1)
				}
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}
		if _, ok := quickAddName(a); ok {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	// Missing .env is fine; environment and flags still apply.
	_ = godotenv.Load()

	os.Args = rewriteQuickAddArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
