package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	jsonrule "github.com/mkondo/jsonrule"
	"github.com/mkondo/jsonrule/compile"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "validate":
		validateCmd(os.Args[2:])
	case "check":
		checkCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "jsonrule CLI\n\nUsage:\n  jsonrule validate -schema schema.json -data doc.json [-warn] [-fail-fast]\n  jsonrule check -schema schema.json\n\nSchema and data files may be JSON or YAML (by extension).")
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var schemaPath, dataPath string
	var warn, failFast bool
	fs.StringVar(&schemaPath, "schema", "", "schema file (json or yaml)")
	fs.StringVar(&dataPath, "data", "", "document to validate (json or yaml)")
	fs.BoolVar(&warn, "warn", false, "print compile warnings to stderr")
	fs.BoolVar(&failFast, "fail-fast", false, "stop at the first issue")
	_ = fs.Parse(args)
	if schemaPath == "" || dataPath == "" {
		fs.Usage()
		os.Exit(2)
	}

	rule, _ := mustCompile(schemaPath, warn)
	if rule == nil {
		fmt.Fprintln(os.Stderr, "schema declares no top-level properties; nothing to validate")
		os.Exit(0)
	}

	doc, err := loadDocument(dataPath)
	if err != nil {
		fatalf("read data: %v", err)
	}

	ctx := jsonrule.WithFailFast(context.Background(), failFast)
	if err := rule.Validate(ctx, doc); err != nil {
		if iss, ok := jsonrule.AsIssues(err); ok {
			for _, it := range iss {
				fmt.Printf("%s at %s: %s\n", it.Code, it.Path, it.Message)
			}
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
	fmt.Println("ok")
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var schemaPath string
	fs.StringVar(&schemaPath, "schema", "", "schema file (json or yaml)")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	rule, diag := mustCompile(schemaPath, true)
	if rule == nil {
		fmt.Println("schema compiles to no rule (no top-level properties)")
		return
	}
	if diag.HasWarnings() {
		fmt.Printf("ok with %d warning(s)\n", len(diag.Warnings()))
		return
	}
	fmt.Println("ok")
}

func mustCompile(path string, warn bool) (jsonrule.Rule, compile.Diag) {
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("read schema: %v", err)
	}
	var rule jsonrule.Rule
	var diag compile.Diag
	if isYAML(path) {
		rule, diag, err = compile.CompileYAML(data, compile.Options{})
	} else {
		rule, diag, err = compile.Compile(data, compile.Options{})
	}
	if err != nil {
		fatalf("compile schema: %v", err)
	}
	if warn {
		for _, w := range diag.Warnings() {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}
	return rule, diag
}

func loadDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v any
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(2)
}
