package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/LiCHH/luna/codegen"
	"github.com/LiCHH/luna/feedback"
	"github.com/LiCHH/luna/interp"
	"github.com/LiCHH/luna/parser"
	"github.com/LiCHH/luna/runtime"
	"github.com/LiCHH/luna/source"
	"github.com/LiCHH/luna/stdlib"
	"github.com/LiCHH/luna/strtab"
)

var noColor bool
var debugAST bool
var debugBytecode bool
var debugGC bool

func readSourceFiles(args []string) (files []*source.File) {
	var filenames []string

	for _, arg := range args {
		if abs, err := filepath.Abs(arg); err == nil {
			if path.Ext(abs) == ".luna" {
				filenames = append(filenames, abs)
			} else {
				fmt.Printf("could not use '%s' with extension '%s'\n", abs, path.Ext(abs))
			}
		} else {
			fmt.Printf("could not find '%s'\n", arg)
		}
	}

	for _, filename := range filenames {
		buf, err := ioutil.ReadFile(filename)
		if err != nil {
			fmt.Println(err.Error())
			continue
		}

		contents := string(buf)
		lines := strings.SplitAfter(contents, "\n")

		files = append(files, &source.File{
			Filename: filename,
			Contents: contents,
			Lines:    lines,
		})
	}

	return files
}

func runFile(f *source.File) {
	chunk, msgs := parser.Parse(f)

	for _, msg := range msgs {
		fmt.Println(msg.Make(!noColor))
	}
	for _, msg := range msgs {
		if _, ok := msg.(feedback.Error); ok {
			return
		}
	}

	if debugAST {
		fmt.Println(color.New(color.Bold).Sprint("-- ast --"))
		fmt.Printf("%#v\n\n", chunk)
	}

	gc := runtime.New()
	interner := strtab.New(gc)
	env := gc.NewTable()
	stdlib.Install(gc, interner, env)

	state := &codegen.State{GC: gc, Interner: interner, Env: env}
	proto, closure, err := codegen.Generate(f, state, chunk)
	if err != nil {
		if ce, ok := err.(*codegen.CodegenError); ok {
			fmt.Println(ce.ToFeedback().Make(!noColor))
		} else {
			fmt.Println(err.Error())
		}
		return
	}

	if debugBytecode {
		fmt.Println(color.New(color.Bold).Sprint("-- bytecode --"))
		codegen.Disassemble(os.Stdout, proto)
		fmt.Println()
	}

	vm := interp.New(gc, env)
	if err := vm.Run(closure); err != nil {
		fmt.Println(err.Error())
	}

	if debugGC {
		gen0, gen1, gen2 := gc.GenerationCounts()
		fmt.Printf("%s gen0=%d gen1=%d gen2=%d\n", color.New(color.Bold).Sprint("-- gc --"), gen0, gen1, gen2)
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "luna"
	app.Usage = "a small register-based scripting language runtime"

	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "no-color", Destination: &noColor, Usage: "hide colors in error and debug output"},
		cli.BoolFlag{Name: "debug-ast", Destination: &debugAST, Usage: "print the parsed abstract syntax tree"},
		cli.BoolFlag{Name: "debug-bytecode", Destination: &debugBytecode, Usage: "print disassembled bytecode before running"},
		cli.BoolFlag{Name: "debug-gc", Destination: &debugGC, Usage: "print generation occupancy after running"},
	}

	app.Action = func(c *cli.Context) error {
		for _, f := range readSourceFiles(c.Args()) {
			runFile(f)
		}
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
