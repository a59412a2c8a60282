// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/draklowell/Cpu8/asm"
	"github.com/draklowell/Cpu8/obj"
	"github.com/draklowell/Cpu8/rom"
)

const (
	directRomSize = 16 * 1024
	directRomFill = 0xFF
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: cpu8asm [options] <input.asm> [output]\n"+
		"Options:\n"+
		"  -o <file>         Output path (bin or obj)\n"+
		"  --object          Emit relocatable object (.o)\n"+
		"  --no-preprocess   Do not run external preprocessor\n"+
		"  --verbose         Print section size summary\n"+
		"  --help            Show this help message\n")
}

// preprocess pipes the input through the external C preprocessor so
// includes and macros are expanded before lexing. Line markers in its
// output keep diagnostics pointing at the original files.
func preprocess(path string) (string, error) {
	out, err := exec.Command("cpp", "-E", path).Output()
	if err != nil {
		return "", fmt.Errorf("preprocessor failed for %v: %w", path, err)
	}
	return string(out), nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("cpu8asm: ")

	var output string
	var emitObject bool
	var noPreprocess bool
	var verbose bool
	var help bool

	flag.StringVar(&output, "o", "", "Output path (bin or obj)")
	flag.BoolVar(&emitObject, "object", false, "Emit relocatable object")
	flag.BoolVar(&noPreprocess, "no-preprocess", false, "Do not run external preprocessor")
	flag.BoolVar(&verbose, "verbose", false, "Print section size summary")
	flag.BoolVar(&help, "help", false, "Show this help message")
	flag.Usage = usage
	flag.Parse()

	if help {
		usage()
		return
	}
	if flag.NArg() < 1 {
		log.Println("input file is required")
		usage()
		os.Exit(1)
	}
	input := flag.Arg(0)
	if output == "" && flag.NArg() >= 2 {
		output = flag.Arg(1)
	}
	if output == "" {
		log.Println("output file is required")
		usage()
		os.Exit(1)
	}

	assembler := asm.New(nil)

	var object *obj.File
	var err error
	if noPreprocess {
		object, err = assembler.AssembleFile(input)
	} else {
		var text string
		text, err = preprocess(input)
		if err == nil {
			object, err = assembler.AssembleText(text, input)
		}
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

	textSize := len(object.Sections[obj.SecText].Data)
	rodataSize := len(object.Sections[obj.SecRoData].Data)

	if emitObject {
		if err := obj.WriteFile(output, object); err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("Assembled successfully: %v\n", output)
		if verbose {
			fmt.Printf("   .text size: %v bytes, .rodata size: %v bytes\n",
				textSize, rodataSize)
			fmt.Printf("   Total ROM image: %v bytes\n", textSize+rodataSize)
		}
		return
	}

	if len(object.Relocs) != 0 {
		log.Fatalf("relocations present; use the linker or --object output")
	}

	image, err := rom.MakeFlatROM(object.Sections[obj.SecText].Data,
		object.Sections[obj.SecRoData].Data, directRomSize, directRomFill)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := rom.WriteBIN(output, image); err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("Assembled successfully: %v\n", output)
	if verbose {
		fmt.Printf("   .text size: %v bytes, .rodata size: %v bytes\n",
			textSize, rodataSize)
		fmt.Printf("   Total ROM image: %v bytes\n", len(image))
	}
}
