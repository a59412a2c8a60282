// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/draklowell/Cpu8/link"
	"github.com/draklowell/Cpu8/obj"
	"github.com/draklowell/Cpu8/rom"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: cpu8ld [options] <out.bin> <in1.o> <in2.o> ...\n"+
		"Options:\n"+
		"  --map <file.map>  Write a layout and symbol map\n"+
		"  --entry <sym>     Entry symbol (default main)\n"+
		"  --rom-size <N>    ROM image size in bytes\n"+
		"  --rom-fill <b>    ROM fill byte (default 0xFF)\n"+
		"  --config <toml>   Read link options from a TOML file\n")
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("cpu8ld: ")

	var mapPath string
	var entry string
	var romSize uint
	var romFill uint
	var configPath string

	flag.StringVar(&mapPath, "map", "", "Write a layout and symbol map")
	flag.StringVar(&entry, "entry", "", "Entry symbol")
	flag.UintVar(&romSize, "rom-size", 0, "ROM image size in bytes")
	flag.UintVar(&romFill, "rom-fill", 0, "ROM fill byte")
	flag.StringVar(&configPath, "config", "", "Read link options from a TOML file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 2 {
		usage()
		os.Exit(1)
	}
	outputPath := flag.Arg(0)
	inputPaths := flag.Args()[1:]

	options := link.DefaultOptions()
	if configPath != "" {
		var err error
		options, err = link.LoadOptions(configPath)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	// Explicit flags win over the config file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "entry":
			options.Entry = entry
		case "rom-size":
			options.RomSize = uint32(romSize)
		case "rom-fill":
			if romFill > 0xFF {
				log.Fatalf("ROM fill byte out of range (0-255): %v", romFill)
			}
			options.RomFill = uint8(romFill)
		}
	})

	objects := make([]*obj.File, 0, len(inputPaths))
	for _, path := range inputPaths {
		object, err := obj.ReadFile(path)
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
		objects = append(objects, object)
	}

	image, err := link.Link(objects, options)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := rom.WriteBIN(outputPath, image.ROM); err != nil {
		log.Fatalf("%v", err)
	}
	if mapPath != "" {
		if err := link.WriteMapFile(mapPath, image); err != nil {
			log.Fatalf("%v", err)
		}
	}

	fmt.Printf("Linked OK: %v\n", outputPath)
	fmt.Printf(" .text=%v bytes .rodata=%v bytes .bss=%v bytes (ROM=%v bytes)\n",
		image.TextSize, image.RoDataSize, image.BssSize, len(image.ROM))
}
