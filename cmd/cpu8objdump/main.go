// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/draklowell/Cpu8/obj"
)

func relocTypeName(t obj.RelocType) string {
	if t == obj.RelocAbs16 {
		return "ABS16"
	}
	return "UNKNOWN"
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("cpu8objdump: ")

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: cpu8objdump <object-file>")
		os.Exit(1)
	}
	path := os.Args[1]

	object, err := obj.ReadFile(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	fmt.Printf("Object file: %v\n", path)
	fmt.Printf("Sections: %v  Symbols: %v  Relocations: %v\n\n",
		len(object.Sections), len(object.Symbols), len(object.Relocs))

	fmt.Println("Sections:")
	for i := range object.Sections {
		section := &object.Sections[i]
		fmt.Printf("  [%d] %-8s flags=0x%02X data=%d bss=%d\n",
			i, section.Name, section.Flags, len(section.Data), section.BssSize)
	}

	fmt.Println("\nSymbols:")
	for i := range object.Symbols {
		symbol := &object.Symbols[i]
		section := "UNDEF"
		if symbol.SectionIndex >= 0 {
			section = obj.SectionName(int(symbol.SectionIndex))
		}
		fmt.Printf("  [%d] %-8s value=0x%04X %-6s %s\n",
			i, section, symbol.Value, obj.BindName(symbol.Bind), symbol.Name)
	}

	fmt.Println("\nRelocations:")
	for i := range object.Relocs {
		reloc := &object.Relocs[i]
		fmt.Printf("  [%d] %-8s offset=0x%04X %s symbol=%d addend=%d\n",
			i, obj.SectionName(int(reloc.SectionIndex)), reloc.Offset,
			relocTypeName(reloc.Type), reloc.SymbolIndex, reloc.Addend)
	}
}
