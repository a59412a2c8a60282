package link

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/draklowell/Cpu8/asm"
	"github.com/draklowell/Cpu8/obj"
	"github.com/draklowell/Cpu8/rom"
)

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func assemble(t *testing.T, text string) *obj.File {
	t.Helper()
	object, err := asm.New(nil).AssembleText(text, "test.s")
	assert.NoError(t, err)
	return object
}

func callerUnit(t *testing.T) *obj.File {
	return assemble(t, strings.Join([]string{
		".extern ext",
		".globl main",
		"main:",
		"  jmp ext",
		"",
	}, "\n"))
}

func calleeUnit(t *testing.T) *obj.File {
	return assemble(t, ".globl ext\next:\n  hlt\n")
}

func TestLinkTwoObjects(t *testing.T) {
	assert := assert.New(t)

	caller := callerUnit(t)
	callee := calleeUnit(t)

	opt := DefaultOptions()
	opt.RomSize = 0

	image, err := Link([]*obj.File{caller, callee}, opt)
	assert.NoError(err)

	// caller text is 3 bytes, so ext lands right after it.
	assert.Equal([]byte{0x75, 0x00, 0x03, 0xDD}, image.ROM)
	assert.Equal(uint32(0), image.TextBase)
	assert.Equal(uint32(4), image.TextSize)
	assert.Equal(uint32(4), image.RoDataBase)
	assert.Equal(uint32(0), image.RoDataSize)
}

func TestLinkRebasesDefinedSymbols(t *testing.T) {
	assert := assert.New(t)

	// Object order is flipped, so the caller's text, and with it the
	// defined symbol main, moves from offset 0 to 1; the jmp operand is
	// patched at its moved location.
	caller := callerUnit(t)
	callee := calleeUnit(t)

	opt := DefaultOptions()
	opt.RomSize = 0

	image, err := Link([]*obj.File{callee, caller}, opt)
	assert.NoError(err)
	assert.Equal([]byte{0xDD, 0x75, 0x00, 0x00}, image.ROM)
	assert.Equal([]obj.Symbol{
		{Name: "ext", SectionIndex: obj.SecText, Value: 0, Bind: obj.BindGlobal},
		{Name: "main", SectionIndex: obj.SecText, Value: 1, Bind: obj.BindGlobal},
	}, image.Symbols)
}

func TestLinkLocalTargetsRebase(t *testing.T) {
	assert := assert.New(t)

	first := assemble(t, ".globl main\nmain:\n  nop\n  nop\n")
	second := assemble(t, "start:\n  jmp start\n")

	opt := DefaultOptions()
	opt.RomSize = 0

	image, err := Link([]*obj.File{first, second}, opt)
	assert.NoError(err)

	// start sits at 2 after merging; the local reference is patched.
	assert.Equal([]byte{0x00, 0x00, 0x75, 0x00, 0x02}, image.ROM)
}

func TestLinkRodataWordReference(t *testing.T) {
	assert := assert.New(t)

	unit := assemble(t, strings.Join([]string{
		".globl lab",
		".text",
		"  .ascii \"" + strings.Repeat("A", 64) + "\"",
		"lab:",
		"  hlt",
		".rodata",
		"w: .word lab",
		"",
	}, "\n"))

	opt := DefaultOptions()
	opt.RomSize = 0
	opt.Entry = "lab"

	image, err := Link([]*obj.File{unit}, opt)
	assert.NoError(err)

	assert.Equal(uint32(65), image.TextSize)
	assert.Equal(uint32(65), image.RoDataBase)
	assert.Equal([]byte{0x00, 0x40}, image.ROM[65:67])
}

func TestLinkMergePlanAlignment(t *testing.T) {
	assert := assert.New(t)

	first := assemble(t, "nop\nnop\nnop\n")   // 3 bytes
	second := assemble(t, "hlt\n")            // 1 byte

	plan, err := Plan([]*obj.File{first, second}, 0, 4, 1, 0x4000)
	assert.NoError(err)

	assert.Equal([]uint32{0, 4}, plan.TextOffsets)
	assert.Equal(uint32(5), plan.Layout.TextSize)

	text, rodata, err := MergeBytes([]*obj.File{first, second}, plan)
	assert.NoError(err)
	assert.Equal([]byte{0x00, 0x00, 0x00, 0x00, 0xDD}, text)
	assert.Empty(rodata)
}

func TestLinkMergeSizesWithUnitAlignment(t *testing.T) {
	assert := assert.New(t)

	units := []*obj.File{
		assemble(t, "nop\n.rodata\n.byte 1, 2, 3\n"),
		assemble(t, "hlt\n.rodata\n.byte 4\n"),
	}

	plan, err := Plan(units, 0, 1, 1, 0x4000)
	assert.NoError(err)

	assert.Equal(uint32(2), plan.Layout.TextSize)
	assert.Equal(uint32(4), plan.Layout.RoDataSize)
	assert.Equal([]uint32{0, 3}, plan.RoDataOffsets)
}

func TestLinkBssLayout(t *testing.T) {
	assert := assert.New(t)

	// .bss carries no data directives, so per-object bss sizes come
	// from the object headers directly.
	first := assemble(t, ".globl main\nmain:\n  hlt\n")
	second := assemble(t, "nop\n")
	first.Sections[obj.SecBss].BssSize = 6
	second.Sections[obj.SecBss].BssSize = 10

	plan, err := Plan([]*obj.File{first, second}, 0, 1, 1, 0x4000)
	assert.NoError(err)

	assert.Equal([]uint32{0, 6}, plan.BssOffsets)
	assert.Equal(uint32(16), plan.Layout.BssSize)
	assert.Equal(uint32(0x4000), plan.Layout.BssBase)
}

func TestLinkRejectsInitializedData(t *testing.T) {
	assert := assert.New(t)

	unit := assemble(t, ".globl main\nmain:\n  hlt\n.data\n.byte 1\n")

	_, err := Link([]*obj.File{unit}, DefaultOptions())
	assert.ErrorIs(err, ErrDataNotSupported)
}

func TestLinkMultipleDefinition(t *testing.T) {
	assert := assert.New(t)

	first := assemble(t, ".globl main\nmain:\n  hlt\n")
	second := assemble(t, ".globl main\nmain:\n  nop\n")

	_, err := Link([]*obj.File{first, second}, DefaultOptions())
	var multi ErrMultipleDefinition
	assert.ErrorAs(err, &multi)
	assert.Equal("main", string(multi))
}

func TestLinkUndefinedGlobal(t *testing.T) {
	assert := assert.New(t)

	unit := callerUnit(t)

	_, err := Link([]*obj.File{unit}, DefaultOptions())
	var undef ErrUndefinedSymbol
	assert.ErrorAs(err, &undef)
	assert.Equal("ext", string(undef))
}

func TestLinkEntryValidation(t *testing.T) {
	assert := assert.New(t)

	unit := assemble(t, "start:\n  hlt\n")

	_, err := Link([]*obj.File{unit}, DefaultOptions())
	var entry ErrEntryUndefined
	assert.ErrorAs(err, &entry)

	inBss := assemble(t, ".globl main, buf\nmain:\n  hlt\n.bss\nbuf:\n")
	opt := DefaultOptions()
	opt.Entry = "buf"
	_, err = Link([]*obj.File{inBss}, opt)
	var notROM ErrEntryNotROM
	assert.ErrorAs(err, &notROM)
}

func TestLinkRomTooSmall(t *testing.T) {
	assert := assert.New(t)

	unit := assemble(t, ".globl main\nmain:\n  jmp main\n")

	opt := DefaultOptions()
	opt.RomSize = 2

	_, err := Link([]*obj.File{unit}, opt)
	var toolarge rom.ErrImageTooLarge
	assert.ErrorAs(err, &toolarge)
}

func TestLinkRomPadding(t *testing.T) {
	assert := assert.New(t)

	unit := assemble(t, ".globl main\nmain:\n  hlt\n")

	opt := DefaultOptions()
	opt.RomSize = 8
	opt.RomFill = 0xAB

	image, err := Link([]*obj.File{unit}, opt)
	assert.NoError(err)
	assert.Equal([]byte{0xDD, 0xAB, 0xAB, 0xAB, 0xAB, 0xAB, 0xAB, 0xAB}, image.ROM)
}

func TestLinkMapOutput(t *testing.T) {
	assert := assert.New(t)

	caller := callerUnit(t)
	callee := calleeUnit(t)

	opt := DefaultOptions()
	opt.RomSize = 0

	image, err := Link([]*obj.File{caller, callee}, opt)
	assert.NoError(err)

	var buf bytes.Buffer
	assert.NoError(WriteMap(&buf, image))

	assert.Equal(strings.Join([]string{
		"ROM layout:",
		".text base=0x0000 size=4",
		".rodata base=0x0004 size=0",
		"RAM layout:",
		".bss base=0x4000 size=0",
		"Symbols:",
		"0x0000 GLOBAL main",
		"0x0003 GLOBAL ext",
		"",
	}, "\n"), buf.String())
}

func TestLinkRelocBounds(t *testing.T) {
	assert := assert.New(t)

	unit := assemble(t, ".globl main\nmain:\n  jmp main\n")
	// Corrupt the relocation so it points past the merged text.
	unit.Relocs[0].Offset = 0x7FFF

	opt := DefaultOptions()
	_, err := Link([]*obj.File{unit}, opt)
	var bounds ErrRelocBounds
	assert.ErrorAs(err, &bounds)
}

func TestLoadOptionsFromTOML(t *testing.T) {
	assert := assert.New(t)

	path := t.TempDir() + "/link.toml"
	config := strings.Join([]string{
		"rom_size = 8192",
		"rom_fill = 0",
		"entry = \"start\"",
		"text_align = 4",
	}, "\n")
	assert.NoError(writeTestFile(path, config))

	opt, err := LoadOptions(path)
	assert.NoError(err)
	assert.Equal(uint32(8192), opt.RomSize)
	assert.Equal(uint8(0), opt.RomFill)
	assert.Equal("start", opt.Entry)
	assert.Equal(uint32(4), opt.TextAlign)
	// Untouched keys keep their defaults.
	assert.Equal(uint32(1), opt.RoDataAlign)
	assert.Equal(uint32(0x4000), opt.BssBase)

	bad := t.TempDir() + "/bad.toml"
	assert.NoError(writeTestFile(bad, "rom_fill = 300\n"))
	_, err = LoadOptions(bad)
	var cfgerr ErrConfigValue
	assert.ErrorAs(err, &cfgerr)
}
