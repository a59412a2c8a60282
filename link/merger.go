package link

import (
	"github.com/draklowell/Cpu8/obj"
)

// Layout records the absolute placement of the merged sections: .text
// and .rodata inside ROM, .bss in RAM.
type Layout struct {
	TextBase   uint32
	TextSize   uint32
	RoDataBase uint32
	RoDataSize uint32
	BssBase    uint32
	BssSize    uint32
}

// MergePlan is the concatenation plan: for each input object, the
// layout-relative base offset of its section contribution.
type MergePlan struct {
	TextOffsets   []uint32
	RoDataOffsets []uint32
	BssOffsets    []uint32
	Layout        Layout
}

func alignUp(value, align uint32) (uint32, error) {
	if align <= 1 {
		return value, nil
	}
	remainder := value % align
	if remainder == 0 {
		return value, nil
	}
	result := uint64(value) + uint64(align-remainder)
	if result > 0xFFFFFFFF {
		return 0, ErrSectionOverflow
	}
	return uint32(result), nil
}

func sectionDataSize(object *obj.File, index int) uint32 {
	if index >= len(object.Sections) {
		return 0
	}
	return uint32(len(object.Sections[index].Data))
}

func sectionBssSize(object *obj.File, index int) uint32 {
	if index >= len(object.Sections) {
		return 0
	}
	return object.Sections[index].BssSize
}

// Plan computes per-object section bases and the final layout. Objects
// carrying an initialized .data section are rejected.
func Plan(objects []*obj.File, romBase, textAlign, rodataAlign,
	bssBase uint32) (*MergePlan, error) {
	plan := &MergePlan{
		TextOffsets:   make([]uint32, len(objects)),
		RoDataOffsets: make([]uint32, len(objects)),
		BssOffsets:    make([]uint32, len(objects)),
	}

	textCursor := uint32(0)
	for i, object := range objects {
		if sectionDataSize(object, obj.SecData) != 0 {
			return nil, ErrDataNotSupported
		}

		cursor, err := alignUp(textCursor, textAlign)
		if err != nil {
			return nil, err
		}
		plan.TextOffsets[i] = cursor
		textCursor = cursor + sectionDataSize(object, obj.SecText)
	}

	rodataBaseOffset, err := alignUp(textCursor, rodataAlign)
	if err != nil {
		return nil, err
	}
	plan.Layout.TextBase = romBase
	plan.Layout.TextSize = rodataBaseOffset

	rodataCursor := uint32(0)
	for i, object := range objects {
		cursor, err := alignUp(rodataCursor, rodataAlign)
		if err != nil {
			return nil, err
		}
		plan.RoDataOffsets[i] = cursor
		rodataCursor = cursor + sectionDataSize(object, obj.SecRoData)
	}
	plan.Layout.RoDataBase = romBase + rodataBaseOffset
	plan.Layout.RoDataSize = rodataCursor

	bssCursor := uint32(0)
	for i, object := range objects {
		plan.BssOffsets[i] = bssCursor
		bssCursor += sectionBssSize(object, obj.SecBss)
	}
	plan.Layout.BssBase = bssBase
	plan.Layout.BssSize = bssCursor

	if uint64(plan.Layout.TextSize)+uint64(plan.Layout.RoDataSize) > 0xFFFFFFFF {
		return nil, ErrSectionOverflow
	}

	return plan, nil
}

// MergeBytes concatenates the per-object .text and .rodata payloads
// into contiguous buffers according to the plan. Alignment gaps stay
// zero-filled.
func MergeBytes(objects []*obj.File, plan *MergePlan) (text, rodata []byte, err error) {
	text = make([]byte, plan.Layout.TextSize)
	rodata = make([]byte, plan.Layout.RoDataSize)

	for i, object := range objects {
		if data := object.Sections[obj.SecText].Data; len(data) > 0 {
			offset := plan.TextOffsets[i]
			if uint64(offset)+uint64(len(data)) > uint64(len(text)) {
				return nil, nil, ErrSectionOverflow
			}
			copy(text[offset:], data)
		}

		if data := object.Sections[obj.SecRoData].Data; len(data) > 0 {
			offset := plan.RoDataOffsets[i]
			if uint64(offset)+uint64(len(data)) > uint64(len(rodata)) {
				return nil, nil, ErrSectionOverflow
			}
			copy(rodata[offset:], data)
		}
	}

	return text, rodata, nil
}
