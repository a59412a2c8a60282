package link

import (
	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the TOML linker configuration. Every key is
// optional; absent keys keep their DefaultOptions value.
type fileConfig struct {
	RomBase     int64  `toml:"rom_base"`
	RomSize     int64  `toml:"rom_size"`
	RomFill     int64  `toml:"rom_fill"`
	TextAlign   int64  `toml:"text_align"`
	RoDataAlign int64  `toml:"rodata_align"`
	BssBase     int64  `toml:"bss_base"`
	Entry       string `toml:"entry"`
}

// LoadOptions reads a TOML config file over the defaults.
func LoadOptions(path string) (Options, error) {
	opt := DefaultOptions()

	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return opt, err
	}

	setU32 := func(key string, dst *uint32, value int64) error {
		if !meta.IsDefined(key) {
			return nil
		}
		if value < 0 || value > 0xFFFFFFFF {
			return ErrConfigValue{Key: key, Value: value}
		}
		*dst = uint32(value)
		return nil
	}

	if err := setU32("rom_base", &opt.RomBase, cfg.RomBase); err != nil {
		return opt, err
	}
	if err := setU32("rom_size", &opt.RomSize, cfg.RomSize); err != nil {
		return opt, err
	}
	if err := setU32("text_align", &opt.TextAlign, cfg.TextAlign); err != nil {
		return opt, err
	}
	if err := setU32("rodata_align", &opt.RoDataAlign, cfg.RoDataAlign); err != nil {
		return opt, err
	}
	if err := setU32("bss_base", &opt.BssBase, cfg.BssBase); err != nil {
		return opt, err
	}

	if meta.IsDefined("rom_fill") {
		if cfg.RomFill < 0 || cfg.RomFill > 0xFF {
			return opt, ErrConfigValue{Key: "rom_fill", Value: cfg.RomFill}
		}
		opt.RomFill = uint8(cfg.RomFill)
	}
	if meta.IsDefined("entry") {
		opt.Entry = cfg.Entry
	}

	return opt, nil
}
