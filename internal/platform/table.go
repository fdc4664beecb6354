package platform

// defaultPlatforms is the built-in platform table. DAT aliases use
// No-Intro / Redump header names.
var defaultPlatforms = []Def{
	// Nintendo
	{
		Slug: "gb", DisplayName: "Game Boy",
		FolderAliases: []string{"gb"},
		RommAliases:   []string{"game-boy"},
		DatAliases:    []string{"Nintendo - Game Boy"},
		RAConsoleID:   4, ScreenScraperID: 9,
		LibretroDir: "Nintendo - Game Boy", LaunchBoxName: "Nintendo Game Boy",
	},
	{
		Slug: "gbc", DisplayName: "Game Boy Color",
		FolderAliases: []string{"gbc"},
		RommAliases:   []string{"game-boy-color"},
		DatAliases:    []string{"Nintendo - Game Boy Color"},
		RAConsoleID:   6, ScreenScraperID: 10,
		LibretroDir: "Nintendo - Game Boy Color", LaunchBoxName: "Nintendo Game Boy Color",
	},
	{
		Slug: "gba", DisplayName: "Game Boy Advance",
		FolderAliases: []string{"gba"},
		RommAliases:   []string{"game-boy-advance"},
		DatAliases:    []string{"Nintendo - Game Boy Advance"},
		RAConsoleID:   5, ScreenScraperID: 12,
		LibretroDir: "Nintendo - Game Boy Advance", LaunchBoxName: "Nintendo Game Boy Advance",
	},
	{
		Slug: "nes", DisplayName: "NES / Famicom",
		FolderAliases: []string{"nes", "fc", "famicom"},
		RommAliases:   []string{"nintendo-entertainment-system", "famicom"},
		DatAliases:    []string{"Nintendo - Nintendo Entertainment System"},
		RAConsoleID:   7, ScreenScraperID: 3,
		LibretroDir: "Nintendo - Nintendo Entertainment System", LaunchBoxName: "Nintendo Entertainment System",
	},
	{
		Slug: "fds", DisplayName: "Famicom Disk System",
		FolderAliases: []string{"fds"},
		DatAliases:    []string{"Nintendo - Famicom Disk System"},
		ScreenScraperID: 106,
	},
	{
		Slug: "snes", DisplayName: "SNES / Super Famicom",
		FolderAliases: []string{"snes", "sfc"},
		RommAliases:   []string{"super-nintendo", "super-famicom", "super-nintendo-entertainment-system", "sfam"},
		DatAliases:    []string{"Nintendo - Super Nintendo Entertainment System"},
		RAConsoleID:   3, ScreenScraperID: 4,
		LibretroDir: "Nintendo - Super Nintendo Entertainment System", LaunchBoxName: "Super Nintendo Entertainment System",
	},
	{
		Slug: "n64", DisplayName: "Nintendo 64",
		FolderAliases: []string{"n64"},
		RommAliases:   []string{"nintendo-64"},
		DatAliases:    []string{"Nintendo - Nintendo 64"},
		RAConsoleID:   2, ScreenScraperID: 14,
		LibretroDir: "Nintendo - Nintendo 64", LaunchBoxName: "Nintendo 64",
	},
	{
		Slug: "nds", DisplayName: "Nintendo DS",
		FolderAliases: []string{"nds"},
		RommAliases:   []string{"nintendo-ds"},
		DatAliases:    []string{"Nintendo - Nintendo DS"},
		RAConsoleID:   18, ScreenScraperID: 15,
		LibretroDir: "Nintendo - Nintendo DS", LaunchBoxName: "Nintendo DS",
	},
	{
		Slug: "3ds", DisplayName: "Nintendo 3DS",
		FolderAliases:   []string{"3ds"},
		ScreenScraperID: 17,
	},
	{
		Slug: "gamecube", DisplayName: "GameCube",
		FolderAliases: []string{"gamecube", "gc"},
		RommAliases:   []string{"ngc"},
		DatAliases:    []string{"Nintendo - GameCube"},
		ScreenScraperID: 13,
		LibretroDir:     "Nintendo - GameCube", LaunchBoxName: "Nintendo GameCube",
	},
	{
		Slug: "wii", DisplayName: "Wii",
		FolderAliases:   []string{"wii"},
		DatAliases:      []string{"Nintendo - Wii"},
		ScreenScraperID: 16,
		LibretroDir:     "Nintendo - Wii", LaunchBoxName: "Nintendo Wii",
	},
	{
		Slug: "wiiu", DisplayName: "Wii U",
		FolderAliases:   []string{"wiiu"},
		RommAliases:     []string{"wii-u"},
		ScreenScraperID: 18,
		LibretroDir:     "Nintendo - Wii U", LaunchBoxName: "Nintendo Wii U",
	},
	{
		Slug: "switch", DisplayName: "Nintendo Switch",
		FolderAliases:   []string{"switch"},
		ScreenScraperID: 225,
		LaunchBoxName:   "Nintendo Switch",
	},
	{
		Slug: "switch2", DisplayName: "Nintendo Switch 2",
		FolderAliases:   []string{"switch2"},
		RommAliases:     []string{"switch-2"},
		ScreenScraperID: 296,
	},
	{
		Slug: "dsi", DisplayName: "Nintendo DSi",
		FolderAliases:   []string{"dsi"},
		RommAliases:     []string{"nintendo-dsi"},
		ScreenScraperID: 15,
		LaunchBoxName:   "Nintendo DSi",
	},
	{
		Slug: "n3ds", DisplayName: "New Nintendo 3DS",
		FolderAliases:   []string{"n3ds", "new3ds"},
		RommAliases:     []string{"new-nintendo-3ds"},
		ScreenScraperID: 17,
	},
	{
		Slug: "vb", DisplayName: "Virtual Boy",
		FolderAliases: []string{"virtualboy", "vb"},
		RommAliases:   []string{"virtual-boy", "virtualboy"},
		DatAliases:    []string{"Nintendo - Virtual Boy"},
		RAConsoleID:   28, ScreenScraperID: 11,
		LibretroDir: "Nintendo - Virtual Boy", LaunchBoxName: "Nintendo Virtual Boy",
	},
	{
		Slug: "pokemini", DisplayName: "Pokemon Mini",
		FolderAliases:   []string{"pokemini"},
		RommAliases:     []string{"pokemon-mini"},
		DatAliases:      []string{"Nintendo - Pokemon Mini"},
		ScreenScraperID: 211,
	},
	{
		Slug: "sufami", DisplayName: "Sufami Turbo",
		FolderAliases:   []string{"sufami"},
		RommAliases:     []string{"sufami-turbo"},
		ScreenScraperID: 108,
	},
	// Sony
	{
		Slug: "psx", DisplayName: "PlayStation",
		FolderAliases: []string{"psx", "ps", "ps1"},
		RommAliases:   []string{"ps", "playstation", "ps1"},
		DatAliases:    []string{"Sony - PlayStation"},
		RAConsoleID:   12, ScreenScraperID: 57,
		LibretroDir: "Sony - PlayStation", LaunchBoxName: "Sony Playstation",
	},
	{
		Slug: "ps2", DisplayName: "PlayStation 2",
		FolderAliases: []string{"ps2"},
		RommAliases:   []string{"playstation-2"},
		DatAliases:    []string{"Sony - PlayStation 2"},
		RAConsoleID:   21, ScreenScraperID: 58,
		LibretroDir: "Sony - PlayStation 2", LaunchBoxName: "Sony Playstation 2",
	},
	{
		Slug: "psp", DisplayName: "PlayStation Portable",
		FolderAliases: []string{"psp"},
		RommAliases:   []string{"playstation-portable"},
		DatAliases:    []string{"Sony - PlayStation Portable"},
		RAConsoleID:   41, ScreenScraperID: 61,
		LibretroDir: "Sony - PlayStation Portable", LaunchBoxName: "Sony PSP",
	},
	{
		Slug: "ps3", DisplayName: "PlayStation 3",
		FolderAliases:   []string{"ps3"},
		RommAliases:     []string{"playstation-3"},
		ScreenScraperID: 59,
		LibretroDir:     "Sony - PlayStation 3", LaunchBoxName: "Sony Playstation 3",
	},
	{
		Slug: "ps4", DisplayName: "PlayStation 4",
		FolderAliases:   []string{"ps4"},
		RommAliases:     []string{"playstation-4"},
		ScreenScraperID: 60,
		LaunchBoxName:   "Sony Playstation 4",
	},
	{
		Slug: "ps5", DisplayName: "PlayStation 5",
		FolderAliases:   []string{"ps5"},
		RommAliases:     []string{"playstation-5"},
		ScreenScraperID: 284,
		LaunchBoxName:   "Sony Playstation 5",
	},
	{
		Slug: "psvita", DisplayName: "PlayStation Vita",
		FolderAliases:   []string{"psvita", "vita"},
		RommAliases:     []string{"playstation-vita"},
		ScreenScraperID: 62,
		LaunchBoxName:   "Sony PlayStation Vita",
	},
	// Microsoft
	{
		Slug: "xbox", DisplayName: "Xbox",
		FolderAliases:   []string{"xbox"},
		ScreenScraperID: 32,
		LaunchBoxName:   "Microsoft Xbox",
	},
	{
		Slug: "xbox360", DisplayName: "Xbox 360",
		FolderAliases:   []string{"xbox360"},
		RommAliases:     []string{"xbox-360"},
		ScreenScraperID: 33,
		LaunchBoxName:   "Microsoft Xbox 360",
	},
	{
		Slug: "xboxone", DisplayName: "Xbox One",
		FolderAliases:   []string{"xboxone"},
		RommAliases:     []string{"xbox-one"},
		ScreenScraperID: 34,
		LaunchBoxName:   "Microsoft Xbox One",
	},
	{
		Slug: "xboxseriesx", DisplayName: "Xbox Series X/S",
		FolderAliases: []string{"xboxseriesx"},
		RommAliases:   []string{"series-x-s"},
	},
	// Sega
	{
		Slug: "genesis", DisplayName: "Sega Genesis / Mega Drive",
		FolderAliases: []string{"genesis", "megadrive", "md"},
		RommAliases:   []string{"megadrive", "mega-drive", "sega-genesis", "mega-drive-slash-genesis"},
		DatAliases:    []string{"Sega - Mega Drive - Genesis"},
		RAConsoleID:   1, ScreenScraperID: 1,
		LibretroDir: "Sega - Mega Drive - Genesis", LaunchBoxName: "Sega Genesis",
	},
	{
		Slug: "segacd", DisplayName: "Sega CD",
		FolderAliases: []string{"segacd"},
		RommAliases:   []string{"sega-cd"},
		DatAliases:    []string{"Sega - Mega-CD - Sega CD"},
		RAConsoleID:   9, ScreenScraperID: 20,
		LibretroDir: "Sega - Mega-CD - Sega CD", LaunchBoxName: "Sega CD",
	},
	{
		Slug: "saturn", DisplayName: "Sega Saturn",
		FolderAliases: []string{"saturn"},
		RommAliases:   []string{"sega-saturn"},
		DatAliases:    []string{"Sega - Saturn"},
		RAConsoleID:   39, ScreenScraperID: 22,
		LibretroDir: "Sega - Saturn", LaunchBoxName: "Sega Saturn",
	},
	{
		Slug: "dreamcast", DisplayName: "Dreamcast",
		FolderAliases: []string{"dreamcast", "dc"},
		RommAliases:   []string{"sega-dreamcast", "dc"},
		DatAliases:    []string{"Sega - Dreamcast"},
		RAConsoleID:   40, ScreenScraperID: 23,
		LibretroDir: "Sega - Dreamcast", LaunchBoxName: "Sega Dreamcast",
	},
	{
		Slug: "gamegear", DisplayName: "Game Gear",
		FolderAliases: []string{"gamegear", "gg"},
		RommAliases:   []string{"game-gear"},
		DatAliases:    []string{"Sega - Game Gear"},
		RAConsoleID:   15, ScreenScraperID: 21,
		LibretroDir: "Sega - Game Gear", LaunchBoxName: "Sega Game Gear",
	},
	{
		Slug: "mastersystem", DisplayName: "Master System",
		FolderAliases: []string{"mastersystem", "ms", "sms"},
		RommAliases:   []string{"master-system", "sega-master-system", "sms"},
		DatAliases:    []string{"Sega - Master System - Mark III"},
		RAConsoleID:   11, ScreenScraperID: 2,
		LibretroDir: "Sega - Master System - Mark III", LaunchBoxName: "Sega Master System",
	},
	{
		Slug: "sg1000", DisplayName: "SG-1000",
		FolderAliases: []string{"sg-1000", "sg1000", "sg"},
		DatAliases:    []string{"Sega - SG-1000"},
		RAConsoleID:   33, ScreenScraperID: 109,
	},
	{
		Slug: "sega32", DisplayName: "Sega 32X",
		FolderAliases: []string{"sega32", "32x"},
		RAConsoleID:   10, ScreenScraperID: 19,
	},
	// Capcom arcade
	{
		Slug: "cps1", DisplayName: "Capcom Play System",
		FolderAliases:   []string{"cps1"},
		ScreenScraperID: 6,
	},
	{
		Slug: "cps2", DisplayName: "Capcom Play System 2",
		FolderAliases:   []string{"cps2"},
		ScreenScraperID: 7,
	},
	{
		Slug: "cps3", DisplayName: "Capcom Play System 3",
		FolderAliases:   []string{"cps3"},
		ScreenScraperID: 8,
	},
	// SNK / arcade
	{
		Slug: "neogeo", DisplayName: "Neo Geo",
		FolderAliases: []string{"neogeo"},
		RommAliases:   []string{"neo-geo-aes", "neogeoaes", "neo-geo-mvs", "neogeomvs"},
		DatAliases:    []string{"SNK - Neo Geo"},
		RAConsoleID:   14,
		LibretroDir:   "SNK - Neo Geo", LaunchBoxName: "SNK Neo Geo AES",
	},
	{
		Slug: "arcade", DisplayName: "Arcade",
		FolderAliases: []string{"arcade", "mame", "fbneo", "fba"},
		RAConsoleID:   27, ScreenScraperID: 75,
		LibretroDir: "MAME", LaunchBoxName: "Arcade",
	},
	{
		Slug: "ngp", DisplayName: "Neo Geo Pocket",
		FolderAliases: []string{"ngp"},
		RommAliases:   []string{"neo-geo-pocket"},
		DatAliases:    []string{"SNK - Neo Geo Pocket"},
		RAConsoleID:   14, ScreenScraperID: 25,
		LibretroDir: "SNK - Neo Geo Pocket", LaunchBoxName: "SNK Neo Geo Pocket",
	},
	{
		Slug: "ngpc", DisplayName: "Neo Geo Pocket Color",
		FolderAliases: []string{"ngpc"},
		RommAliases:   []string{"neo-geo-pocket-color"},
		DatAliases:    []string{"SNK - Neo Geo Pocket Color"},
		RAConsoleID:   14, ScreenScraperID: 82,
		LibretroDir: "SNK - Neo Geo Pocket Color", LaunchBoxName: "SNK Neo Geo Pocket Color",
	},
	{
		Slug: "neocd", DisplayName: "Neo Geo CD",
		FolderAliases:   []string{"neocd"},
		RommAliases:     []string{"neo-geo-cd"},
		DatAliases:      []string{"SNK - Neo Geo CD"},
		ScreenScraperID: 70,
	},
	// NEC
	{
		Slug: "pce", DisplayName: "TurboGrafx-16 / PC Engine",
		FolderAliases: []string{"pcengine", "pce", "tg16"},
		RommAliases:   []string{"turbografx-16", "tg16", "pc-engine"},
		DatAliases:    []string{"NEC - PC Engine - TurboGrafx-16"},
		RAConsoleID:   8, ScreenScraperID: 31,
		LibretroDir: "NEC - PC Engine - TurboGrafx 16", LaunchBoxName: "NEC TurboGrafx-16",
	},
	{
		Slug: "pcecd", DisplayName: "TurboGrafx-CD",
		FolderAliases: []string{"pcenginecd", "pcecd", "tgcd"},
		RommAliases:   []string{"turbografx-cd", "tg-cd", "pc-engine-cd"},
		DatAliases:    []string{"NEC - PC Engine CD - TurboGrafx-CD"},
		RAConsoleID:   76, ScreenScraperID: 114,
		LibretroDir: "NEC - PC Engine CD - TurboGrafx-CD", LaunchBoxName: "NEC TurboGrafx-CD",
	},
	{
		Slug: "sgfx", DisplayName: "SuperGrafx",
		FolderAliases:   []string{"supergrafx", "sgfx"},
		RommAliases:     []string{"supergrafx"},
		DatAliases:      []string{"NEC - PC Engine SuperGrafx"},
		ScreenScraperID: 105,
	},
	{
		Slug: "pcfx", DisplayName: "PC-FX",
		FolderAliases:   []string{"pcfx"},
		RommAliases:     []string{"pc-fx"},
		DatAliases:      []string{"NEC - PC-FX"},
		ScreenScraperID: 72,
	},
	// Atari
	{
		Slug: "atari2600", DisplayName: "Atari 2600",
		FolderAliases: []string{"atari2600", "atari", "a26"},
		DatAliases:    []string{"Atari - 2600"},
		RAConsoleID:   25, ScreenScraperID: 26,
	},
	{
		Slug: "atari5200", DisplayName: "Atari 5200",
		FolderAliases:   []string{"atari5200"},
		DatAliases:      []string{"Atari - 5200"},
		ScreenScraperID: 40,
	},
	{
		Slug: "atari7800", DisplayName: "Atari 7800",
		FolderAliases: []string{"atari7800", "a78"},
		DatAliases:    []string{"Atari - 7800"},
		RAConsoleID:   51, ScreenScraperID: 41,
	},
	{
		Slug: "lynx", DisplayName: "Atari Lynx",
		FolderAliases: []string{"lynx"},
		RommAliases:   []string{"atari-lynx"},
		DatAliases:    []string{"Atari - Lynx"},
		RAConsoleID:   13, ScreenScraperID: 28,
		LibretroDir: "Atari - Lynx", LaunchBoxName: "Atari Lynx",
	},
	{
		Slug: "atarist", DisplayName: "Atari ST",
		FolderAliases:   []string{"atarist"},
		RommAliases:     []string{"atari-st"},
		ScreenScraperID: 42,
	},
	{
		Slug: "jaguar", DisplayName: "Atari Jaguar",
		FolderAliases: []string{"jaguar"},
		RAConsoleID:   17, ScreenScraperID: 27,
	},
	{
		Slug: "atari8bit", DisplayName: "Atari 8-bit",
		FolderAliases:   []string{"atari8bit", "atari800"},
		RommAliases:     []string{"atari800"},
		ScreenScraperID: 43,
	},
	// Bandai
	{
		Slug: "ws", DisplayName: "WonderSwan",
		FolderAliases: []string{"wonderswan", "ws"},
		RommAliases:   []string{"wonderswan"},
		DatAliases:    []string{"Bandai - WonderSwan"},
		RAConsoleID:   53, ScreenScraperID: 45,
		LibretroDir: "Bandai - WonderSwan", LaunchBoxName: "WonderSwan",
	},
	{
		Slug: "wsc", DisplayName: "WonderSwan Color",
		FolderAliases: []string{"wonderswancolor", "wsc"},
		RommAliases:   []string{"wonderswan-color"},
		DatAliases:    []string{"Bandai - WonderSwan Color"},
		RAConsoleID:   53, ScreenScraperID: 46,
		LibretroDir: "Bandai - WonderSwan Color", LaunchBoxName: "WonderSwan Color",
	},
	// Other consoles
	{
		Slug: "colecovision", DisplayName: "ColecoVision",
		FolderAliases: []string{"coleco", "colecovision", "col"},
		DatAliases:    []string{"Coleco - ColecoVision"},
		RAConsoleID:   44, ScreenScraperID: 48,
		LibretroDir: "Coleco - ColecoVision", LaunchBoxName: "ColecoVision",
	},
	{
		Slug: "intellivision", DisplayName: "Intellivision",
		FolderAliases: []string{"intellivision", "int"},
		DatAliases:    []string{"Mattel - Intellivision"},
		RAConsoleID:   45, ScreenScraperID: 115,
	},
	{
		Slug: "vectrex", DisplayName: "Vectrex",
		FolderAliases:   []string{"vectrex"},
		DatAliases:      []string{"GCE - Vectrex"},
		ScreenScraperID: 102,
	},
	{
		Slug: "channelf", DisplayName: "Channel F",
		FolderAliases:   []string{"channelf"},
		RommAliases:     []string{"fairchild-channel-f"},
		ScreenScraperID: 80,
	},
	{
		Slug: "3do", DisplayName: "3DO Interactive Multiplayer",
		FolderAliases: []string{"3do"},
		DatAliases:    []string{"Panasonic - 3DO Interactive Multiplayer"},
		RAConsoleID:   43, ScreenScraperID: 29,
	},
	{
		Slug: "cdi", DisplayName: "Philips CD-i",
		FolderAliases:   []string{"cdi"},
		RommAliases:     []string{"philips-cd-i"},
		DatAliases:      []string{"Philips - CD-i"},
		ScreenScraperID: 133,
	},
	{
		Slug: "odyssey2", DisplayName: "Odyssey 2 / Videopac",
		FolderAliases: []string{"odyssey2"},
		RommAliases:   []string{"odyssey-2"},
		RAConsoleID:   23, ScreenScraperID: 104,
	},
	{
		Slug: "megaduck", DisplayName: "Mega Duck",
		FolderAliases: []string{"megaduck"},
		RommAliases:   []string{"mega-duck-slash-cougar-boy"},
	},
	{
		Slug: "supervision", DisplayName: "Watara Supervision",
		FolderAliases:   []string{"supervision"},
		ScreenScraperID: 207,
	},
	// Computers
	{
		Slug: "win", DisplayName: "PC (Windows)",
		FolderAliases:   []string{"win", "windows"},
		ScreenScraperID: 138,
	},
	{
		Slug: "msx", DisplayName: "MSX",
		FolderAliases:   []string{"msx"},
		ScreenScraperID: 113,
	},
	{
		Slug: "msx2", DisplayName: "MSX2",
		FolderAliases:   []string{"msx2"},
		ScreenScraperID: 116,
	},
	{
		Slug: "dos", DisplayName: "DOS",
		FolderAliases:   []string{"dos"},
		RommAliases:     []string{"ms-dos", "msdos"},
		ScreenScraperID: 135,
	},
	{
		Slug: "cpc", DisplayName: "Amstrad CPC",
		FolderAliases:   []string{"amstradcpc", "cpc"},
		RommAliases:     []string{"acpc", "amstrad-cpc"},
		ScreenScraperID: 65,
	},
	{
		Slug: "zxspectrum", DisplayName: "ZX Spectrum",
		FolderAliases:   []string{"zxspectrum"},
		RommAliases:     []string{"zx-spectrum", "zxspectrum", "zxs"},
		ScreenScraperID: 76,
	},
	{
		Slug: "c64", DisplayName: "Commodore 64",
		FolderAliases:   []string{"c64"},
		RommAliases:     []string{"commodore-64"},
		ScreenScraperID: 66,
	},
	{
		Slug: "amiga", DisplayName: "Amiga",
		FolderAliases:   []string{"amiga"},
		ScreenScraperID: 64,
	},
	{
		Slug: "scummvm", DisplayName: "ScummVM",
		FolderAliases:   []string{"scummvm"},
		ScreenScraperID: 123,
	},
	{
		Slug: "vic20", DisplayName: "VIC-20",
		FolderAliases:   []string{"vic20"},
		RommAliases:     []string{"vic-20"},
		ScreenScraperID: 73,
	},
	{
		Slug: "x68000", DisplayName: "Sharp X68000",
		FolderAliases:   []string{"x68000"},
		RommAliases:     []string{"sharp-x68000"},
		ScreenScraperID: 79,
	},
	{
		Slug: "pc98", DisplayName: "PC-9800 Series",
		FolderAliases:   []string{"pc98"},
		RommAliases:     []string{"pc-9800-series"},
		ScreenScraperID: 208,
	},
	{
		Slug: "trs80", DisplayName: "TRS-80",
		FolderAliases: []string{"trs80"},
		RommAliases:   []string{"trs-80"},
	},
	{
		Slug: "ti99", DisplayName: "TI-99",
		FolderAliases:   []string{"ti99"},
		RommAliases:     []string{"ti-99"},
		ScreenScraperID: 205,
	},
	// Fantasy consoles
	{
		Slug: "tic80", DisplayName: "TIC-80",
		FolderAliases:   []string{"tic80", "tic-80"},
		RommAliases:     []string{"tic-80"},
		ScreenScraperID: 222,
	},
	{
		Slug: "pico8", DisplayName: "PICO-8",
		FolderAliases:   []string{"pico8", "pico-8"},
		RommAliases:     []string{"pico"},
		ScreenScraperID: 234,
	},
}
