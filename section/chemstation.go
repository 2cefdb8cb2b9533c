package section

// MetaField names a header string and where it lives.
type MetaField struct {
	Key    string
	Offset int
}

// ChannelLayout describes a single-channel .ch file version.
type ChannelLayout struct {
	Version     string
	ScaleOffset int
	DataOffset  int
	Gap         int
	Metadata    []MetaField
}

// SpectrumLayout describes a .uv file version.
type SpectrumLayout struct {
	Version     string
	ScaleOffset int
	DataOffset  int
	// TypeOffset locates the "LC"/"OL" payload type string; zero when the
	// version has a single payload type.
	TypeOffset int
	Gap        int
	Metadata   []MetaField
}

var metadata130 = []MetaField{
	{"notebook", 0x35A},
	{"date", 0x957},
	{"method", 0xA0E},
	{"instrument", 0xC11},
	{"unit", 0x104C},
	{"signal", 0x1075},
}

var (
	// ChannelFID is the .ch FID layout ("179").
	ChannelFID = ChannelLayout{
		Version:     "179",
		ScaleOffset: 0x127C,
		DataOffset:  0x1800,
		Gap:         2,
		Metadata:    metadata130,
	}

	// Channel130 is the .ch CAD/ELSD/UV layout, version 130.
	Channel130 = ChannelLayout{
		Version:     "130",
		ScaleOffset: 0x127C,
		DataOffset:  0x1800,
		Gap:         2,
		Metadata:    metadata130,
	}

	// Channel30 is the .ch CAD/ELSD/UV layout, version 30.
	Channel30 = ChannelLayout{
		Version:     "30",
		ScaleOffset: 0x284,
		DataOffset:  0x400,
		Gap:         1,
		Metadata: []MetaField{
			{"notebook", 0x18},
			{"date", 0xB2},
			{"method", 0xE4},
			{"instrument", 0xDA},
			{"unit", 0x244},
			{"signal", 0x254},
		},
	}

	// Spectrum131 is the .uv layout, version 131. Partial files reuse it.
	Spectrum131 = SpectrumLayout{
		Version:     "131",
		ScaleOffset: 0xC0D,
		DataOffset:  0x1000,
		TypeOffset:  0x15B,
		Gap:         2,
		Metadata: []MetaField{
			{"notebook", 0x35A},
			{"date", 0x957},
			{"method", 0xA0E},
			{"unit", 0xC15},
			{"signal", 0xC40},
			{"vialpos", 0xFD7},
		},
	}

	// Spectrum31 is the .uv layout, version 31.
	Spectrum31 = SpectrumLayout{
		Version:     "31",
		ScaleOffset: 0x13E,
		DataOffset:  0x200,
		Gap:         1,
		Metadata: []MetaField{
			{"notebook", 0x18},
			{"date", 0xB2},
			{"method", 0xE4},
			{"unit", 0x146},
		},
	}

	// MSMetadata lists the .ms header strings (gap MSGap).
	MSMetadata = []MetaField{
		{"date", 0xB2},
		{"method", 0xE4},
	}
)
