package schema

// Kind is a fixed-width primitive. All primitives are little-endian on disk.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	// KindComposite marks a value holding a nested Record.
	KindComposite
)

var kindSizes = [...]int{
	KindInt8:    1,
	KindInt16:   2,
	KindInt32:   4,
	KindInt64:   8,
	KindUint8:   1,
	KindUint16:  2,
	KindUint32:  4,
	KindUint64:  8,
	KindFloat32: 4,
	KindFloat64: 8,
}

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindInt8:      "int8",
	KindInt16:     "int16",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindUint8:     "uint8",
	KindUint16:    "uint16",
	KindUint32:    "uint32",
	KindUint64:    "uint64",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindComposite: "composite",
}

// xsdKinds maps XML Schema built-in type names to primitives. xs:short,
// xs:int and xs:long are signed per XML Schema.
var xsdKinds = map[string]Kind{
	"byte":          KindInt8,
	"short":         KindInt16,
	"int":           KindInt32,
	"long":          KindInt64,
	"unsignedByte":  KindUint8,
	"unsignedShort": KindUint16,
	"unsignedInt":   KindUint32,
	"unsignedLong":  KindUint64,
	"float":         KindFloat32,
	"double":        KindFloat64,
}

// Size returns the on-disk width in bytes; zero for composites.
func (k Kind) Size() int {
	if int(k) < len(kindSizes) {
		return kindSizes[k]
	}

	return 0
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return kindNames[KindInvalid]
}

// IsInteger reports whether k is a signed or unsigned integer kind.
func (k Kind) IsInteger() bool {
	return k >= KindInt8 && k <= KindUint64
}

// IsFloat reports whether k is a floating point kind.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}
