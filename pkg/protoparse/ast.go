package protoparse

// MaxTag is the largest field number protobuf permits, used for
// reserved ranges ending in "max".
const MaxTag = 536870911

// File is the parsed representation of a single .proto document
type File struct {
	Syntax   string
	Package  string
	Imports  []Import
	Options  []Option
	Messages []*Message
	Enums    []*Enum
	Services []*Service
}

// Import is a single import statement
type Import struct {
	Path   string
	Public bool
	Weak   bool
}

// Option is a file, type or field level option
type Option struct {
	Name  string
	Value string
}

// Message is a message declaration, possibly with nested types
type Message struct {
	Name          string
	Fields        []*Field
	OneOfs        []*OneOf
	ReservedTags  []TagRange
	ReservedNames []string
	Messages      []*Message
	Enums         []*Enum
	Options       []Option
}

// TagRange is an inclusive range of reserved field numbers. A single
// reserved number has Lo == Hi.
type TagRange struct {
	Lo int
	Hi int
}

// Field is a normal or map field declaration
type Field struct {
	Name      string
	Label     string // "", "optional", "required" or "repeated"
	Type      string // scalar or type name; "map<K, V>" for map fields
	KeyType   string // set for map fields
	ValueType string // set for map fields
	Tag       int
	Options   []Option
}

// IsMap reports whether the field is a map field
func (f *Field) IsMap() bool {
	return f.KeyType != ""
}

// OneOf is a oneof group inside a message
type OneOf struct {
	Name   string
	Fields []*Field
}

// Enum is an enum declaration
type Enum struct {
	Name    string
	Values  []*EnumValue
	Options []Option
}

// EnumValue is a single enum constant
type EnumValue struct {
	Name    string
	Tag     int
	Options []Option
}

// Service is a service declaration
type Service struct {
	Name    string
	RPCs    []*RPC
	Options []Option
}

// RPC is a single rpc declaration inside a service
type RPC struct {
	Name              string
	RequestType       string
	RequestStreaming  bool
	ResponseType      string
	ResponseStreaming bool
	Options           []Option
}
