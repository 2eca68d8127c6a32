package protodiff

import (
	"fmt"

	"github.com/axle-registry/axle/pkg/protoparse"
)

// fieldDescriptor captures the aspects of a field that matter for
// structural compatibility.
type fieldDescriptor struct {
	Tag   int
	Type  string
	Label string
}

type messageIndex struct {
	reservedTags  map[int]struct{}
	reservedNames map[string]struct{}
	fieldByName   map[string]fieldDescriptor
	tagToName     map[int]string
	activeTags    map[int]struct{}
	activeNames   map[string]struct{}
}

func (m *messageIndex) reservedCount() int {
	return len(m.reservedTags) + len(m.reservedNames)
}

type enumIndex struct {
	constantByName map[string]int
	tagToName      map[int]string
	activeTags     map[int]struct{}
	activeNames    map[string]struct{}
}

type serviceIndex struct {
	rpcNames     map[string]struct{}
	rpcSignature map[string]string
}

// Index is the diffable reduction of a parsed document. Messages and
// enums are keyed by dotted scope path ("Outer.Inner"), services by
// name.
type Index struct {
	messages map[string]*messageIndex
	enums    map[string]*enumIndex
	services map[string]*serviceIndex
}

// NewIndex builds an Index from a parsed file
func NewIndex(f *protoparse.File) *Index {
	idx := &Index{
		messages: make(map[string]*messageIndex),
		enums:    make(map[string]*enumIndex),
		services: make(map[string]*serviceIndex),
	}
	for _, m := range f.Messages {
		idx.addMessage("", m)
	}
	for _, e := range f.Enums {
		idx.addEnum("", e)
	}
	for _, s := range f.Services {
		idx.addService(s)
	}
	return idx
}

func scopedName(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

func (idx *Index) addMessage(scope string, m *protoparse.Message) {
	path := scopedName(scope, m.Name)
	mi := &messageIndex{
		reservedTags:  make(map[int]struct{}),
		reservedNames: make(map[string]struct{}),
		fieldByName:   make(map[string]fieldDescriptor),
		tagToName:     make(map[int]string),
		activeTags:    make(map[int]struct{}),
		activeNames:   make(map[string]struct{}),
	}
	for _, r := range m.ReservedTags {
		for tag := r.Lo; tag <= r.Hi; tag++ {
			mi.reservedTags[tag] = struct{}{}
		}
	}
	for _, name := range m.ReservedNames {
		mi.reservedNames[name] = struct{}{}
	}

	addField := func(f *protoparse.Field) {
		mi.fieldByName[f.Name] = fieldDescriptor{Tag: f.Tag, Type: f.Type, Label: f.Label}
		mi.tagToName[f.Tag] = f.Name
		mi.activeTags[f.Tag] = struct{}{}
		mi.activeNames[f.Name] = struct{}{}
	}
	for _, f := range m.Fields {
		addField(f)
	}
	for _, o := range m.OneOfs {
		for _, f := range o.Fields {
			addField(f)
		}
	}
	idx.messages[path] = mi

	for _, e := range m.Enums {
		idx.addEnum(path, e)
	}
	for _, nested := range m.Messages {
		idx.addMessage(path, nested)
	}
}

func (idx *Index) addEnum(scope string, e *protoparse.Enum) {
	path := scopedName(scope, e.Name)
	ei := &enumIndex{
		constantByName: make(map[string]int),
		tagToName:      make(map[int]string),
		activeTags:     make(map[int]struct{}),
		activeNames:    make(map[string]struct{}),
	}
	for _, v := range e.Values {
		ei.constantByName[v.Name] = v.Tag
		ei.tagToName[v.Tag] = v.Name
		ei.activeTags[v.Tag] = struct{}{}
		ei.activeNames[v.Name] = struct{}{}
	}
	idx.enums[path] = ei
}

func (idx *Index) addService(s *protoparse.Service) {
	si := &serviceIndex{
		rpcNames:     make(map[string]struct{}),
		rpcSignature: make(map[string]string),
	}
	for _, rpc := range s.RPCs {
		si.rpcNames[rpc.Name] = struct{}{}
		si.rpcSignature[rpc.Name] = rpcSignature(rpc)
	}
	idx.services[s.Name] = si
}

func rpcSignature(rpc *protoparse.RPC) string {
	return fmt.Sprintf("%s:%t->%s:%t",
		rpc.RequestType, rpc.RequestStreaming,
		rpc.ResponseType, rpc.ResponseStreaming)
}

// tagNames returns the combined (scope, tag) -> name mapping over
// message fields and enum constants.
func (idx *Index) tagNames() map[string]map[int]string {
	combined := make(map[string]map[int]string, len(idx.messages)+len(idx.enums))
	for path, mi := range idx.messages {
		scoped := make(map[int]string, len(mi.tagToName))
		for tag, name := range mi.tagToName {
			scoped[tag] = name
		}
		combined[path] = scoped
	}
	for path, ei := range idx.enums {
		scoped, ok := combined[path]
		if !ok {
			scoped = make(map[int]string, len(ei.tagToName))
			combined[path] = scoped
		}
		for tag, name := range ei.tagToName {
			scoped[tag] = name
		}
	}
	return combined
}
