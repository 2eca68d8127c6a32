package protoparse

import (
	"fmt"
	"strings"
)

// Format renders a File as canonical schema text. The output is stable
// under reformatting: parsing the result and formatting it again yields
// the same text. The first line is a provenance comment.
func Format(f *File) string {
	var b strings.Builder
	b.WriteString("//\n")
	if f.Syntax != "" {
		fmt.Fprintf(&b, "syntax = %q;\n", f.Syntax)
	}
	if f.Package != "" {
		fmt.Fprintf(&b, "package %s;\n", f.Package)
	}
	if len(f.Imports) > 0 {
		b.WriteByte('\n')
		for _, imp := range f.Imports {
			switch {
			case imp.Public:
				fmt.Fprintf(&b, "import public %q;\n", imp.Path)
			case imp.Weak:
				fmt.Fprintf(&b, "import weak %q;\n", imp.Path)
			default:
				fmt.Fprintf(&b, "import %q;\n", imp.Path)
			}
		}
	}
	if len(f.Options) > 0 {
		b.WriteByte('\n')
		for _, opt := range f.Options {
			fmt.Fprintf(&b, "option %s = %s;\n", opt.Name, opt.Value)
		}
	}
	if len(f.Messages) > 0 || len(f.Enums) > 0 {
		b.WriteByte('\n')
		for _, m := range f.Messages {
			formatMessage(&b, m, "")
		}
		for _, e := range f.Enums {
			formatEnum(&b, e, "")
		}
	}
	if len(f.Services) > 0 {
		b.WriteByte('\n')
		for _, s := range f.Services {
			formatService(&b, s)
		}
	}
	return b.String()
}

func formatMessage(b *strings.Builder, m *Message, indent string) {
	fmt.Fprintf(b, "%smessage %s {\n", indent, m.Name)
	inner := indent + "  "
	for _, opt := range m.Options {
		fmt.Fprintf(b, "%soption %s = %s;\n", inner, opt.Name, opt.Value)
	}
	for _, f := range m.Fields {
		formatField(b, f, inner)
	}
	for _, o := range m.OneOfs {
		fmt.Fprintf(b, "%soneof %s {\n", inner, o.Name)
		for _, f := range o.Fields {
			formatField(b, f, inner+"  ")
		}
		fmt.Fprintf(b, "%s}\n", inner)
	}
	if len(m.ReservedTags) > 0 {
		parts := make([]string, 0, len(m.ReservedTags))
		for _, r := range m.ReservedTags {
			parts = append(parts, formatTagRange(r))
		}
		fmt.Fprintf(b, "%sreserved %s;\n", inner, strings.Join(parts, ", "))
	}
	if len(m.ReservedNames) > 0 {
		parts := make([]string, 0, len(m.ReservedNames))
		for _, name := range m.ReservedNames {
			parts = append(parts, fmt.Sprintf("%q", name))
		}
		fmt.Fprintf(b, "%sreserved %s;\n", inner, strings.Join(parts, ", "))
	}
	for _, e := range m.Enums {
		formatEnum(b, e, inner)
	}
	for _, nested := range m.Messages {
		formatMessage(b, nested, inner)
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func formatTagRange(r TagRange) string {
	if r.Lo == r.Hi {
		return fmt.Sprintf("%d", r.Lo)
	}
	if r.Hi == MaxTag {
		return fmt.Sprintf("%d to max", r.Lo)
	}
	return fmt.Sprintf("%d to %d", r.Lo, r.Hi)
}

func formatField(b *strings.Builder, f *Field, indent string) {
	b.WriteString(indent)
	if f.Label != "" {
		b.WriteString(f.Label)
		b.WriteByte(' ')
	}
	fmt.Fprintf(b, "%s %s = %d", f.Type, f.Name, f.Tag)
	formatInlineOptions(b, f.Options)
	b.WriteString(";\n")
}

func formatInlineOptions(b *strings.Builder, opts []Option) {
	if len(opts) == 0 {
		return
	}
	parts := make([]string, 0, len(opts))
	for _, opt := range opts {
		parts = append(parts, fmt.Sprintf("%s = %s", opt.Name, opt.Value))
	}
	fmt.Fprintf(b, " [%s]", strings.Join(parts, ", "))
}

func formatEnum(b *strings.Builder, e *Enum, indent string) {
	fmt.Fprintf(b, "%senum %s {\n", indent, e.Name)
	inner := indent + "  "
	for _, opt := range e.Options {
		fmt.Fprintf(b, "%soption %s = %s;\n", inner, opt.Name, opt.Value)
	}
	for _, v := range e.Values {
		fmt.Fprintf(b, "%s%s = %d", inner, v.Name, v.Tag)
		formatInlineOptions(b, v.Options)
		b.WriteString(";\n")
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

func formatService(b *strings.Builder, s *Service) {
	fmt.Fprintf(b, "service %s {\n", s.Name)
	for _, opt := range s.Options {
		fmt.Fprintf(b, "  option %s = %s;\n", opt.Name, opt.Value)
	}
	for _, rpc := range s.RPCs {
		b.WriteString("  rpc ")
		b.WriteString(rpc.Name)
		b.WriteString(" (")
		if rpc.RequestStreaming {
			b.WriteString("stream ")
		}
		b.WriteString(rpc.RequestType)
		b.WriteString(") returns (")
		if rpc.ResponseStreaming {
			b.WriteString("stream ")
		}
		b.WriteString(rpc.ResponseType)
		b.WriteString(")")
		if len(rpc.Options) > 0 {
			b.WriteString(" {\n")
			for _, opt := range rpc.Options {
				fmt.Fprintf(b, "    option %s = %s;\n", opt.Name, opt.Value)
			}
			b.WriteString("  }\n")
		} else {
			b.WriteString(";\n")
		}
	}
	b.WriteString("}\n")
}
