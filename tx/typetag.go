package tx

import (
	"strings"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/errors"
)

// TypeTag describes a Move type used as a generic argument. It is a closed
// set, implemented by PrimitiveTag, VectorTag and StructTag.
type TypeTag interface {
	bcs.Marshaler
	String() string

	typeTag()
}

// PrimitiveTag is a type tag without parameters. Its value is the variant
// tag written to the wire.
type PrimitiveTag uint32

const (
	BoolTag    PrimitiveTag = 0
	U8Tag      PrimitiveTag = 1
	U64Tag     PrimitiveTag = 2
	U128Tag    PrimitiveTag = 3
	AddressTag PrimitiveTag = 4
	SignerTag  PrimitiveTag = 5
	U16Tag     PrimitiveTag = 8
	U32Tag     PrimitiveTag = 9
	U256Tag    PrimitiveTag = 10
)

const (
	vectorTagVariant uint32 = 6
	structTagVariant uint32 = 7
)

// maxTypeTagDepth limits nesting of decoded and parsed type tags.
const maxTypeTagDepth = 8

var primitiveNames = map[PrimitiveTag]string{
	BoolTag:    "bool",
	U8Tag:      "u8",
	U16Tag:     "u16",
	U32Tag:     "u32",
	U64Tag:     "u64",
	U128Tag:    "u128",
	U256Tag:    "u256",
	AddressTag: "address",
	SignerTag:  "signer",
}

func (PrimitiveTag) typeTag() {}

func (t PrimitiveTag) MarshalBCS(s *bcs.Serializer) {
	s.Uleb128(uint32(t))
}

func (t PrimitiveTag) String() string {
	if name, ok := primitiveNames[t]; ok {
		return name
	}
	return "unknown"
}

// VectorTag is the vector<Elem> type.
type VectorTag struct {
	Elem TypeTag
}

func (VectorTag) typeTag() {}

func (t VectorTag) MarshalBCS(s *bcs.Serializer) {
	s.Uleb128(vectorTagVariant)
	s.Struct(t.Elem)
}

func (t VectorTag) String() string {
	return "vector<" + t.Elem.String() + ">"
}

// StructTag is a fully qualified struct type, for example
// 0x1::supra_coin::SupraCoin.
type StructTag struct {
	Address  suprasig.Address
	Module   string
	Name     string
	TypeArgs []TypeTag
}

func (StructTag) typeTag() {}

func (t StructTag) MarshalBCS(s *bcs.Serializer) {
	s.Uleb128(structTagVariant)
	s.Struct(t.Address)
	s.Str(t.Module)
	s.Str(t.Name)
	marshalTypeTags(s, t.TypeArgs)
}

func (t StructTag) String() string {
	var b strings.Builder
	b.WriteString(t.Address.ShortString())
	b.WriteString("::")
	b.WriteString(t.Module)
	b.WriteString("::")
	b.WriteString(t.Name)
	if len(t.TypeArgs) > 0 {
		b.WriteString("<")
		for i, a := range t.TypeArgs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteString(">")
	}
	return b.String()
}

func marshalTypeTags(s *bcs.Serializer, tags []TypeTag) {
	s.Sequence(len(tags), func(i int) { s.Struct(tags[i]) })
}

func unmarshalTypeTags(d *bcs.Deserializer, depth int) ([]TypeTag, error) {
	var tags []TypeTag
	err := d.Sequence(func(int) error {
		t, err := unmarshalTypeTag(d, depth)
		if err != nil {
			return err
		}
		tags = append(tags, t)
		return nil
	})
	return tags, err
}

// UnmarshalTypeTag reads a single type tag.
func UnmarshalTypeTag(d *bcs.Deserializer) (TypeTag, error) {
	return unmarshalTypeTag(d, 0)
}

func unmarshalTypeTag(d *bcs.Deserializer, depth int) (TypeTag, error) {
	if depth > maxTypeTagDepth {
		return nil, errors.Wrap(errors.ErrMalformedEncoding, "type tag nested too deep")
	}
	variant, err := d.Uleb128()
	if err != nil {
		return nil, errors.Wrap(err, "type tag")
	}
	switch variant {
	case vectorTagVariant:
		elem, err := unmarshalTypeTag(d, depth+1)
		if err != nil {
			return nil, err
		}
		return VectorTag{Elem: elem}, nil
	case structTagVariant:
		var t StructTag
		if err := d.Struct(&t.Address); err != nil {
			return nil, err
		}
		if t.Module, err = d.Str(); err != nil {
			return nil, errors.Wrap(err, "struct tag module")
		}
		if t.Name, err = d.Str(); err != nil {
			return nil, errors.Wrap(err, "struct tag name")
		}
		if t.TypeArgs, err = unmarshalTypeTags(d, depth+1); err != nil {
			return nil, err
		}
		return t, nil
	default:
		if _, ok := primitiveNames[PrimitiveTag(variant)]; !ok {
			return nil, errors.Wrapf(errors.ErrMalformedEncoding, "unknown type tag %d", variant)
		}
		return PrimitiveTag(variant), nil
	}
}

// ParseTypeTag reads the human readable form of a type, for example u64,
// vector<u8> or 0x1::coin::CoinStore<0x1::supra_coin::SupraCoin>.
func ParseTypeTag(s string) (TypeTag, error) {
	p := typeParser{input: s}
	t, err := p.parse(0)
	if err != nil {
		return nil, err
	}
	if rest := strings.TrimSpace(p.input[p.pos:]); rest != "" {
		return nil, errors.Wrapf(errors.ErrInput, "type %q: unexpected %q", s, rest)
	}
	return t, nil
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

// ident reads a name that can be part of a type path.
func (p *typeParser) ident() string {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

func (p *typeParser) consume(token string) bool {
	p.skipSpaces()
	if strings.HasPrefix(p.input[p.pos:], token) {
		p.pos += len(token)
		return true
	}
	return false
}

func (p *typeParser) parse(depth int) (TypeTag, error) {
	if depth > maxTypeTagDepth {
		return nil, errors.Wrapf(errors.ErrInput, "type %q nested too deep", p.input)
	}
	name := p.ident()
	if name == "" {
		return nil, errors.Wrapf(errors.ErrInput, "type %q: missing name at %d", p.input, p.pos)
	}
	for tag, n := range primitiveNames {
		if n == name {
			return tag, nil
		}
	}
	if name == "vector" {
		if !p.consume("<") {
			return nil, errors.Wrapf(errors.ErrInput, "type %q: vector without element type", p.input)
		}
		elem, err := p.parse(depth + 1)
		if err != nil {
			return nil, err
		}
		if !p.consume(">") {
			return nil, errors.Wrapf(errors.ErrInput, "type %q: unclosed vector", p.input)
		}
		return VectorTag{Elem: elem}, nil
	}

	addr, err := suprasig.ParseAddressRelaxed(name)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "type %q: unknown type %q", p.input, name)
	}
	t := StructTag{Address: addr}
	if !p.consume("::") {
		return nil, errors.Wrapf(errors.ErrInput, "type %q: missing module", p.input)
	}
	if t.Module = p.ident(); t.Module == "" {
		return nil, errors.Wrapf(errors.ErrInput, "type %q: missing module", p.input)
	}
	if !p.consume("::") {
		return nil, errors.Wrapf(errors.ErrInput, "type %q: missing struct name", p.input)
	}
	if t.Name = p.ident(); t.Name == "" {
		return nil, errors.Wrapf(errors.ErrInput, "type %q: missing struct name", p.input)
	}
	if p.consume("<") {
		for {
			arg, err := p.parse(depth + 1)
			if err != nil {
				return nil, err
			}
			t.TypeArgs = append(t.TypeArgs, arg)
			if p.consume(",") {
				continue
			}
			if p.consume(">") {
				break
			}
			return nil, errors.Wrapf(errors.ErrInput, "type %q: unclosed type arguments", p.input)
		}
	}
	return t, nil
}
