package tx

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/errors"
)

// ScriptArgumentType is the variant tag of a script argument.
type ScriptArgumentType uint32

const (
	ScriptArgU8       ScriptArgumentType = 0
	ScriptArgU64      ScriptArgumentType = 1
	ScriptArgU128     ScriptArgumentType = 2
	ScriptArgAddress  ScriptArgumentType = 3
	ScriptArgU8Vector ScriptArgumentType = 4
	ScriptArgBool     ScriptArgumentType = 5
	ScriptArgU16      ScriptArgumentType = 6
	ScriptArgU32      ScriptArgumentType = 7
	ScriptArgU256     ScriptArgumentType = 8
)

var scriptArgNames = map[ScriptArgumentType]string{
	ScriptArgU8:       "U8",
	ScriptArgU64:      "U64",
	ScriptArgU128:     "U128",
	ScriptArgAddress:  "Address",
	ScriptArgU8Vector: "U8Vector",
	ScriptArgBool:     "Bool",
	ScriptArgU16:      "U16",
	ScriptArgU32:      "U32",
	ScriptArgU256:     "U256",
}

func (t ScriptArgumentType) String() string {
	if n, ok := scriptArgNames[t]; ok {
		return n
	}
	return fmt.Sprintf("ScriptArgumentType(%d)", uint32(t))
}

// ScriptArgument is a typed script argument. Unlike entry function
// arguments, script arguments carry their type on the wire.
//
// Value holds uint8, uint16, uint32, uint64, *uint256.Int (u128 and u256),
// suprasig.Address, []byte or bool, matching the Type.
type ScriptArgument struct {
	Type  ScriptArgumentType
	Value interface{}
}

// encoder returns the encoder matching the argument type.
func (a ScriptArgument) encoder() (bcs.Encoder, error) {
	switch a.Type {
	case ScriptArgU8:
		return bcs.EncodeU8, nil
	case ScriptArgU16:
		return bcs.EncodeU16, nil
	case ScriptArgU32:
		return bcs.EncodeU32, nil
	case ScriptArgU64:
		return bcs.EncodeU64, nil
	case ScriptArgU128:
		return bcs.EncodeU128, nil
	case ScriptArgU256:
		return bcs.EncodeU256, nil
	case ScriptArgAddress:
		return bcs.EncodeStruct, nil
	case ScriptArgU8Vector:
		return bcs.EncodeBytes, nil
	case ScriptArgBool:
		return bcs.EncodeBool, nil
	default:
		return nil, errors.Wrapf(errors.ErrType, "script argument type %d", uint32(a.Type))
	}
}

func (a ScriptArgument) MarshalBCS(s *bcs.Serializer) {
	enc, err := a.encoder()
	if err != nil {
		s.SetError(err)
		return
	}
	if a.Type == ScriptArgAddress {
		if _, ok := a.Value.(suprasig.Address); !ok {
			s.SetError(errors.Wrapf(errors.ErrType, "address argument of type %T", a.Value))
			return
		}
	}
	s.Uleb128(uint32(a.Type))
	s.SetError(enc(s, a.Value))
}

func (a *ScriptArgument) UnmarshalBCS(d *bcs.Deserializer) error {
	variant, err := d.Uleb128()
	if err != nil {
		return errors.Wrap(err, "script argument type")
	}
	a.Type = ScriptArgumentType(variant)
	switch a.Type {
	case ScriptArgU8:
		a.Value, err = d.U8()
	case ScriptArgU16:
		a.Value, err = d.U16()
	case ScriptArgU32:
		a.Value, err = d.U32()
	case ScriptArgU64:
		a.Value, err = d.U64()
	case ScriptArgU128:
		a.Value, err = d.U128()
	case ScriptArgU256:
		a.Value, err = d.U256()
	case ScriptArgAddress:
		var addr suprasig.Address
		err = d.Struct(&addr)
		a.Value = addr
	case ScriptArgU8Vector:
		a.Value, err = d.Bytes()
	case ScriptArgBool:
		a.Value, err = d.Bool()
	default:
		return errors.Wrapf(errors.ErrMalformedEncoding, "unknown script argument type %d", variant)
	}
	return err
}

// Script is a compiled Move script executed once with given arguments.
type Script struct {
	Code     []byte
	TypeArgs []TypeTag
	Args     []ScriptArgument
}

// U128Arg is a helper to build a u128 script argument.
func U128Arg(v *uint256.Int) ScriptArgument {
	return ScriptArgument{Type: ScriptArgU128, Value: v}
}

// Variant implements Payload.
func (*Script) Variant() uint32 {
	return ScriptVariant
}

func (sc *Script) MarshalBCS(s *bcs.Serializer) {
	s.Bytes(sc.Code)
	marshalTypeTags(s, sc.TypeArgs)
	s.Sequence(len(sc.Args), func(i int) { s.Struct(sc.Args[i]) })
}

func (sc *Script) UnmarshalBCS(d *bcs.Deserializer) error {
	code, err := d.Bytes()
	if err != nil {
		return errors.Wrap(err, "script code")
	}
	sc.Code = code
	if sc.TypeArgs, err = unmarshalTypeTags(d, 0); err != nil {
		return err
	}
	sc.Args = nil
	return d.Sequence(func(i int) error {
		var a ScriptArgument
		if err := d.Struct(&a); err != nil {
			return errors.Wrapf(err, "script argument %d", i)
		}
		sc.Args = append(sc.Args, a)
		return nil
	})
}
