package tx

import (
	"strconv"
	"strings"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/errors"
)

// ModuleID identifies a published Move module.
type ModuleID struct {
	Address suprasig.Address
	Name    string
}

// CoreModule returns the ID of a framework module published at 0x1.
func CoreModule(name string) ModuleID {
	return ModuleID{Address: suprasig.CoreAddress, Name: name}
}

// ParseModuleID reads the <address>::<name> form, for example
// 0x1::supra_account.
func ParseModuleID(s string) (ModuleID, error) {
	chunks := strings.Split(s, "::")
	if len(chunks) != 2 || chunks[1] == "" {
		return ModuleID{}, errors.Wrapf(errors.ErrInput, "module id %q", s)
	}
	addr, err := suprasig.ParseAddressRelaxed(chunks[0])
	if err != nil {
		return ModuleID{}, errors.Wrapf(err, "module id %q", s)
	}
	return ModuleID{Address: addr, Name: chunks[1]}, nil
}

func (m ModuleID) String() string {
	return m.Address.ShortString() + "::" + m.Name
}

func (m ModuleID) MarshalBCS(s *bcs.Serializer) {
	s.Struct(m.Address)
	s.Str(m.Name)
}

func (m *ModuleID) UnmarshalBCS(d *bcs.Deserializer) error {
	if err := d.Struct(&m.Address); err != nil {
		return errors.Wrap(err, "module address")
	}
	name, err := d.Str()
	if err != nil {
		return errors.Wrap(err, "module name")
	}
	m.Name = name
	return nil
}

// Argument is a single entry function argument paired with the encoder that
// writes it in the form the called function expects.
type Argument struct {
	Value   interface{}
	Encoder bcs.Encoder
}

// EntryFunction is a call of a public entry function of a published module.
// Arguments are kept in their canonical encoded form.
type EntryFunction struct {
	Module   ModuleID
	Function string
	TypeArgs []TypeTag
	Args     [][]byte
}

// NewEntryFunction encodes all arguments and returns the call.
func NewEntryFunction(module ModuleID, function string, typeArgs []TypeTag, args ...Argument) (*EntryFunction, error) {
	ef := &EntryFunction{
		Module:   module,
		Function: function,
		TypeArgs: typeArgs,
		Args:     make([][]byte, 0, len(args)),
	}
	for i, a := range args {
		if a.Encoder == nil {
			return nil, errors.Field("Args."+strconv.Itoa(i), errors.ErrEmpty, "encoder")
		}
		raw, err := bcs.Encode(a.Encoder, a.Value)
		if err != nil {
			return nil, errors.Field("Args."+strconv.Itoa(i), err, "encode argument")
		}
		ef.Args = append(ef.Args, raw)
	}
	if err := ef.Validate(); err != nil {
		return nil, err
	}
	return ef, nil
}

// Variant implements Payload.
func (*EntryFunction) Variant() uint32 {
	return EntryFunctionVariant
}

// Validate returns an error if the call is missing a name.
func (ef *EntryFunction) Validate() error {
	var errs error
	if ef.Module.Name == "" {
		errs = errors.AppendField(errs, "Module.Name", errors.ErrEmpty)
	}
	if ef.Function == "" {
		errs = errors.AppendField(errs, "Function", errors.ErrEmpty)
	}
	return errs
}

// FullName returns the <address>::<module>::<function> form.
func (ef *EntryFunction) FullName() string {
	return ef.Module.String() + "::" + ef.Function
}

func (ef *EntryFunction) MarshalBCS(s *bcs.Serializer) {
	s.Struct(ef.Module)
	s.Str(ef.Function)
	marshalTypeTags(s, ef.TypeArgs)
	s.Sequence(len(ef.Args), func(i int) { s.Bytes(ef.Args[i]) })
}

func (ef *EntryFunction) UnmarshalBCS(d *bcs.Deserializer) error {
	if err := d.Struct(&ef.Module); err != nil {
		return err
	}
	fn, err := d.Str()
	if err != nil {
		return errors.Wrap(err, "function name")
	}
	ef.Function = fn
	if ef.TypeArgs, err = unmarshalTypeTags(d, 0); err != nil {
		return err
	}
	ef.Args = nil
	return d.Sequence(func(i int) error {
		arg, err := d.Bytes()
		if err != nil {
			return errors.Wrapf(err, "argument %d", i)
		}
		ef.Args = append(ef.Args, arg)
		return nil
	})
}
