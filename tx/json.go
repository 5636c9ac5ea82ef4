package tx

import (
	"encoding/json"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/crypto"
	"github.com/iov-one/suprasig/errors"
)

// Wire JSON is written by explicit marshalers. The RPC node expects byte
// arrays as lists of numbers, module addresses of the framework in short
// form and each sum type as an object with a single key naming the variant.

// byteList is a byte array represented as a list of numbers.
type byteList []byte

func (b byteList) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(b))
	for i, c := range b {
		ints[i] = int(c)
	}
	return json.Marshal(ints)
}

func (b *byteList) UnmarshalJSON(raw []byte) error {
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	out := make([]byte, len(ints))
	for i, n := range ints {
		if n < 0 || n > 0xff {
			return errors.Wrapf(errors.ErrInput, "byte %d out of range: %d", i, n)
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}

// wireAddress prints special addresses (0x0 to 0xf) in short form, all
// others in full length.
type wireAddress suprasig.Address

func (a wireAddress) MarshalJSON() ([]byte, error) {
	addr := suprasig.Address(a)
	if isSpecialAddress(addr) {
		return json.Marshal(addr.ShortString())
	}
	return json.Marshal(addr.String())
}

func (a *wireAddress) UnmarshalJSON(raw []byte) error {
	return (*suprasig.Address)(a).UnmarshalJSON(raw)
}

func isSpecialAddress(a suprasig.Address) bool {
	for _, b := range a[:suprasig.AddressLength-1] {
		if b != 0 {
			return false
		}
	}
	return a[suprasig.AddressLength-1] < 0x10
}

// variant is the single key object a sum type is represented with.
type variant map[string]json.RawMessage

func singleVariant(raw []byte) (string, json.RawMessage, error) {
	var v variant
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(v) != 1 {
		return "", nil, errors.Wrapf(errors.ErrInput, "expected a single variant, got %d", len(v))
	}
	for name, body := range v {
		return name, body, nil
	}
	panic("unreachable")
}

func typeTagStrings(tags []TypeTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}

func parseTypeTags(names []string) ([]TypeTag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	tags := make([]TypeTag, len(names))
	for i, n := range names {
		t, err := ParseTypeTag(n)
		if err != nil {
			return nil, err
		}
		tags[i] = t
	}
	return tags, nil
}

type moduleJSON struct {
	Address wireAddress `json:"address"`
	Name    string      `json:"name"`
}

type entryFunctionJSON struct {
	Module   moduleJSON `json:"module"`
	Function string     `json:"function"`
	TypeArgs []string   `json:"ty_args"`
	Args     []byteList `json:"args"`
}

func (ef *EntryFunction) MarshalJSON() ([]byte, error) {
	args := make([]byteList, len(ef.Args))
	for i, a := range ef.Args {
		args[i] = a
	}
	return json.Marshal(entryFunctionJSON{
		Module:   moduleJSON{Address: wireAddress(ef.Module.Address), Name: ef.Module.Name},
		Function: ef.Function,
		TypeArgs: typeTagStrings(ef.TypeArgs),
		Args:     args,
	})
}

func (ef *EntryFunction) UnmarshalJSON(raw []byte) error {
	var w entryFunctionJSON
	if err := json.Unmarshal(raw, &w); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	tags, err := parseTypeTags(w.TypeArgs)
	if err != nil {
		return err
	}
	args := make([][]byte, len(w.Args))
	for i, a := range w.Args {
		args[i] = a
	}
	*ef = EntryFunction{
		Module:   ModuleID{Address: suprasig.Address(w.Module.Address), Name: w.Module.Name},
		Function: w.Function,
		TypeArgs: tags,
		Args:     args,
	}
	return nil
}

type multisigJSON struct {
	Address suprasig.Address `json:"multisig_address"`
	Payload *struct {
		EntryFunction *EntryFunction `json:"EntryFunction"`
	} `json:"transaction_payload"`
}

func (m *Multisig) MarshalJSON() ([]byte, error) {
	w := multisigJSON{Address: m.Address}
	if m.Payload != nil {
		w.Payload = &struct {
			EntryFunction *EntryFunction `json:"EntryFunction"`
		}{EntryFunction: m.Payload.EntryFunction}
	}
	return json.Marshal(w)
}

func (m *Multisig) UnmarshalJSON(raw []byte) error {
	var w struct {
		Address     suprasig.Address `json:"multisig_address"`
		Transaction json.RawMessage  `json:"transaction_payload"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	m.Address, m.Payload = w.Address, nil
	if len(w.Transaction) == 0 || string(w.Transaction) == "null" {
		return nil
	}
	name, body, err := singleVariant(w.Transaction)
	if err != nil {
		return err
	}
	if name != "EntryFunction" {
		return errors.Wrapf(errors.ErrUnsupportedInnerPayload, "variant %q", name)
	}
	var ef EntryFunction
	if err := json.Unmarshal(body, &ef); err != nil {
		return err
	}
	m.Payload = &MultisigTransactionPayload{EntryFunction: &ef}
	return nil
}

func (a ScriptArgument) MarshalJSON() ([]byte, error) {
	var value interface{}
	switch v := a.Value.(type) {
	case uint8, uint16, uint32, uint64, bool:
		value = v
	case *uint256.Int:
		value = v.ToBig().String()
	case suprasig.Address:
		value = v
	case []byte:
		value = byteList(v)
	default:
		return nil, errors.Wrapf(errors.ErrType, "script argument value of type %T", a.Value)
	}
	name, ok := scriptArgNames[a.Type]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "script argument type %d", uint32(a.Type))
	}
	body, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(variant{name: body})
}

func (a *ScriptArgument) UnmarshalJSON(raw []byte) error {
	name, body, err := singleVariant(raw)
	if err != nil {
		return err
	}
	var (
		kind  ScriptArgumentType
		found bool
	)
	for k, n := range scriptArgNames {
		if n == name {
			kind, found = k, true
			break
		}
	}
	if !found {
		return errors.Wrapf(errors.ErrInput, "unknown script argument %q", name)
	}

	var value interface{}
	switch kind {
	case ScriptArgU8:
		var v uint8
		err, value = json.Unmarshal(body, &v), &v
	case ScriptArgU16:
		var v uint16
		err, value = json.Unmarshal(body, &v), &v
	case ScriptArgU32:
		var v uint32
		err, value = json.Unmarshal(body, &v), &v
	case ScriptArgU64:
		var v uint64
		err, value = json.Unmarshal(body, &v), &v
	case ScriptArgBool:
		var v bool
		err, value = json.Unmarshal(body, &v), &v
	case ScriptArgAddress:
		var v suprasig.Address
		err, value = json.Unmarshal(body, &v), &v
	case ScriptArgU8Vector:
		var v byteList
		err, value = json.Unmarshal(body, &v), &v
	case ScriptArgU128, ScriptArgU256:
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok || n.Sign() < 0 {
			return errors.Wrapf(errors.ErrInput, "%s argument %q", name, s)
		}
		v, overflow := uint256.FromBig(n)
		if overflow || (kind == ScriptArgU128 && v.BitLen() > 128) {
			return errors.Wrapf(errors.ErrOverflow, "%s argument %q", name, s)
		}
		value = v
	}
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	a.Type = kind
	switch v := value.(type) {
	case *uint8:
		a.Value = *v
	case *uint16:
		a.Value = *v
	case *uint32:
		a.Value = *v
	case *uint64:
		a.Value = *v
	case *bool:
		a.Value = *v
	case *suprasig.Address:
		a.Value = *v
	case *byteList:
		a.Value = []byte(*v)
	default:
		a.Value = v
	}
	return nil
}

type scriptJSON struct {
	Code     byteList         `json:"code"`
	TypeArgs []string         `json:"ty_args"`
	Args     []ScriptArgument `json:"args"`
}

func (sc *Script) MarshalJSON() ([]byte, error) {
	args := sc.Args
	if args == nil {
		args = []ScriptArgument{}
	}
	return json.Marshal(scriptJSON{
		Code:     sc.Code,
		TypeArgs: typeTagStrings(sc.TypeArgs),
		Args:     args,
	})
}

func (sc *Script) UnmarshalJSON(raw []byte) error {
	var w scriptJSON
	if err := json.Unmarshal(raw, &w); err != nil {
		return err
	}
	tags, err := parseTypeTags(w.TypeArgs)
	if err != nil {
		return err
	}
	*sc = Script{Code: w.Code, TypeArgs: tags, Args: w.Args}
	if len(sc.Args) == 0 {
		sc.Args = nil
	}
	return nil
}

var payloadNames = map[uint32]string{
	ScriptVariant:        "Script",
	EntryFunctionVariant: "EntryFunction",
	MultisigVariant:      "Multisig",
}

// MarshalPayloadJSON returns the {"<Variant>": {...}} representation of a
// payload.
func MarshalPayloadJSON(p Payload) ([]byte, error) {
	if p == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "payload")
	}
	name, ok := payloadNames[p.Variant()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownPayloadVariant, "tag %d", p.Variant())
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(variant{name: body})
}

// UnmarshalPayloadJSON is the inverse of MarshalPayloadJSON.
func UnmarshalPayloadJSON(raw []byte) (Payload, error) {
	name, body, err := singleVariant(raw)
	if err != nil {
		return nil, err
	}
	var p Payload
	switch name {
	case "Script":
		p = &Script{}
	case "EntryFunction":
		p = &EntryFunction{}
	case "Multisig":
		p = &Multisig{}
	default:
		return nil, errors.Wrapf(errors.ErrUnknownPayloadVariant, "variant %q", name)
	}
	if err := json.Unmarshal(body, p); err != nil {
		return nil, err
	}
	return p, nil
}

type rawTransactionJSON struct {
	Sender                  suprasig.Address `json:"sender"`
	SequenceNumber          uint64           `json:"sequence_number"`
	Payload                 json.RawMessage  `json:"payload"`
	MaxGasAmount            uint64           `json:"max_gas_amount"`
	GasUnitPrice            uint64           `json:"gas_unit_price"`
	ExpirationTimestampSecs uint64           `json:"expiration_timestamp_secs"`
	ChainID                 uint8            `json:"chain_id"`
}

func (raw *RawTransaction) MarshalJSON() ([]byte, error) {
	payload, err := MarshalPayloadJSON(raw.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rawTransactionJSON{
		Sender:                  raw.Sender,
		SequenceNumber:          raw.SequenceNumber,
		Payload:                 payload,
		MaxGasAmount:            raw.MaxGasAmount,
		GasUnitPrice:            raw.GasUnitPrice,
		ExpirationTimestampSecs: raw.ExpirationTimestampSecs,
		ChainID:                 raw.ChainID,
	})
}

// UnmarshalJSON reads the wire form. The signing context is not part of it
// and is left unchanged.
func (raw *RawTransaction) UnmarshalJSON(b []byte) error {
	var w rawTransactionJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	payload, err := UnmarshalPayloadJSON(w.Payload)
	if err != nil {
		return err
	}
	raw.Sender = w.Sender
	raw.SequenceNumber = w.SequenceNumber
	raw.Payload = payload
	raw.MaxGasAmount = w.MaxGasAmount
	raw.GasUnitPrice = w.GasUnitPrice
	raw.ExpirationTimestampSecs = w.ExpirationTimestampSecs
	raw.ChainID = w.ChainID
	return nil
}

type ed25519JSON struct {
	PublicKey suprasig.HexBytes `json:"public_key"`
	Signature suprasig.HexBytes `json:"signature"`
}

type multiEd25519JSON struct {
	PublicKey suprasig.PlainHexBytes `json:"public_key"`
	Signature suprasig.PlainHexBytes `json:"signature"`
}

func (a *Ed25519Authenticator) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(ed25519JSON{PublicKey: suprasig.HexBytes(a.PublicKey), Signature: suprasig.HexBytes(a.Signature)})
	if err != nil {
		return nil, err
	}
	return json.Marshal(variant{"Ed25519": body})
}

func (a *MultiEd25519Authenticator) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(multiEd25519JSON{PublicKey: a.PublicKey.Bytes(), Signature: a.Signature.Bytes()})
	if err != nil {
		return nil, err
	}
	return json.Marshal(variant{"MultiEd25519": body})
}

// UnmarshalAuthenticatorJSON reads an authenticator in its wire form.
func UnmarshalAuthenticatorJSON(raw []byte) (Authenticator, error) {
	name, body, err := singleVariant(raw)
	if err != nil {
		return nil, err
	}
	switch name {
	case "Ed25519":
		var w ed25519JSON
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		return NewEd25519Authenticator(crypto.PublicKey(w.PublicKey), crypto.Signature(w.Signature))
	case "MultiEd25519":
		var w multiEd25519JSON
		if err := json.Unmarshal(body, &w); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		pub, err := crypto.ParseMultiPublicKey(w.PublicKey)
		if err != nil {
			return nil, err
		}
		sig, err := crypto.ParseMultiSignature(w.Signature)
		if err != nil {
			return nil, err
		}
		return NewMultiEd25519Authenticator(pub, sig)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown authenticator %q", name)
	}
}

type signedTransactionJSON struct {
	Move struct {
		Raw           *RawTransaction `json:"raw_txn"`
		Authenticator json.RawMessage `json:"authenticator"`
	} `json:"Move"`
}

// MarshalJSON returns the body the RPC node accepts on submit and simulate.
func (t *SignedTransaction) MarshalJSON() ([]byte, error) {
	if t.Raw == nil || t.Authenticator == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "signed transaction")
	}
	auth, err := json.Marshal(t.Authenticator)
	if err != nil {
		return nil, err
	}
	var w signedTransactionJSON
	w.Move.Raw = t.Raw
	w.Move.Authenticator = auth
	return json.Marshal(w)
}

func (t *SignedTransaction) UnmarshalJSON(raw []byte) error {
	var w signedTransactionJSON
	if err := json.Unmarshal(raw, &w); err != nil {
		return err
	}
	if w.Move.Raw == nil {
		return errors.Wrap(errors.ErrInput, "missing raw_txn")
	}
	auth, err := UnmarshalAuthenticatorJSON(w.Move.Authenticator)
	if err != nil {
		return err
	}
	t.Raw, t.Authenticator = w.Move.Raw, auth
	return nil
}
