package multisig

import (
	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/bcs"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/tx"
)

// Module is the framework module managing multisig accounts.
var Module = tx.CoreModule("multisig_account")

// CreateTransactionEventType is emitted when a call is proposed.
const CreateTransactionEventType = "0x1::multisig_account::CreateTransactionEvent"

// maxOwners is the largest number of owners a single account can have.
const maxOwners = 100

// CreateAccount creates a multisig account owned by the sender and all
// additional owners.
type CreateAccount struct {
	// AdditionalOwners must not contain the sender.
	AdditionalOwners []suprasig.Address
	// Threshold is the number of approvals required to execute a call.
	Threshold uint64
	// MetadataKeys and MetadataValues are stored with the account. Both
	// must have the same length.
	MetadataKeys   []string
	MetadataValues [][]byte
	// Timeout is the number of seconds after which a proposal expires.
	Timeout uint64
}

// Validate returns an error if the account could never execute a call.
func (c *CreateAccount) Validate() error {
	var errs error
	if len(c.AdditionalOwners) >= maxOwners {
		errs = errors.AppendField(errs, "AdditionalOwners", errors.Wrap(errors.ErrInput, "too many owners"))
	}
	seen := make(map[suprasig.Address]struct{}, len(c.AdditionalOwners))
	for _, o := range c.AdditionalOwners {
		if _, ok := seen[o]; ok {
			errs = errors.AppendField(errs, "AdditionalOwners", errors.Wrapf(errors.ErrDuplicate, "owner %s", o))
		}
		seen[o] = struct{}{}
	}
	switch owners := uint64(len(c.AdditionalOwners)) + 1; {
	case c.Threshold == 0:
		errs = errors.AppendField(errs, "Threshold", errors.ErrEmpty)
	case c.Threshold > owners:
		errs = errors.AppendField(errs, "Threshold",
			errors.Wrapf(errors.ErrInput, "%d required, %d owners", c.Threshold, owners))
	}
	if len(c.MetadataKeys) != len(c.MetadataValues) {
		errs = errors.AppendField(errs, "MetadataValues",
			errors.Wrapf(errors.ErrInput, "%d keys, %d values", len(c.MetadataKeys), len(c.MetadataValues)))
	}
	return errs
}

// EntryFunction returns the create_with_owners call.
func (c *CreateAccount) EntryFunction() (*tx.EntryFunction, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	owners := c.AdditionalOwners
	if owners == nil {
		owners = []suprasig.Address{}
	}
	keys := c.MetadataKeys
	if keys == nil {
		keys = []string{}
	}
	values := c.MetadataValues
	if values == nil {
		values = [][]byte{}
	}
	return tx.NewEntryFunction(Module, "create_with_owners", nil,
		tx.Argument{Value: owners, Encoder: bcs.SequenceOf(bcs.EncodeStruct)},
		tx.Argument{Value: c.Threshold, Encoder: bcs.EncodeU64},
		tx.Argument{Value: keys, Encoder: bcs.SequenceOf(bcs.EncodeStr)},
		tx.Argument{Value: values, Encoder: bcs.SequenceOf(bcs.EncodeBytes)},
		tx.Argument{Value: c.Timeout, Encoder: bcs.EncodeU64},
	)
}

// CreateTransaction proposes a call stored on chain in full. Owners can
// read what they vote on, and the execution does not need to repeat it.
func CreateTransaction(account suprasig.Address, ef *tx.EntryFunction) (*tx.EntryFunction, error) {
	if ef == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "entry function")
	}
	payload, err := bcs.Marshal(&tx.MultisigTransactionPayload{EntryFunction: ef})
	if err != nil {
		return nil, errors.Wrap(err, "serialize payload")
	}
	return tx.NewEntryFunction(Module, "create_transaction", nil,
		tx.Argument{Value: account, Encoder: bcs.EncodeStruct},
		tx.Argument{Value: payload, Encoder: bcs.EncodeBytes},
	)
}

// CreateTransactionWithHash proposes a call by its hash, see ProposalHash.
// The full call must be provided when it is executed.
func CreateTransactionWithHash(account suprasig.Address, hash []byte) (*tx.EntryFunction, error) {
	if len(hash) != 32 {
		return nil, errors.Field("Hash", errors.ErrInput, "want 32 bytes, got %d", len(hash))
	}
	return tx.NewEntryFunction(Module, "create_transaction_with_hash", nil,
		tx.Argument{Value: account, Encoder: bcs.EncodeStruct},
		tx.Argument{Value: hash, Encoder: bcs.EncodeBytes},
	)
}

// ProposeByHash returns the create_transaction_with_hash call for ef.
func ProposeByHash(account suprasig.Address, ef *tx.EntryFunction) (*tx.EntryFunction, error) {
	hash, err := ProposalHash(ef)
	if err != nil {
		return nil, err
	}
	return CreateTransactionWithHash(account, hash)
}

// VoteTransaction approves or rejects the proposal with given sequence
// number. The function name is misspelled in the framework module.
func VoteTransaction(account suprasig.Address, seq uint64, approved bool) (*tx.EntryFunction, error) {
	return tx.NewEntryFunction(Module, "vote_transanction", nil,
		tx.Argument{Value: account, Encoder: bcs.EncodeStruct},
		tx.Argument{Value: seq, Encoder: bcs.EncodeU64},
		tx.Argument{Value: approved, Encoder: bcs.EncodeBool},
	)
}

// Approve votes for the proposal.
func Approve(account suprasig.Address, seq uint64) (*tx.EntryFunction, error) {
	return voteCall(account, seq, "approve_transaction")
}

// Reject votes against the proposal.
func Reject(account suprasig.Address, seq uint64) (*tx.EntryFunction, error) {
	return voteCall(account, seq, "reject_transaction")
}

func voteCall(account suprasig.Address, seq uint64, function string) (*tx.EntryFunction, error) {
	return tx.NewEntryFunction(Module, function, nil,
		tx.Argument{Value: account, Encoder: bcs.EncodeStruct},
		tx.Argument{Value: seq, Encoder: bcs.EncodeU64},
	)
}

// ExecuteRejected removes the oldest pending proposal once enough owners
// rejected it.
func ExecuteRejected(account suprasig.Address) (*tx.EntryFunction, error) {
	return tx.NewEntryFunction(Module, "execute_rejected_transaction", nil,
		tx.Argument{Value: account, Encoder: bcs.EncodeStruct},
	)
}

// Execute returns the payload executing an approved proposal. ef can be nil
// when the proposal was stored in full.
func Execute(account suprasig.Address, ef *tx.EntryFunction) *tx.Multisig {
	return tx.NewMultisig(account, ef)
}

type createTransactionEvent struct {
	SequenceNumber suprasig.U64 `json:"sequence_number"`
}

// ProposalSequence returns the sequence number of the proposal created by a
// transaction that emitted given events.
func ProposalSequence(events []tx.Event) (uint64, error) {
	var ev createTransactionEvent
	if err := tx.FindEvent(events, CreateTransactionEventType, &ev); err != nil {
		return 0, err
	}
	return uint64(ev.SequenceNumber), nil
}
