package multisig

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
)

// Viewer calls view functions of published modules. Arguments are passed in
// their string form and each returned value is kept as raw JSON.
type Viewer interface {
	View(ctx context.Context, function string, typeArgs, args []string) ([]json.RawMessage, error)
}

func viewFunction(name string) string {
	return Module.String() + "::" + name
}

// view calls a multisig_account view function and decodes the first
// returned value into dest.
func view(ctx context.Context, v Viewer, function string, dest interface{}, args ...string) error {
	res, err := v.View(ctx, viewFunction(function), nil, args)
	if err != nil {
		return errors.Wrap(err, function)
	}
	if len(res) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "%s returned no value", function)
	}
	if err := json.Unmarshal(res[0], dest); err != nil {
		return errors.Wrapf(errors.ErrInput, "%s result: %s", function, err)
	}
	return nil
}

// Owners returns the owners of the account.
func Owners(ctx context.Context, v Viewer, account suprasig.Address) ([]suprasig.Address, error) {
	var raw []string
	if err := view(ctx, v, "owners", &raw, account.String()); err != nil {
		return nil, err
	}
	owners := make([]suprasig.Address, len(raw))
	for i, s := range raw {
		addr, err := suprasig.ParseAddressRelaxed(s)
		if err != nil {
			return nil, errors.Wrapf(err, "owner %d", i)
		}
		owners[i] = addr
	}
	return owners, nil
}

// LastResolvedSequence returns the sequence number of the last executed or
// removed proposal.
func LastResolvedSequence(ctx context.Context, v Viewer, account suprasig.Address) (uint64, error) {
	var n suprasig.U64
	err := view(ctx, v, "last_resolved_sequence_number", &n, account.String())
	return uint64(n), err
}

// NextSequence returns the sequence number the next proposal will get.
func NextSequence(ctx context.Context, v Viewer, account suprasig.Address) (uint64, error) {
	var n suprasig.U64
	err := view(ctx, v, "next_sequence_number", &n, account.String())
	return uint64(n), err
}

// NumSignaturesRequired returns the number of approvals a proposal needs.
func NumSignaturesRequired(ctx context.Context, v Viewer, account suprasig.Address) (uint64, error) {
	var n suprasig.U64
	err := view(ctx, v, "num_signatures_required", &n, account.String())
	return uint64(n), err
}

// CanBeExecuted returns true if the proposal collected enough approvals.
func CanBeExecuted(ctx context.Context, v Viewer, account suprasig.Address, seq uint64) (bool, error) {
	var ok bool
	err := view(ctx, v, "can_be_executed", &ok, account.String(), strconv.FormatUint(seq, 10))
	return ok, err
}

// Vote describes how an owner voted on a proposal.
type Vote struct {
	Voted    bool
	Approved bool
}

// GetVote returns the vote of voter on the proposal.
func GetVote(ctx context.Context, v Viewer, account suprasig.Address, seq uint64, voter suprasig.Address) (Vote, error) {
	res, err := v.View(ctx, viewFunction("vote"), nil,
		[]string{account.String(), strconv.FormatUint(seq, 10), voter.String()})
	if err != nil {
		return Vote{}, errors.Wrap(err, "vote")
	}
	if len(res) != 2 {
		return Vote{}, errors.Wrapf(errors.ErrInput, "vote returned %d values", len(res))
	}
	var vote Vote
	if err := json.Unmarshal(res[0], &vote.Voted); err != nil {
		return Vote{}, errors.Wrapf(errors.ErrInput, "voted: %s", err)
	}
	if err := json.Unmarshal(res[1], &vote.Approved); err != nil {
		return Vote{}, errors.Wrapf(errors.ErrInput, "vote: %s", err)
	}
	return vote, nil
}

// Status summarizes the account and its oldest pending proposal.
type Status struct {
	Owners       []suprasig.Address
	Threshold    uint64
	LastResolved uint64
	Next         uint64
	// Pending is the sequence number of the oldest pending proposal. It is
	// zero when nothing is pending.
	Pending    uint64
	Executable bool
	Votes      map[suprasig.Address]Vote
}

// AccountStatus reads everything an owner needs to decide what to do next.
func AccountStatus(ctx context.Context, v Viewer, account suprasig.Address) (*Status, error) {
	var (
		st  Status
		err error
	)
	if st.Owners, err = Owners(ctx, v, account); err != nil {
		return nil, err
	}
	if st.Threshold, err = NumSignaturesRequired(ctx, v, account); err != nil {
		return nil, err
	}
	if st.LastResolved, err = LastResolvedSequence(ctx, v, account); err != nil {
		return nil, err
	}
	if st.Next, err = NextSequence(ctx, v, account); err != nil {
		return nil, err
	}
	if st.LastResolved+1 >= st.Next {
		return &st, nil
	}
	st.Pending = st.LastResolved + 1
	if st.Executable, err = CanBeExecuted(ctx, v, account, st.Pending); err != nil {
		return nil, err
	}
	st.Votes = make(map[suprasig.Address]Vote, len(st.Owners))
	for _, o := range st.Owners {
		vote, err := GetVote(ctx, v, account, st.Pending, o)
		if err != nil {
			return nil, err
		}
		st.Votes[o] = vote
	}
	return &st, nil
}
