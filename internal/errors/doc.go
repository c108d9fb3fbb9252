// Package errors provides the structured error type shared by every layer of
// funko-battle.
//
// Errors carry a Code, a user facing message, an optional cause and metadata.
// Codes map onto both gRPC and HTTP status codes, so handlers convert with
// ToGRPCError or Code.HTTPStatus and never inspect messages.
//
// # Economy taxonomy
//
//   - InvalidArgument: unknown box tier, rarity or exchange unit, negative amount
//   - InsufficientFunds: a debit larger than the balance
//   - NotFound: unknown account or battle
//   - Aborted: a conditional balance write lost a race; the ledger retries it
//   - Unavailable: storage I/O failed
//
// # Usage
//
//	if acct.Balance < amount {
//	    return nil, errors.InsufficientFundsf("balance %d does not cover %d", acct.Balance, amount).
//	        WithMeta("account_id", acct.ID)
//	}
//
//	if err := repo.Insert(ctx, input); err != nil {
//	    return nil, errors.Wrap(err, "failed to store collectible")
//	}
//
// Repositories return NotFound, Aborted and Unavailable. Orchestrators
// validate input and wrap with business context. Handlers convert.
package errors
