// Package errors provides structured errors for the rpg-battle service.
//
// Every error carries a Code, a user-facing message, an optional cause and
// optional metadata. Codes map onto gRPC status codes at the handler edge and
// onto HTTP status codes for the websocket endpoint.
//
// Creating errors:
//
//	err := errors.NotFound("battle not found").WithMeta("battle_id", id)
//	err := errors.FailedPreconditionf("battle is in phase %s", phase)
//
// Wrapping keeps the code of a wrapped *Error:
//
//	if err := repo.Update(ctx, input); err != nil {
//	    return nil, errors.Wrap(err, "failed to save battle")
//	}
//
// Layer guidelines:
//   - repositories return NotFound / AlreadyExists and wrap store errors
//   - orchestrators validate input (InvalidArgument) and phases (FailedPrecondition)
//   - handlers convert with ToGRPCError and never build status errors by hand
//
// Rejected player actions (not enough energy, card not in hand) are not errors;
// they surface as battle log entries. Broken board invariants are bugs and panic.
package errors
