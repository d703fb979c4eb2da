/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "errors"

var (
	// ErrInvalidResult is returned for a result that does not match a pairing
	// open in the current round. The round stays pending.
	ErrInvalidResult = errors.New("invalid match result")

	// ErrCorruptSnapshot is returned when a persisted snapshot fails
	// structural validation. It is fatal to resuming that session.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrNoLegalPairing signals normal tournament completion.
	ErrNoLegalPairing = errors.New("no legal pairing remains")

	// ErrRoundCapExceeded signals the configured round cap was reached
	// before the tournament terminated on its own.
	ErrRoundCapExceeded = errors.New("round cap exceeded")

	// ErrOddPairingPool is a precondition violation: the pairing generator
	// only accepts an even number of competitors.
	ErrOddPairingPool = errors.New("pairing pool has an odd number of competitors")

	ErrInvalidState        = errors.New("operation not valid in current state")
	ErrResultsIncomplete   = errors.New("results missing for issued pairings")
	ErrUnknownCompetitor   = errors.New("unknown competitor")
	ErrDuplicateCompetitor = errors.New("duplicate competitor")
	ErrUnknownSession      = errors.New("unknown session")
)
