// Heuristic spam-likeness scoring for federated activities.
//
// This package (`github.com/kigurumi-social/mamoru/spamdefend`) decides whether an incoming activity (a new note, a reaction) by a remote actor looks like part of a spam campaign. It combines three independently-fetched signals: how plausible the acting account's profile looks, how trustworthy the origin server is, and the shape of the activity itself. The sum is compared against a threshold; the result is a boolean verdict plus an auditable score breakdown. The engine never enforces anything itself: rejecting, hiding, or rate-limiting flagged activity is the caller's decision.
//
// See `cmd/mamoru` for a daemon built on this package.
package spamdefend
