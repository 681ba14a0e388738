// Package ledgers implements the promo and loyalty ledgers. Both are stateless
// and run against repositories taken from the caller's unit of work, so every
// counter or balance change commits or rolls back with the operation that caused it.
package ledgers
