// Package loyalty contains the LoyaltyProgram aggregate and its append-only ledger.
//
// The program's points field is the authoritative balance. Every balance change
// produces exactly one Transaction, collected on the program until the repository
// persists it in the same database transaction as the balance.
//
// Earning: floor(amount × 10 × tier multiplier).
// Redemption: 100 points = 1.00, at least 100 points per explicit redemption.
// Earned and bonus points expire 365 days after they were granted.
package loyalty
