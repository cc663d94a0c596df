// Package models defines the core domain models for the household ledger.
//
// Two expense domains coexist:
//
//   - Household expenses (Expense): owned by a registered account, may be
//     financed over credit-card installments, and are shared with other
//     household members via free-text participant names. Balances over
//     these go through identity reconciliation.
//   - Event groups (Group, GroupExpense): ad-hoc ledgers where
//     participants are plain names unique within the group. No
//     installments, no account linkage.
//
// All monetary values are decimal.Decimal. Derived figures (balances,
// settlements) are never persisted; they are recomputed per request from
// the stored records.
package models
