// Package models defines the domain models persisted by FairShare.
//
// # Models
//
//   - Person: someone who can pay for or share an expense
//   - Group: a named set of people who share expenses
//   - Expense: a payment made by one member and split among several
//   - Settlement: a recorded payment from one member to another
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships reference Person and Group IDs
// 2. **Amounts as float64**: rounding to cents happens at the edges
// 3. **Unix timestamps**: CreatedAt and LastActive are seconds since epoch
//
// The balance and settlement calculations live in the calculator package and
// work on their own value types; the service layer converts between the two.
package models
