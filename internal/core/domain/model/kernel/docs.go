// Package kernel provides the value objects shared by delivery aggregates:
//   - OrderID: identifier assigned by order management, or minted with a UUID
//   - Money: non-negative decimal amount rounded to cents
//   - Contact: customer name, address and phone
//
// All of them are immutable, and their zero values fail Validate.
package kernel
