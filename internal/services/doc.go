// Package services contains the three stateful stores of the tracker:
// the session, the user directory and the task store.
//
// Every store keeps an in-memory snapshot next to the persisted collection it
// owns. Mutations are write-through: the persisted value is written first
// (several keys in one storage.Store.Atomic call where needed) and the
// snapshot is replaced only after the write succeeded, so a storage failure
// leaves the store exactly as it was. Values handed out are copies.
//
// Stores do not validate input or check authorization beyond id matching and
// email uniqueness; that is left to the caller (see package policy).
package services
