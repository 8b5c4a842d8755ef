// Package container holds the live notices of a request and synchronises
// them with a flashed snapshot.
//
// Notices are grouped by type into ordered buckets keyed by id. Every write
// through Save or Store re-reads the whole snapshot from the SnapshotStore,
// updates one slot and writes the whole snapshot back; the store has no
// partial update. Boot merges the snapshot flashed by the previous request
// into memory so notices created before a redirect are visible after it.
//
// Operations on a type that was never registered fail with ErrUnknownType
// before anything is mutated. The boolean queries HasAny, Has and HasMessage
// report false instead.
//
//	c := container.New(store, container.WithTypes("success", "error"))
//	if err := c.Boot(ctx); err != nil {
//		return err
//	}
//	id, _ := c.MakeNewID("success", "")
//	n := notice.New("success", id, true).AddMessage("Saved")
//	_, err := c.Save(ctx, n)
package container
