// Package livemodel provides per-identity broadcast channels for mutable domain models.
//
// For a model type with a stable identifier, callers obtain one shared Channel per
// identifier value, publish updates into it (directly or from in-flight asynchronous
// work), and subscribe to receive the current value followed by every later value.
//
// # Architecture
//
//   - Registry: maps identifier to a weakly held Channel. At most one live channel
//     exists per identifier; a channel nobody references is reclaimed and removed.
//   - Channel: holds the current value and the subscriber set. Values enter through
//     Ingest (a Source) or Publish (a single value).
//   - Source: a producer of values, possibly long-running. Installing a new source
//     supersedes the previous one ("latest source wins").
//   - Coalescer: merges an incoming value with the current one before publishing.
//
// # Usage
//
//	type Item struct {
//		SKU   string
//		Stock int
//	}
//
//	func (i *Item) ModelID() string { return i.SKU }
//
//	reg := livemodel.NewRegistry[*Item, string]()
//
//	ch, err := reg.Get("sku-42")
//	if err != nil {
//		return err
//	}
//
//	sub, err := ch.SubscribeFunc(func(item *Item) {
//		fmt.Println("stock:", item.Stock)
//	})
//	defer sub.Cancel()
//
//	// Immediate update: delivered before Publish returns.
//	_ = ch.Publish(&Item{SKU: "sku-42", Stock: 3})
//
//	// Asynchronous refresh: only the latest refresh may reach subscribers.
//	future, _ := ch.Ingest(ctx, livemodel.Fetch(func(ctx context.Context) (*Item, error) {
//		return store.LoadItem(ctx, "sku-42")
//	}))
//	if err := future.Await(); err != nil && !errors.Is(err, livemodel.ErrSuperseded) {
//		log.Println("refresh failed:", err)
//	}
//
// # Value Acceptance
//
// Each value emitted by the active source is checked against the channel's
// identifier, dropped if equal to the current value, merged with the current value
// by the coalescer, checked again, dropped if the merge changed nothing, and
// otherwise stored and delivered. Identity violations are returned to the
// emitting source and never change the current value.
//
// # Process-Wide Registries
//
// For, Configure and Get operate on one shared registry per model type:
//
//	livemodel.Configure[*Item, string](livemodel.WithCoalescer(livemodel.MergeNonZero[*Item]()))
//	ch, err := livemodel.Get[*Item]("sku-42")
//
// ResetAll clears all of them between tests.
//
// # Lifetime
//
// Registries hold channels through weak pointers and register a runtime cleanup
// for each channel. Once the last reference to a Channel is dropped and the garbage
// collector runs, the channel's source is cancelled, its subscribers are detached
// without notification, and its entry is removed. Subscriptions do not keep a
// channel alive; whoever cares about updates must hold the Channel.
//
// # Concurrency
//
// Registry operations share one mutex. Each channel serializes its own state
// changes and deliveries; different channels never contend. Observers are called
// one at a time per channel, in acceptance order, and never while a lock is held.
//
// # Error Handling
//
// All errors are sentinel values checked with errors.Is:
//   - ErrInvalidArgument: zero identifier, nil observer, nil source or nil model
//   - ErrIdentifierMismatch: a value for a different identifier was offered
//   - ErrCoalescingIdentityViolation: the coalescer returned a value for another identifier
//   - ErrUnsupportedOperation: Complete or Fail called on a channel
//   - ErrChannelClosed: the channel was cleared or reclaimed
//   - ErrSuperseded: a newer source replaced the one that emitted
package livemodel
