// Package binding connects consumers (views, commands) to a store.
//
// A Provider owns the pairing of one state.Store with one
// throttle.Scheduler. Consumers bind to it with Connect, supplying named
// selectors to read with and named actions to write with. Props re-evaluates
// the selectors on each call; Invoke runs an action through the store and
// returns only after the scheduler has fired a render cycle that includes
// the result, so a caller that continues after Invoke knows every renderer
// has had a chance to react.
//
// Hook is the same binding in imperative form for consumers without their
// own render loop: it keeps the last selection and refreshes it from the
// state each Invoke returns.
package binding
