// Package preview estimates container flows and vehicle capacities before the
// full generation runs.
//
// Every preview is built from an Input loaded once from the schedule
// repository and the distribution store. A preview keeps its own copy of the
// mode of transport distribution so Hypothesize can try other distributions
// without affecting the scenario or any other preview instance.
//
// The previews are chained: the flow is derived from the inbound capacity and
// the comparison of required and maximum capacity is derived from the flow.
package preview
