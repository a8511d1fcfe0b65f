package commands

import "net/http"

var (
	poolConnParams = []Param{
		{Name: "host", Usage: "Pool host, the part after stratum+tcp://", Required: true},
		{Name: "port", Kind: KindInt, Usage: "Pool port", Required: true},
		{Name: "user", Usage: "Worker name", Required: true},
		{Name: "pass", Usage: "Worker password"},
	}

	priorityParam = Param{Name: "priority", Kind: KindInt, Usage: "Pool priority, 0-4"}
)

func withParams(base []Param, extra ...Param) []Param {
	out := make([]Param, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

// Catalog is every operation the CLI exposes.
var Catalog = []Command{
	{Name: "whoami", Method: http.MethodGet, Path: "/whoami", Usage: "Test connectivity and show the authenticated account"},
	{Name: "pricing", Method: http.MethodGet, Path: "/pricing", Usage: "Show marketplace pricing"},

	{Group: "info", Name: "servers", Method: http.MethodGet, Path: "/info/servers", Usage: "List MRR rig servers"},
	{Group: "info", Name: "algos", Method: http.MethodGet, Path: "/info/algos", Usage: "List algorithms with pricing and rented hash statistics",
		Params: []Param{{Name: "currency", Usage: "Currency for price figures (BTC, LTC, ETH, DASH)"}}},
	{Group: "info", Name: "algo", Method: http.MethodGet, Path: "/info/algos/{algo}", Usage: "Show statistics for one algorithm",
		Params: []Param{{Name: "currency", Usage: "Currency for price figures (BTC, LTC, ETH, DASH)"}}},
	{Group: "info", Name: "currencies", Method: http.MethodGet, Path: "/info/currencies", Usage: "List payment currencies known to the marketplace"},

	{Group: "account", Name: "show", Method: http.MethodGet, Path: "/account", Usage: "Show account details"},
	{Group: "account", Name: "balance", Method: http.MethodGet, Path: "/account/balance", Usage: "Show account balances"},
	{Group: "account", Name: "transactions", Method: http.MethodGet, Path: "/account/transactions", Usage: "List account transactions",
		Params: []Param{
			{Name: "start", Kind: KindInt, Usage: "Offset for pagination"},
			{Name: "limit", Kind: KindInt, Usage: "Page size"},
			{Name: "algo", Usage: "Filter by algorithm"},
			{Name: "type", Usage: "One of credit, payout, referral, deposit, payment, credit/refund, debit/refund, rental fee"},
			{Name: "rig", Kind: KindInt, Usage: "Filter to a rig ID"},
			{Name: "rental", Kind: KindInt, Usage: "Filter to a rental ID"},
			{Name: "txid", Usage: "Filter to a transaction ID"},
			{Name: "time_greater_eq", Usage: "Unix timestamp lower bound"},
			{Name: "time_less_eq", Usage: "Unix timestamp upper bound"},
		}},
	{Group: "account", Name: "profiles", Method: http.MethodGet, Path: "/account/profile", Usage: "List pool profiles",
		Params: []Param{{Name: "algo", Usage: "Filter by algorithm"}}},
	{Group: "account", Name: "profile-create", Method: http.MethodPut, Path: "/account/profile", Usage: "Create a pool profile",
		Params: []Param{
			{Name: "name", Usage: "Profile name", Required: true},
			{Name: "algo", Usage: "Algorithm, see info algos", Required: true},
		}},
	{Group: "account", Name: "profile", Method: http.MethodGet, Path: "/account/profile/{id}", Usage: "Show a pool profile"},
	{Group: "account", Name: "profile-add-pool", Method: http.MethodPut, Path: "/account/profile/{id}", Usage: "Add a pool to a profile",
		Params: []Param{
			{Name: "poolid", Kind: KindInt, Usage: "Pool ID, see account pools", Required: true},
			{Name: "priority", Kind: KindInt, Usage: "Pool priority, 0-4", Required: true},
		}},
	{Group: "account", Name: "profile-set-pool", Method: http.MethodPut, Path: "/account/profile/{id}/{priority}", Usage: "Replace the pool at a profile priority",
		Params: []Param{{Name: "poolid", Kind: KindInt, Usage: "Pool ID, see account pools", Required: true}}},
	{Group: "account", Name: "profile-delete", Method: http.MethodDelete, Path: "/account/profile/{id}", Usage: "Delete a pool profile"},
	{Group: "account", Name: "pool-test", Method: http.MethodPut, Path: "/account/pool/test", Usage: "Test a pool connection from an MRR server",
		Params: []Param{
			{Name: "method", Usage: "simple or full", Required: true},
			{Name: "extramethod", Usage: "ether_stratum mode, one of esm0, esm1, esm2, esm3"},
			{Name: "type", Usage: "Algorithm type, required for the full method"},
			{Name: "host", Usage: "Pool host, may include port", Required: true},
			{Name: "port", Kind: KindInt, Usage: "Pool port when host has none"},
			{Name: "user", Usage: "Worker name, required for the full method"},
			{Name: "pass", Usage: "Worker password, required for the full method"},
			{Name: "source", Usage: "MRR server to test from, e.g. us-central01"},
		}},
	{Group: "account", Name: "pools", Method: http.MethodGet, Path: "/account/pool", Usage: "List saved pools"},
	{Group: "account", Name: "pool", Method: http.MethodGet, Path: "/account/pool/{ids}", Usage: "Show saved pools"},
	{Group: "account", Name: "pool-create", Method: http.MethodPut, Path: "/account/pool", Usage: "Save a pool",
		Params: withParams(poolConnParams,
			Param{Name: "type", Usage: "Pool algorithm, e.g. sha256", Required: true},
			Param{Name: "name", Usage: "Name to identify the pool", Required: true},
			Param{Name: "note", Usage: "Free-form note"},
		)},
	{Group: "account", Name: "pool-update", Method: http.MethodPut, Path: "/account/pool/{ids}", Usage: "Update saved pools",
		Params: []Param{
			{Name: "name", Usage: "Name to identify the pool"},
			{Name: "host", Usage: "Pool host"},
			{Name: "port", Kind: KindInt, Usage: "Pool port"},
			{Name: "user", Usage: "Worker name"},
			{Name: "pass", Usage: "Worker password"},
			{Name: "note", Usage: "Free-form note"},
		}},
	{Group: "account", Name: "pool-delete", Method: http.MethodDelete, Path: "/account/pool/{ids}", Usage: "Delete saved pools"},
	{Group: "account", Name: "currencies", Method: http.MethodGet, Path: "/account/currencies", Usage: "Show currency enablement for this account"},

	{Group: "rig", Name: "list", Method: http.MethodGet, Path: "/rig", Usage: "Search rigs on the marketplace",
		Params: []Param{{Name: "type", Usage: "Algorithm, e.g. sha256", Required: true}}},
	{Group: "rig", Name: "mine", Method: http.MethodGet, Path: "/rig/mine", Usage: "List your rigs",
		Params: []Param{
			{Name: "type", Usage: "Filter by algorithm"},
			{Name: "hashrate", Kind: KindBool, Usage: "Include hashrate statistics"},
		}},
	{Group: "rig", Name: "get", Method: http.MethodGet, Path: "/rig/{ids}", Usage: "Show rigs"},
	{Group: "rig", Name: "create", Method: http.MethodPut, Path: "/rig", Usage: "Create a rig",
		Params: []Param{
			{Name: "name", Usage: "Rig name", Required: true},
			{Name: "server", Usage: "Server name, see info servers", Required: true},
		}},
	{Group: "rig", Name: "batch", Method: http.MethodPost, Path: "/rig/batch", Usage: "Update rigs in batch",
		Params: []Param{{Name: "id", Kind: KindInt, Usage: "Rig ID", Required: true}}},
	{Group: "rig", Name: "delete", Method: http.MethodDelete, Path: "/rig/{ids}", Usage: "Delete rigs"},
	{Group: "rig", Name: "extend", Method: http.MethodPut, Path: "/rig/{ids}/extend", Usage: "Extend the current rental of rigs",
		Params: []Param{
			{Name: "hours", Kind: KindFloat, Usage: "Hours to extend by"},
			{Name: "minutes", Kind: KindFloat, Usage: "Minutes to extend by"},
		}},
	{Group: "rig", Name: "batch-extend", Method: http.MethodPost, Path: "/rig/batch/extend", Usage: "Extend rentals on rigs in batch",
		Params: []Param{
			{Name: "id", Kind: KindInt, Usage: "Rig ID", Required: true},
			{Name: "hours", Kind: KindFloat, Usage: "Hours to extend by"},
			{Name: "minutes", Kind: KindFloat, Usage: "Minutes to extend by"},
		}},
	{Group: "rig", Name: "profile", Method: http.MethodPut, Path: "/rig/{ids}/profile", Usage: "Apply a pool profile to rigs",
		Params: []Param{{Name: "profile", Kind: KindInt, Usage: "Profile ID, see account profiles", Required: true}}},
	{Group: "rig", Name: "pool", Method: http.MethodGet, Path: "/rig/{ids}/pool", Usage: "Show pools on rigs"},
	{Group: "rig", Name: "pool-set", Method: http.MethodPut, Path: "/rig/{ids}/pool", Usage: "Add or replace a pool on rigs",
		Params: withParams(poolConnParams, priorityParam)},
	{Group: "rig", Name: "pool-delete", Method: http.MethodDelete, Path: "/rig/{ids}/pool", Usage: "Remove a pool from rigs",
		Params: []Param{{Name: "priority", Kind: KindInt, Usage: "Pool priority, 0-4", Required: true}}},
	{Group: "rig", Name: "port", Method: http.MethodGet, Path: "/rig/{ids}/port", Usage: "Show the stratum port for rigs"},
	{Group: "rig", Name: "threads", Method: http.MethodGet, Path: "/rig/{ids}/threads", Usage: "Show active worker threads on rigs"},
	{Group: "rig", Name: "graph", Method: http.MethodGet, Path: "/rig/{ids}/graph", Usage: "Show hashrate graph data for rigs",
		Params: []Param{{Name: "hours", Kind: KindFloat, Usage: "Hours of history"}}},

	{Group: "riggroup", Name: "list", Method: http.MethodGet, Path: "/riggroup", Usage: "List rig groups"},
	{Group: "riggroup", Name: "create", Method: http.MethodPut, Path: "/riggroup", Usage: "Create a rig group",
		Params: []Param{{Name: "name", Usage: "Group name", Required: true}}},
	{Group: "riggroup", Name: "get", Method: http.MethodGet, Path: "/riggroup/{id}", Usage: "Show a rig group"},
	{Group: "riggroup", Name: "update", Method: http.MethodPut, Path: "/riggroup/{id}", Usage: "Update a rig group",
		Params: []Param{
			{Name: "name", Usage: "Group name"},
			{Name: "enabled", Kind: KindInt, Usage: "1 enabled, 0 disabled"},
			{Name: "rental_limit", Kind: KindInt, Usage: "Active rentals allowed before the other rigs are disabled"},
		}},
	{Group: "riggroup", Name: "delete", Method: http.MethodDelete, Path: "/riggroup/{id}", Usage: "Delete a rig group"},
	{Group: "riggroup", Name: "add-rigs", Method: http.MethodPost, Path: "/riggroup/{id}/add/{rigids}", Usage: "Add rigs to a group"},
	{Group: "riggroup", Name: "remove-rigs", Method: http.MethodPost, Path: "/riggroup/{id}/remove/{rigids}", Usage: "Remove rigs from a group"},

	{Group: "rental", Name: "list", Method: http.MethodGet, Path: "/rental", Usage: "List rentals",
		Params: []Param{
			{Name: "type", Usage: "owner (rentals of your rigs) or renter (rentals you bought)"},
			{Name: "algo", Usage: "Filter by algorithm"},
			{Name: "history", Kind: KindBool, Usage: "true for completed rentals, false for active"},
			{Name: "rig", Kind: KindInt, Usage: "Filter to a rig ID"},
			{Name: "start", Kind: KindInt, Usage: "Offset for pagination"},
			{Name: "limit", Kind: KindInt, Usage: "Page size"},
			{Name: "currency", Usage: "Filter by paid currency (BTC, LTC, ETH, DASH)"},
		}},
	{Group: "rental", Name: "get", Method: http.MethodGet, Path: "/rental/{ids}", Usage: "Show rentals"},
	{Group: "rental", Name: "create", Method: http.MethodPut, Path: "/rental", Usage: "Rent a rig",
		Params: []Param{
			{Name: "rig", Kind: KindInt, Usage: "Rig ID to rent", Required: true},
			{Name: "length", Kind: KindFloat, Usage: "Length in hours", Required: true},
			{Name: "profile", Kind: KindInt, Usage: "Profile ID to apply", Required: true},
			{Name: "currency", Usage: "Payment currency (BTC, LTC, ETH, DASH)"},
			{Name: "rate.type", Usage: "Hash unit of rate.price: hash, kh, mh, gh, th"},
			{Name: "rate.price", Kind: KindFloat, Usage: "Maximum price per rate.type per day"},
		}},
	{Group: "rental", Name: "profile", Method: http.MethodPut, Path: "/rental/{ids}/profile", Usage: "Apply a pool profile to rentals",
		Params: []Param{{Name: "profile", Kind: KindInt, Usage: "Profile ID, see account profiles", Required: true}}},
	{Group: "rental", Name: "pool", Method: http.MethodGet, Path: "/rental/{ids}/pool", Usage: "Show pools on rentals"},
	{Group: "rental", Name: "pool-set", Method: http.MethodPut, Path: "/rental/{ids}/pool", Usage: "Add or replace a pool on rentals",
		Params: withParams(poolConnParams, priorityParam)},
	{Group: "rental", Name: "pool-delete", Method: http.MethodDelete, Path: "/rental/{ids}/pool", Usage: "Remove a pool from rentals",
		Params: []Param{{Name: "priority", Kind: KindInt, Usage: "Pool priority, 0-4", Required: true}}},
	{Group: "rental", Name: "extend", Method: http.MethodPut, Path: "/rental/{ids}/extend", Usage: "Buy an extension for rentals",
		Params: []Param{{Name: "length", Kind: KindFloat, Usage: "Hours to add", Required: true}}},
	{Group: "rental", Name: "graph", Method: http.MethodGet, Path: "/rental/{ids}/graph", Usage: "Show hashrate graph data for rentals",
		Params: []Param{{Name: "hours", Kind: KindFloat, Usage: "Hours of history"}}},
	{Group: "rental", Name: "log", Method: http.MethodGet, Path: "/rental/{ids}/log", Usage: "Show rental activity logs"},
	{Group: "rental", Name: "messages", Method: http.MethodGet, Path: "/rental/{ids}/message", Usage: "Show rental messages"},
	{Group: "rental", Name: "message", Method: http.MethodPut, Path: "/rental/{ids}/message", Usage: "Add a message to rentals",
		Params: []Param{{Name: "message", Usage: "Message text", Required: true}}},
}

// Builtin is the registry of Catalog.
var Builtin = NewRegistry(Catalog...)
