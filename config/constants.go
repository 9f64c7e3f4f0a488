package config

import "notemint/types"

const (
	// TotalSupplyWholeTokens is the number of whole tokens the ledger
	// ever issues.
	TotalSupplyWholeTokens = 4_294_967_295

	// GenesisAmount is the entire initial supply in nanos, granted to
	// the genesis cash note in one output.
	GenesisAmount types.NanoTokens = TotalSupplyWholeTokens * types.NanosPerToken
)
