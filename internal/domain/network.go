package domain

import "time"

// NodeStatus is the health snapshot of an algod node.
type NodeStatus struct {
	LastRound          uint64        `json:"last_round"`
	TimeSinceLastRound time.Duration `json:"time_since_last_round"`
	CatchupTime        time.Duration `json:"catchup_time"`
	Version            string        `json:"version,omitempty"`
}

// LedgerSupply is the total and online money on the ledger in microalgos.
type LedgerSupply struct {
	Round       uint64 `json:"round"`
	TotalMoney  uint64 `json:"total_money"`
	OnlineMoney uint64 `json:"online_money"`
}

// Block is a summarized Algorand block.
type Block struct {
	Round     uint64    `json:"round"`
	Timestamp time.Time `json:"timestamp"`
	TxnCount  int       `json:"txn_count"`
	Proposer  string    `json:"proposer,omitempty"`
}

// Transaction is a summarized on-ledger transaction from the indexer.
type Transaction struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver,omitempty"`
	Amount    uint64    `json:"amount"`
	Fee       uint64    `json:"fee"`
	Round     uint64    `json:"round"`
	RoundTime time.Time `json:"round_time"`
}

// NetworkStats is a derived overview of chain activity for the dashboard.
type NetworkStats struct {
	LastRound    uint64  `json:"last_round"`
	AvgBlockTime float64 `json:"avg_block_time_seconds"`
	TPS          float64 `json:"tps"`
	TotalSupply  uint64  `json:"total_supply"`
	OnlineStake  uint64  `json:"online_stake"`
}

// SpotPrice is a fiat price point for a traded symbol.
type SpotPrice struct {
	Symbol    string    `json:"symbol"`
	PriceUSD  float64   `json:"price_usd"`
	Change24h float64   `json:"change_24h"`
	Volume24h float64   `json:"volume_24h"`
	MarketCap float64   `json:"market_cap,omitempty"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`

	// Estimated is true when every price source failed and the value is
	// a static placeholder.
	Estimated bool `json:"estimated"`
}
