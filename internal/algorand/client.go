// Package algorand is a REST client for the algod node API and the indexer
// API, covering the read-only endpoints the explorer dashboard needs.
package algorand

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/algoranarchy/algoranarchy/internal/domain"
)

const requestTimeout = 10 * time.Second

// statsBlockWindow is how many recent blocks feed the block-time and TPS
// estimates in NetworkStats.
const statsBlockWindow = 10

// Client talks to one algod node and one indexer.
type Client struct {
	algodURL   string
	indexerURL string
	token      string
	httpClient *http.Client
}

// NewClient creates an Algorand client. token may be empty for public
// endpoints; when set it is sent as X-Algo-API-Token.
func NewClient(algodURL, indexerURL, token string) *Client {
	return &Client{
		algodURL:   algodURL,
		indexerURL: indexerURL,
		token:      token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Status returns the node's sync status.
func (c *Client) Status(ctx context.Context) (domain.NodeStatus, error) {
	body, err := c.get(ctx, c.algodURL, "/v2/status")
	if err != nil {
		return domain.NodeStatus{}, fmt.Errorf("algorand: status: %w", err)
	}

	var resp struct {
		LastRound          uint64 `json:"last-round"`
		TimeSinceLastRound int64  `json:"time-since-last-round"`
		CatchupTime        int64  `json:"catchup-time"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.NodeStatus{}, fmt.Errorf("algorand: decode status: %w", err)
	}

	return domain.NodeStatus{
		LastRound:          resp.LastRound,
		TimeSinceLastRound: time.Duration(resp.TimeSinceLastRound),
		CatchupTime:        time.Duration(resp.CatchupTime),
	}, nil
}

// Supply returns the ledger supply.
func (c *Client) Supply(ctx context.Context) (domain.LedgerSupply, error) {
	body, err := c.get(ctx, c.algodURL, "/v2/ledger/supply")
	if err != nil {
		return domain.LedgerSupply{}, fmt.Errorf("algorand: supply: %w", err)
	}

	var resp struct {
		Round       uint64 `json:"current_round"`
		TotalMoney  uint64 `json:"total-money"`
		OnlineMoney uint64 `json:"online-money"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.LedgerSupply{}, fmt.Errorf("algorand: decode supply: %w", err)
	}

	return domain.LedgerSupply{
		Round:       resp.Round,
		TotalMoney:  resp.TotalMoney,
		OnlineMoney: resp.OnlineMoney,
	}, nil
}

// BlockByRound returns a summarized block.
func (c *Client) BlockByRound(ctx context.Context, round uint64) (domain.Block, error) {
	body, err := c.get(ctx, c.algodURL, "/v2/blocks/"+strconv.FormatUint(round, 10))
	if err != nil {
		return domain.Block{}, fmt.Errorf("algorand: block %d: %w", round, err)
	}

	var resp struct {
		Block struct {
			Round     uint64            `json:"rnd"`
			Timestamp int64             `json:"ts"`
			Txns      []json.RawMessage `json:"txns"`
		} `json:"block"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Block{}, fmt.Errorf("algorand: decode block %d: %w", round, err)
	}

	return domain.Block{
		Round:     resp.Block.Round,
		Timestamp: time.Unix(resp.Block.Timestamp, 0).UTC(),
		TxnCount:  len(resp.Block.Txns),
	}, nil
}

// LatestBlocks returns up to count most recent blocks, newest first.
// Individual rounds that fail to fetch are skipped rather than failing the
// whole listing.
func (c *Client) LatestBlocks(ctx context.Context, count int) ([]domain.Block, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 1
	}
	if uint64(count) > status.LastRound {
		count = int(status.LastRound)
	}

	results := make([]*domain.Block, count)
	var g errgroup.Group
	for i := 0; i < count; i++ {
		round := status.LastRound - uint64(i)
		g.Go(func() error {
			b, err := c.BlockByRound(ctx, round)
			if err != nil {
				return nil
			}
			results[i] = &b
			return nil
		})
	}
	_ = g.Wait()

	blocks := make([]domain.Block, 0, count)
	for _, b := range results {
		if b != nil {
			blocks = append(blocks, *b)
		}
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Round > blocks[j].Round })
	return blocks, nil
}

// LatestTransactions returns the most recent transactions from the indexer.
func (c *Client) LatestTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, c.indexerURL, "/v2/transactions?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("algorand: transactions: %w", err)
	}

	var resp struct {
		Transactions []txnPayload `json:"transactions"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("algorand: decode transactions: %w", err)
	}

	txns := make([]domain.Transaction, 0, len(resp.Transactions))
	for _, t := range resp.Transactions {
		txns = append(txns, t.toDomain())
	}
	return txns, nil
}

type txnPayload struct {
	ID             string `json:"id"`
	TxType         string `json:"tx-type"`
	Sender         string `json:"sender"`
	Fee            uint64 `json:"fee"`
	ConfirmedRound uint64 `json:"confirmed-round"`
	RoundTime      int64  `json:"round-time"`
	Payment        *struct {
		Receiver string `json:"receiver"`
		Amount   uint64 `json:"amount"`
	} `json:"payment-transaction"`
	AssetTransfer *struct {
		Receiver string `json:"receiver"`
		Amount   uint64 `json:"amount"`
	} `json:"asset-transfer-transaction"`
}

func (t txnPayload) toDomain() domain.Transaction {
	txn := domain.Transaction{
		ID:        t.ID,
		Type:      t.TxType,
		Sender:    t.Sender,
		Fee:       t.Fee,
		Round:     t.ConfirmedRound,
		RoundTime: time.Unix(t.RoundTime, 0).UTC(),
	}
	switch {
	case t.Payment != nil:
		txn.Receiver = t.Payment.Receiver
		txn.Amount = t.Payment.Amount
	case t.AssetTransfer != nil:
		txn.Receiver = t.AssetTransfer.Receiver
		txn.Amount = t.AssetTransfer.Amount
	}
	return txn
}

type assetPayload struct {
	Index  uint64 `json:"index"`
	Params struct {
		Name     string `json:"name"`
		UnitName string `json:"unit-name"`
		Decimals uint   `json:"decimals"`
	} `json:"params"`
}

func (a assetPayload) toDomain() domain.AssetDescriptor {
	symbol := a.Params.UnitName
	if symbol == "" {
		symbol = fmt.Sprintf("ASA-%d", a.Index)
	}
	name := a.Params.Name
	if name == "" {
		name = fmt.Sprintf("Asset %d", a.Index)
	}
	return domain.AssetDescriptor{
		ID:       a.Index,
		Symbol:   symbol,
		Name:     name,
		Decimals: a.Params.Decimals,
	}
}

// AssetByID looks up an asset's on-chain parameters via the indexer.
func (c *Client) AssetByID(ctx context.Context, id uint64) (domain.AssetDescriptor, error) {
	body, err := c.get(ctx, c.indexerURL, "/v2/assets/"+strconv.FormatUint(id, 10))
	if err != nil {
		return domain.AssetDescriptor{}, fmt.Errorf("algorand: asset %d: %w", id, err)
	}

	var resp struct {
		Asset assetPayload `json:"asset"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.AssetDescriptor{}, fmt.Errorf("algorand: decode asset %d: %w", id, err)
	}
	return resp.Asset.toDomain(), nil
}

// SearchAssets searches assets by name via the indexer.
func (c *Client) SearchAssets(ctx context.Context, query string, limit int) ([]domain.AssetDescriptor, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("name", query)
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, c.indexerURL, "/v2/assets?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("algorand: search assets: %w", err)
	}

	var resp struct {
		Assets []assetPayload `json:"assets"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("algorand: decode asset search: %w", err)
	}

	assets := make([]domain.AssetDescriptor, 0, len(resp.Assets))
	for _, a := range resp.Assets {
		assets = append(assets, a.toDomain())
	}
	return assets, nil
}

// NetworkStats derives a dashboard summary from node status, ledger supply,
// and a window of recent blocks.
func (c *Client) NetworkStats(ctx context.Context) (domain.NetworkStats, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return domain.NetworkStats{}, err
	}

	stats := domain.NetworkStats{LastRound: status.LastRound}

	if supply, err := c.Supply(ctx); err == nil {
		stats.TotalSupply = supply.TotalMoney
		stats.OnlineStake = supply.OnlineMoney
	}

	blocks, err := c.LatestBlocks(ctx, statsBlockWindow)
	if err != nil || len(blocks) < 2 {
		return stats, nil
	}

	newest := blocks[0].Timestamp
	oldest := blocks[len(blocks)-1].Timestamp
	span := newest.Sub(oldest).Seconds()
	if span <= 0 {
		return stats, nil
	}

	totalTxns := 0
	for _, b := range blocks {
		totalTxns += b.TxnCount
	}

	stats.AvgBlockTime = span / float64(len(blocks)-1)
	stats.TPS = float64(totalTxns) / span
	return stats, nil
}

// get sends a single GET request against the given API root.
func (c *Client) get(ctx context.Context, base, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("X-Algo-API-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return body, nil
}
