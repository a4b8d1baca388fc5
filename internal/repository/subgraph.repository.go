package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"

	"poolreturns/internal/domain"
	"poolreturns/internal/logger"
)

// snapshotPageSize matches the subgraph's max page size.
const snapshotPageSize = 1000

// SubgraphRepository reads ledger state from the pool subgraph. It is
// a stateless point-in-time oracle: nothing is cached, every call is a
// fresh read.
type SubgraphRepository interface {
	// Pool fetches the live state of one pool.
	Pool(ctx context.Context, id string) (*domain.Pool, error)
	// NativePriceUSD fetches the current reference-asset price.
	NativePriceUSD(ctx context.Context) (float64, error)
	// UserSnapshots fetches every liquidity position snapshot for a
	// user, across all pools, in timestamp order.
	UserSnapshots(ctx context.Context, user string) ([]domain.PositionSnapshot, error)
	// MintsAndBurns fetches the deposit/withdraw event history for one
	// (user, pool) pair.
	MintsAndBurns(ctx context.Context, user, pool string) (domain.MintsAndBurns, error)
	// PoolShareValues resolves each timestamp to a historical pool
	// state, in a single batched request.
	PoolShareValues(ctx context.Context, poolID string, timestamps []int64) (map[int64]domain.ShareValue, error)
}

type SubgraphRepositoryHandler struct {
	URL    string
	Client *http.Client
	// retry attempts per request; transport-level resilience lives
	// here, not in the calculation core
	MaxTries uint
}

func NewSubgraphRepository(url string) SubgraphRepository {
	return &SubgraphRepositoryHandler{
		URL:      url,
		Client:   &http.Client{Timeout: 30 * time.Second},
		MaxTries: 3,
	}
}

type graphRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphError struct {
	Message string `json:"message"`
}

type graphResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphError    `json:"errors"`
}

// query posts one GraphQL document and decodes the data payload into
// out. 5xx responses are retried with exponential backoff; graph-level
// errors are permanent.
func (h SubgraphRepositoryHandler) query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal subgraph query: %w", err)
	}

	operation := func() (json.RawMessage, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := h.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("subgraph returned %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("subgraph returned %d: %s", resp.StatusCode, respBody))
		}

		var decoded graphResponse
		if err := json.Unmarshal(respBody, &decoded); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to decode subgraph response: %w", err))
		}
		if len(decoded.Errors) > 0 {
			return nil, backoff.Permanent(fmt.Errorf("subgraph query failed: %s", decoded.Errors[0].Message))
		}
		return decoded.Data, nil
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(h.MaxTries),
		backoff.WithNotify(func(err error, d time.Duration) {
			logger.FromContext(ctx).Warnw("retrying subgraph query", "error", err, "backoff", d)
		}),
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode subgraph data: %w", err)
	}
	return nil
}

// the subgraph serves all numerics as strings
type numeric string

func (n numeric) float() (float64, error) {
	d, err := n.decimal()
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

func (n numeric) decimal() (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse subgraph numeric %q: %w", n, err)
	}
	return d, nil
}

type poolDTO struct {
	ID                 string  `json:"id"`
	Reserve            numeric `json:"reserve"`
	ReserveUSD         numeric `json:"reserveUSD"`
	TotalSupply        numeric `json:"totalSupply"`
	CreatedAtTimestamp numeric `json:"createdAtTimestamp"`
	Token              struct {
		ID         string  `json:"id"`
		DerivedETH numeric `json:"derivedETH"`
	} `json:"token"`
}

func (dto poolDTO) toDomain() (*domain.Pool, error) {
	pool := &domain.Pool{
		ID: dto.ID,
		Token: domain.Token{
			ID: dto.Token.ID,
		},
	}
	var err error
	if pool.Reserve, err = dto.Reserve.float(); err != nil {
		return nil, err
	}
	if pool.ReserveUSD, err = dto.ReserveUSD.float(); err != nil {
		return nil, err
	}
	if pool.TotalSupply, err = dto.TotalSupply.float(); err != nil {
		return nil, err
	}
	if pool.Token.DerivedETH, err = dto.Token.DerivedETH.float(); err != nil {
		return nil, err
	}
	if dto.CreatedAtTimestamp != "" {
		created, err := dto.CreatedAtTimestamp.decimal()
		if err != nil {
			return nil, err
		}
		pool.CreatedAtTimestamp = created.IntPart()
	}
	return pool, nil
}

const poolQuery = `
query pool($id: ID!) {
  pool(id: $id) {
    id
    reserve
    reserveUSD
    totalSupply
    createdAtTimestamp
    token {
      id
      derivedETH
    }
  }
}`

func (h SubgraphRepositoryHandler) Pool(ctx context.Context, id string) (*domain.Pool, error) {
	var out struct {
		Pool *poolDTO `json:"pool"`
	}
	err := h.query(ctx, poolQuery, map[string]any{"id": id}, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pool %s: %w", id, err)
	}
	if out.Pool == nil {
		return nil, fmt.Errorf("pool %s not found", id)
	}
	return out.Pool.toDomain()
}

const nativePriceQuery = `
query bundles {
  bundles(where: { id: "1" }) {
    ethPrice
  }
}`

func (h SubgraphRepositoryHandler) NativePriceUSD(ctx context.Context) (float64, error) {
	var out struct {
		Bundles []struct {
			EthPrice numeric `json:"ethPrice"`
		} `json:"bundles"`
	}
	err := h.query(ctx, nativePriceQuery, nil, &out)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch native price: %w", err)
	}
	if len(out.Bundles) == 0 {
		return 0, fmt.Errorf("no price bundle indexed")
	}
	return out.Bundles[0].EthPrice.float()
}

type snapshotDTO struct {
	Timestamp                 numeric `json:"timestamp"`
	LiquidityTokenBalance     numeric `json:"liquidityTokenBalance"`
	LiquidityTokenTotalSupply numeric `json:"liquidityTokenTotalSupply"`
	Reserve                   numeric `json:"reserve"`
	ReserveUSD                numeric `json:"reserveUSD"`
	TokenPriceUSD             numeric `json:"tokenPriceUSD"`
	Pool                      struct {
		ID    string `json:"id"`
		Token struct {
			ID string `json:"id"`
		} `json:"token"`
	} `json:"pool"`
}

func (dto snapshotDTO) toDomain() (domain.PositionSnapshot, error) {
	snapshot := domain.PositionSnapshot{
		PoolID:  dto.Pool.ID,
		TokenID: dto.Pool.Token.ID,
	}
	timestamp, err := dto.Timestamp.decimal()
	if err != nil {
		return snapshot, err
	}
	snapshot.Timestamp = timestamp.IntPart()
	if snapshot.LiquidityTokenBalance, err = dto.LiquidityTokenBalance.float(); err != nil {
		return snapshot, err
	}
	if snapshot.LiquidityTokenTotalSupply, err = dto.LiquidityTokenTotalSupply.float(); err != nil {
		return snapshot, err
	}
	if snapshot.Reserve, err = dto.Reserve.float(); err != nil {
		return snapshot, err
	}
	if snapshot.ReserveUSD, err = dto.ReserveUSD.float(); err != nil {
		return snapshot, err
	}
	if snapshot.TokenPriceUSD, err = dto.TokenPriceUSD.float(); err != nil {
		return snapshot, err
	}
	return snapshot, nil
}

const userSnapshotsQuery = `
query snapshots($user: Bytes!, $skip: Int!) {
  liquidityPositionSnapshots(first: 1000, skip: $skip, where: { user: $user }, orderBy: timestamp, orderDirection: asc) {
    timestamp
    reserveUSD
    liquidityTokenBalance
    liquidityTokenTotalSupply
    reserve
    tokenPriceUSD
    pool {
      id
      token {
        id
      }
    }
  }
}`

func (h SubgraphRepositoryHandler) UserSnapshots(ctx context.Context, user string) ([]domain.PositionSnapshot, error) {
	snapshots := []domain.PositionSnapshot{}
	for skip := 0; ; skip += snapshotPageSize {
		var out struct {
			Snapshots []snapshotDTO `json:"liquidityPositionSnapshots"`
		}
		err := h.query(ctx, userSnapshotsQuery, map[string]any{"user": user, "skip": skip}, &out)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch snapshots for %s: %w", user, err)
		}
		for _, dto := range out.Snapshots {
			snapshot, err := dto.toDomain()
			if err != nil {
				return nil, err
			}
			snapshots = append(snapshots, snapshot)
		}
		if len(out.Snapshots) < snapshotPageSize {
			return snapshots, nil
		}
	}
}

type eventDTO struct {
	Amount    numeric `json:"amount"`
	AmountUSD numeric `json:"amountUSD"`
	Timestamp numeric `json:"timestamp"`
	Pool      struct {
		Token struct {
			ID string `json:"id"`
		} `json:"token"`
	} `json:"pool"`
}

func (dto eventDTO) toDomain() (domain.MintOrBurn, error) {
	event := domain.MintOrBurn{
		TokenID: dto.Pool.Token.ID,
	}
	var err error
	if event.Amount, err = dto.Amount.decimal(); err != nil {
		return event, err
	}
	if event.AmountUSD, err = dto.AmountUSD.decimal(); err != nil {
		return event, err
	}
	timestamp, err := dto.Timestamp.decimal()
	if err != nil {
		return event, err
	}
	event.Timestamp = timestamp.IntPart()
	return event, nil
}

const mintsAndBurnsQuery = `
query events($user: Bytes!, $pool: Bytes!) {
  mints(where: { to: $user, pool: $pool }) {
    amountUSD
    amount
    timestamp
    pool {
      token {
        id
      }
    }
  }
  burns(where: { sender: $user, pool: $pool }) {
    amountUSD
    amount
    timestamp
    pool {
      token {
        id
      }
    }
  }
}`

func (h SubgraphRepositoryHandler) MintsAndBurns(ctx context.Context, user, pool string) (domain.MintsAndBurns, error) {
	var out struct {
		Mints []eventDTO `json:"mints"`
		Burns []eventDTO `json:"burns"`
	}
	err := h.query(ctx, mintsAndBurnsQuery, map[string]any{"user": user, "pool": pool}, &out)
	if err != nil {
		return domain.MintsAndBurns{}, fmt.Errorf("failed to fetch events for %s on %s: %w", user, pool, err)
	}

	result := domain.MintsAndBurns{
		Mints: []domain.MintOrBurn{},
		Burns: []domain.MintOrBurn{},
	}
	for _, dto := range out.Mints {
		event, err := dto.toDomain()
		if err != nil {
			return domain.MintsAndBurns{}, err
		}
		result.Mints = append(result.Mints, event)
	}
	for _, dto := range out.Burns {
		event, err := dto.toDomain()
		if err != nil {
			return domain.MintsAndBurns{}, err
		}
		result.Burns = append(result.Burns, event)
	}
	return result, nil
}

type shareValueDTO struct {
	Reserve     numeric `json:"reserve"`
	ReserveUSD  numeric `json:"reserveUSD"`
	TotalSupply numeric `json:"totalSupply"`
	Token       struct {
		DerivedETH numeric `json:"derivedETH"`
	} `json:"token"`
}

// PoolShareValues issues a single aliased query covering every
// requested timestamp, so a long day walk costs one round trip instead
// of one per day. Timestamps the subgraph has no state for are simply
// absent from the result.
func (h SubgraphRepositoryHandler) PoolShareValues(ctx context.Context, poolID string, timestamps []int64) (map[int64]domain.ShareValue, error) {
	shareValues := map[int64]domain.ShareValue{}
	if len(timestamps) == 0 {
		return shareValues, nil
	}

	// one aliased sub-query per timestamp, resolved by the subgraph to
	// the nearest applicable block
	var query strings.Builder
	query.WriteString("query shareValues {")
	for _, timestamp := range timestamps {
		fmt.Fprintf(&query, `
  t%d: pool(id: %q, block: { timestamp_gte: %d }) {
    reserve
    reserveUSD
    totalSupply
    token {
      derivedETH
    }
  }
  b%d: bundle(id: "1", block: { timestamp_gte: %d }) {
    ethPrice
  }`, timestamp, poolID, timestamp, timestamp, timestamp)
	}
	query.WriteString("\n}")

	var out map[string]json.RawMessage
	if err := h.query(ctx, query.String(), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch share values for %s: %w", poolID, err)
	}

	for _, timestamp := range timestamps {
		poolRaw, ok := out[fmt.Sprintf("t%d", timestamp)]
		if !ok || string(poolRaw) == "null" {
			continue
		}
		var dto shareValueDTO
		if err := json.Unmarshal(poolRaw, &dto); err != nil {
			return nil, fmt.Errorf("failed to decode share value at %d: %w", timestamp, err)
		}

		shareValue := domain.ShareValue{}
		var err error
		if shareValue.Reserve, err = dto.Reserve.float(); err != nil {
			return nil, err
		}
		if shareValue.ReserveUSD, err = dto.ReserveUSD.float(); err != nil {
			return nil, err
		}
		if shareValue.TotalSupply, err = dto.TotalSupply.float(); err != nil {
			return nil, err
		}
		if shareValue.DerivedETH, err = dto.Token.DerivedETH.float(); err != nil {
			return nil, err
		}

		if bundleRaw, ok := out[fmt.Sprintf("b%d", timestamp)]; ok && string(bundleRaw) != "null" {
			var bundle struct {
				EthPrice numeric `json:"ethPrice"`
			}
			if err := json.Unmarshal(bundleRaw, &bundle); err != nil {
				return nil, fmt.Errorf("failed to decode price bundle at %d: %w", timestamp, err)
			}
			if shareValue.NativePriceUSD, err = bundle.EthPrice.float(); err != nil {
				return nil, err
			}
		}

		shareValues[timestamp] = shareValue
	}

	return shareValues, nil
}
