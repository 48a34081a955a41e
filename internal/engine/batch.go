package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/almasov/nudge/internal/common"
	"github.com/almasov/nudge/internal/model"
)

// ClientData bundles one client's inputs for a batch run.
type ClientData struct {
	Profile      model.ClientProfile
	Transactions []model.Transaction
	Transfers    []model.Transfer
}

// ClientFailure records one client's failed run.
type ClientFailure struct {
	Err        error
	ClientCode string
}

// BatchResult aggregates a batch run. Recommendations keep the input order
// of the clients that succeeded.
type BatchResult struct {
	Recommendations []model.Recommendation
	Failures        []ClientFailure
}

// RunBatch processes clients with a pool of parallel workers. One client's
// failure never halts the others; failures are collected and reported.
// The optional progress callback fires once per finished client.
func (p *Pipeline) RunBatch(ctx context.Context, clients []ClientData, workers int, progress func()) BatchResult {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(clients) {
		workers = len(clients)
	}

	type outcome struct {
		rec *model.Recommendation
		err error
		idx int
	}

	jobs := make(chan int)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				c := clients[idx]
				rec, err := p.Recommend(ctx, c.Profile, c.Transactions, c.Transfers)
				outcomes <- outcome{idx: idx, rec: rec, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range clients {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	recs := make([]*model.Recommendation, len(clients))
	var failures []ClientFailure
	for out := range outcomes {
		if out.err != nil {
			common.LogError(out.err, "client run failed, continuing batch", common.Fields{
				"client_code": clients[out.idx].Profile.ClientCode,
			})
			failures = append(failures, ClientFailure{
				ClientCode: clients[out.idx].Profile.ClientCode,
				Err:        out.err,
			})
		} else {
			recs[out.idx] = out.rec
		}
		if progress != nil {
			progress()
		}
	}

	result := BatchResult{Failures: failures}
	for _, r := range recs {
		if r != nil {
			result.Recommendations = append(result.Recommendations, *r)
		}
	}

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].ClientCode < result.Failures[j].ClientCode
	})

	common.LogInfo("batch complete", common.Fields{
		"clients":   len(clients),
		"succeeded": len(result.Recommendations),
		"failed":    len(result.Failures),
	})

	return result
}

func sortBenefitsDescending(benefits []model.ProductBenefit) {
	sort.SliceStable(benefits, func(i, j int) bool {
		if benefits[i].Benefit != benefits[j].Benefit {
			return benefits[i].Benefit > benefits[j].Benefit
		}
		return benefits[i].Product.Priority() < benefits[j].Product.Priority()
	})
}
